package record

import (
	"fmt"
	"math"
	"time"

	"github.com/uptrace/bun"
)

// DateLayout is the calendar-date format used for all contract dates.
const DateLayout = "2006-01-02"

type Status string

const (
	StatusActive    Status = "active"
	StatusPending   Status = "pending"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusPending, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

// Statuses returns the closed status set, in declaration order.
func Statuses() []string {
	return []string{
		string(StatusActive),
		string(StatusPending),
		string(StatusExpired),
		string(StatusCancelled),
	}
}

// Contract is the persisted record. Derived values (duration, days
// remaining, monthly amount) are never stored; see Calculate.
type Contract struct {
	bun.BaseModel `bun:"table:contracts,alias:c" json:"-"`

	ID               string    `json:"id" bun:"id,pk"`
	Name             string    `json:"name" bun:"name,notnull"`
	CounterpartyName string    `json:"counterpartyName" bun:"counterparty_name,notnull"`
	Amount           float64   `json:"amount" bun:"amount,notnull"`
	StartDate        string    `json:"startDate" bun:"start_date,notnull"`
	EndDate          string    `json:"endDate" bun:"end_date,notnull"`
	Status           Status    `json:"status" bun:"status,notnull"`
	CreatedAt        time.Time `json:"createdAt,omitempty" bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// WithCalculations is a contract plus its derived fields, computed against
// a given current date every time the record leaves the executor.
type WithCalculations struct {
	Contract
	DurationDays  int     `json:"durationDays"`
	DaysRemaining int     `json:"daysRemaining"`
	MonthlyAmount float64 `json:"monthlyAmount"`
}

// Calculate recomputes the derived fields from the source fields.
// DaysRemaining is negative for contracts that already ended.
func Calculate(c Contract, now time.Time) WithCalculations {
	out := WithCalculations{Contract: c}

	start, errStart := time.Parse(DateLayout, c.StartDate)
	end, errEnd := time.Parse(DateLayout, c.EndDate)
	if errStart != nil || errEnd != nil {
		return out
	}

	out.DurationDays = ceilDays(end.Sub(start))
	out.DaysRemaining = ceilDays(end.Sub(now))
	if out.DurationDays > 0 {
		out.MonthlyAmount = round2(c.Amount / (float64(out.DurationDays) / 30))
	}
	return out
}

// CalculateAll maps Calculate over a slice, preserving order.
func CalculateAll(contracts []Contract, now time.Time) []WithCalculations {
	out := make([]WithCalculations, 0, len(contracts))
	for _, c := range contracts {
		out = append(out, Calculate(c, now))
	}
	return out
}

// Today returns the current UTC calendar day at midnight, the anchor
// used whenever no explicit current date is supplied.
func Today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

// ValidateDate reports whether the value is a well-formed calendar date.
func ValidateDate(value string) error {
	if _, err := time.Parse(DateLayout, value); err != nil {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", value)
	}
	return nil
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(d.Hours() / 24))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Patch carries a partial update; nil fields are left untouched.
type Patch struct {
	Name             *string  `json:"name,omitempty"`
	CounterpartyName *string  `json:"counterpartyName,omitempty"`
	Amount           *float64 `json:"amount,omitempty"`
	StartDate        *string  `json:"startDate,omitempty"`
	EndDate          *string  `json:"endDate,omitempty"`
	Status           *Status  `json:"status,omitempty"`
}

// IsEmpty reports whether the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.CounterpartyName == nil && p.Amount == nil &&
		p.StartDate == nil && p.EndDate == nil && p.Status == nil
}

// Validate rejects out-of-set statuses and malformed dates before they
// reach a store.
func (p Patch) Validate() error {
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("invalid status %q", *p.Status)
	}
	if p.StartDate != nil {
		if err := ValidateDate(*p.StartDate); err != nil {
			return err
		}
	}
	if p.EndDate != nil {
		if err := ValidateDate(*p.EndDate); err != nil {
			return err
		}
	}
	return nil
}

// Apply returns a copy of c with the patch applied.
func (p Patch) Apply(c Contract) Contract {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.CounterpartyName != nil {
		c.CounterpartyName = *p.CounterpartyName
	}
	if p.Amount != nil {
		c.Amount = *p.Amount
	}
	if p.StartDate != nil {
		c.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		c.EndDate = *p.EndDate
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	return c
}

// DurationEntry is one row of a per-contract duration listing.
type DurationEntry struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DurationDays int    `json:"durationDays"`
}

// MonthlyAmountEntry is one row of a per-contract monthly-amount listing.
type MonthlyAmountEntry struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	MonthlyAmount float64 `json:"monthlyAmount"`
}

// ClientGroup aggregates contracts sharing a counterparty.
type ClientGroup struct {
	CounterpartyName string     `json:"counterpartyName"`
	ContractCount    int        `json:"contractCount"`
	TotalAmount      float64    `json:"totalAmount"`
	AverageAmount    float64    `json:"averageAmount"`
	Contracts        []Contract `json:"contracts"`
}

// StatusGroup aggregates contracts sharing a status.
type StatusGroup struct {
	Status        Status     `json:"status"`
	ContractCount int        `json:"contractCount"`
	TotalAmount   float64    `json:"totalAmount"`
	Contracts     []Contract `json:"contracts"`
}

// Round2 rounds to two decimal places; exported for aggregate handlers.
func Round2(v float64) float64 {
	return round2(v)
}

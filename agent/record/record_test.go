package record

import (
	"testing"
	"time"
)

func date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return parsed
}

func TestCalculateDerivedFields(t *testing.T) {
	t.Parallel()

	c := Contract{
		ID:        "c-1",
		Name:      "Annual License",
		Amount:    120000,
		StartDate: "2024-01-01",
		EndDate:   "2024-12-31",
		Status:    StatusActive,
	}
	out := Calculate(c, date(t, "2024-07-01"))

	if out.DurationDays != 365 {
		t.Fatalf("expected duration 365, got %d", out.DurationDays)
	}
	if out.DaysRemaining != 183 {
		t.Fatalf("expected 183 days remaining, got %d", out.DaysRemaining)
	}
	if out.MonthlyAmount != 9863.01 {
		t.Fatalf("expected monthly amount 9863.01, got %v", out.MonthlyAmount)
	}
}

func TestCalculateExpiredContractHasNegativeDaysRemaining(t *testing.T) {
	t.Parallel()

	c := Contract{
		StartDate: "2024-01-01",
		EndDate:   "2024-06-30",
		Amount:    6000,
	}
	out := Calculate(c, date(t, "2024-09-30"))

	if out.DaysRemaining >= 0 {
		t.Fatalf("expected negative days remaining, got %d", out.DaysRemaining)
	}
}

func TestCalculateZeroDurationSkipsMonthlyAmount(t *testing.T) {
	t.Parallel()

	c := Contract{
		StartDate: "2024-05-01",
		EndDate:   "2024-05-01",
		Amount:    5000,
	}
	out := Calculate(c, date(t, "2024-05-01"))

	if out.DurationDays != 0 {
		t.Fatalf("expected duration 0, got %d", out.DurationDays)
	}
	if out.MonthlyAmount != 0 {
		t.Fatalf("expected monthly amount 0, got %v", out.MonthlyAmount)
	}
}

func TestCalculateMalformedDatesLeaveDerivedFieldsZero(t *testing.T) {
	t.Parallel()

	c := Contract{
		StartDate: "01/05/2024",
		EndDate:   "2024-12-31",
		Amount:    5000,
	}
	out := Calculate(c, date(t, "2024-05-01"))

	if out.DurationDays != 0 || out.DaysRemaining != 0 || out.MonthlyAmount != 0 {
		t.Fatalf("expected zero derived fields, got %+v", out)
	}
}

func TestTodayIsUTCMidnight(t *testing.T) {
	t.Parallel()

	today := Today()
	if today.Location() != time.UTC {
		t.Fatalf("expected UTC, got %v", today.Location())
	}
	h, m, s := today.Clock()
	if h != 0 || m != 0 || s != 0 || today.Nanosecond() != 0 {
		t.Fatalf("expected midnight anchor, got %v", today)
	}
}

func TestPatchValidate(t *testing.T) {
	t.Parallel()

	badStatus := Status("archived")
	if err := (Patch{Status: &badStatus}).Validate(); err == nil {
		t.Fatal("expected error for out-of-set status")
	}

	badDate := "31-12-2024"
	if err := (Patch{EndDate: &badDate}).Validate(); err == nil {
		t.Fatal("expected error for malformed end date")
	}

	amount := 500.0
	if err := (Patch{Amount: &amount}).Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestPatchApplyLeavesNilFieldsUntouched(t *testing.T) {
	t.Parallel()

	c := Contract{
		Name:             "Original",
		CounterpartyName: "Acme",
		Amount:           100,
		Status:           StatusPending,
	}
	name := "Renamed"
	status := StatusActive
	out := Patch{Name: &name, Status: &status}.Apply(c)

	if out.Name != "Renamed" {
		t.Fatalf("expected renamed contract, got %q", out.Name)
	}
	if out.Status != StatusActive {
		t.Fatalf("expected active status, got %q", out.Status)
	}
	if out.CounterpartyName != "Acme" || out.Amount != 100 {
		t.Fatalf("unpatched fields changed: %+v", out)
	}
}

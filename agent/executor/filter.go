package executor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/contractdesk/contractdesk/agent/contract"
	recordx "github.com/contractdesk/contractdesk/agent/record"
)

// applyFilters returns the contracts matching every condition. Conditions
// were validated upstream; an unmatchable comparison (say, greaterThan on
// a non-numeric value against amount) simply excludes the row.
func applyFilters(contracts []recordx.Contract, filters []contract.FilterCondition) []recordx.Contract {
	if len(filters) == 0 {
		return contracts
	}
	out := make([]recordx.Contract, 0, len(contracts))
	for _, c := range contracts {
		if matchesAll(c, filters) {
			out = append(out, c)
		}
	}
	return out
}

func matchesAll(c recordx.Contract, filters []contract.FilterCondition) bool {
	for _, f := range filters {
		if !matches(c, f) {
			return false
		}
	}
	return true
}

func matches(c recordx.Contract, f contract.FilterCondition) bool {
	field := fieldValue(c, f.Column)

	switch f.Operator {
	case "equals":
		return compareEqual(field, f.Value)
	case "notEquals":
		return !compareEqual(field, f.Value)
	case "contains":
		return strings.Contains(lower(field), lower(f.Value))
	case "startsWith":
		return strings.HasPrefix(lower(field), lower(f.Value))
	case "endsWith":
		return strings.HasSuffix(lower(field), lower(f.Value))
	case "greaterThan":
		cmp, ok := compareOrdered(field, f.Value)
		return ok && cmp > 0
	case "lessThan":
		cmp, ok := compareOrdered(field, f.Value)
		return ok && cmp < 0
	case "greaterThanOrEqual":
		cmp, ok := compareOrdered(field, f.Value)
		return ok && cmp >= 0
	case "lessThanOrEqual":
		cmp, ok := compareOrdered(field, f.Value)
		return ok && cmp <= 0
	case "between":
		lo, okLo := compareOrdered(field, f.Value)
		hi, okHi := compareOrdered(field, f.Value2)
		return okLo && okHi && lo >= 0 && hi <= 0
	}
	return false
}

// fieldValue extracts the raw comparable for a column. Amount is kept as
// float64; everything else is its string form.
func fieldValue(c recordx.Contract, column string) any {
	switch column {
	case "name":
		return c.Name
	case "counterpartyName":
		return c.CounterpartyName
	case "amount":
		return c.Amount
	case "startDate":
		return c.StartDate
	case "endDate":
		return c.EndDate
	case "status":
		return string(c.Status)
	}
	return ""
}

func compareEqual(field, value any) bool {
	if fNum, ok := asNumber(field); ok {
		if vNum, ok := asNumber(value); ok {
			return fNum == vNum
		}
		return false
	}
	return strings.EqualFold(stringify(field), stringify(value))
}

// compareOrdered compares field against value. Numbers compare
// numerically when both sides coerce; date strings in YYYY-MM-DD compare
// correctly as plain strings.
func compareOrdered(field, value any) (int, bool) {
	if fNum, ok := asNumber(field); ok {
		vNum, ok := asNumber(value)
		if !ok {
			return 0, false
		}
		switch {
		case fNum < vNum:
			return -1, true
		case fNum > vNum:
			return 1, true
		}
		return 0, true
	}
	return strings.Compare(stringify(field), stringify(value)), true
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}

func lower(v any) string {
	return strings.ToLower(stringify(v))
}

package service

import (
	"strings"
	"time"
)

// Filter match modes accepted by the order list endpoint
const (
	MatchEquals     = "equals"
	MatchNotEquals  = "notEquals"
	MatchContains   = "contains"
	MatchLt         = "lt"
	MatchLte        = "lte"
	MatchGt         = "gt"
	MatchGte        = "gte"
	MatchDateIs     = "dateIs"
	MatchDateIsNot  = "dateIsNot"
	MatchDateBefore = "dateBefore"
	MatchDateAfter  = "dateAfter"
)

// matchString applies a string filter. An empty match mode means no
// filtering.
func matchString(matchMode, fieldValue, filterValue string) bool {
	switch matchMode {
	case MatchEquals:
		return fieldValue == filterValue
	case MatchNotEquals:
		return fieldValue != filterValue
	case MatchContains, "":
		return strings.Contains(strings.ToLower(fieldValue), strings.ToLower(filterValue))
	default:
		return true
	}
}

// matchNumber applies a numeric comparison filter
func matchNumber(matchMode string, fieldValue, filterValue float64) bool {
	switch matchMode {
	case MatchEquals, "":
		return fieldValue == filterValue
	case MatchNotEquals:
		return fieldValue != filterValue
	case MatchLt:
		return fieldValue < filterValue
	case MatchLte:
		return fieldValue <= filterValue
	case MatchGt:
		return fieldValue > filterValue
	case MatchGte:
		return fieldValue >= filterValue
	default:
		return true
	}
}

// matchDate applies a calendar-day or ordering comparison filter
func matchDate(matchMode string, fieldValue time.Time, filterValue string) bool {
	switch matchMode {
	case MatchDateIs, "":
		return fieldValue.Format("2006-01-02") == filterValue
	case MatchDateIsNot:
		return fieldValue.Format("2006-01-02") != filterValue
	case MatchDateBefore:
		parsed, err := time.Parse("2006-01-02", filterValue)
		return err == nil && fieldValue.Before(parsed)
	case MatchDateAfter:
		parsed, err := time.Parse("2006-01-02", filterValue)
		return err == nil && fieldValue.After(parsed)
	default:
		return true
	}
}

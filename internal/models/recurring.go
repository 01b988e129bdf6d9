package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RecurrenceType is the unit a recurring transaction repeats in
type RecurrenceType int

const (
	RecurrenceWeeks    RecurrenceType = 1
	RecurrenceMonths   RecurrenceType = 2
	RecurrenceQuarters RecurrenceType = 3
	RecurrenceYears    RecurrenceType = 4
)

var recurrenceTypeNames = map[RecurrenceType]string{
	RecurrenceWeeks:    "weeks",
	RecurrenceMonths:   "months",
	RecurrenceQuarters: "quarters",
	RecurrenceYears:    "years",
}

func (t RecurrenceType) String() string {
	if name, ok := recurrenceTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("RecurrenceType(%d)", int(t))
}

// ParseRecurrenceType accepts either the numeric code or the unit name
func ParseRecurrenceType(s string) (RecurrenceType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range recurrenceTypeNames {
		if s == name || s == fmt.Sprint(int(t)) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown recurrence type: %q", s)
}

// RecurringBankTransaction is a template repeating every RecurrenceInterval units
// starting at FirstOccurrenceDate.
type RecurringBankTransaction struct {
	ID                  int64
	AccountID           int64
	RecurrenceType      RecurrenceType
	RecurrenceInterval  int
	FirstOccurrenceDate time.Time
	Payee               string
	Memo                string
	Amount              decimal.Decimal
}

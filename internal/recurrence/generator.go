// Package recurrence expands recurring bank transactions into the occurrences of a month.
//
// Each recurrence unit has its own stepping strategy. Occurrences are reached by
// stepping from the first occurrence instead of a closed form, because month
// lengths and leap years make the steps uneven.
package recurrence

import (
	"fmt"
	"iter"
	"time"

	"fjacquet/bucket-ledger/internal/dateutils"
	"fjacquet/bucket-ledger/internal/ledgererror"
	"fjacquet/bucket-ledger/internal/models"
)

// Stepper advances an occurrence date by interval units of its recurrence type
type Stepper interface {
	Next(date time.Time, interval int) time.Time
}

// WeeklyStepper steps by 7 days per unit
type WeeklyStepper struct{}

func (WeeklyStepper) Next(date time.Time, interval int) time.Time {
	return date.AddDate(0, 0, 7*interval)
}

// MonthlyStepper steps by calendar months, clamping the day to shorter months
type MonthlyStepper struct{}

func (MonthlyStepper) Next(date time.Time, interval int) time.Time {
	return dateutils.AddMonths(date, interval)
}

// QuarterlyStepper steps by three calendar months per unit
type QuarterlyStepper struct{}

func (QuarterlyStepper) Next(date time.Time, interval int) time.Time {
	return dateutils.AddMonths(date, 3*interval)
}

// YearlyStepper steps by calendar years; Feb 29 becomes Feb 28 outside leap years
type YearlyStepper struct{}

func (YearlyStepper) Next(date time.Time, interval int) time.Time {
	return dateutils.AddYears(date, interval)
}

var steppers = map[models.RecurrenceType]Stepper{
	models.RecurrenceWeeks:    WeeklyStepper{},
	models.RecurrenceMonths:   MonthlyStepper{},
	models.RecurrenceQuarters: QuarterlyStepper{},
	models.RecurrenceYears:    YearlyStepper{},
}

// GetStepper returns the stepping strategy of a recurrence type
func GetStepper(t models.RecurrenceType) (Stepper, error) {
	s, ok := steppers[t]
	if !ok {
		return nil, &ledgererror.ValidationError{Field: "recurrence_type", Reason: fmt.Sprintf("unsupported recurrence type %s", t)}
	}
	return s, nil
}

// Occurrences returns the dates rt falls on within month. The sequence is lazy and can
// be ranged over any number of times.
func Occurrences(rt models.RecurringBankTransaction, month time.Time) (iter.Seq[time.Time], error) {
	stepper, err := GetStepper(rt.RecurrenceType)
	if err != nil {
		return nil, err
	}
	if rt.RecurrenceInterval <= 0 {
		return nil, &ledgererror.ValidationError{
			Field:  "recurrence_interval",
			Reason: fmt.Sprintf("interval must be positive, got %d", rt.RecurrenceInterval),
		}
	}
	start := dateutils.StartOfMonth(month)

	return func(yield func(time.Time) bool) {
		cursor := rt.FirstOccurrenceDate
		for cursor.Before(start) {
			cursor = stepper.Next(cursor, rt.RecurrenceInterval)
		}
		for dateutils.SameMonth(cursor, start) {
			if !yield(cursor) {
				return
			}
			cursor = stepper.Next(cursor, rt.RecurrenceInterval)
		}
	}, nil
}

// Transactions materializes the occurrences of rt within month as bank transactions
// ready to be stored. It does not check for transactions stored earlier.
func Transactions(rt models.RecurringBankTransaction, month time.Time) (iter.Seq[models.BankTransaction], error) {
	dates, err := Occurrences(rt, month)
	if err != nil {
		return nil, err
	}
	return func(yield func(models.BankTransaction) bool) {
		for d := range dates {
			tx := models.BankTransaction{
				AccountID:       rt.AccountID,
				TransactionDate: d,
				Payee:           rt.Payee,
				Memo:            rt.Memo,
				Amount:          rt.Amount,
				OccurrenceKey:   OccurrenceKey(rt.ID, d),
			}
			if !yield(tx) {
				return
			}
		}
	}, nil
}

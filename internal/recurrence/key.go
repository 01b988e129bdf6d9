package recurrence

import (
	"fmt"
	"time"

	"fjacquet/bucket-ledger/internal/dateutils"

	"github.com/google/uuid"
)

var occurrenceNamespace = uuid.MustParse("6f1c9d2e-4b7a-5e3f-9a81-2c5d7e0b4f16")

// OccurrenceKey identifies the occurrence of a recurring transaction on a given day.
// The same template and day always give the same key.
func OccurrenceKey(recurringID int64, date time.Time) string {
	name := fmt.Sprintf("%d|%s", recurringID, dateutils.ToISODate(date))
	return uuid.NewSHA1(occurrenceNamespace, []byte(name)).String()
}

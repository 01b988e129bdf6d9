package budget

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/bucket-ledger/internal/currencyutils"
	"fjacquet/bucket-ledger/internal/dateutils"
	"fjacquet/bucket-ledger/internal/ledgererror"
	"fjacquet/bucket-ledger/internal/models"
)

// ParseConfig builds a configuration from its textual parameters as entered by a user.
// The date is required for the types saving towards a date.
func ParseConfig(typeName string, interval int, amount, date string) (models.BucketConfig, error) {
	bucketType, err := models.ParseBucketType(typeName)
	if err != nil {
		return nil, &ledgererror.ValidationError{Field: "type", Reason: err.Error()}
	}
	target, err := currencyutils.ParseAmount(amount)
	if err != nil {
		return nil, &ledgererror.ValidationError{Field: "amount", Reason: err.Error()}
	}

	var reference time.Time
	if strings.TrimSpace(date) != "" {
		reference, err = dateutils.ParseDate(date)
		if err != nil {
			return nil, &ledgererror.ValidationError{Field: "date", Reason: err.Error()}
		}
	} else if bucketType == models.BucketTypeExpenseEveryXMonths || bucketType == models.BucketTypeSaveXUntilY {
		return nil, &ledgererror.ValidationError{Field: "date", Reason: fmt.Sprintf("a date is required for %s buckets", bucketType)}
	}

	return models.ConfigParams{
		Type:         bucketType,
		IntParam:     interval,
		DecimalParam: target,
		DateParam:    reference,
	}.Config()
}

package budget

import (
	"fmt"
	"time"

	"fjacquet/bucket-ledger/internal/dateutils"
	"fjacquet/bucket-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// Progress is the completion of a target and its one-line description
type Progress struct {
	Percent int
	Details string
}

var hundred = decimal.NewFromInt(100)

// RenderProgress computes how far a type 3 or 4 bucket is towards its target.
// Other configurations have no progress.
func RenderProgress(cfg models.BucketConfig, month time.Time, balance, want, activity decimal.Decimal) Progress {
	targetDate, ok := TargetDate(cfg, month)
	if !ok {
		return Progress{}
	}
	target := cfg.Target()

	var percent decimal.Decimal
	switch {
	case dateutils.SameMonth(month, targetDate) && activity.IsNegative():
		if !balance.IsNegative() {
			percent = hundred
		} else {
			percent = hundred.Sub(want.Div(activity.Neg()).Mul(hundred))
		}
	case target.IsZero():
		percent = decimal.Zero
	default:
		percent = balance.Div(target).Mul(hundred)
	}

	return Progress{
		Percent: clampPercent(percent.Round(0).IntPart()),
		Details: fmt.Sprintf("%s until %s", target.String(), dateutils.FormatMonth(targetDate)),
	}
}

func clampPercent(p int64) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return int(p)
	}
}

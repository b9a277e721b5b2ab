package domain

import (
	"math/big"
	"time"
)

// Breakdown holds the amounts due on a loan at a point in time.
type Breakdown struct {
	Total     int64
	Principal int64
	Interest  int64
	Penalty   int64
}

// InterestDue computes simple non-compounding interest:
// floor(amount * ratePercent * durationDays / 36500).
// 36500 = 365 days * 100 percent. The product can overflow int64 at
// realistic base-unit scales, so intermediates go through big.Int.
func InterestDue(amount, ratePercent, durationDays int64) int64 {
	n := new(big.Int).SetInt64(amount)
	n.Mul(n, big.NewInt(ratePercent))
	n.Mul(n, big.NewInt(durationDays))
	n.Quo(n, big.NewInt(36500))
	return n.Int64()
}

// DaysLate returns whole days elapsed past the loan duration, never
// negative. Partial days do not count.
func DaysLate(startedAt time.Time, durationDays int64, now time.Time) int64 {
	elapsed := now.Unix() - startedAt.Unix()
	if elapsed < 0 {
		return 0
	}
	late := elapsed/SecondsPerDay - durationDays
	if late < 0 {
		return 0
	}
	return late
}

// PenaltyDue computes the late penalty: 1% of principal per whole day
// late, linear and uncapped.
func PenaltyDue(amount, daysLate int64) int64 {
	n := new(big.Int).SetInt64(amount)
	n.Mul(n, big.NewInt(daysLate))
	n.Quo(n, big.NewInt(100))
	return n.Int64()
}

// Accrue evaluates the full breakdown for a loan as of now. For loans
// that have left Active the evaluation instant is frozen at settlement.
func Accrue(l *Loan, now time.Time) Breakdown {
	at := l.AccrualTime(now)

	interest := InterestDue(l.Amount, l.InterestRate, l.DurationDays)
	penalty := PenaltyDue(l.Amount, DaysLate(l.StartedAt, l.DurationDays, at))

	return Breakdown{
		Total:     l.Amount + interest + penalty,
		Principal: l.Amount,
		Interest:  interest,
		Penalty:   penalty,
	}
}

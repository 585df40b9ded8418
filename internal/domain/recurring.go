package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ChargeInterval is how often a recurring charge is raised.
type ChargeInterval string

const (
	IntervalWeekly  ChargeInterval = "WEEKLY"
	IntervalMonthly ChargeInterval = "MONTHLY"
	IntervalYearly  ChargeInterval = "YEARLY"
)

// ParseChargeInterval normalizes a raw interval string, defaulting to
// monthly.
func ParseChargeInterval(raw string) ChargeInterval {
	switch ChargeInterval(strings.ToUpper(strings.TrimSpace(raw))) {
	case IntervalWeekly:
		return IntervalWeekly
	case IntervalYearly:
		return IntervalYearly
	default:
		return IntervalMonthly
	}
}

// RecurringCharge is a billing schedule attached to a lease. Each run
// creates one OPEN transaction and advances NextRunAt by the interval.
type RecurringCharge struct {
	ID          string
	LeaseID     string
	Amount      decimal.Decimal
	Currency    string
	Category    string
	Subcategory string
	Interval    ChargeInterval
	DueInDays   int
	NextRunAt   time.Time
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks invariants on a recurring charge.
func (c *RecurringCharge) Validate() error {
	if !c.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if err := ValidateCategory(c.Category); err != nil {
		return err
	}
	return ValidateCurrency(c.Currency)
}

// Due reports whether the charge should be billed as of now.
func (c *RecurringCharge) Due(now time.Time) bool {
	return c.Active && !c.NextRunAt.After(now)
}

// Advance moves NextRunAt forward by one interval. When the schedule has
// fallen multiple intervals behind, it advances until strictly after now
// so a stalled worker does not double-bill on catch-up.
func (c *RecurringCharge) Advance(now time.Time) {
	for !c.NextRunAt.After(now) {
		switch c.Interval {
		case IntervalWeekly:
			c.NextRunAt = c.NextRunAt.AddDate(0, 0, 7)
		case IntervalYearly:
			c.NextRunAt = c.NextRunAt.AddDate(1, 0, 0)
		default:
			c.NextRunAt = c.NextRunAt.AddDate(0, 1, 0)
		}
	}
	c.UpdatedAt = now
}

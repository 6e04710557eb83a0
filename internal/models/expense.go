package models

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"time"
)

// DateLayout is the calendar-date format used in replies and reports.
const DateLayout = "2006-01-02"

// Expense is a single spend logged through the chat.
// Amount is stored in minor units (cents).
type Expense struct {
	Base
	UserID      string    `gorm:"type:uuid;not null;index:idx_expenses_user_date,priority:1" json:"user_id"`
	Description string    `gorm:"not null" json:"description"`
	Amount      int64     `gorm:"type:bigint;not null" json:"amount"`
	Category    string    `gorm:"not null" json:"category"`
	SubCategory string    `gorm:"not null" json:"sub_category"`
	Date        time.Time `gorm:"not null;index:idx_expenses_user_date,priority:2,sort:desc" json:"date"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// FormatAmount renders minor units as a plain decimal without trailing zeros
// ("100", "12.5", "0.99").
func FormatAmount(minor int64) string {
	return strconv.FormatFloat(float64(minor)/100, 'f', -1, 64)
}

// Amount parsing errors.
var (
	ErrAmountSyntax    = errors.New("amount is not a number")
	ErrAmountPrecision = errors.New("amount has more than two decimal places")
	ErrAmountRange     = errors.New("amount is out of range")
)

var (
	hundred  = big.NewInt(100)
	maxMinor = big.NewInt(math.MaxInt64)
	minMinor = big.NewInt(math.MinInt64)
)

// ParseMinorUnits converts a decimal string ("12.5", "1e3") into cents
// exactly. Fractions of a cent and values outside int64 are errors.
func ParseMinorUnits(s string) (int64, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return 0, ErrAmountSyntax
	}
	r.Mul(r, new(big.Rat).SetInt(hundred))
	if !r.IsInt() {
		return 0, ErrAmountPrecision
	}
	n := r.Num()
	if n.Cmp(maxMinor) > 0 || n.Cmp(minMinor) < 0 {
		return 0, ErrAmountRange
	}
	return n.Int64(), nil
}

// DisplayAmount returns the "<CURRENCY> <value>" rendering used in replies and reports.
func DisplayAmount(currency string, minor int64) string {
	return currency + " " + FormatAmount(minor)
}

// Day truncates t to its calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

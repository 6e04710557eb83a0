package models

import "strings"

// User is a person registered through the web OTP flow. The phone number is
// the WhatsApp sender identity and is stored in canonical "+<digits>" form.
type User struct {
	Base
	Name        string    `gorm:"not null" json:"name"`
	PhoneNumber string    `gorm:"uniqueIndex;not null" json:"phone_number"`
	Currency    string    `gorm:"size:3;not null" json:"currency"`
	Expenses    []Expense `gorm:"foreignKey:UserID" json:"-"`
}

// CanonicalPhone trims the number and prefixes "+" when it is missing.
func CanonicalPhone(raw string) string {
	n := strings.TrimSpace(raw)
	if n == "" || strings.HasPrefix(n, "+") {
		return n
	}
	return "+" + n
}

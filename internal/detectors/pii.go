package detectors

import (
	"regexp"
	"unicode"
)

var (
	reAadhaar    = regexp.MustCompile(`\b\d{4}\s?\d{4}\s?\d{4}\b`)
	rePhone      = regexp.MustCompile(`\b\d{10}\b`)
	reEmail      = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	reBank       = regexp.MustCompile(`\b\d{9,18}\b`) // account numbers vary by bank
	rePassword   = regexp.MustCompile(`\b[a-zA-Z0-9@#$%^&+!=]{8,}\b`)
	reCreditCard = regexp.MustCompile(`\b\d{16}\b`)
)

func Aadhaar(text string) []string    { return findAll(text, reAadhaar) }
func PhoneNumber(text string) []string { return findAll(text, rePhone) }
func Email(text string) []string       { return findAll(text, reEmail) }
func BankDetail(text string) []string  { return findAll(text, reBank) }
func CreditCard(text string) []string  { return findAll(text, reCreditCard) }

// Password flags password-like tokens. A token must mix letters and digits;
// plain words and plain numbers are left to the other detectors.
func Password(text string) []string {
	return findFiltered(text, rePassword, looksLikePassword)
}

func looksLikePassword(s string) bool {
	var letter, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

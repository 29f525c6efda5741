package core

import (
	"errors"
	"strings"
	"time"
)

// DefaultExpenseCategories are the categories every account starts with.
// Registration seeds a zero-amount budget row for each of them.
var DefaultExpenseCategories = []string{
	"Housing", "Transportation", "Food", "Utilities", "Insurance",
	"Healthcare", "Debt Payments", "Savings", "Personal", "Entertainment",
	"Education", "Clothing", "Gifts/Donations", "Miscellaneous",
}

// DefaultIncomeCategories are offered in the income form.
var DefaultIncomeCategories = []string{
	"Salary", "Freelance", "Business", "Investments", "Rental",
	"Gifts", "Other",
}

// InvestmentTypes are offered in the investment form.
var InvestmentTypes = []string{
	"Stocks", "Bonds", "Mutual Funds", "ETFs", "Real Estate",
	"Retirement Accounts", "Cryptocurrencies", "Other",
}

type (
	// Date is a calendar day, rendered as YYYY-MM-DD everywhere.
	Date struct {
		time.Time
	}

	// Money is an amount in integer cents. Arithmetic stays in cents;
	// float conversion happens only at the JSON/template boundary.
	Money struct {
		Cents int64
	}

	User struct {
		ID           int64
		Username     string
		Email        string
		PasswordHash string
	}

	Expense struct {
		ID          int64
		UserID      int64
		Description string
		Amount      Money
		Category    string
		Date        Date
	}

	Income struct {
		ID          int64
		UserID      int64
		Description string
		Amount      Money
		Category    string
		Date        Date
	}

	Goal struct {
		ID            int64
		UserID        int64
		Name          string
		TargetAmount  Money
		CurrentAmount Money
		TargetDate    Date // optional; zero means no deadline
		Description   string
	}

	Investment struct {
		ID           int64
		UserID       int64
		Name         string
		Type         string
		Amount       Money
		PurchaseDate Date
		CurrentValue Money
		Notes        string
	}

	Budget struct {
		ID       int64
		UserID   int64
		Category string
		Amount   Money // zero is valid: category tracked but not limited
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyUsername    = errors.New("empty username")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrNotFound         = errors.New("record not found")
)

const maxTextLen = 200

// DateLayout is the wire format for dates in forms and JSON.
const DateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day (UTC midnight).
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Today returns the current date.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String renders the wire format; empty string for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON renders the date as "YYYY-MM-DD", or null when zero.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD", null, or "" (both meaning unset).
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrEmptyUsername
	}
	if len(u.Username) > 64 {
		return errors.New("username too long (max 64 characters)")
	}
	email := strings.TrimSpace(u.Email)
	if email == "" || !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	if len(email) > 120 {
		return errors.New("email too long (max 120 characters)")
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if len(e.Description) > maxTextLen {
		return errors.New("description too long (max 200 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (in Income) Validate() error {
	if err := in.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(in.Description) == "" {
		return ErrEmptyDescription
	}
	if len(in.Description) > maxTextLen {
		return errors.New("description too long (max 200 characters)")
	}
	if err := in.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(in.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if len(g.Name) > maxTextLen {
		return errors.New("name too long (max 200 characters)")
	}
	if err := g.TargetAmount.Validate(); err != nil {
		return err
	}
	// Current amount may be zero but never negative.
	if g.CurrentAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (inv Investment) Validate() error {
	if strings.TrimSpace(inv.Name) == "" {
		return ErrEmptyName
	}
	if len(inv.Name) > maxTextLen {
		return errors.New("name too long (max 200 characters)")
	}
	if strings.TrimSpace(inv.Type) == "" {
		return ErrEmptyCategory
	}
	if err := inv.Amount.Validate(); err != nil {
		return err
	}
	if err := inv.PurchaseDate.Validate(); err != nil {
		return err
	}
	if inv.CurrentValue.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if b.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

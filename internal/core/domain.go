package core

import (
	"errors"
	"strings"
	"time"
)

type (
	Transaction struct {
		ID          string    `json:"id"`
		Amount      float64   `json:"amount"` // positive income, negative expense
		Description string    `json:"description"`
		Category    string    `json:"category"`
		Date        time.Time `json:"date"`
	}

	Account struct {
		ID      string  `json:"id"`
		Name    string  `json:"name"`
		Balance float64 `json:"balance"`
		Type    string  `json:"type"`
	}

	Budget struct {
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`
	}

	User struct {
		ID          int64     `json:"id"`
		Username    string    `json:"username"`
		CreditScore *int      `json:"credit_score,omitempty"`
		CreatedAt   time.Time `json:"created_at"`
	}

	BillReminder struct {
		ID          int64     `json:"id"`
		UserID      int64     `json:"user_id"`
		Description string    `json:"description"`
		Amount      float64   `json:"amount"`
		DueDate     time.Time `json:"due_date"`
	}

	// FinancialData is a caller-owned snapshot of one user's records.
	// A nil CreditScore means no score has been recorded.
	FinancialData struct {
		UserID       string        `json:"user_id"`
		Transactions []Transaction `json:"transactions"`
		Accounts     []Account     `json:"accounts"`
		Budgets      []Budget      `json:"budgets"`
		CreditScore  *int          `json:"credit_score,omitempty"`
		LastUpdated  time.Time     `json:"last_updated"`
	}
)

const (
	MinCreditScore = 300
	MaxCreditScore = 850

	maxDescriptionLen = 200
	maxLabelLen       = 100
)

var (
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrEmptyCategory      = errors.New("empty category")
	ErrLabelTooLong       = errors.New("label too long (max 100 characters)")
	ErrZeroAmount         = errors.New("amount cannot be zero")
	ErrInvalidDate        = errors.New("date cannot be zero")
	ErrEmptyName          = errors.New("empty account name")
	ErrEmptyUsername      = errors.New("empty username")
	ErrNegativeBudget     = errors.New("budget amount must be positive")
	ErrInvalidCreditScore = errors.New("credit score must be between 300 and 850")
)

// IsValidationError reports whether err is one of the input validation sentinels.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrEmptyDescription, ErrDescriptionTooLong, ErrEmptyCategory, ErrLabelTooLong,
		ErrZeroAmount, ErrInvalidDate, ErrEmptyName, ErrEmptyUsername,
		ErrNegativeBudget, ErrInvalidCreditScore,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if len(t.Description) > maxDescriptionLen {
		return ErrDescriptionTooLong
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Category) > maxLabelLen {
		return ErrLabelTooLong
	}
	if t.Amount == 0 {
		return ErrZeroAmount
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// IsExpense reports whether the transaction is money going out.
func (t Transaction) IsExpense() bool { return t.Amount < 0 }

// IsIncome reports whether the transaction is money coming in.
func (t Transaction) IsIncome() bool { return t.Amount > 0 }

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if len(a.Name) > maxLabelLen || len(a.Type) > maxLabelLen {
		return ErrLabelTooLong
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if len(b.Category) > maxLabelLen {
		return ErrLabelTooLong
	}
	if b.Amount <= 0 {
		return ErrNegativeBudget
	}
	return nil
}

func (r BillReminder) Validate() error {
	if strings.TrimSpace(r.Description) == "" {
		return ErrEmptyDescription
	}
	if len(r.Description) > maxDescriptionLen {
		return ErrDescriptionTooLong
	}
	if r.Amount == 0 {
		return ErrZeroAmount
	}
	if r.DueDate.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrEmptyUsername
	}
	if len(u.Username) > maxLabelLen {
		return ErrLabelTooLong
	}
	if u.CreditScore != nil {
		return ValidateCreditScore(*u.CreditScore)
	}
	return nil
}

// ValidateCreditScore checks a score against the FICO range.
func ValidateCreditScore(score int) error {
	if score < MinCreditScore || score > MaxCreditScore {
		return ErrInvalidCreditScore
	}
	return nil
}

// Sanitize trims whitespace and drops control characters, keeping tabs and newlines.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		if r == 127 {
			return -1
		}
		return r
	}, s)
}

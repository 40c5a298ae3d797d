package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Asset     Category = "Asset"
	Liability Category = "Liability"
	Revenue   Category = "Revenue"
	Equity    Category = "Equity"
	Expense   Category = "Expense"
)

type (
	// Category groups accounts for summaries and reports.
	Category string

	// Date is a calendar day without a time component.
	Date struct {
		time.Time
	}

	User struct {
		ID           string    `json:"id"`
		Username     string    `json:"username"`
		Email        string    `json:"email"`
		PasswordHash string    `json:"-"`
		CompanyName  string    `json:"company_name"`
		CreatedAt    time.Time `json:"created_at"`
	}

	Account struct {
		ID        string          `json:"id"`
		UserID    string          `json:"user_id"`
		Name      string          `json:"name"`
		Code      string          `json:"code,omitempty"`
		Category  Category        `json:"category"`
		Balance   decimal.Decimal `json:"balance"`
		CreatedAt time.Time       `json:"created_at"`
	}

	Transaction struct {
		ID          string          `json:"id"`
		UserID      string          `json:"user_id"`
		Date        Date            `json:"date"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		AccountID   string          `json:"account_id"`
		// AccountName is a snapshot of the account's name at posting time.
		// It is not kept in sync with later renames.
		AccountName  string    `json:"account_name"`
		ReceiptImage string    `json:"receipt_image,omitempty"`
		CreatedAt    time.Time `json:"created_at"`
	}

	// ListFilter bounds and scopes a transaction listing.
	ListFilter struct {
		Limit     int
		Offset    int
		AccountID string
	}
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidName        = errors.New("invalid name")
	ErrInvalidDescription = errors.New("invalid description")
	ErrInvalidPagination  = errors.New("invalid pagination bounds")
)

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (c Category) Validate() error {
	switch c {
	case Asset, Liability, Revenue, Equity, Expense:
		return nil
	}
	return ErrInvalidCategory
}

// Categories lists every valid category in report order.
func Categories() []Category {
	return []Category{Asset, Liability, Revenue, Equity, Expense}
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrInvalidName
	}
	if len(a.Name) > 200 {
		return fmt.Errorf("%w: name too long (max 200 characters)", ErrInvalidName)
	}
	return a.Category.Validate()
}

func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrInvalidDescription
	}
	if len(t.Description) > 500 {
		return fmt.Errorf("%w: description too long (max 500 characters)", ErrInvalidDescription)
	}
	return nil
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// Normalize clamps the limit into [1, MaxListLimit] and rejects negative
// offsets. A zero limit becomes DefaultListLimit.
func (f *ListFilter) Normalize() error {
	if f.Offset < 0 {
		return ErrInvalidPagination
	}
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	return nil
}

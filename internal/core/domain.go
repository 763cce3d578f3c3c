package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"

	PeriodMonthly BudgetPeriod = "monthly"
	PeriodYearly  BudgetPeriod = "yearly"
)

type (
	TransactionType string
	BudgetPeriod    string

	// Date is a calendar day without a time component. It is stored and
	// serialized as YYYY-MM-DD.
	Date struct {
		time.Time
	}

	User struct {
		ID          int64
		Name        string
		Email       string
		PhoneNumber string
		CreatedAt   time.Time
	}

	Transaction struct {
		ID          int64
		UserID      int64
		Amount      Money
		Date        Date
		Description string
		Type        TransactionType
		CategoryID  int64
		IsRecurring bool
		CreatedAt   time.Time
	}

	Asset struct {
		ID              int64
		UserID          int64
		Name            string
		AssetType       string
		CurrentValue    Money
		AcquisitionDate Date
		Notes           string
	}

	Budget struct {
		ID                int64
		UserID            int64
		ExpenseCategoryID int64
		Amount            Money
		Period            BudgetPeriod
		StartDate         Date
		EndDate           Date // zero when open-ended
	}

	Category struct {
		ID   int64
		Name string
	}
)

var (
	ErrInvalidPeriod       = errors.New("invalid period")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrInvalidDate         = errors.New("invalid date")
	ErrEmptyName           = errors.New("empty name")
	ErrInvalidCategory     = errors.New("invalid category")
	ErrEndBeforeStart      = errors.New("end date before start date")
	ErrNotFound            = errors.New("not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidBudgetPeriod = errors.New("invalid budget period")
)

// NewDate builds a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// MarshalJSON renders the date as a quoted YYYY-MM-DD string, or null when zero.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts a quoted YYYY-MM-DD string or null.
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

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	}
	return ErrInvalidType
}

func (p BudgetPeriod) Validate() error {
	switch p {
	case PeriodMonthly, PeriodYearly:
		return nil
	}
	return ErrInvalidBudgetPeriod
}

func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if t.CategoryID <= 0 {
		return ErrInvalidCategory
	}
	if len(t.Description) > 255 {
		return errors.New("description too long (max 255 characters)")
	}
	return nil
}

func (a Asset) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(a.AssetType) == "" {
		return errors.New("empty asset type")
	}
	if err := a.CurrentValue.Validate(); err != nil {
		return err
	}
	return nil
}

func (b Budget) Validate() error {
	if b.ExpenseCategoryID <= 0 {
		return ErrInvalidCategory
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if err := b.Period.Validate(); err != nil {
		return err
	}
	if b.StartDate.IsZero() {
		return ErrInvalidDate
	}
	if !b.EndDate.IsZero() && b.EndDate.Before(b.StartDate.Time) {
		return ErrEndBeforeStart
	}
	return nil
}

// ActiveIn reports whether the budget overlaps the given aggregation window.
func (b Budget) ActiveIn(p Period) bool {
	if b.StartDate.After(p.End.Time) {
		return false
	}
	if !b.EndDate.IsZero() && b.EndDate.Before(p.Start.Time) {
		return false
	}
	return true
}

// TransactionPatch lists the optional fields of a transaction update. Nil
// fields are left untouched by the persistence layer.
type TransactionPatch struct {
	Amount      *Money
	Date        *Date
	Description *string
	Type        *TransactionType
	CategoryID  *int64
	IsRecurring *bool
}

// IsEmpty reports whether the patch carries no assignments.
func (p TransactionPatch) IsEmpty() bool {
	return p.Amount == nil && p.Date == nil && p.Description == nil &&
		p.Type == nil && p.CategoryID == nil && p.IsRecurring == nil
}

// AssetPatch lists the optional fields of an asset update.
type AssetPatch struct {
	Name            *string
	AssetType       *string
	CurrentValue    *Money
	AcquisitionDate *Date
	Notes           *string
}

func (p AssetPatch) IsEmpty() bool {
	return p.Name == nil && p.AssetType == nil && p.CurrentValue == nil &&
		p.AcquisitionDate == nil && p.Notes == nil
}

// BudgetPatch lists the optional fields of a budget update.
type BudgetPatch struct {
	ExpenseCategoryID *int64
	Amount            *Money
	Period            *BudgetPeriod
	StartDate         *Date
	EndDate           *Date
}

func (p BudgetPatch) IsEmpty() bool {
	return p.ExpenseCategoryID == nil && p.Amount == nil && p.Period == nil &&
		p.StartDate == nil && p.EndDate == nil
}

// UserPatch lists the optional fields of a profile update.
type UserPatch struct {
	Name        *string
	Email       *string
	Password    *string
	PhoneNumber *string
}

func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Password == nil && p.PhoneNumber == nil
}

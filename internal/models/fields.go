package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// Flag is a yes/no attribute serialized as Y or N.
type Flag string

const (
	Yes Flag = "Y"
	No  Flag = "N"
)

func FlagOf(b bool) Flag {
	if b {
		return Yes
	}
	return No
}

func (f Flag) Bool() bool {
	return f == Yes
}

// Date is a calendar day serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

func (d Date) MarshalCSV() (string, error) {
	return d.Format(DateLayout), nil
}

func (d *Date) UnmarshalCSV(s string) error {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// DateTime is an instant at one-second resolution serialized as
// YYYY-MM-DD HH:MM:SS.
type DateTime struct {
	time.Time
}

func (d DateTime) MarshalCSV() (string, error) {
	return d.Format(DateTimeLayout), nil
}

func (d *DateTime) UnmarshalCSV(s string) error {
	t, err := time.Parse(DateTimeLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Money is an amount with two decimal places.
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d.Round(2)}
}

func (m Money) MarshalCSV() (string, error) {
	return m.StringFixed(2), nil
}

func (m *Money) UnmarshalCSV(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	m.Decimal = d
	return nil
}

package models

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"gorm.io/datatypes"
)

// DateLayout is the calendar-date wire format
const DateLayout = "2006-01-02"

// Date is a calendar date stored as SQL DATE and serialized as "YYYY-MM-DD"
type Date struct {
	datatypes.Date
}

// NewDate builds a Date in UTC
func NewDate(year int, month time.Month, day int) Date {
	return Date{datatypes.Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))}
}

// DateFormatError reports a value that is not a valid "YYYY-MM-DD" date
type DateFormatError struct {
	Value string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("date has wrong format, use YYYY-MM-DD: %s", e.Value)
}

// ParseDate parses a "YYYY-MM-DD" string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, &DateFormatError{Value: strconv.Quote(s)}
	}
	return Date{datatypes.Date(t)}, nil
}

// Time returns the underlying time value
func (d Date) Time() time.Time { return time.Time(d.Date) }

// IsZero reports whether the date is unset
func (d Date) IsZero() bool { return d.Time().IsZero() }

func (d Date) String() string { return d.Time().Format(DateLayout) }

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return &DateFormatError{Value: string(b)}
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

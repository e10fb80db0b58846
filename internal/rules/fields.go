package rules

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
)

// DateLayout is the only accepted reservation_date format.
const DateLayout = "2006-01-02"

// Candidate is a submitted reservation that passed field validation.
type Candidate struct {
	FirstName    string
	LastName     string
	MobileNumber string
	Date         string
	Time         string
	People       int
	// Status is the submitted status, empty when the payload carried none.
	Status models.ReservationStatus

	day    time.Time
	minute int
}

// Day returns the reservation date at midnight UTC.
func (c Candidate) Day() time.Time { return c.day }

// MinuteOfDay returns the reservation time as minutes past midnight.
func (c Candidate) MinuteOfDay() int { return c.minute }

// Reservation builds the record to persist with the given status.
func (c Candidate) Reservation(status models.ReservationStatus) *models.Reservation {
	return &models.Reservation{
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		MobileNumber:    c.MobileNumber,
		ReservationDate: c.Date,
		ReservationTime: c.Time,
		People:          c.People,
		Status:          status,
	}
}

type fieldCheck struct {
	field string
	check func(field string, v any, c *Candidate) *ValidationError
}

// Order matters: only the first failing field is reported.
var fieldChecks = []fieldCheck{
	{"first_name", textField(func(c *Candidate, s string) { c.FirstName = s })},
	{"last_name", textField(func(c *Candidate, s string) { c.LastName = s })},
	{"mobile_number", textField(func(c *Candidate, s string) { c.MobileNumber = s })},
	{"reservation_date", checkDate},
	{"reservation_time", checkTime},
	{"people", checkPeople},
}

// ValidateFields checks a raw submitted record and returns the typed
// candidate. It stops at the first offending field.
func ValidateFields(raw map[string]any) (Candidate, error) {
	var c Candidate
	if raw == nil {
		return c, &ValidationError{Field: "data", Reason: ReasonRequired, Message: "Must have data property."}
	}

	for _, fc := range fieldChecks {
		v := raw[fc.field]
		if isFalsy(v) {
			return Candidate{}, missingField(fc.field)
		}
		if err := fc.check(fc.field, v, &c); err != nil {
			return Candidate{}, err
		}
	}

	switch s := raw["status"].(type) {
	case nil:
	case string:
		c.Status = models.ReservationStatus(s)
	default:
		c.Status = models.ReservationStatus(fmt.Sprint(s))
	}
	return c, nil
}

func isFalsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case float64:
		return x == 0 || math.IsNaN(x)
	case int:
		return x == 0
	case json.Number:
		f, err := x.Float64()
		return err == nil && f == 0
	}
	return false
}

func textField(set func(*Candidate, string)) func(string, any, *Candidate) *ValidationError {
	return func(field string, v any, c *Candidate) *ValidationError {
		s, ok := v.(string)
		if !ok {
			return &ValidationError{Field: field, Reason: ReasonNotString, Message: fmt.Sprintf("%s must be a string.", field)}
		}
		set(c, s)
		return nil
	}
}

func checkDate(field string, v any, c *Candidate) *ValidationError {
	s, _ := v.(string)
	day, err := time.Parse(DateLayout, s)
	if err != nil {
		return &ValidationError{Field: field, Reason: ReasonInvalidDate, Message: fmt.Sprintf("%s is not a valid date.", field)}
	}
	c.Date = day.Format(DateLayout)
	c.day = day
	return nil
}

func checkTime(field string, v any, c *Candidate) *ValidationError {
	s, _ := v.(string)
	hour, minute, ok := ParseClock(s)
	if !ok || hour < 1 {
		return &ValidationError{Field: field, Reason: ReasonInvalidTime, Message: fmt.Sprintf("%s is not a valid time", field)}
	}
	c.Time = FormatClock(hour*60 + minute)
	c.minute = hour*60 + minute
	return nil
}

func checkPeople(field string, v any, c *Candidate) *ValidationError {
	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case int:
		n = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return notANumber(field, v)
		}
		n = f
	default:
		return notANumber(field, v)
	}
	if n < 1 || n != math.Trunc(n) || n > math.MaxInt32 {
		return &ValidationError{Field: field, Reason: ReasonNotPositive, Message: fmt.Sprintf("%v is not a positive whole number for %s field.", v, field)}
	}
	c.People = int(n)
	return nil
}

func notANumber(field string, v any) *ValidationError {
	return &ValidationError{Field: field, Reason: ReasonNotNumber, Message: fmt.Sprintf("%v is not a number type for %s field.", v, field)}
}

// ParseClock parses H:MM or HH:MM with hour 0-23 and minute 0-59. Each
// component must be one or two digits.
func ParseClock(s string) (hour, minute int, ok bool) {
	h, m, found := strings.Cut(s, ":")
	if !found {
		return 0, 0, false
	}
	hour, ok = clockComponent(h, 23)
	if !ok {
		return 0, 0, false
	}
	minute, ok = clockComponent(m, 59)
	if !ok {
		return 0, 0, false
	}
	return hour, minute, true
}

func clockComponent(s string, limit int) (int, bool) {
	if len(s) == 0 || len(s) > 2 {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n > limit {
		return 0, false
	}
	return n, true
}

// FormatClock renders minutes past midnight as zero-padded HH:MM.
func FormatClock(minuteOfDay int) string {
	return fmt.Sprintf("%02d:%02d", minuteOfDay/60, minuteOfDay%60)
}

package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
)

// Clock supplies the current time to the schedule guards.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Guard is a single business rule. It returns nil to let the chain continue.
type Guard[T any] func(T) error

// Run applies guards in order and returns the first violation.
func Run[T any](subject T, guards ...Guard[T]) error {
	for _, g := range guards {
		if err := g(subject); err != nil {
			return err
		}
	}
	return nil
}

// Submission is what the create and replace guards inspect. Existing is nil
// on create.
type Submission struct {
	Candidate Candidate
	Existing  *models.Reservation
}

// Schedule holds the restaurant's opening rules. OpensAt is inclusive and
// ClosesAt exclusive, both in minutes past midnight.
type Schedule struct {
	OpensAt   int
	ClosesAt  int
	ClosedDay time.Weekday
	Location  *time.Location
	Clock     Clock
}

// DefaultSchedule opens 10:30 to 21:30 and closes on Tuesdays.
func DefaultSchedule() Schedule {
	return Schedule{
		OpensAt:   10*60 + 30,
		ClosesAt:  21*60 + 30,
		ClosedDay: time.Tuesday,
		Location:  time.Local,
		Clock:     SystemClock,
	}
}

// NewSchedule builds a schedule from textual settings such as "10:30",
// "21:30", "tuesday" and an IANA zone name ("Local" for the host zone).
func NewSchedule(opensAt, closesAt, closedDay, timezone string) (Schedule, error) {
	s := DefaultSchedule()

	oh, om, ok := ParseClock(opensAt)
	if !ok {
		return s, fmt.Errorf("invalid opening time %q", opensAt)
	}
	ch, cm, ok := ParseClock(closesAt)
	if !ok {
		return s, fmt.Errorf("invalid closing time %q", closesAt)
	}
	s.OpensAt, s.ClosesAt = oh*60+om, ch*60+cm
	if s.OpensAt >= s.ClosesAt {
		return s, fmt.Errorf("opening time %s is not before closing time %s", opensAt, closesAt)
	}

	day, err := ParseWeekday(closedDay)
	if err != nil {
		return s, err
	}
	s.ClosedDay = day

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return s, fmt.Errorf("load timezone: %w", err)
	}
	s.Location = loc
	return s, nil
}

// ParseWeekday accepts English weekday names, case-insensitively.
func ParseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), strings.TrimSpace(name)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", name)
}

func (s Schedule) now() time.Time {
	clock, loc := s.Clock, s.Location
	if clock == nil {
		clock = SystemClock
	}
	if loc == nil {
		loc = time.Local
	}
	return clock.Now().In(loc)
}

// CheckCreate runs the full creation chain.
func (s Schedule) CheckCreate(c Candidate) error {
	return Run(Submission{Candidate: c}, s.notClosedDay, s.notInPast, s.withinOpenHours, BookedStatus)
}

// CheckSchedule runs the date and time guards only. Replacements run these
// before the stored record is looked up.
func (s Schedule) CheckSchedule(c Candidate) error {
	return Run(Submission{Candidate: c}, s.notClosedDay, s.notInPast, s.withinOpenHours)
}

func (s Schedule) notClosedDay(sub Submission) error {
	if sub.Candidate.Day().Weekday() == s.ClosedDay {
		return &RuleViolation{Code: CodeClosedDay, Message: fmt.Sprintf("Location is closed on %ss", s.ClosedDay)}
	}
	return nil
}

// notInPast compares whole minutes, so the current minute is still bookable.
func (s Schedule) notInPast(sub Submission) error {
	now := s.now()
	today := now.Format(DateLayout)
	c := sub.Candidate
	if c.Date < today || (c.Date == today && c.MinuteOfDay() < now.Hour()*60+now.Minute()) {
		return &RuleViolation{Code: CodePastReservation, Message: "Reservation must be set in the future"}
	}
	return nil
}

func (s Schedule) withinOpenHours(sub Submission) error {
	m := sub.Candidate.MinuteOfDay()
	if m < s.OpensAt || m >= s.ClosesAt {
		return &RuleViolation{Code: CodeOutsideOpenHours, Message: "Reservation must be made within business hours"}
	}
	return nil
}

// BookedStatus rejects a stored reservation that has left booked, and a
// submitted status other than booked.
func BookedStatus(sub Submission) error {
	if sub.Existing != nil && sub.Existing.Status != models.StatusBooked {
		return initialStatusViolation(sub.Existing.Status)
	}
	if st := sub.Candidate.Status; st != "" && st != models.StatusBooked {
		return initialStatusViolation(st)
	}
	return nil
}

func initialStatusViolation(st models.ReservationStatus) error {
	return &RuleViolation{Code: CodeInvalidInitialState, Message: fmt.Sprintf("New reservation can not have %s status.", st)}
}

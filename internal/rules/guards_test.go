package rules

import (
	"testing"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday 3 July 2024, 12:00 UTC.
var fixedNow = time.Date(2024, 7, 3, 12, 0, 0, 0, time.UTC)

func testSchedule() Schedule {
	s := DefaultSchedule()
	s.Location = time.UTC
	s.Clock = ClockFunc(func() time.Time { return fixedNow })
	return s
}

func candidate(t *testing.T, date, clock string) Candidate {
	t.Helper()
	raw := validRaw()
	raw["reservation_date"] = date
	raw["reservation_time"] = clock
	c, err := ValidateFields(raw)
	require.NoError(t, err)
	return c
}

func violationCode(t *testing.T, err error) string {
	t.Helper()
	rv, ok := AsRuleViolation(err)
	require.True(t, ok, "expected RuleViolation, got %v", err)
	return rv.Code
}

func TestCheckCreate_Success(t *testing.T) {
	err := testSchedule().CheckCreate(candidate(t, "2024-07-04", "18:00"))
	assert.NoError(t, err)
}

func TestCheckCreate_ClosedDay(t *testing.T) {
	// 2024-07-02 is a Tuesday and also in the past; the closed-day guard runs first.
	err := testSchedule().CheckCreate(candidate(t, "2024-07-02", "12:00"))

	assert.Equal(t, CodeClosedDay, violationCode(t, err))
	assert.EqualError(t, err, "Location is closed on Tuesdays")

	err = testSchedule().CheckCreate(candidate(t, "2024-07-09", "12:00"))
	assert.Equal(t, CodeClosedDay, violationCode(t, err))
}

func TestCheckCreate_PastDate(t *testing.T) {
	err := testSchedule().CheckCreate(candidate(t, "2024-07-01", "18:00"))

	assert.Equal(t, CodePastReservation, violationCode(t, err))
	assert.EqualError(t, err, "Reservation must be set in the future")
}

func TestCheckCreate_SameDayTime(t *testing.T) {
	s := testSchedule()

	err := s.CheckCreate(candidate(t, "2024-07-03", "11:59"))
	assert.Equal(t, CodePastReservation, violationCode(t, err))

	assert.NoError(t, s.CheckCreate(candidate(t, "2024-07-03", "12:00")))
	assert.NoError(t, s.CheckCreate(candidate(t, "2024-07-03", "12:01")))

	// Seconds are ignored: the current minute is still bookable.
	s.Clock = ClockFunc(func() time.Time { return fixedNow.Add(45 * time.Second) })
	assert.NoError(t, s.CheckCreate(candidate(t, "2024-07-03", "12:00")))
	err = s.CheckCreate(candidate(t, "2024-07-03", "11:59"))
	assert.Equal(t, CodePastReservation, violationCode(t, err))
}

func TestCheckCreate_UsesScheduleLocation(t *testing.T) {
	s := testSchedule()
	loc := time.FixedZone("UTC+10", 10*60*60)
	s.Location = loc

	// 12:00 UTC is 22:00 local on the same day, so 18:00 local is past.
	err := s.CheckCreate(candidate(t, "2024-07-03", "18:00"))
	assert.Equal(t, CodePastReservation, violationCode(t, err))
}

func TestCheckCreate_OpenHoursBoundaries(t *testing.T) {
	tests := []struct {
		clock string
		ok    bool
	}{
		{"9:45", false},
		{"09:59", false},
		{"10:00", false},
		{"10:29", false},
		{"10:30", true},
		{"15:00", true},
		{"21:00", true},
		{"21:29", true},
		{"21:30", false},
		{"21:45", false},
		{"22:00", false},
	}
	s := testSchedule()
	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			err := s.CheckCreate(candidate(t, "2024-07-04", tt.clock))
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, CodeOutsideOpenHours, violationCode(t, err))
		})
	}
}

// Single-digit hours are compared as numbers, never as text: "9:45" sorts
// after "10:30" lexically but is still before opening.
func TestCheckCreate_SingleDigitHourComparedNumerically(t *testing.T) {
	c := candidate(t, "2024-07-04", "9:45")
	assert.Equal(t, "09:45", c.Time)

	err := testSchedule().CheckCreate(c)
	assert.Equal(t, CodeOutsideOpenHours, violationCode(t, err))
}

func TestCheckCreate_InitialStatus(t *testing.T) {
	s := testSchedule()
	for _, st := range []models.ReservationStatus{models.StatusSeated, models.StatusFinished, models.StatusCancelled, "waiting"} {
		c := candidate(t, "2024-07-04", "18:00")
		c.Status = st

		err := s.CheckCreate(c)

		assert.Equal(t, CodeInvalidInitialState, violationCode(t, err), st)
		assert.EqualError(t, err, "New reservation can not have "+string(st)+" status.")
	}

	c := candidate(t, "2024-07-04", "18:00")
	c.Status = models.StatusBooked
	assert.NoError(t, s.CheckCreate(c))
}

func TestCheckSchedule_IgnoresStatus(t *testing.T) {
	c := candidate(t, "2024-07-04", "18:00")
	c.Status = models.StatusSeated

	assert.NoError(t, testSchedule().CheckSchedule(c))
}

func TestBookedStatus_Existing(t *testing.T) {
	c := candidate(t, "2024-07-04", "18:00")

	err := BookedStatus(Submission{Candidate: c, Existing: &models.Reservation{Status: models.StatusSeated}})
	assert.Equal(t, CodeInvalidInitialState, violationCode(t, err))

	assert.NoError(t, BookedStatus(Submission{Candidate: c, Existing: &models.Reservation{Status: models.StatusBooked}}))
}

func TestRun_StopsAtFirstViolation(t *testing.T) {
	var calls []string
	guard := func(name string, fail bool) Guard[int] {
		return func(int) error {
			calls = append(calls, name)
			if fail {
				return &RuleViolation{Code: name}
			}
			return nil
		}
	}

	err := Run(1, guard("a", false), guard("b", true), guard("c", true))

	assert.Equal(t, "b", violationCode(t, err))
	assert.Equal(t, []string{"a", "b"}, calls)
}

func TestNewSchedule(t *testing.T) {
	s, err := NewSchedule("11:00", "22:15", "Monday", "UTC")

	require.NoError(t, err)
	assert.Equal(t, 11*60, s.OpensAt)
	assert.Equal(t, 22*60+15, s.ClosesAt)
	assert.Equal(t, time.Monday, s.ClosedDay)
	assert.Equal(t, time.UTC, s.Location)
}

func TestNewSchedule_Invalid(t *testing.T) {
	_, err := NewSchedule("25:00", "21:30", "tuesday", "UTC")
	assert.Error(t, err)

	_, err = NewSchedule("21:30", "10:30", "tuesday", "UTC")
	assert.Error(t, err)

	_, err = NewSchedule("10:30", "21:30", "someday", "UTC")
	assert.Error(t, err)

	_, err = NewSchedule("10:30", "21:30", "tuesday", "Mars/Olympus")
	assert.Error(t, err)
}

//go:build integration

package integration

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/repository"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/rules"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday 3 July 2024, 12:00 UTC.
var fixedNow = time.Date(2024, 7, 3, 12, 0, 0, 0, time.UTC)

func newReservationService() service.ReservationService {
	schedule := rules.DefaultSchedule()
	schedule.Location = time.UTC
	schedule.Clock = rules.ClockFunc(func() time.Time { return fixedNow })
	return service.NewReservationService(repository.NewReservationRepository(testDB), schedule, nil)
}

func rawReservation(date, clock, phone string) map[string]any {
	return map[string]any{
		"first_name":       "Ada",
		"last_name":        "Lovelace",
		"mobile_number":    phone,
		"reservation_date": date,
		"reservation_time": clock,
		"people":           float64(2),
	}
}

func TestCreateAndRead(t *testing.T) {
	cleanTables()
	svc := newReservationService()

	created, err := svc.CreateReservation(t.Context(), rawReservation("2024-07-04", "18:00", "800-555-1212"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusBooked, created.Status)

	read, err := svc.GetReservation(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, read.ID)
	assert.Equal(t, created.ReservationDate, read.ReservationDate)
	assert.Equal(t, created.ReservationTime, read.ReservationTime)
	assert.Equal(t, created.Status, read.Status)
}

func TestStatusLifecycle(t *testing.T) {
	cleanTables()
	svc := newReservationService()

	r, err := svc.CreateReservation(t.Context(), rawReservation("2024-07-04", "18:00", "800-555-1212"))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(t.Context(), r.ID, models.StatusSeated)
	require.NoError(t, err)

	_, err = svc.ReplaceReservation(t.Context(), r.ID, rawReservation("2024-07-05", "19:00", "800-555-1212"))
	rv, ok := rules.AsRuleViolation(err)
	require.True(t, ok)
	assert.Equal(t, rules.CodeInvalidInitialState, rv.Code)

	_, err = svc.UpdateStatus(t.Context(), r.ID, models.StatusFinished)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(t.Context(), r.ID, models.StatusCancelled)
	rv, ok = rules.AsRuleViolation(err)
	require.True(t, ok)
	assert.Equal(t, rules.CodeFinished, rv.Code)

	_, err = svc.UpdateStatus(t.Context(), 9999, models.StatusSeated)
	assert.ErrorIs(t, err, service.ErrReservationNotFound)
}

func TestListing(t *testing.T) {
	cleanTables()
	svc := newReservationService()

	for _, in := range []map[string]any{
		rawReservation("2024-07-04", "19:00", "(800) 555-1212"),
		rawReservation("2024-07-04", "12:00", "800-555-9999"),
		rawReservation("2024-07-05", "12:00", "800 555 1212"),
	} {
		_, err := svc.CreateReservation(t.Context(), in)
		require.NoError(t, err)
	}

	byDate, err := svc.ListReservations(t.Context(), service.ListFilter{Date: "2024-07-04"})
	require.NoError(t, err)
	require.Len(t, byDate, 2)
	assert.Equal(t, "12:00", byDate[0].ReservationTime)
	assert.Equal(t, "19:00", byDate[1].ReservationTime)

	byPhone, err := svc.ListReservations(t.Context(), service.ListFilter{MobileNumber: "5551212"})
	require.NoError(t, err)
	assert.Len(t, byPhone, 2)

	all, err := svc.ListReservations(t.Context(), service.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

// Test: 10 requests finish the same reservation concurrently
// → exactly one succeeds, the rest see a conflict or the finished guard
func TestConcurrentStatusUpdates(t *testing.T) {
	cleanTables()
	svc := newReservationService()

	r, err := svc.CreateReservation(t.Context(), rawReservation("2024-07-04", "18:00", "800-555-1212"))
	require.NoError(t, err)

	total := 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	var succeeded, rejected int

	wg.Add(total)
	for i := 0; i < total; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.UpdateStatus(t.Context(), r.ID, models.StatusFinished)

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
				return
			}
			if _, ok := rules.AsRuleViolation(err); ok || errors.Is(err, service.ErrReservationConflict) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, total-1, rejected)

	final, err := svc.GetReservation(t.Context(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFinished, final.Status)
}

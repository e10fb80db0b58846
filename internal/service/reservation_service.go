package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/repository"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/rules"
	"gorm.io/gorm"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrReservationConflict = errors.New("reservation was changed by another request")
)

// NotFoundError names the missing reservation. It matches ErrReservationNotFound.
type NotFoundError struct {
	ID uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Reservation_id %d does not exist.", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrReservationNotFound
}

// Routing keys published after each committed mutation.
const (
	EventCreated       = "reservation.created"
	EventReplaced      = "reservation.replaced"
	EventStatusChanged = "reservation.status_changed"
)

type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// StatusChangedEvent is the payload of EventStatusChanged.
type StatusChangedEvent struct {
	models.Reservation
	PreviousStatus models.ReservationStatus `json:"previous_status"`
}

// ListFilter selects reservations. MobileNumber takes precedence over Date;
// an empty filter lists everything.
type ListFilter struct {
	Date         string
	MobileNumber string
}

type ReservationService interface {
	CreateReservation(ctx context.Context, raw map[string]any) (*models.Reservation, error)
	ReplaceReservation(ctx context.Context, id uint, raw map[string]any) (*models.Reservation, error)
	UpdateStatus(ctx context.Context, id uint, status models.ReservationStatus) (*models.Reservation, error)
	GetReservation(ctx context.Context, id uint) (*models.Reservation, error)
	ListReservations(ctx context.Context, filter ListFilter) ([]models.Reservation, error)
}

type reservationService struct {
	repo      repository.ReservationRepository
	schedule  rules.Schedule
	publisher EventPublisher
}

// NewReservationService wires the rule pipeline to the repository. publisher
// may be nil.
func NewReservationService(repo repository.ReservationRepository, schedule rules.Schedule, publisher EventPublisher) ReservationService {
	return &reservationService{
		repo:      repo,
		schedule:  schedule,
		publisher: publisher,
	}
}

func (s *reservationService) CreateReservation(ctx context.Context, raw map[string]any) (*models.Reservation, error) {
	c, err := rules.ValidateFields(raw)
	if err != nil {
		return nil, err
	}
	if err := s.schedule.CheckCreate(c); err != nil {
		return nil, err
	}

	reservation := c.Reservation(models.StatusBooked)
	if err := s.repo.Create(ctx, reservation); err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	s.publish(EventCreated, reservation)
	return reservation, nil
}

func (s *reservationService) ReplaceReservation(ctx context.Context, id uint, raw map[string]any) (*models.Reservation, error) {
	c, err := rules.ValidateFields(raw)
	if err != nil {
		return nil, err
	}
	if err := s.schedule.CheckSchedule(c); err != nil {
		return nil, err
	}

	existing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rules.BookedStatus(rules.Submission{Candidate: c, Existing: existing}); err != nil {
		return nil, err
	}

	updated, err := s.repo.Replace(ctx, id, existing.Status, c.Reservation(models.StatusBooked))
	if err != nil {
		return nil, s.writeError("replace", id, err)
	}

	s.publish(EventReplaced, updated)
	return updated, nil
}

func (s *reservationService) UpdateStatus(ctx context.Context, id uint, status models.ReservationStatus) (*models.Reservation, error) {
	existing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rules.CheckTransition(existing.Status, status); err != nil {
		return nil, err
	}
	// Moving to the current status changes nothing.
	if existing.Status == status {
		return existing, nil
	}

	updated, err := s.repo.UpdateStatus(ctx, id, existing.Status, status)
	if err != nil {
		return nil, s.writeError("update status of", id, err)
	}

	s.publish(EventStatusChanged, StatusChangedEvent{Reservation: *updated, PreviousStatus: existing.Status})
	return updated, nil
}

func (s *reservationService) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	return s.find(ctx, id)
}

func (s *reservationService) ListReservations(ctx context.Context, filter ListFilter) ([]models.Reservation, error) {
	switch {
	case filter.MobileNumber != "":
		return s.repo.SearchByPhone(ctx, filter.MobileNumber)
	case filter.Date != "":
		if _, err := time.Parse(rules.DateLayout, filter.Date); err != nil {
			return nil, &rules.ValidationError{Field: "date", Reason: rules.ReasonInvalidDate, Message: "date is not a valid date."}
		}
		return s.repo.FindByDate(ctx, filter.Date)
	default:
		return s.repo.FindAll(ctx)
	}
}

func (s *reservationService) find(ctx context.Context, id uint) (*models.Reservation, error) {
	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("find reservation %d: %w", id, err)
	}
	return reservation, nil
}

func (s *reservationService) writeError(op string, id uint, err error) error {
	if errors.Is(err, repository.ErrStaleReservation) {
		return ErrReservationConflict
	}
	return fmt.Errorf("%s reservation %d: %w", op, id, err)
}

func (s *reservationService) publish(routingKey string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(routingKey, payload); err != nil {
		log.Printf("[ReservationService] failed to publish %s: %v", routingKey, err)
	}
}

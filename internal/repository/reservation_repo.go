package repository

import (
	"context"
	"errors"
	"regexp"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"gorm.io/gorm"
)

// ErrStaleReservation is returned when a conditional write finds the
// reservation no longer in the status it was validated against.
var ErrStaleReservation = errors.New("reservation was modified concurrently")

type ReservationRepository interface {
	Create(ctx context.Context, reservation *models.Reservation) error
	FindByID(ctx context.Context, id uint) (*models.Reservation, error)
	UpdateStatus(ctx context.Context, id uint, from, to models.ReservationStatus) (*models.Reservation, error)
	Replace(ctx context.Context, id uint, from models.ReservationStatus, reservation *models.Reservation) (*models.Reservation, error)
	FindByDate(ctx context.Context, date string) ([]models.Reservation, error)
	SearchByPhone(ctx context.Context, phone string) ([]models.Reservation, error)
	FindAll(ctx context.Context) ([]models.Reservation, error)
}

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) Create(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

func (r *reservationRepository) FindByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := r.db.WithContext(ctx).First(&reservation, id).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

// UpdateStatus moves the reservation to status `to` only if it is still in
// status `from`.
func (r *reservationRepository) UpdateStatus(ctx context.Context, id uint, from, to models.ReservationStatus) (*models.Reservation, error) {
	return r.conditionalUpdate(ctx, id, from, map[string]any{"status": to})
}

// Replace overwrites every guest-editable column, guarded the same way as
// UpdateStatus.
func (r *reservationRepository) Replace(ctx context.Context, id uint, from models.ReservationStatus, reservation *models.Reservation) (*models.Reservation, error) {
	return r.conditionalUpdate(ctx, id, from, map[string]any{
		"first_name":       reservation.FirstName,
		"last_name":        reservation.LastName,
		"mobile_number":    reservation.MobileNumber,
		"reservation_date": reservation.ReservationDate,
		"reservation_time": reservation.ReservationTime,
		"people":           reservation.People,
		"status":           reservation.Status,
	})
}

func (r *reservationRepository) conditionalUpdate(ctx context.Context, id uint, from models.ReservationStatus, columns map[string]any) (*models.Reservation, error) {
	var result models.Reservation

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Reservation{}).
			Where("reservation_id = ? AND status = ?", id, from).
			Updates(columns)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleReservation
		}
		return tx.First(&result, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *reservationRepository) FindByDate(ctx context.Context, date string) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.db.WithContext(ctx).
		Where("reservation_date = ?", date).
		Order("reservation_time ASC, reservation_id ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

var nonDigits = regexp.MustCompile(`\D`)

// SearchByPhone matches any reservation whose number contains the digits of
// phone, ignoring punctuation and spaces on both sides.
func (r *reservationRepository) SearchByPhone(ctx context.Context, phone string) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.db.WithContext(ctx).
		Where("translate(mobile_number, '() -+.', '') LIKE ?", "%"+nonDigits.ReplaceAllString(phone, "")+"%").
		Order("reservation_date ASC, reservation_time ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *reservationRepository) FindAll(ctx context.Context) ([]models.Reservation, error) {
	var reservations []models.Reservation
	if err := r.db.WithContext(ctx).Order("reservation_date ASC, reservation_time ASC").Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

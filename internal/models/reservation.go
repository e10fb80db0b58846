package models

import "time"

type ReservationStatus string

const (
	StatusBooked    ReservationStatus = "booked"
	StatusSeated    ReservationStatus = "seated"
	StatusFinished  ReservationStatus = "finished"
	StatusCancelled ReservationStatus = "cancelled"
)

// Statuses lists every lifecycle state a reservation can hold.
var Statuses = []ReservationStatus{StatusBooked, StatusSeated, StatusFinished, StatusCancelled}

// Known reports whether s is one of the lifecycle states.
func (s ReservationStatus) Known() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Reservation dates are stored as YYYY-MM-DD and times as zero-padded HH:MM,
// so both columns sort lexically.
type Reservation struct {
	ID              uint              `gorm:"column:reservation_id;primaryKey" json:"reservation_id"`
	FirstName       string            `gorm:"not null" json:"first_name"`
	LastName        string            `gorm:"not null" json:"last_name"`
	MobileNumber    string            `gorm:"not null;index" json:"mobile_number"`
	ReservationDate string            `gorm:"type:varchar(10);not null;index" json:"reservation_date"`
	ReservationTime string            `gorm:"type:varchar(5);not null" json:"reservation_time"`
	People          int               `gorm:"not null" json:"people"`
	Status          ReservationStatus `gorm:"type:varchar(20);not null;default:'booked'" json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

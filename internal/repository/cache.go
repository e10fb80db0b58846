package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/redis/go-redis/v9"
)

// cachedReservationRepository serves FindByDate from Redis. Every write bumps
// a generation counter that is part of the key, so stale day lists are never
// read again and simply expire.
type cachedReservationRepository struct {
	ReservationRepository
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewCachedReservationRepository wraps next with a Redis read-through cache.
// A nil client returns next unchanged.
func NewCachedReservationRepository(next ReservationRepository, rdb *redis.Client, prefix string, ttl time.Duration) ReservationRepository {
	if rdb == nil {
		return next
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if prefix == "" {
		prefix = "reservations"
	}
	return &cachedReservationRepository{ReservationRepository: next, rdb: rdb, ttl: ttl, prefix: prefix}
}

func (r *cachedReservationRepository) generationKey() string {
	return r.prefix + ":gen"
}

func dateKey(prefix string, generation int64, date string) string {
	return fmt.Sprintf("%s:date:%d:%s", prefix, generation, date)
}

func (r *cachedReservationRepository) FindByDate(ctx context.Context, date string) ([]models.Reservation, error) {
	gen, err := r.rdb.Get(ctx, r.generationKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Printf("[ReservationCache] read generation: %v", err)
		return r.ReservationRepository.FindByDate(ctx, date)
	}
	key := dateKey(r.prefix, gen, date)

	if bs, err := r.rdb.Get(ctx, key).Bytes(); err == nil {
		var cached []models.Reservation
		if err := json.Unmarshal(bs, &cached); err == nil {
			return cached, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("[ReservationCache] get %s: %v", key, err)
	}

	reservations, err := r.ReservationRepository.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if bs, err := json.Marshal(reservations); err == nil {
		if err := r.rdb.SetEx(ctx, key, bs, r.ttl).Err(); err != nil {
			log.Printf("[ReservationCache] set %s: %v", key, err)
		}
	}
	return reservations, nil
}

func (r *cachedReservationRepository) invalidate(ctx context.Context) {
	if err := r.rdb.Incr(ctx, r.generationKey()).Err(); err != nil {
		log.Printf("[ReservationCache] invalidate: %v", err)
	}
}

func (r *cachedReservationRepository) Create(ctx context.Context, reservation *models.Reservation) error {
	if err := r.ReservationRepository.Create(ctx, reservation); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *cachedReservationRepository) UpdateStatus(ctx context.Context, id uint, from, to models.ReservationStatus) (*models.Reservation, error) {
	reservation, err := r.ReservationRepository.UpdateStatus(ctx, id, from, to)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return reservation, nil
}

func (r *cachedReservationRepository) Replace(ctx context.Context, id uint, from models.ReservationStatus, reservation *models.Reservation) (*models.Reservation, error) {
	updated, err := r.ReservationRepository.Replace(ctx, id, from, reservation)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return updated, nil
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/field-service/internal/persistence"
)

// OTPRepository stores one-time login codes with an expiry.
type OTPRepository interface {
	Save(ctx context.Context, contact, code string, ttl time.Duration) bool
	// Lookup reports the live code for contact. An expired code, a missing
	// code and an unreachable store all read as absent.
	Lookup(ctx context.Context, contact string) (string, bool)
}

type otpRepository struct {
	redis *persistence.Redis
	db    *Resilient
}

// NewOTPRepository builds the Redis-backed code store.
func NewOTPRepository(redis *persistence.Redis, db *Resilient) OTPRepository {
	return &otpRepository{redis: redis, db: db}
}

func otpKey(contact string) string {
	return "otp:" + contact
}

func (r *otpRepository) Save(ctx context.Context, contact, code string, ttl time.Duration) bool {
	return Attempt(ctx, r.db, "otp.save", false, func(ctx context.Context) (bool, error) {
		if r.redis == nil || r.redis.Client == nil {
			return false, errRedisNotConfigured
		}
		if err := r.redis.Client.Set(ctx, otpKey(contact), code, ttl).Err(); err != nil {
			return false, err
		}
		return true, nil
	})
}

func (r *otpRepository) Lookup(ctx context.Context, contact string) (string, bool) {
	code := Attempt(ctx, r.db, "otp.lookup", "", func(ctx context.Context) (string, error) {
		if r.redis == nil || r.redis.Client == nil {
			return "", errRedisNotConfigured
		}
		code, err := r.redis.Client.Get(ctx, otpKey(contact)).Result()
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return code, err
	})
	return code, code != ""
}

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/sangkips/po-composer/internal/domain/repository"
	"github.com/sangkips/po-composer/pkg/apperror"
	"github.com/sirupsen/logrus"
)

const latchPrefix = "lock:submit:"

type redisSubmissionLatch struct {
	locker *redislock.Client
	ttl    time.Duration
	logger logrus.FieldLogger
}

// NewRedisSubmissionLatch guards submissions with a redis lock so replicas
// share one in-flight submission per session. ttl bounds how long a crashed
// holder can block the session.
func NewRedisSubmissionLatch(client redislock.RedisClient, ttl time.Duration, logger logrus.FieldLogger) repository.SubmissionLatch {
	return &redisSubmissionLatch{
		locker: redislock.New(client),
		ttl:    ttl,
		logger: logger,
	}
}

func (l *redisSubmissionLatch) Acquire(ctx context.Context, key string) (func(), error) {
	lock, err := l.locker.Obtain(ctx, latchPrefix+key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, apperror.ErrSubmissionInFlight
	} else if err != nil {
		return nil, err
	}

	return func() {
		// The request context may be gone by the time the submission ends.
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.logger.WithError(err).WithField("key", key).Warn("failed to release submission lock")
		}
	}, nil
}

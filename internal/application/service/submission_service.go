package service

import (
	"context"
	"sync"

	"github.com/sangkips/po-composer/internal/domain/entity"
	"github.com/sangkips/po-composer/internal/domain/repository"
	"github.com/sangkips/po-composer/pkg/apperror"
	"github.com/sirupsen/logrus"
)

// SubmissionService validates a finalized draft and hands it to the backend
type SubmissionService struct {
	orderRepo repository.OrderRepository
	latch     repository.SubmissionLatch
	logger    logrus.FieldLogger
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(orderRepo repository.OrderRepository, latch repository.SubmissionLatch, logger logrus.FieldLogger) *SubmissionService {
	return &SubmissionService{
		orderRepo: orderRepo,
		latch:     latch,
		logger:    logger,
	}
}

// Validate checks submit eligibility: at least one item, a supplier, and a
// name on every item.
func (s *SubmissionService) Validate(d entity.Draft) error {
	return validateStruct(&d)
}

// Submit validates the draft and creates the order. Only one submission per
// key can be in flight; a second one fails with ErrSubmissionInFlight before
// any network call.
func (s *SubmissionService) Submit(ctx context.Context, key string, d entity.Draft, t entity.Totals) (*entity.Order, error) {
	return s.SubmitThen(ctx, key, d, t, nil)
}

// SubmitThen is Submit with an afterCreate hook that runs while the latch is
// still held, so a second submission cannot see the draft before it is reset.
func (s *SubmissionService) SubmitThen(ctx context.Context, key string, d entity.Draft, t entity.Totals, afterCreate func(context.Context)) (*entity.Order, error) {
	if err := s.Validate(d); err != nil {
		return nil, err
	}

	release, err := s.latch.Acquire(ctx, key)
	if err != nil {
		return nil, err
	}
	defer release()

	order, err := s.orderRepo.CreateOrder(ctx, entity.NewOrderRequest(d, t))
	if err != nil {
		s.logger.WithError(err).WithField("po_number", d.PONumber).Warn("order submission failed")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":  order.ID,
		"po_number": order.PONumber,
	}).Info("order submitted")

	if afterCreate != nil {
		afterCreate(ctx)
	}
	return order, nil
}

// LocalSubmissionLatch is an in-process SubmissionLatch
type LocalSubmissionLatch struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocalSubmissionLatch creates a new in-process latch
func NewLocalSubmissionLatch() *LocalSubmissionLatch {
	return &LocalSubmissionLatch{held: make(map[string]struct{})}
}

// Acquire takes the latch for key
func (l *LocalSubmissionLatch) Acquire(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.held[key]; busy {
		return nil, apperror.ErrSubmissionInFlight
	}
	l.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, nil
}

package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"storefront-service/models"
	"storefront-service/repository"
)

// conflictingCartRepository fails the next N saves with a version conflict.
type conflictingCartRepository struct {
	*repository.MemoryCartRepository
	conflicts int
	saves     int
}

func (r *conflictingCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	r.saves++
	if r.conflicts > 0 {
		r.conflicts--
		return repository.ErrVersionConflict
	}
	return r.MemoryCartRepository.Save(ctx, cart)
}

// brokenCartRepository fails every call with a store fault.
type brokenCartRepository struct{}

var errStoreDown = errors.New("store unavailable")

func (brokenCartRepository) GetOrCreate(context.Context, string) (*models.Cart, error) {
	return nil, errStoreDown
}
func (brokenCartRepository) Find(context.Context, string) (*models.Cart, error) {
	return nil, errStoreDown
}
func (brokenCartRepository) Save(context.Context, *models.Cart) error { return errStoreDown }

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.CheckoutEvent
	err    error
}

func (p *recordingPublisher) PublishCheckout(_ context.Context, event models.CheckoutEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

type recordingMetrics struct {
	counts map[string]int
}

func (m *recordingMetrics) RecordCount(_ context.Context, name string, _ map[string]string) error {
	if m.counts == nil {
		m.counts = map[string]int{}
	}
	m.counts[name]++
	return nil
}

func (m *recordingMetrics) RecordLatency(context.Context, string, time.Duration, map[string]string) error {
	return nil
}

func (m *recordingMetrics) IsEnabled() bool { return true }


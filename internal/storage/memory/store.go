package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tjfontaine/apicore/internal/storage"
	"github.com/tjfontaine/apicore/pkg/apiclient"
)

// Store is an in-memory implementation of ExchangeStore
type Store struct {
	mu        sync.RWMutex
	exchanges map[string]*apiclient.ExchangeRecord
}

var _ storage.ExchangeStore = (*Store)(nil)

// New creates a new in-memory store
func New() *Store {
	return &Store{
		exchanges: make(map[string]*apiclient.ExchangeRecord),
	}
}

func (s *Store) RecordExchange(ctx context.Context, rec apiclient.ExchangeRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("exchange record has no id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.exchanges[rec.ID]; exists {
		return fmt.Errorf("exchange %s already recorded", rec.ID)
	}

	s.exchanges[rec.ID] = &rec
	return nil
}

func (s *Store) GetExchange(ctx context.Context, id string) (*apiclient.ExchangeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.exchanges[id]
	if !exists {
		return nil, fmt.Errorf("exchange %s: %w", id, storage.ErrNotFound)
	}

	out := *rec
	return &out, nil
}

func (s *Store) ListExchanges(ctx context.Context, opts storage.ListOptions) ([]*apiclient.ExchangeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*apiclient.ExchangeRecord
	for _, rec := range s.exchanges {
		if !opts.Matches(rec) {
			continue
		}
		out := *rec
		result = append(result, &out)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	// Simple pagination; Limit <= 0 means no limit
	start := max(opts.Offset, 0)
	if start >= len(result) {
		return []*apiclient.ExchangeRecord{}, nil
	}

	end := len(result)
	if opts.Limit > 0 && start+opts.Limit < end {
		end = start + opts.Limit
	}

	return result[start:end], nil
}

func (s *Store) Close() error {
	return nil
}

// Package memory keeps cached responses in a process-local LRU with TTL.
package memory

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/JakeFAU/workshop-aggregator/internal/workshop"
)

// DefaultMaxEntries bounds the LRU when no size is configured.
const DefaultMaxEntries = 4096

// Store implements workshop.ResponseCache.
type Store struct {
	lru *expirable.LRU[string, workshop.CachedResponse]
}

// NewStore creates a store holding at most maxEntries responses for ttl.
func NewStore(maxEntries int, ttl time.Duration) *Store {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Store{lru: expirable.NewLRU[string, workshop.CachedResponse](maxEntries, nil, ttl)}
}

// Get returns the response stored under key.
func (s *Store) Get(_ context.Context, key string) (workshop.CachedResponse, bool, error) {
	resp, ok := s.lru.Get(key)
	if !ok {
		return workshop.CachedResponse{}, false, nil
	}
	return clone(resp), true, nil
}

// Put stores a private copy of resp under key.
func (s *Store) Put(_ context.Context, key string, resp workshop.CachedResponse) error {
	s.lru.Add(key, clone(resp))
	return nil
}

// Len reports the number of live entries.
func (s *Store) Len() int {
	return s.lru.Len()
}

func clone(resp workshop.CachedResponse) workshop.CachedResponse {
	out := workshop.CachedResponse{
		Status: resp.Status,
		Body:   append([]byte(nil), resp.Body...),
	}
	if resp.Header != nil {
		out.Header = resp.Header.Clone()
	} else {
		out.Header = http.Header{}
	}
	return out
}

package sticky

import (
	"context"
	"fmt"
	"slices"
	"strconv"
)

// store is the consumer interface for sticky list operations (ISP).
type store interface {
	SMembers(ctx context.Context, key string) ([]string, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
}

// Store keeps the pinned place ids in a Redis set.
type Store struct {
	store store
	key   string
}

// New creates a sticky store. Members live under <prefix>sticky.
func New(s store, prefix string) *Store {
	return &Store{store: s, key: prefix + "sticky"}
}

// Key returns the set key.
func (s *Store) Key() string { return s.key }

// IDs returns the pinned ids in ascending order. Non-numeric members are skipped.
func (s *Store) IDs(ctx context.Context) ([]int64, error) {
	members, err := s.store.SMembers(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("sticky SMEMBERS %s: %w", s.key, err)
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Add pins ids.
func (s *Store) Add(ctx context.Context, ids ...int64) error {
	if err := s.store.SAdd(ctx, s.key, members(ids)...); err != nil {
		return fmt.Errorf("sticky SADD %s: %w", s.key, err)
	}
	return nil
}

// Remove unpins ids.
func (s *Store) Remove(ctx context.Context, ids ...int64) error {
	if err := s.store.SRem(ctx, s.key, members(ids)...); err != nil {
		return fmt.Errorf("sticky SREM %s: %w", s.key, err)
	}
	return nil
}

func members(ids []int64) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strconv.FormatInt(id, 10)
	}
	return out
}

package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/davitran/storefront/internal/redisx"
)

// Store persists one cart per identity as a single JSON snapshot. Every
// mutation rewrites the whole value; Clear deletes the key, so a later Load
// yields an empty cart. Carts do not expire.
type Store struct{ RDB *redis.Client }

func (s *Store) Load(ctx context.Context, identity string) ([]Entry, error) {
	raw, err := s.RDB.Get(ctx, fmt.Sprintf(redisx.KeyCart, identity)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) Save(ctx context.Context, identity string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return s.RDB.Set(ctx, fmt.Sprintf(redisx.KeyCart, identity), b, 0).Err()
}

func (s *Store) Clear(ctx context.Context, identity string) error {
	return s.RDB.Del(ctx, fmt.Sprintf(redisx.KeyCart, identity)).Err()
}

package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/davitran/storefront/internal/redisx"
)

// ProfileStore holds the free-form contact fields a user fills in on their
// profile page. One JSON object per username, no schema.
type ProfileStore struct{ RDB *redis.Client }

func (s *ProfileStore) Get(ctx context.Context, username string) (map[string]string, error) {
	key := fmt.Sprintf(redisx.KeyProfile, username)
	raw, err := s.RDB.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	var fields map[string]string
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func (s *ProfileStore) Set(ctx context.Context, username string, fields map[string]string) error {
	b, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	key := fmt.Sprintf(redisx.KeyProfile, username)
	return s.RDB.Set(ctx, key, b, 0).Err()
}

package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Settings selects and configures a backend.
type Settings struct {
	Backend       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PostgresDSN   string
}

// Open builds the Store named by s.Backend.
func Open(ctx context.Context, s Settings) (Store, error) {
	switch s.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     s.RedisAddr,
			Password: s.RedisPassword,
			DB:       s.RedisDB,
		})
		st := NewRedisStore(client)
		if err := st.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, err
		}
		return st, nil
	case BackendPostgres:
		return OpenPostgres(ctx, s.PostgresDSN)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, s.Backend)
	}
}

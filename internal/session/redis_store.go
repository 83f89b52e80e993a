package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore хранит ключи сессии в Redis
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore создает хранилище поверх готового клиента.
// prefix добавляется к именам ключей, например "tendersdz:".
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) tokenKey() string {
	return r.prefix + TokenKey
}

func (r *RedisStore) identifierKey() string {
	return r.prefix + IdentifierKey
}

func (r *RedisStore) Read(ctx context.Context) (State, error) {
	vals, err := r.client.MGet(ctx, r.tokenKey(), r.identifierKey()).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return State{}, fmt.Errorf("redis read session: %w", err)
	}

	var st State
	if len(vals) == 2 {
		if v, ok := vals[0].(string); ok {
			st.Token = v
		}
		if v, ok := vals[1].(string); ok {
			st.Identifier = v
		}
	}
	return st.normalize(), nil
}

func (r *RedisStore) Write(ctx context.Context, state State) error {
	state = state.normalize()

	// оба ключа меняются в одной транзакции MULTI/EXEC
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if state.Empty() {
			pipe.Del(ctx, r.tokenKey(), r.identifierKey())
			return nil
		}
		pipe.Set(ctx, r.tokenKey(), state.Token, 0)
		if state.Identifier != "" {
			pipe.Set(ctx, r.identifierKey(), state.Identifier, 0)
		} else {
			pipe.Del(ctx, r.identifierKey())
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis write session: %w", err)
	}
	return nil
}

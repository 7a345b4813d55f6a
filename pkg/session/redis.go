package session

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "duende:session:"

// RedisStore keeps sessions in Redis as JSON documents.
// Keys expire with the session, so no cleanup task is needed.
//
//	<prefix>token:<token> -> session JSON
//	<prefix>id:<id>       -> token
//	<prefix>user:<user>   -> set of session IDs
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithRedisPrefix sets the key prefix.
func WithRedisPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// NewRedisStore creates a store backed by client.
func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, prefix: defaultRedisPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (r *RedisStore) tokenKey(token string) string { return r.prefix + "token:" + token }
func (r *RedisStore) idKey(id string) string       { return r.prefix + "id:" + id }
func (r *RedisStore) userKey(user string) string   { return r.prefix + "user:" + user }

func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	if s.Token == "" {
		return ErrInvalidToken
	}
	return r.write(ctx, s, "")
}

func (r *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	s, err := r.load(ctx, r.tokenKey(token))
	if err != nil {
		return nil, err
	}
	if s.IsExpired() {
		return nil, ErrExpired
	}
	return s, nil
}

func (r *RedisStore) Update(ctx context.Context, s *Session) error {
	oldToken, err := r.client.Get(ctx, r.idKey(s.ID)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return r.write(ctx, s, oldToken)
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	token, err := r.client.Get(ctx, r.idKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}

	s, err := r.load(ctx, r.tokenKey(token))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.tokenKey(token), r.idKey(id))
		if s != nil && s.IsAuthenticated() {
			pipe.SRem(ctx, r.userKey(s.User()), id)
		}
		return nil
	})
	return err
}

func (r *RedisStore) DeleteByUserID(ctx context.Context, userID string) error {
	ids, err := r.client.SMembers(ctx, r.userKey(userID)).Result()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := r.Delete(ctx, id); err != nil {
			return err
		}
	}
	return r.client.Del(ctx, r.userKey(userID)).Err()
}

func (r *RedisStore) Touch(ctx context.Context, id string, lastActiveAt time.Time) error {
	token, err := r.client.Get(ctx, r.idKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	s, err := r.load(ctx, r.tokenKey(token))
	if err != nil {
		return err
	}
	s.LastActiveAt = lastActiveAt

	data, err := sonic.ConfigStd.Marshal(toRecord(s))
	if err != nil {
		return errors.Join(ErrEncode, err)
	}
	return r.client.SetArgs(ctx, r.tokenKey(token), data, redis.SetArgs{KeepTTL: true}).Err()
}

func (r *RedisStore) load(ctx context.Context, key string) (*Session, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var rec record
	if err := sonic.ConfigStd.Unmarshal(data, &rec); err != nil {
		return nil, errors.Join(ErrDecode, err)
	}
	return rec.session(), nil
}

func (r *RedisStore) write(ctx context.Context, s *Session, oldToken string) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}

	data, err := sonic.ConfigStd.Marshal(toRecord(s))
	if err != nil {
		return errors.Join(ErrEncode, err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if oldToken != "" && oldToken != s.Token {
			pipe.Del(ctx, r.tokenKey(oldToken))
		}
		pipe.Set(ctx, r.tokenKey(s.Token), data, ttl)
		pipe.Set(ctx, r.idKey(s.ID), s.Token, ttl)
		if s.IsAuthenticated() {
			pipe.SAdd(ctx, r.userKey(s.User()), s.ID)
			pipe.Expire(ctx, r.userKey(s.User()), ttl)
		}
		return nil
	})
	return err
}

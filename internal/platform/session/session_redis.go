// Package session stores login sessions in Redis.
//
// Each session lives under "<prefix>:<id>" with a TTL equal to its remaining
// lifetime; "<prefix>:user:<id>" is a set indexing a user's session ids.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"foodie/internal/feature/auth/domain/entity"
	"foodie/internal/feature/auth/usecase"
)

// DefaultPrefix namespaces session keys.
const DefaultPrefix = "foodie:session"

// record is the JSON stored per session.
type record struct {
	ID        string     `json:"id"`
	UserID    uint       `json:"user_id"`
	UserAgent string     `json:"user_agent"`
	IPAddress string     `json:"ip_address"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

func toRecord(s *entity.Session) record {
	return record{
		ID:        s.ID,
		UserID:    s.UserID,
		UserAgent: s.UserAgent,
		IPAddress: s.IPAddress,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
		RevokedAt: s.RevokedAt,
	}
}

func (r record) toEntity() *entity.Session {
	return &entity.Session{
		ID:        r.ID,
		UserID:    r.UserID,
		UserAgent: r.UserAgent,
		IPAddress: r.IPAddress,
		CreatedAt: r.CreatedAt,
		ExpiresAt: r.ExpiresAt,
		RevokedAt: r.RevokedAt,
	}
}

// SessionRedis implements usecase.SessionRepository using Redis.
type SessionRedis struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

var _ usecase.SessionRepository = (*SessionRedis)(nil)

// NewSessionRedis creates a new SessionRedis. An empty prefix selects DefaultPrefix.
func NewSessionRedis(client redis.UniversalClient, prefix string) *SessionRedis {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &SessionRedis{client: client, prefix: prefix, now: time.Now}
}

func (r *SessionRedis) sessionKey(id string) string {
	return r.prefix + ":" + id
}

func (r *SessionRedis) userSessionsKey(userID uint) string {
	return fmt.Sprintf("%s:user:%d", r.prefix, userID)
}

// Create stores the session and indexes it under its user in one MULTI block.
func (r *SessionRedis) Create(ctx context.Context, s *entity.Session) error {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	data, err := json.Marshal(toRecord(s))
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	userKey := r.userSessionsKey(s.UserID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.sessionKey(s.ID), data, ttl)
		pipe.SAdd(ctx, userKey, s.ID)
		// Every session has the same lifetime, so the newest one bounds the index.
		pipe.Expire(ctx, userKey, ttl)
		return nil
	})
	return err
}

// FindByID returns usecase.ErrSessionNotFound when the session is unknown or expired.
func (r *SessionRedis) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, usecase.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func decode(data []byte) (*entity.Session, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return rec.toEntity(), nil
}

// Revoke marks the session revoked and keeps it until it would have expired.
func (r *SessionRedis) Revoke(ctx context.Context, id string) error {
	s, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if s.IsRevoked() {
		return usecase.ErrSessionNotFound
	}
	now := r.now()
	s.RevokedAt = &now

	data, err := json.Marshal(toRecord(s))
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return r.client.SetArgs(ctx, r.sessionKey(id), data, redis.SetArgs{KeepTTL: true, Mode: "XX"}).Err()
}

// RevokeAllByUserID revokes every session of the user and drops the index.
func (r *SessionRedis) RevokeAllByUserID(ctx context.Context, userID uint) error {
	ids, err := r.client.SMembers(ctx, r.userSessionsKey(userID)).Result()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := r.Revoke(ctx, id); err != nil && !errors.Is(err, usecase.ErrSessionNotFound) {
			return err
		}
	}
	return r.client.Del(ctx, r.userSessionsKey(userID)).Err()
}

// active loads the user's live sessions, oldest first, pruning index entries
// whose session has already expired.
func (r *SessionRedis) active(ctx context.Context, userID uint) ([]*entity.Session, error) {
	userKey := r.userSessionsKey(userID)
	ids, err := r.client.SMembers(ctx, userKey).Result()
	if err != nil || len(ids) == 0 {
		return nil, err
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.sessionKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	var sessions []*entity.Session
	var stale []interface{}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		s, err := decode([]byte(raw))
		if err != nil {
			return nil, err
		}
		if s.IsValid() {
			sessions = append(sessions, s)
		}
	}
	if len(stale) > 0 {
		if err := r.client.SRem(ctx, userKey, stale...).Err(); err != nil {
			return nil, err
		}
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	return sessions, nil
}

// CountByUserID returns the number of live sessions for a user.
func (r *SessionRedis) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	sessions, err := r.active(ctx, userID)
	if err != nil {
		return 0, err
	}
	return int64(len(sessions)), nil
}

// DeleteOldestByUserID deletes the user's oldest live session.
func (r *SessionRedis) DeleteOldestByUserID(ctx context.Context, userID uint) error {
	sessions, err := r.active(ctx, userID)
	if err != nil || len(sessions) == 0 {
		return err
	}
	oldest := sessions[0]
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.sessionKey(oldest.ID))
		pipe.SRem(ctx, r.userSessionsKey(userID), oldest.ID)
		return nil
	})
	return err
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mubs-locator/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

const otpKeyPrefix = "otp:"

// expiryGrace keeps a stale record readable past ExpiresAt so verify can
// report it as expired rather than missing. Redis reclaims it afterwards.
const expiryGrace = time.Hour

// Each record is a hash under otp:<identity>; the key expires with the code.
const (
	hCode      = "code"
	hIssueID   = "issue_id"
	hAttempts  = "attempts"
	hCreatedAt = "created_at"
	hExpiresAt = "expires_at"
)

// consumeScript deletes the key only if it still belongs to the given issuance.
var consumeScript = goredis.NewScript(`
if redis.call("HGET", KEYS[1], "issue_id") == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// failureScript increments attempts only if the key still belongs to the given issuance.
var failureScript = goredis.NewScript(`
if redis.call("HGET", KEYS[1], "issue_id") == ARGV[1] then
	return redis.call("HINCRBY", KEYS[1], "attempts", 1)
end
return -1
`)

// OTPStore implements the OTP store on Redis. All conditional operations run
// as Lua scripts so they are atomic on the server.
type OTPStore struct {
	rdb *goredis.Client
}

func NewOTPStore(client *goredis.Client) *OTPStore {
	return &OTPStore{rdb: client}
}

func otpKey(identity string) string { return otpKeyPrefix + identity }

func (s *OTPStore) Put(ctx context.Context, rec *domain.OTPRecord) error {
	key := otpKey(rec.Identity)
	_, err := s.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Del(ctx, key)
		p.HSet(ctx, key, encodeRecord(rec))
		p.ExpireAt(ctx, key, rec.ExpiresAt.Add(expiryGrace))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis put otp: %w", err)
	}
	return nil
}

func (s *OTPStore) Get(ctx context.Context, identity string) (*domain.OTPRecord, error) {
	fields, err := s.rdb.HGetAll(ctx, otpKey(identity)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get otp: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("otp record not found: %w", domain.ErrNotFound)
	}
	return decodeRecord(identity, fields)
}

func (s *OTPStore) Consume(ctx context.Context, rec *domain.OTPRecord) error {
	n, err := consumeScript.Run(ctx, s.rdb, []string{otpKey(rec.Identity)}, rec.IssueID).Int()
	if err != nil {
		return fmt.Errorf("redis consume otp: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("otp record changed: %w", domain.ErrNotFound)
	}
	return nil
}

func (s *OTPStore) RecordFailure(ctx context.Context, rec *domain.OTPRecord) (int, error) {
	n, err := failureScript.Run(ctx, s.rdb, []string{otpKey(rec.Identity)}, rec.IssueID).Int()
	if err != nil {
		return 0, fmt.Errorf("redis record otp failure: %w", err)
	}
	if n < 0 {
		return 0, fmt.Errorf("otp record changed: %w", domain.ErrNotFound)
	}
	return n, nil
}

func (s *OTPStore) Delete(ctx context.Context, identity string) error {
	if err := s.rdb.Del(ctx, otpKey(identity)).Err(); err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("redis delete otp: %w", err)
	}
	return nil
}

func encodeRecord(rec *domain.OTPRecord) map[string]interface{} {
	return map[string]interface{}{
		hCode:      rec.Code,
		hIssueID:   rec.IssueID,
		hAttempts:  rec.Attempts,
		hCreatedAt: rec.CreatedAt.Unix(),
		hExpiresAt: rec.ExpiresAt.Unix(),
	}
}

func decodeRecord(identity string, fields map[string]string) (*domain.OTPRecord, error) {
	attempts, err := strconv.Atoi(fields[hAttempts])
	if err != nil {
		return nil, fmt.Errorf("decode attempts: %w", err)
	}
	createdAt, err := strconv.ParseInt(fields[hCreatedAt], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode created_at: %w", err)
	}
	expiresAt, err := strconv.ParseInt(fields[hExpiresAt], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode expires_at: %w", err)
	}
	return &domain.OTPRecord{
		Identity:  identity,
		Code:      fields[hCode],
		IssueID:   fields[hIssueID],
		Attempts:  attempts,
		CreatedAt: time.Unix(createdAt, 0).UTC(),
		ExpiresAt: time.Unix(expiresAt, 0).UTC(),
	}, nil
}

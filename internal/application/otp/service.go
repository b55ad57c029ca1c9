package otp

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mubs-locator/internal/domain"
	"github.com/mubs-locator/internal/pkg/clock"
	"github.com/mubs-locator/internal/pkg/id"
	"github.com/mubs-locator/internal/pkg/token"
	"github.com/mubs-locator/internal/pkg/validate"
)

// Store persists at most one OTPRecord per identity. Every method is atomic per key.
type Store interface {
	Get(ctx context.Context, identity string) (*domain.OTPRecord, error)
	// Put overwrites whatever record exists for rec.Identity.
	Put(ctx context.Context, rec *domain.OTPRecord) error
	// Consume deletes the record only if it still carries rec.IssueID.
	// Returns domain.ErrNotFound when the record is gone or was re-issued.
	Consume(ctx context.Context, rec *domain.OTPRecord) error
	// RecordFailure increments the attempt counter if the record still carries
	// rec.IssueID and returns the new count. Same ErrNotFound contract as Consume.
	RecordFailure(ctx context.Context, rec *domain.OTPRecord) (int, error)
	Delete(ctx context.Context, identity string) error
}

// Mailer delivers the code to the identity's inbox.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

// Generator produces a fresh code for server-side issuance.
type Generator interface {
	Generate() (string, error)
}

// NumericGenerator generates crypto-random decimal codes of a fixed length.
type NumericGenerator struct {
	Digits int
}

func (g NumericGenerator) Generate() (string, error) {
	return token.NewNumericCode(g.Digits)
}

// Config is fixed at construction; none of it is caller-supplied per request.
type Config struct {
	Window      time.Duration
	MaxAttempts int // 0 disables the lockout
	Subject     string
	// BodyFormat must contain exactly one %s verb for the code.
	BodyFormat string
}

const (
	DefaultWindow     = 30 * time.Minute
	DefaultBodyFormat = "Your verification code is: %s"
)

// codeRule admits what NumericGenerator can produce: decimal digits, at most 18.
const codeRule = "number,max=18"

type IssueResult struct {
	Identity  string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Service interface {
	Issue(ctx context.Context, identity, code string) (*IssueResult, error)
	IssueGenerated(ctx context.Context, identity string) (*IssueResult, error)
	Resend(ctx context.Context, identity string) (*IssueResult, error)
	Verify(ctx context.Context, identity, code string) error
}

type ServiceDeps struct {
	Store     Store
	Mailer    Mailer
	Generator Generator
	Clock     clock.Clocker
	Config    Config
}

type service struct {
	store     Store
	mailer    Mailer
	generator Generator
	clock     clock.Clocker
	cfg       Config
}

func NewService(deps ServiceDeps) Service {
	cfg := deps.Config
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.BodyFormat == "" {
		cfg.BodyFormat = DefaultBodyFormat
	}
	if cfg.Subject == "" {
		cfg.Subject = "Your Verification Code"
	}
	clk := deps.Clock
	if clk == nil {
		clk = clock.System{}
	}
	gen := deps.Generator
	if gen == nil {
		gen = NumericGenerator{Digits: 4}
	}
	return &service{
		store:     deps.Store,
		mailer:    deps.Mailer,
		generator: gen,
		clock:     clk,
		cfg:       cfg,
	}
}

func (s *service) Issue(ctx context.Context, identity, code string) (*IssueResult, error) {
	ident := domain.NormalizeIdentity(identity)
	code = strings.TrimSpace(code)
	if ident == "" || code == "" {
		return nil, fmt.Errorf("email and code are required: %w", domain.ErrInvalidArgument)
	}
	if err := validate.Var("otp", code, codeRule); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalidArgument)
	}

	// Second precision keeps ExpiresAt == CreatedAt + Window after a round trip through Unix seconds.
	now := s.clock.Now().UTC().Truncate(time.Second)
	rec := &domain.OTPRecord{
		Identity:  ident,
		Code:      code,
		IssueID:   id.NewAt(now),
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.Window),
	}
	if err := s.store.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist code: %w", err)
	}

	res := &IssueResult{Identity: ident, ExpiresAt: rec.ExpiresAt}
	if err := s.deliver(ident, code); err != nil {
		return res, err
	}
	return res, nil
}

func (s *service) IssueGenerated(ctx context.Context, identity string) (*IssueResult, error) {
	if domain.NormalizeIdentity(identity) == "" {
		return nil, fmt.Errorf("email is required: %w", domain.ErrInvalidArgument)
	}
	code, err := s.generator.Generate()
	if err != nil {
		return nil, err
	}
	return s.Issue(ctx, identity, code)
}

func (s *service) Resend(ctx context.Context, identity string) (*IssueResult, error) {
	rec, err := s.live(ctx, identity)
	if err != nil {
		return nil, err
	}
	res := &IssueResult{Identity: rec.Identity, ExpiresAt: rec.ExpiresAt}
	if err := s.deliver(rec.Identity, rec.Code); err != nil {
		return res, err
	}
	return res, nil
}

func (s *service) Verify(ctx context.Context, identity, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("code is required: %w", domain.ErrInvalidArgument)
	}
	rec, err := s.live(ctx, identity)
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare([]byte(code), []byte(rec.Code)) != 1 {
		return s.mismatch(ctx, rec)
	}

	if err := s.store.Consume(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("code already used or replaced: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("consume code: %w", err)
	}
	return nil
}

// live loads the pending record for identity, purging it when it has expired.
func (s *service) live(ctx context.Context, identity string) (*domain.OTPRecord, error) {
	ident := domain.NormalizeIdentity(identity)
	if ident == "" {
		return nil, fmt.Errorf("email is required: %w", domain.ErrInvalidArgument)
	}
	rec, err := s.store.Get(ctx, ident)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no pending code: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("load code: %w", err)
	}
	if rec.ExpiredAt(s.clock.Now()) {
		if err := s.store.Consume(ctx, rec); err != nil && !errors.Is(err, domain.ErrNotFound) {
			slog.Warn("failed to purge expired OTP record", "identity", ident, "err", err)
		}
		return nil, fmt.Errorf("code expired: %w", domain.ErrExpired)
	}
	return rec, nil
}

func (s *service) mismatch(ctx context.Context, rec *domain.OTPRecord) error {
	if s.cfg.MaxAttempts <= 0 {
		return fmt.Errorf("invalid code: %w", domain.ErrMismatch)
	}
	n, err := s.store.RecordFailure(ctx, rec)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.Warn("failed to record OTP attempt", "identity", rec.Identity, "err", err)
		}
		return fmt.Errorf("invalid code: %w", domain.ErrMismatch)
	}
	if n >= s.cfg.MaxAttempts {
		if err := s.store.Consume(ctx, rec); err != nil && !errors.Is(err, domain.ErrNotFound) {
			slog.Warn("failed to purge locked OTP record", "identity", rec.Identity, "err", err)
		}
		return fmt.Errorf("%d failed attempts: %w", n, domain.ErrTooManyAttempts)
	}
	return fmt.Errorf("invalid code: %w", domain.ErrMismatch)
}

// deliver runs after the record is persisted; its failure never rolls the record back.
func (s *service) deliver(to, code string) error {
	if err := s.mailer.SendEmail(to, s.cfg.Subject, fmt.Sprintf(s.cfg.BodyFormat, code)); err != nil {
		slog.Warn("failed to deliver OTP email", "identity", to, "err", err)
		return fmt.Errorf("send code to %s: %w: %w", to, domain.ErrDeliveryFailed, err)
	}
	return nil
}

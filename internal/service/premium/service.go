package premium

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/techadmin009/resumegenie/core/logger"
	"github.com/techadmin009/resumegenie/internal/domain"
	"github.com/techadmin009/resumegenie/internal/storage"
)

// ErrUnknownKey indicates a well-formed key that is not in storage.
var ErrUnknownKey = errors.New("premium: unknown key")

// ErrExpiredKey indicates a key whose redemption window has passed.
var ErrExpiredKey = errors.New("premium: key expired")

// RateLimitedError tells the caller how long to wait before retrying /redeem.
type RateLimitedError struct {
	Wait time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("premium: redeem rate limited, retry in %s", e.Wait)
}

// KeyStore persists activation keys.
type KeyStore interface {
	Insert(ctx context.Context, key domain.PremiumKey) error
	Get(ctx context.Context, key string) (domain.PremiumKey, error)
	Delete(ctx context.Context, key string) error
}

// SubscriptionStore persists premium subscriptions.
type SubscriptionStore interface {
	Upsert(ctx context.Context, sub domain.Subscription) error
	Get(ctx context.Context, userID int64) (domain.Subscription, error)
}

// EventStore records redeem audit events.
type EventStore interface {
	Insert(ctx context.Context, ev domain.SecurityEvent) error
}

// Config tunes key issuing and redeem rate limiting.
type Config struct {
	Secret         string
	DefaultKeyDays int
	MaxKeyDays     int
	MaxAttempts    int
	Cooldown       time.Duration
}

type attemptWindow struct {
	count       int
	windowStart time.Time
	total       int
}

// Service issues, verifies and redeems premium keys.
type Service struct {
	keys   KeyStore
	subs   SubscriptionStore
	events EventStore

	secret         []byte
	defaultKeyDays int
	maxKeyDays     int
	maxAttempts    int
	cooldown       time.Duration

	mu       sync.Mutex
	attempts map[int64]*attemptWindow

	now func() time.Time
}

// New constructs a premium Service.
func New(cfg Config, keys KeyStore, subs SubscriptionStore, events EventStore) *Service {
	if cfg.DefaultKeyDays <= 0 {
		cfg.DefaultKeyDays = 30
	}
	if cfg.MaxKeyDays <= 0 {
		cfg.MaxKeyDays = 365
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 5 * time.Minute
	}
	return &Service{
		keys:           keys,
		subs:           subs,
		events:         events,
		secret:         []byte(cfg.Secret),
		defaultKeyDays: cfg.DefaultKeyDays,
		maxKeyDays:     cfg.MaxKeyDays,
		maxAttempts:    cfg.MaxAttempts,
		cooldown:       cfg.Cooldown,
		attempts:       make(map[int64]*attemptWindow),
		now:            time.Now,
	}
}

// Issue generates, signs and stores a new key valid for the given duration.
// A non-positive duration falls back to the default; the maximum is capped.
func (s *Service) Issue(ctx context.Context, validFor time.Duration) (domain.PremiumKey, error) {
	days := int(validFor / (24 * time.Hour))
	if days <= 0 {
		days = s.defaultKeyDays
	}
	if days > s.maxKeyDays {
		days = s.maxKeyDays
	}

	now := s.now()
	body := NewKeyBody()
	key := domain.PremiumKey{
		Key:       FormatKey(body, Sign(s.secret, body)),
		ValidDays: days,
		CreatedAt: now,
		ExpiresAt: now.AddDate(0, 0, days),
	}
	if err := s.keys.Insert(ctx, key); err != nil {
		return domain.PremiumKey{}, err
	}

	logger.SVCPremium.LogAttrs(ctx, slog.LevelInfo, "key issued",
		slog.String("event", "key.issue"),
		slog.Int("valid_days", days),
		slog.Time("expires_at", key.ExpiresAt),
	)
	return key, nil
}

// Redeem validates and consumes a key, activating premium for the user until
// the key's expiry date. Every failure is audited and counted against the
// per-user rate limit.
func (s *Service) Redeem(ctx context.Context, userID int64, raw string) (domain.Subscription, error) {
	if wait, limited := s.rateLimited(userID); limited {
		s.audit(ctx, userID, domain.EventRateLimited, fmt.Sprintf("wait %s", wait.Round(time.Second)))
		return domain.Subscription{}, &RateLimitedError{Wait: wait}
	}

	if err := VerifyKey(s.secret, raw); err != nil {
		kind := domain.EventInvalidFormat
		if errors.Is(err, ErrBadSignature) {
			kind = domain.EventInvalidSignature
		}
		s.recordFailure(ctx, userID, kind, "")
		return domain.Subscription{}, err
	}

	key, err := s.keys.Get(ctx, raw)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.recordFailure(ctx, userID, domain.EventUnknownKey, "")
			return domain.Subscription{}, ErrUnknownKey
		}
		return domain.Subscription{}, err
	}

	now := s.now()
	if key.Expired(now) {
		_ = s.keys.Delete(ctx, key.Key)
		s.recordFailure(ctx, userID, domain.EventExpiredKey, key.ExpiresAt.Format("2006-01-02"))
		return domain.Subscription{}, ErrExpiredKey
	}

	sub := domain.Subscription{
		UserID:      userID,
		ActivatedAt: now,
		ExpiresAt:   key.ExpiresAt,
		KeyUsed:     key.Key,
	}
	if err := s.subs.Upsert(ctx, sub); err != nil {
		return domain.Subscription{}, err
	}
	if err := s.keys.Delete(ctx, key.Key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.SVCPremium.LogAttrs(ctx, slog.LevelWarn, "redeemed key cleanup failed",
			slog.String("event", "key.delete"),
			slog.String("err", err.Error()),
		)
	}

	s.resetAttempts(userID)
	s.audit(ctx, userID, domain.EventKeyRedeemed, key.ExpiresAt.Format("2006-01-02"))

	logger.SVCPremium.LogAttrs(ctx, slog.LevelInfo, "key redeemed",
		slog.String("event", "key.redeem"),
		slog.Int64("user_id", userID),
		slog.Time("expires_at", sub.ExpiresAt),
	)
	return sub, nil
}

// GetSubscriptionByTelegramID returns the stored subscription for a user.
func (s *Service) GetSubscriptionByTelegramID(ctx context.Context, userID int64) (domain.Subscription, error) {
	return s.subs.Get(ctx, userID)
}

// IsPremium reports whether the user currently has an active subscription.
func (s *Service) IsPremium(ctx context.Context, userID int64) bool {
	sub, err := s.subs.Get(ctx, userID)
	if err != nil {
		return false
	}
	return sub.Active(s.now())
}

// SuspiciousUsers returns total failure counts for users whose failed redeem
// attempts reached the given threshold. Used by the background monitor.
func (s *Service) SuspiciousUsers(threshold int) map[int64]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]int)
	for id, w := range s.attempts {
		if w.total >= threshold {
			out[id] = w.total
		}
	}
	return out
}

// MaxAttempts exposes the configured per-window failure limit.
func (s *Service) MaxAttempts() int {
	return s.maxAttempts
}

func (s *Service) rateLimited(userID int64) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.attempts[userID]
	if !ok {
		return 0, false
	}
	now := s.now()
	if now.Sub(w.windowStart) >= s.cooldown {
		w.count = 0
		w.windowStart = now
		return 0, false
	}
	if w.count < s.maxAttempts {
		return 0, false
	}
	return s.cooldown - now.Sub(w.windowStart), true
}

func (s *Service) recordFailure(ctx context.Context, userID int64, kind, details string) {
	s.mu.Lock()
	w, ok := s.attempts[userID]
	now := s.now()
	if !ok {
		w = &attemptWindow{windowStart: now}
		s.attempts[userID] = w
	}
	if now.Sub(w.windowStart) >= s.cooldown {
		w.count = 0
		w.windowStart = now
	}
	w.count++
	w.total++
	count := w.count
	s.mu.Unlock()

	s.audit(ctx, userID, kind, details)

	logger.SVCPremium.LogAttrs(ctx, slog.LevelWarn, "redeem failed",
		slog.String("event", "key.redeem"),
		slog.String("status", "fail"),
		slog.Int64("user_id", userID),
		slog.String("reason", kind),
		slog.Int("attempts", count),
	)
}

func (s *Service) resetAttempts(userID int64) {
	s.mu.Lock()
	delete(s.attempts, userID)
	s.mu.Unlock()
}

func (s *Service) audit(ctx context.Context, userID int64, kind, details string) {
	ev := domain.SecurityEvent{
		UserID:    userID,
		Kind:      kind,
		Details:   details,
		CreatedAt: s.now(),
	}
	if err := s.events.Insert(ctx, ev); err != nil {
		logger.SVCPremium.LogAttrs(ctx, slog.LevelWarn, "audit write failed",
			slog.String("event", "audit"),
			slog.String("err", err.Error()),
		)
	}
}

package premium

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/techadmin009/resumegenie/core/logger"
	"github.com/techadmin009/resumegenie/internal/domain"
	"github.com/techadmin009/resumegenie/internal/storage"
)

func TestMain(m *testing.M) {
	_ = logger.InitLogger(nil)
	os.Exit(m.Run())
}

type fakeKeys struct {
	keys map[string]domain.PremiumKey
}

func newFakeKeys() *fakeKeys {
	return &fakeKeys{keys: make(map[string]domain.PremiumKey)}
}

func (f *fakeKeys) Insert(_ context.Context, key domain.PremiumKey) error {
	f.keys[key.Key] = key
	return nil
}

func (f *fakeKeys) Get(_ context.Context, key string) (domain.PremiumKey, error) {
	k, ok := f.keys[key]
	if !ok {
		return domain.PremiumKey{}, storage.ErrNotFound
	}
	return k, nil
}

func (f *fakeKeys) Delete(_ context.Context, key string) error {
	if _, ok := f.keys[key]; !ok {
		return storage.ErrNotFound
	}
	delete(f.keys, key)
	return nil
}

type fakeSubs struct {
	subs map[int64]domain.Subscription
}

func newFakeSubs() *fakeSubs {
	return &fakeSubs{subs: make(map[int64]domain.Subscription)}
}

func (f *fakeSubs) Upsert(_ context.Context, sub domain.Subscription) error {
	f.subs[sub.UserID] = sub
	return nil
}

func (f *fakeSubs) Get(_ context.Context, userID int64) (domain.Subscription, error) {
	sub, ok := f.subs[userID]
	if !ok {
		return domain.Subscription{}, storage.ErrNotFound
	}
	return sub, nil
}

type fakeEvents struct {
	events []domain.SecurityEvent
}

func (f *fakeEvents) Insert(_ context.Context, ev domain.SecurityEvent) error {
	f.events = append(f.events, ev)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeKeys, *fakeSubs, *fakeEvents) {
	t.Helper()
	keys := newFakeKeys()
	subs := newFakeSubs()
	events := &fakeEvents{}
	svc := New(Config{
		Secret:         "test-secret",
		DefaultKeyDays: 30,
		MaxKeyDays:     365,
		MaxAttempts:    3,
		Cooldown:       time.Minute,
	}, keys, subs, events)
	return svc, keys, subs, events
}

func TestIssueDefaultsAndCap(t *testing.T) {
	svc, keys, _, _ := newTestService(t)
	ctx := context.Background()

	key, err := svc.Issue(ctx, 0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if key.ValidDays != 30 {
		t.Errorf("default ValidDays = %d, want 30", key.ValidDays)
	}
	if _, ok := keys.keys[key.Key]; !ok {
		t.Errorf("issued key not stored")
	}

	key, err = svc.Issue(ctx, 1000*24*time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if key.ValidDays != 365 {
		t.Errorf("capped ValidDays = %d, want 365", key.ValidDays)
	}
}

func TestRedeemSuccess(t *testing.T) {
	svc, keys, subs, events := newTestService(t)
	ctx := context.Background()

	key, err := svc.Issue(ctx, 10*24*time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	sub, err := svc.Redeem(ctx, 42, key.Key)
	if err != nil {
		t.Fatalf("Redeem: %v", err)
	}
	if sub.UserID != 42 {
		t.Errorf("sub.UserID = %d, want 42", sub.UserID)
	}
	if !sub.ExpiresAt.Equal(key.ExpiresAt) {
		t.Errorf("sub.ExpiresAt = %v, want key expiry %v", sub.ExpiresAt, key.ExpiresAt)
	}
	if _, ok := keys.keys[key.Key]; ok {
		t.Errorf("key not consumed after redeem")
	}
	if _, ok := subs.subs[42]; !ok {
		t.Errorf("subscription not stored")
	}
	if !svc.IsPremium(ctx, 42) {
		t.Errorf("IsPremium = false after redeem")
	}

	found := false
	for _, ev := range events.events {
		if ev.Kind == domain.EventKeyRedeemed {
			found = true
		}
	}
	if !found {
		t.Errorf("redeem was not audited")
	}
}

func TestRedeemSingleUse(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	key, _ := svc.Issue(ctx, 10*24*time.Hour)
	if _, err := svc.Redeem(ctx, 1, key.Key); err != nil {
		t.Fatalf("first redeem: %v", err)
	}
	if _, err := svc.Redeem(ctx, 2, key.Key); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("second redeem = %v, want ErrUnknownKey", err)
	}
}

func TestRedeemBadKey(t *testing.T) {
	svc, _, _, events := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Redeem(ctx, 7, "garbage"); !errors.Is(err, ErrBadFormat) {
		t.Fatalf("Redeem garbage = %v, want ErrBadFormat", err)
	}

	body := NewKeyBody()
	forged := FormatKey(body, Sign([]byte("other-secret"), body))
	if _, err := svc.Redeem(ctx, 7, forged); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("Redeem forged = %v, want ErrBadSignature", err)
	}

	if len(events.events) != 2 {
		t.Errorf("audited %d events, want 2", len(events.events))
	}
}

func TestRedeemExpiredKey(t *testing.T) {
	svc, keys, _, _ := newTestService(t)
	ctx := context.Background()

	key, _ := svc.Issue(ctx, 5*24*time.Hour)

	// Move the clock past the key expiry.
	svc.now = func() time.Time { return key.ExpiresAt.Add(time.Hour) }

	if _, err := svc.Redeem(ctx, 9, key.Key); !errors.Is(err, ErrExpiredKey) {
		t.Fatalf("Redeem expired = %v, want ErrExpiredKey", err)
	}
	if _, ok := keys.keys[key.Key]; ok {
		t.Errorf("expired key not purged")
	}
}

func TestRedeemRateLimit(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	base := time.Now()
	svc.now = func() time.Time { return base }

	for i := 0; i < 3; i++ {
		if _, err := svc.Redeem(ctx, 5, "bad-key"); !errors.Is(err, ErrBadFormat) {
			t.Fatalf("attempt %d = %v, want ErrBadFormat", i, err)
		}
	}

	var limited *RateLimitedError
	_, err := svc.Redeem(ctx, 5, "bad-key")
	if !errors.As(err, &limited) {
		t.Fatalf("fourth attempt = %v, want RateLimitedError", err)
	}
	if limited.Wait <= 0 || limited.Wait > time.Minute {
		t.Errorf("Wait = %v, want within cooldown", limited.Wait)
	}

	// Other users are unaffected.
	if _, err := svc.Redeem(ctx, 6, "bad-key"); !errors.Is(err, ErrBadFormat) {
		t.Fatalf("other user = %v, want ErrBadFormat", err)
	}

	// The window expires and attempts are allowed again.
	svc.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, err := svc.Redeem(ctx, 5, "bad-key"); !errors.Is(err, ErrBadFormat) {
		t.Fatalf("after cooldown = %v, want ErrBadFormat", err)
	}
}

func TestSuspiciousUsers(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	base := time.Now()
	tick := 0
	// Advance time between attempts so the rate limiter window keeps resetting
	// while total failures accumulate.
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * 2 * time.Minute)
	}

	for i := 0; i < 6; i++ {
		_, _ = svc.Redeem(ctx, 11, "bad-key")
	}
	_, _ = svc.Redeem(ctx, 12, "bad-key")

	suspects := svc.SuspiciousUsers(2 * svc.MaxAttempts())
	if _, ok := suspects[11]; !ok {
		t.Errorf("user 11 with 6 failures not flagged at threshold %d", 2*svc.MaxAttempts())
	}
	if _, ok := suspects[12]; ok {
		t.Errorf("user 12 with 1 failure wrongly flagged")
	}
}

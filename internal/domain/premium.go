package domain

import "time"

// PremiumKey is a single-use activation key issued by the admin.
type PremiumKey struct {
	Key       string    `db:"key"`
	ValidDays int       `db:"valid_days"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

// Expired reports whether the key itself can no longer be redeemed.
func (k PremiumKey) Expired(now time.Time) bool {
	return !k.ExpiresAt.After(now)
}

// Subscription records a user's premium access window.
type Subscription struct {
	UserID      int64     `db:"user_id"`
	ActivatedAt time.Time `db:"activated_at"`
	ExpiresAt   time.Time `db:"expires_at"`
	KeyUsed     string    `db:"key_used"`
}

// Active reports whether the subscription grants premium access at the given time.
func (s Subscription) Active(now time.Time) bool {
	return s.ExpiresAt.After(now)
}

// Security event kinds recorded during key redemption.
const (
	EventInvalidFormat    = "invalid_key_format"
	EventInvalidSignature = "invalid_key_signature"
	EventUnknownKey       = "unknown_key"
	EventExpiredKey       = "expired_key"
	EventRateLimited      = "redeem_rate_limited"
	EventKeyRedeemed      = "key_redeemed"
)

// SecurityEvent is an audit record for redeem activity.
type SecurityEvent struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Kind      string    `db:"kind"`
	Details   string    `db:"details"`
	CreatedAt time.Time `db:"created_at"`
}

// Plan describes a premium pricing option shown to users.
type Plan struct {
	Code     string `db:"code"`
	Title    string `db:"title"`
	Months   int    `db:"months"`
	PriceUSD string `db:"price_usd"`
}

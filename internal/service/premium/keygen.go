package premium

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base32"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	keyPrefix = "RG"
	bodyLen   = 16
	sigLen    = 8
)

var (
	// ErrBadFormat indicates the key does not match RG-<BODY>-<SIG>.
	ErrBadFormat = errors.New("premium: malformed key")
	// ErrBadSignature indicates the key body does not verify against the secret.
	ErrBadSignature = errors.New("premium: invalid key signature")
)

var keyEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewKeyBody returns a fresh random key body.
func NewKeyBody() string {
	id := uuid.New()
	return keyEncoding.EncodeToString(id[:])[:bodyLen]
}

// Sign computes the truncated signature for a key body.
func Sign(secret []byte, body string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(body))
	return strings.ToUpper(keyEncoding.EncodeToString(mac.Sum(nil)))[:sigLen]
}

// FormatKey assembles the full key from body and signature.
func FormatKey(body, sig string) string {
	return fmt.Sprintf("%s-%s-%s", keyPrefix, body, sig)
}

// SplitKey validates the key shape and returns its body and signature.
func SplitKey(raw string) (body, sig string, err error) {
	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 3 || parts[0] != keyPrefix {
		return "", "", ErrBadFormat
	}
	body, sig = parts[1], parts[2]
	if len(body) != bodyLen || len(sig) != sigLen {
		return "", "", ErrBadFormat
	}
	if !isBase32Upper(body) || !isBase32Upper(sig) {
		return "", "", ErrBadFormat
	}
	return body, sig, nil
}

// VerifyKey checks the key format and signature without touching storage.
func VerifyKey(secret []byte, raw string) error {
	body, sig, err := SplitKey(raw)
	if err != nil {
		return err
	}
	if !hmac.Equal([]byte(Sign(secret, body)), []byte(sig)) {
		return ErrBadSignature
	}
	return nil
}

func isBase32Upper(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= '2' && r <= '7':
		default:
			return false
		}
	}
	return true
}

package premium

import (
	"errors"
	"strings"
	"testing"
)

func TestKeyRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	body := NewKeyBody()
	key := FormatKey(body, Sign(secret, body))

	if !strings.HasPrefix(key, "RG-") {
		t.Fatalf("key %q missing prefix", key)
	}
	if err := VerifyKey(secret, key); err != nil {
		t.Fatalf("VerifyKey: %v", err)
	}
}

func TestVerifyKeyWrongSecret(t *testing.T) {
	body := NewKeyBody()
	key := FormatKey(body, Sign([]byte("secret-a"), body))

	err := VerifyKey([]byte("secret-b"), key)
	if !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
}

func TestVerifyKeyBadFormat(t *testing.T) {
	secret := []byte("s")
	for _, raw := range []string{
		"",
		"RG-SHORT-ABCDEFGH",
		"XX-ABCDEFGHIJKLMNOP-ABCDEFGH",
		"RG-ABCDEFGHIJKLMNOP",
		"rg-abcdefghijklmnop-abcdefgh",
		"RG-ABCDEFGHIJKLMN0P-ABCDEFGH", // '0' and '1' are not base32 digits
	} {
		if err := VerifyKey(secret, raw); !errors.Is(err, ErrBadFormat) {
			t.Errorf("VerifyKey(%q) = %v, want ErrBadFormat", raw, err)
		}
	}
}

func TestNewKeyBodyUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		body := NewKeyBody()
		if len(body) != bodyLen {
			t.Fatalf("body length %d, want %d", len(body), bodyLen)
		}
		if _, dup := seen[body]; dup {
			t.Fatalf("duplicate body %q", body)
		}
		seen[body] = struct{}{}
	}
}

package internal

import (
	"strings"
	"testing"
)

func TestNewConfirmationCodeShapeAndAlphabet(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 64; i++ {
		code, err := NewConfirmationCode()
		if err != nil {
			t.Fatalf("NewConfirmationCode failed: %v", err)
		}
		if len(code) != ConfirmationCodeLength {
			t.Fatalf("expected %d characters, got %q", ConfirmationCodeLength, code)
		}
		if !IsAlphabetCode(code) {
			t.Fatalf("code %q contains characters outside the alphabet", code)
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Fatal("expected codes to vary across invocations")
	}
}

func TestNewTemporaryPasswordLength(t *testing.T) {
	pw, err := NewTemporaryPassword()
	if err != nil {
		t.Fatalf("NewTemporaryPassword failed: %v", err)
	}
	if len(pw) != TemporaryPasswordLength {
		t.Fatalf("expected %d characters, got %q", TemporaryPasswordLength, pw)
	}
	if !IsAlphabetCode(pw) {
		t.Fatalf("temporary password %q contains characters outside the alphabet", pw)
	}
}

func TestNewNumericCode(t *testing.T) {
	code, err := NewNumericCode(6)
	if err != nil {
		t.Fatalf("NewNumericCode failed: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("expected 6 digits, got %q", code)
	}
	if strings.Trim(code, "0123456789") != "" {
		t.Fatalf("expected digits only, got %q", code)
	}

	if _, err := NewNumericCode(3); err == nil {
		t.Fatal("expected error for too-short numeric code")
	}
	if _, err := NewNumericCode(11); err == nil {
		t.Fatal("expected error for too-long numeric code")
	}
}

func TestSessionIDRoundTrip(t *testing.T) {
	sid, err := NewSessionID()
	if err != nil {
		t.Fatalf("NewSessionID failed: %v", err)
	}

	parsed, err := ParseSessionID(sid.String())
	if err != nil {
		t.Fatalf("ParseSessionID failed: %v", err)
	}
	if parsed != sid {
		t.Fatal("expected parsed session id to equal the original")
	}

	if _, err := ParseSessionID("not-base64url-%%%"); err == nil {
		t.Fatal("expected error for malformed session id")
	}
	if _, err := ParseSessionID("AAAA"); err == nil {
		t.Fatal("expected error for wrong-size session id")
	}
}

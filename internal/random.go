package internal

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"math/big"
	"strings"
)

// codeAlphabet matches the alphabet the hosted service draws confirmation
// codes and temporary passwords from.
const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz!"

const (
	ConfirmationCodeLength  = 6
	TemporaryPasswordLength = 16
)

type SessionID [16]byte

func NewSessionID() (SessionID, error) {
	var sid SessionID
	_, err := rand.Read(sid[:])
	return sid, err
}

func (s SessionID) Bytes() []byte {
	return s[:]
}

func (s SessionID) String() string {
	// base64url, no padding, compact
	return base64.RawURLEncoding.EncodeToString(s[:])
}

func ParseSessionID(sessionID string) (SessionID, error) {
	var sid SessionID

	raw, err := base64.RawURLEncoding.DecodeString(sessionID)
	if err != nil {
		return sid, err
	}
	if len(raw) != len(sid) {
		return sid, errors.New("invalid session id size")
	}

	copy(sid[:], raw)
	return sid, nil
}

// NewCode draws length characters from the code alphabet.
func NewCode(length int) (string, error) {
	if length < 1 || length > 64 {
		return "", errors.New("invalid code length")
	}

	var b strings.Builder
	b.Grow(length)

	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}

	return b.String(), nil
}

// NewConfirmationCode returns a 6-character out-of-band confirmation code.
func NewConfirmationCode() (string, error) {
	return NewCode(ConfirmationCodeLength)
}

// NewTemporaryPassword returns a 16-character temporary credential.
func NewTemporaryPassword() (string, error) {
	return NewCode(TemporaryPasswordLength)
}

// NewNumericCode returns a digits-long decimal code for SMS MFA challenges.
func NewNumericCode(digits int) (string, error) {
	if digits < 4 || digits > 10 {
		return "", errors.New("invalid numeric code digits")
	}

	var b strings.Builder
	b.Grow(digits)

	max := big.NewInt(10)
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}

	return b.String(), nil
}

// IsAlphabetCode reports whether v is entirely drawn from the code alphabet.
func IsAlphabetCode(v string) bool {
	for i := 0; i < len(v); i++ {
		if !strings.ContainsRune(codeAlphabet, rune(v[i])) {
			return false
		}
	}
	return true
}

package token

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/MrEthical07/goCognito/pool"
)

// SigningMethod selects the JWT signing algorithm.
type SigningMethod string

const (
	// MethodEd25519 signs with an Ed25519 key pair (default). Verification
	// needs only the public key.
	MethodEd25519 SigningMethod = "ed25519"
	// MethodHS256 signs with a shared secret. Only suitable for harnesses
	// where issuer and verifier are the same process.
	MethodHS256 SigningMethod = "hs256"
)

const (
	// UseID marks an identity token.
	UseID = "id"
	// UseAccess marks an access token.
	UseAccess = "access"
	// UseRefresh marks a refresh token.
	UseRefresh = "refresh"
)

// Config carries the issuer's signing material and per-kind TTLs.
type Config struct {
	IDTokenTTL time.Duration
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	SigningMethod SigningMethod
	PrivateKey    []byte
	PublicKey     []byte
	KeyID         string

	// IssuerPrefix, when set, is joined with the pool id to form the iss
	// claim ("<prefix>/<poolID>"). Empty means the pool id alone.
	IssuerPrefix string
}

// Set is the token triple issued for an authenticated user.
type Set struct {
	IDToken      string
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int
}

// Claims is the claim shape shared by all three token kinds. TokenUse
// distinguishes them.
type Claims struct {
	TokenUse    string `json:"token_use"`
	Username    string `json:"cognito:username,omitempty"`
	ClientID    string `json:"client_id,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	OriginJTI   string `json:"origin_jti,omitempty"`
	jwt.RegisteredClaims
}

// Issuer builds and signs token sets. Safe for concurrent use after
// construction.
type Issuer struct {
	config Config
}

// NewIssuer validates cfg and returns a ready issuer.
func NewIssuer(cfg Config) (*Issuer, error) {
	if cfg.IDTokenTTL <= 0 || cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	cfg.KeyID = strings.TrimSpace(cfg.KeyID)

	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.PrivateKey) == 0 {
			return nil, errors.New("hs256 requires private key")
		}
	case MethodEd25519:
		if _, err := parseEdPrivateKey(cfg.PrivateKey); err != nil {
			return nil, err
		}
		if len(cfg.PublicKey) > 0 {
			if _, err := parseEdPublicKey(cfg.PublicKey); err != nil {
				return nil, err
			}
		}
	default:
		return nil, errors.New("unsupported signing method")
	}

	return &Issuer{config: cfg}, nil
}

// Generate issues the token triple for user against clientID and poolID.
// Expiry is derived from now plus the configured per-kind TTL; identical
// inputs yield byte-identical tokens.
func (i *Issuer) Generate(user pool.User, clientID, poolID string, now time.Time) (Set, error) {
	issuer := poolID
	if i.config.IssuerPrefix != "" {
		issuer = strings.TrimSuffix(i.config.IssuerPrefix, "/") + "/" + poolID
	}

	sub := user.Username
	if v, ok := user.Attributes.Get("sub"); ok && v != "" {
		sub = v
	}
	email, _ := user.Attributes.Get("email")
	phone, _ := user.Attributes.Get("phone_number")

	originJTI := deriveTokenID(issuer, clientID, user.Username, "origin", now)

	idToken, err := i.sign(Claims{
		TokenUse:    UseID,
		Username:    user.Username,
		Email:       email,
		PhoneNumber: phone,
		OriginJTI:   originJTI,
		RegisteredClaims: i.registered(
			sub, issuer, clientID, now, i.config.IDTokenTTL,
			deriveTokenID(issuer, clientID, user.Username, UseID, now),
		),
	})
	if err != nil {
		return Set{}, err
	}

	accessToken, err := i.sign(Claims{
		TokenUse:  UseAccess,
		Username:  user.Username,
		ClientID:  clientID,
		OriginJTI: originJTI,
		RegisteredClaims: i.registered(
			sub, issuer, "", now, i.config.AccessTTL,
			deriveTokenID(issuer, clientID, user.Username, UseAccess, now),
		),
	})
	if err != nil {
		return Set{}, err
	}

	refreshToken, err := i.sign(Claims{
		TokenUse:  UseRefresh,
		Username:  user.Username,
		ClientID:  clientID,
		OriginJTI: originJTI,
		RegisteredClaims: i.registered(
			sub, issuer, "", now, i.config.RefreshTTL,
			deriveTokenID(issuer, clientID, user.Username, UseRefresh, now),
		),
	})
	if err != nil {
		return Set{}, err
	}

	return Set{
		IDToken:      idToken,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(i.config.AccessTTL / time.Second),
	}, nil
}

// Parse verifies a token issued by this issuer and returns its claims.
func (i *Issuer) Parse(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{i.method().Alg()}),
	)

	parsed, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if i.config.KeyID != "" {
			kid, _ := t.Header["kid"].(string)
			if kid != i.config.KeyID {
				return nil, errors.New("unknown kid")
			}
		}
		return i.verifyKey()
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func (i *Issuer) registered(sub, issuer, audience string, now time.Time, ttl time.Duration, jti string) jwt.RegisteredClaims {
	claims := jwt.RegisteredClaims{
		Subject:   sub,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        jti,
	}
	if audience != "" {
		claims.Audience = jwt.ClaimStrings{audience}
	}
	return claims
}

func (i *Issuer) sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(i.method(), claims)
	if i.config.KeyID != "" {
		t.Header["kid"] = i.config.KeyID
	}

	key, err := i.signKey()
	if err != nil {
		return "", err
	}
	return t.SignedString(key)
}

func (i *Issuer) method() jwt.SigningMethod {
	switch i.config.SigningMethod {
	case MethodHS256:
		return jwt.SigningMethodHS256
	default:
		return jwt.SigningMethodEdDSA
	}
}

func (i *Issuer) signKey() (interface{}, error) {
	switch i.config.SigningMethod {
	case MethodHS256:
		return i.config.PrivateKey, nil
	default:
		return parseEdPrivateKey(i.config.PrivateKey)
	}
}

func (i *Issuer) verifyKey() (interface{}, error) {
	switch i.config.SigningMethod {
	case MethodHS256:
		return i.config.PrivateKey, nil
	default:
		if len(i.config.PublicKey) > 0 {
			return parseEdPublicKey(i.config.PublicKey)
		}
		priv, err := parseEdPrivateKey(i.config.PrivateKey)
		if err != nil {
			return nil, err
		}
		return priv.Public(), nil
	}
}

// deriveTokenID produces a stable v5 UUID so determinism survives token ids.
func deriveTokenID(issuer, clientID, username, use string, now time.Time) string {
	seed := strings.Join([]string{issuer, clientID, username, use, now.UTC().Format(time.RFC3339)}, "|")
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String()
}

func parseEdPrivateKey(key []byte) (ed25519.PrivateKey, error) {
	if len(key) == ed25519.PrivateKeySize {
		return ed25519.PrivateKey(key), nil
	}
	parsed, err := jwt.ParseEdPrivateKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 private key")
	}
	edKey, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("invalid ed25519 private key type")
	}
	return edKey, nil
}

func parseEdPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) == ed25519.PublicKeySize {
		return ed25519.PublicKey(key), nil
	}
	parsed, err := jwt.ParseEdPublicKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 public key")
	}
	edKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("invalid ed25519 public key type")
	}
	return edKey, nil
}

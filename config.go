package goCognito

import (
	"errors"
	"time"

	"github.com/MrEthical07/goCognito/token"
)

// Config defines the engine's behavior. Configure during initialization and
// treat as immutable afterwards.
type Config struct {
	Token    token.Config
	Reset    ResetConfig
	Session  SessionConfig
	Delivery DeliveryConfig
	Metrics  MetricsConfig
	Audit    AuditConfig
}

/*
====================================
RESET CONFIG
====================================
*/

// ResetPolicy selects what AdminResetUserPassword does. The two policies are
// mutually exclusive alternatives for the same administrative action; a
// deployment picks exactly one and both never run for one request.
type ResetPolicy int

const (
	// ResetByCode (default) moves the user to RESET_REQUIRED and delivers a
	// 6-character confirmation code.
	ResetByCode ResetPolicy = iota
	// ResetByTemporaryPassword moves the user to FORCE_CHANGE_PASSWORD and
	// delivers a 16-character temporary password.
	ResetByTemporaryPassword
)

// ResetConfig configures the administrative reset flow.
type ResetConfig struct {
	Policy ResetPolicy
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig configures the in-flight auth-session store.
type SessionConfig struct {
	RedisPrefix string
	TTL         time.Duration
	MaxAttempts int
}

/*
====================================
DELIVERY CONFIG
====================================
*/

// DeliveryConfig configures code generation and message templates. The
// literal "{####}" in a template is replaced with the one-time code; the raw
// code additionally rides in [Message.Code] for the sender.
type DeliveryConfig struct {
	MFACodeDigits int

	CodeEmailSubject string
	CodeEmailMessage string
	CodeSMSMessage   string

	InviteEmailSubject string
	InviteEmailMessage string
	InviteSMSMessage   string
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig enables the in-process metric counters.
type MetricsConfig struct {
	Enabled bool
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig configures the async audit dispatcher.
type AuditConfig struct {
	Enabled   bool
	QueueSize int
}

// DefaultConfig returns the preset the examples and tests start from. Token
// signing material must still be supplied by the caller.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Token: token.Config{
			IDTokenTTL:    time.Hour,
			AccessTTL:     time.Hour,
			RefreshTTL:    30 * 24 * time.Hour,
			SigningMethod: token.MethodEd25519,
		},
		Reset: ResetConfig{
			Policy: ResetByCode,
		},
		Session: SessionConfig{
			RedisPrefix: "acs",
			TTL:         3 * time.Minute,
			MaxAttempts: 3,
		},
		Delivery: DeliveryConfig{
			MFACodeDigits:      6,
			CodeEmailSubject:   "Your verification code",
			CodeEmailMessage:   "Your verification code is {####}.",
			CodeSMSMessage:     "Your verification code is {####}.",
			InviteEmailSubject: "Your temporary password",
			InviteEmailMessage: "Your username is {username} and temporary password is {####}.",
			InviteSMSMessage:   "Your username is {username} and temporary password is {####}.",
		},
		Metrics: MetricsConfig{Enabled: true},
		Audit: AuditConfig{
			Enabled:   false,
			QueueSize: 1024,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if cfg.Token.PrivateKey != nil {
		out.Token.PrivateKey = append([]byte(nil), cfg.Token.PrivateKey...)
	}
	if cfg.Token.PublicKey != nil {
		out.Token.PublicKey = append([]byte(nil), cfg.Token.PublicKey...)
	}
	return out
}

func validateConfig(cfg Config) error {
	switch cfg.Reset.Policy {
	case ResetByCode, ResetByTemporaryPassword:
	default:
		return errors.New("invalid reset policy")
	}
	if cfg.Session.TTL <= 0 {
		return errors.New("invalid session TTL")
	}
	if cfg.Session.MaxAttempts < 1 {
		return errors.New("invalid session attempt cap")
	}
	if cfg.Delivery.MFACodeDigits < 4 || cfg.Delivery.MFACodeDigits > 10 {
		return errors.New("invalid MFA code digits")
	}
	if cfg.Audit.Enabled && cfg.Audit.QueueSize < 1 {
		return errors.New("invalid audit queue size")
	}
	return nil
}

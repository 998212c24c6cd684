package pool

import (
	"strings"
	"time"
)

// UserStatus is the lifecycle state of an account. It drives which
// authentication operations are legal for the user.
type UserStatus string

const (
	// StatusUnconfirmed marks a self-registered account that has not
	// confirmed its contact attribute yet.
	StatusUnconfirmed UserStatus = "UNCONFIRMED"
	// StatusConfirmed marks an account that may complete full authentication.
	StatusConfirmed UserStatus = "CONFIRMED"
	// StatusForceChangePassword marks an account holding a temporary
	// password; sign-in must resolve a NEW_PASSWORD_REQUIRED challenge.
	StatusForceChangePassword UserStatus = "FORCE_CHANGE_PASSWORD"
	// StatusResetRequired marks an account whose password was reset by an
	// administrator; a confirmation code must be redeemed before sign-in.
	StatusResetRequired UserStatus = "RESET_REQUIRED"
	// StatusArchived is an exported constant kept for response parity with
	// the hosted service.
	StatusArchived UserStatus = "ARCHIVED"
	// StatusCompromised is an exported constant kept for response parity
	// with the hosted service.
	StatusCompromised UserStatus = "COMPROMISED"
	// StatusUnknown is the zero-value status.
	StatusUnknown UserStatus = "UNKNOWN"
)

// Attribute is one (name, value) pair on a user. Names are unique within a
// user's attribute set.
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Attributes is an ordered attribute set.
type Attributes []Attribute

// Get returns the value of the named attribute and whether it is present.
func (a Attributes) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Set returns a copy of the set with name set to value, preserving order.
// The receiver is not mutated.
func (a Attributes) Set(name, value string) Attributes {
	out := make(Attributes, len(a))
	copy(out, a)
	for i := range out {
		if out[i].Name == name {
			out[i].Value = value
			return out
		}
	}
	return append(out, Attribute{Name: name, Value: value})
}

// Clone returns an independent copy of the set.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	copy(out, a)
	return out
}

// MFAOption declares one second factor configured for a user: the delivery
// medium and the attribute holding the destination.
type MFAOption struct {
	DeliveryMedium string `json:"deliveryMedium"`
	AttributeName  string `json:"attributeName"`
}

// User is one account in a pool. Username is the immutable identity key.
//
// Password, ConfirmationCode, and MFACode are credentials and short-lived
// secrets: they live in the backing store but must never surface in public
// response shapes.
type User struct {
	Username             string      `json:"username"`
	Password             string      `json:"password"`
	UserStatus           UserStatus  `json:"userStatus"`
	Attributes           Attributes  `json:"attributes"`
	Enabled              bool        `json:"enabled"`
	MFAOptions           []MFAOption `json:"mfaOptions,omitempty"`
	ConfirmationCode     string      `json:"confirmationCode,omitempty"`
	MFACode              string      `json:"mfaCode,omitempty"`
	UserCreateDate       time.Time   `json:"userCreateDate"`
	UserLastModifiedDate time.Time   `json:"userLastModifiedDate"`
}

// Clone returns a deep copy of the user record.
func (u User) Clone() User {
	out := u
	out.Attributes = u.Attributes.Clone()
	if u.MFAOptions != nil {
		out.MFAOptions = make([]MFAOption, len(u.MFAOptions))
		copy(out.MFAOptions, u.MFAOptions)
	}
	return out
}

// Options is the pool-level configuration: the pool id, the client ids that
// may address the pool, and the pool's MFA posture.
type Options struct {
	ID               string   `json:"id"`
	Name             string   `json:"name,omitempty"`
	ClientIDs        []string `json:"clientIds,omitempty"`
	MFAConfiguration string   `json:"mfaConfiguration,omitempty"` // "OFF", "ON", "OPTIONAL"
}

// HasClient reports whether clientID is configured on the pool.
func (o Options) HasClient(clientID string) bool {
	for _, id := range o.ClientIDs {
		if id == clientID {
			return true
		}
	}
	return false
}

// Filter is a parsed ListUsers filter: exact, case-sensitive equality on one
// named attribute. The zero value matches every user.
type Filter struct {
	Name  string
	Value string
}

// ParseFilter splits an "attributeName=value" pattern. Surrounding quote
// characters on the value are stripped; an empty pattern matches everything.
func ParseFilter(pattern string) Filter {
	if pattern == "" {
		return Filter{}
	}
	name, value, found := strings.Cut(pattern, "=")
	if !found {
		return Filter{Name: name}
	}
	return Filter{
		Name:  name,
		Value: strings.ReplaceAll(value, `"`, ""),
	}
}

// Match reports whether the user satisfies the filter.
func (f Filter) Match(u User) bool {
	if f.Name == "" {
		return true
	}
	value, ok := u.Attributes.Get(f.Name)
	return ok && value == f.Value
}

package goCognito

import (
	"context"
	"time"

	"github.com/MrEthical07/goCognito/pool"
	"github.com/MrEthical07/goCognito/token"
)

// Clock supplies the current instant to every time-dependent field.
type Clock = pool.Clock

// SystemClock reads the wall clock.
type SystemClock = pool.SystemClock

// FixedClock always reads the same instant; intended for tests.
type FixedClock = pool.FixedClock

// DeliveryMedium is the channel used for out-of-band code delivery.
type DeliveryMedium string

const (
	// MediumEmail delivers over email using the user's email attribute.
	MediumEmail DeliveryMedium = "EMAIL"
	// MediumSMS delivers over SMS using the user's phone_number attribute.
	MediumSMS DeliveryMedium = "SMS"
)

// DeliveryDetails is the resolved destination for one out-of-band message.
type DeliveryDetails struct {
	AttributeName string
	Medium        DeliveryMedium
	Destination   string
}

// Message is an out-of-band payload. Code is the internal one-time secret:
// it must reach the [MessageSender] but never a persisted or returned API
// object. The rendered templates are what a human recipient reads.
type Message struct {
	Code         string
	EmailSubject string
	EmailMessage string
	SMSMessage   string
}

// MessageSender performs the actual out-of-band delivery. Implementations
// are pluggable per deployment; [ConsoleMessageSender] is the reference.
type MessageSender interface {
	Send(ctx context.Context, medium DeliveryMedium, destination string, user pool.User, message Message) error
}

// SenderFunc adapts a function to the [MessageSender] interface.
type SenderFunc func(ctx context.Context, medium DeliveryMedium, destination string, user pool.User, message Message) error

// Send implements [MessageSender].
func (f SenderFunc) Send(ctx context.Context, medium DeliveryMedium, destination string, user pool.User, message Message) error {
	return f(ctx, medium, destination, user, message)
}

// TriggerName identifies a lifecycle hook.
type TriggerName string

// TriggerPostAuthentication fires after a successful challenge resolution.
const TriggerPostAuthentication TriggerName = "PostAuthentication"

// TriggerPayload is handed to a lifecycle hook on invocation.
type TriggerPayload struct {
	ClientID       string
	ClientMetadata map[string]string
	Source         string
	UserAttributes pool.Attributes
	Username       string
	UserPoolID     string
}

// TriggerInvoker is the invocation contract for externally registered
// lifecycle hooks. The engine awaits Invoke before returning, so a failing
// trigger fails the enclosing operation.
type TriggerInvoker interface {
	Enabled(name TriggerName) bool
	Invoke(ctx context.Context, name TriggerName, payload TriggerPayload) error
}

// ChallengeName is the closed set of challenges the engine can issue and
// resolve. An unrecognized name fails with [ErrUnsupported], naming the value.
type ChallengeName string

const (
	// ChallengeSMSMFA requires the SMS-delivered MFA code.
	ChallengeSMSMFA ChallengeName = "SMS_MFA"
	// ChallengeNewPasswordRequired requires a replacement password.
	ChallengeNewPasswordRequired ChallengeName = "NEW_PASSWORD_REQUIRED"
)

// Challenge-response keys recognized by RespondToAuthChallenge.
const (
	ChallengeResponseUsername    = "USERNAME"
	ChallengeResponseSMSMFACode  = "SMS_MFA_CODE"
	ChallengeResponseNewPassword = "NEW_PASSWORD"
)

// AuthFlow selects the sign-in protocol for InitiateAuth.
type AuthFlow string

// AuthFlowUserPassword is plain username/password sign-in; the only flow the
// emulator implements (SRP is out of scope).
const AuthFlowUserPassword AuthFlow = "USER_PASSWORD_AUTH"

// Auth-parameter keys recognized by InitiateAuth.
const (
	AuthParamUsername = "USERNAME"
	AuthParamPassword = "PASSWORD"
)

// MessageActionSuppress disables invitation delivery on AdminCreateUser.
const MessageActionSuppress = "SUPPRESS"

// UserSummary is the public response shape of one user. It deliberately
// carries no credential or code fields.
type UserSummary struct {
	Username             string
	Attributes           pool.Attributes
	UserStatus           pool.UserStatus
	Enabled              bool
	MFAOptions           []pool.MFAOption
	UserCreateDate       time.Time
	UserLastModifiedDate time.Time
}

func summarizeUser(u pool.User) UserSummary {
	return UserSummary{
		Username:             u.Username,
		Attributes:           u.Attributes.Clone(),
		UserStatus:           u.UserStatus,
		Enabled:              u.Enabled,
		MFAOptions:           u.MFAOptions,
		UserCreateDate:       u.UserCreateDate,
		UserLastModifiedDate: u.UserLastModifiedDate,
	}
}

// AdminCreateUserRequest creates an account with a temporary password.
type AdminCreateUserRequest struct {
	UserPoolID             string
	Username               string
	UserAttributes         pool.Attributes
	TemporaryPassword      string
	MessageAction          string
	DesiredDeliveryMediums []DeliveryMedium
	ClientMetadata         map[string]string
}

// AdminCreateUserResponse carries the created user's public shape.
type AdminCreateUserResponse struct {
	User UserSummary
}

// AdminGetUserRequest looks one user up administratively.
type AdminGetUserRequest struct {
	UserPoolID string
	Username   string
}

// AdminGetUserResponse carries the user's public shape.
type AdminGetUserResponse struct {
	User UserSummary
}

// AdminResetUserPasswordRequest resets a user's credentials. The effect is
// selected by [ResetConfig.Policy].
type AdminResetUserPasswordRequest struct {
	UserPoolID     string
	Username       string
	ClientMetadata map[string]string
}

// AdminResetUserPasswordResponse is intentionally empty, matching the
// emulated service.
type AdminResetUserPasswordResponse struct{}

// InitiateAuthRequest starts a sign-in attempt against a client.
type InitiateAuthRequest struct {
	ClientID       string
	AuthFlow       AuthFlow
	AuthParameters map[string]string
	ClientMetadata map[string]string
}

// InitiateAuthResponse either carries tokens or a challenge plus the session
// correlating the attempt to the forthcoming challenge response.
type InitiateAuthResponse struct {
	ChallengeName        ChallengeName
	ChallengeParameters  map[string]string
	Session              string
	AuthenticationResult *token.Set
}

// RespondToAuthChallengeRequest answers a previously issued challenge.
type RespondToAuthChallengeRequest struct {
	ClientID           string
	ChallengeName      ChallengeName
	ChallengeResponses map[string]string
	Session            string
	ClientMetadata     map[string]string
}

// RespondToAuthChallengeResponse carries the issued token triple. Challenge
// parameters are empty on success.
type RespondToAuthChallengeResponse struct {
	ChallengeParameters  map[string]string
	AuthenticationResult token.Set
}

// ListUsersRequest lists a pool's users with an optional attribute filter.
type ListUsersRequest struct {
	UserPoolID string
	Filter     string
	Limit      int
}

// ListUsersResponse carries the matching users' public shapes.
type ListUsersResponse struct {
	Users []UserSummary
}

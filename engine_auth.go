package goCognito

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/goCognito/internal"
	"github.com/MrEthical07/goCognito/pool"
)

// InitiateAuth starts a USER_PASSWORD_AUTH sign-in against a client. The
// response carries either the token triple or a challenge plus a session
// string that must accompany the challenge answer.
//
// Credential failures, unknown users, and disabled users are all reported as
// [ErrNotAuthorized] so account existence never leaks.
func (e *Engine) InitiateAuth(ctx context.Context, req InitiateAuthRequest) (*InitiateAuthResponse, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	resp, err := e.initiateAuth(ctx, req)
	username := ""
	if req.AuthParameters != nil {
		username = req.AuthParameters[AuthParamUsername]
	}
	e.emitAudit(auditEventInitiateAuth, "", req.ClientID, username, err, req.ClientMetadata)
	return resp, err
}

func (e *Engine) initiateAuth(ctx context.Context, req InitiateAuthRequest) (*InitiateAuthResponse, error) {
	if req.ClientID == "" {
		return nil, fmt.Errorf("%w: missing required parameter ClientId", ErrInvalidParameter)
	}

	switch req.AuthFlow {
	case AuthFlowUserPassword:
	default:
		return nil, fmt.Errorf("%w: initiateAuth with AuthFlow=%s", ErrUnsupported, req.AuthFlow)
	}

	username := req.AuthParameters[AuthParamUsername]
	password := req.AuthParameters[AuthParamPassword]
	if username == "" {
		return nil, fmt.Errorf("%w: missing required parameter USERNAME", ErrInvalidParameter)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: missing required parameter PASSWORD", ErrInvalidParameter)
	}

	svc, err := e.poolByClient(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	user, err := svc.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pool.ErrUserMissing) {
			e.metricInc(MetricAuthFailure)
			return nil, fmt.Errorf("%w: incorrect username or password", ErrNotAuthorized)
		}
		return nil, translateStoreErr(err)
	}

	if !user.Enabled {
		e.metricInc(MetricAuthFailure)
		return nil, fmt.Errorf("%w: user is disabled", ErrNotAuthorized)
	}
	if user.UserStatus == pool.StatusResetRequired {
		e.metricInc(MetricAuthFailure)
		return nil, fmt.Errorf("%w: password reset required for the user", ErrNotAuthorized)
	}
	if user.Password != password {
		e.metricInc(MetricAuthFailure)
		return nil, fmt.Errorf("%w: incorrect username or password", ErrNotAuthorized)
	}

	if user.UserStatus == pool.StatusForceChangePassword {
		session, err := e.openSession(ctx, user.Username, req.ClientID, svc.Options().ID, ChallengeNewPasswordRequired)
		if err != nil {
			return nil, err
		}
		e.metricInc(MetricAuthChallengeIssued)
		return &InitiateAuthResponse{
			ChallengeName: ChallengeNewPasswordRequired,
			ChallengeParameters: map[string]string{
				"USER_ID_FOR_SRP": user.Username,
			},
			Session: session,
		}, nil
	}

	required, phone, err := e.smsMfaRequired(svc.Options(), user)
	if err != nil {
		e.metricInc(MetricAuthFailure)
		return nil, err
	}
	if required {
		return e.issueSMSMFAChallenge(ctx, svc, user, req.ClientID, phone)
	}

	if err := e.invokeTrigger(ctx, TriggerPostAuthentication, TriggerPayload{
		ClientID:       req.ClientID,
		ClientMetadata: req.ClientMetadata,
		Source:         "PostAuthentication_Authentication",
		UserAttributes: user.Attributes,
		Username:       user.Username,
		UserPoolID:     svc.Options().ID,
	}); err != nil {
		return nil, err
	}

	tokens, err := e.issuer.Generate(user, req.ClientID, svc.Options().ID, e.clock.Now())
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricAuthSuccess)
	return &InitiateAuthResponse{AuthenticationResult: &tokens}, nil
}

// smsMfaRequired applies the pool's MFA posture to the user's enrollment.
// "ON" demands an enrolled SMS factor; "OPTIONAL" uses one when present;
// anything else skips MFA.
func (e *Engine) smsMfaRequired(opts pool.Options, user pool.User) (bool, string, error) {
	enrolled := false
	for _, opt := range user.MFAOptions {
		if opt.DeliveryMedium == string(MediumSMS) {
			enrolled = true
			break
		}
	}
	phone, hasPhone := user.Attributes.Get("phone_number")

	switch opts.MFAConfiguration {
	case "ON":
		if !enrolled || !hasPhone || phone == "" {
			return false, "", fmt.Errorf("%w: user has no SMS MFA factor but the pool requires MFA", ErrNotAuthorized)
		}
		return true, phone, nil
	case "OPTIONAL":
		if enrolled && hasPhone && phone != "" {
			return true, phone, nil
		}
		return false, "", nil
	default:
		return false, "", nil
	}
}

func (e *Engine) issueSMSMFAChallenge(ctx context.Context, svc *pool.Service, user pool.User, clientID, phone string) (*InitiateAuthResponse, error) {
	code, err := internal.NewNumericCode(e.config.Delivery.MFACodeDigits)
	if err != nil {
		return nil, err
	}

	user.MFACode = code
	saved, err := svc.SaveUser(ctx, user)
	if err != nil {
		return nil, translateStoreErr(err)
	}

	details := DeliveryDetails{
		AttributeName: "phone_number",
		Medium:        MediumSMS,
		Destination:   phone,
	}
	message := composeCodeMessage(e.config.Delivery, code, saved.Username)
	if err := e.deliver(ctx, details, saved, message); err != nil {
		return nil, err
	}

	session, err := e.openSession(ctx, saved.Username, clientID, svc.Options().ID, ChallengeSMSMFA)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricAuthChallengeIssued)
	return &InitiateAuthResponse{
		ChallengeName: ChallengeSMSMFA,
		ChallengeParameters: map[string]string{
			"CODE_DELIVERY_DELIVERY_MEDIUM": string(MediumSMS),
			"CODE_DELIVERY_DESTINATION":     phone,
		},
		Session: session,
	}, nil
}

// openSession records an in-flight attempt and returns its opaque id.
func (e *Engine) openSession(ctx context.Context, username, clientID, poolID string, challenge ChallengeName) (string, error) {
	id, err := internal.NewSessionID()
	if err != nil {
		return "", err
	}

	record := &authSession{
		Username:  username,
		ClientID:  clientID,
		PoolID:    poolID,
		Challenge: challenge,
		ExpiresAt: e.clock.Now().Add(e.config.Session.TTL).Unix(),
	}
	if err := e.sessions.Save(ctx, id.String(), record, e.config.Session.TTL); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSessionUnavailable, err)
	}
	return id.String(), nil
}

package goCognito

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/goCognito/pool"
)

// RespondToAuthChallenge answers a challenge issued by InitiateAuth and, on
// success, consumes the session and returns the token triple.
//
// Parameter validation runs before any storage access, so a malformed
// request never reveals whether the user or session exists.
func (e *Engine) RespondToAuthChallenge(ctx context.Context, req RespondToAuthChallengeRequest) (*RespondToAuthChallengeResponse, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	username := ""
	if req.ChallengeResponses != nil {
		username = req.ChallengeResponses[ChallengeResponseUsername]
	}
	resp, err := e.respondToAuthChallenge(ctx, req)
	e.emitAudit(auditEventChallenge, "", req.ClientID, username, err, req.ClientMetadata)
	return resp, err
}

func (e *Engine) respondToAuthChallenge(ctx context.Context, req RespondToAuthChallengeRequest) (*RespondToAuthChallengeResponse, error) {
	if req.ClientID == "" {
		return nil, fmt.Errorf("%w: missing required parameter ClientId", ErrInvalidParameter)
	}
	if len(req.ChallengeResponses) == 0 {
		return nil, fmt.Errorf("%w: missing required parameter challenge responses", ErrInvalidParameter)
	}
	username := req.ChallengeResponses[ChallengeResponseUsername]
	if username == "" {
		return nil, fmt.Errorf("%w: missing required parameter USERNAME", ErrInvalidParameter)
	}
	if req.Session == "" {
		return nil, fmt.Errorf("%w: missing required parameter Session", ErrInvalidParameter)
	}

	switch req.ChallengeName {
	case ChallengeSMSMFA:
		if req.ChallengeResponses[ChallengeResponseSMSMFACode] == "" {
			return nil, fmt.Errorf("%w: missing required parameter SMS_MFA_CODE", ErrInvalidParameter)
		}
	case ChallengeNewPasswordRequired:
		if req.ChallengeResponses[ChallengeResponseNewPassword] == "" {
			return nil, fmt.Errorf("%w: missing required parameter NEW_PASSWORD", ErrInvalidParameter)
		}
	default:
		return nil, fmt.Errorf("%w: respondToAuthChallenge with ChallengeName=%s", ErrUnsupported, req.ChallengeName)
	}

	svc, err := e.poolByClient(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	user, err := svc.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pool.ErrUserMissing) {
			e.metricInc(MetricChallengeFailure)
			return nil, fmt.Errorf("%w: incorrect username or password", ErrNotAuthorized)
		}
		return nil, translateStoreErr(err)
	}

	session, err := e.lookupSession(ctx, req.Session)
	if err != nil {
		e.metricInc(MetricChallengeFailure)
		return nil, err
	}
	if session.Username != user.Username || session.ClientID != req.ClientID || session.Challenge != req.ChallengeName {
		e.metricInc(MetricChallengeFailure)
		return nil, fmt.Errorf("%w: invalid session for the user", ErrNotAuthorized)
	}

	switch req.ChallengeName {
	case ChallengeSMSMFA:
		supplied := req.ChallengeResponses[ChallengeResponseSMSMFACode]
		if user.MFACode == "" || user.MFACode != supplied {
			e.recordSessionFailure(ctx, req.Session)
			e.metricInc(MetricCodeMismatch)
			e.metricInc(MetricChallengeFailure)
			return nil, ErrCodeMismatch
		}
		user.MFACode = ""

	case ChallengeNewPasswordRequired:
		user.Password = req.ChallengeResponses[ChallengeResponseNewPassword]
		user.UserStatus = pool.StatusConfirmed
		user.ConfirmationCode = ""
		user.MFACode = ""
	}

	saved, err := svc.SaveUser(ctx, user)
	if err != nil {
		return nil, translateStoreErr(err)
	}

	if _, err := e.sessions.Delete(ctx, req.Session); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionUnavailable, err)
	}

	if err := e.invokeTrigger(ctx, TriggerPostAuthentication, TriggerPayload{
		ClientID:       req.ClientID,
		ClientMetadata: req.ClientMetadata,
		Source:         "PostAuthentication_Authentication",
		UserAttributes: saved.Attributes,
		Username:       saved.Username,
		UserPoolID:     svc.Options().ID,
	}); err != nil {
		return nil, err
	}

	tokens, err := e.issuer.Generate(saved, req.ClientID, svc.Options().ID, e.clock.Now())
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricChallengeSuccess)
	return &RespondToAuthChallengeResponse{
		ChallengeParameters:  map[string]string{},
		AuthenticationResult: tokens,
	}, nil
}

// lookupSession maps store-level misses to [ErrNotAuthorized] and backend
// failures to [ErrSessionUnavailable].
func (e *Engine) lookupSession(ctx context.Context, sessionID string) (*authSession, error) {
	session, err := e.sessions.Get(ctx, sessionID)
	switch {
	case err == nil:
		return session, nil
	case errors.Is(err, errAuthSessionNotFound), errors.Is(err, errAuthSessionExpired):
		return nil, fmt.Errorf("%w: invalid session for the user", ErrNotAuthorized)
	default:
		return nil, fmt.Errorf("%w: %v", ErrSessionUnavailable, err)
	}
}

func (e *Engine) recordSessionFailure(ctx context.Context, sessionID string) {
	_, _ = e.sessions.RecordFailure(ctx, sessionID, e.config.Session.MaxAttempts)
}

package goCognito

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/goCognito/internal"
	"github.com/MrEthical07/goCognito/pool"
)

// AdminResetUserPassword invalidates the user's current password. The effect
// depends on [ResetConfig.Policy]:
//
//   - ResetByCode moves the user to RESET_REQUIRED and delivers a
//     confirmation code.
//   - ResetByTemporaryPassword replaces the password with a generated
//     temporary one, moves the user to FORCE_CHANGE_PASSWORD, and delivers
//     the temporary password.
//
// Both variants deliver over email only; a user without a usable email
// attribute fails with [ErrInvalidParameter] after the record was updated.
func (e *Engine) AdminResetUserPassword(ctx context.Context, req AdminResetUserPasswordRequest) (*AdminResetUserPasswordResponse, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	resp, err := e.adminResetUserPassword(ctx, req)
	e.emitAudit(auditEventAdminReset, req.UserPoolID, "", req.Username, err, req.ClientMetadata)
	return resp, err
}

func (e *Engine) adminResetUserPassword(ctx context.Context, req AdminResetUserPasswordRequest) (*AdminResetUserPasswordResponse, error) {
	if req.UserPoolID == "" {
		return nil, fmt.Errorf("%w: missing required parameter UserPoolId", ErrInvalidParameter)
	}
	if req.Username == "" {
		return nil, fmt.Errorf("%w: missing required parameter Username", ErrInvalidParameter)
	}

	svc, err := e.poolByID(ctx, req.UserPoolID)
	if err != nil {
		return nil, err
	}

	user, err := svc.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, pool.ErrUserMissing) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, req.Username)
		}
		return nil, translateStoreErr(err)
	}

	var secret string
	var message Message

	switch e.config.Reset.Policy {
	case ResetByCode:
		secret, err = internal.NewConfirmationCode()
		if err != nil {
			return nil, err
		}
		user.UserStatus = pool.StatusResetRequired
		user.ConfirmationCode = secret
		message = composeCodeMessage(e.config.Delivery, secret, user.Username)
		e.metricInc(MetricAdminResetByCode)

	case ResetByTemporaryPassword:
		secret, err = internal.NewTemporaryPassword()
		if err != nil {
			return nil, err
		}
		user.UserStatus = pool.StatusForceChangePassword
		user.Password = secret
		user.ConfirmationCode = ""
		message = composeInviteMessage(e.config.Delivery, secret, user.Username)
		e.metricInc(MetricAdminResetByTemporaryPassword)

	default:
		return nil, fmt.Errorf("%w: reset policy %d", ErrUnsupported, e.config.Reset.Policy)
	}

	saved, err := svc.SaveUser(ctx, user)
	if err != nil {
		return nil, translateStoreErr(err)
	}

	details, ok := SelectAppropriateDeliveryMethod([]DeliveryMedium{MediumEmail}, saved)
	if !ok {
		return nil, fmt.Errorf("%w: user has no attribute matching desired delivery mediums", ErrInvalidParameter)
	}
	if err := e.deliver(ctx, details, saved, message); err != nil {
		return nil, err
	}

	return &AdminResetUserPasswordResponse{}, nil
}

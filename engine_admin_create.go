package goCognito

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrEthical07/goCognito/internal"
	"github.com/MrEthical07/goCognito/pool"
)

// AdminCreateUser creates an account in FORCE_CHANGE_PASSWORD status holding
// a temporary password. Unless MessageAction is SUPPRESS, the invitation is
// delivered over the first desired medium the user has an attribute for.
func (e *Engine) AdminCreateUser(ctx context.Context, req AdminCreateUserRequest) (*AdminCreateUserResponse, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	resp, err := e.adminCreateUser(ctx, req)
	e.emitAudit(auditEventAdminCreateUser, req.UserPoolID, "", req.Username, err, req.ClientMetadata)
	return resp, err
}

func (e *Engine) adminCreateUser(ctx context.Context, req AdminCreateUserRequest) (*AdminCreateUserResponse, error) {
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

	temporaryPassword := req.TemporaryPassword
	if temporaryPassword == "" {
		temporaryPassword, err = internal.NewTemporaryPassword()
		if err != nil {
			return nil, err
		}
	}

	attributes := req.UserAttributes.Clone()
	if _, ok := attributes.Get("sub"); !ok {
		attributes = attributes.Set("sub", uuid.NewString())
	}

	created, err := svc.CreateUser(ctx, pool.User{
		Username:   req.Username,
		Password:   temporaryPassword,
		UserStatus: pool.StatusForceChangePassword,
		Attributes: attributes,
		Enabled:    true,
	})
	if err != nil {
		if errors.Is(err, pool.ErrUserExists) {
			e.metricInc(MetricAdminCreateUserDuplicate)
			return nil, fmt.Errorf("%w: %s", ErrUsernameExists, req.Username)
		}
		return nil, translateStoreErr(err)
	}

	if req.MessageAction != MessageActionSuppress {
		mediums := req.DesiredDeliveryMediums
		if len(mediums) == 0 {
			mediums = []DeliveryMedium{MediumSMS}
		}

		details, ok := SelectAppropriateDeliveryMethod(mediums, created)
		if !ok {
			return nil, fmt.Errorf("%w: user has no attribute matching desired delivery mediums", ErrInvalidParameter)
		}

		message := composeInviteMessage(e.config.Delivery, temporaryPassword, created.Username)
		if err := e.deliver(ctx, details, created, message); err != nil {
			return nil, err
		}
	}

	e.metricInc(MetricAdminCreateUser)
	return &AdminCreateUserResponse{User: summarizeUser(created)}, nil
}

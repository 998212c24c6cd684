package goCognito

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/goCognito/pool"
)

// AdminGetUser looks one user up administratively. Unlike end-user-facing
// lookups this names the miss: a missing user is [ErrUserNotFound].
func (e *Engine) AdminGetUser(ctx context.Context, req AdminGetUserRequest) (*AdminGetUserResponse, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
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

	return &AdminGetUserResponse{User: summarizeUser(user)}, nil
}

package goCognito

import (
	"context"
	"fmt"

	"github.com/MrEthical07/goCognito/pool"
)

// ListUsers returns the pool's users, optionally narrowed by a filter of the
// form `name = "value"`. Matching is exact and case-sensitive; quotes around
// the value are stripped. Limit truncates after filtering.
func (e *Engine) ListUsers(ctx context.Context, req ListUsersRequest) (*ListUsersResponse, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	resp, err := e.listUsers(ctx, req)
	e.emitAudit(auditEventListUsers, req.UserPoolID, "", "", err, nil)
	return resp, err
}

func (e *Engine) listUsers(ctx context.Context, req ListUsersRequest) (*ListUsersResponse, error) {
	if req.UserPoolID == "" {
		return nil, fmt.Errorf("%w: missing required parameter UserPoolId", ErrInvalidParameter)
	}

	svc, err := e.poolByID(ctx, req.UserPoolID)
	if err != nil {
		return nil, err
	}

	users, err := svc.ListUsers(ctx)
	if err != nil {
		return nil, translateStoreErr(err)
	}

	filter := pool.ParseFilter(req.Filter)
	summaries := make([]UserSummary, 0, len(users))
	for _, u := range users {
		if !filter.Match(u) {
			continue
		}
		summaries = append(summaries, summarizeUser(u))
	}

	if req.Limit > 0 && len(summaries) > req.Limit {
		summaries = summaries[:req.Limit]
	}

	e.metricInc(MetricListUsers)
	return &ListUsersResponse{Users: summaries}, nil
}

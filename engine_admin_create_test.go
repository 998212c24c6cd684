package goCognito

import (
	"context"
	"errors"
	"testing"

	"github.com/MrEthical07/goCognito/internal"
	"github.com/MrEthical07/goCognito/pool"
)

func TestAdminCreateUserInvitesOverEmail(t *testing.T) {
	e := newTestEngine(t, nil)
	seedPool(t, e, "OFF")

	resp, err := e.AdminCreateUser(context.Background(), AdminCreateUserRequest{
		UserPoolID:             testPoolID,
		Username:               "alice",
		UserAttributes:         pool.Attributes{{Name: "email", Value: "alice@example.com"}},
		DesiredDeliveryMediums: []DeliveryMedium{MediumEmail},
	})
	if err != nil {
		t.Fatalf("AdminCreateUser: %v", err)
	}

	if resp.User.UserStatus != pool.StatusForceChangePassword {
		t.Fatalf("status = %s, want FORCE_CHANGE_PASSWORD", resp.User.UserStatus)
	}
	if !resp.User.Enabled {
		t.Fatal("created user must be enabled")
	}
	if sub, ok := resp.User.Attributes.Get("sub"); !ok || sub == "" {
		t.Fatal("created user must carry a sub attribute")
	}
	now := e.clock.Now()
	if !resp.User.UserCreateDate.Equal(now) || !resp.User.UserLastModifiedDate.Equal(now) {
		t.Fatalf("timestamps = %v/%v, want %v", resp.User.UserCreateDate, resp.User.UserLastModifiedDate, now)
	}

	sent := e.sender.last(t)
	if sent.Medium != MediumEmail || sent.Destination != "alice@example.com" {
		t.Fatalf("delivery = %s to %s, want EMAIL to alice@example.com", sent.Medium, sent.Destination)
	}
	stored := mustGetUser(t, e, "alice")
	if sent.Message.Code != stored.Password {
		t.Fatal("invitation must carry the stored temporary password")
	}
	if len(stored.Password) != internal.TemporaryPasswordLength {
		t.Fatalf("temporary password length = %d, want %d", len(stored.Password), internal.TemporaryPasswordLength)
	}
}

func TestAdminCreateUserSuppressSkipsDelivery(t *testing.T) {
	e := newTestEngine(t, nil)
	seedPool(t, e, "OFF")

	_, err := e.AdminCreateUser(context.Background(), AdminCreateUserRequest{
		UserPoolID:    testPoolID,
		Username:      "bob",
		MessageAction: MessageActionSuppress,
	})
	if err != nil {
		t.Fatalf("AdminCreateUser: %v", err)
	}
	if e.sender.count() != 0 {
		t.Fatalf("sent %d messages, want 0", e.sender.count())
	}
}

func TestAdminCreateUserKeepsSuppliedValues(t *testing.T) {
	e := newTestEngine(t, nil)
	seedPool(t, e, "OFF")

	_, err := e.AdminCreateUser(context.Background(), AdminCreateUserRequest{
		UserPoolID:        testPoolID,
		Username:          "carol",
		TemporaryPassword: "hunter2hunter2",
		UserAttributes:    pool.Attributes{{Name: "sub", Value: "fixed-sub"}},
		MessageAction:     MessageActionSuppress,
	})
	if err != nil {
		t.Fatalf("AdminCreateUser: %v", err)
	}

	stored := mustGetUser(t, e, "carol")
	if stored.Password != "hunter2hunter2" {
		t.Fatalf("password = %q, want the supplied temporary password", stored.Password)
	}
	if sub, _ := stored.Attributes.Get("sub"); sub != "fixed-sub" {
		t.Fatalf("sub = %q, want the supplied value", sub)
	}
}

func TestAdminCreateUserDuplicate(t *testing.T) {
	e := newTestEngine(t, nil)
	seedPool(t, e, "OFF")
	seedUser(t, e, confirmedUser("dave", "pw", nil))

	_, err := e.AdminCreateUser(context.Background(), AdminCreateUserRequest{
		UserPoolID:    testPoolID,
		Username:      "dave",
		MessageAction: MessageActionSuppress,
	})
	if !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}
	if got := e.Metrics().Value(MetricAdminCreateUserDuplicate); got != 1 {
		t.Fatalf("duplicate counter = %d, want 1", got)
	}
}

func TestAdminCreateUserNoDeliverableAttribute(t *testing.T) {
	e := newTestEngine(t, nil)
	seedPool(t, e, "OFF")

	// Default desired medium is SMS and the user has no phone_number.
	_, err := e.AdminCreateUser(context.Background(), AdminCreateUserRequest{
		UserPoolID: testPoolID,
		Username:   "erin",
	})
	if !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}

	// The record was persisted before delivery was attempted.
	stored := mustGetUser(t, e, "erin")
	if stored.UserStatus != pool.StatusForceChangePassword {
		t.Fatalf("status = %s, want FORCE_CHANGE_PASSWORD", stored.UserStatus)
	}
}

func TestAdminCreateUserValidation(t *testing.T) {
	e := newTestEngine(t, nil)
	seedPool(t, e, "OFF")

	cases := []AdminCreateUserRequest{
		{Username: "frank"},
		{UserPoolID: testPoolID},
	}
	for _, req := range cases {
		if _, err := e.AdminCreateUser(context.Background(), req); !errors.Is(err, ErrInvalidParameter) {
			t.Fatalf("req %+v: expected ErrInvalidParameter, got %v", req, err)
		}
	}

	_, err := e.AdminCreateUser(context.Background(), AdminCreateUserRequest{UserPoolID: "missing", Username: "frank"})
	if !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
}

func TestAdminGetUser(t *testing.T) {
	e := newTestEngine(t, nil)
	seedPool(t, e, "OFF")
	seedUser(t, e, confirmedUser("grace", "pw", pool.Attributes{{Name: "email", Value: "grace@example.com"}}))

	resp, err := e.AdminGetUser(context.Background(), AdminGetUserRequest{UserPoolID: testPoolID, Username: "grace"})
	if err != nil {
		t.Fatalf("AdminGetUser: %v", err)
	}
	if resp.User.Username != "grace" || resp.User.UserStatus != pool.StatusConfirmed {
		t.Fatalf("unexpected summary %+v", resp.User)
	}

	_, err = e.AdminGetUser(context.Background(), AdminGetUserRequest{UserPoolID: testPoolID, Username: "nobody"})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

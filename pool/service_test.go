package pool

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestService(t *testing.T, clock Clock) *Service {
	t.Helper()

	svc, err := Create(context.Background(), NewMemoryStore(), clock, Options{
		ID:        "local_pool1",
		ClientIDs: []string{"client1"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return svc
}

func TestSaveUserStampsLastModified(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	modified := created.Add(42 * time.Minute)

	clock := &steppingClock{instants: []time.Time{created, modified}}
	svc := newTestService(t, clock)

	user, err := svc.CreateUser(context.Background(), User{
		Username:   "alice",
		UserStatus: StatusConfirmed,
		Enabled:    true,
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if !user.UserCreateDate.Equal(created) || !user.UserLastModifiedDate.Equal(created) {
		t.Fatalf("expected both timestamps at creation instant, got %+v", user)
	}

	user.Password = "hunter2-hunter2"
	saved, err := svc.SaveUser(context.Background(), user)
	if err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}
	if !saved.UserLastModifiedDate.Equal(modified) {
		t.Fatalf("expected UserLastModifiedDate %v, got %v", modified, saved.UserLastModifiedDate)
	}
	if !saved.UserCreateDate.Equal(created) {
		t.Fatal("expected UserCreateDate to be preserved across saves")
	}

	stored, err := svc.GetUserByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}
	if stored.Password != "hunter2-hunter2" {
		t.Fatal("expected persisted password change")
	}
	if !stored.UserLastModifiedDate.Equal(modified) {
		t.Fatal("expected persisted record to carry the service-assigned timestamp")
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	svc := newTestService(t, FixedClock{Instant: time.Unix(1700000000, 0)})

	if _, err := svc.CreateUser(context.Background(), User{Username: "bob"}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if _, err := svc.CreateUser(context.Background(), User{Username: "bob"}); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestGetUserMissing(t *testing.T) {
	svc := newTestService(t, SystemClock{})

	if _, err := svc.GetUserByUsername(context.Background(), "nobody"); !errors.Is(err, ErrUserMissing) {
		t.Fatalf("expected ErrUserMissing, got %v", err)
	}
}

func TestOpenForClient(t *testing.T) {
	store := NewMemoryStore()
	clock := SystemClock{}
	ctx := context.Background()

	if _, err := Create(ctx, store, clock, Options{ID: "p1", ClientIDs: []string{"c1"}}); err != nil {
		t.Fatalf("Create p1 failed: %v", err)
	}
	if _, err := Create(ctx, store, clock, Options{ID: "p2", ClientIDs: []string{"c2", "c3"}}); err != nil {
		t.Fatalf("Create p2 failed: %v", err)
	}

	svc, err := OpenForClient(ctx, store, clock, "c3")
	if err != nil {
		t.Fatalf("OpenForClient failed: %v", err)
	}
	if svc.Options().ID != "p2" {
		t.Fatalf("expected pool p2, got %s", svc.Options().ID)
	}

	if _, err := OpenForClient(ctx, store, clock, "unknown"); !errors.Is(err, ErrPoolMissing) {
		t.Fatalf("expected ErrPoolMissing, got %v", err)
	}
}

func TestParseFilterQuoteStripping(t *testing.T) {
	cases := []struct {
		pattern string
		name    string
		value   string
	}{
		{``, "", ""},
		{`email=a@b.com`, "email", "a@b.com"},
		{`email="a@b.com"`, "email", "a@b.com"},
		{`phone_number="+15551234"`, "phone_number", "+15551234"},
		{`email=`, "email", ""},
	}

	for _, tc := range cases {
		f := ParseFilter(tc.pattern)
		if f.Name != tc.name || f.Value != tc.value {
			t.Fatalf("ParseFilter(%q) = %+v, expected name=%q value=%q", tc.pattern, f, tc.name, tc.value)
		}
	}
}

func TestFilterMatchExactCaseSensitive(t *testing.T) {
	user := User{
		Username:   "alice",
		Attributes: Attributes{{Name: "email", Value: "A@b.com"}},
	}

	if !ParseFilter(`email="A@b.com"`).Match(user) {
		t.Fatal("expected quoted filter to match")
	}
	if !ParseFilter(`email=A@b.com`).Match(user) {
		t.Fatal("expected unquoted filter to match")
	}
	if ParseFilter(`email=a@b.com`).Match(user) {
		t.Fatal("expected case-sensitive mismatch")
	}
	if ParseFilter(`phone_number=A@b.com`).Match(user) {
		t.Fatal("expected absent attribute not to match")
	}
	if !(Filter{}).Match(user) {
		t.Fatal("expected empty filter to match everything")
	}
}

func TestAttributesSetDoesNotMutateReceiver(t *testing.T) {
	orig := Attributes{{Name: "email", Value: "a@b.com"}}
	updated := orig.Set("email", "c@d.com")

	if v, _ := orig.Get("email"); v != "a@b.com" {
		t.Fatal("expected original attribute set to be unchanged")
	}
	if v, _ := updated.Get("email"); v != "c@d.com" {
		t.Fatal("expected updated attribute set to carry the new value")
	}

	appended := orig.Set("phone_number", "+15551234")
	if len(orig) != 1 || len(appended) != 2 {
		t.Fatal("expected Set to append without mutating the receiver")
	}
}

type steppingClock struct {
	instants []time.Time
	next     int
}

func (c *steppingClock) Now() time.Time {
	if c.next >= len(c.instants) {
		return c.instants[len(c.instants)-1]
	}
	t := c.instants[c.next]
	c.next++
	return t
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boardside/kilterboard-backend/internal/data/repos"
	"github.com/boardside/kilterboard-backend/internal/data/repos/testutil"
	apperrors "github.com/boardside/kilterboard-backend/internal/pkg/errors"
	"github.com/boardside/kilterboard-backend/internal/platform/ctxutil"
)

func newAuthService(t *testing.T) AuthService {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return NewAuthService(
		db, log,
		repos.NewUserRepo(db, log),
		repos.NewUserTokenRepo(db, log),
		nil, // avatar rendering needs a font file; skipped in tests
		"test-secret",
		15*time.Minute,
		24*time.Hour,
	)
}

func TestAuthServiceRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "bad-email", "climber1", "longenough"); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for bad email, got %v", err)
	}
	if _, err := svc.Register(ctx, "auth1@example.com", "x", "longenough"); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for short username, got %v", err)
	}
	if _, err := svc.Register(ctx, "auth1@example.com", "climber1", "short"); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for short password, got %v", err)
	}

	u, err := svc.Register(ctx, "Auth1@Example.com", "climber1", "longenough")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "auth1@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.Password == "longenough" {
		t.Fatal("password stored in plaintext")
	}

	if _, err := svc.Register(ctx, "auth1@example.com", "climber2", "longenough"); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected duplicate email rejection, got %v", err)
	}
	if _, err := svc.Register(ctx, "auth2@example.com", "climber1", "longenough"); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected duplicate username rejection, got %v", err)
	}

	if _, _, _, err := svc.Login(ctx, "auth1@example.com", "wrongpass"); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for wrong password, got %v", err)
	}
	if _, _, _, err := svc.Login(ctx, "nobody@example.com", "longenough"); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for unknown email, got %v", err)
	}

	// Login works by email or username.
	_, access, refresh, err := svc.Login(ctx, "auth1@example.com", "longenough")
	if err != nil {
		t.Fatalf("Login by email: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("expected token pair")
	}
	if _, _, _, err := svc.Login(ctx, "climber1", "longenough"); err != nil {
		t.Fatalf("Login by username: %v", err)
	}

	// The access token authenticates requests.
	authed, err := svc.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := ctxutil.GetRequestData(authed)
	if rd == nil || rd.UserID != u.ID || rd.Username != "climber1" {
		t.Fatalf("unexpected request data %+v", rd)
	}

	if _, err := svc.SetContextFromToken(ctx, "not.a.token"); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for garbage token, got %v", err)
	}
}

func TestAuthServiceRefreshRotation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "auth3@example.com", "climber3", "longenough"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, _, refresh, err := svc.Login(ctx, "auth3@example.com", "longenough")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	access2, refresh2, err := svc.Refresh(ctx, refresh)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if access2 == "" || refresh2 == "" || refresh2 == refresh {
		t.Fatal("expected a rotated token pair")
	}

	// The used refresh token is dead.
	if _, _, err := svc.Refresh(ctx, refresh); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for reused refresh token, got %v", err)
	}

	if err := svc.Logout(ctx, refresh2); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, _, err := svc.Refresh(ctx, refresh2); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized after logout, got %v", err)
	}
}

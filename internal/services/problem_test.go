package services

import (
	"errors"
	"testing"

	"github.com/boardside/kilterboard-backend/internal/data/repos/testutil"
	"github.com/boardside/kilterboard-backend/internal/domain/climbs"
	"github.com/boardside/kilterboard-backend/internal/domain/holds"
	apperrors "github.com/boardside/kilterboard-backend/internal/pkg/errors"
)

func TestProblemServiceDraftLifecycle(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := newProblemService(t, db, log)

	creator := newTestUser(t, db, log)
	other := newTestUser(t, db, log)
	ctx := authedCtx(creator)

	cfg := holds.Configuration{
		"A1": holds.RoleStart,
		"D5": holds.RoleHand,
		"E9": holds.RoleFinish,
	}
	problem, err := svc.CreateDraft(ctx, "kilter_original", cfg)
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	if problem.State() != climbs.StateDraft {
		t.Fatalf("expected draft state, got %s", problem.State())
	}

	// Drafts are invisible to everyone but the creator.
	if _, err := svc.Get(authedCtx(other), problem.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found for non-creator, got %v", err)
	}
	if _, err := svc.Get(ctx, problem.ID); err != nil {
		t.Fatalf("creator Get: %v", err)
	}

	// Drafts cannot be archived; only published problems can.
	var stateErr *climbs.StateError
	if err := svc.Archive(ctx, problem.ID); !errors.As(err, &stateErr) {
		t.Fatalf("expected state error archiving a draft, got %v", err)
	}

	// Publish requires a name and a well-formed grade.
	if _, err := svc.Publish(ctx, problem.ID, "  ", "V4", nil); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for blank name, got %v", err)
	}
	if _, err := svc.Publish(ctx, problem.ID, "proj", "4", nil); err == nil {
		t.Fatal("expected grade format error")
	}
	if _, err := svc.Publish(ctx, problem.ID, "proj", "V4", nil); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for empty tags, got %v", err)
	}
	var tagErr *climbs.TagError
	if _, err := svc.Publish(ctx, problem.ID, "proj", "V4", []string{"has space"}); !errors.As(err, &tagErr) {
		t.Fatalf("expected tag error, got %v", err)
	}

	published, err := svc.Publish(ctx, problem.ID, "proj", "V4", []string{"crimpy", "power"})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if published.State() != climbs.StatePublished {
		t.Fatalf("expected published state, got %s", published.State())
	}

	// Published problems are visible to anyone.
	if _, err := svc.Get(authedCtx(other), problem.ID); err != nil {
		t.Fatalf("Get after publish: %v", err)
	}

	// Publishing twice is an illegal transition.
	if _, err := svc.Publish(ctx, problem.ID, "proj", "V4", []string{"crimpy"}); !errors.As(err, &stateErr) {
		t.Fatalf("expected state error on double publish, got %v", err)
	}

	// Only the creator may archive.
	if err := svc.Archive(authedCtx(other), problem.ID); !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("expected forbidden for non-creator archive, got %v", err)
	}
	if err := svc.Archive(ctx, problem.ID); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	// Archived problems vanish from listings but stay resolvable by id,
	// for the creator and for anyone who already interacted with them.
	archived, err := svc.Get(authedCtx(other), problem.ID)
	if err != nil {
		t.Fatalf("Get after archive: %v", err)
	}
	if archived.State() != climbs.StateArchived {
		t.Fatalf("expected archived state, got %s", archived.State())
	}
	listed, err := svc.ListPublished(ctx, "kilter_original", 0, 0)
	if err != nil {
		t.Fatalf("ListPublished after archive: %v", err)
	}
	for _, p := range listed {
		if p.ID == problem.ID {
			t.Fatalf("archived problem still listed")
		}
	}
}

func TestProblemServiceEditHolds(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := newProblemService(t, db, log)

	creator := newTestUser(t, db, log)
	ctx := authedCtx(creator)

	orig := holds.Configuration{"A1": holds.RoleStart, "E9": holds.RoleFinish}
	problem, err := svc.CreateDraft(ctx, "kilter_original", orig)
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}

	// A failed validation leaves the stored configuration untouched.
	bad := holds.Configuration{"A1": holds.RoleStart} // no finish
	if _, err := svc.EditHolds(ctx, problem.ID, bad); err == nil {
		t.Fatal("expected validation error")
	}
	got, err := svc.Get(ctx, problem.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	stored, err := got.Configuration()
	if err != nil {
		t.Fatalf("decode stored: %v", err)
	}
	if !stored.Equal(orig) {
		t.Fatalf("failed edit mutated stored holds: %v", stored)
	}

	// A valid edit replaces the configuration wholesale.
	next := holds.Configuration{"B2": holds.RoleStart, "C3": holds.RoleFoot, "F7": holds.RoleFinish}
	if _, err := svc.EditHolds(ctx, problem.ID, next); err != nil {
		t.Fatalf("EditHolds: %v", err)
	}
	got, _ = svc.Get(ctx, problem.ID)
	stored, _ = got.Configuration()
	if !stored.Equal(next) {
		t.Fatalf("edit did not replace configuration: %v", stored)
	}
	if _, ok := stored.Role("A1"); ok {
		t.Fatal("old hold survived a wholesale replacement")
	}
}

func TestProblemServiceUnknownBoard(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := newProblemService(t, db, log)

	creator := newTestUser(t, db, log)
	cfg := holds.Configuration{"A1": holds.RoleStart, "B2": holds.RoleFinish}
	if _, err := svc.CreateDraft(authedCtx(creator), "moonboard", cfg); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for unknown board, got %v", err)
	}
}

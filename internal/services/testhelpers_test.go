package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"github.com/boardside/kilterboard-backend/internal/data/repos"
	"github.com/boardside/kilterboard-backend/internal/data/repos/testutil"
	types "github.com/boardside/kilterboard-backend/internal/domain"
	"github.com/boardside/kilterboard-backend/internal/domain/board"
	"github.com/boardside/kilterboard-backend/internal/platform/ctxutil"
	"github.com/boardside/kilterboard-backend/internal/platform/logger"
)

// Service tests run against the shared test database without a wrapping
// transaction, because the services open transactions of their own. Each
// test isolates itself with fresh users instead.

var userSeq atomic.Int64

func newTestUser(t *testing.T, db *gorm.DB, log *logger.Logger) *types.User {
	t.Helper()
	n := userSeq.Add(1)
	email := fmt.Sprintf("svc%d@example.com", n)
	username := fmt.Sprintf("svc%d", n)
	return testutil.SeedUser(t, context.Background(), db, email, username)
}

func authedCtx(u *types.User) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{
		UserID:   u.ID,
		Username: u.Username,
	})
}

func newBoardRegistry(t *testing.T) *board.Registry {
	t.Helper()
	reg, err := board.LoadRegistry()
	if err != nil {
		t.Fatalf("load board registry: %v", err)
	}
	return reg
}

func newProblemService(t *testing.T, db *gorm.DB, log *logger.Logger) ProblemService {
	t.Helper()
	return NewProblemService(db, log, repos.NewProblemRepo(db, log), newBoardRegistry(t))
}

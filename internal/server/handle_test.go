package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/globetrotter/internal/catalog"
	"github.com/playperu/globetrotter/internal/database"
	"github.com/playperu/globetrotter/internal/game"
	"github.com/playperu/globetrotter/internal/migrations"
)

type testEnv struct {
	router chi.Router
	svc    *game.Service
}

func setupRouter(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := catalog.NewStore(db)
	svc := game.NewService(db, store, logger)
	if err := SeedDemo(ctx, logger, db, svc); err != nil {
		t.Fatalf("seed demo: %v", err)
	}

	r := newRouter(logger, Deps{
		Game:          svc,
		Catalog:       store,
		PublicBaseURL: "https://globetrotter.example",
	})
	return &testEnv{router: r, svc: svc}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return v
}

func (e *testEnv) createUser(t *testing.T, name string) UserResponse {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/users", UsernameRequest{Username: name})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	return decode[UserResponse](t, rec)
}

func (e *testEnv) createChallenge(t *testing.T, userID string) ChallengeResponse {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/challenges", CreateChallengeRequest{UserID: userID})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create challenge: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	return decode[ChallengeResponse](t, rec)
}

func (e *testEnv) createInvite(t *testing.T, userID, challengeID string) InviteResponse {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/invites", CreateInviteRequest{UserID: userID, ChallengeID: challengeID})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create invite: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	return decode[InviteResponse](t, rec)
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	body := decode[ErrorResponse](t, rec)
	if body.Error == "" {
		t.Error("error body missing message")
	}
}

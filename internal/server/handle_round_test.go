package server

import (
	"context"
	"net/http"
	"testing"
)

func TestRoundAndGuess(t *testing.T) {
	e := setupRouter(t)
	alice := e.createUser(t, "alice")

	rec := e.do(t, http.MethodGet, "/api/game/round?userId="+alice.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("round status = %d, body = %s", rec.Code, rec.Body.String())
	}
	round := decode[RoundResponse](t, rec)
	if round.GameSessionID == "" || len(round.Options) != 4 || len(round.Clues) == 0 {
		t.Fatalf("round = %+v", round)
	}

	gs, err := e.svc.Session(context.Background(), round.GameSessionID)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}

	rec = e.do(t, http.MethodPost, "/api/game/guess", GuessRequest{
		UserID:               alice.ID,
		SessionID:            round.GameSessionID,
		GuessedDestinationID: gs.DestinationID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("guess status = %d, body = %s", rec.Code, rec.Body.String())
	}
	out := decode[GuessResponse](t, rec)
	if !out.IsCorrect || out.CorrectDestinationID != gs.DestinationID || out.Score != 10 || out.AlreadyResolved {
		t.Errorf("guess = %+v", out)
	}

	// A second guess replays the stored outcome.
	rec = e.do(t, http.MethodPost, "/api/game/guess", GuessRequest{
		UserID:               alice.ID,
		SessionID:            round.GameSessionID,
		GuessedDestinationID: "something-else",
	})
	again := decode[GuessResponse](t, rec)
	if !again.IsCorrect || !again.AlreadyResolved || again.Score != 10 {
		t.Errorf("repeat guess = %+v", again)
	}
}

func TestRoundErrors(t *testing.T) {
	e := setupRouter(t)
	alice := e.createUser(t, "alice")

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
	}{
		{name: "round without user", method: http.MethodGet, path: "/api/game/round", wantStatus: http.StatusUnauthorized},
		{name: "round unknown user", method: http.MethodGet, path: "/api/game/round?userId=ghost", wantStatus: http.StatusNotFound},
		{name: "challenge round without user", method: http.MethodGet, path: "/api/game/challenge?challengeId=x", wantStatus: http.StatusUnauthorized},
		{name: "challenge round without challenge", method: http.MethodGet, path: "/api/game/challenge?userId=" + alice.ID, wantStatus: http.StatusBadRequest},
		{name: "challenge round unknown challenge", method: http.MethodGet, path: "/api/game/challenge?userId=" + alice.ID + "&challengeId=x", wantStatus: http.StatusNotFound},
		{name: "guess missing fields", method: http.MethodPost, path: "/api/game/guess", body: GuessRequest{UserID: alice.ID}, wantStatus: http.StatusBadRequest},
		{name: "guess unknown session", method: http.MethodPost, path: "/api/game/guess", body: GuessRequest{UserID: alice.ID, SessionID: "x", GuessedDestinationID: "y"}, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertError(t, e.do(t, tt.method, tt.path, tt.body), tt.wantStatus)
		})
	}
}

func TestChallengeRoundInactive(t *testing.T) {
	e := setupRouter(t)
	alice := e.createUser(t, "alice")
	bob := e.createUser(t, "bob")
	c := e.createChallenge(t, alice.ID)

	e.do(t, http.MethodPost, "/api/challenges/"+c.ID+"/deactivate", nil)
	rec := e.do(t, http.MethodGet, "/api/game/challenge?userId="+bob.ID+"&challengeId="+c.ID, nil)
	assertError(t, rec, http.StatusNotFound)
}

func TestRoundAllCompleted(t *testing.T) {
	e := setupRouter(t)
	alice := e.createUser(t, "alice")
	ctx := context.Background()

	for range 5 {
		rec := e.do(t, http.MethodGet, "/api/game/round?userId="+alice.ID, nil)
		round := decode[RoundResponse](t, rec)
		gs, err := e.svc.Session(ctx, round.GameSessionID)
		if err != nil {
			t.Fatalf("load session: %v", err)
		}
		if _, err := e.svc.SubmitGuess(ctx, alice.ID, gs.ID, gs.DestinationID); err != nil {
			t.Fatalf("guess: %v", err)
		}
	}

	rec := e.do(t, http.MethodGet, "/api/game/round?userId="+alice.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decode[RoundCompleteResponse](t, rec); !got.AllCompleted {
		t.Error("want allCompleted after every destination is guessed")
	}
}

func TestGuessOnSolvedDestinationConflicts(t *testing.T) {
	e := setupRouter(t)
	alice := e.createUser(t, "alice")
	ctx := context.Background()

	list := decode[DestinationsResponse](t, e.do(t, http.MethodGet, "/api/destinations?limit=1", nil))
	if len(list.Destinations) != 1 {
		t.Fatalf("destinations = %+v", list)
	}
	dest := list.Destinations[0].ID

	var ids []string
	for range 2 {
		gs, err := e.svc.CreateSession(ctx, alice.ID, dest, nil)
		if err != nil {
			t.Fatalf("create session: %v", err)
		}
		ids = append(ids, gs.ID)
	}

	guess := GuessRequest{UserID: alice.ID, SessionID: ids[0], GuessedDestinationID: dest}
	if rec := e.do(t, http.MethodPost, "/api/game/guess", guess); rec.Code != http.StatusOK {
		t.Fatalf("first guess status = %d, body = %s", rec.Code, rec.Body.String())
	}
	guess.SessionID = ids[1]
	assertError(t, e.do(t, http.MethodPost, "/api/game/guess", guess), http.StatusConflict)
}

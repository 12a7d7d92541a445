package server

import (
	"net/http"
	"strings"
	"testing"
)

func TestCreateChallengeHandler(t *testing.T) {
	e := setupRouter(t)
	alice := e.createUser(t, "alice")

	c := e.createChallenge(t, alice.ID)
	if c.ID == "" || c.InviteCode == "" || !c.IsActive || c.CreatorID != alice.ID {
		t.Errorf("challenge = %+v", c)
	}

	assertError(t, e.do(t, http.MethodPost, "/api/challenges", CreateChallengeRequest{}), http.StatusBadRequest)
	assertError(t, e.do(t, http.MethodPost, "/api/challenges", CreateChallengeRequest{UserID: "ghost"}), http.StatusNotFound)
	assertError(t, e.do(t, http.MethodPost, "/api/challenges",
		CreateChallengeRequest{UserID: alice.ID, DestinationID: "nowhere"}), http.StatusNotFound)
}

func TestGetChallengeHandler(t *testing.T) {
	e := setupRouter(t)
	alice := e.createUser(t, "alice")
	c := e.createChallenge(t, alice.ID)

	rec := e.do(t, http.MethodGet, "/api/challenges/"+c.InviteCode, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "destination") {
		t.Errorf("challenge lookup leaks the destination: %s", rec.Body.String())
	}
	got := decode[ChallengeDetailResponse](t, rec)
	if got.ID != c.ID || got.Creator.Username != "alice" {
		t.Errorf("challenge = %+v", got)
	}

	assertError(t, e.do(t, http.MethodGet, "/api/challenges/unknown", nil), http.StatusNotFound)

	rec = e.do(t, http.MethodPost, "/api/challenges/"+c.ID+"/deactivate", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("deactivate status = %d", rec.Code)
	}
	if d := decode[DeactivateChallengeResponse](t, rec); d.IsActive || d.ID != c.ID {
		t.Errorf("deactivate = %+v", d)
	}
	assertError(t, e.do(t, http.MethodGet, "/api/challenges/"+c.InviteCode, nil), http.StatusBadRequest)
	assertError(t, e.do(t, http.MethodPost, "/api/challenges/unknown/deactivate", nil), http.StatusNotFound)
}

func TestActiveChallengesHandler(t *testing.T) {
	e := setupRouter(t)
	alice := e.createUser(t, "alice")

	rec := e.do(t, http.MethodGet, "/api/challenges/active?userId="+alice.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	got := decode[ActiveChallengesResponse](t, rec)
	if len(got.Challenges) != 5 {
		t.Fatalf("challenges = %d, want the 5 seeded defaults", len(got.Challenges))
	}
	for _, c := range got.Challenges {
		if c.Creator.Username != "system" || c.Destination.Name == "" {
			t.Errorf("challenge = %+v", c)
		}
	}

	// Playing one removes it from the list.
	first := got.Challenges[0]
	rec = e.do(t, http.MethodGet, "/api/game/challenge?userId="+alice.ID+"&challengeId="+first.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("challenge round status = %d", rec.Code)
	}
	rec = e.do(t, http.MethodGet, "/api/challenges/active?userId="+alice.ID, nil)
	if got := decode[ActiveChallengesResponse](t, rec); len(got.Challenges) != 4 {
		t.Errorf("challenges = %d, want 4", len(got.Challenges))
	}

	assertError(t, e.do(t, http.MethodGet, "/api/challenges/active", nil), http.StatusUnauthorized)
	assertError(t, e.do(t, http.MethodGet, "/api/challenges/active?userId=ghost", nil), http.StatusNotFound)
}

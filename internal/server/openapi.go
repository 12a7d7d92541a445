package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Parameter shapes for documentation only.
type (
	userPathParams struct {
		ID string `path:"id"`
	}
	codePathParams struct {
		InviteCode string `path:"inviteCode"`
	}
	userQueryParams struct {
		UserID string `query:"userId" required:"true"`
	}
	challengeRoundParams struct {
		UserID      string `query:"userId" required:"true"`
		ChallengeID string `query:"challengeId" required:"true"`
	}
	limitQueryParams struct {
		Limit int `query:"limit" minimum:"0"`
	}
)

type operation struct {
	method, path, summary, description string
	req                                any
	resp                               any
	status                             int
	errors                             []int
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Globetrotter API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the Globetrotter geography trivia game. " +
		"userId is an unauthenticated bearer of identity.")

	ops := []operation{
		{
			method: http.MethodPost, path: "/api/users",
			summary: "Create user", description: "Registers a player by unique username.",
			req: UsernameRequest{}, resp: UserResponse{}, status: http.StatusCreated,
			errors: []int{http.StatusBadRequest, http.StatusConflict},
		},
		{
			method: http.MethodPost, path: "/api/users/check",
			summary: "Check username", description: "Reports whether a username exists and returns the player if so.",
			req: UsernameRequest{}, resp: CheckUserResponse{}, status: http.StatusOK,
			errors: []int{http.StatusBadRequest},
		},
		{
			method: http.MethodGet, path: "/api/users/{id}",
			summary: "Get user", description: "Returns a player's score and guess counters.",
			req: userPathParams{}, resp: UserResponse{}, status: http.StatusOK,
			errors: []int{http.StatusNotFound},
		},
		{
			method: http.MethodPost, path: "/api/challenges",
			summary: "Create challenge", description: "Pins a destination, random unless destinationId is given, for others to play.",
			req: CreateChallengeRequest{}, resp: ChallengeResponse{}, status: http.StatusCreated,
			errors: []int{http.StatusBadRequest, http.StatusNotFound},
		},
		{
			method: http.MethodGet, path: "/api/challenges/active",
			summary: "List active challenges", description: "Active challenges the user has not played, newest first. " +
				"Entries name their destination; the challenge and invite lookups do not.",
			req: userQueryParams{}, resp: ActiveChallengesResponse{}, status: http.StatusOK,
			errors: []int{http.StatusUnauthorized, http.StatusNotFound},
		},
		{
			method: http.MethodGet, path: "/api/challenges/{inviteCode}",
			summary: "Get challenge by code", description: "Resolves a challenge share code with its creator.",
			req: codePathParams{}, resp: ChallengeDetailResponse{}, status: http.StatusOK,
			errors: []int{http.StatusBadRequest, http.StatusNotFound},
		},
		{
			method: http.MethodPost, path: "/api/challenges/{id}/deactivate",
			summary: "Deactivate challenge", description: "Soft-disables a challenge. Idempotent.",
			req: userPathParams{}, resp: DeactivateChallengeResponse{}, status: http.StatusOK,
			errors: []int{http.StatusNotFound},
		},
		{
			method: http.MethodGet, path: "/api/game/round",
			summary: "Start free round", description: "Picks a destination the user has not guessed correctly. Returns allCompleted when none remain.",
			req: userQueryParams{}, resp: RoundResponse{}, status: http.StatusOK,
			errors: []int{http.StatusUnauthorized, http.StatusNotFound, http.StatusInternalServerError},
		},
		{
			method: http.MethodGet, path: "/api/game/challenge",
			summary: "Start challenge round", description: "Presents a challenge's destination, reusing an open session for it.",
			req: challengeRoundParams{}, resp: RoundResponse{}, status: http.StatusOK,
			errors: []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound, http.StatusConflict},
		},
		{
			method: http.MethodPost, path: "/api/game/guess",
			summary: "Submit guess", description: "Resolves a session once and applies scoring. Repeats return the stored outcome. " +
				"A correct guess on a destination already solved in another session is refused with 409.",
			req: GuessRequest{}, resp: GuessResponse{}, status: http.StatusOK,
			errors: []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict},
		},
		{
			method: http.MethodPost, path: "/api/invites",
			summary: "Create invite", description: "Shares an active challenge, optionally with a named recipient.",
			req: CreateInviteRequest{}, resp: InviteResponse{}, status: http.StatusCreated,
			errors: []int{http.StatusBadRequest, http.StatusNotFound},
		},
		{
			method: http.MethodGet, path: "/api/invites/{inviteCode}",
			summary: "Get invite", description: "Returns an invite with its sender and challenge. " +
				"The destination is left out; only the active-challenges listing names it.",
			req: codePathParams{}, resp: InviteDetailResponse{}, status: http.StatusOK,
			errors: []int{http.StatusNotFound},
		},
		{
			method: http.MethodPost, path: "/api/invites/accept",
			summary: "Accept invite", description: "Accepts an invite once and opens the acceptor's challenge session.",
			req: AcceptInviteRequest{}, resp: AcceptInviteResponse{}, status: http.StatusOK,
			errors: []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound, http.StatusConflict},
		},
		{
			method: http.MethodGet, path: "/api/destinations",
			summary: "List destinations", description: "Catalog summaries in name order.",
			req: limitQueryParams{}, resp: DestinationsResponse{}, status: http.StatusOK,
			errors: []int{http.StatusBadRequest},
		},
	}

	for _, op := range ops {
		oc, _ := r.NewOperationContext(op.method, op.path)
		oc.SetSummary(op.summary)
		oc.SetDescription(op.description)
		oc.AddReqStructure(op.req)
		oc.AddRespStructure(op.resp, openapi.WithHTTPStatus(op.status))
		for _, status := range op.errors {
			oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(status))
		}
		_ = r.AddOperation(oc)
	}

	// GET /api/invites/{inviteCode}/qr.png
	getQR, _ := r.NewOperationContext(http.MethodGet, "/api/invites/{inviteCode}/qr.png")
	getQR.SetSummary("Invite QR code")
	getQR.SetDescription("PNG QR code of the invite's share link, <base>/invite/{inviteCode}.")
	getQR.AddReqStructure(codePathParams{})
	getQR.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK), openapi.WithContentType("image/png"))
	getQR.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getQR)

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(map[string]HealthStatus{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(map[string]HealthStatus{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	return r.Spec
}

// HealthStatus documents one entry of the /healthz body.
type HealthStatus struct {
	Status string `json:"status" enum:"ok,error"`
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

package server

import (
	"context"
	"net/http"
)

type ctxKey int

const ctxKeyUserID ctxKey = iota

// requireUser reads the caller's identity from the userId query parameter.
// The id is an unauthenticated bearer token; a missing one is a 401.
func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("userId")
		if id == "" {
			writeError(w, http.StatusUnauthorized, "userId is required")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUserID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userID(r *http.Request) string {
	return r.Context().Value(ctxKeyUserID).(string)
}

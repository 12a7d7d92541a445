package server

import (
	"io/fs"
	"net/http"
	"os"
	"strings"
)

// handleSPA serves the presentation bundle from dir. Paths that match no
// file fall back to index.html so client-side routes such as
// /challenge/{inviteCode} and /invite/{inviteCode} load the app. Unknown /api paths stay JSON 404s.
func handleSPA(dir string) http.HandlerFunc {
	root := os.DirFS(dir)
	fileServer := http.FileServerFS(root)

	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			writeError(w, http.StatusNotFound, "not found")
			return
		}

		name := strings.TrimPrefix(r.URL.Path, "/")
		if info, err := fs.Stat(root, name); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}

		http.ServeFileFS(w, r, root, "index.html")
	}
}

package httpserver

import (
	"net/http"
	"os"
	"path/filepath"
)

// pageNames are the HTML pages served from the static directory.
var pageNames = []string{"login", "signup", "verifyEmail", "resetPassword", "profile", "weatherDashboard"}

// pageHandler serves <dir>/<name>.html.
func pageHandler(dir, name string) http.HandlerFunc {
	file := filepath.Join(dir, name+".html")

	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := os.Stat(file); err != nil {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, file)
	}
}

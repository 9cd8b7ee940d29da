package api

import (
	"net/http"
	"os"
	"path/filepath"
)

// SPAHandler serves the built frontend from a directory and falls back to
// the index file for unknown paths so client-side routes resolve.
type SPAHandler struct {
	StaticPath string
	IndexPath  string
}

func NewSPAHandler(dir string) SPAHandler {
	return SPAHandler{StaticPath: dir, IndexPath: "index.html"}
}

func (h SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Clean as an absolute path so ".." cannot leave StaticPath.
	path := filepath.Join(h.StaticPath, filepath.Clean("/"+r.URL.Path))
	info, err := os.Stat(path)
	if os.IsNotExist(err) || (err == nil && info.IsDir() && !hasIndex(path)) {
		http.ServeFile(w, r, filepath.Join(h.StaticPath, h.IndexPath))
		return
	} else if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.FileServer(http.Dir(h.StaticPath)).ServeHTTP(w, r)
}

func hasIndex(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "index.html"))
	return err == nil
}

package api

import (
	"net/http"

	"github.com/soaringjerry/avatar-survey/internal/services"
)

func (rt *Router) handleGallery(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rt.media.GalleryImages())
}

// POST /api/gallery/select {index} -> {index}
func (rt *Router) handleGallerySelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index *int `json:"index"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Index == nil {
		writeError(w, r, &services.ValidationError{Field: "index", Rule: "required"})
		return
	}
	idx, err := rt.media.SelectGalleryItem(*req.Index)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"index": idx})
}

func (rt *Router) handleVideos(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rt.media.ReplayVideos())
}

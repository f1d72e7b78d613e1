package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Cover bytes are served straight off the chi router: the response is a raw
// JPEG, not an enveloped JSON document.
func (s *Server) registerCoverRoutes() {
	s.router.Get("/covers/{bookID}", s.handleGetCover)
}

func (s *Server) handleGetCover(w http.ResponseWriter, r *http.Request) {
	if s.covers == nil {
		http.NotFound(w, r)
		return
	}

	bookID := chi.URLParam(r, "bookID")
	if !s.covers.Exists(bookID) {
		http.NotFound(w, r)
		return
	}

	hash, err := s.covers.Hash(bookID)
	if err == nil {
		etag := `"` + hash + `"`
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	data, err := s.covers.Get(bookID)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("cover read failed", "bookId", bookID, "error", err)
		}
		http.Error(w, "cover unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(data)
}

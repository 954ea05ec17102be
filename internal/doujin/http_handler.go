package doujin

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"doujinshelf/internal/httpx"
	"doujinshelf/internal/thumb"
)

// Uploads above this stay on disk during multipart parsing.
const maxMultipartMemory = 10 << 20

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// List handles GET /api/doujinshi
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := Query{
		Search: query.Get("search"),
		Circle: query.Get("circle"),
		Author: query.Get("author"),
	}
	if genres := query.Get("genres"); genres != "" {
		params.Genres = SplitList(genres)
	}

	entries, err := h.service.List(r.Context(), params)
	if err != nil {
		log.Printf("list doujinshi failed: %v", err)
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, entries, map[string]any{"total": len(entries)})
}

// Get handles GET /api/doujinshi/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.NotFound(w, r)
		return
	}

	entry, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpx.JSONSuccess(w, entry, nil)
}

// Create handles POST /api/doujinshi (multipart form)
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, thumbnail, ok := h.readEntryForm(w, r)
	if !ok {
		return
	}

	entry, err := h.service.Create(r.Context(), in, thumbnail)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpx.JSONSuccessCreated(w, entry)
}

// Update handles PUT /api/doujinshi/{id} (multipart form)
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.NotFound(w, r)
		return
	}

	in, thumbnail, ok := h.readEntryForm(w, r)
	if !ok {
		return
	}

	entry, err := h.service.Update(r.Context(), id, in, thumbnail)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpx.JSONSuccess(w, entry, nil)
}

// Delete handles DELETE /api/doujinshi
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Request body must be JSON with an ids array", nil)
		return
	}

	if err := h.service.Delete(r.Context(), body.IDs); err != nil {
		h.writeError(w, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// ListCircles handles GET /api/circles
func (h *HTTPHandler) ListCircles(w http.ResponseWriter, r *http.Request) {
	circles, err := h.service.ListCircles(r.Context())
	if err != nil {
		log.Printf("list circles failed: %v", err)
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, circles, nil)
}

// ListAuthors handles GET /api/authors
func (h *HTTPHandler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := h.service.ListAuthors(r.Context())
	if err != nil {
		log.Printf("list authors failed: %v", err)
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, authors, nil)
}

// readEntryForm parses the multipart create/update form. The thumbnail part
// is optional; an empty file is treated as absent, matching a browser form
// submitted without a selection.
func (h *HTTPHandler) readEntryForm(w http.ResponseWriter, r *http.Request) (EntryInput, []byte, bool) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Request must be a multipart form", nil)
		return EntryInput{}, nil, false
	}

	in := EntryInput{
		Title:         r.FormValue("title"),
		Circle:        r.FormValue("circle"),
		AuthorsText:   r.FormValue("authors"),
		GenresText:    r.FormValue("genres"),
		PublishedDate: r.FormValue("published_date"),
	}

	var thumbnail []byte
	file, _, err := r.FormFile("thumbnail")
	if err == nil {
		defer file.Close()
		thumbnail, err = io.ReadAll(file)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Could not read thumbnail upload", nil)
			return EntryInput{}, nil, false
		}
	} else if !errors.Is(err, http.ErrMissingFile) {
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Could not read thumbnail upload", nil)
		return EntryInput{}, nil, false
	}

	return in, thumbnail, true
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		details := make([]httpx.ErrorDetail, 0, len(ve.Fields))
		for _, f := range ve.Fields {
			details = append(details, httpx.ErrorDetail{Field: f.Field, Message: f.Message})
		}
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
	case errors.Is(err, ErrEmptyIDs):
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "No ids given", nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Doujinshi not found", nil)
	case errors.Is(err, thumb.ErrNotImage):
		httpx.JSONError(w, http.StatusBadRequest, "INVALID_IMAGE", "Uploaded file is not a valid image", nil)
	case errors.Is(err, ErrStorage):
		log.Printf("thumbnail storage failed: %v", err)
		httpx.JSONError(w, http.StatusBadGateway, "STORAGE_ERROR", "Thumbnail storage is unavailable", nil)
	default:
		log.Printf("doujinshi request failed: %v", err)
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

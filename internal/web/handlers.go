package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/hpungsan/seodraft/internal/db"
	"github.com/hpungsan/seodraft/internal/errors"
	"github.com/hpungsan/seodraft/internal/logger"
	"github.com/hpungsan/seodraft/internal/ops"
	"github.com/hpungsan/seodraft/internal/pipeline"
)

// Handlers contains HTTP route handlers for the API.
type Handlers struct {
	pipeline *pipeline.Pipeline
	store    *db.Store
	log      logger.Logger
}

// HandleGenerate handles POST /api/generate: run the pipeline for one keyword.
func (h *Handlers) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var input ops.GenerateInput
	if err := decodeBody(w, r, &input); err != nil {
		renderError(w, h.log, err)
		return
	}

	out, err := ops.Generate(r.Context(), h.pipeline, input)
	if err != nil {
		renderError(w, h.log, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

// HandleDrafts handles GET /api/drafts: list draft posts.
func (h *Handlers) HandleDrafts(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}

	out, err := ops.ListDrafts(r.Context(), h.store, ops.ListDraftsInput{
		Limit: parseIntParam(r, "limit", ops.DefaultDraftsLimit),
	})
	if err != nil {
		renderError(w, h.log, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

// HandlePost handles GET /api/post?id= and GET /api/posts/{id}: fetch one post.
func (h *Handlers) HandlePost(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		id = r.URL.Query().Get("id")
	}

	out, err := ops.GetPost(r.Context(), h.store, ops.GetPostInput{
		ID:          id,
		IncludeHTML: r.URL.Query().Get("format") == "html",
	})
	if err != nil {
		renderError(w, h.log, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

// HandleEnqueue handles POST /api/queue: schedule a publish request.
func (h *Handlers) HandleEnqueue(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}

	var input ops.EnqueueInput
	if err := decodeBody(w, r, &input); err != nil {
		renderError(w, h.log, err)
		return
	}

	out, err := ops.Enqueue(r.Context(), h.store, input)
	if err != nil {
		renderError(w, h.log, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

// HandleQueue handles GET /api/queue: list publish requests.
func (h *Handlers) HandleQueue(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}

	out, err := ops.ListQueue(r.Context(), h.store, ops.ListQueueInput{
		Status: r.URL.Query().Get("status"),
		Limit:  parseIntParam(r, "limit", ops.DefaultQueueLimit),
	})
	if err != nil {
		renderError(w, h.log, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

// HandleHealth handles GET /api/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	out, err := ops.Health(r.Context(), h.store)
	if err != nil {
		renderError(w, h.log, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

func (h *Handlers) requireStore(w http.ResponseWriter) bool {
	if h.store == nil {
		renderError(w, h.log, errors.NewNotConfigured("database is not configured"))
		return false
	}
	return true
}

// decodeBody reads a JSON object from the request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.NewInvalidInput("request body must be a JSON object")
	}
	return nil
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

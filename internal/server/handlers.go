package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DolphinWorld/demandsolution-codex/internal/intake"
	"github.com/DolphinWorld/demandsolution-codex/internal/models"
	"github.com/DolphinWorld/demandsolution-codex/internal/ranking"
	"github.com/DolphinWorld/demandsolution-codex/internal/storage"
)

// maxBodyBytes caps request bodies; the largest valid submission is far below it.
const maxBodyBytes = 64 << 10

type ideaDetail struct {
	*models.Idea
	Merges []*models.MergeRecord `json:"merges"`
}

type dedupCheckRequest struct {
	Text         string `json:"text"`
	RawInputText string `json:"raw_input_text"`
}

func (s *Server) handleSubmitIdea(w http.ResponseWriter, r *http.Request) {
	var input models.IdeaInput
	if !s.decode(w, r, &input) {
		return
	}
	caller := callerFrom(r.Context())
	s.logger.Debug("submit request", zap.String("anon_id", caller.AnonID), zap.Int("length", len(input.RawInputText)))

	resp, err := s.intake.Submit(r.Context(), &input, caller)
	if err != nil {
		s.respondServiceError(w, "submit", err)
		return
	}
	status := http.StatusCreated
	if resp.Merged {
		status = http.StatusOK
	}
	s.respondJSON(w, status, resp)
}

func (s *Server) handleListIdeas(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	query := &models.ListQuery{
		Sort:   ranking.SortOrder(q.Get("sort")),
		Limit:  limit,
		Cursor: models.ParseCursor(q.Get("cursor")),
	}
	resp, err := s.engine.List(r.Context(), query)
	if err != nil {
		s.respondServiceError(w, "list", err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetIdea(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	idea, err := s.storage.GetIdea(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, "get idea", err)
		return
	}
	merges, err := s.storage.ListMerges(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, "list merges", err)
		return
	}
	if merges == nil {
		merges = []*models.MergeRecord{}
	}
	s.respondJSON(w, http.StatusOK, ideaDetail{Idea: idea, Merges: merges})
}

func (s *Server) handleUpvote(w http.ResponseWriter, r *http.Request) {
	changed, err := s.storage.AddVote(r.Context(), chi.URLParam(r, "id"), callerFrom(r.Context()).AnonID)
	if err != nil {
		s.respondServiceError(w, "upvote", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]bool{"ok": true, "changed": changed})
}

func (s *Server) handleRemoveUpvote(w http.ResponseWriter, r *http.Request) {
	changed, err := s.storage.RemoveVote(r.Context(), chi.URLParam(r, "id"), callerFrom(r.Context()).AnonID)
	if err != nil {
		s.respondServiceError(w, "remove upvote", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]bool{"ok": true, "changed": changed})
}

func (s *Server) handleSearchGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	fuzzy, _ := strconv.ParseBool(q.Get("fuzzy"))
	s.search(w, r, &models.SearchQuery{
		Query: q.Get("q"),
		Limit: limit,
		Sort:  ranking.SortOrder(q.Get("sort")),
		Fuzzy: fuzzy,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if !s.decode(w, r, &query) {
		return
	}
	s.search(w, r, &query)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request, query *models.SearchQuery) {
	s.logger.Debug("search request", zap.String("query", query.Query), zap.Int("limit", query.Limit))
	response, err := s.engine.Search(r.Context(), query)
	if err != nil {
		s.respondServiceError(w, "search", err)
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleDedupCheck(w http.ResponseWriter, r *http.Request) {
	var req dedupCheckRequest
	if !s.decode(w, r, &req) {
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		text = strings.TrimSpace(req.RawInputText)
	}
	if text == "" {
		s.respondError(w, http.StatusBadRequest, "text is required")
		return
	}
	resp, err := s.intake.Check(r.Context(), text)
	if err != nil {
		s.respondServiceError(w, "dedup check", err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ideaCount, err := s.storage.CountIdeas(ctx)
	if err != nil {
		s.respondServiceError(w, "status: count ideas", err)
		return
	}
	mergeCount, err := s.storage.CountMerges(ctx)
	if err != nil {
		s.respondServiceError(w, "status: count merges", err)
		return
	}
	resp := map[string]any{
		"ideas":  ideaCount,
		"merges": mergeCount,
		"config": map[string]any{
			"dedup":  s.intake.DedupConfig(),
			"search": s.engine.Config(),
		},
	}
	if s.dbPath != "" {
		if size, err := storage.DatabaseSizeBytes(s.dbPath); err == nil {
			resp["disk_usage_bytes"] = size
		}
	}
	if s.inbox != nil {
		resp["inbox_directories"] = s.inbox.Directories()
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// respondServiceError maps domain errors onto status codes.
func (s *Server) respondServiceError(w http.ResponseWriter, op string, err error) {
	var blocked *intake.BlockedError
	switch {
	case errors.As(err, &blocked):
		s.respondJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": err.Error(), "labels": blocked.Labels})
	case errors.Is(err, models.ErrInvalidInput):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, intake.ErrRateLimited):
		s.respondError(w, http.StatusTooManyRequests, "Rate limit exceeded. Try again later.")
	case errors.Is(err, storage.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "idea not found")
	default:
		s.logger.Error(op+" failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

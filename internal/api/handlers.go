package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mkraus/slovnik/internal/apperr"
	"github.com/mkraus/slovnik/internal/index"
	"github.com/mkraus/slovnik/internal/noteservice"
	"github.com/mkraus/slovnik/internal/speak"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
	tts *speak.Client
}

// NewHandler creates a new Handler. tts may be nil when no TTS service is
// configured; the speak endpoint then reports 503.
func NewHandler(svc *noteservice.Service, tts *speak.Client) *Handler {
	return &Handler{svc: svc, tts: tts}
}

// wordPath extracts the note path from the URL (everything after
// /api/words/). Supports encoded slashes (e.g. words%2Fkniha.md).
func wordPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListWords handles GET /api/words.
func (h *Handler) ListWords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	theme := q.Get("theme")

	rows, total, err := h.svc.ListWords(r.Context(), limit, offset, theme)
	if err != nil {
		slog.Error("list words failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	items := make([]WordListItem, len(rows))
	for i, row := range rows {
		items[i] = listItem(row)
	}
	writeJSON(w, http.StatusOK, WordListResponse{Words: items, Total: total})
}

// GetWord handles GET /api/words/*.
func (h *Handler) GetWord(w http.ResponseWriter, r *http.Request) {
	path := wordPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	detail, err := h.svc.GetWord(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get word failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Search handles GET /api/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("q is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	rows, err := h.svc.Search(r.Context(), query, limit)
	if err != nil {
		slog.Error("search failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	results := make([]WordListItem, len(rows))
	for i, row := range rows {
		results[i] = listItem(row)
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// Ingest handles POST /api/ingest: runs the batch pipeline over one
// vocabulary page. Per-word failures are reported in the response, not as an
// HTTP error.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if req.Page == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("page is required"))
		return
	}

	report, err := h.svc.IngestPage(r.Context(), req.Page)
	if err != nil {
		slog.Error("ingest failed", slog.String("page", req.Page), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	resp := IngestResponse{
		Processed:  report.Processed,
		Failed:     report.Failed,
		NoAnalysis: report.NoAnalysis,
	}
	for _, item := range report.Errors {
		resp.Errors = append(resp.Errors, item.Headword+": "+item.Err.Error())
	}
	writeJSON(w, http.StatusOK, resp)
}

// Speak handles GET /api/speak?text=... by proxying the TTS service.
func (h *Handler) Speak(w http.ResponseWriter, r *http.Request) {
	if h.tts == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("tts not configured"))
		return
	}
	text := r.URL.Query().Get("text")
	if text == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("text is required"))
		return
	}
	audio, err := h.tts.Synthesize(r.Context(), text)
	if err != nil {
		slog.Error("speak failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("tts request failed"))
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}

func listItem(row index.WordRow) WordListItem {
	return WordListItem{
		Path:         row.Path,
		Headword:     row.Headword,
		Translation:  row.Translation,
		Theme:        row.Theme,
		PartOfSpeech: row.PartOfSpeech,
		UpdatedAt:    row.UpdatedAt,
	}
}

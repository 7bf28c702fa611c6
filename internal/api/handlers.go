package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/amscan/ordersync/internal/ledger"
	"github.com/amscan/ordersync/internal/results"
	"github.com/amscan/ordersync/internal/syncer"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	sched      *syncer.Scheduler
	store      *ledger.Store
	resultsLog *results.Log
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}

// --- GetStatus ---

func (h *Handlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	st := h.sched.Status()

	count, err := h.store.Count()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":              st,
		"processedFilesCount": count,
		"resultsCount":        h.resultsLog.Count(),
		"timestamp":           time.Now().UTC().Format(time.RFC3339),
	})
}

// --- TriggerSync ---

func (h *Handlers) TriggerSync(w http.ResponseWriter, r *http.Request) {
	summary, err := h.sched.TriggerNow(r.Context())
	if err != nil {
		if errors.Is(err, syncer.ErrCycleInProgress) {
			writeError(w, http.StatusConflict, "a sync cycle is already running")
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "sync completed",
		"summary": summary,
	})
}

// --- ChangeInterval ---

func (h *Handlers) ChangeInterval(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Minutes float64 `json:"minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.Minutes <= 0 {
		writeError(w, http.StatusBadRequest, "minutes must be a positive number")
		return
	}

	msg, err := h.sched.ChangeInterval(time.Duration(req.Minutes * float64(time.Minute)))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": msg,
		"status":  h.sched.Status(),
	})
}

// --- ListProcessedFiles ---

func (h *Handlers) ListProcessedFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.store.All()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"files": files,
		"count": len(files),
	})
}

// --- ClearProcessedFiles ---

func (h *Handlers) ClearProcessedFiles(w http.ResponseWriter, r *http.Request) {
	removed, err := h.store.Clear()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("[api] Cleared %d processed files from ledger", removed)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "processed files cleared",
		"removed": removed,
	})
}

// --- RemoveProcessedFile ---

func (h *Handlers) RemoveProcessedFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	removed, err := h.store.Remove(name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "file not in ledger")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "file removed from ledger",
		"file":    name,
	})
}

// --- ListResults ---

func (h *Handlers) ListResults(w http.ResponseWriter, r *http.Request) {
	limit := parseIntDefault(r.URL.Query().Get("limit"), 50)
	recent := h.resultsLog.Recent(limit)

	writeJSON(w, http.StatusOK, map[string]any{
		"results": recent,
		"count":   len(recent),
		"total":   h.resultsLog.Count(),
	})
}

// --- GetResultStats ---

func (h *Handlers) GetResultStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.resultsLog.Stats())
}

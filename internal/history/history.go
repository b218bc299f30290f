package history

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"Illuminate/internal/auth"
	"Illuminate/internal/repo"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Handler struct {
	Repo repo.RunRepository
	Log  *zap.Logger
}

// List returns the caller's most recent runs, newest first. ?limit= caps the count.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = v
	}

	runs, err := h.Repo.ListRuns(r.Context(), userID, limit)
	if err != nil {
		h.Log.Error("list runs failed", zap.Int("user_id", userID), zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	run, err := h.Repo.GetRun(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			http.Error(w, "Run not found", http.StatusNotFound)
			return
		}
		h.Log.Error("get run failed", zap.Int("user_id", userID), zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

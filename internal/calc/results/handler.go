package results

import (
	"context"
	"encoding/json"
	"net/http"

	"Illuminate/internal/auth"
	"Illuminate/internal/calc/reply"
	"Illuminate/internal/calc/safety"
	"Illuminate/internal/room"

	"go.uber.org/zap"
)

const (
	KindSummary    = "summary"
	KindSummaryRaw = "summary-raw"
)

type Cache interface {
	Lookup(ctx context.Context, kind string, request []byte) ([]byte, bool)
	Store(ctx context.Context, kind string, request, response []byte)
}

type RunStore interface {
	SaveRun(ctx context.Context, userID int, kind string, request, response []byte) (string, error)
}

type Handler struct {
	Engine   *safety.Engine
	Cache    Cache
	Runs     RunStore
	Log      *zap.Logger
	Warnings safety.WarningCounter
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	kind := KindSummary
	if r.URL.Query().Get("raw") == "true" {
		kind = KindSummaryRaw
	}
	body, err := reply.ReadBody(w, r)
	if err != nil {
		reply.Error(w, h.Log, err)
		return
	}

	payload, ok := h.lookup(r.Context(), kind, body)
	if !ok {
		payload, err = h.compute(body, kind == KindSummary)
		if err != nil {
			reply.Error(w, h.Log, err)
			return
		}
		if h.Cache != nil {
			h.Cache.Store(r.Context(), kind, body, payload)
		}
	}

	if id := h.save(r.Context(), kind, body, payload); id != "" {
		w.Header().Set("X-Run-ID", id)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

func (h *Handler) lookup(ctx context.Context, kind string, body []byte) ([]byte, bool) {
	if h.Cache == nil {
		return nil, false
	}
	return h.Cache.Lookup(ctx, kind, body)
}

func (h *Handler) compute(body []byte, rounded bool) ([]byte, error) {
	rm, err := room.Decode(body)
	if err != nil {
		return nil, err
	}
	sum, err := Summarize(h.Engine, rm, rounded)
	if err != nil {
		return nil, err
	}
	if sum.Photobiological != nil {
		safety.LogWarnings(h.Log, h.Warnings, sum.Photobiological.Weighted.Warnings)
	}
	return json.Marshal(sum)
}

func (h *Handler) save(ctx context.Context, kind string, request, response []byte) string {
	if h.Runs == nil {
		return ""
	}
	userID, ok := auth.UserID(ctx)
	if !ok {
		return ""
	}
	id, err := h.Runs.SaveRun(ctx, userID, kind, request, response)
	if err != nil {
		h.Log.Error("save run failed", zap.Int("user_id", userID), zap.Error(err))
		return ""
	}
	return id
}

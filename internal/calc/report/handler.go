package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"Illuminate/internal/calc/reply"
	"Illuminate/internal/calc/results"
	"Illuminate/internal/calc/safety"
	"Illuminate/internal/room"

	"go.uber.org/zap"
)

type Handler struct {
	Engine *safety.Engine
	Log    *zap.Logger
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	body, err := reply.ReadBody(w, r)
	if err != nil {
		reply.Error(w, h.Log, err)
		return
	}
	var input Input
	if err := json.Unmarshal(body, &input); err != nil {
		reply.Error(w, h.Log, fmt.Errorf("%w: %v", reply.ErrBadRequest, err))
		return
	}
	rm, err := room.Decode(input.Room)
	if err != nil {
		reply.Error(w, h.Log, err)
		return
	}
	sum, err := results.Summarize(h.Engine, rm, true)
	if err != nil {
		reply.Error(w, h.Log, err)
		return
	}

	var buf bytes.Buffer
	if err := Render(&buf, input, sum, time.Now()); err != nil {
		h.Log.Error("render report failed", zap.Error(err))
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"report.pdf\"")
	w.Write(buf.Bytes())
}

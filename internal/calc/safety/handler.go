package safety

import (
	"net/http"

	"Illuminate/internal/calc/reply"

	"go.uber.org/zap"
)

type Result struct {
	Unweighted Hours    `json:"unweighted"`
	Weighted   Weighted `json:"weighted"`
}

// WarningCounter records how many lamp warnings a calculation produced.
type WarningCounter interface {
	SafetyWarnings(n int)
}

type Handler struct {
	Engine   *Engine
	Log      *zap.Logger
	Warnings WarningCounter
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	rm, _, err := reply.ReadRoom(w, r)
	if err != nil {
		reply.Error(w, h.Log, err)
		return
	}
	res, err := h.Engine.Calculate(rm)
	if err != nil {
		reply.Error(w, h.Log, err)
		return
	}
	LogWarnings(h.Log, h.Warnings, res.Weighted.Warnings)
	reply.JSON(w, http.StatusOK, res)
}

func LogWarnings(log *zap.Logger, counter WarningCounter, warnings []string) {
	for _, msg := range warnings {
		log.Warn("photobiological safety warning", zap.String("detail", msg))
	}
	if counter != nil {
		counter.SafetyWarnings(len(warnings))
	}
}

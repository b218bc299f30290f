package ozone

import (
	"errors"
	"net/http"

	"Illuminate/internal/calc/reply"

	"go.uber.org/zap"
)

type Result struct {
	AirChanges         float64 `json:"air_changes"`
	OzoneDecayConstant float64 `json:"ozone_decay_constant"`
	IncreasePPB        float64 `json:"increase_ppb"`
	Exceeded           bool    `json:"exceeded"`
}

type Handler struct {
	Log *zap.Logger
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	rm, _, err := reply.ReadRoom(w, r)
	if err != nil {
		reply.Error(w, h.Log, err)
		return
	}
	ppb, err := Increase(rm)
	if errors.Is(err, ErrNoRemoval) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		reply.Error(w, h.Log, err)
		return
	}
	reply.JSON(w, http.StatusOK, Result{
		AirChanges:         rm.AirChanges,
		OzoneDecayConstant: rm.OzoneDecayConstant,
		IncreasePPB:        ppb,
		Exceeded:           ppb > Threshold,
	})
}

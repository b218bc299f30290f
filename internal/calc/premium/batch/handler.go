package batch

import (
	"encoding/json"
	"fmt"
	"net/http"

	"Illuminate/internal/calc/reply"
	"Illuminate/internal/calc/safety"

	"go.uber.org/zap"
)

type Handler struct {
	Engine *safety.Engine
	Log    *zap.Logger
}

func (h *Handler) Rooms(w http.ResponseWriter, r *http.Request) {
	body, err := reply.ReadBody(w, r)
	if err != nil {
		reply.Error(w, h.Log, err)
		return
	}
	var input RoomBatchInput
	if err := json.Unmarshal(body, &input); err != nil {
		reply.Error(w, h.Log, fmt.Errorf("%w: %v", reply.ErrBadRequest, err))
		return
	}
	res, err := SummarizeRooms(h.Engine, input)
	if err != nil {
		reply.Error(w, h.Log, err)
		return
	}
	h.Log.Info("batch summarized", zap.Int("rooms", len(res.Results)))
	reply.JSON(w, http.StatusOK, res)
}

package efficacy

import (
	"net/http"

	"Illuminate/internal/calc/reply"
	"Illuminate/internal/refdata"

	"go.uber.org/zap"
)

type Handler struct {
	Pathogens refdata.Pathogens
	Log       *zap.Logger
}

// Calc returns the table rounded for display unless ?raw=true.
func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	rm, _, err := reply.ReadRoom(w, r)
	if err != nil {
		reply.Error(w, h.Log, err)
		return
	}
	table, err := ForRoom(rm, h.Pathogens)
	if err != nil {
		reply.Error(w, h.Log, err)
		return
	}
	if r.URL.Query().Get("raw") != "true" {
		table = table.Rounded()
	}
	reply.JSON(w, http.StatusOK, table)
}

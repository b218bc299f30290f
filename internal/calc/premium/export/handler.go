package export

import (
	"net/http"

	"Illuminate/internal/calc/efficacy"
	"Illuminate/internal/calc/reply"
	"Illuminate/internal/refdata"

	"go.uber.org/zap"
)

const contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	Pathogens refdata.Pathogens
	Log       *zap.Logger
}

func (h *Handler) Efficacy(w http.ResponseWriter, r *http.Request) {
	rm, _, err := reply.ReadRoom(w, r)
	if err != nil {
		reply.Error(w, h.Log, err)
		return
	}
	table, err := efficacy.ForRoom(rm, h.Pathogens)
	if err != nil {
		reply.Error(w, h.Log, err)
		return
	}
	if r.URL.Query().Get("raw") != "true" {
		table = table.Rounded()
	}

	f, err := EfficacyWorkbook(table, rm)
	if err != nil {
		reply.Error(w, h.Log, err)
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		reply.Error(w, h.Log, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\"efficacy.xlsx\"")
	w.Write(buf.Bytes())
}

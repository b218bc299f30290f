package importer

import (
	"net/http"

	"Illuminate/internal/calc/reply"
	"Illuminate/internal/refdata"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type Handler struct {
	Pathogens refdata.Pathogens
	Log       *zap.Logger
}

func (h *Handler) Rooms(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, reply.MaxBody)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil || len(rows) < 2 {
		http.Error(w, "Empty sheet", http.StatusBadRequest)
		return
	}

	res := Rows(rows, h.Pathogens)
	if len(res.Skipped) > 0 {
		h.Log.Info("import rows skipped", zap.Int("skipped", len(res.Skipped)), zap.Int("imported", res.Count))
	}
	reply.JSON(w, http.StatusOK, res)
}

package efficacy

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const roomBody = `{
	"standard": "ANSI IES RP 27.1-22 (America)",
	"units": "meters",
	"dimensions": {"x": 5, "y": 3, "z": 2},
	"calc_zones": {"WholeRoomFluence": {"values": [1.23456, 1.23456]}}
}`

func TestHandler_Calc(t *testing.T) {
	h := &Handler{Pathogens: pathogens(), Log: zap.NewNop()}

	rec := httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(roomBody)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var table Table
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &table))
	assert.Equal(t, 1.235, table.AvgFluence)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, 1.33, table.Rows[0].EACH)

	rec = httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/?raw=true", strings.NewReader(roomBody)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &table))
	assert.InDelta(t, 1.23456, table.AvgFluence, 1e-12)
	assert.InDelta(t, 0.3*1.23456*3.6, table.Rows[0].EACH, 1e-12)
}

func TestHandler_Calc_MissingFluence(t *testing.T) {
	h := &Handler{Pathogens: pathogens(), Log: zap.NewNop()}
	rec := httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"standard": "x", "units": "feet"}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "WholeRoomFluence")
}

package importer

import (
	"fmt"
	"strconv"
	"strings"

	"Illuminate/internal/calc/efficacy"
	"Illuminate/internal/calc/ozone"
	"Illuminate/internal/refdata"
	"Illuminate/internal/room"
)

// Row layout: name, units, x, y, z, avg_fluence, air_changes, ozone_decay.
const minColumns = 6

type RoomResult struct {
	Name        string         `json:"name"`
	Efficacy    efficacy.Table `json:"efficacy"`
	OzonePPB    *float64       `json:"ozone_ppb"`
	OzoneExceed bool           `json:"ozone_exceeded"`
}

type RoomImportResult struct {
	Count   int          `json:"count"`
	Skipped []string     `json:"skipped,omitempty"`
	Results []RoomResult `json:"results"`
}

// Rows evaluates every data row below the header; rows that cannot be parsed
// or calculated are reported in Skipped and do not fail the import.
func Rows(rows [][]string, pathogens refdata.Pathogens) RoomImportResult {
	out := RoomImportResult{Results: []RoomResult{}}
	for i := 1; i < len(rows); i++ {
		res, err := evaluate(rows[i], pathogens)
		if err != nil {
			out.Skipped = append(out.Skipped, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		out.Results = append(out.Results, res)
	}
	out.Count = len(out.Results)
	return out
}

func evaluate(row []string, pathogens refdata.Pathogens) (RoomResult, error) {
	r, name, err := parseRoomRow(row)
	if err != nil {
		return RoomResult{}, err
	}
	table, err := efficacy.ForRoom(r, pathogens)
	if err != nil {
		return RoomResult{}, err
	}
	res := RoomResult{Name: name, Efficacy: table.Rounded()}
	if ppb, err := ozone.Increase(r); err == nil {
		res.OzonePPB = &ppb
		res.OzoneExceed = ppb > ozone.Threshold
	}
	return res, nil
}

func parseRoomRow(row []string) (*room.Room, string, error) {
	if len(row) < minColumns {
		return nil, "", fmt.Errorf("expected at least %d columns, got %d", minColumns, len(row))
	}
	nums := make([]float64, 6)
	for i := range nums {
		col := i + 2
		if col >= len(row) || strings.TrimSpace(row[col]) == "" {
			continue
		}
		v, err := toFloat(row[col])
		if err != nil {
			return nil, "", fmt.Errorf("column %d: %w", col+1, err)
		}
		nums[i] = v
	}
	r := &room.Room{
		Units:              strings.ToLower(strings.TrimSpace(row[1])),
		Dimensions:         room.Dimensions{X: nums[0], Y: nums[1], Z: nums[2]},
		AirChanges:         nums[4],
		OzoneDecayConstant: nums[5],
		CalcZones: map[string]*room.CalcZone{
			room.ZoneFluence: {Values: []float64{nums[3]}},
		},
	}
	if err := r.Validate(); err != nil {
		return nil, "", err
	}
	return r, strings.TrimSpace(row[0]), nil
}

func toFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

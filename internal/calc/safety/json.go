package safety

import (
	"encoding/json"
	"math"
)

// Infinite hours (no exposure) are encoded as null.

type hoursWire struct {
	Skin     *float64 `json:"skin"`
	Eye      *float64 `json:"eye"`
	Warnings []string `json:"warnings,omitempty"`
}

func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

func orInf(p *float64) float64 {
	if p == nil {
		return math.Inf(1)
	}
	return *p
}

func (h Hours) MarshalJSON() ([]byte, error) {
	return json.Marshal(hoursWire{Skin: finite(h.Skin), Eye: finite(h.Eye)})
}

func (h *Hours) UnmarshalJSON(data []byte) error {
	var w hoursWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	h.Skin, h.Eye = orInf(w.Skin), orInf(w.Eye)
	return nil
}

func (w Weighted) MarshalJSON() ([]byte, error) {
	return json.Marshal(hoursWire{Skin: finite(w.Skin), Eye: finite(w.Eye), Warnings: w.Warnings})
}

func (w *Weighted) UnmarshalJSON(data []byte) error {
	var wire hoursWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	w.Skin, w.Eye = orInf(wire.Skin), orInf(wire.Eye)
	w.Warnings = wire.Warnings
	return nil
}

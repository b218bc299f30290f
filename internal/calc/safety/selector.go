package safety

import (
	"Illuminate/internal/calc/standards"
	"Illuminate/internal/room"

	"gonum.org/v1/gonum/floats"
)

// SelectRepresentativeLamp picks the lamp whose spectrum stands in for the
// aggregate exposure where beams overlap. It does not know which lamps light the
// exceedance point, so with mixed lamps it takes the one with the largest weighted
// spectrum. ok is false only for a room without lamps.
func (e *Engine) SelectRepresentativeLamp(r *room.Room, std standards.Standard) (lamp *room.Lamp, ok bool) {
	ids := r.LampIDs()
	if len(ids) == 0 {
		return nil, false
	}

	files := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		files[r.Lamps[id].Filename] = struct{}{}
	}
	if len(files) <= 1 {
		return r.Lamps[ids[0]], true
	}

	var best *room.Lamp
	var bestSum float64
	for _, id := range ids {
		l := r.Lamps[id]
		if !l.HasSpectra() {
			continue
		}
		sum, err := e.weightedSum(l, std)
		if err != nil {
			continue
		}
		if best == nil || sum > bestSum {
			best, bestSum = l, sum
		}
	}
	if best != nil {
		return best, true
	}
	return r.Lamps[ids[0]], true
}

func (e *Engine) weightedSum(l *room.Lamp, std standards.Standard) (float64, error) {
	if s, ok := l.Spectra[std]; ok {
		return floats.Sum(s.Values), nil
	}
	w, err := e.weighting(l, std)
	if err != nil {
		return 0, err
	}
	return floats.Dot(l.Spectra[standards.Unweighted].Values, w.Values), nil
}

package batch

import (
	"encoding/json"
	"fmt"

	"Illuminate/internal/calc/reply"
	"Illuminate/internal/calc/results"
	"Illuminate/internal/calc/safety"
	"Illuminate/internal/room"
)

// MaxRooms bounds a single batch request.
const MaxRooms = 50

type RoomBatchInput struct {
	Rooms   []json.RawMessage `json:"rooms"`
	Rounded *bool             `json:"rounded,omitempty"`
}

type RoomBatchResult struct {
	Results []results.Summary `json:"results"`
}

// SummarizeRooms fails on the first room that cannot be summarized.
func SummarizeRooms(e *safety.Engine, in RoomBatchInput) (RoomBatchResult, error) {
	if len(in.Rooms) == 0 {
		return RoomBatchResult{}, fmt.Errorf("%w: no rooms", reply.ErrBadRequest)
	}
	if len(in.Rooms) > MaxRooms {
		return RoomBatchResult{}, fmt.Errorf("%w: %d rooms, at most %d allowed", reply.ErrBadRequest, len(in.Rooms), MaxRooms)
	}
	rounded := in.Rounded == nil || *in.Rounded

	out := RoomBatchResult{Results: make([]results.Summary, 0, len(in.Rooms))}
	for i, raw := range in.Rooms {
		rm, err := room.Decode(raw)
		if err != nil {
			return RoomBatchResult{}, fmt.Errorf("room %d: %w", i, err)
		}
		sum, err := results.Summarize(e, rm, rounded)
		if err != nil {
			return RoomBatchResult{}, fmt.Errorf("room %d: %w", i, err)
		}
		out.Results = append(out.Results, sum)
	}
	return out, nil
}

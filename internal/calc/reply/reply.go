package reply

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"Illuminate/internal/calc/standards"
	"Illuminate/internal/refdata"
	"Illuminate/internal/room"

	"go.uber.org/zap"
)

// MaxBody caps calculation payloads.
const MaxBody = 8 << 20

var ErrBadRequest = errors.New("invalid request payload")

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Status maps calculation errors onto HTTP codes.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, room.ErrInvalidRoom),
		errors.Is(err, standards.ErrInvalidStandard):
		return http.StatusBadRequest
	case errors.Is(err, room.ErrMissingZoneData),
		errors.Is(err, refdata.ErrWavelengthNotTabulated):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	status := Status(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("calculation failed", zap.Error(err))
		msg = "Calculation error"
	} else {
		log.Debug("calculation rejected", zap.Int("status", status), zap.Error(err))
	}
	http.Error(w, msg, status)
}

// ReadRoom decodes and validates the room payload of a request.
func ReadRoom(w http.ResponseWriter, r *http.Request) (*room.Room, []byte, error) {
	body, err := ReadBody(w, r)
	if err != nil {
		return nil, nil, err
	}
	rm, err := room.Decode(body)
	if err != nil {
		return nil, nil, err
	}
	return rm, body, nil
}

func ReadBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBody)
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return raw, nil
}

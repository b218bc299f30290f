package history

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Illuminate/internal/auth"
	"Illuminate/internal/repo"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRuns struct {
	runs      map[int][]repo.Run
	lastLimit int
	err       error
}

func (f *fakeRuns) SaveRun(context.Context, int, string, []byte, []byte) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeRuns) ListRuns(_ context.Context, userID int, limit int) ([]repo.Run, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.runs[userID], nil
}

func (f *fakeRuns) GetRun(_ context.Context, userID int, id string) (repo.Run, error) {
	for _, run := range f.runs[userID] {
		if run.ID == id {
			return run, nil
		}
	}
	return repo.Run{}, repo.ErrNotFound
}

func newRouter(f *fakeRuns, userID int) http.Handler {
	h := &Handler{Repo: f, Log: zap.NewNop()}
	r := mux.NewRouter()
	r.HandleFunc("/history", h.List).Methods("GET")
	r.HandleFunc("/history/{id}", h.Get).Methods("GET")
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if userID != 0 {
			req = req.WithContext(auth.WithUser(req.Context(), userID, "alice"))
		}
		r.ServeHTTP(w, req)
	})
}

func fixture() *fakeRuns {
	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	return &fakeRuns{runs: map[int][]repo.Run{
		1: {
			{ID: "run-b", Kind: "summary", CreatedAt: now, Response: json.RawMessage(`{"b":1}`)},
			{ID: "run-a", Kind: "summary", CreatedAt: now.Add(-time.Hour), Response: json.RawMessage(`{"a":1}`)},
		},
	}}
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestList(t *testing.T) {
	f := fixture()
	rec := get(newRouter(f, 1), "/history?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)

	var runs []repo.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 2)
	assert.Equal(t, "run-b", runs[0].ID)
	assert.Equal(t, 5, f.lastLimit)

	assert.Equal(t, http.StatusBadRequest, get(newRouter(f, 1), "/history?limit=zero").Code)
	assert.Equal(t, http.StatusUnauthorized, get(newRouter(f, 0), "/history").Code)

	f.err = errors.New("db down")
	assert.Equal(t, http.StatusInternalServerError, get(newRouter(f, 1), "/history").Code)
}

func TestGet(t *testing.T) {
	f := fixture()
	rec := get(newRouter(f, 1), "/history/run-a")
	require.Equal(t, http.StatusOK, rec.Code)
	var run repo.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.JSONEq(t, `{"a":1}`, string(run.Response))

	assert.Equal(t, http.StatusNotFound, get(newRouter(f, 1), "/history/run-z").Code)
	assert.Equal(t, http.StatusNotFound, get(newRouter(f, 2), "/history/run-a").Code)
}

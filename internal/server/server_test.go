package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/simplebt/internal/core/bt"
	"github.com/zeusync/simplebt/internal/core/npc"
)

type fakeArena struct {
	mu     sync.Mutex
	tick   uint64
	agents []npc.AgentSnapshot
}

func (f *fakeArena) Tick() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tick
}

func (f *fakeArena) Finished() bool { return false }

func (f *fakeArena) Snapshot() []npc.AgentSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.agents
}

func (f *fakeArena) advance() {
	f.mu.Lock()
	f.tick++
	f.mu.Unlock()
}

func newFake() *fakeArena {
	return &fakeArena{
		tick: 12,
		agents: []npc.AgentSnapshot{
			{Name: "blue-0", Team: "blue", Behavior: npc.BehaviorFlock, State: bt.StateRunning},
			{Name: "red-0", Team: "red", Behavior: npc.BehaviorIdle, State: bt.StateSuccess},
		},
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	s := NewServer(DefaultServerConfig(), newFake(), nil, nil)
	rec := get(t, s.Handler(), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","tick":12,"finished":false}`, rec.Body.String())
}

func TestAgents(t *testing.T) {
	s := NewServer(DefaultServerConfig(), newFake(), nil, nil)
	rec := get(t, s.Handler(), "/agents")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "blue-0", got[0]["name"])
	assert.Equal(t, "Flock", got[0]["behavior"])
	assert.Equal(t, "Running", got[0]["state"])
}

func TestAgentByName(t *testing.T) {
	s := NewServer(DefaultServerConfig(), newFake(), nil, nil)

	rec := get(t, s.Handler(), "/agents/red-0")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"Success"`)

	rec = get(t, s.Handler(), "/agents/nobody")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsMountedOnlyWhenGiven(t *testing.T) {
	s := NewServer(DefaultServerConfig(), newFake(), nil, nil)
	assert.Equal(t, http.StatusNotFound, get(t, s.Handler(), "/metrics").Code)

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ticks_total 1\n")
	})
	s = NewServer(DefaultServerConfig(), newFake(), metrics, nil)
	rec := get(t, s.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ticks_total 1\n", rec.Body.String())
}

func TestStartStop(t *testing.T) {
	cfg := DefaultServerConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	s := NewServer(cfg, newFake(), nil, nil)

	require.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Start(context.Background()), ErrServerAlreadyRunning)

	resp, err := http.Get("http://" + s.Addr() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Stop())
	assert.Empty(t, s.Addr())
	assert.ErrorIs(t, s.Stop(), ErrServerNotRunning)
}

func TestStartRejectsEmptyAddress(t *testing.T) {
	s := NewServer(Config{}, newFake(), nil, nil)
	assert.ErrorIs(t, s.Start(context.Background()), ErrInvalidConfig)
}

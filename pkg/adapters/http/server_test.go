package http_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/stepwise"
	httpadapter "github.com/aretw0/stepwise/pkg/adapters/http"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/structure"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (*httptest.Server, *httpadapter.StreamManager) {
	t.Helper()
	streams := httpadapter.NewStreamManager(nil)
	eng, err := stepwise.New(stepwise.WithLifecycleHooks(streams.Hooks()))
	require.NoError(t, err)

	handler := httpadapter.NewHandler(eng,
		httpadapter.WithStreams(streams),
		httpadapter.WithRoutes(func(r chi.Router) {
			r.Get("/extra", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("extra")) })
		}),
	)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, streams
}

func do(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestServer_OperationLifecycle(t *testing.T) {
	srv, _ := newServer(t)
	base := srv.URL + "/sessions/s1"

	// Numeric operand accepted as a JSON number.
	resp, body := do(t, "POST", base+"/operations", `{"family":"bst","kind":"insert","operand":5}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	var tr domain.Trace
	require.NoError(t, json.Unmarshal([]byte(body), &tr))
	assert.Equal(t, domain.OutcomeInserted, tr.Outcome())

	resp, _ = do(t, "GET", base+"/pending", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = do(t, "POST", base+"/operations", `{"family":"bst","kind":"insert","operand":"6"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, body)

	resp, body = do(t, "POST", base+"/resolve", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, `"mutated":true`)

	resp, _ = do(t, "GET", base+"/pending", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = do(t, "GET", base+"/structures/bst", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var env structure.Envelope
	require.NoError(t, json.Unmarshal([]byte(body), &env))
	assert.Equal(t, structure.KindTree, env.Kind)
	require.Len(t, env.Nodes, 1)
	assert.Equal(t, 5.0, env.Nodes[0].Value)

	resp, body = do(t, "GET", base+"/structures/bst?format=mermaid", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `n0(("5"))`)

	resp, _ = do(t, "DELETE", base+"/structures/bst", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = do(t, "GET", srv.URL+"/sessions", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "s1")

	resp, _ = do(t, "DELETE", base, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestServer_ErrorMapping(t *testing.T) {
	srv, _ := newServer(t)
	base := srv.URL + "/sessions/s1"

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"invalid operand", "POST", "/operations", `{"family":"heap","kind":"insert","operand":"abc"}`, http.StatusBadRequest},
		{"missing operand", "POST", "/operations", `{"family":"heap","kind":"insert"}`, http.StatusBadRequest},
		{"unsupported kind", "POST", "/operations", `{"family":"heap","kind":"sort"}`, http.StatusBadRequest},
		{"malformed body", "POST", "/operations", `{`, http.StatusBadRequest},
		{"unknown family", "POST", "/operations", `{"family":"trie","kind":"insert","operand":"1"}`, http.StatusNotFound},
		{"unknown structure", "GET", "/structures/trie", "", http.StatusNotFound},
		{"nothing to resolve", "POST", "/resolve", "", http.StatusNotFound},
		{"nothing to abort", "POST", "/abort", "", http.StatusNotFound},
		{"stack has no diagram", "GET", "/structures/stack?format=mermaid", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, tt.method, base+tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, body)
			assert.Contains(t, body, `"error"`)
		})
	}
}

func TestServer_InfoAndFamilies(t *testing.T) {
	srv, _ := newServer(t)

	resp, body := do(t, "GET", srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "ok")

	_, body = do(t, "GET", srv.URL+"/info", "")
	assert.Contains(t, body, strings.TrimSpace(stepwise.Version))

	_, body = do(t, "GET", srv.URL+"/families", "")
	var fams []stepwise.FamilyInfo
	require.NoError(t, json.Unmarshal([]byte(body), &fams))
	assert.Len(t, fams, 7)

	_, body = do(t, "GET", srv.URL+"/extra", "")
	assert.Equal(t, "extra", body)

	resp, _ = do(t, "OPTIONS", srv.URL+"/families", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestSubscribeEvents_Session(t *testing.T) {
	srv, _ := newServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/events?session_id=s1&watch=commit", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string, 64)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	// Wait for the subscription before triggering events.
	require.Equal(t, "event: ping", <-lines)

	do(t, "POST", srv.URL+"/sessions/other/operations", `{"family":"stack","kind":"insert","operand":"1"}`)
	do(t, "POST", srv.URL+"/sessions/other/resolve", "")
	do(t, "POST", srv.URL+"/sessions/s1/operations", `{"family":"stack","kind":"insert","operand":"2"}`)
	do(t, "POST", srv.URL+"/sessions/s1/resolve", "")

	var got []string
	for line := range lines {
		if strings.HasPrefix(line, "event: ") || strings.HasPrefix(line, "data: {") {
			got = append(got, line)
		}
		if len(got) == 2 {
			cancel()
			break
		}
	}
	require.Len(t, got, 2)
	assert.Equal(t, "event: commit", got[0])
	assert.Contains(t, got[1], `"session_id":"s1"`)
	assert.Contains(t, got[1], `"mutated":true`)
}

func TestStreamManager_Unsubscribe(t *testing.T) {
	sm := httpadapter.NewStreamManager(nil)
	ch, cancel := sm.Subscribe("s1")
	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok, "channel must be closed after unsubscribe")
	sm.Broadcast("s1", httpadapter.Event{Type: domain.EventCommit, Data: "{}"})
}

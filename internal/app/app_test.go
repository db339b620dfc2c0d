package app

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pxp/n8nctl/internal/client"
)

const (
	testAPIKey     = "test-api-key"
	testWorkflowID = "AAfZJ6kwGjP9Vt6G"
	demoBody       = `{"name": "Demo", "nodes": [{"id":"1","name":"Start","type":"n8n-nodes-base.start"}], "connections": {}}`
)

// n8nServer serves one workflow and records what it receives.
type n8nServer struct {
	*httptest.Server
	mu       sync.Mutex
	doc      []byte
	requests []string
}

func newN8nServer(t *testing.T, doc string) *n8nServer {
	t.Helper()
	s := &n8nServer{doc: []byte(doc)}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)

		if r.URL.Path == "/healthz" {
			_, _ = io.WriteString(w, `{"status":"ok"}`)
			return
		}
		if r.Header.Get(client.APIKeyHeader) != testAPIKey {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"unauthorized"}`)
			return
		}
		if r.URL.Path != "/api/v1/workflows/"+testWorkflowID {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"Not Found"}`)
			return
		}
		if r.Method == http.MethodPut {
			s.doc, _ = io.ReadAll(r.Body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(s.doc)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *n8nServer) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *n8nServer) stored() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.doc)
}

// isolate keeps the host's config file and environment out of a test.
func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range []string{"N8N_URL", "N8N_API_KEY", "N8N_WORKFLOW_ID", "N8N_INPUT_FILE", "N8N_TIMEOUT", "N8NCTL_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv("N8NCTL_CONFIG", path)
	return path
}

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, a *App, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := a.Execute(context.Background(), args, &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func testApp(stdin string, interactive bool) *App {
	a := New()
	a.stdin = strings.NewReader(stdin)
	a.interactive = func(io.Reader, io.Writer) bool { return interactive }
	return a
}

func TestGet(t *testing.T) {
	isolate(t)
	srv := newN8nServer(t, demoBody)

	res := run(t, testApp("", false), "get", "--url", srv.URL, "--api-key", testAPIKey, "--workflow", testWorkflowID)
	require.Equal(t, 0, res.code, res.stderr)

	assert.Contains(t, res.stdout, "Workflow: Demo\n")
	assert.Contains(t, res.stdout, "Nodes (1)\n  1. Start  n8n-nodes-base.start  id=1\n")
	assert.Contains(t, res.stdout, "Full workflow JSON")
	assert.Equal(t, []string{"GET /api/v1/workflows/" + testWorkflowID}, srv.calls())
}

func TestGet_FromEnvironment(t *testing.T) {
	isolate(t)
	srv := newN8nServer(t, demoBody)
	t.Setenv("N8N_URL", srv.URL)
	t.Setenv("N8N_API_KEY", testAPIKey)
	t.Setenv("N8N_WORKFLOW_ID", testWorkflowID)

	res := run(t, testApp("", false), "get", "--json")
	require.Equal(t, 0, res.code, res.stderr)
	assert.JSONEq(t, demoBody, res.stdout)
}

func TestGet_FlagsOverrideEnvironment(t *testing.T) {
	isolate(t)
	srv := newN8nServer(t, demoBody)
	t.Setenv("N8N_URL", "http://127.0.0.1:1")
	t.Setenv("N8N_API_KEY", "wrong")
	t.Setenv("N8N_WORKFLOW_ID", testWorkflowID)

	res := run(t, testApp("", false), "get", "--brief", "-u", srv.URL, "-k", testAPIKey)
	require.Equal(t, 0, res.code, res.stderr)
	assert.NotContains(t, res.stdout, "Full workflow JSON")
}

func TestGet_HTTPStatus(t *testing.T) {
	isolate(t)
	srv := newN8nServer(t, demoBody)

	res := run(t, testApp("", false), "get", "--url", srv.URL, "--api-key", testAPIKey, "--workflow", "missing")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "status: 404")
	assert.Contains(t, res.stderr, `body: {"message":"Not Found"}`)

	res = run(t, testApp("", false), "get", "--url", srv.URL, "--api-key", "bad", "--workflow", testWorkflowID)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "status: 401")
	assert.Contains(t, res.stderr, "hint: check the API key")
}

func TestGet_MissingConfiguration(t *testing.T) {
	isolate(t)

	res := run(t, testApp("", false), "get")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "base URL is required")
	assert.Contains(t, res.stderr, "workflow ID is required")
}

func TestGet_InvalidTimeout(t *testing.T) {
	isolate(t)

	res := run(t, testApp("", false), "get", "--timeout", "soon")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "invalid --timeout")
}

func TestRoundTrip_GetThenUpdate(t *testing.T) {
	isolate(t)
	original := `{"id":"AAfZJ6kwGjP9Vt6G","name":"Demo","nodes":[{"id":"1","name":"Start","type":"n8n-nodes-base.start","typeVersion":1,"position":[250,300]}],"connections":{},"settings":{"executionOrder":"v1"}}`
	srv := newN8nServer(t, original)
	file := filepath.Join(t.TempDir(), "modified_workflow.json")
	common := []string{"--url", srv.URL, "--api-key", testAPIKey, "--workflow", testWorkflowID}

	res := run(t, testApp("", false), append([]string{"get", "--brief", "--output", file}, common...)...)
	require.Equal(t, 0, res.code, res.stderr)

	res = run(t, testApp("", false), append([]string{"update", "--yes", "--file", file}, common...)...)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Successfully updated workflow "+testWorkflowID)

	assert.JSONEq(t, original, srv.stored())
}

func TestUpdate_MissingFile(t *testing.T) {
	isolate(t)
	srv := newN8nServer(t, demoBody)
	t.Setenv("N8N_INPUT_FILE", filepath.Join(t.TempDir(), "absent.json"))

	res := run(t, testApp("", false), "update", "--yes", "--url", srv.URL, "--api-key", testAPIKey, "--workflow", testWorkflowID)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "not found or unreadable")
	assert.Empty(t, srv.calls())
}

func TestUpdate_MalformedFile(t *testing.T) {
	isolate(t)
	srv := newN8nServer(t, demoBody)
	file := filepath.Join(t.TempDir(), "modified_workflow.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"name": }`), 0644))

	res := run(t, testApp("", false), "update", "-y", "-f", file, "--url", srv.URL, "--api-key", testAPIKey, "--workflow", testWorkflowID)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "decode")
	assert.Empty(t, srv.calls())
}

func TestUpdate_Interactive(t *testing.T) {
	isolate(t)
	srv := newN8nServer(t, `{}`)
	file := filepath.Join(t.TempDir(), "modified_workflow.json")
	require.NoError(t, os.WriteFile(file, []byte(demoBody), 0644))
	args := []string{"update", "-f", file, "--url", srv.URL, "--api-key", testAPIKey, "--workflow", testWorkflowID}

	res := run(t, testApp("n", true), args...)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "update cancelled")
	assert.Empty(t, srv.calls())

	res = run(t, testApp("y", true), args...)
	require.Equal(t, 0, res.code, res.stderr)
	assert.JSONEq(t, demoBody, srv.stored())
}

func TestVerify(t *testing.T) {
	isolate(t)

	res := run(t, testApp("", false), "verify")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "ok      net/http")
	assert.Contains(t, res.stdout, "Success")

	res = run(t, testApp("", false), "verify", "example.com/not/linked")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, "missing example.com/not/linked")
	assert.Contains(t, res.stderr, "not available: example.com/not/linked")

	res = run(t, testApp("", false), "verify", "--min-go", "999.0")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "older than the required 999.0")
}

func TestVerify_Server(t *testing.T) {
	isolate(t)
	srv := newN8nServer(t, demoBody)

	res := run(t, testApp("", false), "verify", "--server", "--url", srv.URL)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "is reachable")
	assert.Equal(t, []string{"GET /healthz"}, srv.calls())

	res = run(t, testApp("", false), "verify", "--server")
	assert.Equal(t, 1, res.code)
}

func TestConfig_ShowAndSave(t *testing.T) {
	path := isolate(t)
	t.Setenv("N8N_API_KEY", "abcdef123456")

	res := run(t, testApp("", false), "config", "show", "--url", "http://localhost:5679", "--workflow", testWorkflowID)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "url:       http://localhost:5679\n")
	assert.Contains(t, res.stdout, "api key:   ********3456\n")
	assert.NotContains(t, res.stdout, "abcdef")

	res = run(t, testApp("", false), "config", "save", "--url", "http://localhost:5679", "--workflow", testWorkflowID, "--timeout", "45s")
	require.Equal(t, 0, res.code, res.stderr)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"workflow_id": "AAfZJ6kwGjP9Vt6G"`)
	assert.Contains(t, string(data), `"timeout": "45s"`)
	assert.NotContains(t, string(data), "abcdef123456")

	// The saved file now supplies the target.
	t.Setenv("N8N_API_KEY", "")
	res = run(t, testApp("", false), "config", "show")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "workflow:  "+testWorkflowID)
	assert.Contains(t, res.stdout, "timeout:   45s\n")
	assert.Contains(t, res.stdout, "api key:   (not set)")
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "(not set)", maskKey(""))
	assert.Equal(t, "***", maskKey("abc"))
	assert.Equal(t, "**cdef", maskKey("abcdef"))
}

func TestTerminalWidth_NotATerminal(t *testing.T) {
	assert.Zero(t, terminalWidth(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.Zero(t, terminalWidth(f))
}

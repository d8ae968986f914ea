package testkit

import (
	"bytes"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	souqhttp "github.com/shashiranjanraj/souqhup/pkg/http"
)

// Run loads the scenario in path and runs it as a subtest.
func Run(t *testing.T, handler http.Handler, path string) {
	t.Helper()

	s, err := LoadScenario(path)
	require.NoError(t, err)
	t.Run(s.Name, func(t *testing.T) { RunScenario(t, handler, s) })
}

// RunDir runs every scenario in dir as a subtest. Scenario files that do
// not parse fail the test without stopping the others.
func RunDir(t *testing.T, handler http.Handler, dir string) {
	t.Helper()

	scenarios, err := LoadDir(dir)
	assert.NoError(t, err)
	require.NotEmpty(t, scenarios, "testkit: nothing to run in %q", dir)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) { RunScenario(t, handler, s) })
	}
}

// RunScenario serves handler on a loopback listener and plays the steps of
// s through one cookie jar. Outgoing pkg/http calls hit the scenario's
// mocks until it returns. Redirects are not followed.
func RunScenario(t *testing.T, handler http.Handler, s *Scenario) {
	t.Helper()

	srv := httptest.NewServer(handler)
	defer srv.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar:           jar,
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}

	mt := NewMockTransport(s)
	souqhttp.DefaultClient.Transport = mt
	defer souqhttp.ResetTransport()

	for i, st := range s.Steps {
		if !runStep(t, client, srv.URL, s, st) {
			t.Logf("[%s] stopped at step %d (%s)", s.Name, i, st.Name)
			break
		}
	}

	for _, err := range mt.Unused() {
		assert.NoError(t, err, "[%s]", s.Name)
	}
	if s.RequireMocks {
		assert.Empty(t, mt.Misses(), "[%s] unmocked outgoing calls", s.Name)
	}
}

// runStep reports false once the step's status is wrong, since later steps
// usually depend on it.
func runStep(t *testing.T, client *http.Client, base string, s *Scenario, st Step) bool {
	t.Helper()

	raw, err := s.RequestBody(st)
	require.NoError(t, err, "[%s] %s: request body", s.Name, st.Name)

	var body io.Reader
	if raw != nil {
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(st.Method, base+st.URL, body)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/json")
	if raw != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range st.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	require.NoError(t, err, "[%s] %s", s.Name, st.Name)
	defer resp.Body.Close()
	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if !AssertStatusCode(t, s.Name, st, resp.StatusCode, got) {
		return false
	}
	AssertHeaders(t, s.Name, st, resp.Header)
	if len(st.Expect) > 0 {
		AssertPaths(t, s.Name, st, got)
	}

	expected, err := s.ExpectedBody(st)
	require.NoError(t, err, "[%s] %s: response file", s.Name, st.Name)
	if expected != nil {
		assert.JSONEq(t, string(expected), string(got), "[%s] %s: response body", s.Name, st.Name)
	}
	return true
}

package testkit

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// MockTransport is an http.RoundTripper that answers from the mocks of a
// scenario. Install it on the pkg/http client for the scenario's run:
//
//	mt := testkit.NewMockTransport(s)
//	souqhttp.DefaultClient.Transport = mt
//	defer souqhttp.ResetTransport()
type MockTransport struct {
	mu      sync.Mutex
	entries []mockEntry
	require bool
	misses  []string
}

type mockEntry struct {
	step  MockStep
	calls int
}

func NewMockTransport(s *Scenario) *MockTransport {
	mt := &MockTransport{require: s.RequireMocks}
	for _, m := range s.Mocks {
		mt.entries = append(mt.entries, mockEntry{step: m})
	}
	return mt
}

// RoundTrip answers req with the first matching mock.
func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		_, _ = io.Copy(io.Discard, req.Body)
		req.Body.Close()
	}

	mt.mu.Lock()
	defer mt.mu.Unlock()

	for i := range mt.entries {
		e := &mt.entries[i]
		if !e.step.matches(req) {
			continue
		}
		e.calls++
		return e.step.response(req), nil
	}

	mt.misses = append(mt.misses, req.Method+" "+req.URL.String())
	if mt.require {
		return nil, fmt.Errorf("testkit: no mock for %s %s", req.Method, req.URL)
	}
	return &http.Response{
		StatusCode: http.StatusNotFound,
		Status:     "404 Not Found",
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(`{"error":"no mock configured"}`)),
		Request:    req,
	}, nil
}

// Calls returns how often the mock at index i answered.
func (mt *MockTransport) Calls(i int) int {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if i < 0 || i >= len(mt.entries) {
		return 0
	}
	return mt.entries[i].calls
}

// Unused lists the non-optional mocks that never answered.
func (mt *MockTransport) Unused() []error {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var errs []error
	for i, e := range mt.entries {
		if e.calls == 0 && !e.step.Optional {
			errs = append(errs, fmt.Errorf("testkit: mock[%d] (matchUrl=%q) was never called", i, e.step.MatchURL))
		}
	}
	return errs
}

// Misses lists the outgoing calls no mock matched.
func (mt *MockTransport) Misses() []string {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	return append([]string(nil), mt.misses...)
}

func (m MockStep) matches(req *http.Request) bool {
	if m.Method != "" && !strings.EqualFold(m.Method, req.Method) {
		return false
	}
	return m.MatchURL == "" || strings.HasPrefix(req.URL.String(), m.MatchURL)
}

func (m MockStep) response(req *http.Request) *http.Response {
	code := m.Status
	if code == 0 {
		code = http.StatusOK
	}

	body := []byte(m.Text)
	ct := m.ContentType
	if len(m.Body) > 0 {
		body = m.Body
		if ct == "" {
			ct = "application/json"
		}
	}
	if ct == "" {
		ct = "text/plain"
	}

	return &http.Response{
		StatusCode:    code,
		Status:        fmt.Sprintf("%d %s", code, http.StatusText(code)),
		Header:        http.Header{"Content-Type": []string{ct}},
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}

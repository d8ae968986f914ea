// Package testkit drives gateway tests from JSON scenario files.
//
// A scenario is one browser session: its steps run in order against the
// same handler and share the device cookie the first response sets.
// Outgoing calls made through pkg/http (the generative AI endpoint, remote
// media) are answered by the scenario's mocks instead of the network.
//
//	testdata/
//	  like_post.json         scenario
//	  publish_req.json       request body referenced by a step
//	  stats_res.json         expected response body referenced by a step
//
//	func TestScenarios(t *testing.T) {
//	    testkit.RunDir(t, kernel.Handler(), "testdata")
//	}
package testkit

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scenario is a named sequence of requests made by one device.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	Steps []Step `json:"steps"`

	// Mocks answer outgoing HTTP calls in definition order.
	Mocks []MockStep `json:"mocks"`
	// RequireMocks fails any outgoing call no mock matches.
	RequireMocks bool `json:"requireMocks"`

	dir string
}

// Step is one request and what its response must look like.
type Step struct {
	Name    string            `json:"name"`
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`

	// Body is sent as is. BodyFile, relative to the scenario, wins when set.
	Body     json.RawMessage `json:"body"`
	BodyFile string          `json:"bodyFile"`

	ExpectedCode int `json:"expectedCode"`
	// Expect maps dotted paths into the JSON response to their values,
	// e.g. "data.role": "MERCHANT" or "data.liked.0": "1".
	Expect map[string]any `json:"expect"`
	// ExpectHeaders compares response headers by prefix.
	ExpectHeaders map[string]string `json:"expectHeaders"`
	// ResponseFile holds the whole expected JSON body.
	ResponseFile string `json:"responseFile"`
}

// MockStep answers outgoing calls whose URL starts with MatchURL. An empty
// MatchURL matches every call.
type MockStep struct {
	MatchURL    string          `json:"matchUrl"`
	Method      string          `json:"method"`
	Status      int             `json:"status"`
	ContentType string          `json:"contentType"`
	Body        json.RawMessage `json:"body"`
	// Text is sent verbatim when Body is empty.
	Text string `json:"text"`
	// Optional marks a mock the scenario may or may not trigger.
	Optional bool `json:"optional"`
}

// LoadScenario reads and checks the scenario in path.
func LoadScenario(path string) (*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve %q: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", abs, err)
	}

	s.dir = filepath.Dir(abs)
	return &s, nil
}

// LoadDir loads every *.json file in dir that holds a scenario. Files
// only referenced by steps are skipped.
func LoadDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}

	var (
		out  []*Scenario
		errs []error
	)
	for _, p := range paths {
		if isFragment(p) {
			continue
		}
		s, err := LoadScenario(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 && len(errs) == 0 {
		return nil, fmt.Errorf("testkit: no scenario files in %q", dir)
	}
	return out, errors.Join(errs...)
}

func isFragment(path string) bool {
	base := strings.TrimSuffix(filepath.Base(path), ".json")
	return strings.HasSuffix(base, "_req") || strings.HasSuffix(base, "_res")
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if len(s.Steps) == 0 {
		return errors.New("at least one step is required")
	}
	for i := range s.Steps {
		st := &s.Steps[i]
		if st.URL == "" {
			return fmt.Errorf("steps[%d].url is required", i)
		}
		if st.ExpectedCode == 0 {
			return fmt.Errorf("steps[%d].expectedCode is required", i)
		}
		if st.Method == "" {
			st.Method = "GET"
		}
		st.Method = strings.ToUpper(st.Method)
		if st.Name == "" {
			st.Name = st.Method + " " + st.URL
		}
	}
	return nil
}

// resolve makes name relative to the scenario file.
func (s *Scenario) resolve(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// RequestBody returns the body of step, read from its BodyFile if set.
func (s *Scenario) RequestBody(st Step) ([]byte, error) {
	if st.BodyFile != "" {
		return os.ReadFile(s.resolve(st.BodyFile))
	}
	if len(st.Body) == 0 {
		return nil, nil
	}
	return st.Body, nil
}

// ExpectedBody returns the contents of the step's ResponseFile, or nil.
func (s *Scenario) ExpectedBody(st Step) ([]byte, error) {
	if st.ResponseFile == "" {
		return nil, nil
	}
	return os.ReadFile(s.resolve(st.ResponseFile))
}

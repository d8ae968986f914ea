package testkit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertStatusCode checks the response code and shows the body on mismatch.
func AssertStatusCode(t *testing.T, scenario string, st Step, got int, body []byte) bool {
	t.Helper()
	return assert.Equal(t, st.ExpectedCode, got, "[%s] %s: status code\nbody: %s", scenario, st.Name, truncate(body))
}

// AssertHeaders checks that every expected header starts with its value.
func AssertHeaders(t *testing.T, scenario string, st Step, h http.Header) {
	t.Helper()
	for k, want := range st.ExpectHeaders {
		got := h.Get(k)
		assert.True(t, strings.HasPrefix(got, want), "[%s] %s: header %s = %q, want prefix %q", scenario, st.Name, k, got, want)
	}
}

// AssertPaths checks every dotted path of st.Expect against body.
func AssertPaths(t *testing.T, scenario string, st Step, body []byte) {
	t.Helper()

	var doc any
	if !assert.NoError(t, json.Unmarshal(body, &doc), "[%s] %s: response is not JSON\nbody: %s", scenario, st.Name, truncate(body)) {
		return
	}
	for path, want := range st.Expect {
		got, err := Lookup(doc, path)
		if !assert.NoError(t, err, "[%s] %s", scenario, st.Name) {
			continue
		}
		assert.Equal(t, want, got, "[%s] %s: %s", scenario, st.Name, path)
	}
}

// Lookup walks a decoded JSON document along a dotted path. Array elements
// are addressed by index and a trailing "#" yields the length of an array
// or object.
func Lookup(doc any, path string) (any, error) {
	cur := doc
	walked := "root"
	for _, key := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			if key == "#" {
				return float64(len(node)), nil
			}
			v, ok := node[key]
			if !ok {
				return nil, fmt.Errorf("testkit: %s has no key %q", walked, key)
			}
			cur = v
		case []any:
			if key == "#" {
				return float64(len(node)), nil
			}
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("testkit: %s has no element %q", walked, key)
			}
			cur = node[i]
		default:
			return nil, fmt.Errorf("testkit: %s is not a container", walked)
		}
		walked += "." + key
	}
	return cur, nil
}

func truncate(b []byte) string {
	if len(b) > 512 {
		return string(b[:512]) + "..."
	}
	return string(b)
}

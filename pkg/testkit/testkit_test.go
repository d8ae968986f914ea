package testkit_test

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	souqhttp "github.com/shashiranjanraj/souqhup/pkg/http"
	"github.com/shashiranjanraj/souqhup/pkg/testkit"
)

// fixtureHandler remembers devices by cookie and prices a sku by asking an
// upstream service through pkg/http.
func fixtureHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/whoami", func(w http.ResponseWriter, r *http.Request) {
		device := "known"
		if _, err := r.Cookie("device"); err != nil {
			device = "new"
			http.SetCookie(w, &http.Cookie{Name: "device", Value: "d-1", Path: "/"})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"device": device})
	})
	mux.HandleFunc("/quote", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			SKU string `json:"sku"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)

		resp, err := souqhttp.Get("https://upstream.test/quote?sku=" + in.SKU).WithContext(r.Context()).Send()
		if err != nil || resp.Throw() != nil {
			http.Error(w, "upstream", http.StatusBadGateway)
			return
		}
		var quote struct {
			Price string `json:"price"`
		}
		_ = resp.JSON(&quote)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"sku": in.SKU, "price": quote.Price})
	})
	return mux
}

func TestRunDir(t *testing.T) {
	testkit.RunDir(t, fixtureHandler(), "testdata")
}

func TestLoadDirSkipsBodyFragments(t *testing.T) {
	scenarios, err := testkit.LoadDir("testdata")
	require.NoError(t, err)
	assert.Len(t, scenarios, 2)
	for _, s := range scenarios {
		for _, st := range s.Steps {
			assert.NotEmpty(t, st.Method)
			assert.NotEmpty(t, st.Name)
		}
	}
}

func TestLoadScenarioRejectsMissingCode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"bad","steps":[{"url":"/x"}]}`), 0o644))

	_, err := testkit.LoadScenario(path)
	assert.ErrorContains(t, err, "expectedCode")
}

func TestLookup(t *testing.T) {
	var doc any
	require.NoError(t, json.Unmarshal([]byte(`{"data":{"liked":["1","2"],"role":"ADMIN"}}`), &doc))

	v, err := testkit.Lookup(doc, "data.liked.1")
	require.NoError(t, err)
	assert.Equal(t, "2", v)

	v, err = testkit.Lookup(doc, "data.liked.#")
	require.NoError(t, err)
	assert.Equal(t, float64(2), v)

	_, err = testkit.Lookup(doc, "data.role.name")
	assert.Error(t, err)
}

func TestUnmatchedCallGets404UnlessRequired(t *testing.T) {
	s := &testkit.Scenario{Name: "loose"}
	mt := testkit.NewMockTransport(s)

	req, err := http.NewRequest(http.MethodGet, "https://elsewhere.test/", nil)
	require.NoError(t, err)
	resp, err := mt.RoundTrip(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, []string{"GET https://elsewhere.test/"}, mt.Misses())

	strict := testkit.NewMockTransport(&testkit.Scenario{Name: "strict", RequireMocks: true})
	_, err = strict.RoundTrip(req)
	assert.Error(t, err)
}

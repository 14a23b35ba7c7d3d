package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/deptree/config"
	"github.com/katalvlaran/deptree/decoder"
	"github.com/katalvlaran/deptree/features"
	"github.com/katalvlaran/deptree/relations"
	"github.com/katalvlaran/deptree/sentence"
	"github.com/katalvlaran/deptree/server"
)

type arcGen struct{}

func (arcGen) Preview(*sentence.Instance) {}

func (arcGen) LabeledEdgeFeatures(h, d int, _ *sentence.Instance, label string) features.Sparse {
	return features.Sparse{fmt.Sprintf("%d>%d:%s", h, d, label): 1}
}

func (arcGen) CombinedEdgeFeatures(h, d int, _ *sentence.Instance, _ string) features.Sparse {
	return features.Sparse{fmt.Sprintf("%d>%d", h, d): 1}
}

func newServer(t *testing.T, maxTokens int) *server.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dict := relations.New()
	require.NoError(t, dict.Record(sentence.RootPOS, "VBD", "ROOT"))
	require.NoError(t, dict.Record("VBD", "NNP", "SBJ"))
	require.NoError(t, dict.Record("VBD", "NNS", "OBJ"))
	dict.Freeze()

	conf := config.Default("unused.gob")
	conf.Workers = 2
	conf.Server.MaxSentenceTokens = maxTokens
	dec := decoder.New(dict, arcGen{}, decoder.WithLogger(zerolog.Nop()))
	w := features.WeightVector{"0>2": 5, "2>1": 5, "2>3": 5}

	return server.New(conf, dict, dec, w)
}

func post(t *testing.T, s *server.Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	return rec
}

func TestParse(t *testing.T) {
	s := newServer(t, 10)
	body, err := json.Marshal(map[string]any{"tokens": []map[string]string{
		{"form": "John", "pos": "NNP"},
		{"form": "ate", "pos": "VBD", "lemma": "eat"},
		{"form": "apples", "pos": "NNS", "chunk": "B-NP"},
	}})
	require.NoError(t, err)

	rec := post(t, s, string(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var ans server.ParseResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&ans))
	assert.NotEmpty(t, ans.RequestID)
	assert.Equal(t, 2, ans.Root)
	assert.Equal(t, []server.ParsedToken{
		{ID: 1, Form: "John", POS: "NNP", Head: 2, Relation: "SBJ"},
		{ID: 2, Form: "ate", POS: "VBD", Head: 0, Relation: "ROOT"},
		{ID: 3, Form: "apples", POS: "NNS", Head: 2, Relation: "OBJ"},
	}, ans.Tokens)
}

func TestParseRejects(t *testing.T) {
	s := newServer(t, 2)
	cases := map[string]struct {
		body string
		code int
	}{
		"malformed json": {`{"tokens": [`, http.StatusBadRequest},
		"empty sentence": {`{"tokens": []}`, http.StatusBadRequest},
		"missing pos":    {`{"tokens": [{"form": "a"}]}`, http.StatusBadRequest},
		"too long":       {`{"tokens": [{"form":"a","pos":"X"},{"form":"b","pos":"X"},{"form":"c","pos":"X"}]}`, http.StatusRequestEntityTooLarge},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, c.code, post(t, s, c.body).Code)
		})
	}
}

func TestHealth(t *testing.T) {
	s := newServer(t, 10)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var ans server.HealthResponse
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&ans))
	assert.True(t, ans.OK)
	assert.Equal(t, 3, ans.DictionaryKeys)
	assert.Equal(t, decoder.Greedy, ans.Strategy)
	assert.Equal(t, 2, ans.Workers)
}

func TestParseConcurrent(t *testing.T) {
	s := newServer(t, 10)
	body := `{"tokens":[{"form":"John","pos":"NNP"},{"form":"ate","pos":"VBD"},{"form":"apples","pos":"NNS"}]}`
	done := make(chan int, 16)
	for i := 0; i < cap(done); i++ {
		go func() {
			req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(body))
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)
			done <- rec.Code
		}()
	}
	for i := 0; i < cap(done); i++ {
		assert.Equal(t, http.StatusOK, <-done)
	}
}

// Package server exposes the decoder over HTTP.
//
//	POST /parse   {"tokens":[{"form":..,"pos":..,"lemma":..,"chunk":..,"cluster":..}]}
//	GET  /health
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/katalvlaran/deptree/config"
	"github.com/katalvlaran/deptree/decoder"
	"github.com/katalvlaran/deptree/features"
	"github.com/katalvlaran/deptree/relations"
	"github.com/katalvlaran/deptree/sentence"
)

// ErrTooLong indicates a sentence above the configured token limit.
var ErrTooLong = errors.New("server: sentence too long")

// Server decodes sentences with a fixed pool of decoder clones, so at most
// len(pool) sentences are decoded at the same time.
type Server struct {
	conf    *config.Conf
	dict    *relations.Dictionary
	weights features.Weights
	pool    chan *decoder.Decoder
	root    string
	engine  *gin.Engine
	server  *http.Server
}

// New builds the routes. dec is cloned conf.Workers times (at least once).
func New(conf *config.Conf, dict *relations.Dictionary, dec *decoder.Decoder, w features.Weights) *Server {
	size := max(conf.Workers, 1)
	s := &Server{
		conf:    conf,
		dict:    dict,
		weights: w,
		pool:    make(chan *decoder.Decoder, size),
		root:    dec.Strategy().Name(),
	}
	for i := 0; i < size; i++ {
		s.pool <- dec.Clone()
	}

	if !conf.IsDebugMode() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logging.GinMiddleware())
	engine.Use(uniresp.AlwaysJSONContentType())
	engine.NoMethod(uniresp.NoMethodHandler)
	engine.NoRoute(uniresp.NotFoundHandler)

	engine.POST("/parse", s.Parse)
	engine.GET("/health", s.Health)
	s.engine = engine

	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.engine }

// Start listens in the background until Stop.
func (s *Server) Start(ctx context.Context) {
	srv := s.conf.Server
	log.Info().Msgf("starting to listen at %s:%d", srv.ListenAddress, srv.ListenPort)
	s.server = &http.Server{
		Handler:      s.engine,
		Addr:         fmt.Sprintf("%s:%d", srv.ListenAddress, srv.ListenPort),
		ReadTimeout:  time.Duration(srv.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(srv.WriteTimeoutSecs) * time.Second,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()
}

// Stop shuts the listener down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	log.Warn().Msg("shutting down deptree HTTP server")
	if s.server == nil {
		return nil
	}

	return s.server.Shutdown(ctx)
}

type token struct {
	Form    string `json:"form"`
	Lemma   string `json:"lemma,omitempty"`
	POS     string `json:"pos"`
	Cluster string `json:"cluster,omitempty"`
	Chunk   string `json:"chunk,omitempty"`
}

type parseRequest struct {
	Tokens []token `json:"tokens"`
}

// document adapts a request to sentence.Document; lemma defaults to the
// form and chunk/cluster to sentence.Empty, POS is mandatory.
type document []token

func (d document) Tokens() []string {
	out := make([]string, len(d))
	for i, t := range d {
		out[i] = t.Form
	}
	return out
}

func (d document) Lemma(i int) (string, bool) {
	if d[i].Lemma == "" {
		return d[i].Form, true
	}
	return d[i].Lemma, true
}

func (d document) POS(i int) (string, bool) { return d[i].POS, d[i].POS != "" }

func (d document) Chunk(i int) (string, bool) { return orEmpty(d[i].Chunk), true }

func (d document) Cluster(i int) (string, bool) { return orEmpty(d[i].Cluster), true }

func orEmpty(v string) string {
	if v == "" {
		return sentence.Empty
	}
	return v
}

// ParsedToken is one output row.
type ParsedToken struct {
	ID       int    `json:"id"`
	Form     string `json:"form"`
	POS      string `json:"pos"`
	Head     int    `json:"head"`
	Relation string `json:"relation"`
}

// ParseResponse is the body of a successful POST /parse.
type ParseResponse struct {
	RequestID string        `json:"requestId"`
	Root      int           `json:"root"`
	Tokens    []ParsedToken `json:"tokens"`
}

// Parse decodes one sentence.
func (s *Server) Parse(ctx *gin.Context) {
	var req parseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusBadRequest)
		return
	}
	if limit := s.conf.Server.MaxSentenceTokens; limit > 0 && len(req.Tokens) > limit {
		uniresp.RespondWithErrorJSON(
			ctx, fmt.Errorf("%w: %d tokens, limit %d", ErrTooLong, len(req.Tokens), limit),
			http.StatusRequestEntityTooLarge,
		)
		return
	}
	inst, err := sentence.NewFromDocument(document(req.Tokens))
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusBadRequest)
		return
	}

	var dec *decoder.Decoder
	select {
	case dec = <-s.pool:
	case <-ctx.Request.Context().Done():
		uniresp.RespondWithErrorJSON(ctx, ctx.Request.Context().Err(), http.StatusServiceUnavailable)
		return
	}
	out, err := dec.Decode(inst, s.weights, nil)
	s.pool <- dec
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}

	id := uuid.New().String()
	logging.AddLogEvent(ctx, "requestId", id)
	logging.AddLogEvent(ctx, "tokens", inst.Len())
	ans := ParseResponse{RequestID: id, Root: out.Root(), Tokens: make([]ParsedToken, inst.Len())}
	for i := 1; i <= inst.Len(); i++ {
		ans.Tokens[i-1] = ParsedToken{
			ID:       i,
			Form:     inst.Form(i),
			POS:      inst.POS(i),
			Head:     out.Head(i),
			Relation: out.Relation(i),
		}
	}
	uniresp.WriteJSONResponse(ctx.Writer, ans)
}

// HealthResponse reports what the server decodes with.
type HealthResponse struct {
	OK             bool   `json:"ok"`
	DictionaryKeys int    `json:"dictionaryKeys"`
	Strategy       string `json:"strategy"`
	Workers        int    `json:"workers"`
}

// Health answers liveness probes.
func (s *Server) Health(ctx *gin.Context) {
	uniresp.WriteJSONResponse(ctx.Writer, HealthResponse{
		OK:             true,
		DictionaryKeys: s.dict.Len(),
		Strategy:       s.root,
		Workers:        cap(s.pool),
	})
}

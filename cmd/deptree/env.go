package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/google/uuid"
	"github.com/gosuri/uiprogress"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/katalvlaran/deptree/config"
	"github.com/katalvlaran/deptree/corpus"
	"github.com/katalvlaran/deptree/decoder"
	"github.com/katalvlaran/deptree/features"
	"github.com/katalvlaran/deptree/relations"
)

const uiKey = "ui"

// env is what every command needs: the validated configuration, the output
// streams and a run-scoped logger.
type env struct {
	conf     *config.Conf
	ui       UI
	progress bool
	runID    string
}

// loadEnv resolves the global flags over the optional configuration file.
func loadEnv(c *cli.Context) (*env, error) {
	ui := c.App.Metadata[uiKey].(UI)
	var conf *config.Conf
	if path := c.String("config"); path != "" {
		var err error
		if conf, err = config.LoadConfig(path); err != nil {
			return nil, err
		}
	} else {
		conf = &config.Conf{}
	}
	if v := c.String("dict"); v != "" {
		conf.Dictionary = config.DictionaryConf{Backend: config.BackendFile, Path: v}
	}
	if v := c.String("weights"); v != "" {
		conf.WeightsPath = v
	}
	if v := c.String("root"); v != "" {
		conf.RootStrategy = v
	}
	if c.IsSet("workers") {
		conf.Workers = c.Int("workers")
	}
	if v := c.String("log-level"); v != "" {
		conf.LogLevel = logging.LogLevel(v)
	}
	if err := setupLogging(conf, ui.Err); err != nil {
		return nil, err
	}
	if err := config.ValidateAndDefaults(conf); err != nil {
		return nil, err
	}

	e := &env{conf: conf, ui: ui, progress: !c.Bool("no-progress"), runID: uuid.New().String()}
	log.Logger = log.Logger.With().Str("runId", e.runID).Logger()

	return e, nil
}

// setupLogging configures the global zerolog logger: a console writer on
// errOut, or JSON lines appended to conf.LogFile.
func setupLogging(conf *config.Conf, errOut io.Writer) error {
	lvl := zerolog.InfoLevel
	if conf.LogLevel != "" {
		var err error
		if lvl, err = zerolog.ParseLevel(string(conf.LogLevel)); err != nil {
			return fmt.Errorf("%w: log level %q", config.ErrInvalidConf, conf.LogLevel)
		}
	}
	zerolog.SetGlobalLevel(lvl)
	if conf.LogFile == "" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: errOut}).With().Timestamp().Logger()
		return nil
	}
	f, err := os.OpenFile(conf.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger()

	return nil
}

// bar renders a uiprogress bar of n steps unless progress is disabled.
// The returned step function is safe for concurrent use.
func (e *env) bar(n int) (step corpus.Progress, stop func()) {
	if !e.progress || n == 0 {
		return nil, func() {}
	}
	p := uiprogress.New()
	p.SetOut(e.ui.Err)
	p.Start()
	b := p.AddBar(n)
	b.AppendCompleted()
	b.PrependElapsed()

	return func() { b.Incr() }, p.Stop
}

// loadDictionary opens the configured store and loads the frozen dictionary.
// A missing dictionary is fatal.
func (e *env) loadDictionary(ctx context.Context) (*relations.Dictionary, error) {
	store, release, err := e.conf.OpenStore(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	dict, err := relations.Load(ctx, store)
	if errors.Is(err, relations.ErrDictionaryMissing) {
		return nil, fmt.Errorf("%w (run build-dict first)", err)
	}

	return dict, err
}

func (e *env) loadWeights() (features.WeightVector, error) {
	if e.conf.WeightsPath == "" {
		return nil, fmt.Errorf("%w: weights path not specified", config.ErrInvalidConf)
	}

	return features.LoadWeights(e.conf.WeightsPath)
}

// decoderFor builds the decoder the batch commands and the server share.
func (e *env) decoderFor(dict *relations.Dictionary) *decoder.Decoder {
	return decoder.New(
		dict,
		features.Templates{},
		decoder.WithRootStrategy(e.conf.Strategy()),
		decoder.WithLogger(log.Logger),
	)
}

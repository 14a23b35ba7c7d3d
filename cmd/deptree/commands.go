package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/katalvlaran/deptree/corpus"
	"github.com/katalvlaran/deptree/relations"
	"github.com/katalvlaran/deptree/sentence"
	"github.com/katalvlaran/deptree/server"
)

const shutdownTimeout = 10 * time.Second

var errNoInput = errors.New("input file not specified")

func readInput(c *cli.Context) ([]*sentence.Instance, error) {
	path := c.Args().First()
	if path == "" {
		return nil, fmt.Errorf("%s: %w", c.Command.Name, errNoInput)
	}

	return corpus.ReadFile(path)
}

func buildDictAction(c *cli.Context) error {
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	insts, err := readInput(c)
	if err != nil {
		return err
	}

	dict := relations.New()
	step, stop := e.bar(len(insts))
	err = corpus.BuildDictionary(c.Context, insts, dict, e.conf.Workers, step)
	stop()
	if err != nil {
		return err
	}
	dict.Freeze()

	store, release, err := e.conf.OpenStore(c.Context)
	if err != nil {
		return err
	}
	defer release()
	if err := relations.Save(c.Context, dict, store); err != nil {
		return err
	}
	log.Info().
		Int("sentences", len(insts)).
		Int("keys", dict.Len()).
		Msg("relation dictionary built")
	fmt.Fprintf(e.ui.Out, "recorded %d POS pairs from %d sentences into %s\n", dict.Len(), len(insts), store)

	return nil
}

func parseAction(c *cli.Context) error {
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	dict, err := e.loadDictionary(c.Context)
	if err != nil {
		return err
	}
	w, err := e.loadWeights()
	if err != nil {
		return err
	}
	insts, err := readInput(c)
	if err != nil {
		return err
	}

	step, stop := e.bar(len(insts))
	trees, err := corpus.DecodeAll(c.Context, e.decoderFor(dict), insts, w, e.conf.Workers, step)
	stop()
	if err != nil {
		return err
	}
	log.Info().Int("sentences", len(insts)).Str("strategy", e.conf.RootStrategy).Msg("corpus decoded")

	return corpus.WriteCoNLL(e.ui.Out, insts, trees)
}

func evalAction(c *cli.Context) error {
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	dict, err := e.loadDictionary(c.Context)
	if err != nil {
		return err
	}
	w, err := e.loadWeights()
	if err != nil {
		return err
	}
	insts, err := readInput(c)
	if err != nil {
		return err
	}

	step, stop := e.bar(len(insts))
	counts, _, err := corpus.Evaluate(c.Context, e.decoderFor(dict), insts, w, e.conf.Workers, step)
	stop()
	if err != nil {
		return err
	}
	log.Info().
		Float64("uas", counts.UAS()).
		Float64("las", counts.LAS()).
		Float64("loss", counts.Loss()).
		Msg("evaluation finished")
	fmt.Fprintf(e.ui.Out, "sentences\t%d\ntokens\t%d\nUAS\t%.4f\nLAS\t%.4f\nexact\t%d\nloss\t%.0f\n",
		counts.Sentence, counts.Tokens, counts.UAS(), counts.LAS(), counts.Exact, counts.Loss())

	return nil
}

func serveAction(c *cli.Context) error {
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dict, err := e.loadDictionary(ctx)
	if err != nil {
		return err
	}
	w, err := e.loadWeights()
	if err != nil {
		return err
	}
	srv := server.New(e.conf, dict, e.decoderFor(dict), w)
	srv.Start(ctx)
	<-ctx.Done()
	log.Warn().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("graceful shutdown completed")

	return nil
}

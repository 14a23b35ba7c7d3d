// Package corpus runs whole-corpus passes in parallel: building the
// relation dictionary from gold trees, batch decoding and evaluation.
//
// Every pass fans sentences out to a bounded set of workers and checks the
// context between sentences only; a sentence that started decoding is
// always finished.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/deptree/decoder"
	"github.com/katalvlaran/deptree/features"
	"github.com/katalvlaran/deptree/loss"
	"github.com/katalvlaran/deptree/relations"
	"github.com/katalvlaran/deptree/sentence"
	"github.com/katalvlaran/deptree/structure"
)

// ErrNoGold indicates a training or evaluation sentence without a gold tree.
var ErrNoGold = errors.New("corpus: sentence has no gold tree")

// Progress is called once per finished sentence, from worker goroutines.
type Progress func()

// ReadFile loads every sentence of a CoNLL-X file.
func ReadFile(path string) ([]*sentence.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	insts, err := sentence.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("corpus: %s: %w", path, err)
	}
	log.Debug().Str("file", path).Int("sentences", len(insts)).Msg("corpus read")

	return insts, nil
}

func limit(workers int) int {
	if workers <= 0 {
		return runtime.NumCPU()
	}

	return workers
}

// BuildDictionary records every gold arc of insts into dict. All workers
// share dict; it is not frozen here.
func BuildDictionary(ctx context.Context, insts []*sentence.Instance, dict *relations.Dictionary, workers int, done Progress) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit(workers))
	for i, inst := range insts {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			gold, err := structure.FromGold(inst)
			if err != nil {
				return fmt.Errorf("%w: sentence %d: %w", ErrNoGold, i, err)
			}
			if err := dict.ObserveGold(inst, gold); err != nil {
				return fmt.Errorf("corpus: sentence %d: %w", i, err)
			}
			if done != nil {
				done()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return ctx.Err()
}

// DecodeAll decodes insts with up to workers clones of dec. The result is
// parallel to insts.
func DecodeAll(ctx context.Context, dec *decoder.Decoder, insts []*sentence.Instance, w features.Weights, workers int, done Progress) ([]*structure.Structure, error) {
	out := make([]*structure.Structure, len(insts))
	err := each(ctx, dec, len(insts), workers, func(d *decoder.Decoder, i int) error {
		s, err := d.Decode(insts[i], w, nil)
		if err != nil {
			return fmt.Errorf("corpus: sentence %d: %w", i, err)
		}
		out[i] = s
		if done != nil {
			done()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Evaluate decodes insts and compares each result with its gold tree.
func Evaluate(ctx context.Context, dec *decoder.Decoder, insts []*sentence.Instance, w features.Weights, workers int, done Progress) (loss.Counts, []*structure.Structure, error) {
	golds := make([]*structure.Structure, len(insts))
	for i, inst := range insts {
		gold, err := structure.FromGold(inst)
		if err != nil {
			return loss.Counts{}, nil, fmt.Errorf("%w: sentence %d: %w", ErrNoGold, i, err)
		}
		golds[i] = gold
	}
	pred, err := DecodeAll(ctx, dec, insts, w, workers, done)
	if err != nil {
		return loss.Counts{}, nil, err
	}

	var total loss.Counts
	for i := range insts {
		c, err := loss.Attachment(golds[i], pred[i])
		if err != nil {
			return loss.Counts{}, nil, err
		}
		total.Add(c)
	}
	log.Debug().
		Int("sentences", total.Sentence).
		Float64("uas", total.UAS()).
		Float64("las", total.LAS()).
		Msg("corpus evaluated")

	return total, pred, nil
}

// each starts one goroutine per worker, each with its own decoder clone,
// and hands out indices 0..n-1.
func each(ctx context.Context, dec *decoder.Decoder, n, workers int, fn func(*decoder.Decoder, int) error) error {
	workers = min(limit(workers), n)
	jobs := make(chan int)
	g, ctx := errgroup.WithContext(ctx)
	for k := 0; k < workers; k++ {
		d := dec.Clone()
		g.Go(func() error {
			for i := range jobs {
				if err := fn(d, i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	return g.Wait()
}

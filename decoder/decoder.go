// Package decoder builds the per-sentence arc score matrix, selects a label
// for every candidate arc, optionally adds the Hamming loss term against a
// gold tree, and extracts the best labeled dependency tree.
package decoder

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/katalvlaran/deptree/features"
	"github.com/katalvlaran/deptree/loss"
	"github.com/katalvlaran/deptree/matrix"
	"github.com/katalvlaran/deptree/relations"
	"github.com/katalvlaran/deptree/scorer"
	"github.com/katalvlaran/deptree/sentence"
	"github.com/katalvlaran/deptree/structure"
)

var (
	// ErrNilWeights indicates Decode was called without a weight vector.
	ErrNilWeights = errors.New("decoder: nil weights")

	// ErrGoldMismatch indicates the gold tree covers a different number of tokens.
	ErrGoldMismatch = errors.New("decoder: gold structure does not match sentence")

	// ErrUnknownStrategy indicates an unsupported root strategy name.
	ErrUnknownStrategy = errors.New("decoder: unknown root strategy")
)

// Decoder is the arborescence decoder. A Decoder is safe for concurrent use
// only when its generator is stateless; otherwise give every worker a Clone.
type Decoder struct {
	scorer *scorer.Scorer
	root   RootStrategy
	logger zerolog.Logger
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithRootStrategy replaces the default GreedyRoot.
func WithRootStrategy(rs RootStrategy) Option {
	return func(d *Decoder) {
		if rs != nil {
			d.root = rs
		}
	}
}

// WithLogger sets the logger used for per-sentence debug records.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Decoder) {
		d.logger = l
	}
}

// New returns a decoder reading label candidates from dict and features from gen.
func New(dict *relations.Dictionary, gen features.Generator, opts ...Option) *Decoder {
	d := &Decoder{
		scorer: scorer.New(dict, gen),
		root:   GreedyRoot{},
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Clone returns a decoder for another worker. The dictionary is shared;
// the generator is cloned when it implements features.Cloner; label
// statistics start from zero.
func (d *Decoder) Clone() *Decoder {
	gen := d.scorer.Generator()
	if c, ok := gen.(features.Cloner); ok {
		gen = c.Clone()
	}

	return &Decoder{
		scorer: scorer.New(d.scorer.Dictionary(), gen),
		root:   d.root,
		logger: d.logger,
	}
}

// Strategy returns the root strategy in use.
func (d *Decoder) Strategy() RootStrategy { return d.root }

// Stats returns the label selection counters of this decoder.
func (d *Decoder) Stats() scorer.Stats { return d.scorer.Stats() }

// Decode returns the best labeled tree for inst under w. When gold is non-nil
// every arc that disagrees with gold in head or label gets +loss.ArcLoss
// before the tree is extracted (loss-augmented decoding).
//
// The returned structure always passes Validate: exactly one token is
// attached to the virtual root, and that token is labeled structure.Root.
func (d *Decoder) Decode(inst *sentence.Instance, w features.Weights, gold *structure.Structure) (*structure.Structure, error) {
	scores, labels, err := d.ScoreMatrix(inst, w, gold)
	if err != nil {
		return nil, err
	}
	sol, err := d.root.Solve(scores)
	if err != nil {
		return nil, fmt.Errorf("decoder: %s: %w", d.root.Name(), err)
	}

	n := inst.Len()
	out := structure.New(n)
	heads := make([]int, n+1)
	copy(heads, sol.Heads)
	heads[0] = structure.Unset
	if err := out.SetHeads(heads); err != nil {
		return nil, fmt.Errorf("decoder: %w", err)
	}
	for t := 1; t <= n; t++ {
		rel := structure.Root
		if t != sol.Root {
			if rel, err = labels.At(heads[t], t); err != nil {
				return nil, fmt.Errorf("decoder: %w", err)
			}
		}
		if err := out.SetRelation(t, rel); err != nil {
			return nil, fmt.Errorf("decoder: %w", err)
		}
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("decoder: %w", err)
	}

	d.logger.Debug().
		Int("tokens", n).
		Int("root", sol.Root).
		Str("strategy", d.root.Name()).
		Float64("score", sol.Score).
		Bool("lossAugmented", gold != nil).
		Msg("sentence decoded")

	return out, nil
}

// ScoreMatrix previews the generator and fills the (n+1)×(n+1) score and
// label matrices. Column 0 stays -Inf; the diagonal stays -Inf. With a gold
// tree the Hamming cost of every arc is added in place.
func (d *Decoder) ScoreMatrix(inst *sentence.Instance, w features.Weights, gold *structure.Structure) (*matrix.Dense, *matrix.Labels, error) {
	if err := d.check(inst, w, gold); err != nil {
		return nil, nil, err
	}
	size := inst.Size()
	scores, err := matrix.NewFilled(size, size, math.Inf(-1))
	if err != nil {
		return nil, nil, err
	}
	labels, err := matrix.NewLabels(size, size)
	if err != nil {
		return nil, nil, err
	}

	d.scorer.Generator().Preview(inst)
	for h := 0; h < size; h++ {
		for dep := 1; dep < size; dep++ {
			if h == dep {
				continue
			}
			label := d.scorer.SelectLabel(h, dep, inst, w)
			if err := scores.Set(h, dep, d.scorer.ScoreArc(h, dep, label, inst, w)); err != nil {
				return nil, nil, fmt.Errorf("decoder: arc %d→%d: %w", h, dep, err)
			}
			if gold != nil {
				if err := scores.Add(h, dep, loss.ArcCost(gold, dep, h, label)); err != nil {
					return nil, nil, fmt.Errorf("decoder: arc %d→%d: %w", h, dep, err)
				}
			}
			if err := labels.Set(h, dep, label); err != nil {
				return nil, nil, err
			}
		}
	}

	return scores, labels, nil
}

// Score returns the arc-factored score of s under w: the sum over tokens of
// w · CombinedEdgeFeatures(head, token, relation).
func (d *Decoder) Score(inst *sentence.Instance, w features.Weights, s *structure.Structure) (float64, error) {
	if err := d.check(inst, w, s); err != nil {
		return 0, err
	}
	d.scorer.Generator().Preview(inst)
	var total float64
	for t := 1; t <= inst.Len(); t++ {
		h := s.Head(t)
		if h == structure.Unset {
			return 0, fmt.Errorf("decoder: %w: token %d has no head", structure.ErrNotTree, t)
		}
		total += d.scorer.ScoreArc(h, t, s.Relation(t), inst, w)
	}

	return total, nil
}

func (d *Decoder) check(inst *sentence.Instance, w features.Weights, s *structure.Structure) error {
	if inst == nil || inst.Len() == 0 {
		return sentence.ErrEmptySentence
	}
	if w == nil {
		return ErrNilWeights
	}
	if s != nil && s.Len() != inst.Len() {
		return fmt.Errorf("%w: %d tokens vs %d", ErrGoldMismatch, s.Len(), inst.Len())
	}

	return nil
}

// Package scorer picks a relation label for a candidate arc and scores the
// labeled arc against a weight vector.
package scorer

import (
	"math"
	"sync/atomic"

	"github.com/katalvlaran/deptree/features"
	"github.com/katalvlaran/deptree/relations"
	"github.com/katalvlaran/deptree/sentence"
)

// Stats counts how SelectLabel resolved its calls.
type Stats struct {
	Shortcut    int64 // exactly one dictionary candidate
	Punctuation int64 // unseen key containing '.'
	Catalogue   int64 // unseen key, full catalogue scored
	Scored      int64 // several dictionary candidates scored
}

// Scorer is safe for concurrent use as long as the dictionary is and the
// generator's edge methods are.
type Scorer struct {
	dict *relations.Dictionary
	gen  features.Generator

	shortcut, punct, catalogue, scored atomic.Int64
}

// New returns a Scorer reading candidates from dict and features from gen.
func New(dict *relations.Dictionary, gen features.Generator) *Scorer {
	return &Scorer{dict: dict, gen: gen}
}

// Dictionary returns the shared dictionary.
func (s *Scorer) Dictionary() *relations.Dictionary { return s.dict }

// Generator returns the feature generator.
func (s *Scorer) Generator() features.Generator { return s.gen }

// Source tells where a candidate label set came from.
type Source int

const (
	FromDictionary Source = iota
	FromPunctuation
	FromCatalogue
)

// Candidates returns the label set SelectLabel chooses from for (head, dep).
func (s *Scorer) Candidates(head, dep int, inst *sentence.Instance) ([]string, Source) {
	hp, dp := inst.POS(head), inst.POS(dep)
	if c := s.dict.Candidates(hp, dp); len(c) > 0 {
		return c, FromDictionary
	}
	if (relations.Key{Head: hp, Dep: dp}).Punctuation() {
		return []string{relations.Punct}, FromPunctuation
	}

	return relations.Catalogue, FromCatalogue
}

// SelectLabel returns the best label for the arc head→dep.
//
// A single dictionary candidate is returned without scoring. An unseen POS
// pair whose key contains '.' yields relations.Punct, also unscored. Any
// other set is scored with LabeledEdgeFeatures and the first maximum in
// candidate order wins.
func (s *Scorer) SelectLabel(head, dep int, inst *sentence.Instance, w features.Weights) string {
	labels, src := s.Candidates(head, dep, inst)
	switch {
	case src == FromPunctuation:
		s.punct.Add(1)
		return labels[0]
	case len(labels) == 1:
		s.shortcut.Add(1)
		return labels[0]
	case src == FromCatalogue:
		s.catalogue.Add(1)
	default:
		s.scored.Add(1)
	}

	best, bestScore := labels[0], math.Inf(-1)
	for _, l := range labels {
		if v := w.Dot(s.gen.LabeledEdgeFeatures(head, dep, inst, l)); v > bestScore {
			best, bestScore = l, v
		}
	}

	return best
}

// ScoreArc returns w · CombinedEdgeFeatures(head, dep, label).
func (s *Scorer) ScoreArc(head, dep int, label string, inst *sentence.Instance, w features.Weights) float64 {
	return w.Dot(s.gen.CombinedEdgeFeatures(head, dep, inst, label))
}

// Stats returns a snapshot of the counters.
func (s *Scorer) Stats() Stats {
	return Stats{
		Shortcut:    s.shortcut.Load(),
		Punctuation: s.punct.Load(),
		Catalogue:   s.catalogue.Load(),
		Scored:      s.scored.Load(),
	}
}

// Total is the number of SelectLabel calls counted.
func (st Stats) Total() int64 {
	return st.Shortcut + st.Punctuation + st.Catalogue + st.Scored
}

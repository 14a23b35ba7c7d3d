package features

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"

	"github.com/katalvlaran/deptree/sentence"
)

// ErrWeightsMissing indicates the weight file does not exist.
var ErrWeightsMissing = errors.New("features: weight file not found")

// Sparse is a sparse feature vector keyed by feature name.
type Sparse map[string]float64

// Inc adds 1 to feature key.
func (v Sparse) Inc(key string) { v[key]++ }

// AddAll adds every entry of other into v and returns v.
func (v Sparse) AddAll(other Sparse) Sparse {
	for k, val := range other {
		v[k] += val
	}

	return v
}

// Weights is anything that scores a sparse vector.
type Weights interface {
	Dot(v Sparse) float64
}

// Generator produces labeled-edge feature vectors for one sentence.
// Preview must be called once per sentence before the edge methods.
type Generator interface {
	Preview(inst *sentence.Instance)
	LabeledEdgeFeatures(head, dep int, inst *sentence.Instance, label string) Sparse
	CombinedEdgeFeatures(head, dep int, inst *sentence.Instance, label string) Sparse
}

// Cloner is implemented by generators that cache per-sentence state.
// Decoder clones call it so parallel workers never share that cache.
type Cloner interface {
	Clone() Generator
}

// WeightVector is a map-backed weight vector; absent features weigh 0.
type WeightVector map[string]float64

var _ Weights = WeightVector(nil)

// Dot returns Σ w[k]·v[k] over the keys of v.
func (w WeightVector) Dot(v Sparse) float64 {
	var result float64
	for k, val := range v {
		result += w[k] * val
	}

	return result
}

// Save writes the vector as a gob blob.
func (w WeightVector) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("features: save weights: %w", err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(map[string]float64(w)); err != nil {
		return fmt.Errorf("features: encode weights: %w", err)
	}

	return f.Close()
}

// LoadWeights reads a vector written by Save.
func LoadWeights(path string) (WeightVector, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrWeightsMissing, path)
	}
	if err != nil {
		return nil, fmt.Errorf("features: load weights: %w", err)
	}
	defer f.Close()
	w := make(map[string]float64)
	if err := gob.NewDecoder(f).Decode(&w); err != nil {
		return nil, fmt.Errorf("features: decode weights %s: %w", path, err)
	}

	return WeightVector(w), nil
}

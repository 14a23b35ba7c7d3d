// Package arborescence defines sentinel errors and solver options.
package arborescence

import (
	"errors"

	"github.com/katalvlaran/deptree/matrix"
)

// ErrNilMatrix indicates that a nil matrix was passed in.
var ErrNilMatrix = errors.New("arborescence: nil matrix")

// ErrNonSquare indicates that the weight matrix is not V×V.
var ErrNonSquare = errors.New("arborescence: weight matrix must be square")

// ErrInvalidRoot indicates the requested root is outside the vertex range.
var ErrInvalidRoot = errors.New("arborescence: root out of range")

// ErrUnreachable indicates that some vertex cannot be given a finite incoming
// arc, so the graph has no spanning arborescence rooted at the requested root.
var ErrUnreachable = errors.New("arborescence: vertex has no finite incoming arc")

// ErrInfiniteWeight indicates a +Inf arc weight. Cycle contraction subtracts
// weights, and +Inf - +Inf has no value.
var ErrInfiniteWeight = errors.New("arborescence: +Inf arc weight")

// NoParent is the parent value reported for the root.
const NoParent = -1

// MethodChuLiuEdmonds selects the recursive contraction algorithm.
const MethodChuLiuEdmonds = "chu-liu-edmonds"

// Options configures Compute.
//
// Fields:
//
//	Method string: currently only MethodChuLiuEdmonds.
//	Root   int: the vertex every other vertex must be reachable from.
type Options struct {
	Method string
	Root   int
}

// Option configures Options.
type Option func(*Options)

// WithMethod sets the algorithm Method.
func WithMethod(m string) Option {
	return func(opts *Options) {
		opts.Method = m
	}
}

// WithRoot sets the arborescence root.
func WithRoot(root int) Option {
	return func(opts *Options) {
		opts.Root = root
	}
}

// DefaultOptions returns Chu–Liu/Edmonds rooted at vertex 0.
func DefaultOptions() Options {
	return Options{Method: MethodChuLiuEdmonds, Root: 0}
}

// Compute applies opts over DefaultOptions and dispatches to the selected method.
// An unknown method name yields ErrInvalidMethod.
func Compute(m matrix.Matrix, opts ...Option) ([]int, float64, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	switch o.Method {
	case MethodChuLiuEdmonds:
		return Maximum(m, o.Root)
	default:
		return nil, 0, ErrInvalidMethod
	}
}

// ErrInvalidMethod indicates an unknown Options.Method.
var ErrInvalidMethod = errors.New("arborescence: unknown method")

package wfc

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/blytheSchen/SketchTiler-sub000/internal/queue"
)

// Heuristic names a built-in cell selection strategy
type Heuristic string

const (
	HeuristicEntropy Heuristic = "entropy"
	HeuristicLexical Heuristic = "lexical"
)

// ParseHeuristic maps a configuration string to a Heuristic
func ParseHeuristic(s string) (Heuristic, error) {
	switch h := Heuristic(s); h {
	case HeuristicEntropy, HeuristicLexical:
		return h, nil
	case "":
		return HeuristicEntropy, nil
	default:
		return "", fmt.Errorf("%w: unknown heuristic %q", ErrOptionViolation, s)
	}
}

// Option configures a Model or Solver
type Option func(*options)

type options struct {
	seed            int64
	newCellSelector func() CellSelector
	newPattern      func() PatternSelector
	newQueue        queue.Factory
	observer        Observer
	err             error
}

func defaultOptions() options {
	return options{
		newCellSelector: func() CellSelector { return NewEntropySelector() },
		newPattern:      func() PatternSelector { return NewWeightedSelector() },
		newQueue:        queue.RingFactory,
		observer:        NopObserver{},
	}
}

func applyOptions(opts []Option) (options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.seed == 0 {
		o.seed = time.Now().UnixNano()
	}
	return o, o.err
}

// WithSeed fixes the random seed. A zero seed draws one from the clock
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithHeuristic selects a built-in cell selection strategy
func WithHeuristic(h Heuristic) Option {
	return func(o *options) {
		switch h {
		case HeuristicEntropy:
			o.newCellSelector = func() CellSelector { return NewEntropySelector() }
		case HeuristicLexical:
			o.newCellSelector = func() CellSelector { return NewLexicalSelector() }
		default:
			o.err = fmt.Errorf("%w: unknown heuristic %q", ErrOptionViolation, string(h))
		}
	}
}

// WithCellSelector installs a custom cell selector. fn is called once per solver
func WithCellSelector(fn func() CellSelector) Option {
	return func(o *options) {
		if fn != nil {
			o.newCellSelector = fn
		}
	}
}

// WithPatternSelector installs a custom pattern selector. fn is called once per solver
func WithPatternSelector(fn func() PatternSelector) Option {
	return func(o *options) {
		if fn != nil {
			o.newPattern = fn
		}
	}
}

// WithQueue replaces the propagation queue implementation
func WithQueue(f queue.Factory) Option {
	return func(o *options) {
		if f != nil {
			o.newQueue = f
		}
	}
}

// WithObserver attaches progress callbacks
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// deriveSeed mixes a parent seed and a stream id into an independent seed (SplitMix64 finalizer)
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

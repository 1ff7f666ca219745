// Package pairing builds giver to receiver mappings in which nobody draws
// themselves.
package pairing

import (
	"math/rand/v2"

	"github.com/dmitrijs2005/chrima/internal/common"
)

// DefaultMaxAttempts bounds the rejection-sampling loop in Derange.
const DefaultMaxAttempts = 64

// ShuffleFunc permutes n elements using swap, like rand.Shuffle.
type ShuffleFunc func(n int, swap func(i, j int))

// Pair is one giver and the receiver they were drawn.
type Pair struct {
	GiverID    string
	ReceiverID string
}

// Engine produces derangements over a set of user IDs.
type Engine struct {
	shuffle     ShuffleFunc
	maxAttempts int
}

// Option configures an Engine.
type Option func(*Engine)

// WithShuffle replaces the random permutation source.
func WithShuffle(fn ShuffleFunc) Option {
	return func(e *Engine) { e.shuffle = fn }
}

// WithMaxAttempts sets how many shuffles are tried before falling back to a
// rotation. Values below 1 keep the default.
func WithMaxAttempts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{shuffle: rand.Shuffle, maxAttempts: DefaultMaxAttempts}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Derange pairs every giver in ids with a distinct receiver from ids such
// that no giver receives themselves. Givers keep the order of ids.
func (e *Engine) Derange(ids []string) ([]Pair, error) {
	n := len(ids)
	if n < common.MinParticipants {
		return nil, common.ErrInsufficientParticipants
	}

	receivers := make([]string, n)
	copy(receivers, ids)
	swap := func(i, j int) { receivers[i], receivers[j] = receivers[j], receivers[i] }

	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		e.shuffle(n, swap)
		if noFixedPoints(ids, receivers) {
			return zip(ids, receivers), nil
		}
	}

	return rotate(ids, e.shuffle), nil
}

// rotate shuffles ids once and hands each element to its successor, which
// is a single cycle of length n and so never maps an element to itself.
func rotate(ids []string, shuffle ShuffleFunc) []Pair {
	order := make([]string, len(ids))
	copy(order, ids)
	shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	next := make(map[string]string, len(order))
	for i, id := range order {
		next[id] = order[(i+1)%len(order)]
	}

	pairs := make([]Pair, len(ids))
	for i, id := range ids {
		pairs[i] = Pair{GiverID: id, ReceiverID: next[id]}
	}
	return pairs
}

func noFixedPoints(givers, receivers []string) bool {
	for i := range givers {
		if givers[i] == receivers[i] {
			return false
		}
	}
	return true
}

func zip(givers, receivers []string) []Pair {
	pairs := make([]Pair, len(givers))
	for i := range givers {
		pairs[i] = Pair{GiverID: givers[i], ReceiverID: receivers[i]}
	}
	return pairs
}

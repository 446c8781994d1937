// Package workload generates the per-worker operation streams applied to the
// shared set.
//
// Each worker gets an exact number of Member, Insert and Delete operations,
// derived from the case fractions and the worker count. The kinds are laid
// out grouped, shuffled once with a Fisher-Yates pass, and the target key for
// every slot is drawn only when the slot is consumed. Every worker owns its
// random source.
package workload

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// DefaultKeySpace is the exclusive upper bound of generated keys (2^16).
const DefaultKeySpace = 65536

// fractionTolerance bounds the allowed drift of the fraction sum from 1.0.
const fractionTolerance = 1e-9

// floorEpsilon keeps products such as 0.005*10000/4 from truncating one
// below their exact value because of binary rounding.
const floorEpsilon = 1e-9

// Kind identifies an operation on the set.
type Kind uint8

const (
	// Member tests membership.
	Member Kind = iota
	// Insert adds a key.
	Insert
	// Delete removes a key.
	Delete
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Member:
		return "member"
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Op is one operation request.
type Op struct {
	Kind Kind
	Key  int
}

// Spec describes one benchmark case: the operation mix and the total number
// of operations shared by all workers.
type Spec struct {
	MemberFraction float64 `json:"memberFraction" yaml:"memberFraction"`
	InsertFraction float64 `json:"insertFraction" yaml:"insertFraction"`
	DeleteFraction float64 `json:"deleteFraction" yaml:"deleteFraction"`
	TotalOps       int     `json:"totalOps" yaml:"totalOps"`
}

// Validate checks the fractions and operation count.
func (s Spec) Validate() error {
	if s.TotalOps <= 0 {
		return fmt.Errorf("totalOps must be > 0, got %d", s.TotalOps)
	}
	fractions := []struct {
		name  string
		value float64
	}{
		{"memberFraction", s.MemberFraction},
		{"insertFraction", s.InsertFraction},
		{"deleteFraction", s.DeleteFraction},
	}
	for _, f := range fractions {
		if f.value < 0 || f.value > 1 || math.IsNaN(f.value) {
			return fmt.Errorf("%s must be within [0, 1], got %v", f.name, f.value)
		}
	}
	sum := s.MemberFraction + s.InsertFraction + s.DeleteFraction
	if math.Abs(sum-1.0) > fractionTolerance {
		return fmt.Errorf("fractions must sum to 1.0, got %v", sum)
	}
	return nil
}

// Counts is the exact number of operations of each kind.
type Counts struct {
	Member int `json:"member" yaml:"member"`
	Insert int `json:"insert" yaml:"insert"`
	Delete int `json:"delete" yaml:"delete"`
}

// Total returns the number of operations.
func (c Counts) Total() int {
	return c.Member + c.Insert + c.Delete
}

// PerWorker returns the counts assigned to each of threads workers:
// floor(fraction*TotalOps/threads) for every kind.
func (s Spec) PerWorker(threads int) Counts {
	if threads <= 0 {
		threads = 1
	}
	share := func(f float64) int {
		return int(math.Floor(f*float64(s.TotalOps)/float64(threads) + floorEpsilon))
	}
	return Counts{
		Member: share(s.MemberFraction),
		Insert: share(s.InsertFraction),
		Delete: share(s.DeleteFraction),
	}
}

// Plan lays out c's kinds grouped (members, inserts, deletes) and shuffles
// them in place with a Fisher-Yates pass driven by rng.
func Plan(c Counts, rng *rand.Rand) []Kind {
	kinds := make([]Kind, 0, c.Total())
	for i := 0; i < c.Member; i++ {
		kinds = append(kinds, Member)
	}
	for i := 0; i < c.Insert; i++ {
		kinds = append(kinds, Insert)
	}
	for i := 0; i < c.Delete; i++ {
		kinds = append(kinds, Delete)
	}

	for i := len(kinds) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		kinds[i], kinds[j] = kinds[j], kinds[i]
	}
	return kinds
}

// NewSeed returns a wall-clock base seed.
func NewSeed() int64 {
	return time.Now().UnixNano()
}

// SeedFor derives worker's seed from base. Distinct workers get distinct
// seeds for the same base.
func SeedFor(base int64, worker int) int64 {
	const golden = 0x9E3779B97F4A7C15
	return base ^ int64(uint64(worker+1)*golden)
}

// Generator produces one Stream per worker.
type Generator struct {
	Spec     Spec
	Threads  int
	KeySpace int
	BaseSeed int64
}

// NewGenerator creates a generator for threads workers. A keySpace of 0
// selects DefaultKeySpace.
func NewGenerator(spec Spec, threads, keySpace int, baseSeed int64) *Generator {
	if threads <= 0 {
		threads = 1
	}
	if keySpace <= 0 {
		keySpace = DefaultKeySpace
	}
	return &Generator{
		Spec:     spec,
		Threads:  threads,
		KeySpace: keySpace,
		BaseSeed: baseSeed,
	}
}

// Stream builds worker's operation stream.
func (g *Generator) Stream(worker int) *Stream {
	rng := rand.New(rand.NewSource(SeedFor(g.BaseSeed, worker)))
	counts := g.Spec.PerWorker(g.Threads)
	return &Stream{
		plan:     Plan(counts, rng),
		counts:   counts,
		rng:      rng,
		keySpace: g.KeySpace,
	}
}

// Stream yields a worker's operations in plan order. It is owned by one
// goroutine and must not be shared.
type Stream struct {
	plan     []Kind
	counts   Counts
	pos      int
	rng      *rand.Rand
	keySpace int
}

// Next returns the next operation, drawing its key uniformly from
// [0, KeySpace). It returns false once the plan is exhausted.
func (s *Stream) Next() (Op, bool) {
	if s.pos >= len(s.plan) {
		return Op{}, false
	}
	kind := s.plan[s.pos]
	s.pos++
	return Op{Kind: kind, Key: s.rng.Intn(s.keySpace)}, true
}

// Len returns the plan length.
func (s *Stream) Len() int {
	return len(s.plan)
}

// Counts returns the per-kind counts the plan was built from.
func (s *Stream) Counts() Counts {
	return s.counts
}

// Kinds returns a copy of the shuffled plan.
func (s *Stream) Kinds() []Kind {
	out := make([]Kind, len(s.plan))
	copy(out, s.plan)
	return out
}

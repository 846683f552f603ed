package prediction

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/rs/zerolog"

	"github.com/aristath/fortune-lab/internal/domain"
	"github.com/aristath/fortune-lab/internal/modules/frequency"
	"github.com/aristath/fortune-lab/pkg/formulas"
)

// DefaultAttemptFactor bounds the rejection-sampling loop: a request for
// top_n candidates gets top_n * factor attempts before giving up.
const DefaultAttemptFactor = 100

// Breakdown describes the shape of one predicted combination
type Breakdown struct {
	EvenOdd          string `json:"even_odd"`
	HighLow          string `json:"high_low"`
	Sum              int    `json:"sum"`
	ConsecutivePairs int    `json:"consecutive_pairs"`
}

// Candidate is one scored prediction
type Candidate struct {
	Numbers   []int     `json:"numbers"`
	Score     float64   `json:"score"`
	Breakdown Breakdown `json:"analysis"`
}

// Strategy supplies candidate combinations and scores them. Each prediction
// algorithm is one Strategy; the generator owns everything the algorithms
// share (dedup, clamping, ranking, the attempt budget).
type Strategy interface {
	Name() string

	// Sample draws one candidate set of k numbers. ok is false when the
	// pool could not supply k distinct numbers; that attempt is discarded.
	Sample(rng *rand.Rand) (numbers []int, ok bool)

	// Score rates a combination. The generator clamps the result to [0,100].
	Score(numbers []int) float64
}

// Generator runs the shared rejection-sampling loop. The random source is
// injected so runs are reproducible under test.
type Generator struct {
	game domain.GameConfig
	rng  *rand.Rand
	log  zerolog.Logger
}

// NewGenerator creates a generator for one game
func NewGenerator(game domain.GameConfig, rng *rand.Rand, log zerolog.Logger) *Generator {
	return &Generator{
		game: game,
		rng:  rng,
		log:  log.With().Str("component", "generator").Logger(),
	}
}

// Generate produces up to topN distinct candidates ranked by descending
// score. The loop is bounded by maxAttempts; running out of attempts yields
// a short list, not an error. Ties keep discovery order.
func (g *Generator) Generate(s Strategy, topN, maxAttempts int) []Candidate {
	if maxAttempts <= 0 {
		maxAttempts = topN * DefaultAttemptFactor
	}

	seen := make(map[string]bool)
	var accepted []Candidate

	attempts := 0
	for len(accepted) < topN && attempts < maxAttempts {
		attempts++

		numbers, ok := s.Sample(g.rng)
		if !ok || len(numbers) != g.game.NumbersToPick {
			continue
		}

		sort.Ints(numbers)
		key := comboKey(numbers)
		if seen[key] {
			continue
		}
		seen[key] = true

		accepted = append(accepted, Candidate{
			Numbers:   numbers,
			Score:     formulas.Clamp(s.Score(numbers), 0, 100),
			Breakdown: g.breakdown(numbers),
		})
	}

	if len(accepted) < topN {
		g.log.Debug().
			Str("strategy", s.Name()).
			Int("requested", topN).
			Int("produced", len(accepted)).
			Int("attempts", attempts).
			Msg("Attempt budget exhausted before filling prediction list")
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].Score > accepted[j].Score
	})
	return accepted
}

func (g *Generator) breakdown(numbers []int) Breakdown {
	sum := 0
	for _, n := range numbers {
		sum += n
	}
	return Breakdown{
		EvenOdd:          frequency.EvenOddPattern(numbers),
		HighLow:          frequency.HighLowPattern(numbers, g.game.MidPoint()),
		Sum:              sum,
		ConsecutivePairs: frequency.ConsecutivePairs(numbers),
	}
}

func comboKey(sorted []int) string {
	key := ""
	for _, n := range sorted {
		key += fmt.Sprintf("%d,", n)
	}
	return key
}

// WeightedSampler draws K distinct numbers from a weight table, removing
// each chosen number before the next draw so the remainder renormalizes.
// Jitter adds an independent uniform term to every weight per attempt,
// which keeps the relative ranking on average while varying the output.
type WeightedSampler struct {
	Weights map[int]float64
	Jitter  float64
	K       int
}

// Sample implements the Strategy sampling half
func (s WeightedSampler) Sample(rng *rand.Rand) ([]int, bool) {
	pool := newPool(s.Weights, s.Jitter, rng)

	numbers := make([]int, 0, s.K)
	for len(numbers) < s.K {
		n, ok := pool.draw(rng)
		if !ok {
			return nil, false
		}
		numbers = append(numbers, n)
	}
	return numbers, true
}

// pool is a small arena for weighted sampling without replacement: parallel
// number/weight slices with swap-remove on selection. Keeping it a slice
// (rather than deleting from a map mid-loop) makes the shrink explicit and
// the iteration order deterministic for a seeded rng.
type pool struct {
	numbers []int
	weights []float64
	total   float64
}

func newPool(weights map[int]float64, jitter float64, rng *rand.Rand) *pool {
	numbers := make([]int, 0, len(weights))
	for n := range weights {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	p := &pool{
		numbers: numbers,
		weights: make([]float64, len(numbers)),
	}
	for i, n := range numbers {
		w := weights[n]
		if jitter > 0 {
			w += rng.Float64() * jitter
		}
		p.weights[i] = w
		p.total += w
	}
	return p
}

// draw picks one number proportionally to weight and removes it from the
// arena. Returns false when the pool is empty or all weight is gone.
func (p *pool) draw(rng *rand.Rand) (int, bool) {
	if len(p.numbers) == 0 || p.total <= 0 {
		return 0, false
	}

	r := rng.Float64() * p.total
	idx := len(p.numbers) - 1
	for i, w := range p.weights {
		r -= w
		if r <= 0 {
			idx = i
			break
		}
	}

	n := p.numbers[idx]
	p.total -= p.weights[idx]

	last := len(p.numbers) - 1
	p.numbers[idx] = p.numbers[last]
	p.weights[idx] = p.weights[last]
	p.numbers = p.numbers[:last]
	p.weights = p.weights[:last]

	return n, true
}

package templates

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/deusflow/ytannounce/internal/video"
)

// Rand picks an index in [0, n).
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// PoolStore persists the remaining indices of each category.
type PoolStore interface {
	TemplatePool(ctx context.Context, cat video.Category) ([]int, error)
	SetTemplatePool(ctx context.Context, cat video.Category, pool []int) error
}

// Draw is the outcome of one pick. Remaining is the pool after removing
// Index; nothing is stored until Commit.
type Draw struct {
	Category  video.Category
	Index     int
	Text      string
	Remaining []int
	Fallback  bool
}

// Selector hands out templates of a category in random order without
// repeating one until every template was used once.
type Selector struct {
	set   *Set
	pools PoolStore
	rnd   Rand
}

// NewSelector builds a Selector. A nil rnd uses the process random source.
func NewSelector(set *Set, pools PoolStore, rnd Rand) *Selector {
	if rnd == nil {
		rnd = globalRand{}
	}
	return &Selector{set: set, pools: pools, rnd: rnd}
}

// Draw picks a template for cat and renders it with data. It only reads the
// pool; nothing is stored until Commit.
func (s *Selector) Draw(ctx context.Context, cat video.Category, data Data) (Draw, error) {
	n := s.set.Count(cat)
	if n == 0 {
		return Draw{Category: cat, Index: -1, Text: fallbackText(data), Fallback: true}, nil
	}

	stored, err := s.pools.TemplatePool(ctx, cat)
	if err != nil {
		return Draw{}, fmt.Errorf("failed to load template pool: %w", err)
	}
	pool := sanitizePool(stored, n)
	if len(pool) == 0 {
		pool = fullPool(n)
	}

	pick := s.rnd.IntN(len(pool))
	idx := pool[pick]
	remaining := make([]int, 0, len(pool)-1)
	remaining = append(remaining, pool[:pick]...)
	remaining = append(remaining, pool[pick+1:]...)

	text, err := s.set.Render(cat, idx, data)
	if err != nil {
		return Draw{}, err
	}
	return Draw{Category: cat, Index: idx, Text: text, Remaining: remaining}, nil
}

// Commit persists the pool left by d. Fallback draws have nothing to store.
func (s *Selector) Commit(ctx context.Context, d Draw) error {
	if d.Fallback {
		return nil
	}
	return s.pools.SetTemplatePool(ctx, d.Category, d.Remaining)
}

// sanitizePool drops out-of-range and duplicate indices, which appear when
// the template file shrinks or the stored pool was edited by hand.
func sanitizePool(pool []int, n int) []int {
	seen := make(map[int]bool, len(pool))
	out := make([]int, 0, len(pool))
	for _, i := range pool {
		if i < 0 || i >= n || seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, i)
	}
	return out
}

func fullPool(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

func fallbackText(d Data) string {
	if d.Link == "" {
		return d.Title
	}
	return d.Title + " " + d.Link
}

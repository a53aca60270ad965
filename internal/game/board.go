package game

import (
	"math/rand"
	"sync"
)

// blocksGenerator is shared by every room, and each room's goroutine draws
// from it when a countdown elapses. rand.Rand is not safe for concurrent use,
// so draws are serialized.
type blocksGenerator struct {
	rng    *rand.Rand
	locker sync.Mutex
}

func NewBlocksGenerator(src rand.Source) *blocksGenerator {
	return &blocksGenerator{rng: rand.New(src)}
}

// Generate draws the hidden board for one round: a uniform count n in
// [minBlocks, maxBlocks], then n distinct cell indices in [0, totalCells).
func (g *blocksGenerator) Generate(minBlocks, maxBlocks, totalCells int) []int {
	g.locker.Lock()
	defer g.locker.Unlock()

	n := minBlocks + g.rng.Intn(maxBlocks-minBlocks+1)
	cells := g.rng.Perm(totalCells)[:n]
	return cells
}

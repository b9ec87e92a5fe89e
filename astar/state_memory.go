package astar

import (
	"encoding/binary"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash"
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/stampeder/bonanza/game"
)

// GameState is a compact representation of a game state for the closed
// set.
//
// For game play purposes, two tableaus that are identical except that
// one or more piles are in different spots are equal. Two game states
// are equal here if their foundation piles and stock and waste piles
// are the same and their tableaus are equal except for order of piles.
// Any difference between game states under that equivalence relation
// is reflected in the corresponding GameState values: the key is a
// perfect hash of the equivalence class.
//
// Conceptually the closed set is a map from game state to move count.
// To stay at 24 bytes per entry, the move count is packed into the
// upper 16 bits of part2; the lower 48 bits complete the key.
type GameState struct {
	part0 uint64
	part1 uint64
	part2 uint64 // low 48 bits key, high 16 bits stored move count
}

const statePart2KeyMask = (uint64(1) << 48) - 1

// deflateTableau packs a tableau pile into 21 bits. The rules for
// moving to a tableau pile guarantee that all its face-up cards are
// identified by the bottom face-up card plus, for each other face-up
// card, whether it comes from a major suit (hearts or spades). The
// face-up cards cannot number more than 12, since an ace is never
// moved there.
func deflateTableau(pile *game.Pile) uint32 {
	upCount := pile.UpCount()
	if upCount == 0 {
		return 0
	}
	isMajor := uint32(0)
	cards := pile.Cards()
	for _, cd := range cards[len(cards)-upCount+1:] {
		isMajor = isMajor<<1 | uint32(cd.IsMajor())
	}
	base := pile.FirstUp()
	return ((uint32(base.Suit())<<4|
		uint32(base.Rank()))<<11|
		isMajor)<<4 | uint32(upCount)
}

// NewGameState computes the canonical key for a game plus the move
// count to store with it.
func NewGameState(g *game.Game, moveCount int) GameState {
	var tableauState [game.TableauSize]uint32
	for i := range g.Tableau() {
		tableauState[i] = deflateTableau(&g.Tableau()[i])
	}
	// Tableaus that differ only in pile order are equal, so sort the
	// deflated piles.
	sort.Slice(tableauState[:], func(i, j int) bool {
		return tableauState[i] < tableauState[j]
	})

	fnd := g.Foundation()
	var gs GameState
	gs.part0 = (uint64(tableauState[0])<<21|
		uint64(tableauState[1]))<<21 | uint64(tableauState[2])
	gs.part1 = (uint64(tableauState[3])<<21|
		uint64(tableauState[4]))<<21 | uint64(tableauState[5])
	gs.part2 = ((((uint64(tableauState[6])<<5|
		uint64(g.StockPile().Len()))<<4|
		uint64(fnd[0].Len()))<<4|
		uint64(fnd[1].Len()))<<4|
		uint64(fnd[2].Len()))<<4 | uint64(fnd[3].Len())
	gs.part2 |= uint64(moveCount) << 48
	return gs
}

func (gs GameState) key() stateKey {
	return stateKey{gs.part0, gs.part1, gs.part2 & statePart2KeyMask}
}

func (gs GameState) moveCount() int { return int(gs.part2 >> 48) }

type stateKey struct {
	part0, part1, part2 uint64
}

// hash combines the three packed key words.
func (k stateKey) hash() uint64 {
	return k.part0 ^ k.part1 ^ k.part2
}

const (
	numShards = 256
	// minReservedStates is the initial reservation across all shards;
	// NewGameStateMemory reserves fewer entries only when this many
	// would exceed its fraction of system memory.
	minReservedStates = 4096 * 1024
	// stateEntrySize approximates the per-entry memory cost used when
	// sizing the reservation from system memory.
	stateEntrySize = 32
)

// GameStateMemory stores the length of the shortest path known to each
// game state encountered so far, so the solver can drop any node that
// reaches an already-seen state by a path at least as long. It is
// sharded so that concurrent upserts contend only per shard; each
// upsert is linearizable per key.
type GameStateMemory struct {
	shards [numShards]stateShard
	size   atomic.Uint64
}

type stateShard struct {
	mu sync.Mutex
	m  map[stateKey]uint16
	_  [24]byte // keep shard locks off one another's cache lines
}

// NewGameStateMemory reserves capacity for the closed set: about four
// million entries, scaled down if that would take more than the given
// fraction of total system memory.
func NewGameStateMemory(fractionOfMemory float64) *GameStateMemory {
	totalMem := memory.TotalMemory()
	reserve := uint64(minReservedStates)
	if capped := uint64(fractionOfMemory * float64(totalMem) / stateEntrySize); capped < reserve {
		reserve = capped
	}
	perShard := int(reserve / numShards)
	gsm := &GameStateMemory{}
	for i := range gsm.shards {
		gsm.shards[i].m = make(map[stateKey]uint16, perShard)
	}
	log.Debug().
		Uint64("reserved-entries", reserve).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("game-state-memory-size")
	return gsm
}

func (gsm *GameStateMemory) shardFor(k stateKey) *stateShard {
	// The XOR-combined key hash concentrates its entropy unevenly, so
	// scramble it before picking a shard.
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], k.hash())
	return &gsm.shards[xxhash.Sum64(b[:])&(numShards-1)]
}

// IsShortPathToState returns true if no equal game state has been seen
// before, or if moveCount is strictly lower than the count stored for
// it. In either case moveCount becomes the stored count. The compare
// and store happen under the shard lock.
func (gsm *GameStateMemory) IsShortPathToState(g *game.Game, moveCount int) bool {
	gs := NewGameState(g, moveCount)
	k := gs.key()
	shard := gsm.shardFor(k)

	shard.mu.Lock()
	old, seen := shard.m[k]
	if !seen {
		shard.m[k] = uint16(moveCount)
		shard.mu.Unlock()
		gsm.size.Add(1)
		return true
	}
	if uint16(moveCount) < old {
		shard.m[k] = uint16(moveCount)
		shard.mu.Unlock()
		return true
	}
	shard.mu.Unlock()
	return false
}

// Size returns the number of states stored.
func (gsm *GameStateMemory) Size() int {
	return int(gsm.size.Load())
}

package astar

import (
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/stampeder/bonanza/game"
)

// nodeNone marks a move-tree node with no parent.
const nodeNone = ^uint32(0)

// MoveNode is one node of the shared move tree: a move plus the index
// of the node holding the move before it. Parent indices are always
// strictly less than the node's own index, so cycles are impossible by
// construction.
type MoveNode struct {
	Move game.MoveSpec
	Prev uint32
}

// maxFringeBuckets bounds the heuristic excess over the starting lower
// bound. The excess grows by at most a few moves per expansion and
// never comes close to this in practice.
const maxFringeBuckets = 512

type fringeBucket struct {
	mu sync.Mutex
	// n mirrors len(stack) so the Pop scan can peek without the lock.
	n     atomic.Int32
	stack []MoveNode
}

// indexedPriorityQueue is a thread-safe priority queue of (index, leaf)
// pairs in approximately ascending index order, implemented as an array
// of LIFO stacks indexed by the priority value. It is efficient when
// the index values are small integers. Pairs sharing an index come back
// in LIFO order.
type indexedPriorityQueue struct {
	growMu   sync.Mutex
	nBuckets atomic.Uint32
	buckets  [maxFringeBuckets]fringeBucket
}

func (q *indexedPriorityQueue) upsizeTo(n uint32) {
	if q.nBuckets.Load() < n {
		q.growMu.Lock()
		if q.nBuckets.Load() < n {
			q.nBuckets.Store(n)
		}
		q.growMu.Unlock()
	}
}

// Push adds a leaf to the stack for the given index.
func (q *indexedPriorityQueue) Push(index int, leaf MoveNode) {
	q.upsizeTo(uint32(index) + 1)
	bucket := &q.buckets[index]
	bucket.mu.Lock()
	bucket.stack = append(bucket.stack, leaf)
	bucket.n.Store(int32(len(bucket.stack)))
	bucket.mu.Unlock()
}

// Pop removes and returns the top leaf of the lowest-index non-empty
// stack. In a multithreaded run a stack may turn empty or non-empty at
// any instant, so which stack is the first non-empty one depends on
// who is looking and exactly when; no attempt is made to pin that
// down. The heuristic's monotonicity makes a slightly-high pop
// harmless: it can delay finding the optimum, never invalidate it.
func (q *indexedPriorityQueue) Pop() (int, MoveNode, bool) {
	for nTries := 0; nTries < 5; nTries++ {
		n := int(q.nBuckets.Load())
		for i := 0; i < n; i++ {
			bucket := &q.buckets[i]
			if bucket.n.Load() == 0 {
				continue
			}
			bucket.mu.Lock()
			if last := len(bucket.stack) - 1; last >= 0 {
				leaf := bucket.stack[last]
				bucket.stack = bucket.stack[:last]
				bucket.n.Store(int32(last))
				bucket.mu.Unlock()
				return i, leaf, true
			}
			bucket.mu.Unlock()
		}
		runtime.Gosched()
	}
	return 0, MoveNode{}, false
}

// Size returns the total number of queued leaves. It is not accurate
// while other goroutines are making changes.
func (q *indexedPriorityQueue) Size() int {
	total := 0
	for i := 0; i < int(q.nBuckets.Load()); i++ {
		total += int(q.buckets[i].n.Load())
	}
	return total
}

// SharedMoveStorage is the storage shared among workers: the move tree
// holding the explored prefix of the search, and the fringe of leaves
// waiting to grow new branches, indexed by the minimum number of moves
// possible in any finished game growing from each leaf.
type SharedMoveStorage struct {
	moveTreeSizeLimit int
	// The tree is append-only under treeMu. Readers follow parent
	// links without the lock: a node index only reaches a reader
	// through a fringe publication that happened after the node was
	// written, and loading the array pointer after the bucket lock
	// acquisition makes the write visible.
	treeMu   sync.Mutex
	treeArr  atomic.Pointer[[]MoveNode]
	treeSize atomic.Uint32

	fringe          indexedPriorityQueue
	initialMinMoves int
	firstTime       atomic.Bool
}

// treeSlack covers nodes appended by workers that passed the OverLimit
// check just before the tree crossed the limit.
const treeSlack = 16 * 1024

// Start readies the storage for a search whose starting lower bound is
// minMoves.
func (s *SharedMoveStorage) Start(moveTreeSizeLimit int, minMoves int) {
	s.moveTreeSizeLimit = moveTreeSizeLimit
	arr := make([]MoveNode, moveTreeSizeLimit+treeSlack)
	s.treeArr.Store(&arr)
	s.treeSize.Store(0)
	s.initialMinMoves = minMoves
	s.firstTime.Store(true)
}

func (s *SharedMoveStorage) InitialMinMoves() int { return s.initialMinMoves }

// FringeSize returns the approximate number of fringe leaves.
func (s *SharedMoveStorage) FringeSize() int { return s.fringe.Size() }

// MoveTreeSize returns the number of nodes in the move tree.
func (s *SharedMoveStorage) MoveTreeSize() int { return int(s.treeSize.Load()) }

// OverLimit reports whether the move tree has outgrown its limit.
func (s *SharedMoveStorage) OverLimit() bool {
	return s.MoveTreeSize() > s.moveTreeSizeLimit
}

// node returns the move-tree node at index. The caller must have
// obtained the index from a popped fringe leaf or a node reachable
// from one.
func (s *SharedMoveStorage) node(index uint32) MoveNode {
	return (*s.treeArr.Load())[index]
}

// appendNodes writes nodes to the tree under the tree mutex, threading
// prev through so each node points to the one before it. It returns
// the index of the last node written, or prev unchanged if nodes is
// empty.
func (s *SharedMoveStorage) appendNodes(moves []game.MoveSpec, prev uint32) uint32 {
	s.treeMu.Lock()
	size := s.treeSize.Load()
	arr := *s.treeArr.Load()
	if int(size)+len(moves) > len(arr) {
		// The limit check keeps this from happening in a normal run,
		// but the tree must not drop nodes if it does.
		grown := make([]MoveNode, len(arr)*2)
		copy(grown, arr)
		s.treeArr.Store(&grown)
		arr = grown
		log.Warn().Int("new-capacity", len(grown)).Msg("move-tree-regrown")
	}
	for _, mv := range moves {
		arr[size] = MoveNode{Move: mv, Prev: prev}
		prev = size
		size++
	}
	s.treeSize.Store(size)
	s.treeMu.Unlock()
	return prev
}

// branchRecord is a pending branch: its first move and its heuristic
// excess over the starting lower bound.
type branchRecord struct {
	move   game.MoveSpec
	offset int
}

// MoveStorage is one worker's private view of the shared storage: the
// move sequence currently being worked on, the fringe leaf it grew
// from, and the branches staged for publication.
type MoveStorage struct {
	shared *SharedMoveStorage

	// currentSequence holds the moves of the sequence being expanded;
	// moveCount tracks its user-move total.
	currentSequence []game.MoveSpec
	moveCount       int

	leaf      MoveNode
	startSize int // number of MoveSpecs loaded from the move tree
	branches  []branchRecord
}

// maxSequenceMoves bounds any rational move sequence. Overflow means
// the XYZ filter let a genuinely cyclic extension through.
const maxSequenceMoves = 500

func NewMoveStorage(shared *SharedMoveStorage) *MoveStorage {
	return &MoveStorage{
		shared:          shared,
		currentSequence: make([]game.MoveSpec, 0, maxSequenceMoves),
		branches:        make([]branchRecord, 0, 32),
	}
}

func (ms *MoveStorage) Shared() *SharedMoveStorage { return ms.shared }

// MoveSequence returns the current move sequence.
func (ms *MoveStorage) MoveSequence() []game.MoveSpec { return ms.currentSequence }

// MoveCount returns the user-move total of the current sequence.
func (ms *MoveStorage) MoveCount() int { return ms.moveCount }

// PushStem appends a forced move to the current sequence.
func (ms *MoveStorage) PushStem(mv game.MoveSpec) {
	if len(ms.currentSequence) >= maxSequenceMoves {
		log.Error().Str("sequence", game.SeqString(ms.currentSequence)).
			Msg("move-sequence-overflow")
		panic("move sequence overflow: cyclic extension passed the XYZ filter")
	}
	ms.currentSequence = append(ms.currentSequence, mv)
	ms.moveCount += mv.NMoves()
}

// PushBranch stages the first move of a new branch off the current
// stem, along with the minimum move count of any game growing from it.
func (ms *MoveStorage) PushBranch(mv game.MoveSpec, minMoves int) {
	ms.branches = append(ms.branches, branchRecord{
		move:   mv,
		offset: minMoves - ms.shared.initialMinMoves,
	})
}

// ShareMoves publishes this trip through the main loop: the stem moves
// go into the shared move tree, and each staged branch is pushed into
// the fringe bucket for its heuristic offset. If no branches survived,
// the stem led to a dead end or a win and storing it would only waste
// memory.
func (ms *MoveStorage) ShareMoves() {
	if len(ms.branches) == 0 {
		return
	}
	stemEnd := ms.shared.appendNodes(ms.currentSequence[ms.startSize:], ms.leaf.Prev)

	// Sort descending by offset so that, within a fringe bucket, LIFO
	// pops yield the smallest-offset branch first.
	sort.Slice(ms.branches, func(i, j int) bool {
		return ms.branches[i].offset > ms.branches[j].offset
	})
	for _, br := range ms.branches {
		ms.shared.fringe.Push(br.offset, MoveNode{Move: br.move, Prev: stemEnd})
	}
	ms.branches = ms.branches[:0]
}

// PopNextMoveSequence removes a leaf with the lowest available minimum
// move count from the fringe and makes it current, returning that
// minimum move count. It returns 0 when the fringe stays empty. The
// very first call returns the root sentinel so the first worker starts
// from the freshly dealt game.
func (ms *MoveStorage) PopNextMoveSequence() int {
	if ms.shared.firstTime.CompareAndSwap(true, false) {
		ms.leaf = MoveNode{Prev: nodeNone}
		return ms.shared.initialMinMoves
	}
	offset, leaf, ok := ms.shared.fringe.Pop()
	if !ok {
		return 0 // last time for this worker
	}
	ms.leaf = leaf
	return offset + ms.shared.initialMinMoves
}

// LoadMoveSequence recovers the current leaf's move prefix from the
// move tree by following parent links, then appends the leaf's own
// move.
func (ms *MoveStorage) LoadMoveSequence() {
	ms.currentSequence = ms.currentSequence[:0]
	for node := ms.leaf.Prev; node != nodeNone; node = ms.shared.node(node).Prev {
		ms.currentSequence = append(ms.currentSequence, ms.shared.node(node).Move)
	}
	// The walk yields the moves leaf-to-root; flip them.
	for i, j := 0, len(ms.currentSequence)-1; i < j; i, j = i+1, j-1 {
		ms.currentSequence[i], ms.currentSequence[j] = ms.currentSequence[j], ms.currentSequence[i]
	}
	ms.startSize = len(ms.currentSequence)
	if !ms.leaf.Move.IsDefault() {
		ms.currentSequence = append(ms.currentSequence, ms.leaf.Move)
	}
	ms.moveCount = game.MoveCount(ms.currentSequence)
}

// MakeSequenceMoves replays the current sequence on g.
func (ms *MoveStorage) MakeSequenceMoves(g *game.Game) {
	for _, mv := range ms.currentSequence {
		g.MakeMove(mv)
	}
}

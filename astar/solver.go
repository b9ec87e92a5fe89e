package astar

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/stampeder/bonanza/game"
)

// Outcome classifies the result of a solve.
type Outcome uint8

const (
	// SolvedMinimal means a solution was found and the move tree
	// stayed within its limit, so the solution is minimal.
	SolvedMinimal Outcome = iota
	// Solved means a solution was found but the tree-size limit was
	// reached; the solution may not be minimal.
	Solved
	// Impossible means the fringe was exhausted below the limit with
	// no solution: the deal cannot be won.
	Impossible
	// GaveUp means the tree-size limit was reached with no solution.
	GaveUp
)

func (o Outcome) String() string {
	switch o {
	case SolvedMinimal:
		return "SolvedMinimal"
	case Solved:
		return "Solved"
	case Impossible:
		return "Impossible"
	case GaveUp:
		return "GaveUp"
	}
	return fmt.Sprintf("Outcome(%d)", uint8(o))
}

// DefaultMoveTreeLimit is the default cap on move-tree nodes; the
// search gives up when the tree outgrows it.
const DefaultMoveTreeLimit = 12_000_000

// Result is what Solve returns.
type Result struct {
	Outcome Outcome
	// Moves is the solution, empty unless Outcome is SolvedMinimal or
	// Solved.
	Moves []game.MoveSpec
	// BranchCount is the number of distinct game states visited.
	BranchCount int
	// MoveTreeSize is the final node count of the shared move tree.
	MoveTreeSize int
	// FinalFringeSize is the approximate number of unexpanded leaves
	// left when the search stopped.
	FinalFringeSize int
}

// DefaultThreads returns the worker count used when the caller passes
// zero.
func DefaultThreads() int { return runtime.NumCPU() }

// CandidateSolution holds the shortest complete solution found so far.
// It guards itself: reads of the move count are atomic, and
// replacement double-checks under the lock.
type CandidateSolution struct {
	mu    sync.Mutex
	moves []game.MoveSpec
	count atomic.Uint32
}

const noSolution = ^uint32(0)

func newCandidateSolution() *CandidateSolution {
	cs := &CandidateSolution{}
	cs.count.Store(noSolution)
	return cs
}

// MoveCount returns the user-move count of the best solution, or a
// huge number if none has been found.
func (cs *CandidateSolution) MoveCount() int { return int(cs.count.Load()) }

// IsEmpty reports whether no solution has been recorded yet.
func (cs *CandidateSolution) IsEmpty() bool { return cs.count.Load() == noSolution }

// Moves returns the best solution's moves. Call after the workers have
// joined.
func (cs *CandidateSolution) Moves() []game.MoveSpec { return cs.moves }

// ReplaceIfShorter installs source as the best solution if it is the
// first one or strictly shorter than the current one.
func (cs *CandidateSolution) ReplaceIfShorter(source []game.MoveSpec, count int) {
	if uint32(count) >= cs.count.Load() {
		return
	}
	cs.mu.Lock()
	if uint32(count) < cs.count.Load() {
		cs.moves = append(cs.moves[:0], source...)
		cs.count.Store(uint32(count))
		log.Debug().Int("move-count", count).Msg("new-best-solution")
	}
	cs.mu.Unlock()
}

// workerState bundles what one worker touches each iteration.
type workerState struct {
	game        *game.Game
	moveStorage *MoveStorage
	closedList  *GameStateMemory
	minSolution *CandidateSolution
}

func newWorkerState(g *game.Game, solution *CandidateSolution,
	shared *SharedMoveStorage, closed *GameStateMemory) *workerState {
	return &workerState{
		game:        g.Copy(),
		moveStorage: NewMoveStorage(shared),
		closedList:  closed,
		minSolution: solution,
	}
}

// makeAutoMoves makes available moves until a branching node or a
// childless one is encountered. If more than one dominant move is
// available (as when two aces are dealt face up), AvailableMoves
// returns them one at a time and the stem follows them all.
func (ws *workerState) makeAutoMoves() game.QMoves {
	for {
		avail := ws.game.AvailableMoves(ws.moveStorage.MoveSequence())
		if len(avail) != 1 {
			return avail
		}
		ws.moveStorage.PushStem(avail[0])
		ws.game.MakeMove(avail[0])
	}
}

// run is the worker main loop. Each iteration pops the most promising
// fringe leaf, rebuilds its game state, extends the stem through all
// forced moves, then stages every surviving branch and publishes the
// lot.
func (ws *workerState) run() {
	moveStorage := ws.moveStorage
	g := ws.game
	minSolution := ws.minSolution
	closedList := ws.closedList

	for {
		if moveStorage.Shared().OverLimit() {
			return
		}
		minMoves0 := moveStorage.PopNextMoveSequence()
		if minMoves0 == 0 || minMoves0 >= minSolution.MoveCount() {
			return
		}

		// Restore the game to the state it had when this move
		// sequence was enqueued.
		g.Deal()
		moveStorage.LoadMoveSequence()
		moveStorage.MakeSequenceMoves(g)

		availableMoves := ws.makeAutoMoves()
		movesMadeCount := moveStorage.MoveCount()

		if len(availableMoves) == 0 {
			// A dead end or a win.
			if g.GameOver() {
				minSolution.ReplaceIfShorter(moveStorage.MoveSequence(), movesMadeCount)
			}
			continue
		}

		for _, mv := range availableMoves {
			g.MakeMove(mv)
			made := movesMadeCount + mv.NMoves()
			// Both MinimumMovesLeft and IsShortPathToState are
			// expensive, and IsShortPathToState considerably the more
			// so. With a solution to test against, calling
			// MinimumMovesLeft first sometimes avoids the closed-set
			// probe; without one, probing first sometimes avoids the
			// heuristic.
			minRemaining := -1
			pass := true
			if !minSolution.IsEmpty() {
				minRemaining = MinimumMovesLeft(g)
				pass = made+minRemaining < minSolution.MoveCount()
			}
			if pass && closedList.IsShortPathToState(g, made) {
				if minRemaining == -1 {
					minRemaining = MinimumMovesLeft(g)
				}
				minMoves := made + minRemaining
				if minMoves < minMoves0 {
					// The heuristic must be consistent; a decrease
					// along an edge means the search could stop too
					// soon.
					panic(fmt.Sprintf("inconsistent heuristic: %d < %d after %s",
						minMoves, minMoves0, mv))
				}
				moveStorage.PushBranch(mv, minMoves)
			}
			g.UnMakeMove(mv)
		}
		moveStorage.ShareMoves()
	}
}

// startupStagger gives the first worker time to populate the fringe
// before the rest start popping from it.
const startupStagger = 3 * time.Millisecond

func runWorkers(nThreads int, g *game.Game, solution *CandidateSolution,
	shared *SharedMoveStorage, closed *GameStateMemory) {
	if nThreads == 0 {
		nThreads = DefaultThreads()
	}
	log.Debug().Int("threads", nThreads).Msg("run-workers")

	var eg errgroup.Group
	for t := 0; t < nThreads-1; t++ {
		ws := newWorkerState(g, solution, shared, closed)
		eg.Go(func() error {
			ws.run()
			return nil
		})
		if t == 0 {
			// The search must start single-threaded: until the first
			// branches are published the fringe is empty and every
			// other worker would give up.
			time.Sleep(startupStagger)
		}
	}

	// Run one more worker on the calling goroutine.
	newWorkerState(g, solution, shared, closed).run()

	_ = eg.Wait() // workers do not return errors
}

// Solve searches for a minimum-move solution to the dealt game using
// the A* algorithm. It never fails; the outcome code classifies what
// happened. moveTreeLimit caps memory use: the search gives up when
// the shared move tree outgrows it (pass DefaultMoveTreeLimit when in
// doubt). threads is the worker count; zero means one per CPU.
func Solve(g *game.Game, moveTreeLimit int, threads int) Result {
	if g.GameOver() {
		// Degenerate: every card is already on the foundation.
		return Result{Outcome: SolvedMinimal}
	}

	shared := &SharedMoveStorage{}
	closed := NewGameStateMemory(0.1)
	solution := newCandidateSolution()

	startMoves := MinimumMovesLeft(g)
	log.Debug().Int("initial-min-moves", startMoves).
		Int("draw", g.DrawSetting()).
		Int("move-tree-limit", moveTreeLimit).
		Msg("solve-config")

	tstart := time.Now()
	shared.Start(moveTreeLimit, startMoves)
	runWorkers(threads, g, solution, shared, closed)

	var outcome Outcome
	switch {
	case !solution.IsEmpty() && !shared.OverLimit():
		outcome = SolvedMinimal
	case !solution.IsEmpty():
		outcome = Solved
	case shared.OverLimit():
		outcome = GaveUp
	default:
		outcome = Impossible
	}

	result := Result{
		Outcome:         outcome,
		Moves:           solution.Moves(),
		BranchCount:     closed.Size(),
		MoveTreeSize:    shared.MoveTreeSize(),
		FinalFringeSize: shared.FringeSize(),
	}
	log.Info().
		Stringer("outcome", outcome).
		Int("move-count", game.MoveCount(result.Moves)).
		Int("branch-count", result.BranchCount).
		Int("move-tree-size", result.MoveTreeSize).
		Int("final-fringe-size", result.FinalFringeSize).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg("solve-returning")
	return result
}

package game

// The XYZ test: consider a move at time T0 from pile X to pile Y and a
// later candidate move from Y, which goes from Y to Z at time Tn. The
// candidate can be skipped if the same result could have been achieved
// at T0 by moving the same cards directly from X to Z. Since nothing
// says X cannot equal Z, the test also catches moves that exactly
// reverse previous moves.

type xyzVerdict uint8

const (
	xyzSkip xyzVerdict = iota
	xyzKeep
	xyzKeepLooking
)

func xyzTest(prevMove, trialMove MoveSpec) xyzVerdict {
	y := trialMove.From()
	z := trialMove.To()
	if prevMove.To() == y {
		// candidate T0 move
		if prevMove.From() == z {
			// If X == Z and the X to Y move flipped a tableau card
			// face up, then it changed Z.
			if prevMove.FlipsTopCard() {
				return xyzKeep
			}
		}
		if prevMove.NCards() == trialMove.NCards() {
			return xyzSkip
		}
		return xyzKeep
	}
	// intervening move
	if prevMove.To() == z || prevMove.From() == z {
		return xyzKeep // trial move's to-pile has changed
	}
	if prevMove.From() == y {
		return xyzKeep // trial move's from-pile has changed
	}
	return xyzKeepLooking
}

// XYZMove returns true if trialMove cannot be in a minimum solution
// because, combined with an earlier move, the combined effect could
// have been achieved at the time of the earlier move. A ladder move
// counts as two prior moves: the implied foundation move is tested
// first.
func XYZMove(trialMove MoveSpec, movesMade []MoveSpec) bool {
	y := trialMove.From()
	if y == Stock || y == Waste {
		return false
	}
	for i := len(movesMade) - 1; i >= 0; i-- {
		prevMove := movesMade[i]
		if prevMove.IsLadderMove() {
			foundationMove := NonStockMove(prevMove.From(),
				prevMove.LadderPileCode(),
				1,
				prevMove.FromUpCount()-prevMove.NCards())
			foundationMove.SetFlipsTopCard(prevMove.FlipsTopCard())
			switch xyzTest(foundationMove, trialMove) {
			case xyzSkip:
				return true
			case xyzKeep:
				return false
			}
			prevMove.SetFlipsTopCard(false)
			// Fall through to test the tableau-to-tableau part.
		}
		switch xyzTest(prevMove, trialMove) {
		case xyzSkip:
			return true
		case xyzKeep:
			return false
		}
	}
	return false
}

// filterXYZ removes some provably non-optimal moves.
func filterXYZ(newMoves QMoves, movesMade []MoveSpec) QMoves {
	kept := newMoves[:0]
	for _, m := range newMoves {
		if !XYZMove(m, movesMade) {
			kept = append(kept, m)
		}
	}
	return kept
}

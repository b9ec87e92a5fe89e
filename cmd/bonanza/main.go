package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stampeder/bonanza/astar"
	"github.com/stampeder/bonanza/card"
	"github.com/stampeder/bonanza/config"
	"github.com/stampeder/bonanza/game"
)

func main() {
	cfg := &config.Config{}
	err := cfg.Load(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("bad config")
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	recycleLimit := cfg.RecycleLimit
	if recycleLimit < 0 {
		recycleLimit = game.NoRecycleLimit
	}
	deck := card.NumberedDeal(uint32(cfg.Seed))
	g := game.NewGame(deck, cfg.Draw, recycleLimit)
	log.Info().Uint("seed", cfg.Seed).Int("draw", cfg.Draw).Msg("dealt")

	result := astar.Solve(g, cfg.MoveTreeLimit, cfg.Threads)

	fmt.Printf("outcome: %s\n", result.Outcome)
	if result.Outcome == astar.SolvedMinimal || result.Outcome == astar.Solved {
		fmt.Printf("moves: %d\n", game.MoveCount(result.Moves))
		g.Deal()
		for _, xm := range game.MakeXMoves(result.Moves, cfg.Draw) {
			flip := ""
			if xm.Flip() {
				flip = " (flip)"
			}
			fmt.Printf("%3d. %s>%s x%d%s\n",
				xm.MoveNum(), xm.From(), xm.To(), xm.NCards(), flip)
		}
	}
}

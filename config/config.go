package config

import "github.com/namsral/flag"

type Config struct {
	Seed          uint
	Draw          int
	RecycleLimit  int
	Threads       int
	MoveTreeLimit int
	Debug         bool
}

func (c *Config) Load(args []string) error {
	fs := flag.NewFlagSet("bonanza", flag.ContinueOnError)
	fs.UintVar(&c.Seed, "seed", 1, "deal number to solve")
	fs.IntVar(&c.Draw, "draw", 1, "cards drawn from the stock per draw move (1 or 3)")
	fs.IntVar(&c.RecycleLimit, "recycle-limit", -1, "max recycles of the waste pile; -1 for unlimited")
	fs.IntVar(&c.Threads, "threads", 0, "worker threads; 0 for one per CPU")
	fs.IntVar(&c.MoveTreeLimit, "move-tree-limit", 12_000_000, "give up when the move tree exceeds this many nodes")
	fs.BoolVar(&c.Debug, "debug", false, "debug logging")
	err := fs.Parse(args)
	return err
}

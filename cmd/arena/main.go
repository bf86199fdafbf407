// Command arena self-plays the tactical planner against randomly
// generated board positions and reports aggregate statistics, the
// captain analogue of cmd/botmatch's self-play harness.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/spookygames/captain/board"
	"github.com/spookygames/captain/captain"
)

type gameResult struct {
	Seed      int64         `json:"seed"`
	Planned   bool          `json:"planned"`
	NumPieces int           `json:"num_pieces"`
	NumMoves  int           `json:"num_moves"`
	Err       string        `json:"error,omitempty"`
	Elapsed   time.Duration `json:"-"`
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var (
		numGames  int
		workers   int
		maxPieces int
		seed      int64
		jsonOut   bool
	)

	flag.IntVar(&numGames, "n", 100, "Number of random boards to plan")
	flag.IntVar(&workers, "workers", 4, "Concurrency (parallel boards)")
	flag.IntVar(&maxPieces, "max-pieces", 8, "Max pieces per side on the generated board")
	flag.Int64Var(&seed, "seed", 0, "Base seed (0 = time-derived)")
	flag.BoolVar(&jsonOut, "json", false, "Output results as JSON")
	flag.Parse()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	results := make([]gameResult, numGames)
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for i := 0; i < numGames; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			gameSeed := seed + int64(idx)
			results[idx] = runOne(gameSeed, maxPieces)
		}(i)
	}
	wg.Wait()

	if jsonOut {
		printJSON(results)
	} else {
		printSummary(results)
	}
}

func runOne(seed int64, maxPieces int) gameResult {
	rng := rand.New(rand.NewSource(seed))
	b := randomBoard(rng, maxPieces)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	actions, err := captain.Plan(ctx, b, board.Yellow, nil)
	elapsed := time.Since(start)

	res := gameResult{
		Seed:      seed,
		NumPieces: len(b.Pieces),
		Elapsed:   elapsed,
	}
	if err != nil {
		if !errors.Is(err, captain.ErrNoPlan) {
			log.Warn().Err(err).Int64("seed", seed).Msg("plan failed unexpectedly")
		}
		res.Err = err.Error()
		return res
	}
	res.Planned = true
	res.NumMoves = len(actions)
	return res
}

// randomBoard scatters a random mix of units for both sides, always
// including one necromancer each so the board is a legal starting point
// for an attack phase.
func randomBoard(rng *rand.Rand, maxPieces int) *board.Board {
	b := board.NewBoard()

	occupied := make(map[board.Loc]bool)
	place := func(side board.Side, ut board.UnitType) {
		for attempt := 0; attempt < 50; attempt++ {
			loc := board.NewLoc(rng.Intn(board.Width), rng.Intn(board.Height))
			if occupied[loc] {
				continue
			}
			occupied[loc] = true
			b.Place(&board.Piece{Loc: loc, Side: side, Type: ut})
			return
		}
	}

	place(board.Yellow, board.BasicNecromancer)
	place(board.Blue, board.BasicNecromancer)

	for _, side := range []board.Side{board.Yellow, board.Blue} {
		n := rng.Intn(maxPieces)
		for i := 0; i < n; i++ {
			ut := board.UnitType(rng.Intn(int(board.BasicNecromancer)))
			place(side, ut)
		}
	}
	return b
}

func printSummary(results []gameResult) {
	var planned, failed int
	var totalMoves int
	var totalElapsed time.Duration
	errCounts := make(map[string]int)

	for _, r := range results {
		totalElapsed += r.Elapsed
		if r.Planned {
			planned++
			totalMoves += r.NumMoves
			continue
		}
		failed++
		errCounts[r.Err]++
	}

	fmt.Printf("\nArena results (%d boards):\n", len(results))
	fmt.Printf("  planned:   %d (%.1f%%)\n", planned, pct(planned, len(results)))
	fmt.Printf("  no plan:   %d (%.1f%%)\n", failed, pct(failed, len(results)))
	if planned > 0 {
		fmt.Printf("  avg actions per plan: %.2f\n", float64(totalMoves)/float64(planned))
	}
	if len(results) > 0 {
		fmt.Printf("  avg compute time:     %s\n", totalElapsed/time.Duration(len(results)))
	}

	if len(errCounts) > 0 {
		var msgs []string
		for msg := range errCounts {
			msgs = append(msgs, msg)
		}
		sort.Strings(msgs)
		fmt.Println("  failure breakdown:")
		for _, msg := range msgs {
			fmt.Printf("    %-30s %d\n", msg, errCounts[msg])
		}
	}
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}

func printJSON(results []gameResult) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(results)
}

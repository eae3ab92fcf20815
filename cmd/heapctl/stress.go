package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/heapkit/arena/alloc"
	"github.com/joshuapare/heapkit/internal/logger"
)

var (
	stressWorkers int
	stressBlocks  int
	stressSize    int
	stressRounds  int
)

func init() {
	cmd := newStressCmd()
	cmd.Flags().IntVarP(&stressWorkers, "workers", "w", 10, "Concurrent workers")
	cmd.Flags().IntVarP(&stressBlocks, "blocks", "n", 200, "Blocks each worker holds per round")
	cmd.Flags().IntVarP(&stressSize, "size", "s", 4, "Payload bytes per block")
	cmd.Flags().IntVarP(&stressRounds, "rounds", "r", 1, "Allocate-verify-free rounds per worker")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Run concurrent allocate-write-verify-free cycles",
		Long: `The stress command starts several workers that each allocate a batch of
blocks, stamp every payload with a worker tag, check the tags and free the
batch again. After all workers finish the chain must have collapsed into a
single free block.

Example:
  heapctl stress
  heapctl stress --workers 32 --blocks 1000 --size 24
  heapctl stress --aligned --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress(cmd.Context())
		},
	}
	return cmd
}

// StressResult is the JSON form of a stress run.
type StressResult struct {
	Workers  int         `json:"workers"`
	Blocks   int         `json:"blocks"`
	Size     int         `json:"size"`
	Rounds   int         `json:"rounds"`
	Duration string      `json:"duration"`
	Verified bool        `json:"verified"`
	Error    string      `json:"error,omitempty"`
	Stats    alloc.Stats `json:"stats"`
}

func runStress(ctx context.Context) error {
	if stressWorkers < 1 || stressBlocks < 1 || stressSize < 1 || stressRounds < 1 {
		return fmt.Errorf("workers, blocks, size and rounds must be positive")
	}

	a, r, err := newAllocator()
	if err != nil {
		return err
	}
	defer r.Close()

	printVerbose("Starting %d workers x %d blocks of %d bytes\n", stressWorkers, stressBlocks, stressSize)

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := range stressWorkers {
		g.Go(func() error {
			return stressWorker(ctx, a, w)
		})
	}
	runErr := g.Wait()
	elapsed := time.Since(start)

	verr := a.Verify()
	if runErr == nil {
		runErr = checkDrained(a)
	}

	result := StressResult{
		Workers:  stressWorkers,
		Blocks:   stressBlocks,
		Size:     stressSize,
		Rounds:   stressRounds,
		Duration: elapsed.String(),
		Verified: verr == nil,
		Stats:    a.Stats(),
	}
	if err := firstErr(runErr, verr); err != nil {
		result.Error = err.Error()
		logger.Error("stress run failed", "err", err, "workers", stressWorkers)
	} else {
		logger.Info("stress run finished", "workers", stressWorkers, "elapsed", elapsed, "committed", result.Stats.Committed)
	}

	if jsonOut {
		if err := printJSON(result); err != nil {
			return err
		}
	} else {
		printStressResult(result)
		if verbose {
			a.PrintStats(os.Stdout)
		}
	}
	return firstErr(runErr, verr)
}

// stressWorker runs the configured rounds for worker w. Every payload byte is
// stamped with the worker's tag so cross-worker overlap shows up as a mismatch.
func stressWorker(ctx context.Context, a *alloc.Allocator, w int) error {
	tag := byte(w%255 + 1)
	ptrs := make([]alloc.Ptr, stressBlocks)

	for round := range stressRounds {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i := range ptrs {
			p := a.Alloc(stressSize)
			if p.IsNil() {
				// Release what this round already holds so the chain stays consistent.
				for _, q := range ptrs[:i] {
					a.Free(q)
				}
				return fmt.Errorf("worker %d round %d: allocation %d failed", w, round, i)
			}
			b := a.Bytes(p)
			for j := range b {
				b[j] = tag
			}
			ptrs[i] = p
		}
		for i, p := range ptrs {
			for _, v := range a.Bytes(p) {
				if v != tag {
					return fmt.Errorf("worker %d round %d: block %d overwritten (tag %d, found %d)", w, round, i, tag, v)
				}
			}
		}
		for _, p := range ptrs {
			a.Free(p)
		}
	}
	return nil
}

// checkDrained reports an error unless the chain is a single free block.
func checkDrained(a *alloc.Allocator) error {
	blocks := a.Snapshot()
	if len(blocks) == 1 && blocks[0].Free {
		return nil
	}
	used := 0
	for _, b := range blocks {
		if !b.Free {
			used++
		}
	}
	return fmt.Errorf("chain did not collapse: %d blocks, %d occupied", len(blocks), used)
}

func printStressResult(r StressResult) {
	printInfo("Workers:    %d x %d blocks x %d rounds (%s payload each)\n",
		r.Workers, r.Blocks, r.Rounds, humanize.IBytes(uint64(r.Size)))
	printInfo("Duration:   %s\n", r.Duration)
	printInfo("Operations: %s allocs, %s frees\n",
		humanize.Comma(int64(r.Stats.AllocCalls)), humanize.Comma(int64(r.Stats.FreeCalls)))
	printInfo("Committed:  %s in %d growth steps\n",
		humanize.IBytes(uint64(r.Stats.Committed)), r.Stats.GrowCalls)
	printInfo("Chain:      %d blocks, %s free\n",
		r.Stats.Blocks, humanize.IBytes(uint64(r.Stats.FreeBytes)))
	if r.Verified {
		printInfo("Verify:     OK\n")
	} else {
		printInfo("Verify:     FAILED\n")
	}
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

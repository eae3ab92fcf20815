package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/arena/alloc"
	"github.com/joshuapare/heapkit/internal/logger"
)

var replayDump bool

func init() {
	cmd := newReplayCmd()
	cmd.Flags().BoolVar(&replayDump, "dump", false, "Print the full header listing at the end")
	rootCmd.AddCommand(cmd)
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <trace>",
		Short: "Replay an allocation trace",
		Long: `The replay command runs a recorded trace against a fresh allocator and
prints the resulting block chain. Use "-" to read the trace from stdin.

Trace format, one operation per line:
  a <id> <size>   allocate size bytes and name the block id
  f <id>          free the block named id
  s               print a snapshot of the chain
Blank lines and lines starting with # are ignored.

Example:
  heapctl replay scenario.trace
  heapctl replay scenario.trace --dump
  heapctl replay - --json < scenario.trace`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(args)
		},
	}
	return cmd
}

// ReplayResult is the JSON form of a replay run.
type ReplayResult struct {
	Operations int                 `json:"operations"`
	Failed     []string            `json:"failed,omitempty"`
	Snapshots  [][]alloc.BlockInfo `json:"snapshots,omitempty"`
	Final      []alloc.BlockInfo   `json:"final"`
	Stats      alloc.Stats         `json:"stats"`
}

// traceOp is one parsed trace line.
type traceOp struct {
	line int
	kind byte
	id   string
	size int
}

func runReplay(args []string) error {
	var in io.Reader
	if args[0] == "-" {
		in = os.Stdin
	} else {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open trace: %w", err)
		}
		defer f.Close()
		in = f
	}

	ops, err := parseTrace(in)
	if err != nil {
		return err
	}
	printVerbose("Parsed %d operations from %s\n", len(ops), args[0])

	a, r, err := newAllocator()
	if err != nil {
		return err
	}
	defer r.Close()

	result := ReplayResult{Operations: len(ops)}
	live := make(map[string]alloc.Ptr)

	for _, op := range ops {
		switch op.kind {
		case 'a':
			if _, dup := live[op.id]; dup {
				return fmt.Errorf("line %d: block %q is already allocated", op.line, op.id)
			}
			p := a.Alloc(op.size)
			if p.IsNil() {
				result.Failed = append(result.Failed, op.id)
				printVerbose("line %d: alloc %s (%d bytes) failed\n", op.line, op.id, op.size)
				continue
			}
			live[op.id] = p
			printVerbose("line %d: alloc %s -> %#x\n", op.line, op.id, a.Addr(p))
		case 'f':
			p, ok := live[op.id]
			if !ok {
				logger.Debug("replay free of unknown block", "line", op.line, "id", op.id)
				return fmt.Errorf("line %d: block %q is not allocated", op.line, op.id)
			}
			a.Free(p)
			delete(live, op.id)
			printVerbose("line %d: free %s\n", op.line, op.id)
		case 's':
			snap := a.Snapshot()
			result.Snapshots = append(result.Snapshots, snap)
			if !jsonOut {
				printInfo("Snapshot at line %d:\n", op.line)
				printBlocks(snap)
			}
		}
	}

	if err := a.Verify(); err != nil {
		return fmt.Errorf("chain verification failed: %w", err)
	}

	result.Final = a.Snapshot()
	result.Stats = a.Stats()

	if jsonOut {
		return printJSON(result)
	}

	printInfo("Final chain after %d operations:\n", result.Operations)
	printBlocks(result.Final)
	printInfo("Committed: %s, %d live allocations\n",
		humanize.IBytes(uint64(result.Stats.Committed)), len(live))
	if len(result.Failed) > 0 {
		printInfo("Failed allocations: %s\n", strings.Join(result.Failed, ", "))
	}
	if replayDump && !quiet {
		return a.Dump(os.Stdout)
	}
	return nil
}

// parseTrace reads every operation from r, reporting the first malformed line.
func parseTrace(r io.Reader) ([]traceOp, error) {
	var ops []traceOp
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		op := traceOp{line: line}

		switch fields[0] {
		case "a":
			if len(fields) != 3 {
				return nil, fmt.Errorf("line %d: expected \"a <id> <size>\"", line)
			}
			size, err := strconv.Atoi(fields[2])
			if err != nil || size < 0 {
				return nil, fmt.Errorf("line %d: invalid size %q", line, fields[2])
			}
			op.kind, op.id, op.size = 'a', fields[1], size
		case "f":
			if len(fields) != 2 {
				return nil, fmt.Errorf("line %d: expected \"f <id>\"", line)
			}
			op.kind, op.id = 'f', fields[1]
		case "s":
			if len(fields) != 1 {
				return nil, fmt.Errorf("line %d: expected \"s\"", line)
			}
			op.kind = 's'
		default:
			return nil, fmt.Errorf("line %d: unknown operation %q", line, fields[0])
		}
		ops = append(ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}
	return ops, nil
}

func printBlocks(blocks []alloc.BlockInfo) {
	for i, b := range blocks {
		state := "occupied"
		if b.Free {
			state = "free"
		}
		printInfo("  [%d] %-8s %s\n", i, state, humanize.Comma(int64(b.Size)))
	}
}

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sambeau/cplx/pkg/calc/errors"
	"github.com/sambeau/cplx/pkg/calc/history"
	"github.com/sambeau/cplx/pkg/calc/op"
	"github.com/sambeau/cplx/pkg/calc/value"
)

// batchResult is the JSON rendering of one batch item: either a value or an
// error, never both. Line numbers are 1-based and count every input line,
// including skipped ones.
type batchResult struct {
	Line   int               `json:"line"`
	Input  string            `json:"input"`
	Result *value.Structured `json:"result,omitempty"`
	Error  *errors.CalcError `json:"error,omitempty"`
}

// runBatchPath evaluates every operand in the named file ('-' for stdin).
func runBatchPath(path string, stdin io.Reader, inv op.Invocation, precision int, jsonMode bool, store *history.Store, stdout, stderr io.Writer) int {
	in := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintf(stderr, "Error reading %s: %v\n", path, err)
			return 2
		}
		defer f.Close()
		in = f
	}
	return runBatch(in, inv, precision, jsonMode, store, stdout, stderr)
}

// runBatch processes one operand per line. Items are independent: a failed
// line is reported in place and the batch continues, preserving input order.
// Returns 1 if any item failed, 0 otherwise.
func runBatch(in io.Reader, inv op.Invocation, precision int, jsonMode bool, store *history.Store, stdout, stderr io.Writer) int {
	scanner := bufio.NewScanner(in)
	lineNum := 0
	failed := false

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		result, cerr := evalOperand(line, inv, store)
		if cerr != nil {
			failed = true
			if jsonMode {
				writeJSON(stdout, batchResult{Line: lineNum, Input: line, Error: cerr})
			} else {
				fmt.Fprintf(stderr, "line %d: %s\n", lineNum, cerr.String())
			}
			continue
		}

		if jsonMode {
			s := value.Structure(result)
			writeJSON(stdout, batchResult{Line: lineNum, Input: line, Result: &s})
		} else {
			printResult(stdout, result, precision, false)
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(stderr, "Error reading input: %v\n", err)
		return 2
	}
	if failed {
		return 1
	}
	return 0
}

// evalOperand coerces one operand line and applies the invocation to it.
func evalOperand(operand string, inv op.Invocation, store *history.Store) (value.Value, *errors.CalcError) {
	z, cerr := value.ParseOperand(operand)
	if cerr != nil {
		return nil, cerr
	}
	result, cerr := inv.Apply(z)
	if cerr != nil {
		return nil, cerr
	}

	if store != nil {
		// Best-effort: batch throughput should not depend on the history db.
		_ = store.Record(history.Entry{
			Selector: string(inv.Selector()),
			Operand:  operand,
			Result:   result.Inspect(),
		})
	}
	return result, nil
}

func writeJSON(out io.Writer, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintln(out, string(data))
}

// watchBatch evaluates the batch file, then re-evaluates it whenever it
// changes, until the context is cancelled. Editors often replace files
// rather than write them in place, so the parent directory is watched and
// events are debounced.
func watchBatch(ctx context.Context, path string, inv op.Invocation, precision int, jsonMode bool, store *history.Store, stdout, stderr io.Writer) int {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(stderr, "Error creating watcher: %v\n", err)
		return 2
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error resolving %s: %v\n", path, err)
		return 2
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		fmt.Fprintf(stderr, "Error watching %s: %v\n", filepath.Dir(absPath), err)
		return 2
	}

	code := runBatchPath(path, nil, inv, precision, jsonMode, store, stdout, stderr)
	fmt.Fprintf(stderr, "Watching %s (Ctrl+C to stop)\n", path)

	const debounce = 100 * time.Millisecond
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return code

		case event, ok := <-watcher.Events:
			if !ok {
				return code
			}
			if event.Name != absPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			// Debounce rapid changes
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
			} else {
				timer.Reset(debounce)
			}

		case <-timerC:
			timerC = nil
			timer = nil
			fmt.Fprintf(stderr, "%s changed, re-evaluating\n", path)
			code = runBatchPath(path, nil, inv, precision, jsonMode, store, stdout, stderr)

		case werr, ok := <-watcher.Errors:
			if !ok {
				return code
			}
			fmt.Fprintf(stderr, "Watcher error: %v\n", werr)
		}
	}
}

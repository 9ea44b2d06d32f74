// Package repl implements the interactive calculator loop.
package repl

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/sambeau/cplx/pkg/calc/history"
	"github.com/sambeau/cplx/pkg/calc/op"
	"github.com/sambeau/cplx/pkg/calc/value"
)

const defaultPrompt = ">> "

// Options configures the REPL.
type Options struct {
	Prompt          string
	HistoryFile     string         // liner line-history file; defaults to a temp file
	Store           *history.Store // evaluation history, may be nil
	DefaultSelector op.Selector
	Precision       int
	JSON            bool
}

// Start runs the interactive loop until exit/quit or Ctrl+D.
func Start(out io.Writer, version string, opts Options) {
	line := liner.NewLiner()
	defer line.Close()

	// Enable Ctrl+C to abort current line
	line.SetCtrlCAborts(true)

	// Tab completion over operation names and meta-commands
	line.SetCompleter(completions)

	// Load command history from file
	historyFile := opts.HistoryFile
	if historyFile == "" {
		historyFile = filepath.Join(os.TempDir(), ".cplx_history")
	}
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	// Save history on exit
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	prompt := opts.Prompt
	if prompt == "" {
		prompt = defaultPrompt
	}
	if opts.DefaultSelector == "" {
		opts.DefaultSelector = op.Default
	}

	fmt.Fprintf(out, "cplx v%s — complex number calculator\n", version)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Type 'exit' or Ctrl+D to quit")
	fmt.Fprintln(out, "Use Tab for completion, ↑↓ for history")
	fmt.Fprintln(out, "Type ':help' for commands, ':ops' for operations")
	fmt.Fprintln(out, "")

	jsonMode := opts.JSON

	for {
		input, err := line.Prompt(prompt)
		if err != nil {
			// Ctrl+D or Ctrl+C
			if err == liner.ErrPromptAborted {
				fmt.Fprintln(out, "^C")
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(out, "Error reading input: %v\n", err)
			continue
		}

		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		if trimmed == "exit" || trimmed == "quit" {
			fmt.Fprintln(out, "Goodbye!")
			return
		}

		// REPL commands (start with :)
		if strings.HasPrefix(trimmed, ":") {
			jsonMode = handleCommand(trimmed, out, opts, jsonMode)
			continue
		}

		line.AppendHistory(trimmed)

		EvalLine(trimmed, out, opts.Store, opts.DefaultSelector, opts.Precision, jsonMode)
	}
}

// EvalLine parses and evaluates one REPL line: "<operation> <operand>
// [argument]", or a bare operand for the default operation.
func EvalLine(input string, out io.Writer, store *history.Store, defaultSel op.Selector, precision int, jsonMode bool) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return
	}

	sel := defaultSel
	if op.Known(op.Selector(fields[0])) {
		sel = op.Selector(fields[0])
		fields = fields[1:]
	}

	if len(fields) == 0 {
		fmt.Fprintf(out, "Usage error:\n  %s needs an operand, e.g. %s 2+3i\n", sel, sel)
		return
	}

	z, cerr := value.ParseOperand(fields[0])
	if cerr != nil {
		fmt.Fprintln(out, cerr.PrettyString())
		return
	}

	var inv op.Invocation
	switch {
	case op.IsBinary(sel) && len(fields) >= 2:
		arg, aerr := value.ParseOperand(fields[1])
		if aerr != nil {
			fmt.Fprintln(out, aerr.PrettyString())
			return
		}
		inv, cerr = op.Binary(sel, arg)
	case len(fields) >= 2:
		fmt.Fprintf(out, "Usage error:\n  %s does not take a second operand\n", sel)
		return
	default:
		inv, cerr = op.Unary(sel)
	}
	if cerr != nil {
		fmt.Fprintln(out, cerr.PrettyString())
		return
	}

	result, cerr := inv.Apply(z)
	if cerr != nil {
		fmt.Fprintln(out, cerr.PrettyString())
		return
	}

	if jsonMode {
		data, err := json.Marshal(value.Structure(result))
		if err == nil {
			fmt.Fprintln(out, string(data))
		}
	} else {
		fmt.Fprintln(out, formatResult(result, precision))
	}

	if store != nil {
		entry := history.Entry{
			Selector: string(sel),
			Operand:  fields[0],
			Result:   result.Inspect(),
		}
		if len(fields) >= 2 {
			entry.Argument = fields[1]
		}
		// History is best-effort; a failed write never interrupts the session.
		_ = store.Record(entry)
	}
}

// formatResult renders a value with the configured precision.
func formatResult(v value.Value, precision int) string {
	prec := precision
	if prec == 0 {
		prec = -1
	}
	switch v := v.(type) {
	case *value.Complex:
		return v.Format(prec)
	case *value.Real:
		return v.Format(prec)
	default:
		return v.Inspect()
	}
}

// handleCommand handles REPL meta-commands that start with ':'. It returns
// the (possibly toggled) JSON output mode.
func handleCommand(cmd string, out io.Writer, opts Options, jsonMode bool) bool {
	fields := strings.Fields(cmd)

	switch fields[0] {
	case ":help", ":h", ":?":
		fmt.Fprintln(out, "Commands:")
		fmt.Fprintln(out, "  :help, :h, :?   Show this help")
		fmt.Fprintln(out, "  :ops            List operations")
		fmt.Fprintln(out, "  :json           Toggle structured JSON output")
		fmt.Fprintln(out, "  :history [n]    Show recent evaluations")
		fmt.Fprintln(out, "  exit, quit      Exit")
		fmt.Fprintln(out, "")
		fmt.Fprintln(out, "Evaluate with '<operation> <operand> [argument]':")
		fmt.Fprintln(out, "  negate 2+3i")
		fmt.Fprintln(out, "  pow 2+3i 2")
		fmt.Fprintf(out, "A bare operand applies the default operation (%s).\n", opts.DefaultSelector)
		return jsonMode

	case ":ops":
		for _, sel := range op.Selectors() {
			arity := "unary"
			if op.IsBinary(sel) {
				arity = "binary"
			}
			fmt.Fprintf(out, "  %-11s %s\n", sel, arity)
		}
		return jsonMode

	case ":json":
		if jsonMode {
			fmt.Fprintln(out, "JSON output off")
		} else {
			fmt.Fprintln(out, "JSON output on")
		}
		return !jsonMode

	case ":history":
		if opts.Store == nil {
			fmt.Fprintln(out, "History is disabled")
			return jsonMode
		}
		limit := 10
		if len(fields) > 1 {
			if n, err := strconv.Atoi(fields[1]); err == nil && n > 0 {
				limit = n
			}
		}
		entries, err := opts.Store.Recent(limit)
		if err != nil {
			fmt.Fprintf(out, "Error reading history: %v\n", err)
			return jsonMode
		}
		if len(entries) == 0 {
			fmt.Fprintln(out, "No history yet")
			return jsonMode
		}
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			if e.Argument != "" {
				fmt.Fprintf(out, "  %s %s %s = %s\n", e.Selector, e.Operand, e.Argument, e.Result)
			} else {
				fmt.Fprintf(out, "  %s %s = %s\n", e.Selector, e.Operand, e.Result)
			}
		}
		return jsonMode

	default:
		fmt.Fprintf(out, "Unknown command %s (try :help)\n", fields[0])
		return jsonMode
	}
}

// completions returns candidate words for tab completion.
func completions(line string) []string {
	words := make([]string, 0, len(op.Selectors())+6)
	for _, sel := range op.Selectors() {
		words = append(words, string(sel))
	}
	words = append(words, ":help", ":ops", ":json", ":history", "exit", "quit")

	if line == "" {
		return words
	}
	var matches []string
	for _, w := range words {
		if strings.HasPrefix(w, line) {
			matches = append(matches, w)
		}
	}
	return matches
}

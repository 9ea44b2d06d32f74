package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sambeau/cplx/config"
	"github.com/sambeau/cplx/pkg/calc/errors"
	"github.com/sambeau/cplx/pkg/calc/history"
	"github.com/sambeau/cplx/pkg/calc/op"
	"github.com/sambeau/cplx/pkg/calc/repl"
	"github.com/sambeau/cplx/pkg/calc/value"
)

// Version is set at compile time via -ldflags
var Version = "0.3.1"

func main() {
	ctx := context.Background()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Getenv))
}

// run is the main entry point, designed for testability (Mat Ryer pattern).
// Exit codes: 0 success, 1 evaluation or batch failure, 2 usage error.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) int {
	flags := flag.NewFlagSet("cplx", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() { printHelp(stderr) }

	var (
		helpFlag      = flags.Bool("h", false, "Show help message")
		helpLongFlag  = flags.Bool("help", false, "Show help message")
		versionFlag   = flags.Bool("V", false, "Show version information")
		versionLong   = flags.Bool("version", false, "Show version information")
		jsonFlag      = flags.Bool("j", false, "Structured JSON output")
		jsonLongFlag  = flags.Bool("json", false, "Structured JSON output")
		batchFlag     = flags.String("b", "", "Read operands from file ('-' for stdin)")
		batchLongFlag = flags.String("batch", "", "Read operands from file ('-' for stdin)")
		watchFlag     = flags.Bool("watch", false, "With --batch FILE, re-evaluate when the file changes")
		configFlag    = flags.String("config", "", "Path to config file")
		precisionFlag = flags.Int("precision", -1, "Significant digits in output (default: from config)")
		noHistoryFlag = flags.Bool("no-history", false, "Do not record evaluations to the history database")
	)

	// One boolean flag per operation; exactly one may be set.
	opFlags := make(map[op.Selector]*bool, 18)
	for _, sel := range op.Selectors() {
		opFlags[sel] = flags.Bool(string(sel), false, op.Description(sel))
	}

	if err := flags.Parse(args); err != nil {
		return 2
	}

	if *helpFlag || *helpLongFlag {
		printHelp(stdout)
		return 0
	}
	if *versionFlag || *versionLong {
		fmt.Fprintf(stdout, "cplx version %s\n", Version)
		return 0
	}

	cfg, err := config.Load(*configFlag, getenv)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	// CLI flags override config
	jsonMode := cfg.Output.Format == "json" || *jsonFlag || *jsonLongFlag
	precision := cfg.Output.Precision
	if *precisionFlag >= 0 {
		precision = *precisionFlag
	}

	sel, cerr := selectOperation(opFlags, cfg.DefaultOperation)
	if cerr != nil {
		fmt.Fprintln(stderr, cerr.PrettyString())
		return 2
	}

	batchPath := *batchFlag
	if batchPath == "" {
		batchPath = *batchLongFlag
	}
	if *watchFlag && (batchPath == "" || batchPath == "-") {
		fmt.Fprintln(stderr, "Error: --watch requires --batch with a file path")
		return 2
	}

	// The history store is a convenience; failure to open it is a warning.
	var store *history.Store
	if cfg.History.Enabled && !*noHistoryFlag {
		path := cfg.History.Path
		if path == "" {
			path, err = history.DefaultPath()
		}
		if err == nil {
			store, err = history.Open(path)
		}
		if err != nil {
			fmt.Fprintf(stderr, "Warning: history disabled: %v\n", err)
			store = nil
		}
	}
	if store != nil {
		defer store.Close()
	}

	// Mode dispatch
	switch {
	case batchPath != "":
		// In batch mode the only positional argument allowed is the second
		// operand of a binary selector; primary operands come from the input.
		allowed := 0
		if op.IsBinary(sel) {
			allowed = 1
		}
		if len(flags.Args()) > allowed {
			fmt.Fprintln(stderr, "Error: --batch reads operands from its input, not the command line")
			return 2
		}
		inv, cerr := buildInvocation(sel, flags.Args(), 0)
		if cerr != nil {
			fmt.Fprintln(stderr, cerr.PrettyString())
			return 2
		}
		if *watchFlag {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watchBatch(ctx, batchPath, inv, precision, jsonMode, store, stdout, stderr)
		}
		return runBatchPath(batchPath, stdin, inv, precision, jsonMode, store, stdout, stderr)

	case len(flags.Args()) > 0:
		return executeOne(sel, flags.Args(), precision, jsonMode, store, stdout, stderr)

	default:
		repl.Start(stdout, Version, repl.Options{
			Prompt:          cfg.REPL.Prompt,
			HistoryFile:     cfg.REPL.HistoryFile,
			Store:           store,
			DefaultSelector: sel,
			Precision:       precision,
			JSON:            jsonMode,
		})
		return 0
	}
}

// selectOperation maps the boolean operation flags to a single selector.
// More than one is a usage error; none falls back to the configured default.
func selectOperation(opFlags map[op.Selector]*bool, configured string) (op.Selector, *errors.CalcError) {
	var selected []op.Selector
	for _, sel := range op.Selectors() {
		if *opFlags[sel] {
			selected = append(selected, sel)
		}
	}

	switch len(selected) {
	case 0:
		sel := op.Selector(configured)
		if configured == "" {
			sel = op.Default
		}
		if !op.Known(sel) {
			return "", errors.NewConfig("CONF-0004", "default_operation %q is not an operation", configured)
		}
		return sel, nil
	case 1:
		return selected[0], nil
	default:
		err := errors.NewConfig("CONF-0005", "operation flags are mutually exclusive (got %d)", len(selected))
		for _, sel := range selected {
			err = err.WithHints("--" + string(sel))
		}
		return "", err
	}
}

// buildInvocation coerces the second positional operand (if the selector
// needs one) and binds it. argOffset is the index of the second operand in
// args: 1 in one-shot mode (after the primary operand), 0 in batch mode.
func buildInvocation(sel op.Selector, args []string, argOffset int) (op.Invocation, *errors.CalcError) {
	if !op.IsBinary(sel) {
		if len(args) > argOffset {
			return op.Invocation{}, errors.NewConfig("CONF-0003", "%s does not take a second operand", sel)
		}
		return op.Unary(sel)
	}

	if len(args) <= argOffset {
		return op.Invocation{}, errors.NewConfig("CONF-0001", "%s requires a second operand", sel).
			WithHints(fmt.Sprintf("cplx --%s 2+3i 2", sel))
	}
	arg, cerr := value.ParseOperand(args[argOffset])
	if cerr != nil {
		return op.Invocation{}, cerr
	}
	return op.Binary(sel, arg)
}

// executeOne evaluates a single operand given on the command line.
func executeOne(sel op.Selector, args []string, precision int, jsonMode bool, store *history.Store, stdout, stderr io.Writer) int {
	extra := 1
	if op.IsBinary(sel) {
		extra = 2
	}
	if len(args) > extra {
		fmt.Fprintf(stderr, "Error: unexpected argument %q\n", args[extra])
		return 2
	}

	inv, cerr := buildInvocation(sel, args, 1)
	if cerr != nil {
		fmt.Fprintln(stderr, cerr.PrettyString())
		return 2
	}

	z, cerr := value.ParseOperand(args[0])
	if cerr != nil {
		fmt.Fprintln(stderr, cerr.PrettyString())
		return 1
	}

	result, cerr := inv.Apply(z)
	if cerr != nil {
		fmt.Fprintln(stderr, cerr.PrettyString())
		return 1
	}

	printResult(stdout, result, precision, jsonMode)

	if store != nil {
		entry := history.Entry{Selector: string(sel), Operand: args[0], Result: result.Inspect()}
		if len(args) > 1 {
			entry.Argument = args[1]
		}
		if err := store.Record(entry); err != nil {
			fmt.Fprintf(stderr, "Warning: %v\n", err)
		}
	}

	return 0
}

// printResult renders a result to out in the configured format.
func printResult(out io.Writer, result value.Value, precision int, jsonMode bool) {
	if jsonMode {
		data, err := json.Marshal(value.Structure(result))
		if err == nil {
			fmt.Fprintln(out, string(data))
		}
		return
	}

	prec := precision
	if prec == 0 {
		prec = -1
	}
	switch v := result.(type) {
	case *value.Complex:
		fmt.Fprintln(out, v.Format(prec))
	case *value.Real:
		fmt.Fprintln(out, v.Format(prec))
	default:
		fmt.Fprintln(out, result.Inspect())
	}
}

func printHelp(out io.Writer) {
	fmt.Fprintf(out, `cplx - complex number calculator version %s

Usage:
  cplx [options] [--<operation>] <operand> [argument]
  cplx [options] [--<operation>] -b <file|->
  cplx

Operands are complex literals (2+3i, -1.5i, (4-2i)), real numbers, or
numeric strings. Exactly one operation flag may be given; without one the
default operation (conjugate) is applied. The pow and log operations take a
second operand: the exponent and the logarithm base respectively.

Operations:
  --conjugate --reciprocal --negate --abs
  --acos --asin --atan --cos --cosh --sin --sinh --tan --tanh
  --exp --log10 --sqrt
  --pow <argument>   --log <argument>

Options:
  -h, --help            Show this help message
  -V, --version         Show version information
  -j, --json            Structured output: real, imag, magnitude, phase
  -b, --batch <file>    Read operands from file, one per line ('-' for stdin)
  --watch               With --batch FILE, re-evaluate when the file changes
  --config <path>       Config file (default: ./cplx.yaml, ~/.config/cplx/cplx.yaml)
  --precision <n>       Significant digits in output
  --no-history          Do not record evaluations to the history database

Examples:
  cplx 2+3i                     Conjugate (the default): 2-3i
  cplx --negate 2+3i            -2-3i
  cplx --negate -- -1.5i        Use -- before operands with a leading minus
  cplx --abs 3                  3
  cplx --pow 2+3i 2             Square of 2+3i
  cplx --log 2+3i 2             Log of 2+3i in base 2
  cplx --pow 2+3i "2"           Numeric strings coerce like numbers
  cplx --sqrt -b points.txt     Square root of every operand in the file
  cplx -j --exp 1+1i            {"real":..., "imag":..., "magnitude":..., "phase":...}
  cplx                          Start the interactive REPL
`, Version)
}

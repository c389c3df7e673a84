package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/peterh/liner"
	"github.com/rhino1998/dimcalc/pkg/config"
	"github.com/rhino1998/dimcalc/pkg/grammar"
	"github.com/rhino1998/dimcalc/pkg/interpreter"
	"github.com/rhino1998/dimcalc/pkg/parser"
)

const (
	Prompt             = ">> "
	ContinuationPrompt = ".. "
)

// ErrQuit is returned by Eval when the input asks to leave the loop.
var ErrQuit = errors.New("quit")

type Options struct {
	// Format is config.FormatText or config.FormatLaTeX.
	Format string
	// HistoryFile is read on start and written on exit when set.
	HistoryFile string
}

type REPL struct {
	logger *slog.Logger
	parser *parser.Parser
	interp *interpreter.Interpreter
	scope  *interpreter.Scope
	out    io.Writer
	opts   Options
}

func New(logger *slog.Logger, p *parser.Parser, out io.Writer, opts Options) *REPL {
	return &REPL{
		logger: logger,
		parser: p,
		interp: interpreter.New(logger),
		scope:  interpreter.NewGlobalScope(),
		out:    out,
		opts:   opts,
	}
}

func (r *REPL) Scope() *interpreter.Scope {
	return r.scope
}

// Run reads lines from the terminal until EOF, :quit or ctx is done.
func (r *REPL) Run(ctx context.Context) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(r.Complete)

	if r.opts.HistoryFile != "" {
		if f, err := os.Open(r.opts.HistoryFile); err == nil {
			_, err := line.ReadHistory(f)
			if err != nil {
				r.logger.Warn("failed to read history", slog.String("file", r.opts.HistoryFile), slog.Any("err", err))
			}
			f.Close()
		}

		defer func() {
			f, err := os.Create(r.opts.HistoryFile)
			if err != nil {
				r.logger.Warn("failed to write history", slog.String("file", r.opts.HistoryFile), slog.Any("err", err))
				return
			}
			defer f.Close()

			_, err = line.WriteHistory(f)
			if err != nil {
				r.logger.Warn("failed to write history", slog.String("file", r.opts.HistoryFile), slog.Any("err", err))
			}
		}()
	}

	fmt.Fprintln(r.out, "Type :help for commands, Ctrl+D to quit")

	var buf strings.Builder
	for ctx.Err() == nil {
		prompt := Prompt
		if buf.Len() > 0 {
			prompt = ContinuationPrompt
		}

		input, err := line.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			buf.Reset()
			continue
		} else if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out)
			return nil
		} else if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(input)

		full := buf.String()
		if needsMoreInput(full) {
			continue
		}
		buf.Reset()

		if strings.TrimSpace(full) == "" {
			continue
		}

		line.AppendHistory(full)

		err = r.Eval(ctx, full)
		if errors.Is(err, ErrQuit) {
			return nil
		} else if err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
	}

	return ctx.Err()
}

// Eval runs one chunk of input, either a ':' command or program text, and
// writes any results.
func (r *REPL) Eval(ctx context.Context, input string) error {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, ":") {
		return r.command(trimmed)
	}

	prog, err := r.parser.ParseProgram("", input)
	if err != nil {
		return err
	}

	results, err := r.interp.Execute(ctx, r.scope, prog)
	if err != nil {
		return err
	}

	return WriteResults(r.out, results, r.opts.Format)
}

func (r *REPL) command(cmd string) error {
	name, arg, _ := strings.Cut(cmd, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case ":help", ":h", ":?":
		fmt.Fprintln(r.out, "Commands:")
		fmt.Fprintln(r.out, "  :help          show this help")
		fmt.Fprintln(r.out, "  :vars          list variables in scope")
		fmt.Fprintln(r.out, "  :units [sym]   list known units, or resolve one")
		fmt.Fprintln(r.out, "  :quit          leave")
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, "Statements:")
		fmt.Fprintln(r.out, "  x = 5 km       bind a variable")
		fmt.Fprintln(r.out, "  print x -> m   print in a unit")
		fmt.Fprintln(r.out, "  x / (2 s)      evaluate an expression")
		return nil
	case ":vars":
		WriteVariables(r.out, r.scope.Variables())
		return nil
	case ":units":
		if arg == "" {
			WriteUnits(r.out, r.parser.Table())
			return nil
		}

		up, err := r.parser.ParseUnit(arg)
		if err != nil {
			return err
		}
		fmt.Fprintln(r.out, up)
		return nil
	case ":quit", ":q", ":exit":
		return ErrQuit
	default:
		return fmt.Errorf("unknown command %s (type :help for commands)", name)
	}
}

// Complete offers completions for the identifier under the cursor at the
// end of line, drawn from variables, unit symbols and keywords.
func (r *REPL) Complete(line string) []string {
	start := len(line)
	for start > 0 {
		c, size := utf8.DecodeLastRuneInString(line[:start])
		if c != '_' && !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			break
		}
		start -= size
	}

	word := line[start:]
	if word == "" {
		return nil
	}

	candidates := []string{grammar.KeywordPrint}
	for _, v := range r.scope.Variables() {
		candidates = append(candidates, v.Name())
	}
	candidates = append(candidates, r.parser.Table().Symbols()...)

	slices.Sort(candidates)
	candidates = slices.Compact(candidates)

	var matches []string
	for _, c := range candidates {
		if strings.HasPrefix(c, word) && c != word {
			matches = append(matches, line[:start]+c)
		}
	}

	return matches
}

// needsMoreInput reports whether input has unclosed parentheses.
func needsMoreInput(input string) bool {
	depth := 0
	for _, line := range strings.Split(input, "\n") {
		line, _, _ = strings.Cut(line, "#")
		depth += strings.Count(line, "(") - strings.Count(line, ")")
	}

	return depth > 0
}

func isLaTeX(format string) bool {
	return format == config.FormatLaTeX
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/einah-lang/einah/pkg/config"
	"github.com/einah-lang/einah/pkg/interpreter"
	"github.com/einah-lang/einah/pkg/parser"
	"github.com/peterh/liner"
)

const (
	promptMain = "einah> "
	promptCont = "  ...> "
	astSuffix  = "#ast"

	// cursor home, then erase the display
	clearScreen = "\x1b[H\x1b[2J"
)

const helpText = `Statements end with '~'. Unfinished input continues on the next line.

  help         show this message
  clear        clear the screen
  reset        forget every declaration
  exit, quit   leave the session
  <enter>      run the previous input again
  <input>#ast  print the syntax tree instead of running
`

// session holds the state of one interactive run. Declarations persist in
// the interpreter's root scope until reset.
type session struct {
	logger *slog.Logger
	cfg    *config.Config
	out    io.Writer
	errOut io.Writer

	interp *interpreter.Interpreter
	last   string
}

func newSession(logger *slog.Logger, cfg *config.Config, out, errOut io.Writer) (*session, error) {
	interp, err := newInterpreter(logger, cfg, out)
	if err != nil {
		return nil, err
	}

	return &session{
		logger: logger,
		cfg:    cfg,
		out:    out,
		errOut: errOut,
		interp: interp,
	}, nil
}

func isCommand(line string) bool {
	switch strings.TrimSpace(line) {
	case "", "help", "clear", "reset", "exit", "quit":
		return true
	default:
		return false
	}
}

// handle processes one submission and reports whether the session goes on.
// Errors are printed and only discard the submission.
func (s *session) handle(ctx context.Context, input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		if s.last == "" {
			return true
		}
		input = s.last
	}

	switch input {
	case "exit", "quit":
		return false
	case "help":
		fmt.Fprint(s.out, helpText)
		return true
	case "clear":
		fmt.Fprint(s.out, clearScreen)
		return true
	case "reset":
		interp, err := newInterpreter(s.logger, s.cfg, s.out)
		if err != nil {
			fmt.Fprintln(s.errOut, err)
			return true
		}
		s.interp = interp
		return true
	}

	s.last = input

	if src, ok := strings.CutSuffix(input, astSuffix); ok {
		err := dumpAST(s.out, src)
		if err != nil {
			fmt.Fprintln(s.errOut, err)
		}
		return true
	}

	val, err := s.interp.Run(ctx, "repl", input)
	if err != nil {
		fmt.Fprintln(s.errOut, err)
		return true
	}

	if !interpreter.IsNull(val) {
		fmt.Fprintln(s.out, interpreter.Render(val))
	}

	return true
}

// readInput prompts until the collected lines no longer end mid-statement.
func readInput(ln *liner.State) (string, error) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if err != nil {
			return "", err
		}

		if b.Len() == 0 && isCommand(line) {
			return line, nil
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := strings.TrimSuffix(strings.TrimSpace(b.String()), astSuffix)
		_, err = parser.ProduceAST(src)
		if parser.IsIncomplete(err) {
			continue
		}

		return b.String(), nil
	}
}

func runREPL(ctx context.Context, logger *slog.Logger, cfg *config.Config) error {
	s, err := newSession(logger, cfg, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := cfg.HistoryPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}

		defer func() {
			f, err := os.Create(histPath)
			if err != nil {
				logger.Debug("failed to save history", slog.String("path", histPath), slog.Any("error", err))
				return
			}
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}()
	}

	fmt.Printf("einah %s, type help for commands\n", version)

	for {
		input, err := readInput(ln)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		if strings.TrimSpace(input) != "" {
			ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))
		}

		// an interrupt only abandons the submission being evaluated
		evalCtx, stop := signal.NotifyContext(context.WithoutCancel(ctx), os.Interrupt)
		ok := s.handle(evalCtx, input)
		stop()

		if !ok {
			return nil
		}
	}
}

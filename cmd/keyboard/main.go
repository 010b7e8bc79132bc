package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/librescoot/microfsm"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: keyboard [flags]\n\nFlags:\n")
		flag.PrintDefaults()
	}

	configPath := flag.String("config", os.Getenv("KEYBOARD_CONFIG"), "path to YAML configuration (default: built-in)")
	envFile := flag.String("env", ".env", "path to .env file (ignored if missing)")
	logFile := flag.String("log", "", "write fault log to this file")
	replay := flag.Bool("replay", false, "read keystrokes from stdin instead of the terminal UI")
	flag.Parse()

	if err := loadDotEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	err := run(*configPath, *logFile, *replay)
	var fault *microfsm.Fault
	switch {
	case err == nil:
	case errors.As(err, &fault):
		fmt.Fprintf(os.Stderr, "fault: %v\n", fault)
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func loadConfig(path string) (microfsm.Config, error) {
	if path == "" {
		return microfsm.Config{
			Name:           "keyboard",
			Initial:        "boot",
			MaxTransitions: 2,
			QueueCapacity:  microfsm.DefaultQueueCapacity,
		}, nil
	}
	return microfsm.LoadConfig(path)
}

func newZapLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}

// faultLogger records faults and lets the machine halt; the halted
// machine's next Dispatch returns the same fault.
func faultLogger(log *zap.Logger) microfsm.FaultHandler {
	return func(f *microfsm.Fault) {
		log.Error("state machine fault",
			zap.String("op", f.Op),
			zap.String("state", f.State),
			zap.String("signal", f.Signal.String()),
			zap.Int("transitions", f.Transitions),
			zap.Error(f.Err))
	}
}

func run(configPath, logFile string, replay bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	zl, err := newZapLogger(logFile)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	var out io.Writer = io.Discard
	if replay {
		out = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	kb, err := NewKeyboard(cfg,
		microfsm.WithLogger(logger),
		microfsm.WithFaultHandler(faultLogger(zl)),
	)
	if err != nil {
		return err
	}

	if replay {
		return runReplay(kb, cfg.QueueCapacity, os.Stdin, os.Stdout)
	}

	if err := kb.Begin(); err != nil {
		return err
	}
	final, err := tea.NewProgram(newKeyboardModel(kb)).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(*keyboardModel); ok && m.err != nil {
		return m.err
	}
	return nil
}

// keystroke maps one replayed rune to a keyboard event. Tab switches
// layer, vertical tab toggles caps lock and form feed clears the text.
func keystroke(r rune) (microfsm.Event, bool) {
	switch r {
	case '\t':
		return microfsm.NewEvent(sigNextLayer, nil), true
	case '\v':
		return microfsm.NewEvent(sigCapsLock, nil), true
	case '\f':
		return microfsm.NewEvent(sigClear, nil), true
	}
	if unicode.IsPrint(r) {
		return microfsm.NewEvent(sigKey, r), true
	}
	return microfsm.Event{}, false
}

func runReplay(kb *Keyboard, queueCapacity int, in io.Reader, out io.Writer) error {
	runner, err := microfsm.NewRunner(kb.Machine(), queueCapacity)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errc := make(chan error, 1)
	go func() {
		err := runner.Run(ctx)
		cancel()
		errc <- err
	}()

	sendErr := replayInput(ctx, runner, in)
	cancel()
	runErr := <-errc

	switch {
	case runErr != nil && !errors.Is(runErr, context.Canceled):
		return runErr
	case sendErr != nil && !errors.Is(sendErr, context.Canceled) && !errors.Is(sendErr, microfsm.ErrStopped):
		return sendErr
	}

	fmt.Fprintf(out, "layer: %s\n", kb.Layer())
	fmt.Fprintf(out, "text: %s\n", kb.Text())
	fmt.Fprintf(out, "reports: %d\n", kb.PendingReports())
	for {
		r, ok := kb.NextReport()
		if !ok {
			break
		}
		fmt.Fprintln(out, hex.EncodeToString(r))
	}
	return nil
}

func replayInput(ctx context.Context, runner *microfsm.Runner, in io.Reader) error {
	rd := bufio.NewReader(in)
	for {
		r, _, err := rd.ReadRune()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		e, ok := keystroke(r)
		if !ok {
			continue
		}
		if err := runner.Send(ctx, e); err != nil {
			return err
		}
	}
}

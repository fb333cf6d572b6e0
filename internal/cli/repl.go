package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/arvholm/espalier"
	"github.com/arvholm/espalier/internal/presentation/tui"
	"github.com/arvholm/espalier/pkg/definition"
	"github.com/arvholm/espalier/pkg/dfa"
)

// REPLOptions configures an interactive evaluation session.
type REPLOptions struct {
	Path    string // definition file to load
	Verbose bool
	Banner  bool      // print the startup banner
	In      io.Reader // defaults to os.Stdin
	Out     io.Writer // defaults to os.Stdout
}

// RunREPL loads a machine and feeds it symbols interactively, one line at a
// time. Each line is consumed through a streaming cursor, so the session
// keeps its state between lines until :reset.
func RunREPL(opts REPLOptions) error {
	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	logger := CreateLogger(opts.Verbose)

	def, err := definition.DecodeFile(opts.Path)
	if err != nil {
		return fmt.Errorf("load definition: %w", err)
	}
	machine, err := def.Compile(dfa.WithWarningHandler(func(w dfa.Warning) {
		printSystemMessage(out, "Warning: %s", w)
	}))
	if err != nil {
		return fmt.Errorf("compile %s: %w", opts.Path, err)
	}

	if opts.Banner {
		tui.PrintBanner(espalier.Version)
	}

	label := machine.Label()
	if label == "" {
		label = filepath.Base(opts.Path)
	}
	syms := make([]string, len(machine.Alphabet()))
	for i, s := range machine.Alphabet() {
		syms[i] = string(s)
	}

	printSystemMessage(out, "Machine '%s': %d states over alphabet {%s}.", label, len(machine.States()), strings.Join(syms, " "))
	printSystemMessage(out, "Feed symbols line by line. :state shows the verdict, :reset starts over, :quit leaves.")

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	cursor := machine.Start()
	replStatus(out, cursor)

	scanner := bufio.NewScanner(NewInterruptibleReader(in, sigCtx.Done()))
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
		case ":quit", ":q", "exit":
			printSystemMessage(out, "Bye!")
			return nil
		case ":reset":
			cursor = machine.Start()
			printSystemMessage(out, "Back at '%s'.", cursor.State())
		case ":state":
			replStatus(out, cursor)
		default:
			feedLine(out, logger, cursor, line)
			replStatus(out, cursor)
		}
		fmt.Fprint(out, "> ")
	}

	if sigCtx.Signal() != nil {
		fmt.Fprintln(out)
	}
	printSystemMessage(out, "Stopped at '%s' after %d symbols.", cursor.State(), cursor.Position())
	return HandleExecutionError(scanner.Err())
}

// feedLine consumes the line rune by rune. A symbol outside the alphabet
// drops the rest of the line and leaves the cursor where it was.
func feedLine(w io.Writer, logger *slog.Logger, c *dfa.Cursor, line string) {
	for _, r := range line {
		if err := c.Feed(dfa.Symbol(r)); err != nil {
			var unknown *dfa.UnknownInputError
			if errors.As(err, &unknown) {
				printSystemMessage(w, "Symbol %q is outside the alphabet; rest of line dropped.", string(unknown.Symbol))
			} else {
				printSystemMessage(w, "Feed failed: %v", err)
			}
			return
		}
		logger.Debug("Fed symbol", "symbol", string(r), "state", string(c.State()), "position", c.Position())
	}
}

func replStatus(w io.Writer, c *dfa.Cursor) {
	note := ""
	if c.InSink() {
		note = " [sink: verdict is final]"
	}
	fmt.Fprintf(w, "%s: %s%s\n", c.State(), tui.Verdict(c.Accepting()), note)
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/litegate/internal/gateway"
)

const (
	replPrompt         = "litegate> "
	replContinuePrompt = "     ...> "
	historyFileName    = ".litegate_history"
)

// lineReader is the part of *readline.Instance the REPL loop needs.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// repl runs statements read line by line against one open handle.
type repl struct {
	handle *gateway.Handle
	out    io.Writer
	errOut io.Writer
	format string
}

func runQueryREPL(cmd *cobra.Command, cc *CommandContext, name, path, format string) error {
	ctx := cmd.Context()

	return cc.Gateway.WithDatabase(ctx, path, func(h *gateway.Handle) error {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          replPrompt,
			HistoryFile:     filepath.Join(cc.Cfg.ProjectRoot, historyFileName),
			AutoComplete:    newTableCompleter(ctx, h),
			InterruptPrompt: "^C",
			EOFPrompt:       ".quit",
		})
		if err != nil {
			return fmt.Errorf("failed to initialize REPL: %w", err)
		}
		defer func() { _ = rl.Close() }()

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "litegate query REPL (database: %s)\n", name)
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
		_, _ = fmt.Fprintln(cmd.OutOrStdout())

		r := &repl{handle: h, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr(), format: format}
		return r.loop(ctx, rl)
	})
}

// loop reads until EOF or .quit. Statements may span lines and end at a
// semicolon. Errors are printed and do not end the session.
func (r *repl) loop(ctx context.Context, rl lineReader) error {
	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buf.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if buf.Len() == 0 && strings.HasPrefix(line, ".") {
			if quit := r.dotCommand(ctx, line); quit {
				return nil
			}
			continue
		}

		buf.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			buf.WriteString(" ")
			rl.SetPrompt(replContinuePrompt)
			continue
		}
		rl.SetPrompt(replPrompt)

		query := strings.TrimSuffix(buf.String(), ";")
		buf.Reset()

		if err := executeAndRender(ctx, r.out, r.handle, query, r.format); err != nil {
			_, _ = fmt.Fprintf(r.errOut, "Error: %v\n", err)
		}
		_, _ = fmt.Fprintln(r.out)
	}
}

// dotCommand runs a REPL meta command and reports whether the session
// should end.
func (r *repl) dotCommand(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(r.out)

	case ".tables":
		tables, err := r.handle.ListTables(ctx)
		if err == nil {
			err = renderTables(r.out, tables, r.format)
		}
		if err != nil {
			_, _ = fmt.Fprintf(r.errOut, "Error: %v\n", err)
		}

	case ".schema":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(r.errOut, "Usage: .schema <table>")
			return false
		}
		cols, err := r.handle.Columns(ctx, parts[1])
		if err == nil {
			err = renderSchema(r.out, parts[1], cols, r.format)
		}
		if err != nil {
			_, _ = fmt.Fprintf(r.errOut, "Error: %v\n", err)
		}

	case ".format":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(r.out, "format: %s\n", r.format)
			return false
		}
		r.format = parts[1]

	case ".clear":
		_, _ = fmt.Fprint(r.out, "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(r.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .tables         List all tables
  .schema <name>  Show the columns of a table
  .format [name]  Show or set the output format (table, json, csv, md)
  .clear          Clear the screen
  .quit / .exit   Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Only SELECT, PRAGMA and EXPLAIN statements are accepted
  - Tab completion works for table names
`
	_, _ = fmt.Fprintln(w, help)
}

// newTableCompleter creates a readline completer for table names and dot
// commands.
func newTableCompleter(ctx context.Context, h *gateway.Handle) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface

	// Completion is best effort; an unreadable schema just offers no names.
	if tables, err := h.ListTables(ctx); err == nil {
		for _, t := range tables {
			items = append(items, readline.PcItem(t.Name))
		}
	}

	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".tables"),
		readline.PcItem(".schema"),
		readline.PcItem(".format"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)

	return readline.NewPrefixCompleter(items...)
}

package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"go-chi-calculator/internal/calculator"
)

const replHelp = `Commands:
  :history                 list previous calculations, most recent first
  :clear                   clear the history and the current result
  :int                     integer part of the current result
  :frac                    fractional part of the current result
  :set radians <bool>      use radians for trigonometric functions
  :set comma <bool>        use ',' as decimal separator
  :set precision <0-15>    decimal digits results are rounded to
  :set history <n>         number of calculations kept
  :help                    show this help
  :quit                    leave the calculator`

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Evaluate equations interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession()
		if err != nil {
			return err
		}
		return runREPL(session)
	},
}

func runREPL(session *calculator.Session) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          color.New(color.Bold).Sprint("calc> "),
		HistoryLimit:    500,
		InterruptPrompt: "^C",
		EOFPrompt:       ":quit",
	})
	if err != nil {
		return fmt.Errorf("starting line editor: %w", err)
	}
	defer func() { _ = rl.Close() }()

	fmt.Fprintln(rl.Stdout(), "Type an equation, or :help for commands.")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if quit := handleLine(session, line, rl.Stdout()); quit {
			return nil
		}
	}
}

// handleLine evaluates one line of input against session and writes the
// outcome to out. It reports whether the user asked to quit.
func handleLine(session *calculator.Session, line string, out io.Writer) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if !strings.HasPrefix(line, ":") {
		if _, err := session.Evaluate(line); err != nil {
			printError(out, err)
			return false
		}
		result, _ := session.LastResult()
		fmt.Fprintln(out, color.GreenString("= %s", result))
		return false
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q", ":exit":
		return true

	case ":help":
		fmt.Fprintln(out, replHelp)

	case ":history":
		history := session.History()
		if len(history) == 0 {
			fmt.Fprintln(out, color.YellowString("history is empty"))
			return false
		}
		for i, c := range history {
			fmt.Fprintf(out, "%3d  %s %s\n", i+1, c.Equation, color.CyanString("= %s", c.Result))
		}

	case ":clear":
		session.ClearHistory()
		fmt.Fprintln(out, color.YellowString("history cleared"))

	case ":int":
		fmt.Fprintln(out, calculator.FormatResult(session.IntegerPart(), session.UsesPointAsDecimalSeparator()))

	case ":frac":
		fmt.Fprintln(out, calculator.FormatResult(session.FractionalPart(), session.UsesPointAsDecimalSeparator()))

	case ":set":
		if err := applySetting(session, fields[1:]); err != nil {
			printError(out, err)
			return false
		}
		fmt.Fprintln(out, color.YellowString("%s set to %s", fields[1], fields[2]))

	default:
		printError(out, fmt.Errorf("unknown command %s, try :help", fields[0]))
	}
	return false
}

func applySetting(session *calculator.Session, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: :set <radians|comma|precision|history> <value>")
	}

	name, value := args[0], args[1]
	switch name {
	case "radians", "comma":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s expects true or false, got %q", name, value)
		}
		if name == "radians" {
			session.SetUsesRadians(b)
		} else {
			session.SetUsesPointAsDecimalSeparator(!b)
		}
		return nil

	case "precision", "history":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s expects a whole number, got %q", name, value)
		}
		if name == "precision" {
			return session.SetRoundingPrecision(n)
		}
		return session.SetMaxNumberOfResult(n)
	}
	return fmt.Errorf("unknown setting %q", name)
}

func printError(out io.Writer, err error) {
	kind := calculator.KindOf(err)
	if kind == calculator.KindInternal {
		fmt.Fprintln(out, color.RedString("%s", err))
		return
	}
	fmt.Fprintln(out, color.RedString("%s [%s]", err, kind))
}

// Package cli is the terminal front end of the generator widget.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/vaultpass/passgen/internal/crypto"
	"github.com/vaultpass/passgen/internal/model"
	"github.com/vaultpass/passgen/internal/service"
	"github.com/vaultpass/passgen/internal/widget"
)

var ErrUnknownCommand = errors.New("unknown command")

const helpText = `Commands:
  length N        set the password length (4-20)
  digits [on|off] include digits (toggles without an argument)
  special [on|off] include @ # $ _ . (toggles without an argument)
  gen             generate a new password
  edit TEXT       replace the password with TEXT
  copy            copy the password to the clipboard
  show            show the current state
  help            show this help
  quit            exit
`

// lockedWriter serializes writes from the prompt loop and the reset timer.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// Run reads commands from in until quit, EOF or ctx is done. Every change
// to the session is rendered to out.
func Run(ctx context.Context, in io.Reader, out io.Writer, sess *widget.Session) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := &lockedWriter{w: out}
	unsubscribe := sess.Subscribe(func(st widget.State) { Render(w, st) })
	defer unsubscribe()

	fmt.Fprintln(w, "=== Password Generator ===")
	Render(w, sess.State())
	fmt.Fprintln(w, `Type "help" for commands.`)

	lines, readErr := readLines(ctx, in)
	for {
		fmt.Fprint(w, "> ")

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(w)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(w)
				return <-readErr
			}
			line = l
		}

		quit, err := Execute(ctx, sess, w, line)
		if err != nil && !errors.Is(err, widget.ErrCopyFailed) {
			fmt.Fprintf(w, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// readLines scans in on its own goroutine so a blocked read never holds up
// cancellation. The goroutine stays parked in Read until in returns; lines
// is closed after the scan error has been sent.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
		close(lines)
	}()

	return lines, errc
}

// Execute runs one command line against sess. It reports whether the user
// asked to quit.
func Execute(ctx context.Context, sess *widget.Session, out io.Writer, line string) (bool, error) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "":
		return false, nil
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		fmt.Fprint(out, helpText)
		return false, nil
	case "show":
		Render(out, sess.State())
		return false, nil
	case "copy":
		return false, sess.Copy(ctx)
	}

	action, err := parseAction(cmd, arg)
	if err != nil {
		return false, err
	}
	_, err = sess.Dispatch(action)
	return false, err
}

func parseAction(cmd, arg string) (widget.Action, error) {
	switch strings.ToLower(cmd) {
	case "length", "len", "l":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("length needs a number, got %q", arg)
		}
		return widget.SetLength{Length: n}, nil
	case "digits", "numbers", "n":
		return toggleOrSet(arg, widget.ToggleDigits{}, func(on bool) widget.Action { return widget.SetDigits{Enabled: on} })
	case "special", "symbols", "s":
		return toggleOrSet(arg, widget.ToggleSpecial{}, func(on bool) widget.Action { return widget.SetSpecial{Enabled: on} })
	case "gen", "generate", "g":
		return widget.Regenerate{}, nil
	case "edit", "e":
		return widget.EditPassword{Text: arg}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
}

func toggleOrSet(arg string, toggle widget.Action, set func(bool) widget.Action) (widget.Action, error) {
	switch strings.ToLower(arg) {
	case "":
		return toggle, nil
	case "on", "yes", "y", "true":
		return set(true), nil
	case "off", "no", "n", "false":
		return set(false), nil
	default:
		return nil, fmt.Errorf("expected on or off, got %q", arg)
	}
}

// Render writes one view of st.
func Render(w io.Writer, st widget.State) {
	fmt.Fprintf(w, "Password: %s\n", st.Password)
	fmt.Fprintf(w, "Strength: %s\n", st.Strength())
	fmt.Fprintf(w, "Length: %d  Digits: %s  Special: %s\n",
		st.Config.Length, onOff(st.Config.IncludeDigits), onOff(st.Config.IncludeSpecial))
	if st.Copied {
		fmt.Fprintln(w, "Password copied!")
	}
	if st.Notice != "" {
		fmt.Fprintln(w, st.Notice)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// PrintOnce generates a single password for cfg and prints it with its
// strength, as text or JSON.
func PrintOnce(w io.Writer, cfg crypto.GeneratorConfig, asJSON bool) error {
	resp, err := service.NewGeneratorService().Generate(model.GenerateRequest{
		Length:         cfg.Length,
		IncludeDigits:  cfg.IncludeDigits,
		IncludeSpecial: cfg.IncludeSpecial,
	})
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	_, err = fmt.Fprintf(w, "%s\t%s\n", resp.Password, resp.Strength)
	return err
}

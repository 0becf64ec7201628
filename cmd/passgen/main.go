package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/vaultpass/passgen/internal/cli"
	"github.com/vaultpass/passgen/internal/clipboard"
	"github.com/vaultpass/passgen/internal/config"
	"github.com/vaultpass/passgen/internal/crypto"
	"github.com/vaultpass/passgen/internal/widget"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}
	cfg := config.FromEnv()

	var (
		length  = flag.Int("length", crypto.DefaultLength, "password length (4-20)")
		digits  = flag.Bool("digits", false, "include digits (0-9)")
		special = flag.Bool("special", false, "include special characters (@ # $ _ .)")
		once    = flag.Bool("once", false, "print one password and exit")
		asJSON  = flag.Bool("json", false, "with -once, print JSON")
	)
	flag.Parse()

	genCfg := crypto.GeneratorConfig{
		Length:         crypto.ClampLength(*length),
		IncludeDigits:  *digits,
		IncludeSpecial: *special,
	}

	if *once || !term.IsTerminal(int(os.Stdin.Fd())) {
		if err := cli.PrintOnce(os.Stdout, genCfg, *asJSON); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	sess, err := widget.NewSession(genCfg,
		widget.WithClipboard(clipboard.System{}),
		widget.WithCopyResetDelay(cfg.CopyResetDelay),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer sess.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Run(ctx, os.Stdin, os.Stdout, sess); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

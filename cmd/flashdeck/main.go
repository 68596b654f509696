package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/conorfennell/flashdeck/internal/builtin"
	"github.com/conorfennell/flashdeck/internal/config"
	"github.com/conorfennell/flashdeck/internal/gitsource"
	"github.com/conorfennell/flashdeck/internal/library"
	"github.com/conorfennell/flashdeck/internal/storage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCommand().ExecuteContext(ctx)
	cancel()
	if err != nil {
		if _, fprintfErr := fmt.Fprintf(os.Stderr, "failed to execute a command: %+v\n", err); fprintfErr != nil {
			panic(fmt.Errorf("failed to output an error: %w. Reason: %w", err, fprintfErr))
		}
		os.Exit(1)
	}
	os.Exit(0)
}

// app carries the loaded configuration to the subcommands.
type app struct {
	configFile string
	cfg        *config.Config
}

func newRootCommand() *cobra.Command {
	a := &app{}
	rootCommand := &cobra.Command{
		Use:           "flashdeck",
		Short:         "Flashcard trainer for plain-text lessons",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configFile, cmd.Flags())
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			a.cfg = cfg
			setupLogger(cfg.Debug)
			return nil
		},
	}
	rootCommand.PersistentFlags().StringVar(&a.configFile, "config", "", "config file path")
	config.RegisterFlags(rootCommand.PersistentFlags())

	rootCommand.AddCommand(
		newImportCommand(a),
		newTextCommand(a),
		newSectionsCommand(a),
		newBuiltinCommand(a),
		newTrainCommand(a),
	)
	return rootCommand
}

// setupLogger configures the default logger based on debug mode
func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		})),
	)
}

// withLibrary opens the store and library for the duration of fn.
func (a *app) withLibrary(ctx context.Context, fn func(lib *library.Library) error) error {
	if err := storage.EnsureDir(a.cfg.DB); err != nil {
		return err
	}
	store, err := storage.Open(a.cfg.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	fetcher, err := newFetcher(a.cfg.BuiltIn)
	if err != nil {
		return err
	}
	lib, err := library.Open(ctx, store, library.Options{
		DefaultLanguage: a.cfg.Lang,
		Fetcher:         fetcher,
		Manifest:        a.cfg.BuiltIn.Manifest,
	})
	if err != nil {
		return fmt.Errorf("failed to open library: %w", err)
	}
	return fn(lib)
}

func newFetcher(cfg config.BuiltInConfig) (builtin.Fetcher, error) {
	switch cfg.Source {
	case config.SourceHTTP:
		return builtin.NewHTTPFetcher(cfg.Location), nil
	case config.SourceDir:
		return builtin.DirFetcher{Dir: cfg.Location}, nil
	case config.SourceGit:
		checkout := cfg.Checkout
		if checkout == "" {
			var err error
			checkout, err = gitsource.LocalPath(config.ReposDir(), cfg.Location)
			if err != nil {
				return nil, err
			}
		}
		return builtin.GitFetcher{URL: cfg.Location, Checkout: checkout}, nil
	}
	return nil, nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/ayusman/mudra/internal"
	pkgconfig "github.com/ayusman/mudra/pkg/config"
)

// highgui windows must be driven from the main thread.
func init() {
	runtime.LockOSThread()
}

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func present(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr := cmd.String("serve"); addr != "" {
		cfg.Server.Addr = addr
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithDeck(cmd.String("deck")),
		internal.WithDir(cmd.Args().First()),
		internal.WithName(cmd.String("name")),
	}

	if err := internal.Present(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func importDeck(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected one slide directory, got %d arguments", cmd.Args().Len())
	}

	meta, err := internal.Import(
		internal.WithConfig(cfg),
		internal.WithDir(cmd.Args().First()),
		internal.WithName(cmd.String("name")),
		internal.WithLogOutput(os.Stderr),
	)
	if err != nil {
		return fmt.Errorf("import error: %w", err)
	}

	fmt.Printf("%s\t%s\t%d slides\n", meta.ID, meta.Name, meta.SlideCount)
	return nil
}

func listDecks(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.ListDecks(os.Stdout, internal.WithConfig(cfg), internal.WithLogOutput(os.Stderr))
}

func nameFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "name",
		Usage: "Deck name for an imported directory (default: directory name)",
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "mudra",
		Usage: "Hand-gesture slide navigator: swipe to change slides, point to draw",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("MUDRA_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "present",
				Usage:     "Present a slide directory or a stored deck",
				ArgsUsage: "[DIR]",
				Action:    present,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "deck",
						Aliases: []string{"d"},
						Usage:   "Stored deck ID or name (default: last presented deck)",
					},
					nameFlag(),
					&cli.StringFlag{
						Name:    "serve",
						Usage:   "Serve the audience view on this address, e.g. :8080",
						Sources: cli.EnvVars("MUDRA_SERVER_ADDR"),
					},
				},
			},
			{
				Name:      "import",
				Usage:     "Scan a slide directory and store its ordered manifest",
				ArgsUsage: "DIR",
				Action:    importDeck,
				Flags:     []cli.Flag{nameFlag()},
			},
			{
				Name:   "decks",
				Usage:  "List stored decks",
				Action: listDecks,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

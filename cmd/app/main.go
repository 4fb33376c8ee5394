package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/mkraus/slovnik/internal"
	pkgconfig "github.com/mkraus/slovnik/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runIngest(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	page := cmd.StringArg("page")
	if page == "" {
		return fmt.Errorf("page argument is required")
	}
	return internal.RunIngest(ctx, cfg, page)
}

func runPatterns(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	topic := cmd.StringArg("topic")
	if topic == "" {
		return fmt.Errorf("topic argument is required")
	}
	return internal.RunPatterns(ctx, cfg, topic, int(cmd.Int("count")))
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, cfg)
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("SLOVNIK_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:  "slovnik",
		Usage: "Vocabulary vault: Markdown word notes with grammar analysis, flashcards, and TTS markers",
		Flags: []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API, SSE stream, and vault watcher",
				Action: runServe,
			},
			{
				Name:      "ingest",
				Usage:     "Process the vocabulary tables of one vault page into word notes",
				Arguments: []cli.Argument{&cli.StringArg{Name: "page"}},
				Action:    runIngest,
			},
			{
				Name:      "patterns",
				Usage:     "Generate grammar drill notes for a topic with the configured LLM",
				Arguments: []cli.Argument{&cli.StringArg{Name: "topic"}},
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "count", Usage: "Number of patterns to request", Value: 5},
				},
				Action: runPatterns,
			},
			{
				Name:   "mcp",
				Usage:  "Serve vault tools over the Model Context Protocol on stdio",
				Action: runMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

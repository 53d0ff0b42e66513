package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/wort/internal"
	"github.com/starford/wort/internal/service"
	"github.com/starford/wort/internal/sugar"
	"github.com/starford/wort/internal/units"
	pkgconfig "github.com/starford/wort/pkg/config"
)

var version = "dev"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if dir := cmd.String("data"); dir != "" {
		cfg.Data.Path = dir
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func mcp(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, internal.WithConfig(cfg), internal.WithVersion(version))
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func analyze(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// One-shot analysis reads reference files directly.
	cfg.Catalog.Enabled = false

	raw, err := readInput(cmd.Args().First(), os.Stdin)
	if err != nil {
		return fmt.Errorf("read recipe: %w", err)
	}

	logger := internal.NewLogger(os.Stderr, cfg.App.LogLevel)
	comps, err := internal.Build(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer comps.Close()

	opts := service.AnalyzeOptions{ColorModel: cmd.String("color-model")}
	if cmd.IsSet("target-ibu") {
		target := cmd.Float("target-ibu")
		opts.TargetIBU = &target
	}
	a, err := comps.Service.Analyze(ctx, raw, opts)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.Root().Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(a)
}

func convert(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("convert takes exactly one reading")
	}
	var value float64
	if _, err := fmt.Sscanf(cmd.Args().First(), "%g", &value); err != nil {
		return fmt.Errorf("reading %q is not a number", cmd.Args().First())
	}
	from, to := cmd.String("from"), cmd.String("to")

	if cmd.IsSet("temp") {
		if from != service.ScaleSG {
			return fmt.Errorf("--temp corrects hydrometer readings and requires --from sg")
		}
		corrected, err := sugar.HydrometerAdjustment(value, cmd.Float("temp"), cmd.String("units"))
		if err != nil {
			return err
		}
		value = corrected
	}

	result, err := service.ConvertGravity(value, from, to)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.Root().Writer, "%.4f\n", result)
	return err
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "wort",
		Usage:   "Homebrew recipe calculator: gravity, alcohol, bitterness and color",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Reference data directory (overrides data.path)",
				Sources: cli.EnvVars("WORT_DATA_DIR"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API with the ingredient catalog",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio",
				Action: mcp,
			},
			{
				Name:      "analyze",
				Usage:     "Analyze a recipe document (YAML or JSON) and print the result as JSON",
				ArgsUsage: "[recipe.yaml|-]",
				Action:    analyze,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "color-model", Usage: "SRM model", Value: "morey"},
					&cli.FloatFlag{Name: "target-ibu", Usage: "Add a hop schedule for this bitterness"},
				},
			},
			{
				Name:      "convert",
				Usage:     "Convert a gravity reading between sg, plato, brix and gu",
				ArgsUsage: "<reading>",
				Action:    convert,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Value: service.ScaleSG},
					&cli.StringFlag{Name: "to", Value: service.ScalePlato},
					&cli.FloatFlag{Name: "temp", Usage: "Hydrometer sample temperature; corrects the reading first"},
					&cli.StringFlag{Name: "units", Value: units.Imperial, Usage: "Temperature units: imperial (F) or metric (C)"},
				},
			},
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

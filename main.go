package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/evolvestats/catalog"
	"github.com/pthm-cable/evolvestats/client"
	"github.com/pthm-cable/evolvestats/config"
	"github.com/pthm-cable/evolvestats/inventory"
	"github.com/pthm-cable/evolvestats/stats"
	"github.com/pthm-cable/evolvestats/telemetry"
)

// runOptions holds everything a single run needs.
type runOptions struct {
	Username string
	Password string
	Provider string

	ConfigPath    string
	CatalogPath   string
	OutputDir     string
	InventoryFile string
	SaveInventory bool
	SaveConfig    bool
	Debug         bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func newRootCommand(opts *runOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "evolvestats",
		Short:         "Report which creatures can be evolved with the candies at hand",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	// CLI flags
	flags := cmd.Flags()
	flags.StringVarP(&opts.Username, "username", "u", "", "Username")
	flags.StringVarP(&opts.Password, "password", "p", "", "Password (default: $POGO_PASSWORD or prompt)")
	flags.StringVar(&opts.Provider, "provider", "", "Auth provider (empty = use config)")
	flags.StringVar(&opts.ConfigPath, "config", "", "Path to config.yaml (empty = use defaults)")
	flags.StringVar(&opts.CatalogPath, "catalog", "", "Path to a species catalog yaml (empty = built-in)")
	flags.StringVar(&opts.OutputDir, "output-dir", "", "Output directory for the report (empty = use config)")
	flags.StringVar(&opts.InventoryFile, "inventory-file", "", "Read the inventory from a JSON file instead of the service")
	flags.BoolVar(&opts.SaveInventory, "save-inventory", false, "Save the fetched inventory as JSON next to the report")
	flags.BoolVar(&opts.SaveConfig, "save-config", false, "Save the effective config next to the report")
	flags.BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func main() {
	opts := &runOptions{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
	cmd := newRootCommand(opts)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		// Authentication failures are already logged at critical level
		if !errors.Is(err, client.ErrAuthentication) {
			slog.Error("run failed", "error", err)
		}
		os.Exit(1)
	}
}

// run loads the catalog and inventory, computes the report and writes it.
func run(ctx context.Context, opts *runOptions) error {
	// Set up slog (JSON to stderr; stdout carries the report)
	logger := setupLogger(opts.Stderr, opts.Debug)
	logger.Debug("Logger set up")

	perf := telemetry.NewPerfCollector()
	defer func() {
		perf.End()
		logger.Debug("run timing", "perf", perf.Stats())
	}()

	// Initialize config before anything else
	perf.StartPhase(telemetry.PhaseConfig)
	if err := config.Init(opts.ConfigPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()
	if opts.OutputDir != "" {
		cfg.Report.OutputDir = opts.OutputDir
	}

	perf.StartPhase(telemetry.PhaseCatalog)
	cat, err := catalog.Load(opts.CatalogPath)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	exclude, err := cat.ResolveNames(cfg.Stats.Exclude)
	if err != nil {
		return fmt.Errorf("resolving stats.exclude: %w", err)
	}

	creds, err := resolveCredentials(newPrompter(opts.Stdin, opts.Stderr), opts.Username, opts.Password, opts.InventoryFile == "")
	if err != nil {
		return err
	}

	perf.StartPhase(telemetry.PhaseInventory)
	inv, err := loadInventory(ctx, cfg, creds, opts)
	if err != nil {
		return err
	}

	perf.StartPhase(telemetry.PhaseCompute)
	res := stats.Compute(cat, inv, stats.Options{
		Exclude:           exclude,
		ScorePerEvolution: cfg.Stats.ScorePerEvolution,
	})
	logger.Info("stats computed",
		"username", creds.Username,
		"species", cat.Len(),
		"rows", len(res.Rows),
		"summary", res.Summary)

	perf.StartPhase(telemetry.PhaseOutput)
	om, err := telemetry.NewOutputManager(cfg.Report.OutputDir)
	if err != nil {
		return err
	}
	path, err := om.WriteReport(cfg.ReportFilename(creds.Username), res.Rows)
	if err != nil {
		return err
	}
	logger.Info("report written", "path", path)

	if opts.SaveInventory && opts.InventoryFile == "" {
		invPath, err := om.WriteInventory(fmt.Sprintf("inventory_%s.json", creds.Username), inv)
		if err != nil {
			return err
		}
		logger.Info("inventory saved", "path", invPath)
	}
	if opts.SaveConfig {
		cfgPath, err := om.WriteConfig(cfg)
		if err != nil {
			return err
		}
		logger.Info("config saved", "path", cfgPath)
	}

	if err := telemetry.PrintTable(opts.Stdout, res.Rows); err != nil {
		return err
	}
	if err := telemetry.PrintSummary(opts.Stdout, res.Summary); err != nil {
		return err
	}
	return telemetry.PrintWalk(opts.Stdout, res.Summary.Walk)
}

// loadInventory reads the offline snapshot when one is given, otherwise
// signs in and fetches the inventory from the service.
func loadInventory(ctx context.Context, cfg *config.Config, creds credentials, opts *runOptions) (*inventory.Snapshot, error) {
	if opts.InventoryFile != "" {
		inv, err := inventory.LoadFile(opts.InventoryFile)
		if err != nil {
			return nil, err
		}
		slog.Info("inventory loaded from file", "path", opts.InventoryFile, "party", inv.PartySize())
		return inv, nil
	}

	provider := opts.Provider
	if provider == "" {
		provider = cfg.Auth.Provider
	}

	session, err := client.New(cfg).Authenticate(ctx, creds.Username, creds.Password, provider)
	if err != nil {
		if errors.Is(err, client.ErrAuthentication) {
			slog.Log(ctx, LevelCritical, "Session not created successfully",
				"username", creds.Username,
				"provider", provider,
				"error", err)
		}
		return nil, err
	}
	slog.Debug("session ready", "provider", session.Provider, "expires", session.Expiry())

	inv, err := session.Inventory(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("inventory fetched", "party", inv.PartySize())
	return inv, nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"github.com/vuesweep/vuesweep/internal/analyzer"
	"github.com/vuesweep/vuesweep/internal/output"
	"github.com/vuesweep/vuesweep/internal/progress"
	"github.com/vuesweep/vuesweep/internal/scanner"
	"github.com/vuesweep/vuesweep/pkg/config"
	"github.com/vuesweep/vuesweep/pkg/models"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

// getRoot returns the project root from positional args, defaulting to the
// current directory.
func getRoot(c *cli.Context) (string, error) {
	root := "."
	if c.Args().Len() > 0 {
		root = c.Args().First()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("invalid path %s: %w", root, err)
	}
	return abs, nil
}

// loadConfig resolves the configuration for a command, applying flag
// overrides on top of the file (or defaults).
func loadConfig(c *cli.Context) (*config.Config, error) {
	var cfg *config.Config
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrDefault()
	}

	if c.IsSet("format") {
		cfg.Output.Format = c.String("format")
	}
	if c.IsSet("csv") {
		cfg.Output.CSVPath = c.String("csv")
	}
	if c.Bool("verbose") {
		cfg.Output.Verbose = true
	}
	return cfg, nil
}

func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	return output.NewFormatter(output.ParseFormat(cfg.Output.Format), c.String("output"), cfg.Output.Color)
}

// newSpinner returns a live spinner for passes whose file count is not known
// up front, or a no-op tracker when results are being written to a file.
func newSpinner(c *cli.Context, label string) *progress.Tracker {
	if c.String("output") != "" {
		return progress.NewNoop()
	}
	return progress.NewSpinner(label)
}

// newTracker returns a counted progress bar for passes with a known total.
func newTracker(c *cli.Context, label string, total int) *progress.Tracker {
	if c.String("output") != "" {
		return progress.NewNoop()
	}
	return progress.NewTracker(label, total)
}

// scanCodeFiles discovers the code files once so trackers know their totals
// and repeated passes reuse the same list.
func scanCodeFiles(cfg *config.Config, formatter *output.Formatter, root string) ([]string, error) {
	files, err := scanner.NewScanner(cfg).ScanDir(root, cfg.Extensions.Code)
	if err != nil {
		return nil, err
	}
	if cfg.Output.Verbose {
		formatter.Info("Scanning %d code files under %s", len(files), root)
	}
	return files, nil
}

func main() {
	app := &cli.App{
		Name:     "vuesweep",
		Usage:    "Find unused code and risky patterns in Vue and Nuxt projects",
		Version:  version,
		Metadata: make(map[string]interface{}),
		Description: `Vuesweep scans a Vue or Nuxt source tree for unused CSS classes,
dead exports, unused imports and variables, unreferenced npm packages,
leftover console statements, insecure patterns, and known vulnerable
dependencies.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"VUESWEEP_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format: text, json, markdown, toon",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.StringFlag{
				Name:  "csv",
				Usage: "Write findings to a CSV report file",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output (per-file warnings, scan counts)",
			},
			&cli.StringFlag{
				Name:  "pprof",
				Usage: "Enable pprof profiling and write to specified prefix (creates <prefix>.cpu.pprof and <prefix>.mem.pprof)",
			},
		},
		Before: func(c *cli.Context) error {
			if pprofPrefix := c.String("pprof"); pprofPrefix != "" {
				cpuFile, err := os.Create(pprofPrefix + ".cpu.pprof")
				if err != nil {
					return fmt.Errorf("failed to create CPU profile: %w", err)
				}
				if err := pprof.StartCPUProfile(cpuFile); err != nil {
					cpuFile.Close()
					return fmt.Errorf("failed to start CPU profile: %w", err)
				}
				c.App.Metadata["pprofCPU"] = cpuFile
			}
			return nil
		},
		After: func(c *cli.Context) error {
			if pprofPrefix := c.String("pprof"); pprofPrefix != "" {
				pprof.StopCPUProfile()
				if cpuFile, ok := c.App.Metadata["pprofCPU"].(*os.File); ok {
					cpuFile.Close()
					color.Green("CPU profile written to %s.cpu.pprof", pprofPrefix)
				}

				memFile, err := os.Create(pprofPrefix + ".mem.pprof")
				if err != nil {
					return fmt.Errorf("failed to create memory profile: %w", err)
				}
				defer memFile.Close()

				runtime.GC() // Get up-to-date statistics
				if err := pprof.WriteHeapProfile(memFile); err != nil {
					return fmt.Errorf("failed to write memory profile: %w", err)
				}
				color.Green("Memory profile written to %s.mem.pprof", pprofPrefix)
			}
			return nil
		},
		Commands: []*cli.Command{
			cleanCmd(),
			vulnCmd(),
			analyzeCmd(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func cleanCmd() *cli.Command {
	return &cli.Command{
		Name:      "clean",
		Aliases:   []string{"unused"},
		Usage:     "Find unused CSS classes, exports, imports, variables, packages, and console statements",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "skip-packages",
				Usage: "Skip the package.json dependency check",
			},
			&cli.BoolFlag{
				Name:  "skip-console",
				Usage: "Skip the console statement scan",
			},
		},
		Action: runCleanCmd,
	}
}

func runCleanCmd(c *cli.Context) error {
	root, err := getRoot(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var unusedOpts []analyzer.UnusedOption
	if c.Bool("skip-packages") {
		unusedOpts = append(unusedOpts, analyzer.WithUnusedSkipPackages())
	}

	spinner := newSpinner(c, "Sweeping for unused code...")
	unused, err := analyzer.NewUnusedAnalyzer(cfg, unusedOpts...).AnalyzeProjectWithProgress(root, spinner.Tick)
	if err != nil {
		spinner.FinishError(err)
		return fmt.Errorf("analysis failed: %w", err)
	}
	spinner.FinishSuccess()

	var console *models.PatternAnalysis
	if !c.Bool("skip-console") {
		files, err := scanCodeFiles(cfg, formatter, root)
		if err != nil {
			return err
		}
		tracker := newTracker(c, "Scanning for console statements...", len(files))
		console, err = analyzer.NewConsoleScanner(cfg).AnalyzeFiles(ctx, root, files, tracker.Tick)
		if err != nil {
			tracker.FinishError(err)
			return fmt.Errorf("console scan failed: %w", err)
		}
		tracker.FinishSuccess()
	}

	reportWarnings(formatter, cfg, unused.Warnings)
	if console != nil {
		reportWarnings(formatter, cfg, console.Warnings)
	}

	report := &output.Report{
		Title: "Vuesweep Clean Report",
		Sections: []output.Renderable{
			unusedTable(unused),
		},
		Data: struct {
			Unused  *models.UnusedAnalysis  `json:"unused"`
			Console *models.PatternAnalysis `json:"console,omitempty"`
		}{unused, console},
	}
	if console != nil {
		report.Sections = append(report.Sections, patternTable("Console Statements", console))
	}

	if err := formatter.Output(report); err != nil {
		return err
	}

	return writeCSV(formatter, cfg, collectRecords(unused, console, nil, nil))
}

func vulnCmd() *cli.Command {
	return &cli.Command{
		Name:      "vuln",
		Aliases:   []string{"security"},
		Usage:     "Find insecure code patterns and vulnerable dependencies",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-audit",
				Usage: "Skip the npm audit dependency check",
			},
		},
		Action: runVulnCmd,
	}
}

func runVulnCmd(c *cli.Context) error {
	root, err := getRoot(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	files, err := scanCodeFiles(cfg, formatter, root)
	if err != nil {
		return err
	}

	tracker := newTracker(c, "Scanning for insecure patterns...", len(files))
	insecure, err := analyzer.NewInsecureScanner(cfg).AnalyzeFiles(ctx, root, files, tracker.Tick)
	if err != nil {
		tracker.FinishError(err)
		return fmt.Errorf("pattern scan failed: %w", err)
	}
	tracker.FinishSuccess()

	audit := runAudit(ctx, c, cfg, formatter, root)

	reportWarnings(formatter, cfg, insecure.Warnings)

	report := &output.Report{
		Title: "Vuesweep Vulnerability Report",
		Sections: []output.Renderable{
			patternTable("Insecure Patterns", insecure),
		},
		Data: struct {
			Insecure *models.PatternAnalysis `json:"insecure"`
			Audit    *models.AuditResult     `json:"audit,omitempty"`
		}{insecure, audit},
	}
	appendAuditSection(report, audit, formatter.Colored())

	if err := formatter.Output(report); err != nil {
		return err
	}

	return writeCSV(formatter, cfg, collectRecords(nil, nil, insecure, audit))
}

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"all"},
		Usage:     "Run every sweep and generate a combined report",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-audit",
				Usage: "Skip the npm audit dependency check",
			},
		},
		Action: runAnalyzeCmd,
	}
}

func runAnalyzeCmd(c *cli.Context) error {
	root, err := getRoot(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	spinner := newSpinner(c, "Sweeping for unused code...")
	unused, err := analyzer.NewUnusedAnalyzer(cfg).AnalyzeProjectWithProgress(root, spinner.Tick)
	if err != nil {
		spinner.FinishError(err)
		return fmt.Errorf("analysis failed: %w", err)
	}
	spinner.FinishSuccess()

	files, err := scanCodeFiles(cfg, formatter, root)
	if err != nil {
		return err
	}

	tracker := newTracker(c, "Scanning for console statements...", len(files))
	console, err := analyzer.NewConsoleScanner(cfg).AnalyzeFiles(ctx, root, files, tracker.Tick)
	if err != nil {
		tracker.FinishError(err)
		return fmt.Errorf("console scan failed: %w", err)
	}
	tracker.FinishSuccess()

	tracker = newTracker(c, "Scanning for insecure patterns...", len(files))
	insecure, err := analyzer.NewInsecureScanner(cfg).AnalyzeFiles(ctx, root, files, tracker.Tick)
	if err != nil {
		tracker.FinishError(err)
		return fmt.Errorf("pattern scan failed: %w", err)
	}
	tracker.FinishSuccess()

	audit := runAudit(ctx, c, cfg, formatter, root)

	reportWarnings(formatter, cfg, unused.Warnings)
	reportWarnings(formatter, cfg, console.Warnings)
	reportWarnings(formatter, cfg, insecure.Warnings)

	report := &output.Report{
		Title: "Vuesweep Analysis Report",
		Sections: []output.Renderable{
			unusedTable(unused),
			patternTable("Console Statements", console),
			patternTable("Insecure Patterns", insecure),
		},
		Data: struct {
			Unused   *models.UnusedAnalysis  `json:"unused"`
			Console  *models.PatternAnalysis `json:"console"`
			Insecure *models.PatternAnalysis `json:"insecure"`
			Audit    *models.AuditResult     `json:"audit,omitempty"`
		}{unused, console, insecure, audit},
	}
	appendAuditSection(report, audit, formatter.Colored())

	if err := formatter.Output(report); err != nil {
		return err
	}

	return writeCSV(formatter, cfg, collectRecords(unused, console, insecure, audit))
}

// runAudit runs the dependency audit unless disabled. Audit failures are
// reported through the formatter rather than aborting the sweep, since the
// lexical results are still useful without npm.
func runAudit(ctx context.Context, c *cli.Context, cfg *config.Config, formatter *output.Formatter, root string) *models.AuditResult {
	if c.Bool("no-audit") || !cfg.Audit.Enabled {
		return nil
	}

	timeout := time.Duration(cfg.Audit.TimeoutSeconds) * time.Second
	spinner := newSpinner(c, "Auditing dependencies...")
	result, err := analyzer.NewAuditRunner(timeout).Run(ctx, root)
	if err != nil {
		spinner.FinishError(err)
		formatter.Error("npm audit failed: %v", err)
		return nil
	}
	spinner.FinishSuccess()
	return result
}

func reportWarnings(formatter *output.Formatter, cfg *config.Config, warnings []string) {
	if !cfg.Output.Verbose {
		return
	}
	for _, w := range warnings {
		formatter.Warning("%s", w)
	}
}

// writeCSV writes the flat record report when a CSV path is configured.
func writeCSV(formatter *output.Formatter, cfg *config.Config, records []models.Record) error {
	if cfg.Output.CSVPath == "" {
		return nil
	}
	sink := output.NewCSVSink(cfg.Output.CSVPath)
	if err := sink.Write(records); err != nil {
		return fmt.Errorf("writing CSV report: %w", err)
	}
	formatter.Success("Wrote %s to %s", output.RecordCount(len(records)), sink.Path())
	return nil
}

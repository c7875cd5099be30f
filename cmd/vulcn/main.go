package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vulcn-dast/vulcn/internal/detect"
	"github.com/vulcn-dast/vulcn/internal/model"
	"github.com/vulcn-dast/vulcn/internal/orchestrator"
	"github.com/vulcn-dast/vulcn/internal/payloadsets"
	"github.com/vulcn-dast/vulcn/internal/pluginhost"
	"github.com/vulcn-dast/vulcn/internal/resultstore"
	"github.com/vulcn-dast/vulcn/internal/runner"
	"github.com/vulcn-dast/vulcn/internal/scanlog"
	"github.com/vulcn-dast/vulcn/internal/scanreport"
	"github.com/vulcn-dast/vulcn/internal/sessionfile"
	"github.com/vulcn-dast/vulcn/internal/vulndriver"
)

var version = "0.1.0"

var (
	verbose, headless        bool
	browserType              string
	sessionsPath, configPath string
	payloadsPath             string
	outputDir, dbPath        string
	settleSeconds            int
	rate                     float64
	burst                    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "vulcn",
		Short:   "Browser-driven DAST scan orchestrator",
		Long:    "vulcn drives a recorded browser session through a payload matrix, looking for reflected, error-based, and time-based injection.",
		Version: version,
		RunE:    runScan,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "vulcn.db", "Result store path (sqlite)")

	rootCmd.Flags().StringVarP(&sessionsPath, "sessions", "s", "", "Session file or directory (required)")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Optional YAML/JSON config file")
	rootCmd.Flags().StringVarP(&payloadsPath, "payloads", "p", "", "Optional custom payload-set YAML file, appended to the built-ins")
	rootCmd.Flags().StringVarP(&browserType, "browser", "b", "chromium", "Browser: chromium, firefox, webkit")
	rootCmd.Flags().BoolVar(&headless, "headless", true, "Run the browser headless")
	rootCmd.Flags().IntVarP(&settleSeconds, "settle", "t", 5, "Settle window per payload (seconds)")
	rootCmd.Flags().Float64Var(&rate, "rate", 2, "Max steps per second (0 disables pacing)")
	rootCmd.Flags().IntVar(&burst, "burst", 2, "Step rate-limit burst")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "reports", "JSON report output directory")

	rootCmd.AddCommand(listCmd(), showCmd())
	rootCmd.MarkFlagRequired("sessions")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runScan(cmd *cobra.Command, args []string) error {
	log := scanlog.New(verbose)
	log.Banner("vulcn v" + version)

	cfg, err := loadConfig(cmd.Flags(), configPath)
	if err != nil {
		log.Fatal(err)
	}
	payloadsPath = cfg.GetString("payloads")
	browserType = cfg.GetString("browser")
	headless = cfg.GetBool("headless")
	settleSeconds = cfg.GetInt("settle")
	rate = cfg.GetFloat64("rate")
	burst = cfg.GetInt("burst")
	outputDir = cfg.GetString("output")
	dbPath = cfg.GetString("db")

	sessions, err := loadSessions(sessionsPath)
	if err != nil {
		log.Fatal(fmt.Errorf("%w: %v", model.ErrConfiguration, err))
	}
	log.Info("Loaded %d session(s) from %s", len(sessions), sessionsPath)

	sets := payloadsets.Default()
	if payloadsPath != "" {
		custom, err := loadCustomPayloads(payloadsPath)
		if err != nil {
			log.Fatal(fmt.Errorf("%w: %v", model.ErrConfiguration, err))
		}
		sets = append(sets, custom...)
	}
	for i := range sets {
		if err := sets[i].Compile(); err != nil {
			log.Fatal(fmt.Errorf("%w: %v", model.ErrConfiguration, err))
		}
	}

	store, err := resultstore.Open(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	host := pluginhost.New(log)
	plugins := []pluginhost.Plugin{
		detect.XSSReflection{},
		detect.NewSQLiDetector(),
		&detect.PassiveObserver{},
		&detect.ReportPlugin{Render: scanreport.PrintConsoleSummary},
	}
	for _, p := range plugins {
		if err := host.Load(p, nil); err != nil {
			log.Fatal(fmt.Errorf("plugin load: %w", err))
		}
	}
	defer host.Destroy()

	driver := vulndriver.NewPlaywrightDriver(rate, burst)
	r := runner.New(driver, host, sets, log, runner.WithSettleWindow(time.Duration(settleSeconds)*time.Second))

	orch := orchestrator.New(driver, host, r, log)
	orch.OnProgress = func(index, total int, session model.Session) {
		log.Section(fmt.Sprintf("Session %d/%d: %s", index+1, total, session.Name))
	}

	driverCfg := model.DriverConfig{Browser: browserType, Headless: headless}

	log.Section("Scanning")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	result, runErr := orch.Run(ctx, driverCfg, sessions)
	if runErr != nil {
		log.Error("scan: %v", runErr)
	}

	log.Section("Reporting")
	// The report plugin already rendered the console summary from
	// scan_end, via the pipe above; only the JSON artifact is written here.
	jsonFile, err := scanreport.WriteJSONReport(result, outputDir)
	if err != nil {
		log.Warn("write JSON report: %v", err)
	} else {
		log.Success("JSON report: %s", jsonFile)
	}

	if err := store.Save(ctx, result.ScanID, result, len(result.Aggregate.Findings), len(result.PerSession)); err != nil {
		log.Warn("save result: %v", err)
	} else {
		log.Success("Stored scan %s in %s", result.ScanID, dbPath)
	}

	os.Exit(result.ExitCode())
	return nil
}

// loadSessions reads sessionsPath as either a single session file or a
// manifest directory, dispatching on whether the path is a directory.
func loadSessions(path string) ([]model.Session, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return sessionfile.LoadDir(path)
	}
	session, err := sessionfile.Load(path)
	if err != nil {
		return nil, err
	}
	return []model.Session{session}, nil
}

// loadCustomPayloads reads a YAML file containing a top-level list of
// model.PayloadSet values, appended to the built-ins.
func loadCustomPayloads(path string) ([]model.PayloadSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sets []model.PayloadSet
	if err := yaml.Unmarshal(raw, &sets); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return sets, nil
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scans recorded in the result store",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := resultstore.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			summaries, err := store.List(context.Background())
			if err != nil {
				return err
			}
			for _, s := range summaries {
				fmt.Printf("%s\t%s\tfindings=%d sessions=%d\n", s.ScanID, s.CreatedAt.Format(time.RFC3339), s.FindingsCount, s.SessionCount)
			}
			return nil
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <scan-id>",
		Short: "Print a previously stored scan result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := resultstore.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			raw, err := store.Load(context.Background(), args[0])
			if err != nil {
				return err
			}
			if raw == "" {
				return fmt.Errorf("no scan recorded with id %s", args[0])
			}
			fmt.Println(strings.TrimSpace(raw))
			return nil
		},
	}
}

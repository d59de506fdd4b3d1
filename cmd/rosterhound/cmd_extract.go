package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rosterhound/internal/browser"
	"rosterhound/internal/config"
	"rosterhound/internal/export"
	"rosterhound/internal/roster"
)

var (
	startStr    string
	endStr      string
	outDir      string
	xlsxFlag    bool
	debuggerURL string
	pageURL     string
	headless    bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract the roster for a date range and write CSV + JSON exports",
	Long: `Navigates the live scheduler through every week the range touches,
waits for each week to stabilize, merges the rendered shifts, and writes
roster_<start>_<end>.csv and roster_<start>_<end>.json.

Dates are DD/MM/YYYY. A typical range is the Monday of the current week
through four weeks later.

Example:
  rosterhound extract --start 01/09/2025 --end 28/09/2025`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&startStr, "start", "", "range start, DD/MM/YYYY (required)")
	extractCmd.Flags().StringVar(&endStr, "end", "", "range end, DD/MM/YYYY (required)")
	extractCmd.Flags().StringVar(&outDir, "out", "", "output directory (default from config, else .)")
	extractCmd.Flags().BoolVar(&xlsxFlag, "xlsx", false, "also write an XLSX workbook")
	extractCmd.Flags().StringVar(&debuggerURL, "debugger-url", "", "attach to an existing Chrome DevTools endpoint")
	extractCmd.Flags().StringVar(&pageURL, "url", "", "scheduler page URL to open when no tab renders one")
	extractCmd.Flags().BoolVar(&headless, "headless", false, "run a launched Chrome headless")
}

func runExtract(cmd *cobra.Command, args []string) error {
	// Input validation happens before any navigation.
	start, err := roster.ParseDate(startStr)
	if err != nil {
		return err
	}
	end, err := roster.ParseDate(endStr)
	if err != nil {
		return err
	}
	dr, err := roster.NewDateRange(start, end)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if debuggerURL != "" {
		cfg.Browser.DebuggerURL = debuggerURL
	}
	if pageURL != "" {
		cfg.Browser.PageURL = pageURL
	}
	if cmd.Flags().Changed("headless") {
		cfg.Browser.Headless = headless
	}
	if outDir != "" {
		cfg.OutputDir = outDir
	}
	if xlsxFlag {
		cfg.XLSX = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	session, err := browser.Connect(ctx, cfg.Browser, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("browser close failed", zap.Error(err))
		}
	}()

	view, err := session.FindRosterView(ctx)
	if err != nil {
		return err
	}

	sync := roster.NewSynchronizer(view, roster.SyncConfig{
		PollInterval:    time.Duration(cfg.Sync.PollIntervalMs) * time.Millisecond,
		SettleDelay:     time.Duration(cfg.Sync.SettleDelayMs) * time.Millisecond,
		StableThreshold: cfg.Sync.StableThreshold,
		MaxAttempts:     cfg.Sync.MaxAttempts,
	}, nil, logger)

	runner := roster.NewRunner(view, sync, nil, logger)
	runner.InterAnchorDelay = time.Duration(cfg.Sync.InterWeekDelayMs) * time.Millisecond

	run, err := runner.Extract(ctx, dr)
	if err != nil {
		if errors.Is(err, roster.ErrEmptyResult) {
			fmt.Println("No staff data was extracted. Check the page and the date range, then try again.")
			return err
		}
		fmt.Fprintf(os.Stderr, "Extraction failed: %v\n", err)
		if run != nil && run.StaffCount() > 0 && confirm(cmd, "Partial data was collected. Export it?") {
			if werr := writeExports(cfg, run); werr != nil {
				return fmt.Errorf("partial export: %w", werr)
			}
		}
		return err
	}

	if err := writeExports(cfg, run); err != nil {
		return err
	}

	variants := roster.Canonicalize(run.Signatures())
	fmt.Println(export.Summary(run, len(variants)))
	for _, w := range run.Warnings {
		fmt.Println("Warning:", w)
	}
	return nil
}

// writeExports canonicalizes the collected signatures and writes every
// configured output document.
func writeExports(cfg *config.Config, run *roster.Run) error {
	variants := roster.Canonicalize(run.Signatures())
	labels := roster.LabelMap(variants)
	base := filepath.Join(cfg.OutputDir, export.BaseName(run.Range))

	csvPath := base + ".csv"
	if err := writeFile(csvPath, func(f *os.File) error {
		return export.WriteCSV(f, run, labels)
	}); err != nil {
		return err
	}

	meta := export.BuildMetadata(run, variants, time.Now())
	jsonPath := base + ".json"
	if err := writeFile(jsonPath, func(f *os.File) error {
		return export.WriteMetadata(f, meta)
	}); err != nil {
		return err
	}

	written := []string{csvPath, jsonPath}
	if cfg.XLSX {
		xlsxPath := base + ".xlsx"
		if err := writeFile(xlsxPath, func(f *os.File) error {
			return export.WriteXLSX(f, run, labels)
		}); err != nil {
			return err
		}
		written = append(written, xlsxPath)
	}

	fmt.Println("Wrote", strings.Join(written, ", "))
	return nil
}

func writeFile(path string, fill func(*os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fill(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// confirm asks a y/N question on the command's input stream.
func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"shroud/internal/diag"
	"shroud/internal/version"
)

// errReported marks failures whose details were already printed.
var errReported = errors.New("failure already reported")

var rootCmd = &cobra.Command{
	Use:   "shroud",
	Short: "Obfuscator for shroud programs",
	Long: `shroud rewrites programs into behaviourally equivalent but hard to read
versions: identifiers are masked, literals encoded, arithmetic expanded into
mixed boolean-arithmetic, guards made opaque and control flow flattened.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: preRun,
}

// Set by preRun and called once Execute returns.
var (
	traceCleanup   func(failed bool)
	profileCleanup func()
)

func init() {
	// Версия для автоматического флага --version
	rootCmd.Version = version.Version

	// Команды
	rootCmd.AddCommand(obfuscateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().String("diag-level", "info", "lowest diagnostic severity to show (info|warning|error)")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().String("config", "", "path to shroud.toml or .shroud.yaml (default: search upwards)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("trace", "", "trace output path (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both|log)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept by the ring tracer")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to this file")
}

// main запускает корневую команду. Любая ошибка даёт код выхода 1.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	cleanup(err != nil)
	if err != nil {
		if !errors.Is(err, errReported) {
			printError(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func preRun(cmd *cobra.Command, _ []string) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	on, err := colorEnabled(mode, os.Stderr)
	if err != nil {
		return err
	}
	color.NoColor = !on

	stopTrace, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	traceCleanup = stopTrace

	stopProfiles, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	profileCleanup = stopProfiles
	return nil
}

// cleanup stops the profilers before the tracer flushes.
func cleanup(failed bool) {
	if profileCleanup != nil {
		profileCleanup()
		profileCleanup = nil
	}
	if traceCleanup != nil {
		traceCleanup(failed)
		traceCleanup = nil
	}
}

// colorEnabled решает по флагу --color, красить ли вывод в f.
func colorEnabled(mode string, f *os.File) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(mode)) {
	case "", "auto":
		return isTerminal(f) && os.Getenv("NO_COLOR") == "", nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
}

func printError(w io.Writer, err error) {
	label := color.New(color.FgRed, color.Bold).Sprint("error")
	fmt.Fprintf(w, "%s: %v\n", label, err)
}

func quietFlag(cmd *cobra.Command) bool {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && quiet
}

// diagLevel reads --diag-level; --quiet raises it to errors only.
func diagLevel(cmd *cobra.Command) (diag.Severity, error) {
	if quietFlag(cmd) {
		return diag.SevError, nil
	}
	raw, err := cmd.Root().PersistentFlags().GetString("diag-level")
	if err != nil {
		return diag.SevInfo, err
	}
	return diag.ParseSeverity(raw)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

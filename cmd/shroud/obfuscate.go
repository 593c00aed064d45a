package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"shroud/internal/config"
	"shroud/internal/diag"
	"shroud/internal/diagfmt"
	"shroud/internal/driver"
	"shroud/internal/source"
)

var obfFlags obfuscateFlags

var obfuscateCmd = &cobra.Command{
	Use:   "obfuscate [flags] <file|dir> [file|dir...]",
	Short: "Rewrite programs into obfuscated equivalents",
	Long: `Obfuscate rewrites each input program and writes <name>_obfuscated.shr next to it
(or under --out-dir). Directories are searched recursively for .shr files; outputs of
earlier runs are skipped. All functions are targeted unless --func names a subset.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runObfuscate,
}

func init() {
	obfuscateCmd.Flags().StringP("output", "o", "", "output path (single input only)")
	obfuscateCmd.Flags().String("out-dir", "", "directory for outputs (default: next to each input)")
	obfuscateCmd.Flags().StringSliceVar(&obfFlags.functions, "func", nil, "functions to obfuscate (default: all)")
	obfuscateCmd.Flags().Int64Var(&obfFlags.seed, "seed", 0, "random seed; 0 picks a fresh one")
	obfuscateCmd.Flags().StringVar(&obfFlags.passes, "passes", "", "comma separated passes (encode,opaque,mba,cff,mask)")
	obfuscateCmd.Flags().BoolVar(&obfFlags.strict, "strict", false, "fail on constructs the flattener cannot rewrite")
	obfuscateCmd.Flags().IntVar(&obfFlags.jobs, "jobs", 0, "parallel workers (0 = GOMAXPROCS)")
	obfuscateCmd.Flags().StringVar(&obfFlags.suffix, "suffix", driver.DefaultSuffix, "suffix for default output names")
	obfuscateCmd.Flags().BoolVar(&obfFlags.noCache, "no-cache", false, "disable the on-disk output cache")
	obfuscateCmd.Flags().Bool("dry-run", false, "run the pipeline without writing outputs")
	obfuscateCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	obfuscateCmd.Flags().String("diagnostics", "pretty", "diagnostics format (pretty|json)")
}

func runObfuscate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	outDir, err := cmd.Flags().GetString("out-dir")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	diagFormat, err := cmd.Flags().GetString("diagnostics")
	if err != nil {
		return err
	}
	switch diagFormat {
	case "pretty", "json":
	default:
		return fmt.Errorf("unsupported diagnostics format %q (must be pretty or json)", diagFormat)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}
	quiet := quietFlag(cmd)
	level, err := diagLevel(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, configStartDir(args[0]))
	if err != nil {
		return err
	}
	obfFlags.apply(&cfg, cmd.Flags().Changed)
	if err := cfg.Validate(); err != nil {
		return configError(cfg, err)
	}
	req, err := cfg.Request()
	if err != nil {
		return err
	}

	files, err := driver.CollectSourceFiles(ctx, args, cfg.Output.Suffix)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s files found", driver.SourceExt)
	}

	opts := driver.Options{
		Request:        req,
		Output:         output,
		OutDir:         outDir,
		Suffix:         cfg.Output.Suffix,
		Jobs:           cfg.Obfuscate.Jobs,
		DryRun:         dryRun,
		Timings:        showTimings && diagFormat == "json",
		MaxDiagnostics: maxDiagnostics,
	}
	if cfg.Output.Cache && req.Seed != 0 {
		cache, err := driver.OpenDiskCache("shroud")
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: output cache disabled: %v\n", err)
		} else {
			opts.Cache = cache
		}
	}

	var report *driver.Report
	if shouldUseTUI(mode, len(files)) && !quiet {
		title := fmt.Sprintf("obfuscating %d files", len(files))
		report, err = runObfuscateWithUI(ctx, title, files, opts)
	} else {
		report, err = driver.ObfuscateFiles(ctx, files, opts)
	}
	if err != nil {
		return err
	}

	bag := report.Diagnostics().AtLeast(level)
	if diagFormat == "json" {
		if err := diagfmt.JSON(cmd.OutOrStdout(), bag, report.Files, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			Max:              maxDiagnostics,
			IncludeNotes:     true,
		}); err != nil {
			return err
		}
	} else {
		printDiagnostics(os.Stderr, bag, report.Files)
		if !quiet {
			printConfirmations(cmd.OutOrStdout(), report, dryRun)
		}
		if showTimings {
			for i := range report.Results {
				if report.Results[i].OK() {
					printStageTimings(cmd.ErrOrStderr(), &report.Results[i])
				}
			}
		}
	}

	if failed := report.Failed(); failed > 0 {
		if diagFormat == "pretty" {
			printError(os.Stderr, fmt.Errorf("%d of %d files failed", failed, len(report.Results)))
		}
		return errReported
	}
	return nil
}

// configStartDir is where the config search begins for the first input.
func configStartDir(input string) string {
	if st, err := os.Stat(input); err == nil && st.IsDir() {
		return input
	}
	return filepath.Dir(input)
}

// configError prefixes validation errors with the file they came from.
func configError(cfg config.Config, err error) error {
	var keyErr *config.KeyError
	if errors.As(err, &keyErr) && keyErr.Path == "" && cfg.Path != "" {
		keyErr.Path = cfg.Path
	}
	return err
}

// printDiagnostics пишет уже отфильтрованные диагностики.
func printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet) {
	if bag.Len() == 0 {
		return
	}
	diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
		Color:     !color.NoColor,
		Context:   1,
		PathMode:  diagfmt.PathModeRelative,
		ShowNotes: true,
	})
}

func printConfirmations(w io.Writer, report *driver.Report, dryRun bool) {
	ok := color.New(color.FgGreen, color.Bold)
	verb := "obfuscated"
	if dryRun {
		verb = "checked"
	}
	for i := range report.Results {
		res := &report.Results[i]
		if !res.OK() {
			continue
		}
		var notes []string
		if res.Cached {
			notes = append(notes, "cached")
		}
		switch n := len(res.Funcs); n {
		case 0:
		case 1:
			notes = append(notes, "1 function")
		default:
			notes = append(notes, fmt.Sprintf("%d functions", n))
		}
		line := fmt.Sprintf("%s %s -> %s", ok.Sprint(verb), res.Path, res.Output)
		if len(notes) > 0 {
			line += " (" + strings.Join(notes, ", ") + ")"
		}
		fmt.Fprintln(w, line)
	}
}

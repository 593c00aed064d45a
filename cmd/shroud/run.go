package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shroud/internal/driver"
	"shroud/internal/parser"
	"shroud/internal/vm"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] <file>",
	Short: "Execute a program in the interpreter",
	Long: `Run executes the top level of a program, then optionally calls one of its
functions with literal arguments and prints the returned value.`,
	Example: `  shroud run add.shr --call add --arg 2 --arg 3
  shroud run greet_obfuscated.shr --call greet --arg '"ann"'`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("call", "", "function to call after the top level ran")
	runCmd.Flags().StringArray("arg", nil, "literal argument for --call (repeatable)")
	runCmd.Flags().Int("max-steps", 0, "abort after this many statements (0 = unlimited)")
	runCmd.Flags().Int64("seed", 1, "seed for the random builtins")
	runCmd.Flags().Bool("trace-vm", false, "print every executed statement to stderr")
}

func runRun(cmd *cobra.Command, args []string) error {
	call, err := cmd.Flags().GetString("call")
	if err != nil {
		return err
	}
	callArgs, err := cmd.Flags().GetStringArray("arg")
	if err != nil {
		return err
	}
	if len(callArgs) > 0 && call == "" {
		return fmt.Errorf("--arg needs --call")
	}
	maxSteps, err := cmd.Flags().GetInt("max-steps")
	if err != nil {
		return err
	}
	seed, err := cmd.Flags().GetInt64("seed")
	if err != nil {
		return err
	}
	traceVM, err := cmd.Flags().GetBool("trace-vm")
	if err != nil {
		return err
	}

	opts := driver.RunOptions{
		Call:     call,
		Args:     callArgs,
		Stdout:   cmd.OutOrStdout(),
		MaxSteps: maxSteps,
		Seed:     seed,
	}
	if traceVM {
		opts.Trace = vm.NewTracer(cmd.ErrOrStderr())
	}

	res, err := driver.RunFile(cmd.Context(), args[0], opts)
	if err != nil {
		return reportRunError(res, err)
	}
	if res.Called && !quietFlag(cmd) {
		fmt.Fprintln(cmd.OutOrStdout(), res.Value.Repr())
	}
	return nil
}

// reportRunError печатает синтаксические ошибки и паники VM с позициями.
func reportRunError(res *driver.RunResult, err error) error {
	if res == nil {
		return err
	}
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return reportParseError(res.Files, err)
	}
	var vmErr *vm.VMError
	if errors.As(err, &vmErr) {
		fmt.Fprint(os.Stderr, vmErr.FormatWithFiles(res.Files))
		return errReported
	}
	return err
}

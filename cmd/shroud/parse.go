package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shroud/internal/diagfmt"
	"shroud/internal/parser"
	"shroud/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file>",
	Short: "Parse a program and print its syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "tree", "output format (tree|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	switch format {
	case "tree", "json":
	default:
		return fmt.Errorf("unsupported format %q (must be tree or json)", format)
	}

	fs := source.NewFileSet()
	id, err := fs.Load(args[0])
	if err != nil {
		return err
	}
	prog, err := parser.Parse(fs, id)
	if err != nil {
		return reportParseError(fs, err)
	}

	if format == "json" {
		return diagfmt.FormatASTJSON(cmd.OutOrStdout(), prog)
	}
	return diagfmt.FormatASTTree(cmd.OutOrStdout(), prog, fs, args[0])
}

func reportParseError(fs *source.FileSet, err error) error {
	var parseErr *parser.ParseError
	if !errors.As(err, &parseErr) {
		return err
	}
	printDiagnostics(os.Stderr, parseErr.Bag, fs)
	return errReported
}

package main

import (
	"fmt"
	"os"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/reqsync/reqsync/pkg/cliutil"
	"github.com/reqsync/reqsync/pkg/manifest"
)

func init() {
	var (
		flagCheck   bool
		flagInPlace bool
	)
	cmd := &cobra.Command{
		Use:   "fmt [flags] IN_REQUIREMENTSFILE",
		Short: "Canonicalize the formatting of a requirements file",
		Long: "Re-serialize a requirements file in canonical form: one space " +
			"between the package name and its constraint, no whitespace " +
			"inside the constraint.  Comments, blank lines, and declaration " +
			"order are left alone.  By default the result goes to stdout.",
		Args: cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			content, err := os.ReadFile(filename)
			if err != nil {
				return err
			}
			file, err := manifest.Parse(filename, content)
			if err != nil {
				return err
			}
			formatted := file.String()

			switch {
			case flagCheck:
				if formatted == string(content) {
					return nil
				}
				diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
					A:        difflib.SplitLines(string(content)),
					B:        difflib.SplitLines(formatted),
					FromFile: filename,
					ToFile:   filename + " (formatted)",
					Context:  3,
				})
				fmt.Fprint(cmd.OutOrStdout(), diff)
				return fmt.Errorf("%s is not in canonical form", filename)
			case flagInPlace:
				if formatted == string(content) {
					return nil
				}
				info, err := os.Stat(filename)
				if err != nil {
					return err
				}
				return os.WriteFile(filename, []byte(formatted), info.Mode().Perm())
			default:
				_, err := fmt.Fprint(cmd.OutOrStdout(), formatted)
				return err
			}
		},
	}
	cmd.Flags().BoolVar(&flagCheck, "check", false,
		"Don't write anything; exit 1 (printing a diff) if the file is not already canonical")
	cmd.Flags().BoolVarP(&flagInPlace, "in-place", "w", false,
		"Write the result back to the file instead of to stdout")
	argparser.AddCommand(cmd)
}

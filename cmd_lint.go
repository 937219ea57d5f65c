package main

import (
	"fmt"

	"github.com/datawire/dlib/derror"
	"github.com/spf13/cobra"

	"github.com/reqsync/reqsync/pkg/cliutil"
)

func init() {
	argparser.AddCommand(&cobra.Command{
		Use:   "lint IN_REQUIREMENTSFILE",
		Short: "Check a requirements file for mistakes",
		Long: "Check that a requirements file parses, that every package is " +
			"declared only once and with a normalized name, and that no " +
			"constraint is impossible to satisfy.  Each finding is reported " +
			"with its file position; the exit status is 1 if there are any " +
			"findings.",
		Args: cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, parseErr := loadManifest(args[0])
			if file == nil {
				return parseErr
			}

			var findings derror.MultiError
			if parseErrs, ok := parseErr.(derror.MultiError); ok {
				findings = append(findings, parseErrs...)
			} else if parseErr != nil {
				findings = append(findings, parseErr)
			}
			if lintErr := file.Lint(); lintErr != nil {
				if lintErrs, ok := lintErr.(derror.MultiError); ok {
					findings = append(findings, lintErrs...)
				} else {
					findings = append(findings, lintErr)
				}
			}

			if len(findings) > 0 {
				for _, finding := range findings {
					fmt.Fprintln(cmd.ErrOrStderr(), finding)
				}
				return fmt.Errorf("%d findings", len(findings))
			}
			return nil
		},
	})
}

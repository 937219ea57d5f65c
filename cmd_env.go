package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reqsync/reqsync/pkg/binder"
	"github.com/reqsync/reqsync/pkg/cliutil"
)

func init() {
	envCmd := &cobra.Command{
		Use:   "env {[flags]|SUBCOMMAND...}",
		Short: "Work with the conda environment file that mirrors the requirements",

		Args: cliutil.OnlySubcommands,
		RunE: cliutil.RunSubcommands,
	}

	var genOpts binder.GenerateOptions
	genCmd := &cobra.Command{
		Use:   "generate [flags] IN_REQUIREMENTSFILE",
		Short: "Generate an environment.yml from a requirements file",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := loadManifest(args[0])
			if err != nil {
				return err
			}
			out, err := binder.Generate(file, genOpts).Bytes()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	genCmd.Flags().StringVar(&genOpts.Name, "name", "",
		"Environment name to write to the \"name:\" key")
	genCmd.Flags().StringArrayVar(&genOpts.Channels, "channel", nil,
		"Conda `CHANNEL` to list (repeatable)")
	genCmd.Flags().StringArrayVar(&genOpts.Extras, "extra", nil,
		"Dependency `SPEC` to declare ahead of the requirements, such as \"python=3.8\" (repeatable)")
	envCmd.AddCommand(genCmd)

	var checkOpts binder.CheckOptions
	checkCmd := &cobra.Command{
		Use:   "check [flags] IN_REQUIREMENTSFILE IN_ENVIRONMENTFILE",
		Short: "Check that an environment.yml is in sync with a requirements file",
		Long: "Compare the dependencies of a conda environment file against the " +
			"declarations of a requirements file, and report every package " +
			"that is missing, extra, or constrained differently.  The exit " +
			"status is 1 if the two files disagree.",
		Args: cliutil.WrapPositionalArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := loadManifest(args[0])
			if err != nil {
				return err
			}
			envContent, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			env, err := binder.ParseEnvironment(args[1], envContent)
			if err != nil {
				return err
			}
			drifts, err := binder.Check(file, env, checkOpts)
			if err != nil {
				return err
			}
			if len(drifts) > 0 {
				for _, drift := range drifts {
					fmt.Fprintln(cmd.ErrOrStderr(), drift)
				}
				return fmt.Errorf("%s is out of sync with %s (%d differences)",
					args[1], args[0], len(drifts))
			}
			return nil
		},
	}
	checkCmd.Flags().StringArrayVar(&checkOpts.Ignore, "ignore", []string{"python", "pip"},
		"Package `NAME` that the environment may have without the requirements declaring it (repeatable)")
	envCmd.AddCommand(checkCmd)

	argparser.AddCommand(envCmd)
}

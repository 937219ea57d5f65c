// Command reqsync deals with requirements manifests: the flat files that
// declare an application's runtime dependencies, and the conda environment
// files that are supposed to stay in sync with them.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reqsync/reqsync/pkg/cliutil"
)

var argparser = &cobra.Command{
	Use:   "reqsync {[flags]|SUBCOMMAND...}",
	Short: "Keep requirements and environment files in sync",

	Args: cliutil.OnlySubcommands,
	RunE: cliutil.RunSubcommands,

	SilenceErrors: true, // main() will handle this after .ExecuteContext() returns
	SilenceUsage:  true, // our FlagErrorFunc will handle it
}

func init() {
	argparser.SetFlagErrorFunc(cliutil.FlagErrorFunc)
	argparser.SetHelpTemplate(cliutil.HelpTemplate)
}

func main() {
	ctx := context.Background()

	if err := argparser.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(argparser.ErrOrStderr(), "%s: error: %v\n", argparser.CommandPath(), err)
		os.Exit(1)
	}
}

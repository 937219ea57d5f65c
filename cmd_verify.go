package main

import (
	"context"
	"fmt"
	"net/url"

	"github.com/datawire/dlib/derror"
	"github.com/datawire/dlib/dgroup"
	"github.com/datawire/dlib/dlog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/reqsync/reqsync/pkg/cliutil"
	"github.com/reqsync/reqsync/pkg/manifest"
	"github.com/reqsync/reqsync/pkg/python/pep440"
	"github.com/reqsync/reqsync/pkg/python/pep503"
)

// urlValue is a pflag.Value that only accepts absolute http(s) URLs.
type urlValue struct {
	ptr *string
}

var _ pflag.Value = urlValue{}

func (v urlValue) String() string {
	if v.ptr == nil {
		return ""
	}
	return *v.ptr
}

func (v urlValue) Set(str string) error {
	u, err := url.Parse(str)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("not an absolute http(s) URL: %q", str)
	}
	*v.ptr = str
	return nil
}

func (v urlValue) Type() string {
	return "URL"
}

func init() {
	var (
		flagIndexServer = pep503.PyPIBaseURL
		flagJobs        int
	)
	cmd := &cobra.Command{
		Use:   "verify [flags] IN_REQUIREMENTSFILE",
		Short: "Verify the declarations against a package index",
		Long: "Look up every declared package on a PEP 503 \"simple\" package " +
			"index, and check that the index has at least one published " +
			"version satisfying the declared constraint.  Lookups run in " +
			"parallel; the exit status is 1 if any package fails.",
		Args: cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := loadManifest(args[0])
			if err != nil {
				return err
			}
			return verifyManifest(cmd.Context(), file, flagIndexServer, flagJobs)
		},
	}
	cmd.Flags().Var(urlValue{&flagIndexServer}, "index-server",
		"Base URL of the package index to query")
	cmd.Flags().IntVar(&flagJobs, "jobs", 4,
		"Number of index lookups to run in parallel")
	argparser.AddCommand(cmd)
}

func verifyManifest(ctx context.Context, file *manifest.File, indexServer string, jobs int) error {
	if jobs < 1 {
		jobs = 1
	}
	client := pep503.Client{
		BaseURL: indexServer,
	}
	decls := file.Declarations()

	queue := make(chan int)
	failures := make([]error, len(decls))

	grp := dgroup.NewGroup(ctx, dgroup.GroupConfig{})
	grp.Go("dispatch", func(ctx context.Context) error {
		defer close(queue)
		for i := range decls {
			select {
			case queue <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < jobs; w++ {
		grp.Go(fmt.Sprintf("worker-%d", w), func(ctx context.Context) error {
			for i := range queue {
				failures[i] = verifyDeclaration(ctx, client, decls[i])
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return err
	}

	var errs derror.MultiError
	for _, failure := range failures {
		if failure != nil {
			errs = append(errs, failure)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func verifyDeclaration(ctx context.Context, client pep503.Client, decl *manifest.Declaration) error {
	vers, err := client.ListVersions(ctx, decl.Name)
	if err != nil {
		return fmt.Errorf("%s: %w", decl.Name, err)
	}

	var matches []pep440.Version
	for _, ver := range vers {
		if decl.Constraint.Match(ver) {
			matches = append(matches, ver)
		}
	}
	if len(matches) == 0 {
		return fmt.Errorf("%s: none of the index's %d versions satisfy %q",
			decl.Name, len(vers), decl.Constraint.String())
	}

	dlog.Infof(ctx, "%s: OK (%d of %d versions satisfy %q; newest is %s)",
		decl.Name, len(matches), len(vers), decl.Constraint.String(),
		matches[len(matches)-1].String())
	return nil
}

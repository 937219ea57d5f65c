package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/reqsync/reqsync/pkg/cliutil"
	"github.com/reqsync/reqsync/pkg/manifest"
	"github.com/reqsync/reqsync/pkg/python/pep440"
	"github.com/reqsync/reqsync/pkg/python/pep503"
)

// describeClause renders a clause as a human-readable operator name and a
// version string (with the ".*" wildcard, for the prefix operators).
func describeClause(clause manifest.Clause) (op, ver string) {
	ver = clause.Version.String()
	switch clause.CmpOp {
	case pep440.CmpOpCompatible:
		op = "compatible"
	case pep440.CmpOpStrictMatch:
		op = "equal"
	case pep440.CmpOpPrefixMatch:
		op, ver = "equal", ver+".*"
	case pep440.CmpOpStrictExclude:
		op = "not-equal"
	case pep440.CmpOpPrefixExclude:
		op, ver = "not-equal", ver+".*"
	case pep440.CmpOpLE:
		op = "less-equal"
	case pep440.CmpOpGE:
		op = "greater-equal"
	case pep440.CmpOpLT:
		op = "less"
	case pep440.CmpOpGT:
		op = "greater"
	}
	return op, ver
}

func init() {
	argparser.AddCommand(&cobra.Command{
		Use:   "dump IN_REQUIREMENTSFILE",
		Short: "Print the parsed structure of a requirements file as YAML",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := loadManifest(args[0])
			if err != nil {
				return err
			}

			doc := make([]yaml.MapSlice, 0, len(file.Declarations()))
			for _, decl := range file.Declarations() {
				entry := yaml.MapSlice{
					{Key: "name", Value: decl.Name},
				}
				if normalized := pep503.NormalizeName(decl.Name); normalized != decl.Name {
					entry = append(entry, yaml.MapItem{Key: "normalized", Value: normalized})
				}
				if len(decl.Constraint) > 0 {
					clauses := make([]yaml.MapSlice, 0, len(decl.Constraint))
					for _, clause := range decl.Constraint {
						op, ver := describeClause(clause)
						clauses = append(clauses, yaml.MapSlice{
							{Key: "op", Value: op},
							{Key: "version", Value: ver},
						})
					}
					entry = append(entry, yaml.MapItem{Key: "constraint", Value: clauses})
				}
				if len(decl.Annotation) > 0 {
					entry = append(entry, yaml.MapItem{Key: "annotation", Value: decl.Annotation})
				}
				doc = append(doc, entry)
			}

			out, err := yaml.Marshal(doc)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(out))
			return err
		},
	})
}

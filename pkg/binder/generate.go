package binder

import (
	"github.com/reqsync/reqsync/pkg/manifest"
)

// GenerateOptions controls Generate.
type GenerateOptions struct {
	// Name is the environment name; empty omits the "name:" key.
	Name string
	// Channels lists the conda channels; empty omits the "channels:" key.
	Channels []string
	// Extras are dependency specs to declare ahead of the manifest's
	// (typically the interpreter itself, "python=3.8").
	Extras []string
}

// Generate builds the environment that corresponds to a manifest: one conda
// spec per declaration, in manifest order, after any Extras.
func Generate(file *manifest.File, opts GenerateOptions) *Environment {
	env := &Environment{
		Name:     opts.Name,
		Channels: opts.Channels,
	}
	for _, extra := range opts.Extras {
		env.Dependencies = append(env.Dependencies, Dependency{Spec: extra})
	}
	for _, decl := range file.Declarations() {
		env.Dependencies = append(env.Dependencies, Dependency{Spec: condaSpec(decl)})
	}
	return env
}

// condaSpec renders a declaration the way environment.yml spells it: no
// whitespace between the name and the constraint.
func condaSpec(decl *manifest.Declaration) string {
	if len(decl.Constraint) == 0 {
		return decl.Name
	}
	return decl.Name + decl.Constraint.String()
}

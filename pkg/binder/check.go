package binder

import (
	"fmt"

	"github.com/reqsync/reqsync/pkg/manifest"
	"github.com/reqsync/reqsync/pkg/python/pep503"
)

// DriftKind classifies a Drift.
type DriftKind int

const (
	// DriftMissing: the manifest declares the package but the environment
	// doesn't have it.
	DriftMissing DriftKind = iota
	// DriftExtra: the environment has a package the manifest doesn't
	// declare.
	DriftExtra
	// DriftMismatch: both have the package, with different constraints.
	DriftMismatch
)

// A Drift is one way in which an environment disagrees with a manifest.
type Drift struct {
	Kind DriftKind
	// Name is the normalized package name.
	Name string
	// Manifest and Environment are the two sides' constraint expressions
	// ("" where the side doesn't have the package, or has it
	// unconstrained).
	Manifest    string
	Environment string
}

func (d Drift) String() string {
	switch d.Kind {
	case DriftMissing:
		return fmt.Sprintf("%s: declared in the manifest but missing from the environment", d.Name)
	case DriftExtra:
		return fmt.Sprintf("%s: present in the environment but not declared in the manifest", d.Name)
	default:
		return fmt.Sprintf("%s: constraint mismatch: manifest has %q, environment has %q",
			d.Name, d.Manifest, d.Environment)
	}
}

// CheckOptions controls Check.
type CheckOptions struct {
	// Ignore lists packages (normalized or not) that the environment may
	// carry without the manifest declaring them, such as "python" or
	// "pip".
	Ignore []string
}

// Check compares an environment against the manifest it is supposed to stay
// in sync with, and returns one Drift per disagreement, in manifest order
// followed by environment order for extras.  Pip sub-requirements are
// compared like conda specs.
func Check(file *manifest.File, env *Environment, opts CheckOptions) ([]Drift, error) {
	ignore := make(map[string]bool, len(opts.Ignore))
	for _, name := range opts.Ignore {
		ignore[pep503.NormalizeName(name)] = true
	}

	envDecls := make(map[string]*manifest.Declaration)
	var envOrder []string
	addEnvDecl := func(decl *manifest.Declaration) {
		name := pep503.NormalizeName(decl.Name)
		if _, seen := envDecls[name]; !seen {
			envDecls[name] = decl
			envOrder = append(envOrder, name)
		}
	}
	for _, dep := range env.Dependencies {
		if dep.IsPip() {
			for _, req := range dep.Pip {
				decl, err := manifest.ParseDeclaration(req)
				if err != nil {
					return nil, fmt.Errorf("environment pip requirement %q: %w", req, err)
				}
				addEnvDecl(decl)
			}
			continue
		}
		decl, err := dep.Declaration()
		if err != nil {
			return nil, fmt.Errorf("environment dependency %q: %w", dep.Spec, err)
		}
		addEnvDecl(decl)
	}

	var drifts []Drift
	inManifest := make(map[string]bool)
	for _, decl := range file.Declarations() {
		name := pep503.NormalizeName(decl.Name)
		inManifest[name] = true
		envDecl, ok := envDecls[name]
		if !ok {
			drifts = append(drifts, Drift{
				Kind:     DriftMissing,
				Name:     name,
				Manifest: decl.Constraint.String(),
			})
			continue
		}
		// compare the PEP 440 meaning, not the spelling: a manifest
		// "=0.17.2" and an environment "==0.17.2" agree
		if decl.Constraint.Specifier().String() != envDecl.Constraint.Specifier().String() {
			drifts = append(drifts, Drift{
				Kind:        DriftMismatch,
				Name:        name,
				Manifest:    decl.Constraint.String(),
				Environment: envDecl.Constraint.String(),
			})
		}
	}
	for _, name := range envOrder {
		if inManifest[name] || ignore[name] {
			continue
		}
		drifts = append(drifts, Drift{
			Kind:        DriftExtra,
			Name:        name,
			Environment: envDecls[name].Constraint.String(),
		})
	}
	return drifts, nil
}

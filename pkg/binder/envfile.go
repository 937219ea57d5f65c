// Package binder deals with Binder-style conda "environment.yml" files, and
// with keeping them in sync with a requirements manifest.
package binder

import (
	"encoding/json"
	"fmt"
	"strings"

	yamlv2 "gopkg.in/yaml.v2"
	"sigs.k8s.io/yaml"

	"github.com/reqsync/reqsync/pkg/manifest"
)

// An Environment is a conda environment file.
type Environment struct {
	Name         string       `json:"name,omitempty"`
	Channels     []string     `json:"channels,omitempty"`
	Dependencies []Dependency `json:"dependencies"`
}

// A Dependency is one entry of an environment's "dependencies" list.  It is
// either a conda package spec ("jedi=0.17.2") or the magic "pip:" mapping
// that holds a nested list of pip requirements.
type Dependency struct {
	Spec string
	Pip  []string
}

// IsPip reports whether the entry is the "pip:" mapping.
func (dep Dependency) IsPip() bool {
	return dep.Spec == ""
}

func (dep *Dependency) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &dep.Spec)
	}
	var obj struct {
		Pip []string `json:"pip"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("dependency entries must be strings or a \"pip:\" mapping: %w", err)
	}
	dep.Pip = obj.Pip
	return nil
}

// Declaration parses the conda package spec as a manifest declaration; nil
// for the "pip:" mapping.
func (dep Dependency) Declaration() (*manifest.Declaration, error) {
	if dep.IsPip() {
		return nil, nil
	}
	// conda writes "name=1.0=build"; the build string has no manifest
	// counterpart, so drop it.  Only the plain exact-pin form carries a
	// build string; specs with other operators ("jedi==0.17.2",
	// "spyder-kernels>=1.9.4,<=1.10.0") also contain "=" characters and
	// must pass through untouched.
	spec := dep.Spec
	if !strings.ContainsAny(spec, "<>!~, ") {
		if fields := strings.Split(spec, "="); len(fields) == 3 && fields[0] != "" && fields[1] != "" {
			spec = fields[0] + "=" + fields[1]
		}
	}
	return manifest.ParseDeclaration(spec)
}

// ParseEnvironment parses an environment.yml.
func ParseEnvironment(filename string, content []byte) (*Environment, error) {
	var env Environment
	if err := yaml.UnmarshalStrict(content, &env); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return &env, nil
}

// Bytes serializes the environment, keeping the conventional key order
// (name, channels, dependencies) rather than the alphabetical order that a
// plain struct marshal would give.
func (env *Environment) Bytes() ([]byte, error) {
	var doc yamlv2.MapSlice
	if env.Name != "" {
		doc = append(doc, yamlv2.MapItem{Key: "name", Value: env.Name})
	}
	if len(env.Channels) > 0 {
		doc = append(doc, yamlv2.MapItem{Key: "channels", Value: env.Channels})
	}
	deps := make([]interface{}, 0, len(env.Dependencies))
	for _, dep := range env.Dependencies {
		if dep.IsPip() {
			deps = append(deps, yamlv2.MapSlice{{Key: "pip", Value: dep.Pip}})
		} else {
			deps = append(deps, dep.Spec)
		}
	}
	doc = append(doc, yamlv2.MapItem{Key: "dependencies", Value: deps})
	return yamlv2.Marshal(doc)
}

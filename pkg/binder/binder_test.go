package binder_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqsync/reqsync/pkg/binder"
	"github.com/reqsync/reqsync/pkg/manifest"
)

const manifestContent = "" +
	"jedi =0.17.2\n" +
	"pyls-spyder >=0.3.2,<0.4.0\n" +
	"python-language-server\n" +
	"watchdog\n"

func parseManifest(t *testing.T) *manifest.File {
	t.Helper()
	file, err := manifest.Parse("requirements.txt", []byte(manifestContent))
	require.NoError(t, err)
	return file
}

func TestParseEnvironment(t *testing.T) {
	t.Parallel()
	content, err := os.ReadFile(filepath.Join("testdata", "environment.yml"))
	require.NoError(t, err)
	env, err := binder.ParseEnvironment("environment.yml", content)
	require.NoError(t, err)

	assert.Equal(t, "reqsync-demo", env.Name)
	assert.Equal(t, []string{"conda-forge"}, env.Channels)
	require.Len(t, env.Dependencies, 5)
	assert.Equal(t, "python=3.8", env.Dependencies[0].Spec)
	require.True(t, env.Dependencies[4].IsPip())
	assert.Equal(t, []string{"python-language-server"}, env.Dependencies[4].Pip)

	// serialization round-trips
	out, err := env.Bytes()
	require.NoError(t, err)
	assert.Equal(t, string(content), string(out))
}

func TestParseEnvironmentErrors(t *testing.T) {
	t.Parallel()
	_, err := binder.ParseEnvironment("bad.yml", []byte("dependencies:\n- 42\n"))
	assert.Error(t, err)
	_, err = binder.ParseEnvironment("bad.yml", []byte("dependenciez: []\n"))
	assert.Error(t, err, "unknown keys are rejected")
}

func TestDependencyDeclaration(t *testing.T) {
	t.Parallel()
	testcases := map[string]struct {
		Spec           string
		WantName       string
		WantConstraint string // "" = unconstrained
	}{
		"bare":         {"watchdog", "watchdog", ""},
		"conda-pin":    {"jedi=0.17.2", "jedi", "=0.17.2"},
		"build-string": {"python=3.8=h0371630_0", "python", "=3.8"},
		"double-eq":    {"jedi==0.17.2", "jedi", "==0.17.2"},
		"closed-range": {"spyder-kernels>=1.9.4,<=1.10.0", "spyder-kernels", ">=1.9.4,<=1.10.0"},
		"open-range":   {"pyls-spyder>=0.3.2,<0.4.0", "pyls-spyder", ">=0.3.2,<0.4.0"},
	}
	for tcName, tc := range testcases {
		tc := tc
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			decl, err := binder.Dependency{Spec: tc.Spec}.Declaration()
			require.NoError(t, err)
			require.NotNil(t, decl)
			assert.Equal(t, tc.WantName, decl.Name)
			assert.Equal(t, tc.WantConstraint, decl.Constraint.String())
		})
	}
}

func TestCheckConstraintSpelling(t *testing.T) {
	t.Parallel()
	// "=" in the manifest and "==" in the environment pin the same
	// version; that must not count as drift
	env := &binder.Environment{
		Dependencies: []binder.Dependency{
			{Spec: "jedi==0.17.2"},
			{Spec: "pyls-spyder>=0.3.2,<0.4.0"},
			{Spec: "python-language-server"},
			{Spec: "watchdog"},
		},
	}
	drifts, err := binder.Check(parseManifest(t), env, binder.CheckOptions{})
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

func TestGenerate(t *testing.T) {
	t.Parallel()
	env := binder.Generate(parseManifest(t), binder.GenerateOptions{
		Name:     "reqsync-demo",
		Channels: []string{"conda-forge"},
		Extras:   []string{"python=3.8"},
	})
	out, err := env.Bytes()
	require.NoError(t, err)
	assert.Equal(t, ""+
		"name: reqsync-demo\n"+
		"channels:\n"+
		"- conda-forge\n"+
		"dependencies:\n"+
		"- python=3.8\n"+
		"- jedi=0.17.2\n"+
		"- pyls-spyder>=0.3.2,<0.4.0\n"+
		"- python-language-server\n"+
		"- watchdog\n",
		string(out))

	// a generated environment always checks clean against its manifest
	drifts, err := binder.Check(parseManifest(t), env, binder.CheckOptions{
		Ignore: []string{"python"},
	})
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

func TestCheck(t *testing.T) {
	t.Parallel()
	content, err := os.ReadFile(filepath.Join("testdata", "environment.yml"))
	require.NoError(t, err)
	env, err := binder.ParseEnvironment("environment.yml", content)
	require.NoError(t, err)

	// the testdata environment is in sync, modulo the interpreter pin
	drifts, err := binder.Check(parseManifest(t), env, binder.CheckOptions{
		Ignore: []string{"python"},
	})
	require.NoError(t, err)
	assert.Empty(t, drifts)

	// now force each drift kind
	file, err := manifest.Parse("requirements.txt", []byte(""+
		"jedi =0.18.0\n"+
		"pyls-spyder >=0.3.2,<0.4.0\n"+
		"python-language-server\n"+
		"watchdog\n"+
		"rtree >=0.8.3\n"))
	require.NoError(t, err)
	drifts, err = binder.Check(file, env, binder.CheckOptions{})
	require.NoError(t, err)
	require.Len(t, drifts, 3)

	assert.Equal(t, binder.DriftMismatch, drifts[0].Kind)
	assert.Equal(t, "jedi", drifts[0].Name)
	assert.Equal(t, "=0.18.0", drifts[0].Manifest)
	assert.Equal(t, "=0.17.2", drifts[0].Environment)

	assert.Equal(t, binder.DriftMissing, drifts[1].Kind)
	assert.Equal(t, "rtree", drifts[1].Name)

	assert.Equal(t, binder.DriftExtra, drifts[2].Kind)
	assert.Equal(t, "python", drifts[2].Name)
}

package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqsync/reqsync/pkg/manifest"
	"github.com/reqsync/reqsync/pkg/python/pep440"
	"github.com/reqsync/reqsync/pkg/testutil"
)

func TestParseDeclarations(t *testing.T) {
	t.Parallel()
	type testcase struct {
		Input          string
		WantName       string
		WantConstraint string // "" = unconstrained
	}
	testcases := map[string]testcase{
		"pinned": {
			Input:          "jedi =0.17.2",
			WantName:       "jedi",
			WantConstraint: "=0.17.2",
		},
		"range": {
			Input:          "pyls-spyder >=0.3.2,<0.4.0",
			WantName:       "pyls-spyder",
			WantConstraint: ">=0.3.2,<0.4.0",
		},
		"unconstrained": {
			Input:    "python-language-server",
			WantName: "python-language-server",
		},
		"no-space": {
			Input:          "qtpy>=1.5.0",
			WantName:       "qtpy",
			WantConstraint: ">=1.5.0",
		},
		"space-in-range": {
			Input:          "qdarkstyle >=2.8, <3.0",
			WantName:       "qdarkstyle",
			WantConstraint: ">=2.8,<3.0",
		},
		"double-equals": {
			Input:          "jsonschema ==3.2.0",
			WantName:       "jsonschema",
			WantConstraint: "==3.2.0",
		},
	}
	for tcName, tc := range testcases {
		tc := tc
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			file, err := manifest.Parse("test.txt", []byte(tc.Input+"\n"))
			require.NoError(t, err)
			decls := file.Declarations()
			require.Len(t, decls, 1)
			assert.Equal(t, tc.WantName, decls[0].Name)
			assert.Equal(t, tc.WantConstraint, decls[0].Constraint.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	input := "" +
		"jedi =0.17.2\n" +
		">=1.0 lonesome-operator\n" +
		"watchdog\n" +
		"qtpy >=not.a.version\n"
	file, err := manifest.Parse("test.txt", []byte(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test.txt:2")
	assert.Contains(t, err.Error(), "test.txt:4")

	// the good lines still parse, and the bad ones round-trip verbatim
	require.NotNil(t, file)
	assert.Len(t, file.Declarations(), 2)
	assert.Equal(t, input, file.String())
}

func TestAnnotations(t *testing.T) {
	t.Parallel()
	input := "" +
		"# Please keep this file in sync with binder/environment.yml\n" +
		"\n" +
		"jedi =0.17.2\n" +
		"# main dependency of the completion plugin\n" +
		"python-language-server\n" +
		"watchdog\n"
	file, err := manifest.Parse("test.txt", []byte(input))
	require.NoError(t, err)
	decls := file.Declarations()
	require.Len(t, decls, 3)

	// the header comment is separated by a blank line, so it is not an
	// annotation of "jedi"
	assert.Empty(t, decls[0].Annotation)
	assert.Equal(t, []string{"main dependency of the completion plugin"}, decls[1].Annotation)
	assert.Empty(t, decls[2].Annotation)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	content, err := os.ReadFile(filepath.Join("testdata", "requirements.txt"))
	require.NoError(t, err)

	file, err := manifest.Parse("requirements.txt", content)
	require.NoError(t, err)
	assert.Equal(t, string(content), file.String())

	// parsing the serialization gives the same file back
	file2, err := manifest.Parse("requirements.txt", []byte(file.String()))
	require.NoError(t, err)
	testutil.AssertEqualManifests(t, file, file2)
}

func TestConstraintMatch(t *testing.T) {
	t.Parallel()
	type testcase struct {
		Constraint string
		Version    string
		Want       bool
	}
	testcases := map[string]testcase{
		"exact-yes":      {"=0.17.2", "0.17.2", true},
		"exact-pad":      {"=0.17.2", "0.17.2.0", true},
		"exact-no":       {"=0.17.2", "0.17.1", false},
		"exact-not-post": {"=0.17.2", "0.17.2.post1", false},
		"range-lo":       {">=0.3.2,<0.4.0", "0.3.2", true},
		"range-mid":      {">=0.3.2,<0.4.0", "0.3.9", true},
		"range-hi":       {">=0.3.2,<0.4.0", "0.4.0", false},
		"range-below":    {">=0.3.2,<0.4.0", "0.3.1", false},
		"empty":          {"", "42", true},
	}
	for tcName, tc := range testcases {
		tc := tc
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			var constraint manifest.Constraint
			if tc.Constraint != "" {
				var err error
				constraint, err = manifest.ParseConstraint(tc.Constraint)
				require.NoError(t, err)
			}
			ver, err := pep440.ParseVersion(tc.Version)
			require.NoError(t, err)
			assert.Equal(t, tc.Want, constraint.Match(*ver))
		})
	}
}

func TestConstraintSpelling(t *testing.T) {
	t.Parallel()
	// "=" and "==" match the same versions but keep their own spelling
	for _, in := range []string{"=3.2.0", "==3.2.0"} {
		constraint, err := manifest.ParseConstraint(in)
		require.NoError(t, err)
		assert.Equal(t, in, constraint.String())

		spec := constraint.Specifier()
		require.Len(t, spec, 1)
		assert.Equal(t, pep440.CmpOpStrictMatch, spec[0].CmpOp)
	}
}

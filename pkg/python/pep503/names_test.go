package pep503_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reqsync/reqsync/pkg/python/pep503"
	"github.com/reqsync/reqsync/pkg/testutil"
)

func TestNormalizeName(t *testing.T) {
	t.Parallel()
	testcases := map[string]string{
		"jedi":                   "jedi",
		"pyls-spyder":            "pyls-spyder",
		"python-language-server": "python-language-server",
		"Pillow":                 "pillow",
		"ruamel.yaml":            "ruamel-yaml",
		"typing_extensions":      "typing-extensions",
		"Foo.-_.Bar":             "foo-bar",
		"PyQt5":                  "pyqt5",
	}
	for in, want := range testcases {
		assert.Equal(t, want, pep503.NormalizeName(in), "NormalizeName(%q)", in)
	}
}

func TestNormalizeNameIdempotent(t *testing.T) {
	t.Parallel()
	testutil.QuickCheck(t,
		func(name string) bool {
			once := pep503.NormalizeName(name)
			return pep503.NormalizeName(once) == once
		},
		testutil.QuickConfig{},
		[]interface{}{"pyls_spyder"},
		[]interface{}{"A--__..B"})
}

func TestCheckName(t *testing.T) {
	t.Parallel()
	assert.NoError(t, pep503.CheckName("pyls-spyder"))
	assert.NoError(t, pep503.CheckName("typing_extensions"))
	assert.NoError(t, pep503.CheckName("ruamel.yaml"))
	assert.Error(t, pep503.CheckName(""))
	assert.Error(t, pep503.CheckName("name with spaces"))
	assert.Error(t, pep503.CheckName("naïve"))
	assert.Error(t, pep503.CheckName("pkg/subpkg"))
}

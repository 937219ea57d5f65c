package pep440_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqsync/reqsync/pkg/python/pep440"
)

func TestParseSpecifier(t *testing.T) {
	t.Parallel()
	testcases := map[string]struct {
		InStr  string
		OutStr string // re-serialized form; empty for parse error
	}{
		"empty":       {"", ""},
		"eq":          {"==1.0", "==1.0"},
		"spaces":      {"~= 0.9, >= 1.0, != 1.3.4.*, < 2.0", "~=0.9,>=1.0,!=1.3.4.*,<2.0"},
		"prefix":      {"==1.1.*", "==1.1.*"},
		"ge-lt":       {">=0.3.2,<0.4.0", ">=0.3.2,<0.4.0"},
		"missing-op":  {"1.0", "error"},
		"1seg-tilde":  {"~=1", "error"},
		"arbitrary":   {"===foobar", "error"},
		"prefix-dev":  {"==1.0.dev1.*", "error"},
		"prefix-loc":  {"==1.0+foo.*", "error"},
		"lt-local":    {"<1.0+foo", "error"},
		"normalizing": {">=1.0RC1", ">=1.0rc1"},
	}
	for tcName, tc := range testcases {
		tc := tc
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			spec, err := pep440.ParseSpecifier(tc.InStr)
			if tc.OutStr == "error" {
				assert.Error(t, err)
				assert.Nil(t, spec)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.OutStr, spec.String())

			// String must round-trip, including any ".*" suffixes
			again, err := pep440.ParseSpecifier(spec.String())
			require.NoError(t, err)
			assert.Equal(t, spec, again)
		})
	}
}

func TestSpecifierMatch(t *testing.T) {
	t.Parallel()
	testcases := []struct {
		InVer    string
		InSpec   string
		OutMatch bool
	}{
		{"1.1.post1", "== 1.1", false},
		{"1.1.post1", "== 1.1.post1", true},
		{"1.1.post1", "== 1.1.*", true},

		{"1.1a1", "== 1.1", false},
		{"1.1a1", "== 1.1a1", true},
		{"1.1a1", "== 1.1.*", true},

		{"1.1", "== 1.1", true},
		{"1.1", "== 1.1.0", true},
		{"1.1", "== 1.1.dev1", false},
		{"1.1", "== 1.1a1", false},
		{"1.1", "== 1.1.post1", false},
		{"1.1", "== 1.1.*", true},

		{"1.1.post1", "!= 1.1", true},
		{"1.1.post1", "!= 1.1.post1", false},
		{"1.1.post1", "!= 1.1.*", false},

		{"1.7.2", "> 1.7", true},
		{"1.7a1", "< 1.7", true},

		{"2.3.1", "~= 2.2", true},
		{"2.2", "~= 2.2", true},
		{"2.1", "~= 2.2", false},
		{"3.0", "~= 2.2", false},
		{"1.4.6", "~= 1.4.5", true},
		{"1.5.0", "~= 1.4.5", false},

		{"1!1.2", "== 1.*", false},
		{"1.2", "== 1.*", true},
		{"1.2", "== 1!1.*", false},
		{"1.0", "<= 2.0", true},
		{"1.1rc0", "== 1.1rc.*", true},
		{"1.1rc1", "== 1.1rc.*", false},
		{"1rc1", "", true},

		// local parts are ignored unless the clause has one
		{"1.5+1.git.abc123de", ">= 1.5", true},
		{"1.0+downstream1", "== 1.0", true},
		{"1.0+downstream1", "== 1.0+downstream1", true},
		{"1.0+downstream2", "== 1.0+downstream1", false},

		// compound ranges
		{"0.3.2", ">=0.3.2,<0.4.0", true},
		{"0.3.9", ">=0.3.2,<0.4.0", true},
		{"0.4.0", ">=0.3.2,<0.4.0", false},
		{"0.3.1", ">=0.3.2,<0.4.0", false},
	}
	for i, tc := range testcases {
		tc := tc
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			t.Parallel()
			t.Logf("checking: (%s %s) => %v", tc.InVer, tc.InSpec, tc.OutMatch)

			ver, err := pep440.ParseVersion(tc.InVer)
			require.NoError(t, err)
			require.NotNil(t, ver)

			spec, err := pep440.ParseSpecifier(tc.InSpec)
			require.NoError(t, err)

			assert.Equal(t, tc.OutMatch, spec.Match(*ver))
		})
	}
}

func TestSelect(t *testing.T) {
	t.Parallel()
	choices := make([]pep440.Version, 0, 8)
	for _, str := range []string{
		"0.3.0", "0.3.1", "0.3.2", "0.3.9", "0.4.0", "0.4.1rc1", "1.0.dev1",
	} {
		choices = append(choices, pep440.MustParseVersion(str))
	}

	testcases := map[string]struct {
		InSpec string
		Out    string // empty for no match
	}{
		"range":       {">=0.3.2,<0.4.0", "0.3.9"},
		"open":        {">=0.3.2", "0.4.0"},
		"exact":       {"==0.3.2", "0.3.2"},
		"none":        {">=2.0", ""},
		"prefer-rel":  {">=0.4.0", "0.4.0"},
		"pre-only":    {">0.4.0,<1.0", "1.0.dev1"},
		"everything":  {"", "0.4.0"},
		"exclude-one": {">=0.3.0,!=0.3.9,<0.4.0", "0.3.2"},
	}
	for tcName, tc := range testcases {
		tc := tc
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			spec, err := pep440.ParseSpecifier(tc.InSpec)
			require.NoError(t, err)
			got := spec.Select(choices)
			if tc.Out == "" {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, tc.Out, got.String())
			}
		})
	}
}

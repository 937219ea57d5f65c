package testutil

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/reqsync/reqsync/pkg/manifest"
)

var spewConfig = spew.ConfigState{
	Indent:                  "  ",
	DisableMethods:          true,
	DisableCapacities:       true,
	DisablePointerAddresses: true,
	SortKeys:                true,
}

// DumpManifest renders a parsed manifest in full structural detail, for
// test-failure output.
func DumpManifest(file *manifest.File) string {
	return spewConfig.Sdump(file)
}

// Diff returns a unified diff between two multi-line strings.
func Diff(expName, exp, actName, act string) string {
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(exp),
		B:        difflib.SplitLines(act),
		FromFile: expName,
		ToFile:   actName,
		Context:  1,
	})
	return diff
}

// AssertEqualManifests checks that two parsed manifests are equal.  It first
// compares the serializations, in order to "fail fast" and give more
// readable output, and then compares the full structures.
func AssertEqualManifests(t *testing.T, exp, act *manifest.File) bool {
	t.Helper()

	expStr := exp.String()
	actStr := act.String()
	if expStr != actStr {
		t.Errorf("Serialization diff:\n%s", Diff("Expected", expStr, "Actual", actStr))
		return false
	}

	expDump := DumpManifest(exp)
	actDump := DumpManifest(act)
	if expDump != actDump {
		t.Errorf("Full diff:\n%s", Diff("Expected", expDump, "Actual", actDump))
		return false
	}

	return true
}

// Package pep440 implements PEP 440 -- Version Identification and Dependency
// Specification.
//
// https://www.python.org/dev/peps/pep-0440/
package pep440

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/intstr"
)

// A Version is a parsed PEP 440 version identifier.
//
// A Version holds the normalized form of whatever string it was parsed from;
// String returns the canonical spelling.
type Version struct {
	// Epoch is the "N!" part; 0 if absent.
	Epoch int
	// Release is the "N(.N)*" part.  It always has at least one segment.
	Release []int
	// Pre is the "{a|b|rc}N" part, or nil.
	Pre *PreRelease
	// Post is the ".postN" part, or nil.
	Post *int
	// Dev is the ".devN" part, or nil.
	Dev *int
	// Local is the "+foo.N" part; each segment is either an integer or a
	// lowercase string.
	Local []intstr.IntOrString
}

// PreRelease is a pre-release phase letter ("a", "b", or "rc" once
// normalized) and its number.
type PreRelease struct {
	L string
	N int
}

// String returns the canonical spelling of the version.
func (ver Version) String() string {
	var ret strings.Builder
	ver.writePublic(&ret)
	sep := "+"
	for _, seg := range ver.Local {
		ret.WriteString(sep)
		ret.WriteString(seg.String())
		sep = "."
	}
	return ret.String()
}

func (ver Version) writePublic(ret *strings.Builder) {
	if ver.Epoch > 0 {
		fmt.Fprintf(ret, "%d!", ver.Epoch)
	}
	if len(ver.Release) == 0 {
		panic("invalid version: no release segments")
	}
	fmt.Fprintf(ret, "%d", ver.Release[0])
	for _, seg := range ver.Release[1:] {
		fmt.Fprintf(ret, ".%d", seg)
	}
	if ver.Pre != nil {
		fmt.Fprintf(ret, "%s%d", ver.Pre.L, ver.Pre.N)
	}
	if ver.Post != nil {
		fmt.Fprintf(ret, ".post%d", *ver.Post)
	}
	if ver.Dev != nil {
		fmt.Fprintf(ret, ".dev%d", *ver.Dev)
	}
}

// Public returns the version with any local part stripped; version matching
// mostly ignores local parts.
func (ver Version) Public() Version {
	ver.Local = nil
	return ver
}

// PublicString is shorthand for ver.Public().String().
func (ver Version) PublicString() string {
	var ret strings.Builder
	ver.writePublic(&ret)
	return ret.String()
}

// IsFinal reports whether the version is a final release: no pre, post, dev,
// or local parts.
func (ver Version) IsFinal() bool {
	return ver.Pre == nil && ver.Post == nil && ver.Dev == nil && len(ver.Local) == 0
}

// IsPreRelease reports whether the version is a pre-release or a
// developmental release.
func (ver Version) IsPreRelease() bool {
	return ver.Pre != nil || ver.Dev != nil
}

func (ver Version) releaseSegment(n int) int {
	if n < len(ver.Release) {
		return ver.Release[n]
	}
	// short release segments are zero-padded for comparison
	return 0
}

func (ver Version) Major() int { return ver.releaseSegment(0) }
func (ver Version) Minor() int { return ver.releaseSegment(1) }
func (ver Version) Micro() int { return ver.releaseSegment(2) }

// preReleaseOrder ranks the pre-release phase letters; absent sorts as 0, and
// a bare ".devN" sorts below every phase.
//nolint:gochecknoglobals // would be 'const'
var preReleaseOrder = map[string]int{
	"a":  -3,
	"b":  -2,
	"rc": -1,
}

func cmpRelease(a, b Version) int {
	for i := 0; i < len(a.Release) || i < len(b.Release); i++ {
		if d := a.releaseSegment(i) - b.releaseSegment(i); d != 0 {
			return d
		}
	}
	return 0
}

func cmpPreRelease(a, b Version) int {
	var aL, aN, bL, bN int
	if a.Pre != nil {
		aL, aN = preReleaseOrder[a.Pre.L], a.Pre.N
	} else if a.Dev != nil && a.Post == nil {
		// "1.0.dev1" sorts ahead of "1.0a1"
		aL = -4
	}
	if b.Pre != nil {
		bL, bN = preReleaseOrder[b.Pre.L], b.Pre.N
	} else if b.Dev != nil && b.Post == nil {
		bL = -4
	}
	if aL != bL {
		return aL - bL
	}
	return aN - bN
}

func cmpPostRelease(a, b Version) int {
	aPost, bPost := -1, -1
	if a.Post != nil {
		aPost = *a.Post
	}
	if b.Post != nil {
		bPost = *b.Post
	}
	return aPost - bPost
}

func cmpDevRelease(a, b Version) int {
	switch {
	case a.Dev == nil && b.Dev == nil:
		return 0
	case a.Dev == nil:
		// ".devN" sorts immediately before the release it is a dev
		// release of
		return 1
	case b.Dev == nil:
		return -1
	default:
		return (*a.Dev) - (*b.Dev)
	}
}

func cmpLocalSegment(a, b *intstr.IntOrString) int {
	switch {
	case a == nil && b == nil:
		panic("should not happen: caller checks for this")
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	switch {
	case a.Type == intstr.Int && b.Type == intstr.Int:
		return int(a.IntVal - b.IntVal)
	case a.Type == intstr.String && b.Type == intstr.String:
		return strings.Compare(a.StrVal, b.StrVal)
	case a.Type == intstr.Int:
		// a numeric segment always compares greater than a
		// lexicographic one
		return 1
	default:
		return -1
	}
}

func cmpLocal(a, b Version) int {
	for i := 0; i < len(a.Local) || i < len(b.Local); i++ {
		var aSeg, bSeg *intstr.IntOrString
		if i < len(a.Local) {
			aSeg = &(a.Local[i])
		}
		if i < len(b.Local) {
			bSeg = &(b.Local[i])
		}
		if d := cmpLocalSegment(aSeg, bSeg); d != 0 {
			return d
		}
	}
	return 0
}

// CmpPublic is Cmp, ignoring the local part of both versions.
func (a Version) CmpPublic(b Version) int {
	if d := a.Epoch - b.Epoch; d != 0 {
		return d
	}
	if d := cmpRelease(a, b); d != 0 {
		return d
	}
	if d := cmpPreRelease(a, b); d != 0 {
		return d
	}
	if d := cmpPostRelease(a, b); d != 0 {
		return d
	}
	return cmpDevRelease(a, b)
}

// Cmp returns a number < 0 if version 'a' sorts before version 'b', > 0 if
// 'a' sorts after 'b', or 0 if they are equal; like the C strcmp.  Only the
// sign is defined, not the magnitude.
//
// The ordering is total: for a shared release segment the suffixes sort as
//
//	.devN, aN, bN, rcN, <none>, .postN
//
// and a version with a local part sorts after the same version without one.
func (a Version) Cmp(b Version) int {
	if d := a.CmpPublic(b); d != 0 {
		return d
	}
	return cmpLocal(a, b)
}

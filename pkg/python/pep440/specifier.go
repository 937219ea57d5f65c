package pep440

import (
	"fmt"
	"strings"
)

// A Specifier is a comma-joined series of version clauses; a candidate
// version must match every clause to match the specifier.
type Specifier []SpecifierClause

// ParseSpecifier parses a version specifier such as ">=0.3.2,<0.4.0".
func ParseSpecifier(str string) (Specifier, error) {
	clauseStrs := strings.Split(str, ",")
	ret := make(Specifier, 0, len(clauseStrs))
	for _, clauseStr := range clauseStrs {
		clauseStr = strings.TrimSpace(clauseStr)
		if clauseStr == "" {
			continue
		}
		clause, err := ParseSpecifierClause(clauseStr)
		if err != nil {
			return nil, fmt.Errorf("pep440.ParseSpecifier: %w", err)
		}
		ret = append(ret, clause)
	}
	return ret, nil
}

func (spec Specifier) String() string {
	clauses := make([]string, 0, len(spec))
	for _, clause := range spec {
		clauses = append(clauses, clause.String())
	}
	return strings.Join(clauses, ",")
}

// Match reports whether ver matches every clause of the specifier.
func (spec Specifier) Match(ver Version) bool {
	for _, clause := range spec {
		if !clause.Match(ver) {
			return false
		}
	}
	return true
}

// CmpOp identifies the comparison operator of a specifier clause.
type CmpOp int

const (
	// CmpOpCompatible is the "~=" compatible-release operator.
	CmpOpCompatible CmpOp = iota
	// CmpOpStrictMatch is "==" without a trailing ".*".
	CmpOpStrictMatch
	// CmpOpPrefixMatch is "==" with a trailing ".*".
	CmpOpPrefixMatch
	// CmpOpStrictExclude is "!=" without a trailing ".*".
	CmpOpStrictExclude
	// CmpOpPrefixExclude is "!=" with a trailing ".*".
	CmpOpPrefixExclude
	CmpOpLE
	CmpOpGE
	CmpOpLT
	CmpOpGT
)

func (op CmpOp) String() string {
	str, ok := map[CmpOp]string{
		CmpOpCompatible:    "~=",
		CmpOpStrictMatch:   "==",
		CmpOpPrefixMatch:   "==...*",
		CmpOpStrictExclude: "!=",
		CmpOpPrefixExclude: "!=...*",
		CmpOpLE:            "<=",
		CmpOpGE:            ">=",
		CmpOpLT:            "<",
		CmpOpGT:            ">",
	}[op]
	if !ok {
		panic(fmt.Errorf("invalid CmpOp: %d", op))
	}
	return str
}

// A SpecifierClause is a single operator-and-version clause.
type SpecifierClause struct {
	CmpOp   CmpOp
	Version Version
}

// ParseSpecifierClause parses a single clause such as ">=0.3.2" or "==1.1.*".
func ParseSpecifierClause(str string) (SpecifierClause, error) {
	var ret SpecifierClause
	str = strings.TrimSpace(str)
	minSegments := 1
	devOK := true
	localOK := false
	switch {
	case strings.HasPrefix(str, "~="):
		ret.CmpOp = CmpOpCompatible
		str = str[2:]
		// "~=1" is meaningless: there is no final segment to float
		minSegments = 2
	case strings.HasPrefix(str, "==="):
		return ret, fmt.Errorf("arbitrary equality (===) is not supported; versions must be PEP 440 compliant")
	case strings.HasPrefix(str, "=="):
		ret.CmpOp = CmpOpStrictMatch
		str = str[2:]
		localOK = true
		if strings.HasSuffix(str, ".*") {
			ret.CmpOp = CmpOpPrefixMatch
			str = strings.TrimSuffix(str, ".*")
			devOK = false
			localOK = false
		}
	case strings.HasPrefix(str, "!="):
		ret.CmpOp = CmpOpStrictExclude
		str = str[2:]
		localOK = true
		if strings.HasSuffix(str, ".*") {
			ret.CmpOp = CmpOpPrefixExclude
			str = strings.TrimSuffix(str, ".*")
			devOK = false
			localOK = false
		}
	case strings.HasPrefix(str, "<="):
		ret.CmpOp = CmpOpLE
		str = str[2:]
	case strings.HasPrefix(str, ">="):
		ret.CmpOp = CmpOpGE
		str = str[2:]
	case strings.HasPrefix(str, "<"):
		ret.CmpOp = CmpOpLT
		str = str[1:]
	case strings.HasPrefix(str, ">"):
		ret.CmpOp = CmpOpGT
		str = str[1:]
	default:
		return ret, fmt.Errorf("invalid comparison operator: %q", str)
	}
	ver, err := ParseVersion(str)
	if err != nil {
		return ret, err
	}
	if len(ver.Release) < minSegments {
		return ret, fmt.Errorf("at least %d release segments required in %s specifier clauses",
			minSegments, ret.CmpOp)
	}
	if ver.Dev != nil && !devOK {
		return ret, fmt.Errorf("dev-part not permitted in %s specifier clauses", ret.CmpOp)
	}
	if len(ver.Local) > 0 && !localOK {
		return ret, fmt.Errorf("local-part not permitted in %s specifier clauses", ret.CmpOp)
	}
	ret.Version = *ver
	return ret, nil
}

func (spec SpecifierClause) String() string {
	switch spec.CmpOp {
	case CmpOpPrefixMatch:
		return "==" + spec.Version.String() + ".*"
	case CmpOpPrefixExclude:
		return "!=" + spec.Version.String() + ".*"
	default:
		return spec.CmpOp.String() + spec.Version.String()
	}
}

// Match reports whether ver matches the clause.
func (spec SpecifierClause) Match(ver Version) bool {
	switch spec.CmpOp {
	case CmpOpCompatible:
		return matchCompatible(spec.Version, ver)
	case CmpOpStrictMatch:
		return matchStrictMatch(spec.Version, ver)
	case CmpOpPrefixMatch:
		return matchPrefixMatch(spec.Version, ver)
	case CmpOpStrictExclude:
		return !matchStrictMatch(spec.Version, ver)
	case CmpOpPrefixExclude:
		return !matchPrefixMatch(spec.Version, ver)
	case CmpOpLE:
		return spec.Version.Cmp(ver) >= 0
	case CmpOpGE:
		return spec.Version.Cmp(ver) <= 0
	case CmpOpLT:
		return spec.Version.Cmp(ver) > 0
	case CmpOpGT:
		return spec.Version.Cmp(ver) < 0
	default:
		panic(fmt.Errorf("invalid CmpOp: %d", spec.CmpOp))
	}
}

// matchCompatible: "~=V.N" is ">=V.N, ==V.*" with the final release segment
// and any suffixes dropped from the prefix.
func matchCompatible(spec, ver Version) bool {
	prefix := spec
	prefix.Release = prefix.Release[:len(prefix.Release)-1]
	prefix.Pre = nil
	prefix.Post = nil
	prefix.Dev = nil
	return spec.Cmp(ver) <= 0 && matchPrefixMatch(prefix, ver)
}

// matchStrictMatch: equality after zero padding.  The candidate's local part
// is ignored unless the clause itself has one.
func matchStrictMatch(spec, ver Version) bool {
	if len(spec.Local) == 0 {
		return spec.CmpPublic(ver) == 0
	}
	return spec.Cmp(ver) == 0
}

// matchPrefixMatch: "==V.*".  Everything up to and including the clause's
// terminal part must match; trailing parts of the candidate are ignored.
func matchPrefixMatch(spec, ver Version) bool {
	spec, ver = spec.Public(), ver.Public()

	if spec.Epoch != ver.Epoch {
		return false
	}

	if spec.Pre == nil && spec.Post == nil {
		// the release segment is the terminal part
		if len(ver.Release) > len(spec.Release) {
			ver.Release = ver.Release[:len(spec.Release)]
		}
		return cmpRelease(spec, ver) == 0
	}
	if cmpRelease(spec, ver) != 0 {
		return false
	}

	if (ver.Pre == nil) != (spec.Pre == nil) {
		return false
	}
	if spec.Pre != nil && (ver.Pre.L != spec.Pre.L || ver.Pre.N != spec.Pre.N) {
		return false
	}
	if spec.Post == nil {
		return true
	}

	return cmpPostRelease(spec, ver) == 0
}

// Select returns the largest version from choices that matches the
// specifier, preferring final and post releases over pre-releases; nil if
// nothing matches.
func (spec Specifier) Select(choices []Version) *Version {
	var best *Version
	var bestPre *Version
	for _, choice := range choices {
		if !spec.Match(choice) {
			continue
		}
		choice := choice
		if choice.IsPreRelease() {
			if bestPre == nil || bestPre.Cmp(choice) < 0 {
				bestPre = &choice
			}
		} else {
			if best == nil || best.Cmp(choice) < 0 {
				best = &choice
			}
		}
	}
	if best != nil {
		return best
	}
	return bestPre
}

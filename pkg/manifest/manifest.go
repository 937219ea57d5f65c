// Package manifest reads and writes requirements manifests: flat,
// line-oriented files that declare one external package per line, with an
// optional version constraint and "#" comments.
//
// This is the conda-flavored dialect ("name op version", a bare "=" meaning
// exact match) that IDE-style Python applications use for their runtime
// dependency lists; constraints otherwise follow PEP 440.
package manifest

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/datawire/dlib/derror"

	"github.com/reqsync/reqsync/pkg/python/pep440"
)

// LineKind discriminates the Line variants.
type LineKind int

const (
	// LineBlank is a whitespace-only line.
	LineBlank LineKind = iota
	// LineComment is a line whose first non-blank character is "#".
	LineComment
	// LineDecl is a dependency declaration.
	LineDecl
	// LineInvalid is a line that failed to parse; it is preserved
	// verbatim so that the file can still round-trip.
	LineInvalid
)

// A Line is one physical line of a manifest.
type Line struct {
	Number int // 1-based
	Kind   LineKind
	Text   string // the raw line, without the trailing newline
	Decl   *Declaration
}

// A Declaration names one external package and the versions of it that are
// acceptable.
type Declaration struct {
	// Name is the package name exactly as written.
	Name string
	// Constraint is empty for an unconstrained declaration.
	Constraint Constraint
	// Annotation is the contiguous block of comment lines immediately
	// above the declaration (marker and margin stripped), if any.
	// Annotations are documentation; they are never parsed as
	// constraints.
	Annotation []string
}

// String returns the canonical single-line form of the declaration.
func (decl *Declaration) String() string {
	if len(decl.Constraint) == 0 {
		return decl.Name
	}
	return decl.Name + " " + decl.Constraint.String()
}

// A File is a parsed manifest.  Comments, blank lines, and declaration order
// are all preserved.
type File struct {
	Name  string // filename, for positions in error messages
	Lines []Line
}

// Parse parses manifest content.  Parsing is permissive: lines that don't
// parse are kept verbatim (see LineInvalid) and reported in the returned
// error, which is a derror.MultiError with one entry per bad line; the File
// is usable either way.
func Parse(filename string, content []byte) (*File, error) {
	file := &File{
		Name: filename,
	}
	var errs derror.MultiError
	var pendingComments []string

	scanner := bufio.NewScanner(bytes.NewReader(content))
	lineno := 0
	for scanner.Scan() {
		lineno++
		text := scanner.Text()
		line := Line{
			Number: lineno,
			Text:   text,
		}
		trimmed := strings.TrimSpace(text)
		switch {
		case trimmed == "":
			line.Kind = LineBlank
			pendingComments = nil
		case strings.HasPrefix(trimmed, "#"):
			line.Kind = LineComment
			pendingComments = append(pendingComments,
				strings.TrimPrefix(strings.TrimPrefix(trimmed, "#"), " "))
		default:
			decl, err := ParseDeclaration(trimmed)
			if err != nil {
				line.Kind = LineInvalid
				errs = append(errs, fmt.Errorf("%s:%d: %w", filename, lineno, err))
				pendingComments = nil
				break
			}
			line.Kind = LineDecl
			decl.Annotation = pendingComments
			line.Decl = decl
			pendingComments = nil
		}
		file.Lines = append(file.Lines, line)
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", filename, err))
	}

	if len(errs) > 0 {
		return file, errs
	}
	return file, nil
}

// ParseDeclaration parses a single declaration: "name", "name op version",
// or "name op version,op version"; the whitespace between name and
// constraint is optional.
func ParseDeclaration(str string) (*Declaration, error) {
	nameEnd := strings.IndexFunc(str, func(r rune) bool {
		return r == ' ' || r == '\t' || strings.ContainsRune("<>=!~", r)
	})
	if nameEnd == 0 {
		return nil, fmt.Errorf("declaration does not start with a package name: %q", str)
	}

	decl := &Declaration{}
	if nameEnd < 0 {
		decl.Name = str
		return decl, nil
	}
	decl.Name = str[:nameEnd]

	constraintStr := strings.TrimSpace(str[nameEnd:])
	if constraintStr == "" {
		return decl, nil
	}
	constraint, err := ParseConstraint(constraintStr)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", decl.Name, err)
	}
	decl.Constraint = constraint
	return decl, nil
}

// String re-serializes the file.  Declarations are written in canonical form
// (a single space between name and constraint, none within a clause);
// comments and blank lines are reproduced verbatim.
func (file *File) String() string {
	var ret strings.Builder
	for _, line := range file.Lines {
		switch line.Kind {
		case LineDecl:
			ret.WriteString(line.Decl.String())
		default:
			ret.WriteString(line.Text)
		}
		ret.WriteString("\n")
	}
	return ret.String()
}

// Declarations returns the file's declarations in file order.
func (file *File) Declarations() []*Declaration {
	var ret []*Declaration
	for _, line := range file.Lines {
		if line.Kind == LineDecl {
			ret = append(ret, line.Decl)
		}
	}
	return ret
}

// A Constraint is a comma-joined list of clauses, all of which must hold.
type Constraint []Clause

// A Clause is a single operator-and-version pair.  Exact marks the
// conda-style bare "=" spelling, which matches like "==" but keeps its
// spelling through round-trips.
type Clause struct {
	Exact bool
	pep440.SpecifierClause
}

// ParseConstraint parses a constraint expression such as ">=0.3.2,<0.4.0" or
// "=0.17.2".
func ParseConstraint(str string) (Constraint, error) {
	clauseStrs := strings.Split(str, ",")
	ret := make(Constraint, 0, len(clauseStrs))
	for _, clauseStr := range clauseStrs {
		clauseStr = strings.TrimSpace(clauseStr)
		if clauseStr == "" {
			return nil, fmt.Errorf("empty clause in constraint %q", str)
		}
		clause, err := parseClause(clauseStr)
		if err != nil {
			return nil, err
		}
		ret = append(ret, clause)
	}
	return ret, nil
}

func parseClause(str string) (Clause, error) {
	var ret Clause
	if strings.HasPrefix(str, "=") && !strings.HasPrefix(str, "==") {
		ver, err := pep440.ParseVersion(str[1:])
		if err != nil {
			return ret, err
		}
		ret.Exact = true
		ret.CmpOp = pep440.CmpOpStrictMatch
		ret.Version = *ver
		return ret, nil
	}
	inner, err := pep440.ParseSpecifierClause(str)
	if err != nil {
		return ret, err
	}
	ret.SpecifierClause = inner
	return ret, nil
}

func (clause Clause) String() string {
	if clause.Exact {
		return "=" + clause.Version.String()
	}
	return clause.SpecifierClause.String()
}

func (constraint Constraint) String() string {
	clauses := make([]string, 0, len(constraint))
	for _, clause := range constraint {
		clauses = append(clauses, clause.String())
	}
	return strings.Join(clauses, ",")
}

// Match reports whether ver satisfies every clause of the constraint.  An
// empty constraint matches everything.
func (constraint Constraint) Match(ver pep440.Version) bool {
	for _, clause := range constraint {
		if !clause.Match(ver) {
			return false
		}
	}
	return true
}

// Specifier converts the constraint to a plain PEP 440 specifier (the "="
// spelling becomes "==").
func (constraint Constraint) Specifier() pep440.Specifier {
	ret := make(pep440.Specifier, 0, len(constraint))
	for _, clause := range constraint {
		ret = append(ret, clause.SpecifierClause)
	}
	return ret
}

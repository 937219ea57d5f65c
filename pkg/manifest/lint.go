package manifest

import (
	"fmt"

	"github.com/datawire/dlib/derror"

	"github.com/reqsync/reqsync/pkg/python/pep440"
	"github.com/reqsync/reqsync/pkg/python/pep503"
)

// Lint checks the file for mistakes that parse fine but are wrong anyway.
// The returned error is a derror.MultiError with one entry per finding, or
// nil if the file is clean.  It checks that
//
//   - package names contain only legal characters,
//   - package names are written in normalized form,
//   - no package is declared twice (names that normalize the same count as
//     the same package), and
//   - no constraint is unsatisfiable (a lower bound at or above an upper
//     bound).
func (file *File) Lint() error {
	var errs derror.MultiError

	firstDecl := make(map[string]int) // normalized name => line number
	for _, line := range file.Lines {
		if line.Kind != LineDecl {
			continue
		}
		decl := line.Decl

		if err := pep503.CheckName(decl.Name); err != nil {
			errs = append(errs, fmt.Errorf("%s:%d: %w", file.Name, line.Number, err))
			continue
		}
		normalized := pep503.NormalizeName(decl.Name)
		if decl.Name != normalized {
			errs = append(errs, fmt.Errorf("%s:%d: package name %q is not in normalized form (write it as %q)",
				file.Name, line.Number, decl.Name, normalized))
		}

		if prev, ok := firstDecl[normalized]; ok {
			errs = append(errs, fmt.Errorf("%s:%d: duplicate declaration of %q (first declared on line %d)",
				file.Name, line.Number, decl.Name, prev))
		} else {
			firstDecl[normalized] = line.Number
		}

		if err := checkSatisfiable(decl.Constraint); err != nil {
			errs = append(errs, fmt.Errorf("%s:%d: %q: %w", file.Name, line.Number, decl.Name, err))
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// checkSatisfiable rejects constraints whose lower bound is at or above
// their upper bound.  It only inspects the ordered operators; exclusions and
// prefix matches are left alone.
func checkSatisfiable(constraint Constraint) error {
	var lower, upper *Clause
	for i := range constraint {
		clause := &constraint[i]
		switch clause.CmpOp {
		case pep440.CmpOpGT, pep440.CmpOpGE:
			if lower == nil || clause.Version.Cmp(lower.Version) > 0 {
				lower = clause
			}
		case pep440.CmpOpLT, pep440.CmpOpLE:
			if upper == nil || clause.Version.Cmp(upper.Version) < 0 {
				upper = clause
			}
		}
	}
	if lower == nil || upper == nil {
		return nil
	}
	switch cmp := lower.Version.Cmp(upper.Version); {
	case cmp > 0:
		return fmt.Errorf("unsatisfiable constraint: %q excludes everything that %q allows",
			lower.String(), upper.String())
	case cmp == 0 && (lower.CmpOp == pep440.CmpOpGT || upper.CmpOp == pep440.CmpOpLT):
		return fmt.Errorf("unsatisfiable constraint: %q excludes everything that %q allows",
			lower.String(), upper.String())
	}
	return nil
}

// Package pep503 implements PEP 503 -- Simple Repository API.
//
// https://www.python.org/dev/peps/pep-0503/
package pep503

import (
	"fmt"
	"regexp"
	"strconv"
)

var reNameSeparators = regexp.MustCompile("[-_.]+")

// NormalizeName returns the normalized form of a project name: lowercased,
// with runs of "-", "_", and "." collapsed to a single "-".  Two names that
// normalize the same refer to the same project.
func NormalizeName(name string) string {
	return reNameSeparators.ReplaceAllLiteralString(toLower(name), "-")
}

func toLower(str string) string {
	// ASCII-only on purpose; non-ASCII is rejected by CheckName
	bs := []byte(str)
	for i, b := range bs {
		if 'A' <= b && b <= 'Z' {
			bs[i] = b - 'A' + 'a'
		}
	}
	return string(bs)
}

// CheckName validates that a project name contains only the characters the
// simple API permits: ASCII letters, ASCII digits, ".", "-", and "_".
func CheckName(name string) error {
	if name == "" {
		return fmt.Errorf("empty project name")
	}
	for _, char := range name {
		if !(('a' <= char && char <= 'z') ||
			('A' <= char && char <= 'Z') ||
			('0' <= char && char <= '9') ||
			char == '.' ||
			char == '-' ||
			char == '_') {
			return fmt.Errorf("illegal character in project name: %q: %s",
				name, strconv.QuoteRuneToASCII(char))
		}
	}
	return nil
}

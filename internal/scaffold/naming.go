package scaffold

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidName is returned when a dataset name is not a valid identifier.
var ErrInvalidName = errors.New("invalid dataset name")

// namePattern requires at least two characters.
var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]+$`)

// IsValidName reports whether name can be used as a dataset identifier. The
// name ends up as a file stem, a SQL table name and a Python function name.
func IsValidName(name string) bool {
	return namePattern.MatchString(name)
}

// ValidateName returns ErrInvalidName (wrapped with the offending name) when
// name is not a valid identifier.
func ValidateName(name string) error {
	if !IsValidName(name) {
		return fmt.Errorf("%w %q: must match %s", ErrInvalidName, name, namePattern.String())
	}
	return nil
}

// DatasetNameFromPath returns the stem of a CSV path.
// e.g., "data/rent_roll.csv" -> "rent_roll"
func DatasetNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ToDisplayCase converts a snake_case column name to the display case used for
// schema field names.
// e.g., "boop_bap" -> "BoopBap"
func ToDisplayCase(snake string) string {
	var b strings.Builder
	for _, word := range strings.Split(snake, "_") {
		b.WriteString(capitalize(word))
	}
	return b.String()
}

// capitalize returns the string with the first letter uppercased.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

package symbols

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrNoSolution is the cause of every deschematization failure. It is a
// local result: callers filtering overload candidates drop the candidate
// and try the next one.
var ErrNoSolution = errors.New("no solution")

// DuplicateSymbolError: a name bound twice in one scope.
type DuplicateSymbolError struct {
	Name     string
	Existing Entry
}

func (e *DuplicateSymbolError) Error() string {
	return "Duplicate symbol: " + e.Name
}

// NoSuchSymbolError: a lookup found nothing.
type NoSuchSymbolError struct {
	Qualifier string
	Name      string
}

func (e *NoSuchSymbolError) Error() string {
	if e.Qualifier != "" {
		return "No such symbol in module: " + e.Qualifier + "." + e.Name
	}
	return "No such symbol: " + e.Name
}

// AmbiguousSymbolError: a query expecting one result found several.
type AmbiguousSymbolError struct {
	Name       string
	Candidates []Entry
}

func (e *AmbiguousSymbolError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = FullyQualifiedName(c)
	}
	return "Ambiguous symbol.  Candidates: " + strings.Join(names, ", ") + ".  Consider qualifying."
}

// NoSuchModuleError: a qualifier named neither an imported module nor a
// visible facility.
type NoSuchModuleError struct {
	Name string
}

func (e *NoSuchModuleError) Error() string {
	return "Module does not exist or is not in scope."
}

// UnexpectedKindError: a coercion asked an entry for a kind it cannot
// represent.
type UnexpectedKindError struct {
	Expected string
	Found    string
}

func (e *UnexpectedKindError) Error() string {
	return fmt.Sprintf("Expecting %s, found %s.", e.Expected, e.Found)
}

// NotATypeError: a symbol used as a type has no type value.
type NotATypeError struct {
	Name string
}

func (e *NotATypeError) Error() string {
	return e.Name + " is not known to be a type."
}

// ScopeError is an internal fault in scope stack discipline.
type ScopeError struct {
	Msg string
}

func (e *ScopeError) Error() string {
	return "scope stack: " + e.Msg
}

func noSolution(format string, args ...any) error {
	return errors.Wrapf(ErrNoSolution, format, args...)
}

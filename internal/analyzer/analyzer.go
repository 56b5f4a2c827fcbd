package analyzer

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-set/v3"

	"github.com/funvibe/specsema/internal/ast"
	"github.com/funvibe/specsema/internal/config"
	"github.com/funvibe/specsema/internal/symbols"
	"github.com/funvibe/specsema/internal/token"
	"github.com/funvibe/specsema/internal/typesystem"
)

// Analyzer populates modules into a symbol table, one module at a time,
// in dependency order.
type Analyzer struct {
	table *symbols.Table

	// AutoImports are imported into every program module; a module on
	// the list only receives the entries before it.
	AutoImports []string
	// NoAutoImports never receive AutoImports.
	NoAutoImports []string
	// Debug receives one line per resolved symbol when set.
	Debug io.Writer

	typeMaps     map[symbols.ModuleIdentifier]*typesystem.TypeMap
	programTypes map[symbols.ModuleIdentifier]map[ast.Exp]symbols.ProgramType
}

// New creates an Analyzer over table with the standard auto-imports.
func New(table *symbols.Table) *Analyzer {
	return &Analyzer{
		table:         table,
		AutoImports:   config.AutoImportModules,
		NoAutoImports: config.NoAutoImportModules,
		typeMaps:      make(map[symbols.ModuleIdentifier]*typesystem.TypeMap),
		programTypes:  make(map[symbols.ModuleIdentifier]map[ast.Exp]symbols.ProgramType),
	}
}

func (a *Analyzer) Table() *symbols.Table { return a.table }

// TypeMap returns the math types recorded while populating id.
func (a *Analyzer) TypeMap(id symbols.ModuleIdentifier) *typesystem.TypeMap {
	return a.typeMaps[id]
}

// ProgramType returns the program type recorded for a program
// expression of module id.
func (a *Analyzer) ProgramType(id symbols.ModuleIdentifier, e ast.Exp) (symbols.ProgramType, bool) {
	pt, ok := a.programTypes[id][e]
	return pt, ok
}

// Populate builds and seals the scope of m. Every module m imports must
// already be populated. On failure the table and the type graph are
// left as they were and the returned error is a
// *diagnostics.DiagnosticError.
func (a *Analyzer) Populate(m *ast.Module) (*symbols.Scope, error) {
	mark := a.table.Graph().Mark()
	w := a.newWalker(m)
	scope, err := w.populate()
	if err != nil {
		a.table.Abandon()
		a.table.Graph().Rollback(mark)
		return nil, err
	}
	id := symbols.ModuleIdentifier(m.Name)
	a.typeMaps[id] = w.types
	a.programTypes[id] = w.programTypes
	return scope, nil
}

type walker struct {
	table        *symbols.Table
	g            *typesystem.Graph
	types        *typesystem.TypeMap
	programTypes map[ast.Exp]symbols.ProgramType
	module       *ast.Module
	moduleID     symbols.ModuleIdentifier
	autoImports  []string
	noAutoImport []string
	debug        io.Writer

	quantifiers      []ast.Quantification // never empty; the bottom is NoQuantification
	typeValueDepth   int                  // > 0 inside a position denoting a type
	definitionParams bool                 // visiting a definition's parameter list
	quantifiedVars   bool                 // visiting the bound variables of a quantifier

	// Set while populating one type theorem's assertion.
	theoremAssertion *ast.TypeAssertionExp
	theoremDest      typesystem.MathType

	directDefinition *ast.MathDefinitionDec         // non-inductive definition being populated
	schematicTypes   map[string]typesystem.MathType // implicit type parameters of that definition
	namedTypes       *set.Set[string]               // names used as types in that definition
	genericTypes     map[string]typesystem.MathType // module type parameters, with their bounds

	operation     *symbols.OperationEntry // operation implemented by the current procedure
	recursiveCall *token.Token            // first call the current procedure makes to itself
}

func (a *Analyzer) newWalker(m *ast.Module) *walker {
	return &walker{
		table:        a.table,
		g:            a.table.Graph(),
		types:        typesystem.NewTypeMap(),
		programTypes: make(map[ast.Exp]symbols.ProgramType),
		module:       m,
		moduleID:     symbols.ModuleIdentifier(m.Name),
		autoImports:  a.AutoImports,
		noAutoImport: a.NoAutoImports,
		debug:        a.Debug,
		quantifiers:  []ast.Quantification{ast.NoQuantification},
		namedTypes:   set.New[string](0),
		genericTypes: make(map[string]typesystem.MathType),
	}
}

func (w *walker) scope() *symbols.Scope { return w.table.CurrentScope() }

func (w *walker) pushQuantification(q ast.Quantification) { w.quantifiers = append(w.quantifiers, q) }
func (w *walker) popQuantification()                      { w.quantifiers = w.quantifiers[:len(w.quantifiers)-1] }
func (w *walker) quantification() ast.Quantification      { return w.quantifiers[len(w.quantifiers)-1] }

func (w *walker) debugf(format string, args ...interface{}) {
	if w.debug == nil {
		return
	}
	fmt.Fprintf(w.debug, format+"\n", args...)
}

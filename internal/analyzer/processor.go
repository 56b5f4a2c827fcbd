package analyzer

import (
	"fmt"
	"slices"

	"github.com/hashicorp/go-set/v3"

	"github.com/funvibe/specsema/internal/ast"
	"github.com/funvibe/specsema/internal/pipeline"
	"github.com/funvibe/specsema/internal/symbols"
)

// PopulatorProcessor populates the ordered modules into the context's
// table. A module that fails, and every module that reaches it through
// its imports, is left out; the rest are still populated. The table is
// sealed only when every module is in.
type PopulatorProcessor struct {
	// Analyzer is set after Process for callers that want the type maps
	// and program types.
	Analyzer *Analyzer
}

func (pp *PopulatorProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Failed() {
		return ctx
	}

	a := New(ctx.Table)
	if ctx.Config != nil {
		a.AutoImports = ctx.Config.AutoImports
		a.NoAutoImports = ctx.Config.NoAutoImport
	}
	a.Debug = ctx.Debug
	pp.Analyzer = a

	failed := set.New[string](0)
	for _, m := range ctx.Modules {
		if err := ctx.Context.Err(); err != nil {
			ctx.Errors = append(ctx.Errors, err)
			return ctx
		}
		if dep, ok := firstFailed(a.dependencies(m), failed); ok {
			failed.Insert(m.Name)
			if ctx.Debug != nil {
				fmt.Fprintf(ctx.Debug, "Skipped module %s: %s failed\n", m.Name, dep)
			}
			continue
		}
		scope, err := a.Populate(m)
		if err != nil {
			ctx.Errors = append(ctx.Errors, err)
			failed.Insert(m.Name)
			continue
		}
		id := symbols.ModuleIdentifier(m.Name)
		ctx.Scopes[id] = scope
		ctx.TypeMaps[id] = a.TypeMap(id)
	}

	if !failed.Empty() {
		return ctx
	}
	if err := ctx.Table.Seal(); err != nil {
		ctx.Errors = append(ctx.Errors, err)
	}
	return ctx
}

func firstFailed(deps []string, failed *set.Set[string]) (string, bool) {
	for _, d := range deps {
		if failed.Contains(d) {
			return d, true
		}
	}
	return "", false
}

// dependencies lists every module m imports, auto-imports included.
// Modules run in dependency order, so a module reaching a failed one
// does so through a direct import that is itself marked failed.
func (a *Analyzer) dependencies(m *ast.Module) []string {
	var deps []string
	if m.Kind.IsProgramModule() && !slices.Contains(a.NoAutoImports, m.Name) {
		for _, name := range a.AutoImports {
			if name == m.Name {
				break
			}
			deps = append(deps, name)
		}
	}
	return append(deps, m.ReferencedModules()...)
}

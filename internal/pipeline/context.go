package pipeline

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/funvibe/specsema/internal/ast"
	"github.com/funvibe/specsema/internal/config"
	"github.com/funvibe/specsema/internal/diagnostics"
	"github.com/funvibe/specsema/internal/symbols"
	"github.com/funvibe/specsema/internal/typesystem"
)

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries everything the stages hand to each other.
type PipelineContext struct {
	Context context.Context
	Config  *config.Project

	// Paths are the module files and directories to load. Filled from
	// Config when empty.
	Paths []string

	// Modules are the loaded modules, dependencies first.
	Modules []*ast.Module

	Table    *symbols.Table
	Scopes   map[symbols.ModuleIdentifier]*symbols.Scope
	TypeMaps map[symbols.ModuleIdentifier]*typesystem.TypeMap

	// IndexPath receives the sealed table when set.
	IndexPath string

	Debug  io.Writer
	Errors []error
}

// NewPipelineContext prepares a run over cfg. cfg may be nil when Paths
// are set directly.
func NewPipelineContext(ctx context.Context, cfg *config.Project) *PipelineContext {
	pc := &PipelineContext{
		Context:  ctx,
		Config:   cfg,
		Table:    symbols.NewTable(typesystem.NewGraph()),
		Scopes:   make(map[symbols.ModuleIdentifier]*symbols.Scope),
		TypeMaps: make(map[symbols.ModuleIdentifier]*typesystem.TypeMap),
	}
	if cfg != nil {
		pc.Paths = cfg.ModulePaths()
		pc.IndexPath = cfg.IndexPath()
	}
	return pc
}

func (c *PipelineContext) Failed() bool { return len(c.Errors) > 0 }

// Diagnostics returns the errors that carry a source position.
func (c *PipelineContext) Diagnostics() []*diagnostics.DiagnosticError {
	var out []*diagnostics.DiagnosticError
	for _, err := range c.Errors {
		var de *diagnostics.DiagnosticError
		if errors.As(err, &de) {
			out = append(out, de)
		}
	}
	return out
}

package modules

import (
	"github.com/funvibe/specsema/internal/pipeline"
)

// LoadProcessor reads every configured path and orders the modules.
type LoadProcessor struct {
	Loader *Loader
}

func (lp *LoadProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Failed() {
		return ctx
	}
	loader := lp.Loader
	if loader == nil {
		loader = NewLoader()
		if ctx.Config != nil {
			loader.AutoImports = ctx.Config.AutoImports
			loader.NoAutoImport = ctx.Config.NoAutoImport
		}
	}

	if err := loader.LoadPaths(ctx.Paths...); err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	order, err := loader.Order()
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Modules = order
	return ctx
}

package symindex

import (
	"github.com/funvibe/specsema/internal/pipeline"
)

// IndexProcessor exports the sealed table when the run asks for an
// index. RunID is set after a successful export.
type IndexProcessor struct {
	RunID string
}

func (ip *IndexProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Failed() || ctx.IndexPath == "" {
		return ctx
	}
	id, err := Export(ctx.Context, ctx.IndexPath, ctx.Table)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ip.RunID = id
	return ctx
}

package pipeline_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/funvibe/specsema/internal/analyzer"
	"github.com/funvibe/specsema/internal/config"
	"github.com/funvibe/specsema/internal/diagnostics"
	"github.com/funvibe/specsema/internal/modules"
	"github.com/funvibe/specsema/internal/pipeline"
	"github.com/funvibe/specsema/internal/symbols"
	"github.com/funvibe/specsema/internal/symindex"
)

func newPipeline(index *symindex.IndexProcessor) *pipeline.Pipeline {
	return pipeline.New(
		&modules.LoadProcessor{},
		&analyzer.PopulatorProcessor{},
		index,
	)
}

func TestRunStackProject(t *testing.T) {
	cfg, err := config.LoadConfig(filepath.Join("testdata", "stack", "specsema.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := pipeline.NewPipelineContext(context.Background(), cfg)
	ctx.IndexPath = filepath.Join(t.TempDir(), "index.db")

	index := &symindex.IndexProcessor{}
	result := newPipeline(index).Run(ctx)
	if result.Failed() {
		t.Fatalf("run failed: %v", result.Errors)
	}

	var names []string
	for _, m := range result.Modules {
		names = append(names, m.Name)
	}
	want := "Integer_Theory Stack_Template Array_Based_Realization Get_Nth_Ability Stack_Facility"
	if got := strings.Join(names, " "); got != want {
		t.Errorf("order = %s, expected %s", got, want)
	}

	if !result.Table.Sealed() {
		t.Error("table not sealed after a clean run")
	}
	if len(result.Scopes) != 5 || len(result.TypeMaps) != 5 {
		t.Errorf("%d scopes and %d type maps, expected 5 each", len(result.Scopes), len(result.TypeMaps))
	}

	facility := result.Scopes["Stack_Facility"]
	if _, err := facility.QueryForOne(symbols.NameAndKindQuery("Stack_Fac", "Peek", nil,
		symbols.ImportNamed, symbols.FacilityInstantiate)); err != nil {
		t.Errorf("Stack_Fac::Peek: %v", err)
	}

	if index.RunID == "" {
		t.Fatal("index not written")
	}
	rows, err := symindex.Lookup(context.Background(), ctx.IndexPath, "Max")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) == 0 || rows[0].Module != "Integer_Theory" {
		t.Errorf("Max rows = %+v", rows)
	}
}

func TestRunReportsLocatedFailure(t *testing.T) {
	ctx := pipeline.NewPipelineContext(context.Background(), nil)
	ctx.Paths = []string{filepath.Join("testdata", "stack", "stack", "array_realization.mod.yaml")}

	populator := &analyzer.PopulatorProcessor{}
	result := pipeline.New(&modules.LoadProcessor{}, populator).Run(ctx)

	diags := result.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", result.Errors)
	}
	if diags[0].Code != diagnostics.ErrS011 {
		t.Errorf("code = %s, expected %s", diags[0].Code, diagnostics.ErrS011)
	}
	if !strings.Contains(diags[0].Token.File, "array_realization.mod.yaml") {
		t.Errorf("diagnostic not located in the module file: %s", diags[0])
	}
	if result.Table.Sealed() {
		t.Error("table sealed after a failed run")
	}
}

func TestRunSkipsDependentsOfFailedModules(t *testing.T) {
	ctx := pipeline.NewPipelineContext(context.Background(), nil)
	ctx.Paths = []string{filepath.Join("testdata", "partial")}

	result := newPipeline(&symindex.IndexProcessor{}).Run(ctx)

	diags := result.Diagnostics()
	if len(diags) != 1 || len(result.Errors) != 1 {
		t.Fatalf("expected one diagnostic, got %v", result.Errors)
	}
	if diags[0].Code != diagnostics.ErrS002 || !strings.Contains(diags[0].Token.File, "broken.mod.yaml") {
		t.Errorf("diagnostic = %s", diags[0])
	}

	tests := []struct {
		module    symbols.ModuleIdentifier
		populated bool
	}{
		{"Broken_Theory", false},
		{"Dependent_Theory", false},
		{"Atop_Theory", false},
		{"Unrelated_Theory", true},
	}
	for _, tt := range tests {
		_, inContext := result.Scopes[tt.module]
		if inContext != tt.populated || result.Table.HasModule(tt.module) != tt.populated {
			t.Errorf("%s populated = %v, expected %v", tt.module, inContext, tt.populated)
		}
	}
	if _, err := result.Scopes["Unrelated_Theory"].QueryForOne(symbols.NameQuery("", "w",
		symbols.ImportNone, symbols.FacilityIgnore, false)); err != nil {
		t.Errorf("Unrelated_Theory w: %v", err)
	}
	if result.Table.Sealed() {
		t.Error("table sealed after a failed run")
	}
}

func TestRunReportsCycles(t *testing.T) {
	ctx := pipeline.NewPipelineContext(context.Background(), nil)
	ctx.Paths = []string{filepath.Join("testdata", "cycle")}

	result := newPipeline(&symindex.IndexProcessor{}).Run(ctx)
	if len(result.Errors) != 1 {
		t.Fatalf("expected one error, got %v", result.Errors)
	}
	var cycle *modules.CycleError
	if !errors.As(result.Errors[0], &cycle) {
		t.Fatalf("expected a cycle, got %v", result.Errors[0])
	}
	if got := cycle.Error(); got != "circular dependency detected: A_Theory -> B_Theory -> A_Theory" {
		t.Errorf("error = %s", got)
	}
	if len(result.Diagnostics()) != 0 {
		t.Error("a cycle is not a source diagnostic")
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	ctx := pipeline.NewPipelineContext(cancelled, nil)
	ctx.Paths = []string{filepath.Join("testdata", "stack")}

	result := newPipeline(&symindex.IndexProcessor{}).Run(ctx)
	if len(result.Errors) != 1 || !errors.Is(result.Errors[0], context.Canceled) {
		t.Fatalf("errors = %v", result.Errors)
	}
	if len(result.Modules) != 0 {
		t.Error("modules loaded after cancellation")
	}
}

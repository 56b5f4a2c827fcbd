package typesystem

import (
	"errors"
	"testing"
)

func TestBind(t *testing.T) {
	g := NewGraph()
	z := g.ProperFor("Z", g.SSet)
	n := g.ProperFor("N", g.SSet)
	T := g.Named("T")

	tests := []struct {
		name     string
		actual   MathType
		template MathType
		bounds   Subst
		initial  Subst
		want     Subst
		wantErr  bool
	}{
		{
			name:     "variable binds",
			actual:   z,
			template: T,
			bounds:   Subst{"T": g.MType},
			want:     Subst{"T": z},
		},
		{
			name:     "inside powertype",
			actual:   g.Powertype(z),
			template: g.Powertype(T),
			bounds:   Subst{"T": g.MType},
			want:     Subst{"T": z},
		},
		{
			name:     "bound violated",
			actual:   g.MType,
			template: T,
			bounds:   Subst{"T": g.SSet},
			wantErr:  true,
		},
		{
			name:     "existing binding wins",
			actual:   g.CartesianOf(z, z),
			template: g.CartesianOf(T, T),
			bounds:   Subst{"T": g.MType},
			want:     Subst{"T": z},
		},
		{
			name:     "conflicting binding",
			actual:   g.CartesianOf(z, n),
			template: g.CartesianOf(T, T),
			bounds:   Subst{"T": g.MType},
			wantErr:  true,
		},
		{
			name:     "initial bindings kept",
			actual:   n,
			template: g.Named("E"),
			bounds:   Subst{"E": g.MType},
			initial:  Subst{"T": z},
			want:     Subst{"T": z, "E": n},
		},
		{
			name:     "proper identity",
			actual:   z,
			template: n,
			wantErr:  true,
		},
		{
			name:     "shape mismatch",
			actual:   z,
			template: g.Powertype(T),
			bounds:   Subst{"T": g.MType},
			wantErr:  true,
		},
		{
			name:     "unbindable name must match",
			actual:   g.Named("R"),
			template: g.Named("R"),
			want:     Subst{},
		},
		{
			name:     "function",
			actual:   g.FunctionOf(g.Boolean, z),
			template: g.FunctionOf(g.Boolean, T),
			bounds:   Subst{"T": g.MType},
			want:     Subst{"T": z},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.Bind(tt.actual, tt.template, tt.bounds, tt.initial)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				if !errors.Is(err, ErrBindingFailed) {
					t.Errorf("error %v does not wrap ErrBindingFailed", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("bindings = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if !Equal(got[k], v) {
					t.Errorf("%s := %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestBind_DoesNotModifyInitial(t *testing.T) {
	g := NewGraph()
	z := g.ProperFor("Z", g.SSet)
	initial := Subst{}
	if _, err := g.Bind(z, g.Named("T"), Subst{"T": g.MType}, initial); err != nil {
		t.Fatal(err)
	}
	if len(initial) != 0 {
		t.Errorf("initial bindings modified: %v", initial)
	}
}

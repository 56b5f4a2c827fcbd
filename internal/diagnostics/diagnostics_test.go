package diagnostics

import (
	"strings"
	"testing"

	"github.com/funvibe/specsema/internal/token"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *DiagnosticError
		want string
	}{
		{
			name: "with file",
			err:  NewError(ErrS001, token.At("Foo.mt", 3, 7), "Duplicate symbol: x"),
			want: "Foo.mt:3:7: S001: Duplicate symbol: x",
		},
		{
			name: "no file",
			err:  NewError(ErrS002, token.Token{Line: 1, Column: 2}, "No such symbol: y"),
			want: "1:2: S002: No such symbol: y",
		},
		{
			name: "notes",
			err:  Newf(ErrS003, token.Token{}, "Ambiguous symbol %s.", "z").WithNote("A.z").WithNote("B.z"),
			want: "0:0: S003: Ambiguous symbol z.\n\tA.z\n\tB.z",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCodeNames(t *testing.T) {
	if ErrS010.Name() != "IllegalRelationship" {
		t.Errorf("S010 name = %s", ErrS010.Name())
	}
	if !ErrI002.IsInternal() || ErrS002.IsInternal() {
		t.Error("internal classification is wrong")
	}
	if !strings.HasPrefix(ErrorCode("X999").Name(), "X999") {
		t.Error("unknown codes should name themselves")
	}
}

// Package symindex writes a sealed symbol table to SQLite so tools can
// query what every module declares without repopulating it.
package symindex

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/funvibe/specsema/internal/symbols"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	modules    INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS entries (
	run_id         TEXT NOT NULL REFERENCES runs(id),
	module         TEXT NOT NULL,
	scope          TEXT NOT NULL,
	name           TEXT NOT NULL,
	kind           TEXT NOT NULL,
	math_type      TEXT NOT NULL DEFAULT '',
	type_value     TEXT NOT NULL DEFAULT '',
	quantification TEXT NOT NULL DEFAULT '',
	program_type   TEXT NOT NULL DEFAULT '',
	seq            INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS entries_name ON entries(run_id, name);
CREATE TABLE IF NOT EXISTS relationships (
	run_id    TEXT NOT NULL REFERENCES runs(id),
	source    TEXT NOT NULL,
	dest      TEXT NOT NULL,
	condition INTEGER NOT NULL
);
`

// Row is one indexed binding.
type Row struct {
	Module         string
	Scope          string
	Name           string
	Kind           string
	MathType       string
	TypeValue      string
	Quantification string
	ProgramType    string
}

// Export appends the contents of table to the index at path as a new run
// and returns the run id. The table must be sealed.
func Export(ctx context.Context, path string, table *symbols.Table) (string, error) {
	if !table.Sealed() {
		return "", errors.New("symindex: table is not sealed")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return "", errors.Wrapf(err, "symindex: opening %s", path)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return "", errors.Wrap(err, "symindex: creating schema")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", errors.Wrap(err, "symindex: begin")
	}
	defer tx.Rollback()

	runID := uuid.NewString()
	scopes := table.Modules()
	if _, err := tx.ExecContext(ctx, `INSERT INTO runs (id, created_at, modules) VALUES (?, ?, ?)`,
		runID, time.Now().UTC().Format(time.RFC3339), len(scopes)); err != nil {
		return "", errors.Wrap(err, "symindex: recording run")
	}

	ins, err := tx.PrepareContext(ctx, `INSERT INTO entries
		(run_id, module, scope, name, kind, math_type, type_value, quantification, program_type, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", errors.Wrap(err, "symindex: preparing insert")
	}
	defer ins.Close()

	seq := 0
	var walk func(s *symbols.Scope, path string) error
	walk = func(s *symbols.Scope, path string) error {
		for _, e := range s.Entries() {
			r := Describe(e)
			if _, err := ins.ExecContext(ctx, runID, string(s.Module()), path, r.Name, r.Kind,
				r.MathType, r.TypeValue, r.Quantification, r.ProgramType, seq); err != nil {
				return errors.Wrapf(err, "symindex: inserting %s", symbols.FullyQualifiedName(e))
			}
			seq++
		}
		for i, c := range s.Children() {
			if err := walk(c, path+"/"+c.Kind().String()+strconv.Itoa(i)); err != nil {
				return err
			}
		}
		return nil
	}
	for _, s := range scopes {
		if me, ok := table.ModuleEntry(s.Module()); ok {
			r := Describe(me)
			if _, err := ins.ExecContext(ctx, runID, string(s.Module()), "", r.Name, r.Kind,
				r.MathType, r.TypeValue, r.Quantification, r.ProgramType, seq); err != nil {
				return "", errors.Wrapf(err, "symindex: inserting module %s", s.Module())
			}
			seq++
		}
		if err := walk(s, s.Kind().String()); err != nil {
			return "", err
		}
	}

	for _, r := range table.Graph().Relationships() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO relationships (run_id, source, dest, condition) VALUES (?, ?, ?, ?)`,
			runID, r.Source.String(), r.Dest.String(), !r.IsUnconditional()); err != nil {
			return "", errors.Wrap(err, "symindex: inserting relationship")
		}
	}

	if err := tx.Commit(); err != nil {
		return "", errors.Wrap(err, "symindex: commit")
	}
	return runID, nil
}

// Describe flattens e into a row. Module and Scope are left empty.
func Describe(e symbols.Entry) Row {
	r := Row{Name: e.Name(), Kind: kindOf(e)}
	if sym, err := e.ToMathSymbol(); err == nil && sym != nil {
		if sym.Type != nil {
			r.MathType = sym.Type.String()
		}
		if sym.HasTypeValue() {
			if v, err := sym.TypeValue(); err == nil {
				r.TypeValue = v.String()
			}
		}
		r.Quantification = sym.Quantification.String()
	}
	if pt, err := e.ToProgramType(); err == nil && pt.ProgramType != nil {
		r.ProgramType = pt.ProgramType.String()
	} else if v, err := e.ToProgramVariable(); err == nil && v.ProgramType != nil {
		r.ProgramType = v.ProgramType.String()
	}
	return r
}

// kindOf names what e is as a single lowercase word.
func kindOf(e symbols.Entry) string {
	switch e.(type) {
	case *symbols.MathSymbolEntry:
		return "math"
	case *symbols.ProgramVariableEntry:
		return "variable"
	case *symbols.ProgramParameterEntry:
		return "parameter"
	case *symbols.TypeFamilyEntry:
		return "family"
	case *symbols.TypeRepresentationEntry:
		return "representation"
	case *symbols.ProgramTypeEntry:
		return "type"
	case *symbols.OperationEntry:
		return "operation"
	case *symbols.ProcedureEntry:
		return "procedure"
	case *symbols.FacilityEntry:
		return "facility"
	case *symbols.TheoremEntry:
		return "theorem"
	case *symbols.ShortFacilityEntry:
		return "shortfacility"
	case *symbols.ModuleEntry:
		return "module"
	}
	desc := e.Description()
	if i := strings.LastIndexByte(desc, ' '); i >= 0 {
		desc = desc[i+1:]
	}
	return desc
}

// Lookup returns the bindings named name from the latest run in the
// index at path, in the order they were exported.
func Lookup(ctx context.Context, path, name string) ([]Row, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "symindex: opening %s", path)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT module, scope, name, kind, math_type, type_value, quantification, program_type
		FROM entries
		WHERE name = ? AND run_id = (SELECT id FROM runs ORDER BY created_at DESC, rowid DESC LIMIT 1)
		ORDER BY seq`, name)
	if err != nil {
		return nil, errors.Wrap(err, "symindex: query")
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Module, &r.Scope, &r.Name, &r.Kind, &r.MathType, &r.TypeValue, &r.Quantification, &r.ProgramType); err != nil {
			return nil, errors.Wrap(err, "symindex: scan")
		}
		out = append(out, r)
	}
	return out, errors.Wrap(rows.Err(), "symindex: rows")
}

// Runs counts the runs recorded in the index at path.
func Runs(ctx context.Context, path string) (int, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return 0, errors.Wrapf(err, "symindex: opening %s", path)
	}
	defer db.Close()
	var n int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n)
	return n, errors.Wrap(err, "symindex: counting runs")
}

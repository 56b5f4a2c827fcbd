package modules

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/go-set/v3"
	"github.com/pkg/errors"

	"github.com/funvibe/specsema/internal/ast"
	"github.com/funvibe/specsema/internal/config"
)

// CycleError reports modules that depend on each other. Path starts and
// ends with the same module.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "circular dependency detected: " + strings.Join(e.Path, " -> ")
}

// Loader reads module files and orders them so that every module comes
// after the modules it names.
type Loader struct {
	// AutoImports and NoAutoImport mirror the analyzer settings; an
	// auto-import is a dependency of every program module it applies to.
	AutoImports  []string
	NoAutoImport []string

	modules    map[string]*ast.Module
	names      []string        // in load order
	Processing map[string]bool // modules on the current Order path
}

func NewLoader() *Loader {
	return &Loader{
		AutoImports:  config.AutoImportModules,
		NoAutoImport: config.NoAutoImportModules,
		modules:      make(map[string]*ast.Module),
		Processing:   make(map[string]bool),
	}
}

// IsModuleFile reports whether name has a module file extension.
func IsModuleFile(name string) bool {
	for _, ext := range config.ModuleFileExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// LoadPaths loads every path. A directory contributes all module files
// beneath it in lexical order.
func (l *Loader) LoadPaths(paths ...string) error {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return errors.Wrap(err, "loading modules")
		}
		if !info.IsDir() {
			if err := l.LoadFile(p); err != nil {
				return err
			}
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !IsModuleFile(d.Name()) {
				return nil
			}
			return l.LoadFile(path)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading module")
	}
	m, err := DecodeModule(data, path)
	if err != nil {
		return err
	}
	return l.Add(m)
}

// Add registers an already decoded module.
func (l *Loader) Add(m *ast.Module) error {
	if prev, ok := l.modules[m.Name]; ok {
		return errors.Errorf("%s: module %s already loaded from %s", m.Token.File, m.Name, prev.Token.File)
	}
	l.modules[m.Name] = m
	l.names = append(l.names, m.Name)
	return nil
}

func (l *Loader) Module(name string) (*ast.Module, bool) {
	m, ok := l.modules[name]
	return m, ok
}

func (l *Loader) Len() int { return len(l.names) }

// Dependencies lists the loaded modules m names, auto-imports first.
// Names that were never loaded are left for the analyzer to report.
func (l *Loader) Dependencies(m *ast.Module) []string {
	var names []string
	if m.Kind.IsProgramModule() && !slices.Contains(l.NoAutoImport, m.Name) {
		for _, name := range l.AutoImports {
			if name == m.Name {
				break
			}
			names = append(names, name)
		}
	}
	names = append(names, m.ReferencedModules()...)

	seen := set.New[string](len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := l.modules[name]; ok && seen.Insert(name) {
			out = append(out, name)
		}
	}
	return out
}

// Order returns the loaded modules, dependencies before dependents and
// otherwise in load order.
func (l *Loader) Order() ([]*ast.Module, error) {
	done := set.New[string](len(l.names))
	out := make([]*ast.Module, 0, len(l.names))
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		if done.Contains(name) {
			return nil
		}
		if l.Processing[name] {
			start := slices.Index(path, name)
			cycle := append(slices.Clone(path[start:]), name)
			return &CycleError{Path: cycle}
		}
		l.Processing[name] = true
		path = append(path, name)
		defer func() {
			delete(l.Processing, name)
			path = path[:len(path)-1]
		}()

		m := l.modules[name]
		for _, dep := range l.Dependencies(m) {
			if err := visit(dep); err != nil {
				return err
			}
		}
		done.Insert(name)
		out = append(out, m)
		return nil
	}

	for _, name := range l.names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return out, nil
}

package modules

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/specsema/internal/ast"
	"github.com/funvibe/specsema/internal/token"
)

// DecodeError is a malformed module file, located at the offending YAML
// node.
type DecodeError struct {
	File   string
	Line   int
	Column int
	Msg    string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Msg)
}

var moduleKinds = map[string]ast.ModuleKind{
	"precis":                  ast.PrecisModule,
	"concept":                 ast.ConceptModule,
	"realization":             ast.ConceptRealizationModule,
	"enhancement":             ast.EnhancementModule,
	"enhancement_realization": ast.EnhancementRealizationModule,
	"facility":                ast.FacilityModule,
}

var assertionKinds = map[string]ast.AssertionKind{
	"theorem":   ast.Theorem,
	"axiom":     ast.Axiom,
	"corollary": ast.Corollary,
	"lemma":     ast.Lemma,
	"property":  ast.Property,
}

var definitionKinds = map[string]ast.DefinitionKind{
	"":          ast.DirectDefinition,
	"direct":    ast.DirectDefinition,
	"inductive": ast.InductiveDefinition,
	"implicit":  ast.ImplicitDefinition,
}

var quantifiers = map[string]ast.Quantification{
	"forall": ast.Universal,
	"exists": ast.Existential,
	"unique": ast.Unique,
}

// DecodeModule decodes one module document. path is recorded in every
// token and in errors.
func DecodeModule(data []byte, path string) (*ast.Module, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &DecodeError{File: path, Line: 1, Column: 1, Msg: "empty module file"}
	}
	d := &decoder{file: path}
	return d.module(doc.Content[0])
}

type decoder struct {
	file string
}

func (d *decoder) tok(n *yaml.Node) token.Token {
	return token.Token{File: d.file, Line: n.Line, Column: n.Column, Lexeme: n.Value}
}

func (d *decoder) errorf(n *yaml.Node, format string, args ...interface{}) error {
	return &DecodeError{File: d.file, Line: n.Line, Column: n.Column, Msg: fmt.Sprintf(format, args...)}
}

// mapping is a YAML mapping with its keys in document order. The first
// key of a declaration or expression mapping says what it is.
type mapping struct {
	node   *yaml.Node
	keys   []string
	keyPos map[string]*yaml.Node
	values map[string]*yaml.Node
}

func (d *decoder) mapping(n *yaml.Node) (*mapping, error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, "expected a mapping")
	}
	m := &mapping{node: n, keyPos: make(map[string]*yaml.Node), values: make(map[string]*yaml.Node)}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if _, dup := m.values[k.Value]; dup {
			return nil, d.errorf(k, "duplicate key %q", k.Value)
		}
		m.keys = append(m.keys, k.Value)
		m.keyPos[k.Value] = k
		m.values[k.Value] = v
	}
	if len(m.keys) == 0 {
		return nil, d.errorf(n, "empty mapping")
	}
	return m, nil
}

func (m *mapping) head() string              { return m.keys[0] }
func (m *mapping) get(key string) *yaml.Node { return m.values[key] }

// only rejects keys outside allowed.
func (d *decoder) only(m *mapping, allowed ...string) error {
	for _, k := range m.keys {
		ok := false
		for _, a := range allowed {
			if k == a {
				ok = true
				break
			}
		}
		if !ok {
			return d.errorf(m.keyPos[k], "unexpected key %q in %s", k, m.head())
		}
	}
	return nil
}

func (d *decoder) scalar(n *yaml.Node, what string) (string, error) {
	if n == nil || n.Kind != yaml.ScalarNode {
		if n == nil {
			return "", nil
		}
		return "", d.errorf(n, "%s must be a scalar", what)
	}
	return n.Value, nil
}

func (d *decoder) requiredScalar(m *mapping, key string) (string, error) {
	n := m.get(key)
	if n == nil {
		return "", d.errorf(m.node, "%s: missing %s", m.head(), key)
	}
	s, err := d.scalar(n, key)
	if err == nil && s == "" {
		err = d.errorf(n, "%s: empty %s", m.head(), key)
	}
	return s, err
}

func (d *decoder) bool(m *mapping, key string) (bool, error) {
	n := m.get(key)
	if n == nil {
		return false, nil
	}
	var b bool
	if err := n.Decode(&b); err != nil {
		return false, d.errorf(n, "%s must be true or false", key)
	}
	return b, nil
}

func (d *decoder) sequence(n *yaml.Node, what string) ([]*yaml.Node, error) {
	if n == nil {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "%s must be a list", what)
	}
	return n.Content, nil
}

// splitQualifier splits "Module::name". Operators made of colons are
// left alone.
func splitQualifier(s string) (qualifier, name string) {
	if i := strings.Index(s, "::"); i > 0 && i+2 < len(s) {
		return s[:i], s[i+2:]
	}
	return "", s
}

func (d *decoder) module(n *yaml.Node) (*ast.Module, error) {
	m, err := d.mapping(n)
	if err != nil {
		return nil, err
	}
	if err := d.only(m, "kind", "name", "concept", "enhancement", "uses", "params", "decs"); err != nil {
		return nil, err
	}
	kindName, err := d.requiredScalar(m, "kind")
	if err != nil {
		return nil, err
	}
	kind, ok := moduleKinds[kindName]
	if !ok {
		return nil, d.errorf(m.get("kind"), "unknown module kind %q", kindName)
	}
	name, err := d.requiredScalar(m, "name")
	if err != nil {
		return nil, err
	}
	mod := &ast.Module{Token: d.tok(m.get("name")), Kind: kind, Name: name}
	if mod.Concept, err = d.scalar(m.get("concept"), "concept"); err != nil {
		return nil, err
	}
	if mod.Enhancement, err = d.scalar(m.get("enhancement"), "enhancement"); err != nil {
		return nil, err
	}
	switch kind {
	case ast.ConceptRealizationModule, ast.EnhancementModule:
		if mod.Concept == "" {
			return nil, d.errorf(n, "%s %s names no concept", kind, name)
		}
	case ast.EnhancementRealizationModule:
		if mod.Concept == "" || mod.Enhancement == "" {
			return nil, d.errorf(n, "%s %s needs a concept and an enhancement", kind, name)
		}
	}

	uses, err := d.sequence(m.get("uses"), "uses")
	if err != nil {
		return nil, err
	}
	for _, u := range uses {
		s, err := d.scalar(u, "uses item")
		if err != nil {
			return nil, err
		}
		mod.Uses = append(mod.Uses, &ast.UsesItem{Token: d.tok(u), Name: s})
	}

	params, err := d.sequence(m.get("params"), "params")
	if err != nil {
		return nil, err
	}
	for _, p := range params {
		dec, err := d.moduleParam(p)
		if err != nil {
			return nil, err
		}
		mod.Params = append(mod.Params, dec)
	}

	decs, err := d.sequence(m.get("decs"), "decs")
	if err != nil {
		return nil, err
	}
	for _, item := range decs {
		dec, err := d.dec(item)
		if err != nil {
			return nil, err
		}
		mod.Decs = append(mod.Decs, dec)
	}
	return mod, nil
}

func (d *decoder) moduleParam(n *yaml.Node) (ast.Dec, error) {
	m, err := d.mapping(n)
	if err != nil {
		return nil, err
	}
	tok := d.tok(m.keyPos[m.head()])
	switch m.head() {
	case "type_param":
		if err := d.only(m, "type_param"); err != nil {
			return nil, err
		}
		name, err := d.requiredScalar(m, "type_param")
		return &ast.ConceptTypeParamDec{Token: tok, Name: name}, err
	case "constant":
		if err := d.only(m, "constant", "type"); err != nil {
			return nil, err
		}
		name, err := d.requiredScalar(m, "constant")
		if err != nil {
			return nil, err
		}
		ty, err := d.requiredTy(m, "type")
		return &ast.ConstantParamDec{Token: tok, Name: name, Ty: ty}, err
	case "definition":
		def, err := d.definition(m)
		if err != nil {
			return nil, err
		}
		return &ast.DefinitionParamDec{Token: tok, Definition: def}, nil
	}
	return nil, d.errorf(n, "unknown module parameter %q", m.head())
}

func (d *decoder) dec(n *yaml.Node) (ast.Dec, error) {
	m, err := d.mapping(n)
	if err != nil {
		return nil, err
	}
	if kind, ok := assertionKinds[m.head()]; ok {
		return d.assertion(m, kind)
	}
	switch m.head() {
	case "definition":
		return d.definition(m)
	case "type_theorem":
		return d.typeTheorem(m)
	case "family":
		return d.family(m)
	case "representation":
		return d.representation(m)
	case "var":
		return d.varDec(m)
	case "operation":
		return d.operation(m, "operation")
	case "profile":
		return d.profile(m)
	case "procedure":
		return d.procedure(m)
	case "operation_procedure":
		return d.operationProcedure(m)
	case "facility":
		return d.facility(m)
	}
	return nil, d.errorf(n, "unknown declaration %q", m.head())
}

func (d *decoder) definition(m *mapping) (*ast.MathDefinitionDec, error) {
	if err := d.only(m, "definition", "kind", "params", "type", "body", "base", "inductive"); err != nil {
		return nil, err
	}
	name, err := d.requiredScalar(m, "definition")
	if err != nil {
		return nil, err
	}
	kindName, err := d.scalar(m.get("kind"), "kind")
	if err != nil {
		return nil, err
	}
	kind, ok := definitionKinds[kindName]
	if !ok {
		return nil, d.errorf(m.get("kind"), "unknown definition kind %q", kindName)
	}
	def := &ast.MathDefinitionDec{Token: d.tok(m.keyPos["definition"]), Name: name, Kind: kind}
	if def.Params, err = d.mathVars(m.get("params"), "params"); err != nil {
		return nil, err
	}
	if def.ReturnTy, err = d.requiredTy(m, "type"); err != nil {
		return nil, err
	}
	if def.Body, err = d.optionalExp(m, "body"); err != nil {
		return nil, err
	}
	if def.BaseCase, err = d.optionalExp(m, "base"); err != nil {
		return nil, err
	}
	if def.InductiveCase, err = d.optionalExp(m, "inductive"); err != nil {
		return nil, err
	}
	switch kind {
	case ast.InductiveDefinition:
		if def.BaseCase == nil || def.InductiveCase == nil {
			return nil, d.errorf(m.node, "inductive definition %s needs base and inductive cases", name)
		}
	case ast.ImplicitDefinition:
		if def.Body == nil {
			return nil, d.errorf(m.node, "implicit definition %s needs a body", name)
		}
	}
	return def, nil
}

func (d *decoder) assertion(m *mapping, kind ast.AssertionKind) (ast.Dec, error) {
	key := m.head()
	if err := d.only(m, key, "assertion"); err != nil {
		return nil, err
	}
	name, err := d.requiredScalar(m, key)
	if err != nil {
		return nil, err
	}
	a, err := d.requiredExp(m, "assertion")
	if err != nil {
		return nil, err
	}
	return &ast.MathAssertionDec{Token: d.tok(m.keyPos[key]), Kind: kind, Name: name, Assertion: a}, nil
}

func (d *decoder) typeTheorem(m *mapping) (ast.Dec, error) {
	if err := d.only(m, "type_theorem", "forall", "assertion"); err != nil {
		return nil, err
	}
	name, err := d.requiredScalar(m, "type_theorem")
	if err != nil {
		return nil, err
	}
	vars, err := d.mathVars(m.get("forall"), "forall")
	if err != nil {
		return nil, err
	}
	a, err := d.requiredExp(m, "assertion")
	if err != nil {
		return nil, err
	}
	return &ast.MathTypeTheoremDec{Token: d.tok(m.keyPos["type_theorem"]), Name: name, UniversalVars: vars, Assertion: a}, nil
}

func (d *decoder) family(m *mapping) (ast.Dec, error) {
	if err := d.only(m, "family", "model", "exemplar", "constraint", "initialization", "finalization"); err != nil {
		return nil, err
	}
	name, err := d.requiredScalar(m, "family")
	if err != nil {
		return nil, err
	}
	f := &ast.TypeFamilyDec{Token: d.tok(m.keyPos["family"]), Name: name}
	if f.Model, err = d.requiredTy(m, "model"); err != nil {
		return nil, err
	}
	if f.Exemplar, err = d.requiredScalar(m, "exemplar"); err != nil {
		return nil, err
	}
	if f.Constraint, err = d.optionalExp(m, "constraint"); err != nil {
		return nil, err
	}
	if f.InitEnsures, err = d.optionalExp(m, "initialization"); err != nil {
		return nil, err
	}
	f.FinalEnsures, err = d.optionalExp(m, "finalization")
	return f, err
}

func (d *decoder) representation(m *mapping) (ast.Dec, error) {
	if err := d.only(m, "representation", "type", "record", "exemplar", "convention", "correspondence"); err != nil {
		return nil, err
	}
	name, err := d.requiredScalar(m, "representation")
	if err != nil {
		return nil, err
	}
	r := &ast.TypeRepresentationDec{Token: d.tok(m.keyPos["representation"]), Name: name}
	switch {
	case m.get("record") != nil && m.get("type") != nil:
		return nil, d.errorf(m.node, "representation %s: give either type or record", name)
	case m.get("record") != nil:
		r.Representation, err = d.record(m.keyPos["record"], m.get("record"))
	default:
		r.Representation, err = d.requiredTy(m, "type")
	}
	if err != nil {
		return nil, err
	}
	if r.Exemplar, err = d.scalar(m.get("exemplar"), "exemplar"); err != nil {
		return nil, err
	}
	if r.Convention, err = d.optionalExp(m, "convention"); err != nil {
		return nil, err
	}
	r.Correspondence, err = d.optionalExp(m, "correspondence")
	return r, err
}

func (d *decoder) varDec(m *mapping) (*ast.VarDec, error) {
	if err := d.only(m, "var", "type"); err != nil {
		return nil, err
	}
	name, err := d.requiredScalar(m, "var")
	if err != nil {
		return nil, err
	}
	ty, err := d.requiredTy(m, "type")
	if err != nil {
		return nil, err
	}
	return &ast.VarDec{Token: d.tok(m.keyPos["var"]), Name: name, Ty: ty}, nil
}

var operationKeys = []string{"params", "returns", "requires", "ensures"}
var procedureKeys = []string{"params", "returns", "recursive", "decreasing", "vars", "body"}

func (d *decoder) operation(m *mapping, key string) (*ast.OperationDec, error) {
	if key == "operation" {
		if err := d.only(m, append([]string{key}, operationKeys...)...); err != nil {
			return nil, err
		}
	}
	name, err := d.requiredScalar(m, key)
	if err != nil {
		return nil, err
	}
	op := &ast.OperationDec{Token: d.tok(m.keyPos[key]), Name: name}
	if op.Params, err = d.programParams(m.get("params")); err != nil {
		return nil, err
	}
	if op.ReturnTy, err = d.optionalTy(m, "returns"); err != nil {
		return nil, err
	}
	if op.Requires, err = d.optionalExp(m, "requires"); err != nil {
		return nil, err
	}
	op.Ensures, err = d.optionalExp(m, "ensures")
	return op, err
}

func (d *decoder) profile(m *mapping) (*ast.OperationProfileDec, error) {
	if err := d.only(m, "profile", "params", "duration"); err != nil {
		return nil, err
	}
	name, err := d.requiredScalar(m, "profile")
	if err != nil {
		return nil, err
	}
	p := &ast.OperationProfileDec{Token: d.tok(m.keyPos["profile"]), Name: name}
	if p.Params, err = d.programParams(m.get("params")); err != nil {
		return nil, err
	}
	p.Duration, err = d.optionalExp(m, "duration")
	return p, err
}

// procedureBody decodes what procedures and operation procedures share.
func (d *decoder) procedureBody(m *mapping) (recursive bool, decreasing ast.Exp, vars []*ast.VarDec, body []ast.Stmt, err error) {
	if recursive, err = d.bool(m, "recursive"); err != nil {
		return
	}
	if decreasing, err = d.optionalExp(m, "decreasing"); err != nil {
		return
	}
	items, err := d.sequence(m.get("vars"), "vars")
	if err != nil {
		return
	}
	for _, item := range items {
		vm, merr := d.mapping(item)
		if merr != nil {
			return false, nil, nil, nil, merr
		}
		v, verr := d.varDec(vm)
		if verr != nil {
			return false, nil, nil, nil, verr
		}
		vars = append(vars, v)
	}
	body, err = d.stmts(m.get("body"))
	return
}

func (d *decoder) procedure(m *mapping) (ast.Dec, error) {
	if err := d.only(m, append([]string{"procedure"}, procedureKeys...)...); err != nil {
		return nil, err
	}
	name, err := d.requiredScalar(m, "procedure")
	if err != nil {
		return nil, err
	}
	p := &ast.ProcedureDec{Token: d.tok(m.keyPos["procedure"]), Name: name}
	if p.Params, err = d.programParams(m.get("params")); err != nil {
		return nil, err
	}
	if p.ReturnTy, err = d.optionalTy(m, "returns"); err != nil {
		return nil, err
	}
	p.Recursive, p.Decreasing, p.Vars, p.Body, err = d.procedureBody(m)
	return p, err
}

func (d *decoder) operationProcedure(m *mapping) (ast.Dec, error) {
	allowed := append([]string{"operation_procedure", "requires", "ensures"}, procedureKeys...)
	if err := d.only(m, allowed...); err != nil {
		return nil, err
	}
	op, err := d.operation(m, "operation_procedure")
	if err != nil {
		return nil, err
	}
	p := &ast.OperationProcedureDec{Token: op.Token, Operation: op}
	p.Recursive, p.Decreasing, p.Vars, p.Body, err = d.procedureBody(m)
	return p, err
}

func (d *decoder) facility(m *mapping) (ast.Dec, error) {
	if err := d.only(m, "facility", "concept", "args", "realization", "realization_args", "enhanced"); err != nil {
		return nil, err
	}
	name, err := d.requiredScalar(m, "facility")
	if err != nil {
		return nil, err
	}
	f := &ast.FacilityDec{Token: d.tok(m.keyPos["facility"]), Name: name}
	if f.Concept, err = d.requiredScalar(m, "concept"); err != nil {
		return nil, err
	}
	if f.ConceptArgs, err = d.moduleArgs(m.get("args")); err != nil {
		return nil, err
	}
	if f.Realization, err = d.scalar(m.get("realization"), "realization"); err != nil {
		return nil, err
	}
	if f.RealizationArgs, err = d.moduleArgs(m.get("realization_args")); err != nil {
		return nil, err
	}

	items, err := d.sequence(m.get("enhanced"), "enhanced")
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		em, err := d.mapping(item)
		if err != nil {
			return nil, err
		}
		if err := d.only(em, "enhancement", "args", "realization", "realization_args"); err != nil {
			return nil, err
		}
		e := &ast.EnhancementSpecRealizItem{Token: d.tok(item)}
		if e.Name, err = d.requiredScalar(em, "enhancement"); err != nil {
			return nil, err
		}
		if e.Args, err = d.moduleArgs(em.get("args")); err != nil {
			return nil, err
		}
		if e.Realization, err = d.scalar(em.get("realization"), "realization"); err != nil {
			return nil, err
		}
		if e.RealizationArgs, err = d.moduleArgs(em.get("realization_args")); err != nil {
			return nil, err
		}
		f.Enhancements = append(f.Enhancements, e)
	}
	return f, nil
}

// moduleArgs decodes facility arguments: {type: T} for a type, anything
// else is a program expression.
func (d *decoder) moduleArgs(n *yaml.Node) ([]*ast.ModuleArgument, error) {
	items, err := d.sequence(n, "args")
	if err != nil {
		return nil, err
	}
	out := make([]*ast.ModuleArgument, 0, len(items))
	for _, item := range items {
		arg := &ast.ModuleArgument{Token: d.tok(item)}
		if item.Kind == yaml.MappingNode {
			m, err := d.mapping(item)
			if err != nil {
				return nil, err
			}
			if m.head() == "type" {
				if err := d.only(m, "type"); err != nil {
					return nil, err
				}
				if arg.Ty, err = d.ty(m.get("type")); err != nil {
					return nil, err
				}
				out = append(out, arg)
				continue
			}
		}
		if arg.Exp, err = d.programExp(item); err != nil {
			return nil, err
		}
		out = append(out, arg)
	}
	return out, nil
}

func (d *decoder) mathVars(n *yaml.Node, what string) ([]*ast.MathVarDec, error) {
	items, err := d.sequence(n, what)
	if err != nil {
		return nil, err
	}
	out := make([]*ast.MathVarDec, 0, len(items))
	for _, item := range items {
		m, err := d.mapping(item)
		if err != nil {
			return nil, err
		}
		if err := d.only(m, "name", "type"); err != nil {
			return nil, err
		}
		name, err := d.requiredScalar(m, "name")
		if err != nil {
			return nil, err
		}
		ty, err := d.requiredTy(m, "type")
		if err != nil {
			return nil, err
		}
		out = append(out, &ast.MathVarDec{Token: d.tok(m.get("name")), Name: name, Ty: ty})
	}
	return out, nil
}

func (d *decoder) programParams(n *yaml.Node) ([]*ast.ParameterVarDec, error) {
	items, err := d.sequence(n, "params")
	if err != nil {
		return nil, err
	}
	out := make([]*ast.ParameterVarDec, 0, len(items))
	for _, item := range items {
		m, err := d.mapping(item)
		if err != nil {
			return nil, err
		}
		if err := d.only(m, "mode", "name", "type"); err != nil {
			return nil, err
		}
		modeName, err := d.requiredScalar(m, "mode")
		if err != nil {
			return nil, err
		}
		mode, ok := ast.ParseParameterMode(modeName)
		if !ok || mode == ast.TypeMode {
			return nil, d.errorf(m.get("mode"), "unknown parameter mode %q", modeName)
		}
		name, err := d.requiredScalar(m, "name")
		if err != nil {
			return nil, err
		}
		ty, err := d.requiredTy(m, "type")
		if err != nil {
			return nil, err
		}
		out = append(out, &ast.ParameterVarDec{Token: d.tok(m.get("name")), Mode: mode, Name: name, Ty: ty})
	}
	return out, nil
}

func (d *decoder) requiredTy(m *mapping, key string) (ast.Ty, error) {
	n := m.get(key)
	if n == nil {
		return nil, d.errorf(m.node, "%s: missing %s", m.head(), key)
	}
	return d.ty(n)
}

func (d *decoder) optionalTy(m *mapping, key string) (ast.Ty, error) {
	if n := m.get(key); n != nil {
		return d.ty(n)
	}
	return nil, nil
}

// ty decodes a type: a name, {exp: e} for a math type expression, or
// {record: [fields]}.
func (d *decoder) ty(n *yaml.Node) (ast.Ty, error) {
	if n.Kind == yaml.ScalarNode {
		q, name := splitQualifier(n.Value)
		return &ast.NameTy{Token: d.tok(n), Qualifier: q, Name: name}, nil
	}
	m, err := d.mapping(n)
	if err != nil {
		return nil, err
	}
	switch m.head() {
	case "exp":
		if err := d.only(m, "exp"); err != nil {
			return nil, err
		}
		e, err := d.exp(m.get("exp"))
		if err != nil {
			return nil, err
		}
		return &ast.ArbitraryExpTy{Token: d.tok(m.keyPos["exp"]), Exp: e}, nil
	case "record":
		if err := d.only(m, "record"); err != nil {
			return nil, err
		}
		return d.record(m.keyPos["record"], m.get("record"))
	}
	return nil, d.errorf(n, "unknown type form %q", m.head())
}

func (d *decoder) record(at, n *yaml.Node) (*ast.RecordTy, error) {
	items, err := d.sequence(n, "record")
	if err != nil {
		return nil, err
	}
	r := &ast.RecordTy{Token: d.tok(at)}
	for _, item := range items {
		m, err := d.mapping(item)
		if err != nil {
			return nil, err
		}
		if err := d.only(m, "name", "type"); err != nil {
			return nil, err
		}
		name, err := d.requiredScalar(m, "name")
		if err != nil {
			return nil, err
		}
		ty, err := d.requiredTy(m, "type")
		if err != nil {
			return nil, err
		}
		r.Fields = append(r.Fields, &ast.VarDec{Token: d.tok(m.get("name")), Name: name, Ty: ty})
	}
	return r, nil
}

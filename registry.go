package glshade

import (
	"fmt"
	"sort"
	"strings"

	"github.com/glshade/glshade/glsource"
)

// Stage selects the shader stage a block of text belongs to.
type Stage uint8

const (
	StageVertex Stage = iota + 1
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	}
	return fmt.Sprintf("Stage(%d)", uint8(s))
}

// StageBlock is one block of statements for a stage's entry point. Blocks
// with lower priority are emitted before blocks with higher priority in the
// merged shader.
type StageBlock struct {
	Stage    Stage
	Priority int
	Source   string
}

// PartConfig describes a shader part to register. All text is run through
// name substitution (see [glsource.Substitute]) against the part name before
// being stored.
type PartConfig struct {
	// Variables declares the variables used by the part, one declaration per
	// line: a storage keyword (uniform, attribute or varying) followed by a
	// type, a name and a semicolon. // comments are allowed. For example:
	//
	//	Variables: `
	//	uniform sampler2D tex0;
	//	attribute vec2 a_tex_coord;
	//	varying vec2 v_tex_coord;
	//	`
	Variables string
	// VertexFunctions and FragmentFunctions hold helper function source
	// included once in the corresponding shader, outside the entry point and
	// independent of block priorities.
	VertexFunctions   string
	FragmentFunctions string
	// PrivateUniforms suppresses reporting the part's uniforms through
	// [Registry.OnUniform].
	PrivateUniforms bool
	Blocks          []StageBlock
}

// ShaderPart is a named, reusable shader fragment. It is immutable once
// registered: treat all fields as read-only.
type ShaderPart struct {
	Name string

	VertexFunctions   string
	FragmentFunctions string

	VertexParts   []glsource.BodyEntry
	FragmentParts []glsource.BodyEntry

	// VertexVariables and FragmentVariables hold the declared variables
	// actually referenced by the corresponding stage's text.
	VertexVariables   map[glsource.VarKey]glsource.Variable
	FragmentVariables map[glsource.VarKey]glsource.Variable

	// VariableTypes maps each declared variable name to its type, with a []
	// suffix for arrays.
	VariableTypes map[string]string

	// Uniforms lists the part's uniform names in declaration order.
	Uniforms []string
}

// Registry is the process-wide table of shader parts. It is populated by
// registration calls at load time and never pruned; construct one at startup
// and share it with the cache and all registration call sites.
type Registry struct {
	parts map[string]*ShaderPart

	// OnUniform, if non-nil, is invoked once per non-private uniform at
	// registration time so the host can track uniforms across all parts.
	OnUniform func(name, glslType string)

	// ReservedPrefixes are part name prefixes rejected by Register and
	// allowed only through RegisterEngine. NewRegistry reserves "_" and
	// "glshade." for the host engine.
	ReservedPrefixes []string
}

func NewRegistry() *Registry {
	return &Registry{
		parts:            make(map[string]*ShaderPart),
		ReservedPrefixes: []string{"_", "glshade."},
	}
}

// Register validates and registers a shader part, replacing any previously
// registered part of the same name. Names are limited to word characters and
// dots, and must not start with a reserved prefix.
func (r *Registry) Register(name string, cfg PartConfig) (*ShaderPart, error) {
	for _, prefix := range r.ReservedPrefixes {
		if strings.HasPrefix(name, prefix) {
			return nil, &ValidationError{
				Input:  name,
				Reason: fmt.Sprintf("names starting with %q are reserved for the host engine", prefix),
			}
		}
	}
	return r.register(name, cfg)
}

// RegisterEngine is the host-engine registration entry point. It is identical
// to Register but exempt from the reserved-prefix policy.
func (r *Registry) RegisterEngine(name string, cfg PartConfig) (*ShaderPart, error) {
	return r.register(name, cfg)
}

func (r *Registry) register(name string, cfg PartConfig) (*ShaderPart, error) {
	if !validPartName(name) {
		return nil, &ValidationError{
			Input:  name,
			Reason: "invalid shader part name, names are limited to alphanumeric characters, _ and .",
		}
	}
	p := &ShaderPart{
		Name:              name,
		VertexVariables:   make(map[glsource.VarKey]glsource.Variable),
		FragmentVariables: make(map[glsource.VarKey]glsource.Variable),
		VariableTypes:     make(map[string]string),
	}

	vertexUsed := make(map[string]struct{})
	fragmentUsed := make(map[string]struct{})
	for _, blk := range cfg.Blocks {
		src := glsource.Substitute(blk.Source, name)
		switch blk.Stage {
		case StageVertex:
			p.VertexParts = append(p.VertexParts, glsource.BodyEntry{Priority: blk.Priority, Part: name, Source: src})
			vertexUsed = glsource.Identifiers(vertexUsed, src)
		case StageFragment:
			p.FragmentParts = append(p.FragmentParts, glsource.BodyEntry{Priority: blk.Priority, Part: name, Source: src})
			fragmentUsed = glsource.Identifiers(fragmentUsed, src)
		default:
			return nil, &ValidationError{
				Part:   name,
				Reason: fmt.Sprintf("stage blocks must use StageVertex or StageFragment, got %v", blk.Stage),
			}
		}
	}
	p.VertexFunctions = glsource.Substitute(cfg.VertexFunctions, name)
	p.FragmentFunctions = glsource.Substitute(cfg.FragmentFunctions, name)
	vertexUsed = glsource.Identifiers(vertexUsed, p.VertexFunctions)
	fragmentUsed = glsource.Identifiers(fragmentUsed, p.FragmentFunctions)

	variables := glsource.Substitute(cfg.Variables, name)
	for _, line := range strings.Split(variables, "\n") {
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		v, err := glsource.ParseVariable(line)
		if err != nil {
			return nil, &ValidationError{Part: name, Input: strings.TrimSpace(line), Reason: err.Error()}
		}
		switch v.Storage {
		case "uniform", "attribute", "varying":
		default:
			return nil, &ValidationError{
				Part:   name,
				Input:  v.Line,
				Reason: "unknown storage, only the form '{uniform,attribute,varying} {type} {name};' is allowed",
			}
		}
		typ := v.Type
		if v.Array {
			typ += "[]"
		}
		p.VariableTypes[v.Name] = typ
		if _, ok := vertexUsed[v.Name]; ok {
			p.VertexVariables[v.Key()] = v
		}
		if _, ok := fragmentUsed[v.Name]; ok {
			p.FragmentVariables[v.Key()] = v
		}
		if v.Storage == "uniform" {
			if !cfg.PrivateUniforms && r.OnUniform != nil {
				r.OnUniform(v.Name, v.Type)
			}
			p.Uniforms = append(p.Uniforms, v.Name)
		}
	}

	r.parts[name] = p
	return p, nil
}

// Part looks up a registered shader part by name.
func (r *Registry) Part(name string) (*ShaderPart, bool) {
	p, ok := r.parts[name]
	return p, ok
}

// Names returns the sorted names of all registered parts.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.parts))
	for name := range r.parts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func validPartName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c != '.' && c != '_' && (c < '0' || c > '9') && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

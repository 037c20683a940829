// Package glsource assembles complete GLSL shader sources out of variable
// declarations, helper function blocks and prioritized entry-point fragments.
// Output is fully deterministic: identical inputs always produce byte-identical
// source, which callers rely on for caching and for diffing generated text.
package glsource

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Profile selects the shading language dialect targeted by generated source.
type Profile uint8

const (
	// ProfileDesktop targets desktop OpenGL (GLSL 120).
	ProfileDesktop Profile = iota
	// ProfileGLES targets OpenGL ES 2 (GLSL ES 100). Fragment shaders get a
	// precision preamble selecting highp where the driver supports it.
	ProfileGLES
)

const (
	versionDesktop = "#version 120\n"
	versionGLES    = "#version 100\n"
	precisionGLES  = `#ifdef GL_FRAGMENT_PRECISION_HIGH
    precision highp float;
    precision highp int;
#else
    precision mediump float;
    precision mediump int;
#endif
`
)

// Variable is one declared shader variable. It is a value type and immutable
// once parsed.
type Variable struct {
	Storage string // "uniform", "attribute" or "varying".
	Type    string // GLSL type name, i.e. "vec2", "sampler2D".
	Name    string
	Array   bool
	// Line is the original declaration text without the trailing semicolon.
	// It is emitted verbatim into generated source.
	Line string
}

// VarKey identifies a variable for set membership. Two declarations describe
// the same logical variable iff storage, type and name all match, so the same
// variable contributed by several shader parts collapses to one declaration.
type VarKey struct {
	Storage, Type, Name string
}

// Key returns the identity of the variable.
func (v Variable) Key() VarKey {
	return VarKey{Storage: v.Storage, Type: v.Type, Name: v.Name}
}

// ParseVariable parses a single declaration line of the form
// "storage type name" with an optional // comment, trailing semicolon and
// [N] array suffix on the name. It returns an error for blank lines and for
// any other shape. Storage keyword validation is left to the caller.
func ParseVariable(line string) (Variable, error) {
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	line = strings.TrimSuffix(line, ";")
	line = strings.TrimSpace(line)
	if line == "" {
		return Variable{}, errors.New("blank variable declaration")
	}
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return Variable{}, fmt.Errorf("variable declaration %q is not of the form '{storage} {type} {name};'", line)
	}
	v := Variable{
		Storage: fields[0],
		Type:    fields[1],
		Name:    fields[2],
		Line:    line,
	}
	if i := strings.IndexByte(v.Name, '['); i >= 0 {
		v.Name = v.Name[:i]
		v.Array = true
	}
	if v.Name == "" {
		return Variable{}, fmt.Errorf("variable declaration %q has no name", line)
	}
	return v, nil
}

// BodyEntry is one statement block destined for a stage's entry point.
// Entries are emitted in ascending Priority order; ties are broken by the
// lexical order of (Priority, Part, Source) so output never depends on
// registration or iteration order.
type BodyEntry struct {
	Priority int
	// Part is the name of the shader part that contributed the entry.
	Part   string
	Source string
}

func (e BodyEntry) less(o BodyEntry) bool {
	if e.Priority != o.Priority {
		return e.Priority < o.Priority
	}
	if e.Part != o.Part {
		return e.Part < o.Part
	}
	return e.Source < o.Source
}

// AppendSource appends a complete shader source for one stage to dst and
// returns the result. Variables are emitted sorted by name, function blocks
// verbatim in the order given, and body entries inside the entry point sorted
// by (Priority, Part, Source). The inputs are not modified.
func AppendSource(dst []byte, vars []Variable, body []BodyEntry, functions []string, fragment bool, profile Profile) []byte {
	if profile == ProfileGLES {
		dst = append(dst, versionGLES...)
		if fragment {
			dst = append(dst, precisionGLES...)
		}
	} else {
		dst = append(dst, versionDesktop...)
	}

	sortedVars := append([]Variable{}, vars...)
	sort.Slice(sortedVars, func(i, j int) bool { return sortedVars[i].Name < sortedVars[j].Name })
	for _, v := range sortedVars {
		dst = append(dst, v.Line...)
		dst = append(dst, ";\n"...)
	}

	for _, fn := range functions {
		dst = append(dst, fn...)
	}

	dst = append(dst, "\nvoid main() {\n"...)
	entries := append([]BodyEntry{}, body...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].less(entries[j]) })
	for _, e := range entries {
		dst = append(dst, e.Source...)
	}
	dst = append(dst, "}\n"...)
	return dst
}

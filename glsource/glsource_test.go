package glsource_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/glshade/glshade/glsource"
)

func TestParseVariable(t *testing.T) {
	for _, tc := range []struct {
		line string
		want glsource.Variable
	}{
		{
			line: "uniform sampler2D tex0;",
			want: glsource.Variable{Storage: "uniform", Type: "sampler2D", Name: "tex0", Line: "uniform sampler2D tex0"},
		},
		{
			line: "  varying vec2 v_tex_coord; // interpolated coordinate",
			want: glsource.Variable{Storage: "varying", Type: "vec2", Name: "v_tex_coord", Line: "varying vec2 v_tex_coord"},
		},
		{
			line: "uniform float u_weights[16];",
			want: glsource.Variable{Storage: "uniform", Type: "float", Name: "u_weights", Array: true, Line: "uniform float u_weights[16]"},
		},
		{
			line: "attribute vec4 a_color",
			want: glsource.Variable{Storage: "attribute", Type: "vec4", Name: "a_color", Line: "attribute vec4 a_color"},
		},
	} {
		got, err := glsource.ParseVariable(tc.line)
		if err != nil {
			t.Errorf("ParseVariable(%q): %v", tc.line, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseVariable(%q) = %+v, want %+v", tc.line, got, tc.want)
		}
	}
}

func TestParseVariableErrors(t *testing.T) {
	for _, line := range []string{
		"",
		"   // comment only",
		"uniform sampler2D",
		"uniform sampler2D tex0 extra;",
		"uniform float [16];",
	} {
		if _, err := glsource.ParseVariable(line); err == nil {
			t.Errorf("ParseVariable(%q): expected error", line)
		}
	}
}

func TestVariableKeyCollapse(t *testing.T) {
	a, err := glsource.ParseVariable("uniform vec4 u_color;")
	if err != nil {
		t.Fatal(err)
	}
	b, err := glsource.ParseVariable("uniform  vec4   u_color ;")
	if err != nil {
		t.Fatal(err)
	}
	if a.Key() != b.Key() {
		t.Errorf("identical declarations have distinct keys: %+v vs %+v", a.Key(), b.Key())
	}
	c, err := glsource.ParseVariable("uniform vec3 u_color;")
	if err != nil {
		t.Fatal(err)
	}
	if a.Key() == c.Key() {
		t.Error("declarations with distinct types share a key")
	}
}

func TestAppendSourcePreambles(t *testing.T) {
	vtx := string(glsource.AppendSource(nil, nil, nil, nil, false, glsource.ProfileDesktop))
	if !strings.HasPrefix(vtx, "#version 120\n") {
		t.Errorf("desktop vertex preamble:\n%s", vtx)
	}
	if strings.Contains(vtx, "precision") {
		t.Errorf("desktop source must not carry a precision block:\n%s", vtx)
	}
	frag := string(glsource.AppendSource(nil, nil, nil, nil, true, glsource.ProfileGLES))
	if !strings.HasPrefix(frag, "#version 100\n#ifdef GL_FRAGMENT_PRECISION_HIGH\n") {
		t.Errorf("GLES fragment preamble:\n%s", frag)
	}
	if !strings.Contains(frag, "precision mediump float;") {
		t.Errorf("GLES fragment precision fallback missing:\n%s", frag)
	}
	vtxES := string(glsource.AppendSource(nil, nil, nil, nil, false, glsource.ProfileGLES))
	if strings.Contains(vtxES, "precision") {
		t.Errorf("GLES vertex source must not carry a precision block:\n%s", vtxES)
	}
}

func TestAppendSourceOrdering(t *testing.T) {
	vars := []glsource.Variable{
		{Storage: "uniform", Type: "vec4", Name: "u_color", Line: "uniform vec4 u_color"},
		{Storage: "attribute", Type: "vec2", Name: "a_position", Line: "attribute vec2 a_position"},
	}
	body := []glsource.BodyEntry{
		{Priority: 200, Part: "tint", Source: "    gl_FragColor *= u_color;\n"},
		{Priority: 100, Part: "base", Source: "    gl_FragColor = vec4(1.0);\n"},
		{Priority: 200, Part: "aaa", Source: "    // tie broken by part name\n"},
	}
	src := string(glsource.AppendSource(nil, vars, body, []string{"float helper() { return 1.0; }\n"}, true, glsource.ProfileDesktop))

	wantOrder := []string{
		"attribute vec2 a_position;",
		"uniform vec4 u_color;",
		"float helper()",
		"void main() {",
		"gl_FragColor = vec4(1.0);",
		"// tie broken by part name",
		"gl_FragColor *= u_color;",
	}
	pos := -1
	for _, want := range wantOrder {
		i := strings.Index(src, want)
		if i < 0 {
			t.Fatalf("missing %q in source:\n%s", want, src)
		}
		if i < pos {
			t.Fatalf("%q out of order in source:\n%s", want, src)
		}
		pos = i
	}
	if !strings.HasSuffix(src, "}\n") {
		t.Errorf("source does not close the entry point:\n%s", src)
	}
}

// Permuting the variable and body inputs must never change the output.
func TestAppendSourceDeterminism(t *testing.T) {
	vars := []glsource.Variable{
		{Storage: "uniform", Type: "vec4", Name: "u_color", Line: "uniform vec4 u_color"},
		{Storage: "varying", Type: "vec2", Name: "v_tex_coord", Line: "varying vec2 v_tex_coord"},
		{Storage: "uniform", Type: "sampler2D", Name: "tex0", Line: "uniform sampler2D tex0"},
		{Storage: "attribute", Type: "vec2", Name: "a_position", Line: "attribute vec2 a_position"},
	}
	body := []glsource.BodyEntry{
		{Priority: 100, Part: "base", Source: "    base();\n"},
		{Priority: 100, Part: "aux", Source: "    aux();\n"},
		{Priority: 300, Part: "zed", Source: "    zed();\n"},
		{Priority: 200, Part: "mid", Source: "    mid();\n"},
	}
	want := string(glsource.AppendSource(nil, vars, body, nil, true, glsource.ProfileGLES))
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		rng.Shuffle(len(vars), func(i, j int) { vars[i], vars[j] = vars[j], vars[i] })
		rng.Shuffle(len(body), func(i, j int) { body[i], body[j] = body[j], body[i] })
		got := string(glsource.AppendSource(nil, vars, body, nil, true, glsource.ProfileGLES))
		if got != want {
			t.Fatalf("permuted inputs changed output:\n%s\nwant:\n%s", got, want)
		}
	}
}

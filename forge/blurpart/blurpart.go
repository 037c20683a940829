// Package blurpart generates separable gaussian blur shader parts. The
// kernel weights and texel offsets are baked into the generated fragment
// text, so one registered part encodes one blur pass; compose a horizontal
// and a vertical part for a full blur.
package blurpart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"

	"github.com/glshade/glshade"
)

// Config parameterizes a blur part.
type Config struct {
	// Radius is the kernel radius in texels. The kernel has 2*Radius+1 taps.
	Radius int
	// Sigma is the gaussian standard deviation in texels. Defaults to
	// Radius/2.
	Sigma float32
	// Direction is the sampling step between taps in texel units. Defaults
	// to a horizontal pass, {1, 0}.
	Direction ms2.Vec
	// Priority orders the part's fragment block among the other parts of a
	// combination. Defaults to 250.
	Priority int
}

// Register generates a blur part from cfg and registers it with reg under
// name. The part samples u__tex at v_tex_coord, with u__texelsize giving the
// size of one texel in texture coordinates.
func Register(reg *glshade.Registry, name string, cfg Config) (*glshade.ShaderPart, error) {
	if cfg.Radius < 1 {
		return nil, errors.New("blur radius must be at least 1")
	}
	sigma := cfg.Sigma
	if sigma <= 0 {
		sigma = float32(cfg.Radius) / 2
	}
	dir := cfg.Direction
	if dir == (ms2.Vec{}) {
		dir = ms2.Vec{X: 1}
	}
	priority := cfg.Priority
	if priority == 0 {
		priority = 250
	}

	weights := kernel(cfg.Radius, sigma)
	var body strings.Builder
	body.WriteString("    vec4 l__acc = vec4(0.0);\n")
	for i, w := range weights {
		step := ms2.Scale(float32(i-cfg.Radius), dir)
		fmt.Fprintf(&body, "    l__acc += %.8f * texture2D(u__tex, v_tex_coord + u__texelsize * vec2(%.4f, %.4f));\n",
			w, step.X, step.Y)
	}
	body.WriteString("    gl_FragColor = l__acc;\n")

	return reg.Register(name, glshade.PartConfig{
		Variables: `
uniform sampler2D u__tex;
uniform vec2 u__texelsize;
varying vec2 v_tex_coord;
`,
		Blocks: []glshade.StageBlock{
			{Stage: glshade.StageFragment, Priority: priority, Source: body.String()},
		},
	})
}

// kernel returns the normalized gaussian weights for the given radius and
// standard deviation. Weights sum to 1 so the pass preserves brightness.
func kernel(radius int, sigma float32) []float32 {
	weights := make([]float32, 2*radius+1)
	var sum float32
	for i := range weights {
		x := float32(i - radius)
		weights[i] = math32.Exp(-x * x / (2 * sigma * sigma))
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

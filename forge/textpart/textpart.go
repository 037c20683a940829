// Package textpart rasterizes a text string into an alpha mask and registers
// a shader part that multiplies the output color by the mask, for cheap text
// overlays and watermarks. The mask image is returned to the caller, who is
// responsible for uploading it as the part's mask texture.
package textpart

import (
	"errors"
	"image"
	"image/color"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/glshade/glshade"
)

// Config parameterizes text rasterization.
type Config struct {
	// Size is the font size in points. Defaults to 24.
	Size float64
	// DPI is the rasterization resolution in dots per inch. Defaults to 72.
	DPI float64
	// Priority orders the part's fragment block among the other parts of a
	// combination. Defaults to 300, after color-producing parts.
	Priority int
}

// Generate rasterizes text using the TTF font blob, registers a mask part
// with reg under name and returns the part together with the rendered mask.
// The part samples u__mask at v_tex_coord and multiplies gl_FragColor by the
// mask's alpha.
func Generate(reg *glshade.Registry, name, text string, ttf []byte, cfg Config) (*glshade.ShaderPart, *image.Alpha, error) {
	if text == "" {
		return nil, nil, errors.New("no text to rasterize")
	}
	size := cfg.Size
	if size <= 0 {
		size = 24
	}
	dpi := cfg.DPI
	if dpi <= 0 {
		dpi = 72
	}
	priority := cfg.Priority
	if priority == 0 {
		priority = 300
	}

	parsed, err := truetype.Parse(ttf)
	if err != nil {
		return nil, nil, err
	}
	face := truetype.NewFace(parsed, &truetype.Options{Size: size, DPI: dpi})
	defer face.Close()

	d := font.Drawer{Face: face}
	width := d.MeasureString(text).Ceil()
	metrics := face.Metrics()
	height := (metrics.Ascent + metrics.Descent).Ceil()
	if width <= 0 || height <= 0 {
		return nil, nil, errors.New("text rasterizes to an empty mask")
	}

	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	d.Dst = mask
	d.Src = image.NewUniform(color.Alpha{A: 0xff})
	d.Dot = fixed.Point26_6{X: 0, Y: metrics.Ascent}
	d.DrawString(text)

	part, err := reg.Register(name, glshade.PartConfig{
		Variables: `
uniform sampler2D u__mask;
varying vec2 v_tex_coord;
`,
		Blocks: []glshade.StageBlock{
			{
				Stage:    glshade.StageFragment,
				Priority: priority,
				Source:   "    gl_FragColor *= texture2D(u__mask, v_tex_coord).a;\n",
			},
		},
	})
	if err != nil {
		return nil, nil, err
	}
	return part, mask, nil
}

//go:build !tinygo && cgo

package glprog

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/all-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/glgl/v4.6-core/glgl"

	"github.com/glshade/glshade"
)

// Loader compiles and links vertex/fragment source pairs into OpenGL
// programs on the current GL context.
type Loader struct{}

var _ glshade.ProgramLoader = (*Loader)(nil)

func NewLoader() *Loader { return &Loader{} }

// LoadProgram compiles and links the two stage sources. The returned program
// is a [glgl.Program].
func (*Loader) LoadProgram(parts []string, vertexSrc, fragmentSrc string) (glshade.Program, error) {
	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   vertexSrc + "\x00",
		Fragment: fragmentSrc + "\x00",
	})
	if err != nil {
		return nil, fmt.Errorf("compiling shader %q: %w", strings.Join(parts, " "), err)
	}
	return prog, nil
}

// Init1x1GLFW starts a 1x1 sized GLFW window so that the caller can start
// compiling programs on the GPU. It returns a termination function that
// should be called when the caller is done with the GL context.
func Init1x1GLFW() (terminate func(), err error) {
	_, terminate, err = glgl.InitWithCurrentWindow33(glgl.WindowConfig{
		Title:   "glshade",
		Version: [2]int{4, 6},
		Width:   1,
		Height:  1,
	})
	return terminate, err
}

// InitOffscreen creates a hidden GLFW window and makes its GL context
// current, for warming a shader cache before any window is shown.
func InitOffscreen(width, height int) (terminate func(), err error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initializing GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.Visible, glfw.False)

	window, err := glfw.CreateWindow(width, height, "glshade precompile", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("creating offscreen window: %w", err)
	}
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	return glfw.Terminate, nil
}

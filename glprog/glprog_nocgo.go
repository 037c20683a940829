//go:build tinygo || !cgo

package glprog

import (
	"errors"

	"github.com/glshade/glshade"
)

var errNoCGO = errors.New("GPU shader compilation requires CGo and is not supported on TinyGo")

// Loader compiles and links vertex/fragment source pairs into OpenGL
// programs on the current GL context.
type Loader struct{}

var _ glshade.ProgramLoader = (*Loader)(nil)

func NewLoader() *Loader { return &Loader{} }

// LoadProgram compiles and links the two stage sources.
func (*Loader) LoadProgram(parts []string, vertexSrc, fragmentSrc string) (glshade.Program, error) {
	return nil, errNoCGO
}

// Init1x1GLFW starts a 1x1 sized GLFW window so that the caller can start
// compiling programs on the GPU.
func Init1x1GLFW() (terminate func(), err error) {
	return nil, errNoCGO
}

// InitOffscreen creates a hidden GLFW window and makes its GL context
// current, for warming a shader cache before any window is shown.
func InitOffscreen(width, height int) (terminate func(), err error) {
	return nil, errNoCGO
}

// Package glshade composes GPU shader programs out of independently
// registered, reusable shader parts. Parts contribute variable declarations,
// helper functions and prioritized entry-point blocks per stage; the cache
// merges any requested combination of parts into one vertex/fragment source
// pair, compiles it through an external program loader at most once per
// distinct logical combination, and persists the set of combinations actually
// used so a later run can precompile them up front instead of stalling during
// interactive use.
//
// Typical use registers all parts at startup, then warms the cache:
//
//	reg := glshade.NewRegistry()
//	reg.Register("tint", glshade.PartConfig{ ... })
//	cache := glshade.NewShaderCache(reg, glshade.CacheConfig{
//		Filename:    "shaders.txt",
//		DefaultPart: "base",
//		Loader:      glprog.NewLoader(),
//	})
//	cache.Load()            // precompile previously seen combinations.
//	prog, err := cache.Get("tint")
//
// The Registry and ShaderCache are designed for single-threaded use from the
// rendering context; the Registry must be fully populated before Get is
// first called.
package glshade

// Program is an opaque handle to a compiled and linked GPU shader program as
// produced by a ProgramLoader. The cache owns every Program it creates and
// never inspects it.
type Program any

// ProgramLoader compiles and links a vertex/fragment source pair produced
// from the given canonical part names. It is invoked by [ShaderCache.Get] on
// a cache miss and may fail with a driver error. Package glprog provides an
// OpenGL-backed implementation.
type ProgramLoader interface {
	LoadProgram(parts []string, vertexSrc, fragmentSrc string) (Program, error)
}

package glshade

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/glshade/glshade/glsource"
)

// CacheConfig carries the externally owned configuration consumed by a
// ShaderCache. The zero value of every field is usable; a nil Loader makes
// every cache miss fail.
type CacheConfig struct {
	// Filename is the logical name of the persisted combination list, read
	// from FS by Load and written under Dir by Save.
	Filename string
	// Profile selects the target shading language dialect.
	Profile glsource.Profile
	// DefaultPart is added to every requested combination that does not
	// already contain MarkerPart.
	DefaultPart string
	// MarkerPart is the distinguished "full pipeline" part whose presence in
	// a combination suppresses DefaultPart injection.
	MarkerPart string
	// Filter, if non-nil, transforms every requested combination before
	// anything else. Results are memoized by the exact requested tuple.
	Filter func(parts []string) []string
	// Developer gates Save: combination lists are only persisted in
	// developer mode.
	Developer bool
	// LogShaders dumps every generated source pair to the logger at debug
	// level.
	LogShaders bool
	// Loader compiles and links generated sources on a cache miss.
	Loader ProgramLoader
	// FS is the read side of persistence. A nil FS or an absent Filename
	// means there is nothing to preload.
	FS fs.FS
	// Dir is the writable directory Save places the combination list in.
	Dir string
}

// ShaderCache maps combinations of shader part names to compiled programs.
// Combinations that normalize to the same canonical tuple share one program;
// the cache compiles each canonical tuple at most once between Clear calls.
type ShaderCache struct {
	reg *Registry
	cfg CacheConfig

	// cache maps both requested and canonical keys to programs. Keys are the
	// space-joined part name tuples; part names cannot contain spaces.
	cache map[string]Program
	// missing holds tuples known to reference an unregistered part or to
	// have failed compilation, kept so they persist across save/load cycles
	// without being retried.
	missing map[string]struct{}
	// dirty is set when cache gains a key and cleared on successful Save.
	dirty bool

	filterMemo map[string][]string
}

func NewShaderCache(reg *Registry, cfg CacheConfig) *ShaderCache {
	return &ShaderCache{
		reg:        reg,
		cfg:        cfg,
		cache:      make(map[string]Program),
		missing:    make(map[string]struct{}),
		filterMemo: make(map[string][]string),
	}
}

// Get returns the compiled program for a combination of part names,
// compiling it if necessary. Requested names may repeat, appear in any order
// and carry a leading "-" to exclude a part; all such spellings of the same
// logical combination resolve to the identical program instance.
//
// A name that resolves to no registered part fails with [UnknownPartError].
// Compilation and linking failures from the program loader are returned as
// is. On a latency-sensitive path a miss is a stall: prefer warming the
// cache with Load at startup.
func (c *ShaderCache) Get(parts ...string) (Program, error) {
	if c.cfg.Filter != nil {
		key := strings.Join(parts, " ")
		filtered, ok := c.filterMemo[key]
		if !ok {
			filtered = c.cfg.Filter(parts)
			c.filterMemo[key] = filtered
		}
		parts = filtered
	}

	requested := strings.Join(parts, " ")
	if p, ok := c.cache[requested]; ok {
		return p, nil
	}

	canonical := c.canonicalize(parts)
	canonicalKey := strings.Join(canonical, " ")
	if p, ok := c.cache[canonicalKey]; ok {
		// Alias the requested spelling so the next identical request takes
		// the fast path. The canonical tuple is already recorded, so this
		// does not dirty the persisted set.
		c.cache[requested] = p
		return p, nil
	}

	p, err := c.compile(canonical)
	if err != nil {
		return nil, err
	}
	c.cache[requested] = p
	c.cache[canonicalKey] = p
	c.dirty = true
	return p, nil
}

// canonicalize resolves negations, deduplicates, injects the default part
// and sorts, producing the canonical tuple identifying a compiled program.
func (c *ShaderCache) canonicalize(parts []string) []string {
	include := make(map[string]struct{}, len(parts))
	exclude := make(map[string]struct{})
	for _, name := range parts {
		if strings.HasPrefix(name, "-") {
			exclude[name[1:]] = struct{}{}
		} else {
			include[name] = struct{}{}
		}
	}
	for name := range exclude {
		delete(include, name)
	}
	if c.cfg.DefaultPart != "" {
		if _, ok := include[c.cfg.MarkerPart]; !ok {
			include[c.cfg.DefaultPart] = struct{}{}
		}
	}
	canonical := make([]string, 0, len(include))
	for name := range include {
		canonical = append(canonical, name)
	}
	sort.Strings(canonical)
	return canonical
}

func (c *ShaderCache) compile(canonical []string) (Program, error) {
	var (
		vertexVars   = make(map[glsource.VarKey]glsource.Variable)
		fragmentVars = make(map[glsource.VarKey]glsource.Variable)
		vertexBody   []glsource.BodyEntry
		fragmentBody []glsource.BodyEntry
		vertexFns    []string
		fragmentFns  []string
	)
	for _, name := range canonical {
		part, ok := c.reg.Part(name)
		if !ok {
			return nil, &UnknownPartError{Name: name}
		}
		if err := mergeVariables(vertexVars, part.VertexVariables, canonical); err != nil {
			return nil, err
		}
		if err := mergeVariables(fragmentVars, part.FragmentVariables, canonical); err != nil {
			return nil, err
		}
		vertexBody = append(vertexBody, part.VertexParts...)
		fragmentBody = append(fragmentBody, part.FragmentParts...)
		vertexFns = append(vertexFns, part.VertexFunctions)
		fragmentFns = append(fragmentFns, part.FragmentFunctions)
	}

	vertexSrc := string(glsource.AppendSource(nil, varList(vertexVars), vertexBody, vertexFns, false, c.cfg.Profile))
	fragmentSrc := string(glsource.AppendSource(nil, varList(fragmentVars), fragmentBody, fragmentFns, true, c.cfg.Profile))
	c.logShader("vertex", canonical, vertexSrc)
	c.logShader("fragment", canonical, fragmentSrc)

	if c.cfg.Loader == nil {
		return nil, fmt.Errorf("shader cache has no program loader configured")
	}
	return c.cfg.Loader.LoadProgram(canonical, vertexSrc, fragmentSrc)
}

// mergeVariables unions src into dst, rejecting two declarations that share a
// name but disagree on storage or type: the merged source would declare the
// name twice.
func mergeVariables(dst, src map[glsource.VarKey]glsource.Variable, canonical []string) error {
	for key, v := range src {
		for prevKey := range dst {
			if prevKey.Name == key.Name && prevKey != key {
				return fmt.Errorf("shader %q: conflicting declarations for %q: %q and %q",
					strings.Join(canonical, " "), key.Name, dst[prevKey].Line, v.Line)
			}
		}
		dst[key] = v
	}
	return nil
}

func varList(set map[glsource.VarKey]glsource.Variable) []glsource.Variable {
	vars := make([]glsource.Variable, 0, len(set))
	for _, v := range set {
		vars = append(vars, v)
	}
	return vars
}

// Check reports whether every given name is a registered part. Load uses it
// to skip combinations whose parts no longer exist.
func (c *ShaderCache) Check(parts ...string) bool {
	for _, name := range parts {
		if _, ok := c.reg.Part(name); !ok {
			return false
		}
	}
	return true
}

// Clear empties the cache and the missing set, releasing every compiled
// program. Call it when the rendering context is destroyed or recreated and
// all programs are invalidated. Clear does not reset the dirty flag.
func (c *ShaderCache) Clear() {
	clear(c.cache)
	clear(c.missing)
}

func (c *ShaderCache) logShader(stage string, parts []string, src string) {
	if !c.cfg.LogShaders {
		return
	}
	Logger().Debug("generated shader source",
		"stage", stage,
		"parts", strings.Join(parts, " "),
		"source", src,
	)
}

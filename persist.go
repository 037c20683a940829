package glshade

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Save persists the set of shader combinations seen so far, one combination
// per CRLF-terminated line of space-joined part names. It is a no-op unless
// the cache is dirty and developer mode is enabled. Persistence is best
// effort: the list is written to Filename.tmp and renamed over Filename, and
// any failure is logged and swallowed so it can never affect rendering.
func (c *ShaderCache) Save() {
	if !c.dirty || !c.cfg.Developer {
		return
	}

	target := filepath.Join(c.cfg.Dir, c.cfg.Filename)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, c.combinationList(), 0o644); err != nil {
		Logger().Warn("saving shader combinations", "path", tmp, "err", err)
		return
	}
	// The target may not exist yet; a failed remove is fine as long as the
	// rename that follows succeeds.
	os.Remove(target)
	if err := os.Rename(tmp, target); err != nil {
		Logger().Warn("saving shader combinations", "path", target, "err", err)
		return
	}
	c.dirty = false
}

// combinationList renders the union of cached and missing combinations,
// sorted so saved files are reproducible and diffable.
func (c *ShaderCache) combinationList() []byte {
	combos := make([]string, 0, len(c.cache)+len(c.missing))
	for key := range c.cache {
		combos = append(combos, key)
	}
	for key := range c.missing {
		if _, ok := c.cache[key]; !ok {
			combos = append(combos, key)
		}
	}
	sort.Strings(combos)
	var buf bytes.Buffer
	for _, key := range combos {
		buf.WriteString(key)
		buf.WriteString("\r\n")
	}
	return buf.Bytes()
}

// Load replays the persisted combination list, compiling every combination
// whose parts still exist. Combinations naming unregistered parts and
// combinations that fail to compile are recorded as missing and logged; one
// bad entry never blocks the rest. An absent or unreadable file means
// nothing to preload and is not an error.
func (c *ShaderCache) Load() {
	if c.cfg.FS == nil {
		return
	}
	f, err := c.cfg.FS.Open(c.cfg.Filename)
	if err != nil {
		Logger().Debug("no persisted shader combinations", "name", c.cfg.Filename, "err", err)
		return
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		names := strings.Fields(sc.Text())
		if len(names) == 0 {
			continue
		}
		key := strings.Join(names, " ")
		if !c.Check(names...) {
			c.missing[key] = struct{}{}
			continue
		}
		if _, err := c.Get(names...); err != nil {
			Logger().Warn("precompiling shader", "parts", key, "err", err)
			c.missing[key] = struct{}{}
		}
	}
	if err := sc.Err(); err != nil {
		Logger().Warn("reading shader combinations", "name", c.cfg.Filename, "err", err)
	}
}

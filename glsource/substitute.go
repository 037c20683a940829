package glsource

import "strings"

// Substitute rewrites part-scoped identifier references in text into
// collision-free global names so that unrelated shader parts composed into one
// program never clash:
//
//   - u__X, a__X, v__X and l__X become u_{part}_X, a_{part}_X, v_{part}_X and
//     l_{part}_X, where {part} is partName with every '.' replaced by '_'.
//   - u_X__Y becomes u_X_OP_Y, a separate convention for parameterized
//     "operation" uniform families. This expansion runs after the scoped
//     expansion and splits at the last __ of the identifier that leaves a
//     non-empty remainder.
//
// Both rewrites operate on whole identifiers only. Expanded names contain no
// double underscore after a scope prefix, so Substitute is idempotent.
func Substitute(text, partName string) string {
	if !strings.Contains(text, "__") {
		return text
	}
	sanitized := strings.ReplaceAll(partName, ".", "_")
	var b strings.Builder
	b.Grow(len(text) + 16)
	for i := 0; i < len(text); {
		if !isWordByte(text[i]) {
			b.WriteByte(text[i])
			i++
			continue
		}
		start := i
		for i < len(text) && isWordByte(text[i]) {
			i++
		}
		ident := expandScoped(text[start:i], sanitized)
		b.WriteString(expandOperation(ident))
	}
	return b.String()
}

// expandScoped maps a u__/a__/v__/l__ prefixed identifier to its part-scoped
// global name. Anything else passes through untouched.
func expandScoped(ident, sanitizedPart string) string {
	if len(ident) < 4 || ident[1] != '_' || ident[2] != '_' {
		return ident
	}
	switch ident[0] {
	case 'u', 'a', 'v', 'l':
		return ident[:1] + "_" + sanitizedPart + "_" + ident[3:]
	}
	return ident
}

// expandOperation maps u_X__Y to u_X_OP_Y.
func expandOperation(ident string) string {
	if !strings.HasPrefix(ident, "u_") {
		return ident
	}
	rest := ident[2:]
	for i := strings.LastIndex(rest, "__"); i > 0; i = strings.LastIndex(rest[:i], "__") {
		if i+2 < len(rest) {
			return "u_" + rest[:i] + "_OP_" + rest[i+2:]
		}
	}
	return ident
}

// Identifiers adds every maximal identifier run of text to dst and returns
// dst, allocating the map if nil. Used to find which declared variables a
// block of shader text references.
func Identifiers(dst map[string]struct{}, text string) map[string]struct{} {
	if dst == nil {
		dst = make(map[string]struct{})
	}
	for i := 0; i < len(text); {
		if !isWordByte(text[i]) {
			i++
			continue
		}
		start := i
		for i < len(text) && isWordByte(text[i]) {
			i++
		}
		dst[text[start:i]] = struct{}{}
	}
	return dst
}

func isWordByte(c byte) bool {
	return c == '_' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// Package glprog provides the OpenGL-backed program loader consumed by
// glshade's shader cache, implemented over glgl. GPU compilation requires
// CGo; without it every entry point fails with a descriptive error so
// callers can fall back to source-only workflows.
package glprog

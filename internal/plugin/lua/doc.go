// Package lua embeds a sandboxed Lua runtime for traversal plugins.
//
// Scripts see only the base, table, string, and math libraries; io,
// os, debug, and package stay closed. The Bridge installs the symflow
// module, through which scripts build traversal values, execute
// primitives against a bound walker, and publish named traversals.
package lua

// Package plugin discovers, loads, and manages Lua traversal plugins.
//
// A plugin is a directory with a plugin.json manifest and a Lua entry
// point, or a bare .lua file for the single-file case. Plugin scripts
// build traversal values with the symflow Lua module and publish them
// under the plugin's namespace with symflow.define. Loaded traversals
// are plain values; running one needs a walker bound at call time.
package plugin

package plugin

import "errors"

// Errors returned by registry operations.
var (
	// ErrAlreadyLoaded indicates a plugin with the same name is loaded.
	ErrAlreadyLoaded = errors.New("plugin already loaded")

	// ErrPluginNotFound indicates no loaded plugin has the name.
	ErrPluginNotFound = errors.New("plugin not found")

	// ErrMissingDependency indicates a plugin requires a plugin that is
	// not available.
	ErrMissingDependency = errors.New("missing plugin dependency")

	// ErrDuplicateTraversal indicates two definitions under one name.
	ErrDuplicateTraversal = errors.New("duplicate traversal name")

	// ErrTraversalNotDefined indicates a manifest declares a traversal
	// its script never defined.
	ErrTraversalNotDefined = errors.New("declared traversal not defined")
)

// Package loader provides the feature loading system of the HTTP server.
//
// Each feature implements the Feature interface:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager keeps the registry of features. Register adds one and LoadAll
// mounts the routes of every enabled feature.
package loader

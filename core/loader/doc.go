// Package loader provides the plugin-like feature loading system.
//
// Each feature implements the Feature interface and mounts its own routes.
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager registers features and loads the enabled ones in registration order.
// The catalog and integrity features are wired this way by the start command.
package loader

package pack

import "github.com/felixgeelhaar/time-server/domain/tool"

// Registry manages a collection of packs.
type Registry interface {
	// Register adds a pack to the registry.
	Register(pack *Pack) error

	// Get retrieves a pack by name.
	Get(name string) (*Pack, bool)

	// List returns all registered packs.
	List() []*Pack

	// Unregister removes a pack from the registry.
	Unregister(name string) error

	// Install registers the pack's tools that pass filter into toolReg
	// and returns how many were installed.
	Install(name string, toolReg tool.Registry, filter Filter) (int, error)
}

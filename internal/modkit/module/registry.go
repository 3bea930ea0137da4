package module

import (
	"slices"
	"sync"
)

// process wide port registry filled while main composes modules
var (
	mu  sync.RWMutex
	reg = map[string]any{}
)

// Register stores a port set under a module name, replacing any earlier one
func Register(name string, ports any) {
	mu.Lock()
	reg[name] = ports
	mu.Unlock()
}

// PortsAs fetches the port set for name and asserts it to T
func PortsAs[T any](name string) (T, bool) {
	mu.RLock()
	v, ok := reg[name]
	mu.RUnlock()
	out, ok2 := v.(T)
	return out, ok && ok2
}

// Names lists registered module names in order
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(reg))
	for k := range reg {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Reset clears the registry for tests
func Reset() {
	mu.Lock()
	reg = map[string]any{}
	mu.Unlock()
}

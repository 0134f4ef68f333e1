package ldapboot

import (
	"fmt"
	"sort"
	"sync"
)

// The registry maps binding names to Toolkit implementations. Vendor
// binding packages register themselves from init, so importing a binding
// links it into the build and makes it selectable; the first binding
// registered becomes the active one.

var (
	regMu    sync.RWMutex
	registry = make(map[string]Toolkit)
	active   string
)

// Register adds a toolkit binding to the registry. The first binding
// registered becomes the active toolkit. Registering a second binding
// under an existing name replaces it.
func Register(tk Toolkit) {
	regMu.Lock()
	defer regMu.Unlock()

	registry[tk.Name()] = tk
	if active == "" {
		active = tk.Name()
	}
}

// SetActive selects the active toolkit by registry name.
func SetActive(name string) error {
	regMu.Lock()
	defer regMu.Unlock()

	if _, ok := registry[name]; !ok {
		return fmt.Errorf("toolkit %q is not registered", name)
	}
	active = name
	return nil
}

// Active returns the currently selected toolkit.
func Active() (Toolkit, error) {
	regMu.RLock()
	defer regMu.RUnlock()

	if active == "" {
		return nil, fmt.Errorf("no LDAP toolkit registered: import a toolkit binding package")
	}
	return registry[active], nil
}

// Lookup returns a registered toolkit by name.
func Lookup(name string) (Toolkit, bool) {
	regMu.RLock()
	defer regMu.RUnlock()

	tk, ok := registry[name]
	return tk, ok
}

// Toolkits returns the names of all registered bindings, sorted.
func Toolkits() []string {
	regMu.RLock()
	defer regMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

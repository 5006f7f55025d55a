package dialect

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// registered holds the dialects adapters declared from init, keyed by
// lower-case name.
var registered = struct {
	sync.RWMutex
	m map[string]*Dialect
}{m: make(map[string]*Dialect)}

// Register makes d available under its name, case-insensitively.
// Registering a different dialect under a taken name panics.
func Register(d *Dialect) {
	key := strings.ToLower(d.Name)

	registered.Lock()
	defer registered.Unlock()
	if prev, ok := registered.m[key]; ok && prev != d {
		panic(fmt.Sprintf("dialect: %q registered twice", d.Name))
	}
	registered.m[key] = d
}

// Get returns the dialect registered under name.
func Get(name string) (*Dialect, bool) {
	registered.RLock()
	defer registered.RUnlock()
	d, ok := registered.m[strings.ToLower(name)]
	return d, ok
}

// List returns the registered dialect names in sorted order.
func List() []string {
	registered.RLock()
	defer registered.RUnlock()
	return slices.Sorted(maps.Keys(registered.m))
}

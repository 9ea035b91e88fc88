package curve

import (
	"fmt"
	"math/big"
	"sync"
)

var (
	mu      sync.RWMutex
	engines []Engine
)

// Register adds an engine to the registry. It is called from the engine
// subpackages' init functions.
func Register(e Engine) {
	mu.Lock()
	defer mu.Unlock()
	engines = append(engines, e)
}

// ForPrime returns the registered engine whose base-field prime equals q.
func ForPrime(q *big.Int) (Engine, error) {
	mu.RLock()
	defer mu.RUnlock()
	for _, e := range engines {
		if e.BaseModulus().Cmp(q) == 0 {
			return e, nil
		}
	}
	return nil, fmt.Errorf("curve: no engine for prime %s", q.String())
}

// ByName returns the registered engine with the given name.
func ByName(name string) (Engine, error) {
	mu.RLock()
	defer mu.RUnlock()
	for _, e := range engines {
		if e.Name() == name {
			return e, nil
		}
	}
	return nil, fmt.Errorf("curve: unknown engine %q", name)
}

package distance

import (
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
)

var ErrNotFound = errors.New("airport coordinates not found")

const cacheSize = 32

// Locator resolves an airport code to its coordinates.
type Locator interface {
	Coordinates(code string) (Coordinates, bool)
}

type distance struct {
	a, b string
	dist float64
}

// Computer computes distances between airports known to a Locator.
// Recent results are kept in a small direct-mapped cache.
type Computer struct {
	airports Locator

	mu    sync.Mutex
	cache [cacheSize]distance
}

func NewComputer(airports Locator) *Computer {
	return &Computer{airports: airports}
}

// Distance returns the distance in kilometers between the airports a and b.
func (comp *Computer) Distance(a, b string) (float64, error) {
	if dist, ok := comp.CachedDistance(a, b); ok {
		return dist, nil
	}

	p, ok := comp.airports.Coordinates(a)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, a)
	}
	q, ok := comp.airports.Coordinates(b)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, b)
	}

	dist := Kilometers(p, q)
	comp.CacheStore(a, b, dist)

	return dist, nil
}

func cacheKey(a, b string) uint32 {
	h1 := fnv.New32()
	h2 := fnv.New32()

	h1.Write([]byte(a))
	h2.Write([]byte(b))

	return (h1.Sum32() + h2.Sum32()) % cacheSize
}

func (comp *Computer) CacheStore(a, b string, dist float64) {
	comp.mu.Lock()
	comp.cache[cacheKey(a, b)] = distance{a, b, dist}
	comp.mu.Unlock()
}

func (comp *Computer) CachedDistance(a, b string) (float64, bool) {
	comp.mu.Lock()
	v := comp.cache[cacheKey(a, b)]
	comp.mu.Unlock()
	if v.a == "" && v.b == "" {
		return 0, false
	}
	return v.dist, (v.a == a && v.b == b) || (v.a == b && v.b == a)
}

package middleware

import (
	"fmt"
	"hash/fnv"

	"github.com/franciscopereira987/opensky-flights/pkg/typing"
)

// KeyGenerator spreads routes over a fixed number of routing keys, so every
// flight of a given origin/destination pair lands on the same consumer.
type KeyGenerator int

func NewKeyGenerator(mod int) KeyGenerator {
	if mod < 1 {
		mod = 1
	}
	return KeyGenerator(mod)
}

func (kg KeyGenerator) KeyFrom(sink, origin, destination string) string {
	h := fnv.New32()

	h.Write([]byte(origin))
	h.Write([]byte("."))
	h.Write([]byte(destination))

	v := h.Sum32()%uint32(kg) + 1

	return fmt.Sprintf("%s.%d", sink, v)
}

// Shard groups flights by routing key, keeping their relative order.
func (kg KeyGenerator) Shard(sink string, flights []typing.Flight) map[string][]typing.Flight {
	shards := make(map[string][]typing.Flight)
	for _, f := range flights {
		key := kg.KeyFrom(sink, f.DepartureICAO, f.ArrivalICAO)
		shards[key] = append(shards[key], f)
	}
	return shards
}

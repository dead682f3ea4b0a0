package ledger

import "math/rand/v2"

var (
	DriverNames = []string{"John Doe", "Jane Smith", "Mike Johnson", "Sarah Williams"}
	CarNames    = []string{"Toyota Camry", "Honda Civic", "Ford Focus", "Chevrolet Malibu"}
)

// PickRandom returns a uniformly chosen element of pool. pool must not be empty.
func PickRandom[T any](r *rand.Rand, pool []T) T {
	return pool[r.IntN(len(pool))]
}

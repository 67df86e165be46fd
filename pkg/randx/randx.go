// Package randx regroupe les tirages utilisés par la simulation.
// Toutes les fonctions consomment le même *rand.Rand, dans l'ordre d'appel.
package randx

import (
	"math/rand"
)

// New crée la source unique d'une exécution.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Uniform tire un réel dans [lo, hi].
func Uniform(r *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// IntBetween tire un entier dans [lo, hi], bornes incluses.
func IntBetween(r *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

// Chance renvoie vrai avec la probabilité p.
func Chance(r *rand.Rand, p float64) bool {
	return r.Float64() < p
}

func Choice[T any](r *rand.Rand, items []T) T {
	return items[r.Intn(len(items))]
}

// Sample tire k éléments distincts de pool, sans remise.
// k est plafonné à la taille du pool ; pool n'est pas modifié.
func Sample[T any](r *rand.Rand, pool []T, k int) []T {
	if k > len(pool) {
		k = len(pool)
	}
	if k <= 0 {
		return nil
	}
	cp := make([]T, len(pool))
	copy(cp, pool)
	// Fisher-Yates partiel
	for i := 0; i < k; i++ {
		j := i + r.Intn(len(cp)-i)
		cp[i], cp[j] = cp[j], cp[i]
	}
	return cp[:k]
}

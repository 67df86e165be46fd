package randx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntBetweenBounds(t *testing.T) {
	r := New(1)
	for i := 0; i < 1000; i++ {
		v := IntBetween(r, -20, 30)
		if v < -20 || v > 30 {
			t.Fatalf("out of range: %d", v)
		}
	}
	assert.Equal(t, 5, IntBetween(r, 5, 5))
}

func TestUniformBounds(t *testing.T) {
	r := New(2)
	for i := 0; i < 1000; i++ {
		v := Uniform(r, 2, 6)
		if v < 2 || v > 6 {
			t.Fatalf("out of range: %f", v)
		}
	}
}

func TestSampleCapsAndIsDistinct(t *testing.T) {
	r := New(3)
	pool := []string{"a", "b", "c", "d"}

	got := Sample(r, pool, 10)
	assert.Len(t, got, 4)
	assert.ElementsMatch(t, pool, got)
	assert.Equal(t, []string{"a", "b", "c", "d"}, pool, "pool must not be mutated")

	assert.Empty(t, Sample(r, pool, 0))
	assert.Len(t, Sample(r, pool, 2), 2)
}

func TestSameSeedSameStream(t *testing.T) {
	a, b := New(7), New(7)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Int63(), b.Int63())
	}
}

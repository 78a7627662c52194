package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		region Region
		want   bool
	}{
		{"maximum greater than minimum", New(100, 200, 300, 400), true},
		{"min x greater than max x", New(200, 100, 300, 400), false},
		{"min y greater than max y", New(100, 200, 400, 300), false},
		{"both crossed", New(200, 100, 400, 300), false},
		{"degenerate point", New(5, 5, 7, 7), true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.region.IsValid())
		})
	}
}

func TestIntersect(t *testing.T) {
	t.Parallel()

	base := New(-125, -122, 48, 49)

	t.Run("update fully inside base", func(t *testing.T) {
		t.Parallel()
		update := New(-123.8, -122.8, 48.3, 48.9)
		overlap := Intersect(update, base)
		assert.True(t, overlap.IsValid())
		assert.Equal(t, update, overlap)
	})

	t.Run("disjoint regions", func(t *testing.T) {
		t.Parallel()
		update := New(-121, -120, 48, 49)
		assert.False(t, Intersect(base, update).IsValid())
		assert.False(t, Intersect(update, base).IsValid())
	})

	t.Run("partial overlap", func(t *testing.T) {
		t.Parallel()
		update := New(-123, -121, 48.5, 50)
		assert.Equal(t, New(-123, -122, 48.5, 49), Intersect(base, update))
	})
}

func TestIntersectIsCommutative(t *testing.T) {
	t.Parallel()

	regions := []Region{
		New(-125, -122, 48, 49),
		New(-123.8, -122.8, 48.3, 48.9),
		New(-121, -120, 10, 20),
		New(0, 1, 0, 1),
		New(0.5, 3, -2, 0.25),
		New(200, 100, 300, 400),
	}

	for _, a := range regions {
		for _, b := range regions {
			assert.Equal(t, Intersect(a, b), Intersect(b, a), "%s ∩ %s", a, b)
		}
	}
}

func TestIntersectWithItself(t *testing.T) {
	t.Parallel()

	for _, r := range []Region{New(-125, -122, 48, 49), New(0, 0, 0, 0), New(-1e6, 1e6, -5, 5)} {
		assert.Equal(t, r, Intersect(r, r))
	}
}

func TestFromSlice(t *testing.T) {
	t.Parallel()

	r, err := FromSlice([]float64{-125, -122, 48, 49})
	require.NoError(t, err)
	assert.Equal(t, New(-125, -122, 48, 49), r)

	_, err = FromSlice([]float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = FromSlice([]float64{2, 1, 3, 4})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "-125/-122/48/49", New(-125, -122, 48, 49).String())
	assert.Equal(t, "0.5/1.25/-3/0", New(0.5, 1.25, -3, 0).String())
}

func TestContains(t *testing.T) {
	t.Parallel()

	r := New(0, 10, 0, 5)
	assert.True(t, r.Contains(0, 0))
	assert.True(t, r.Contains(10, 5))
	assert.True(t, r.Contains(3, 2))
	assert.False(t, r.Contains(-0.1, 2))
	assert.False(t, r.Contains(3, 5.1))
}

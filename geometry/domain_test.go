package geometry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomain(t *testing.T) {
	{ // Degenerate extents must fail fast
		_, err := NewInterval(0, 0)
		assert.True(t, errors.Is(err, ErrInvalidDomain))
		_, err = NewInterval(1, -1)
		assert.True(t, errors.Is(err, ErrInvalidDomain))
		_, err = NewTimeDomain(0, -5)
		assert.True(t, errors.Is(err, ErrInvalidDomain))
	}
	{ // Face classification uses tolerance, not exact equality
		iv, err := NewInterval(0, 1)
		require.NoError(t, err)
		assert.True(t, iv.OnLeft(0))
		assert.True(t, iv.OnLeft(1.e-13))
		assert.False(t, iv.OnLeft(1.e-4))
		assert.True(t, iv.OnRight(1))
		assert.False(t, iv.OnRight(0.9999))
		assert.Equal(t, 1., iv.Length())
	}
	{ // Space-time membership
		iv, _ := NewInterval(0, 2)
		td, _ := NewTimeDomain(0, 1)
		st := NewSpaceTime(iv, td)
		assert.True(t, st.Contains(1, 0.5))
		assert.True(t, st.Contains(0, 0))
		assert.False(t, st.Contains(2.5, 0.5))
		assert.False(t, st.Contains(1, 1.5))
		assert.True(t, st.OnSpatialBoundary(2))
		assert.False(t, st.OnSpatialBoundary(1))
		assert.True(t, st.Time.AtInitial(0))
	}
}

func TestSampler(t *testing.T) {
	var (
		iv, _ = NewInterval(0, 1)
		td, _ = NewTimeDomain(0, 1)
		st    = NewSpaceTime(iv, td)
	)
	for _, dist := range []Distribution{Uniform, Halton} {
		sp := NewSampler(st, dist, 42)
		{ // Interior points stay inside the region, off the faces
			X := sp.Interior(200)
			nr, nc := X.Dims()
			require.Equal(t, 2, nr)
			require.Equal(t, 200, nc)
			for j := 0; j < nc; j++ {
				x, tt := X.At(0, j), X.At(1, j)
				assert.True(t, st.Contains(x, tt))
				assert.False(t, st.OnSpatialBoundary(x))
			}
		}
		{ // Boundary points land exactly on the faces, half per side
			X := sp.Boundary(80)
			_, nc := X.Dims()
			var nLeft, nRight int
			for j := 0; j < nc; j++ {
				x, tt := X.At(0, j), X.At(1, j)
				switch {
				case iv.OnLeft(x):
					nLeft++
				case iv.OnRight(x):
					nRight++
				default:
					t.Fatalf("boundary point off both faces: x = %v", x)
				}
				assert.GreaterOrEqual(t, tt, 0.)
				assert.LessOrEqual(t, tt, 1.)
			}
			assert.Equal(t, 40, nLeft)
			assert.Equal(t, 40, nRight)
		}
		{ // Initial points carry t = TInitial exactly
			X := sp.InitialTime(160)
			_, nc := X.Dims()
			for j := 0; j < nc; j++ {
				assert.Equal(t, 0., X.At(1, j))
				assert.True(t, iv.Contains(X.At(0, j)))
			}
		}
	}
	{ // The same seed reproduces the same point set
		a := NewSampler(st, Halton, 7).Interior(50)
		b := NewSampler(st, Halton, 7).Interior(50)
		assert.Equal(t, a.Data(), b.Data())
	}
	{ // Test grid is interior and close to the requested count
		sp := NewSampler(st, Uniform, 1)
		X := sp.TestPoints(10000)
		_, nc := X.Dims()
		assert.Equal(t, 10000, nc)
		for j := 0; j < nc; j++ {
			assert.False(t, st.OnSpatialBoundary(X.At(0, j)))
			assert.False(t, st.Time.AtInitial(X.At(1, j)))
		}
	}
	{ // Prediction grid includes the faces
		sp := NewSampler(st, Uniform, 1)
		X := sp.UniformGrid(11, 5)
		_, nc := X.Dims()
		assert.Equal(t, 55, nc)
		assert.Equal(t, 0., X.At(0, 0))
		assert.Equal(t, 0., X.At(1, 0))
		assert.Equal(t, 1., X.At(0, nc-1))
		assert.Equal(t, 1., X.At(1, nc-1))
	}
}

func TestParseDistribution(t *testing.T) {
	d, err := ParseDistribution("halton")
	require.NoError(t, err)
	assert.Equal(t, Halton, d)
	assert.Equal(t, "halton", d.String())
	d, err = ParseDistribution("uniform")
	require.NoError(t, err)
	assert.Equal(t, Uniform, d)
	_, err = ParseDistribution("sobol")
	assert.Error(t, err)
}

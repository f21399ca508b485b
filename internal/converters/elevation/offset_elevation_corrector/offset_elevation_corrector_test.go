package offset_elevation_corrector

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCorrectElevation(t *testing.T) {
	cases := []struct {
		offset   float64
		z        float64
		expected float64
	}{
		{offset: 0, z: 12.5, expected: 12.5},
		{offset: 10, z: 12.5, expected: 22.5},
		{offset: -2.5, z: 1, expected: -1.5},
	}

	for _, c := range cases {
		corrector := NewOffsetElevationCorrector(c.offset)
		require.InDelta(t, c.expected, corrector.CorrectElevation(45, 9, c.z), 1e-12)
	}
}

package classifier

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgmax(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		scores         []float32
		wantIndex      int
		wantConfidence float32
	}{
		{
			name:           "max in the middle",
			scores:         []float32{0.1, 0.7, 0.2},
			wantIndex:      1,
			wantConfidence: 0.7,
		},
		{
			name:           "max at the start",
			scores:         []float32{0.9, 0.05, 0.05},
			wantIndex:      0,
			wantConfidence: 0.9,
		},
		{
			name:           "max at the end",
			scores:         []float32{0.0, 0.0, 1.0},
			wantIndex:      2,
			wantConfidence: 1.0,
		},
		{
			name:           "ties keep the first maximum",
			scores:         []float32{0.5, 0.5},
			wantIndex:      0,
			wantConfidence: 0.5,
		},
		{
			name:           "single class",
			scores:         []float32{0.42},
			wantIndex:      0,
			wantConfidence: 0.42,
		},
		{
			name:      "empty output",
			scores:    nil,
			wantIndex: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			index, confidence := Argmax(tt.scores)
			assert.Equal(t, tt.wantIndex, index)
			// The confidence is the raw maximum, never re-normalized.
			assert.Equal(t, tt.wantConfidence, confidence)
		})
	}
}

func TestPrepareInputShapeAndRange(t *testing.T) {
	t.Parallel()

	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	input := PrepareInput(img)

	require.Len(t, input, InputSize*InputSize*3)
	for _, v := range input {
		assert.GreaterOrEqual(t, v, float32(-1))
		assert.LessOrEqual(t, v, float32(1))
	}
}

func TestPrepareInputNormalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		fill  color.RGBA
		wantR float32
		wantG float32
		wantB float32
	}{
		{name: "black maps to -1", fill: color.RGBA{0, 0, 0, 255}, wantR: -1, wantG: -1, wantB: -1},
		{name: "white maps to 1", fill: color.RGBA{255, 255, 255, 255}, wantR: 1, wantG: 1, wantB: 1},
		{
			name: "channels keep their order",
			fill: color.RGBA{255, 0, 255, 255}, wantR: 1, wantG: -1, wantB: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			img := image.NewRGBA(image.Rect(0, 0, InputSize, InputSize))
			for y := 0; y < InputSize; y++ {
				for x := 0; x < InputSize; x++ {
					img.Set(x, y, tt.fill)
				}
			}

			input := PrepareInput(img)
			require.Len(t, input, InputSize*InputSize*3)

			// A uniform image stays uniform through resampling, so checking a
			// few pixels across the tensor is enough.
			for _, base := range []int{0, 3 * 1000, len(input) - 3} {
				assert.InDelta(t, tt.wantR, input[base], 0.01)
				assert.InDelta(t, tt.wantG, input[base+1], 0.01)
				assert.InDelta(t, tt.wantB, input[base+2], 0.01)
			}
		})
	}
}

func TestNewWithMissingModel(t *testing.T) {
	t.Parallel()

	c, err := New("no-such-model.tflite")
	require.Error(t, err)
	assert.Nil(t, c, "callers treat a nil classifier as classification unavailable")
}

package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equipo13/navauto_client/internal/models"
)

func solidBGRA(width, height int, b, g, r byte) models.CameraFrame {
	buf := make([]byte, width*height*4)
	for i := 0; i < width*height; i++ {
		buf[i*4+0] = b
		buf[i*4+1] = g
		buf[i*4+2] = r
		buf[i*4+3] = 0xFF
	}
	return models.CameraFrame{Device: "camera", Width: width, Height: height, BGRA: buf}
}

func TestPreprocessOutputShape(t *testing.T) {
	tests := map[string]struct {
		width  int
		height int
	}{
		"simulator default": {480, 270},
		"already final":     {200, 66},
		"tiny":              {16, 16},
		"tall":              {66, 200},
		"large":             {1280, 720},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			tensor, err := Preprocess(solidBGRA(test.width, test.height, 10, 20, 30))
			require.NoError(t, err)
			assert.Len(t, tensor, TensorSize)
		})
	}
}

func TestPreprocessChannelOrder(t *testing.T) {
	// pure blue in, so only the first byte of each BGR triple is set
	tensor, err := Preprocess(solidBGRA(480, 270, 0xFF, 0x00, 0x00))
	require.NoError(t, err)
	require.Len(t, tensor, TensorSize)

	for i := 0; i < TensorSize; i += Channels {
		assert.Equal(t, byte(0xFF), tensor[i+0])
		assert.Equal(t, byte(0x00), tensor[i+1])
		assert.Equal(t, byte(0x00), tensor[i+2])
	}
}

func TestFromBGRA(t *testing.T) {
	frame := solidBGRA(4, 2, 0x01, 0x02, 0x03)
	img, err := FromBGRA(frame)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
	assert.Equal(t, byte(0x03), img.Pix[0]) // R
	assert.Equal(t, byte(0x02), img.Pix[1]) // G
	assert.Equal(t, byte(0x01), img.Pix[2]) // B
}

func TestFromBGRARejectsBadBuffers(t *testing.T) {
	_, err := FromBGRA(models.CameraFrame{Width: 4, Height: 2, BGRA: make([]byte, 7)})
	assert.Error(t, err)

	_, err = FromBGRA(models.CameraFrame{Width: 0, Height: 2})
	assert.Error(t, err)
}

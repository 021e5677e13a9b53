// Package vision shapes raw simulator camera frames into the fixed
// input the steering model was trained on.
package vision

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/equipo13/navauto_client/internal/models"
)

// Model input shape. The crop drops the rows above the road before the
// final resize, matching how the training set was produced.
const (
	OutWidth  = 200
	OutHeight = 66
	CropTop   = 35
	Channels  = 3
)

// TensorSize is the byte length Preprocess always returns.
const TensorSize = OutWidth * OutHeight * Channels

// FromBGRA converts a raw simulator frame into an image. Simulator
// frames are BGRA; image.NRGBA wants RGBA, so the channel order is
// swapped here and swapped back when the tensor is built.
func FromBGRA(frame models.CameraFrame) (*image.NRGBA, error) {
	if frame.Width <= 0 || frame.Height <= 0 {
		return nil, fmt.Errorf("invalid frame dimensions %dx%d", frame.Width, frame.Height)
	}
	if len(frame.BGRA) != frame.Width*frame.Height*4 {
		return nil, fmt.Errorf("frame buffer is %d bytes, want %d for %dx%d",
			len(frame.BGRA), frame.Width*frame.Height*4, frame.Width, frame.Height)
	}

	img := image.NewNRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for i := 0; i < frame.Width*frame.Height; i++ {
		img.Pix[i*4+0] = frame.BGRA[i*4+2] // R
		img.Pix[i*4+1] = frame.BGRA[i*4+1] // G
		img.Pix[i*4+2] = frame.BGRA[i*4+0] // B
		img.Pix[i*4+3] = frame.BGRA[i*4+3]
	}
	return img, nil
}

// Preprocess runs the full pipeline: resize to 200x66, crop the rows
// above the road, resize back to 200x66, and emit BGR bytes. The output
// shape is the same for any input frame dimensions.
func Preprocess(frame models.CameraFrame) ([]byte, error) {
	img, err := FromBGRA(frame)
	if err != nil {
		return nil, fmt.Errorf("failed decoding camera frame: %w", err)
	}

	resized := imaging.Resize(img, OutWidth, OutHeight, imaging.Linear)
	cropped := imaging.Crop(resized, image.Rect(0, CropTop, OutWidth, OutHeight))
	final := imaging.Resize(cropped, OutWidth, OutHeight, imaging.Linear)

	tensor := make([]byte, 0, TensorSize)
	for y := 0; y < OutHeight; y++ {
		for x := 0; x < OutWidth; x++ {
			i := final.PixOffset(x, y)
			tensor = append(tensor, final.Pix[i+2], final.Pix[i+1], final.Pix[i+0]) // BGR
		}
	}
	return tensor, nil
}

package classifier

import (
	"image"

	"github.com/disintegration/imaging"
)

// PrepareInput converts an image into the model's input layout: the image is
// scaled and center-cropped to InputSize x InputSize with Lanczos resampling,
// then each RGB channel is rescaled from [0,255] to [-1,1]. The result is a
// float32 slice in NHWC order with batch size 1.
//
// The resize filter and normalization range are part of the trained model's
// numerical contract and must not change.
func PrepareInput(img image.Image) []float32 {
	fitted := imaging.Fill(img, InputSize, InputSize, imaging.Center, imaging.Lanczos)

	out := make([]float32, InputSize*InputSize*3)
	i := 0
	for y := 0; y < InputSize; y++ {
		row := fitted.Pix[y*fitted.Stride : y*fitted.Stride+InputSize*4]
		for x := 0; x < InputSize*4; x += 4 {
			out[i] = float32(row[x])/127.5 - 1
			out[i+1] = float32(row[x+1])/127.5 - 1
			out[i+2] = float32(row[x+2])/127.5 - 1
			i += 3
		}
	}
	return out
}

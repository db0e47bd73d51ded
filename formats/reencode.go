package formats

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/gen2brain/jpegli"
)

// Reencode decodes a JPEG and encodes its pixels again with jpegli at the
// given quality and without chroma subsampling. The result carries no
// metadata segments; callers embed EXIF afterwards.
func Reencode(data []byte, quality int) ([]byte, error) {
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("quality %d out of range 1-100", quality)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode pixels: %w", err)
	}

	var buf bytes.Buffer
	err = jpegli.Encode(&buf, img, &jpegli.EncodingOptions{
		Quality:           quality,
		ChromaSubsampling: image.YCbCrSubsampleRatio444,
	})
	if err != nil {
		return nil, fmt.Errorf("encode pixels: %w", err)
	}
	return buf.Bytes(), nil
}

// Dimensions returns the pixel size recorded in a JPEG's frame header.
func Dimensions(data []byte) (width, height int, err error) {
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

package covers

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder

	"github.com/bbrks/go-blurhash"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	// maxDimension caps stored covers. Anything larger gets downscaled.
	maxDimension = 1024

	// jpegQuality for re-encoded covers.
	jpegQuality = 85

	// blurHashSize is the target size for BlurHash computation.
	// BlurHash is a low-resolution placeholder, so a small thumbnail
	// produces nearly identical results in a fraction of the time.
	blurHashSize = 64
)

// processResult holds a normalized cover and its derived data.
type processResult struct {
	Data     []byte // JPEG-encoded, at most maxDimension on each side
	Width    int
	Height   int
	BlurHash string
}

// process decodes raw image data, downscales it to fit maxDimension,
// re-encodes as JPEG, and computes a BlurHash placeholder.
func process(data []byte) (*processResult, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	img = scaleDown(img, maxDimension)
	bounds := img.Bounds()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	// 4 horizontal, 3 vertical components - sweet spot for book covers
	hash, err := blurhash.Encode(4, 3, scaleDown(img, blurHashSize))
	if err != nil {
		return nil, fmt.Errorf("encode blurhash: %w", err)
	}

	return &processResult{
		Data:     buf.Bytes(),
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		BlurHash: hash,
	}, nil
}

// scaleDown resizes img so neither dimension exceeds max, preserving
// aspect ratio. Images already within bounds are returned unchanged.
func scaleDown(img image.Image, max int) image.Image {
	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()

	if srcWidth <= max && srcHeight <= max {
		return img
	}

	var dstWidth, dstHeight int
	if srcWidth > srcHeight {
		dstWidth = max
		dstHeight = (srcHeight * max) / srcWidth
		if dstHeight < 1 {
			dstHeight = 1
		}
	} else {
		dstHeight = max
		dstWidth = (srcWidth * max) / srcHeight
		if dstWidth < 1 {
			dstWidth = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"net/http"

	xdraw "golang.org/x/image/draw"

	"github.com/leenscore/leenscore/internal/model"
)

// qualityStep is the fixed JPEG quality decrement per recompression pass
const qualityStep = 0.05

var (
	// ErrUnsupportedType is returned for non-JPEG/PNG uploads
	ErrUnsupportedType = errors.New("unsupported image type")
	// ErrTooLarge is returned when the original exceeds the upload ceiling
	ErrTooLarge = errors.New("image exceeds maximum upload size")
)

// Options control the resize/recompress pass
type Options struct {
	MaxWidth       int
	MaxHeight      int
	InitialQuality float64
	MinQuality     float64
	TargetBytes    int64
}

// OptionsFromConfig builds processing options from service configuration
func OptionsFromConfig(cfg model.ImageConfig) Options {
	return Options{
		MaxWidth:       cfg.MaxWidth,
		MaxHeight:      cfg.MaxHeight,
		InitialQuality: cfg.InitialQuality,
		MinQuality:     cfg.MinQuality,
		TargetBytes:    cfg.TargetBytes,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxWidth <= 0 {
		o.MaxWidth = 1800
	}
	if o.MaxHeight <= 0 {
		o.MaxHeight = 2400
	}
	if o.InitialQuality <= 0 || o.InitialQuality > 1 {
		o.InitialQuality = 0.82
	}
	if o.MinQuality <= 0 || o.MinQuality > o.InitialQuality {
		o.MinQuality = 0.65
	}
	if o.TargetBytes <= 0 {
		o.TargetBytes = 3_500_000
	}
	return o
}

// Result describes the processed image
type Result struct {
	Data          []byte  `json:"-"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	OriginalBytes int64   `json:"originalBytes"`
	FinalBytes    int64   `json:"finalBytes"`
	MimeType      string  `json:"mimeType"`
	Ratio         float64 `json:"compressionRatio"` // original / final
}

// Validate rejects unsupported mime types and oversized originals before any
// decoding work happens
func Validate(data []byte, maxBytes int64) error {
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return ErrTooLarge
	}
	switch http.DetectContentType(data) {
	case "image/jpeg", "image/png":
		return nil
	default:
		return ErrUnsupportedType
	}
}

// Process shrinks and recompresses an image to fit the byte budget.
// The quality-reduction loop is bounded by the quality floor and at most one
// dimension-rescale pass follows it, so processing always terminates; the
// output may exceed the budget only at floor quality after the rescale.
func Process(data []byte, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	width, height := fitDimensions(src.Bounds().Dx(), src.Bounds().Dy(), opts.MaxWidth, opts.MaxHeight)
	scaled := scale(src, width, height)

	// PNG is kept only for genuinely transparent sources; everything else
	// recompresses better as JPEG.
	usePNG := format == "png" && hasTransparency(scaled)

	if usePNG {
		encoded, err := encodePNG(scaled)
		if err != nil {
			return nil, err
		}
		return buildResult(encoded, scaled, "image/png", int64(len(data))), nil
	}

	quality := opts.InitialQuality
	encoded, err := encodeJPEG(scaled, quality)
	if err != nil {
		return nil, err
	}

	for int64(len(encoded)) > opts.TargetBytes && quality-qualityStep >= opts.MinQuality-1e-9 {
		quality -= qualityStep
		encoded, err = encodeJPEG(scaled, quality)
		if err != nil {
			return nil, err
		}
	}

	// Still over budget at floor quality: one uniform downscale, then a final
	// floor-quality encode.
	if int64(len(encoded)) > opts.TargetBytes {
		factor := math.Sqrt(float64(opts.TargetBytes)/float64(len(encoded))) * 0.9
		w := int(float64(scaled.Bounds().Dx()) * factor)
		h := int(float64(scaled.Bounds().Dy()) * factor)
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		scaled = scale(scaled, w, h)
		encoded, err = encodeJPEG(scaled, opts.MinQuality)
		if err != nil {
			return nil, err
		}
	}

	return buildResult(encoded, scaled, "image/jpeg", int64(len(data))), nil
}

// fitDimensions preserves aspect ratio, capping by max width first and then
// by max height
func fitDimensions(w, h, maxW, maxH int) (int, int) {
	if w > maxW {
		h = h * maxW / w
		w = maxW
	}
	if h > maxH {
		w = w * maxH / h
		h = maxH
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// scale resamples the image to the given dimensions
func scale(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}

// hasTransparency samples the image on a coarse grid for non-opaque pixels
func hasTransparency(img image.Image) bool {
	bounds := img.Bounds()
	stepX := bounds.Dx() / 64
	stepY := bounds.Dy() / 64
	if stepX < 1 {
		stepX = 1
	}
	if stepY < 1 {
		stepY = 1
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y += stepY {
		for x := bounds.Min.X; x < bounds.Max.X; x += stepX {
			if _, _, _, a := img.At(x, y).RGBA(); a < 0xffff {
				return true
			}
		}
	}
	return false
}

func encodeJPEG(img image.Image, quality float64) ([]byte, error) {
	var buf bytes.Buffer
	q := int(quality * 100)
	if q < 1 {
		q = 1
	}
	if q > 100 {
		q = 100
	}
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func buildResult(encoded []byte, img image.Image, mimeType string, originalBytes int64) *Result {
	finalBytes := int64(len(encoded))
	ratio := 1.0
	if finalBytes > 0 {
		ratio = float64(originalBytes) / float64(finalBytes)
	}
	return &Result{
		Data:          encoded,
		Width:         img.Bounds().Dx(),
		Height:        img.Bounds().Dy(),
		OriginalBytes: originalBytes,
		FinalBytes:    finalBytes,
		MimeType:      mimeType,
		Ratio:         ratio,
	}
}

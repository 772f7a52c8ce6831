package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	perrors "github.com/matzehuels/pyramidr/pkg/errors"
)

// Output format names.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatGIF  = "gif"
	FormatTIFF = "tiff"
	FormatBMP  = "bmp"
)

// DefaultJPEGQuality is used when EncodeOptions.JPEGQuality is zero.
const DefaultJPEGQuality = 95

var formats = map[string]imaging.Format{
	FormatPNG:  imaging.PNG,
	FormatJPEG: imaging.JPEG,
	"jpg":      imaging.JPEG,
	FormatGIF:  imaging.GIF,
	FormatTIFF: imaging.TIFF,
	"tif":      imaging.TIFF,
	FormatBMP:  imaging.BMP,
}

var contentTypes = map[imaging.Format]string{
	imaging.PNG:  "image/png",
	imaging.JPEG: "image/jpeg",
	imaging.GIF:  "image/gif",
	imaging.TIFF: "image/tiff",
	imaging.BMP:  "image/bmp",
}

// EncodeOptions tunes [Encode].
type EncodeOptions struct {
	JPEGQuality int  // 1-100
	FastPNG     bool // favour speed over size
}

// Formats returns the canonical output format names.
func Formats() []string {
	return []string{FormatPNG, FormatJPEG, FormatGIF, FormatTIFF, FormatBMP}
}

// ParseFormat normalizes a format name. Aliases "jpg" and "tif" are accepted.
func ParseFormat(name string) (string, error) {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	if err := perrors.ValidateFormatName(name); err != nil {
		return "", err
	}
	f, ok := formats[name]
	if !ok {
		return "", perrors.New(perrors.ErrCodeInvalidFormat,
			"unsupported format %q (valid: %s)", name, strings.Join(Formats(), ", "))
	}
	return canonical(f), nil
}

// FormatFromPath picks the output format from a file extension.
func FormatFromPath(path string) (string, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", perrors.New(perrors.ErrCodeInvalidFormat, "cannot infer format from %q: no extension", path)
	}
	return ParseFormat(ext)
}

// ContentType returns the MIME type of a format name.
func ContentType(format string) string {
	f, ok := formats[format]
	if !ok {
		return "application/octet-stream"
	}
	return contentTypes[f]
}

func canonical(f imaging.Format) string {
	for _, name := range Formats() {
		if formats[name] == f {
			return name
		}
	}
	return ""
}

// Encode writes img in the named format.
func Encode(w io.Writer, img image.Image, format string, opts EncodeOptions) error {
	name, err := ParseFormat(format)
	if err != nil {
		return err
	}
	quality := opts.JPEGQuality
	if quality == 0 {
		quality = DefaultJPEGQuality
	}
	if quality < 1 || quality > 100 {
		return perrors.New(perrors.ErrCodeInvalidParameter, "jpeg quality %d is out of range (1-100)", quality)
	}

	encOpts := []imaging.EncodeOption{imaging.JPEGQuality(quality)}
	if opts.FastPNG {
		encOpts = append(encOpts, imaging.PNGCompressionLevel(png.BestSpeed))
	}
	if err := imaging.Encode(w, img, formats[name], encOpts...); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return nil
}

// Decode reads an image, applying any EXIF orientation.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "decode image")
	}
	return img, nil
}

// DecodeConfig reads only the image header. Dimensions are as stored,
// before any EXIF orientation is applied.
func DecodeConfig(r io.Reader) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return image.Config{}, "", perrors.Wrap(perrors.ErrCodeInvalidInput, err, "decode image header")
	}
	return cfg, format, nil
}

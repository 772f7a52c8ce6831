package pipeline

import (
	"bytes"
	"image"
	"os"

	"github.com/matzehuels/pyramidr/pkg/cache"
	perrors "github.com/matzehuels/pyramidr/pkg/errors"
	"github.com/matzehuels/pyramidr/pkg/render"
)

// Source is a decoded input image together with the hash of its bytes.
type Source struct {
	Image image.Image
	Hash  string
}

// Width returns the decoded width.
func (s *Source) Width() int { return s.Image.Bounds().Dx() }

// Height returns the decoded height.
func (s *Source) Height() int { return s.Image.Bounds().Dy() }

// ParseSource decodes an encoded image.
func ParseSource(data []byte) (*Source, error) {
	return ParseSourceLimited(data, 0)
}

// ParseSourceLimited decodes an encoded image after checking from its header
// that it has at most maxPixels pixels. A maxPixels of 0 means no limit.
func ParseSourceLimited(data []byte, maxPixels int64) (*Source, error) {
	if len(data) == 0 {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "source image is empty")
	}
	if maxPixels > 0 {
		cfg, _, err := render.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		if px := int64(cfg.Width) * int64(cfg.Height); px > maxPixels {
			return nil, perrors.New(perrors.ErrCodeInvalidInput,
				"source image %dx%d has %d pixels, more than the limit of %d", cfg.Width, cfg.Height, px, maxPixels)
		}
	}
	img, err := render.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &Source{Image: img, Hash: cache.Hash(data)}, nil
}

// ParseSourceFile reads and decodes the image at path.
func ParseSourceFile(path string) (*Source, error) {
	if err := perrors.ValidateInputFile(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return ParseSource(data)
}

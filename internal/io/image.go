package ioutils

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"io"
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/tiff" // TIFF decoder registration
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// ImageInfo describes an image file without decoding its pixels.
type ImageInfo struct {
	// Format is the detected encoding ("jpeg", "png", "webp", ...),
	// independent of the file extension.
	Format string

	// Width and Height are the pixel dimensions.
	Width  int
	Height int

	// Taken is the EXIF capture time for JPEG files. Zero if unknown.
	Taken time.Time
}

// ImageService inspects the images referenced by the dataset.
//
// ImageService is used to:
//   - Confirm an image can be decoded at all
//   - Detect the real encoding, which browsers and phones do not always
//     match to the extension (a ".jpg" that is really WebP)
//   - Read the EXIF capture time of photos
//
// Example usage:
//
//	svc := NewImageService()
//	info, err := svc.Probe(ctx, "users/Chao/Item-1.jpg")
//	if err == nil && info.Format != "jpeg" {
//	    fmt.Println("mislabelled image")
//	}
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// Probe reads the header of the image at path.
//
// Only the image configuration is decoded, so probing is cheap even for
// large photos. For JPEG files the EXIF block is also read; a missing or
// broken EXIF block is not an error.
func (s *ImageService) Probe(ctx context.Context, path string) (ImageInfo, error) {
	if err := ctx.Err(); err != nil {
		return ImageInfo{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return ImageInfo{}, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("decoding %s: %w", path, err)
	}

	info := ImageInfo{Format: format, Width: cfg.Width, Height: cfg.Height}
	if format != "jpeg" {
		return info, nil
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return info, nil
	}
	if x, err := exif.Decode(f); err == nil {
		if taken, err := x.DateTime(); err == nil {
			info.Taken = taken
		}
	}

	return info, nil
}

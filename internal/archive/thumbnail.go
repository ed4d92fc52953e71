package archive

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// Thumbnail decodes the screenshot bytes and writes a width-constrained copy
// to path, preserving aspect ratio.
func Thumbnail(data []byte, path string, width int) error {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode screenshot: %w", err)
	}

	thumb := imaging.Resize(img, width, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, path); err != nil {
		return fmt.Errorf("failed to save thumbnail: %w", err)
	}
	return nil
}

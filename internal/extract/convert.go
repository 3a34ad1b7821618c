package extract

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

const jpegQuality = 85

// Converter normalizes uploaded bill files into JPEG images ready for
// the vision model. PDFs are rendered one image per page; PNG and JPEG
// uploads are re-encoded as JPEG.
type Converter struct {
	logger *zap.Logger
}

// NewConverter creates a new upload converter.
func NewConverter(logger *zap.Logger) *Converter {
	return &Converter{logger: logger}
}

// Convert turns one uploaded file into one or more JPEG images, keyed by
// the file's extension.
func (c *Converter) Convert(filename string, data []byte) ([][]byte, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return c.convertPDF(data)
	case ".jpg", ".jpeg":
		return c.reencodeImage(data, jpeg.Decode)
	case ".png":
		return c.reencodeImage(data, png.Decode)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}
}

// convertPDF renders every PDF page to a JPEG image.
func (c *Converter) convertPDF(data []byte) ([][]byte, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	c.logger.Debug("Converting PDF upload", zap.Int("pages", pageCount))

	var images [][]byte
	for pageNum := 0; pageNum < pageCount; pageNum++ {
		img, err := doc.Image(pageNum)
		if err != nil {
			c.logger.Warn("Failed to render PDF page",
				zap.Int("page", pageNum),
				zap.Error(err))
			continue
		}
		encoded, err := encodeJPEG(img)
		if err != nil {
			c.logger.Warn("Failed to encode PDF page",
				zap.Int("page", pageNum),
				zap.Error(err))
			continue
		}
		images = append(images, encoded)
	}

	if len(images) == 0 {
		return nil, fmt.Errorf("no pages rendered from PDF")
	}
	return images, nil
}

func (c *Converter) reencodeImage(data []byte, decode func(r io.Reader) (image.Image, error)) ([][]byte, error) {
	img, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	encoded, err := encodeJPEG(img)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return [][]byte{encoded}, nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

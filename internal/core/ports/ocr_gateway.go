package ports

import "context"

// OCRGateway extracts text from document bytes. PDFs are rasterized by the
// backend before recognition; callers only hand over raw bytes and a mime
// type.
type OCRGateway interface {
	ExtractText(ctx context.Context, document []byte, mimeType string) (string, error)
}

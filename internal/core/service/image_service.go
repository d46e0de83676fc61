package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"github.com/Michelc16/catalogo-online/internal/core/domain"
	"github.com/Michelc16/catalogo-online/internal/core/ports"
)

// maxImageDim bounds both dimensions of a stored image.
const maxImageDim = 800

// allowedImageExts is the upload allow-list. CSV is handled by the import
// pipeline before this service ever sees the file.
var allowedImageExts = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
}

// ImageService decodes an upload, fits it inside maxImageDim*maxImageDim
// preserving aspect ratio, re-encodes as JPEG and persists it under a
// collision-resistant name.
type ImageService struct {
	store  ports.ImageStore
	logger zerolog.Logger
}

func NewImageService(store ports.ImageStore, logger zerolog.Logger) *ImageService {
	return &ImageService{store: store, logger: logger}
}

// Ingest runs the pipeline and returns the stored filename. Decode, resize
// and write failures surface as *domain.ProcessingError; the store
// guarantees no partial file survives a failed write.
func (s *ImageService) Ingest(ctx context.Context, r io.Reader, originalFilename string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalFilename), "."))
	if _, ok := allowedImageExts[ext]; !ok {
		return "", domain.ErrUnsupportedType
	}

	img, err := imaging.Decode(r)
	if err != nil {
		return "", &domain.ProcessingError{Op: "decode image", Err: err}
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxImageDim || bounds.Dy() > maxImageDim {
		img = imaging.Fit(img, maxImageDim, maxImageDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return "", &domain.ProcessingError{Op: "encode image", Err: err}
	}

	name, err := storedName(originalFilename)
	if err != nil {
		return "", &domain.ProcessingError{Op: "name image", Err: err}
	}

	if err := s.store.Save(ctx, name, &buf); err != nil {
		return "", &domain.ProcessingError{Op: "store image", Err: err}
	}

	s.logger.Info().
		Str("filename", name).
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Msg("image ingested")

	return name, nil
}

// storedName builds "<8 random bytes hex>_<sanitized stem>.jpg". The random
// prefix makes collisions with existing files implausible.
func storedName(original string) (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	base := filepath.Base(original)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = sanitizeFilename(stem)
	if stem == "" {
		stem = "image"
	}

	return hex.EncodeToString(buf) + "_" + stem + ".jpg", nil
}

// sanitizeFilename keeps only characters safe for a flat file store.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "._")
}

package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/Michelc16/catalogo-online/internal/core/domain"
	"github.com/rs/zerolog"
)

// encodePNG renders a width x height gradient so the resize path has real
// pixel data to work with.
func encodePNG(t *testing.T, width, height int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return &buf
}

func decodeStored(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("stored file is not a valid JPEG: %v", err)
	}
	return img
}

func TestIngestResizesOversizedImage(t *testing.T) {
	store := newMemImageStore()
	svc := NewImageService(store, zerolog.Nop())

	name, err := svc.Ingest(context.Background(), encodePNG(t, 1600, 1200), "vacation photo.png")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if !strings.HasSuffix(name, "_vacation_photo.jpg") {
		t.Errorf("stored name = %q", name)
	}

	stored := decodeStored(t, store.saved[name])
	bounds := stored.Bounds()
	if bounds.Dx() != 800 || bounds.Dy() != 600 {
		t.Errorf("resized to %dx%d, want 800x600", bounds.Dx(), bounds.Dy())
	}
}

func TestIngestKeepsSmallImage(t *testing.T) {
	store := newMemImageStore()
	svc := NewImageService(store, zerolog.Nop())

	name, err := svc.Ingest(context.Background(), encodePNG(t, 320, 240), "icon.png")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	stored := decodeStored(t, store.saved[name])
	bounds := stored.Bounds()
	if bounds.Dx() != 320 || bounds.Dy() != 240 {
		t.Errorf("small image rescaled to %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestIngestTallImagePreservesAspect(t *testing.T) {
	store := newMemImageStore()
	svc := NewImageService(store, zerolog.Nop())

	name, err := svc.Ingest(context.Background(), encodePNG(t, 600, 2400), "banner.png")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	stored := decodeStored(t, store.saved[name])
	bounds := stored.Bounds()
	if bounds.Dy() != 800 || bounds.Dx() != 200 {
		t.Errorf("resized to %dx%d, want 200x800", bounds.Dx(), bounds.Dy())
	}
}

func TestIngestUniqueNames(t *testing.T) {
	store := newMemImageStore()
	svc := NewImageService(store, zerolog.Nop())
	ctx := context.Background()

	first, err := svc.Ingest(ctx, encodePNG(t, 10, 10), "same.png")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	second, err := svc.Ingest(ctx, encodePNG(t, 10, 10), "same.png")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if first == second {
		t.Error("two uploads of the same filename must not collide")
	}
}

func TestIngestRejectsUnsupportedType(t *testing.T) {
	svc := NewImageService(newMemImageStore(), zerolog.Nop())

	for _, filename := range []string{"report.pdf", "archive.zip", "noextension", "script.png.exe"} {
		_, err := svc.Ingest(context.Background(), strings.NewReader("irrelevant"), filename)
		if !errors.Is(err, domain.ErrUnsupportedType) {
			t.Errorf("%s: want ErrUnsupportedType, got %v", filename, err)
		}
	}
}

func TestIngestRejectsCorruptImage(t *testing.T) {
	svc := NewImageService(newMemImageStore(), zerolog.Nop())

	_, err := svc.Ingest(context.Background(), strings.NewReader("this is not a png"), "fake.png")
	var perr *domain.ProcessingError
	if !errors.As(err, &perr) {
		t.Fatalf("want ProcessingError, got %v", err)
	}
}

func TestIngestSurfacesStoreFailure(t *testing.T) {
	store := newMemImageStore()
	store.failAll = true
	svc := NewImageService(store, zerolog.Nop())

	_, err := svc.Ingest(context.Background(), encodePNG(t, 10, 10), "photo.png")
	var perr *domain.ProcessingError
	if !errors.As(err, &perr) {
		t.Fatalf("want ProcessingError, got %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct{ in, want string }{
		{"plain", "plain"},
		{"with space", "with_space"},
		{"über café", "ber_caf"},
		{"..dots..", "dots"},
		{"///", ""},
	}
	for _, tc := range cases {
		if got := sanitizeFilename(tc.in); got != tc.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

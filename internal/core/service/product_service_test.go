package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Michelc16/catalogo-online/internal/core/domain"
	"github.com/Michelc16/catalogo-online/internal/core/ports"
	"github.com/rs/zerolog"
)

func newProductFixture() (*ProductService, *memProductRepo, *memImageStore, *memCategoryCache) {
	repo := newMemProductRepo()
	images := newMemImageStore()
	cache := &memCategoryCache{}
	return NewProductService(repo, images, cache, zerolog.Nop()), repo, images, cache
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func TestCreateProductNormalizes(t *testing.T) {
	svc, _, _, _ := newProductFixture()

	created, err := svc.Create(context.Background(), ports.ProductInput{
		Name:     "  Widget  ",
		Price:    9.99,
		Category: " tools ",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Error("created product should carry a repository ID")
	}
	if created.Name != "Widget" || created.Category != "tools" {
		t.Errorf("fields not trimmed: %q / %q", created.Name, created.Category)
	}
}

func TestCreateProductCollectsViolations(t *testing.T) {
	svc, _, _, _ := newProductFixture()

	_, err := svc.Create(context.Background(), ports.ProductInput{
		Name:  "   ",
		Price: -3,
	})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if len(verr.Fields) != 2 {
		t.Fatalf("want name and price violations together, got %v", verr.Fields)
	}
	joined := strings.Join(verr.Fields, "; ")
	if !strings.Contains(joined, "name") || !strings.Contains(joined, "price") {
		t.Errorf("violations should name both fields: %q", joined)
	}
}

func TestCreateProductLengthBounds(t *testing.T) {
	svc, _, _, _ := newProductFixture()

	_, err := svc.Create(context.Background(), ports.ProductInput{
		Name:     strings.Repeat("x", domain.NameMaxLen+1),
		Price:    1,
		Category: strings.Repeat("y", domain.CategoryMaxLen+1),
	})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if len(verr.Fields) != 2 {
		t.Errorf("want both length violations, got %v", verr.Fields)
	}
}

func TestUpdateProductPatch(t *testing.T) {
	svc, _, _, _ := newProductFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, ports.ProductInput{
		Name: "Widget", Description: "round", Price: 5, Category: "tools",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, created.ID, ports.ProductPatch{Price: floatPtr(7.5)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Price != 7.5 {
		t.Errorf("price = %v, want 7.5", updated.Price)
	}
	if updated.Name != "Widget" || updated.Description != "round" || updated.Category != "tools" {
		t.Error("fields absent from the patch must keep their stored values")
	}
}

func TestUpdateProductValidatesResult(t *testing.T) {
	svc, _, _, _ := newProductFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, ports.ProductInput{Name: "Widget", Price: 5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Update(ctx, created.ID, ports.ProductPatch{Name: strPtr("  ")})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("blanking the name should fail validation, got %v", err)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Widget" {
		t.Error("failed update must not persist")
	}
}

func TestUpdateUnknownProduct(t *testing.T) {
	svc, _, _, _ := newProductFixture()

	_, err := svc.Update(context.Background(), "missing", ports.ProductPatch{Price: floatPtr(1)})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("want ErrProductNotFound, got %v", err)
	}
}

func TestDeleteRemovesOwnedImage(t *testing.T) {
	svc, _, images, _ := newProductFixture()
	ctx := context.Background()

	owned, err := svc.Create(ctx, ports.ProductInput{
		Name: "Widget", Price: 5, ImageURL: "abc123_widget.jpg",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	external, err := svc.Create(ctx, ports.ProductInput{
		Name: "Gadget", Price: 5, ImageURL: "https://cdn.example.com/gadget.jpg",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, owned.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(images.removed) != 1 || images.removed[0] != "abc123_widget.jpg" {
		t.Errorf("owned image not removed: %v", images.removed)
	}

	if err := svc.Delete(ctx, external.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(images.removed) != 1 {
		t.Error("external image URLs must never be removed")
	}
}

func TestCategoriesCached(t *testing.T) {
	svc, _, _, cache := newProductFixture()
	ctx := context.Background()

	if _, err := svc.Create(ctx, ports.ProductInput{Name: "A", Price: 1, Category: "tools"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, ports.ProductInput{Name: "B", Price: 1, Category: "toys"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := svc.Categories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("categories = %v", first)
	}
	if cache.sets != 1 {
		t.Errorf("first read should populate the cache, sets = %d", cache.sets)
	}

	if _, err := svc.Categories(ctx); err != nil {
		t.Fatalf("categories: %v", err)
	}
	if cache.hits != 1 {
		t.Errorf("second read should hit the cache, hits = %d", cache.hits)
	}

	// A mutation drops the cached list.
	if _, err := svc.Create(ctx, ports.ProductInput{Name: "C", Price: 1, Category: "tools"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if cache.present {
		t.Error("create should invalidate the category cache")
	}
}

func TestCategoriesWithoutCache(t *testing.T) {
	repo := newMemProductRepo()
	svc := NewProductService(repo, nil, nil, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Create(ctx, ports.ProductInput{Name: "A", Price: 1, Category: "tools"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := svc.Categories(ctx)
	if err != nil {
		t.Fatalf("categories without cache: %v", err)
	}
	if len(got) != 1 || got[0] != "tools" {
		t.Errorf("categories = %v", got)
	}
}

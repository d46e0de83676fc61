package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// NameMaxLen bounds the product name after trimming.
	NameMaxLen = 100
	// CategoryMaxLen bounds the optional category.
	CategoryMaxLen = 50
)

// Product is a catalog item. ImageURL is either an external URL or the
// filename of an image owned by the upload pipeline.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Normalize trims all free-text fields in place. Whitespace-only optional
// fields collapse to the empty string.
func (p *Product) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.Category = strings.TrimSpace(p.Category)
	p.ImageURL = strings.TrimSpace(p.ImageURL)
}

// Validate checks all field constraints and returns a *ValidationError
// carrying every violation, not just the first. The product must be
// normalized first.
func (p *Product) Validate() error {
	var fields []string

	if p.Name == "" {
		fields = append(fields, "name is required")
	} else if utf8.RuneCountInString(p.Name) > NameMaxLen {
		fields = append(fields, fmt.Sprintf("name must be at most %d characters", NameMaxLen))
	}

	// NaN and +Inf compare false against <= 0; non-finite prices are never
	// valid.
	if p.Price <= 0 || math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
		fields = append(fields, "price must be a positive number")
	}

	if utf8.RuneCountInString(p.Category) > CategoryMaxLen {
		fields = append(fields, fmt.Sprintf("category must be at most %d characters", CategoryMaxLen))
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// OwnsImage reports whether the product references an internally stored
// image file rather than an external URL.
func (p *Product) OwnsImage() bool {
	if p.ImageURL == "" {
		return false
	}
	return !strings.HasPrefix(p.ImageURL, "http://") && !strings.HasPrefix(p.ImageURL, "https://")
}

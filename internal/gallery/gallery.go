package gallery

import (
	"context"
	"errors"
	"strings"

	"github.com/sparkle-learn/platform/internal/backend"
)

// MediaType narrows a gallery listing.
type MediaType string

const (
	TypeAll   MediaType = "all"
	TypeImage MediaType = "image"
	TypeVideo MediaType = "video"
)

// ParseType maps a query value to a MediaType, defaulting to TypeAll.
func ParseType(value string) MediaType {
	switch MediaType(strings.ToLower(strings.TrimSpace(value))) {
	case TypeImage:
		return TypeImage
	case TypeVideo:
		return TypeVideo
	default:
		return TypeAll
	}
}

// Filter selects gallery items.
type Filter struct {
	Type         MediaType
	FeaturedOnly bool
}

// Source provides gallery items without surfacing backend failures.
type Source interface {
	FetchGallery(ctx context.Context) []backend.GalleryItem
}

// Service lists gallery media.
type Service struct {
	source Source
}

// NewService constructs a gallery Service.
func NewService(source Source) (*Service, error) {
	if source == nil {
		return nil, errors.New("gallery: source is required")
	}
	return &Service{source: source}, nil
}

// List returns items matching f in backend order. Never nil.
func (s *Service) List(ctx context.Context, f Filter) []backend.GalleryItem {
	items := s.source.FetchGallery(ctx)
	out := make([]backend.GalleryItem, 0, len(items))
	for _, item := range items {
		if f.FeaturedOnly && !item.IsFeatured {
			continue
		}
		if f.Type != "" && f.Type != TypeAll && MediaType(strings.ToLower(item.MediaType)) != f.Type {
			continue
		}
		out = append(out, item)
	}
	return out
}

package gallery

import (
	"context"
	"testing"

	"github.com/sparkle-learn/platform/internal/backend"
)

type staticSource []backend.GalleryItem

func (s staticSource) FetchGallery(context.Context) []backend.GalleryItem { return s }

func TestListFilters(t *testing.T) {
	src := staticSource{
		{ID: "1", MediaType: "image", IsFeatured: true},
		{ID: "2", MediaType: "video"},
		{ID: "3", MediaType: "Image"},
		{ID: "4", MediaType: "video", IsFeatured: true},
	}
	svc, err := NewService(src)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "all", filter: Filter{Type: TypeAll}, want: []string{"1", "2", "3", "4"}},
		{name: "zero value", filter: Filter{}, want: []string{"1", "2", "3", "4"}},
		{name: "images", filter: Filter{Type: TypeImage}, want: []string{"1", "3"}},
		{name: "videos", filter: Filter{Type: TypeVideo}, want: []string{"2", "4"}},
		{name: "featured", filter: Filter{FeaturedOnly: true}, want: []string{"1", "4"}},
		{name: "featured videos", filter: Filter{Type: TypeVideo, FeaturedOnly: true}, want: []string{"4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.List(context.Background(), tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d items, want %d", len(got), len(tt.want))
			}
			for i, item := range got {
				if item.ID != tt.want[i] {
					t.Fatalf("item %d = %s, want %s", i, item.ID, tt.want[i])
				}
			}
		})
	}
}

func TestListEmptySourceIsNotNil(t *testing.T) {
	svc, _ := NewService(staticSource(nil))
	if got := svc.List(context.Background(), Filter{}); got == nil {
		t.Fatal("expected empty slice")
	}
}

func TestParseType(t *testing.T) {
	cases := map[string]MediaType{"": TypeAll, "IMAGE": TypeImage, " video ": TypeVideo, "gif": TypeAll}
	for in, want := range cases {
		if got := ParseType(in); got != want {
			t.Errorf("ParseType(%q) = %q, want %q", in, got, want)
		}
	}
}

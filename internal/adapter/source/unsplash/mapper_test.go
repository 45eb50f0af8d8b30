package unsplash

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mmcdole/pixgrid/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestMapPhotos(t *testing.T) {
	photos := []Photo{
		{
			ID:             "a",
			Width:          1200,
			Height:         800,
			Color:          "#262626",
			Likes:          3,
			Description:    strPtr("Foggy pier"),
			AltDescription: strPtr("a pier in fog"),
			User:           User{Username: "ana", Name: "Ana Lima"},
			URLs:           PhotoURLs{Small: "s-a", Regular: "r-a", Thumb: "t-a"},
			Links:          PhotoLinks{HTML: "https://unsplash.com/photos/a"},
		},
		{ID: "", URLs: PhotoURLs{Small: "s-x"}},
		{ID: "no-urls"},
		{ID: "b", URLs: PhotoURLs{Regular: "r-b"}},
	}

	want := []domain.Image{
		{
			ID:             "a",
			Description:    "Foggy pier",
			AltDescription: "a pier in fog",
			Author:         "Ana Lima",
			AuthorUsername: "ana",
			Width:          1200,
			Height:         800,
			Color:          "#262626",
			Likes:          3,
			HTMLLink:       "https://unsplash.com/photos/a",
			URLs:           domain.ImageURLs{Small: "s-a", Regular: "r-a", Thumb: "t-a"},
		},
		{ID: "b", URLs: domain.ImageURLs{Regular: "r-b"}},
	}

	if diff := cmp.Diff(want, MapPhotos(photos)); diff != "" {
		t.Errorf("MapPhotos() mismatch (-want +got):\n%s", diff)
	}
}

func TestMapPhotosEmpty(t *testing.T) {
	got := MapPhotos(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("MapPhotos(nil) = %#v, want empty non-nil slice", got)
	}
}

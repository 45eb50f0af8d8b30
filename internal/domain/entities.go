package domain

import (
	"fmt"
	"strings"
)

// ImageURLs holds the size variants the search API returns for a photo
type ImageURLs struct {
	Raw     string `json:"raw"`
	Full    string `json:"full"`
	Regular string `json:"regular"` // full-resolution variant used for preview/share/download
	Small   string `json:"small"`   // grid preview variant
	Thumb   string `json:"thumb"`
}

// Image represents a single search result. Immutable once fetched.
type Image struct {
	ID             string    `json:"id"`
	Description    string    `json:"description,omitempty"`
	AltDescription string    `json:"alt_description,omitempty"`
	Author         string    `json:"author,omitempty"`
	AuthorUsername string    `json:"author_username,omitempty"`
	Width          int       `json:"width,omitempty"`
	Height         int       `json:"height,omitempty"`
	Color          string    `json:"color,omitempty"` // dominant colour, "#RRGGBB"
	Likes          int       `json:"likes,omitempty"`
	HTMLLink       string    `json:"html_link,omitempty"`
	URLs           ImageURLs `json:"urls"`
}

// PreviewURL returns the small variant, falling back to the thumbnail
func (i Image) PreviewURL() string {
	if i.URLs.Small != "" {
		return i.URLs.Small
	}
	return i.URLs.Thumb
}

// FullURL returns the full-resolution variant shown in the preview modal
func (i Image) FullURL() string {
	if i.URLs.Regular != "" {
		return i.URLs.Regular
	}
	return i.URLs.Full
}

// Title returns a human-readable caption for list rendering
func (i Image) Title() string {
	for _, s := range []string{i.Description, i.AltDescription} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return "Untitled"
}

// FilterValue returns the text matched by the local result filter
func (i Image) FilterValue() string {
	return i.Title() + " " + i.Author
}

// Dimensions returns "W×H" or empty when unknown
func (i Image) Dimensions() string {
	if i.Width <= 0 || i.Height <= 0 {
		return ""
	}
	return fmt.Sprintf("%d×%d", i.Width, i.Height)
}

// AspectRatio returns width/height, or 1 when unknown
func (i Image) AspectRatio() float64 {
	if i.Width <= 0 || i.Height <= 0 {
		return 1
	}
	return float64(i.Width) / float64(i.Height)
}

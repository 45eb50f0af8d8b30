package unsplash

import "github.com/mmcdole/pixgrid/internal/domain"

// MapPhotos converts Unsplash photos to domain images, preserving order.
// Photos without an ID or a usable URL are dropped.
func MapPhotos(photos []Photo) []domain.Image {
	images := make([]domain.Image, 0, len(photos))
	for _, p := range photos {
		if p.ID == "" || (p.URLs.Small == "" && p.URLs.Regular == "") {
			continue
		}
		images = append(images, MapPhoto(p))
	}
	return images
}

// MapPhoto converts a single Unsplash photo to a domain image
func MapPhoto(p Photo) domain.Image {
	return domain.Image{
		ID:             p.ID,
		Description:    deref(p.Description),
		AltDescription: deref(p.AltDescription),
		Author:         p.User.Name,
		AuthorUsername: p.User.Username,
		Width:          p.Width,
		Height:         p.Height,
		Color:          p.Color,
		Likes:          p.Likes,
		HTMLLink:       p.Links.HTML,
		URLs: domain.ImageURLs{
			Raw:     p.URLs.Raw,
			Full:    p.URLs.Full,
			Regular: p.URLs.Regular,
			Small:   p.URLs.Small,
			Thumb:   p.URLs.Thumb,
		},
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Package preview renders remote images as terminal half-block art.
package preview

import (
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	defaultTimeout = 20 * time.Second
	maxImageBytes  = 20 << 20

	// maxCachedPreviews bounds the memoised renders; the oldest is evicted first
	maxCachedPreviews = 16

	// upperHalf paints the top pixel as foreground and the bottom as background
	upperHalf = "▀"
	reset     = "\x1b[0m"
)

// Renderer fetches images and converts them to ANSI half-block text.
// The most recent renders are memoised per URL and size.
type Renderer struct {
	httpClient *http.Client
	logger     *slog.Logger

	mu    sync.Mutex
	cache map[string]string
	order []string // cache keys, oldest first
}

// NewRenderer creates a Renderer with its own HTTP client
func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
		cache:      make(map[string]string),
	}
}

// Render downloads url and returns it scaled to fit cols x rows terminal cells
func (r *Renderer) Render(ctx context.Context, url string, cols, rows int) (string, error) {
	if cols <= 0 || rows <= 0 {
		return "", fmt.Errorf("invalid preview size %dx%d", cols, rows)
	}

	key := fmt.Sprintf("%s|%dx%d", url, cols, rows)
	r.mu.Lock()
	if out, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return out, nil
	}
	r.mu.Unlock()

	img, err := r.fetch(ctx, url)
	if err != nil {
		return "", err
	}

	out := RenderImage(img, cols, rows)

	r.remember(key, out)

	r.logger.Debug("preview rendered", "url", url, "cols", cols, "rows", rows)
	return out, nil
}

// remember stores a render, evicting the oldest once the cache is full
func (r *Renderer) remember(key, out string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cache[key]; !ok {
		r.order = append(r.order, key)
	}
	r.cache[key] = out
	for len(r.order) > maxCachedPreviews {
		delete(r.cache, r.order[0])
		r.order = r.order[1:]
	}
}

// cached returns the number of memoised renders
func (r *Renderer) cached() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}

func (r *Renderer) fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// RenderImage scales img to fit cols x rows cells and encodes it with one
// half-block per cell, so each cell carries two vertically stacked pixels.
func RenderImage(img image.Image, cols, rows int) string {
	bounds := img.Bounds()
	if bounds.Empty() || cols <= 0 || rows <= 0 {
		return ""
	}

	w, h := fitDimensions(bounds.Dx(), bounds.Dy(), cols, rows*2)
	if h%2 == 1 {
		h++
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == bounds.Dx() && h == bounds.Dy() {
		draw.Copy(dst, image.Point{}, img, bounds, draw.Src, nil)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	}

	var b strings.Builder
	b.Grow(w * h / 2 * 40)
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			top := dst.RGBAAt(x, y)
			bottom := dst.RGBAAt(x, y+1)
			b.WriteString(cell(top, bottom))
		}
		b.WriteString(reset)
		if y+2 < h {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func cell(top, bottom color.RGBA) string {
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%s",
		top.R, top.G, top.B, bottom.R, bottom.G, bottom.B, upperHalf)
}

// fitDimensions scales origW x origH to fit maxW x maxH keeping the aspect
// ratio. Images are scaled up as well as down.
func fitDimensions(origW, origH, maxW, maxH int) (int, int) {
	ratio := math.Min(float64(maxW)/float64(origW), float64(maxH)/float64(origH))

	newW := int(math.Round(float64(origW) * ratio))
	newH := int(math.Round(float64(origH) * ratio))
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	return newW, newH
}

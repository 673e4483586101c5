package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/fractal"
)

// Largest export size accepted by ParseResolution.
const (
	MaxWidth  = 15360
	MaxHeight = 8640
)

// Resolution is an export size in pixels.
type Resolution struct {
	Name          string
	Width, Height int
}

// Presets are the named export resolutions.
var Presets = []Resolution{
	{Name: "fhd", Width: 1920, Height: 1080},
	{Name: "2k", Width: 2560, Height: 1440},
	{Name: "4k", Width: 3840, Height: 2160},
	{Name: "8k", Width: 7680, Height: 4320},
}

// String returns "WxH".
func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Validate checks that the size is positive and within MaxWidth by
// MaxHeight.
func (r Resolution) Validate() error {
	if r.Width <= 0 || r.Height <= 0 || r.Width > MaxWidth || r.Height > MaxHeight {
		return fmt.Errorf("%w: %s (limit %dx%d)", ErrResolution, r, MaxWidth, MaxHeight)
	}
	return nil
}

// ParseResolution accepts a preset name ("fhd", "2k", "4k", "8k", also
// "1080p" and "full-hd") or an explicit "WxH" size.
func ParseResolution(s string) (Resolution, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "1080p", "full-hd", "fullhd":
		name = "fhd"
	case "1440p":
		name = "2k"
	case "2160p", "uhd":
		name = "4k"
	case "4320p":
		name = "8k"
	}
	for _, p := range Presets {
		if p.Name == name {
			return p, nil
		}
	}

	w, h, ok := strings.Cut(name, "x")
	if !ok {
		return Resolution{}, fmt.Errorf("%w: %q", ErrResolution, s)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: %q", ErrResolution, s)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: %q", ErrResolution, s)
	}

	r := Resolution{Name: "custom", Width: width, Height: height}
	if err := r.Validate(); err != nil {
		return Resolution{}, err
	}
	return r, nil
}

// Frame resizes v to r while keeping the visible region of the plane.
// The zoom is scaled by the smaller of the two axis ratios, so the new
// frame shows at least everything the old one did.
func Frame(v fractal.Viewport, r Resolution) fractal.Viewport {
	sx := float64(r.Width) / float64(v.Width)
	sy := float64(r.Height) / float64(v.Height)
	out := v.Resize(r.Width, r.Height)
	out.Zoom = v.Zoom * min(sx, sy)
	return out
}

package timeline

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/nextcore/choreo/pkg/transition"
)

// Color is stored as ARGB (0xAARRGGBB).
type Color uint32

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: uint8(c >> 24)}.RGBA()
}

// Chart palette.
const (
	Background Color = 0xFF101418
	Grid       Color = 0xFF2A3038
	Label      Color = 0xFFD8DEE9
	Entering   Color = 0xFFE5B84B
	Entered    Color = 0xFF4CC38A
	Exiting    Color = 0xFFE5534B
	Exited     Color = 0xFF4B5563
	Committed  Color = 0xFF4FA3F7
)

// ChartOptions sizes the chart.
type ChartOptions struct {
	// Scale is pixels per millisecond. Zero means 0.5.
	Scale float64
	// RowHeight is the height of one source row. Zero means 18.
	RowHeight int
	// End is where the time axis stops. Zero means the last entry.
	End time.Duration
}

const (
	labelWidth = 140
	margin     = 8
)

// Chart draws each status source as a row of coloured spans, with a tick
// every 100ms and a vertical line at each committed navigation.
func (r *Recorder) Chart(opts ChartOptions) *image.RGBA {
	if opts.Scale <= 0 {
		opts.Scale = 0.5
	}
	if opts.RowHeight <= 0 {
		opts.RowHeight = 18
	}
	end := opts.End
	if end <= 0 && len(r.entries) > 0 {
		end = r.entries[len(r.entries)-1].At
	}

	sources := r.Sources()
	x := func(d time.Duration) int {
		return labelWidth + int(float64(d.Milliseconds())*opts.Scale)
	}
	width := x(end) + margin
	height := margin*2 + max(len(sources), 1)*opts.RowHeight
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fill(img, img.Bounds(), Background)

	for t := time.Duration(0); t <= end; t += 100 * time.Millisecond {
		fill(img, image.Rect(x(t), margin, x(t)+1, height-margin), Grid)
	}

	row := make(map[string]int, len(sources))
	face := basicfont.Face7x13
	for i, src := range sources {
		row[src] = i
		baseline := margin + i*opts.RowHeight + (opts.RowHeight+face.Ascent)/2
		drawLabel(img, face, src, margin, baseline)
	}

	for _, s := range r.Spans(end) {
		c, ok := spanColor(s.Status)
		if !ok {
			continue
		}
		top := margin + row[s.Source]*opts.RowHeight + 3
		rect := image.Rect(x(s.From), top, max(x(s.To), x(s.From)+1), top+opts.RowHeight-6)
		fill(img, rect, c)
	}

	for _, e := range r.entries {
		if e.Kind == KindNavigation && e.Source == "committed" {
			fill(img, image.Rect(x(e.At), margin, x(e.At)+2, height-margin), Committed)
		}
	}
	return img
}

// WritePNG encodes the chart as PNG.
func (r *Recorder) WritePNG(w io.Writer, opts ChartOptions) error {
	return png.Encode(w, r.Chart(opts))
}

func spanColor(s transition.Status) (Color, bool) {
	switch s {
	case transition.Entering:
		return Entering, true
	case transition.Entered:
		return Entered, true
	case transition.Exiting:
		return Exiting, true
	case transition.Exited:
		return Exited, true
	default:
		return 0, false
	}
}

func fill(img draw.Image, rect image.Rectangle, c Color) {
	draw.Draw(img, rect, image.NewUniform(c), image.Point{}, draw.Src)
}

func drawLabel(img draw.Image, face font.Face, label string, x, baseline int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(Label),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	// Clip long names to the label column.
	for len(label) > 1 && d.MeasureString(label).Ceil() > labelWidth-2*margin {
		label = label[:len(label)-1]
	}
	d.DrawString(label)
}

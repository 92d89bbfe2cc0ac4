// Package preview rasterizes 2-D chart descriptions into PNG thumbnails.
//
// The preview is a quick look for terminals and uploads, not a plotting
// surface: it draws line, marker and bar traces with axes, ticks, a title
// and a legend. Contour, surface and 3-D traces are left to a real
// renderer.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/spektr-org/mathviz/engine"
)

// Errors returned by RenderPNG.
var (
	ErrThreeD        = errors.New("preview: 3-D charts are not rasterized")
	ErrNothingToDraw = errors.New("preview: chart has no drawable points")
)

// Default canvas size.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Plot-area margins in pixels.
const (
	marginLeft   = 64
	marginRight  = 24
	marginTop    = 36
	marginBottom = 44

	tickCount = 5
)

var (
	background = color.RGBA{255, 255, 255, 255}
	frameColor = color.RGBA{120, 120, 120, 255}
	gridColor  = color.RGBA{230, 230, 230, 255}
	zeroColor  = color.RGBA{170, 170, 170, 255}
	textColor  = color.RGBA{30, 30, 30, 255}
)

// Option configures RenderPNG.
type Option func(*options)

type options struct {
	width, height int
}

// WithSize sets the canvas size. Values below 100 are ignored.
func WithSize(width, height int) Option {
	return func(o *options) {
		if width >= 100 {
			o.width = width
		}
		if height >= 100 {
			o.height = height
		}
	}
}

// RenderPNG draws c and returns the encoded PNG.
func RenderPNG(c *engine.ChartDescription, opts ...Option) ([]byte, error) {
	o := options{width: DefaultWidth, height: DefaultHeight}
	for _, opt := range opts {
		opt(&o)
	}
	if c == nil {
		return nil, ErrNothingToDraw
	}
	if c.ThreeD {
		return nil, ErrThreeD
	}

	vp, ok := fitViewport(c, o.width, o.height)
	if !ok {
		return nil, ErrNothingToDraw
	}

	img := image.NewRGBA(image.Rect(0, 0, o.width, o.height))
	draw.Draw(img, img.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)
	cv := &canvas{img: img, vp: vp}

	cv.drawAxes(c)
	for _, t := range c.Traces {
		cv.drawTrace(t)
	}
	cv.drawTitle(c.Title)
	if c.ShowLegend {
		cv.drawLegend(c.Traces)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}
	return buf.Bytes(), nil
}

// ============================================================================
// VIEWPORT
// ============================================================================

// viewport maps data coordinates onto the plot area.
type viewport struct {
	xMin, xMax, yMin, yMax float64
	left, top, right, bot  int
}

func (v viewport) px(x float64) int {
	return v.left + int(math.Round((x-v.xMin)/(v.xMax-v.xMin)*float64(v.right-v.left)))
}

func (v viewport) py(y float64) int {
	return v.bot - int(math.Round((y-v.yMin)/(v.yMax-v.yMin)*float64(v.bot-v.top)))
}

// drawable reports whether the preview draws t.
func drawable(t engine.Trace) bool {
	switch t.Kind {
	case engine.KindScatter, engine.KindBar, "":
		return len(t.XGrid) == 0 && len(t.ZGrid) == 0
	}
	return false
}

// fitViewport bounds the drawable points of c with 5% padding.
func fitViewport(c *engine.ChartDescription, width, height int) (viewport, bool) {
	xMin, yMin := math.Inf(1), math.Inf(1)
	xMax, yMax := math.Inf(-1), math.Inf(-1)
	for _, t := range c.Traces {
		if !drawable(t) {
			continue
		}
		for i := 0; i < len(t.X) && i < len(t.Y); i++ {
			x, y := t.X[i], t.Y[i]
			if !finite(x) || !finite(y) {
				continue
			}
			xMin, xMax = math.Min(xMin, x), math.Max(xMax, x)
			yMin, yMax = math.Min(yMin, y), math.Max(yMax, y)
		}
		if t.Kind == engine.KindBar || t.Fill == "tozeroy" {
			yMin, yMax = math.Min(yMin, 0), math.Max(yMax, 0)
		}
	}
	if math.IsInf(xMin, 1) {
		return viewport{}, false
	}

	xMin, xMax = pad(xMin, xMax)
	yMin, yMax = pad(yMin, yMax)

	vp := viewport{
		left:  marginLeft,
		top:   marginTop,
		right: width - marginRight,
		bot:   height - marginBottom,
	}
	if c.EqualAspect {
		// Widen whichever range has fewer units per pixel.
		xScale := (xMax - xMin) / float64(vp.right-vp.left)
		yScale := (yMax - yMin) / float64(vp.bot-vp.top)
		if xScale > yScale {
			mid, half := (yMin+yMax)/2, xScale*float64(vp.bot-vp.top)/2
			yMin, yMax = mid-half, mid+half
		} else {
			mid, half := (xMin+xMax)/2, yScale*float64(vp.right-vp.left)/2
			xMin, xMax = mid-half, mid+half
		}
	}
	vp.xMin, vp.xMax, vp.yMin, vp.yMax = xMin, xMax, yMin, yMax
	return vp, true
}

func pad(lo, hi float64) (float64, float64) {
	if hi-lo < 1e-12 {
		return lo - 1, hi + 1
	}
	m := (hi - lo) * 0.05
	return lo - m, hi + m
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ============================================================================
// CANVAS
// ============================================================================

type canvas struct {
	img *image.RGBA
	vp  viewport
}

func (cv *canvas) inPlot(x, y int) bool {
	return x >= cv.vp.left && x <= cv.vp.right && y >= cv.vp.top && y <= cv.vp.bot
}

// dot paints a size×size square centered on (x, y), clipped to the plot.
func (cv *canvas) dot(x, y, size int, col color.Color) {
	r := size / 2
	for dy := -r; dy <= size-1-r; dy++ {
		for dx := -r; dx <= size-1-r; dx++ {
			if cv.inPlot(x+dx, y+dy) {
				cv.img.Set(x+dx, y+dy, col)
			}
		}
	}
}

// line draws a Bresenham segment with the given stroke width.
func (cv *canvas) line(x0, y0, x1, y1, width int, col color.Color) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		cv.dot(x0, y0, width, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// fill blends col over the plot-clipped rectangle.
func (cv *canvas) fill(r image.Rectangle, col color.Color) {
	plot := image.Rect(cv.vp.left, cv.vp.top, cv.vp.right+1, cv.vp.bot+1)
	draw.Draw(cv.img, r.Canon().Intersect(plot), &image.Uniform{col}, image.Point{}, draw.Over)
}

// text draws s with its baseline at (x, y).
func (cv *canvas) text(x, y int, s string, col color.Color) {
	d := &font.Drawer{
		Dst:  cv.img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(s)
}

func textWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

// ============================================================================
// LAYERS
// ============================================================================

func (cv *canvas) drawAxes(c *engine.ChartDescription) {
	vp := cv.vp
	for i := 0; i <= tickCount; i++ {
		fx := vp.xMin + (vp.xMax-vp.xMin)*float64(i)/tickCount
		fy := vp.yMin + (vp.yMax-vp.yMin)*float64(i)/tickCount
		x, y := vp.px(fx), vp.py(fy)

		cv.line(x, vp.top, x, vp.bot, 1, gridColor)
		cv.line(vp.left, y, vp.right, y, 1, gridColor)

		xl := engine.FormatFixed(fx, 2)
		cv.text(x-textWidth(xl)/2, vp.bot+16, xl, textColor)
		yl := engine.FormatFixed(fy, 2)
		cv.text(vp.left-6-textWidth(yl), y+4, yl, textColor)
	}

	if vp.xMin < 0 && vp.xMax > 0 {
		x := vp.px(0)
		cv.line(x, vp.top, x, vp.bot, 1, zeroColor)
	}
	if vp.yMin < 0 && vp.yMax > 0 {
		y := vp.py(0)
		cv.line(vp.left, y, vp.right, y, 1, zeroColor)
	}

	cv.line(vp.left, vp.top, vp.right, vp.top, 1, frameColor)
	cv.line(vp.left, vp.bot, vp.right, vp.bot, 1, frameColor)
	cv.line(vp.left, vp.top, vp.left, vp.bot, 1, frameColor)
	cv.line(vp.right, vp.top, vp.right, vp.bot, 1, frameColor)

	if c.XAxis != "" {
		mid := (vp.left + vp.right) / 2
		cv.text(mid-textWidth(c.XAxis)/2, vp.bot+34, c.XAxis, textColor)
	}
	if c.YAxis != "" {
		cv.text(4, vp.top-6, c.YAxis, textColor)
	}
}

func (cv *canvas) drawTrace(t engine.Trace) {
	if !drawable(t) {
		return
	}
	col := ParseColor(t.Color)
	if t.Opacity > 0 && t.Opacity < 1 {
		col.A = uint8(float64(col.A) * t.Opacity)
	}

	if t.Kind == engine.KindBar {
		cv.drawBars(t, col)
		return
	}

	if t.Fill == "tozeroy" {
		fillCol := col
		fillCol.A = 80
		if t.FillColor != "" {
			fillCol = ParseColor(t.FillColor)
		}
		cv.drawArea(t, fillCol)
	}

	lines := t.Mode == "" || t.Mode == engine.ModeLines || t.Mode == engine.ModeLinesMarkers
	markers := t.Mode == engine.ModeMarkers || t.Mode == engine.ModeLinesMarkers || t.Mode == engine.ModeMarkersText

	if lines {
		width := int(math.Max(1, math.Round(t.Width)))
		if width > 4 {
			width = 4
		}
		cv.drawPolyline(t, width, col)
	}
	if markers {
		size := int(math.Round(t.MarkerSize / 2))
		size = max(3, min(size, 9))
		for i := 0; i < len(t.X) && i < len(t.Y); i++ {
			if !finite(t.X[i]) || !finite(t.Y[i]) {
				continue
			}
			x, y := cv.vp.px(t.X[i]), cv.vp.py(t.Y[i])
			cv.dot(x, y, size, col)
			if t.Mode == engine.ModeMarkersText && i < len(t.Text) {
				cv.text(x+size, y-size, t.Text[i], textColor)
			}
		}
	}
}

// drawPolyline connects consecutive finite points; a NaN breaks the line.
func (cv *canvas) drawPolyline(t engine.Trace, width int, col color.Color) {
	dashed := t.Dash != ""
	havePrev := false
	var px, py int
	for i := 0; i < len(t.X) && i < len(t.Y); i++ {
		if !finite(t.X[i]) || !finite(t.Y[i]) {
			havePrev = false
			continue
		}
		x, y := cv.vp.px(t.X[i]), cv.vp.py(t.Y[i])
		if havePrev {
			if dashed {
				cv.dashedLine(px, py, x, y, width, col)
			} else {
				cv.line(px, py, x, y, width, col)
			}
		}
		px, py, havePrev = x, y, true
	}
	if havePrev && !cv.anySegment(t) {
		cv.dot(px, py, width+2, col)
	}
}

// anySegment reports whether t has two consecutive finite points.
func (cv *canvas) anySegment(t engine.Trace) bool {
	for i := 1; i < len(t.X) && i < len(t.Y); i++ {
		if finite(t.X[i]) && finite(t.Y[i]) && finite(t.X[i-1]) && finite(t.Y[i-1]) {
			return true
		}
	}
	return false
}

// dashedLine alternates 6px strokes and 4px gaps.
func (cv *canvas) dashedLine(x0, y0, x1, y1, width int, col color.Color) {
	n := int(math.Hypot(float64(x1-x0), float64(y1-y0)))
	if n == 0 {
		cv.dot(x0, y0, width, col)
		return
	}
	for s := 0; s < n; s += 10 {
		e := min(s+6, n)
		ax := x0 + (x1-x0)*s/n
		ay := y0 + (y1-y0)*s/n
		bx := x0 + (x1-x0)*e/n
		by := y0 + (y1-y0)*e/n
		cv.line(ax, ay, bx, by, width, col)
	}
}

// drawArea shades between each segment and y = 0.
func (cv *canvas) drawArea(t engine.Trace, col color.Color) {
	zero := cv.vp.py(0)
	for i := 1; i < len(t.X) && i < len(t.Y); i++ {
		if !finite(t.X[i-1]) || !finite(t.Y[i-1]) || !finite(t.X[i]) || !finite(t.Y[i]) {
			continue
		}
		x0, x1 := cv.vp.px(t.X[i-1]), cv.vp.px(t.X[i])
		if x1 < x0 {
			x0, x1 = x1, x0
		}
		for x := x0; x < x1; x++ {
			// Linear interpolation of y across the segment.
			f := float64(x-x0) / float64(x1-x0)
			y := cv.vp.py(t.Y[i-1] + (t.Y[i]-t.Y[i-1])*f)
			cv.fill(image.Rect(x, y, x+1, zero), col)
		}
	}
}

func (cv *canvas) drawBars(t engine.Trace, col color.NRGBA) {
	n := min(len(t.X), len(t.Y))
	if n == 0 {
		return
	}
	// Bar width is 80% of the closest spacing between x values.
	spacing := math.Inf(1)
	for i := 1; i < n; i++ {
		if d := abs(cv.vp.px(t.X[i]) - cv.vp.px(t.X[i-1])); d > 0 {
			spacing = math.Min(spacing, float64(d))
		}
	}
	if math.IsInf(spacing, 1) {
		spacing = float64(cv.vp.right-cv.vp.left) / 10
	}
	half := max(1, int(spacing*0.4))
	zero := cv.vp.py(0)
	for i := 0; i < n; i++ {
		if !finite(t.X[i]) || !finite(t.Y[i]) {
			continue
		}
		x, y := cv.vp.px(t.X[i]), cv.vp.py(t.Y[i])
		cv.fill(image.Rect(x-half, y, x+half, zero), col)
	}
}

func (cv *canvas) drawTitle(title string) {
	if title == "" {
		return
	}
	mid := (cv.vp.left + cv.vp.right) / 2
	cv.text(mid-textWidth(title)/2, 22, title, textColor)
}

// drawLegend lists named traces in the top-right corner of the plot.
func (cv *canvas) drawLegend(traces []engine.Trace) {
	type entry struct {
		name string
		col  color.NRGBA
	}
	var entries []entry
	widest := 0
	for _, t := range traces {
		if t.Name == "" || t.HideLegend || !drawable(t) {
			continue
		}
		entries = append(entries, entry{t.Name, ParseColor(t.Color)})
		widest = max(widest, textWidth(t.Name))
	}
	if len(entries) == 0 {
		return
	}

	const rowHeight, swatch = 16, 10
	w := swatch + 8 + widest + 12
	h := len(entries)*rowHeight + 8
	x0 := cv.vp.right - w - 8
	y0 := cv.vp.top + 8
	cv.fill(image.Rect(x0, y0, x0+w, y0+h), color.NRGBA{255, 255, 255, 220})
	cv.line(x0, y0, x0+w, y0, 1, gridColor)
	cv.line(x0, y0+h, x0+w, y0+h, 1, gridColor)

	for i, e := range entries {
		y := y0 + 6 + i*rowHeight
		cv.fill(image.Rect(x0+6, y, x0+6+swatch, y+swatch), e.col)
		cv.text(x0+6+swatch+6, y+swatch, e.name, textColor)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Package canvas provides the frame view: a zoomable, scrollable image that
// reports left clicks in frame pixel coordinates.
package canvas

import (
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25

	// fitMargin leaves a little space around a fitted frame.
	fitMargin = 0.98
)

// ImageCanvas displays one frame with zoom and fit-to-window.
type ImageCanvas struct {
	widget.BaseWidget

	frame image.Image

	// origin is where frame pixel (0, 0) of the editable area sits inside
	// the displayed image, e.g. below a header bar.
	origin image.Point

	raster *fynecanvas.Raster
	zoom   float64

	scroll  *zoomScroll
	content *clickableContent
	imgSize fyne.Size

	fitToWindow    bool
	lastScrollSize fyne.Size

	onZoomChange func(zoom float64)
	onLeftClick  func(x, y float64)
}

// zoomScroll is a widget that wraps a scroll container but intercepts wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *ImageCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *ImageCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		zs.canvas.SetFitToWindow(false)
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.SetFitToWindow(false)
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// Offset returns the scroll container's current offset.
func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

// Size returns the scroll container's size.
func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
	zs.canvas.CheckResize(size)
}

// clickableContent wraps the raster to receive taps.
type clickableContent struct {
	widget.BaseWidget
	canvas *ImageCanvas
	raster *fynecanvas.Raster
}

func newClickableContent(ic *ImageCanvas, raster *fynecanvas.Raster) *clickableContent {
	cc := &clickableContent{canvas: ic, raster: raster}
	cc.ExtendBaseWidget(cc)
	return cc
}

func (cc *clickableContent) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(cc.raster)
}

func (cc *clickableContent) MinSize() fyne.Size {
	return cc.raster.MinSize()
}

// Tapped handles left-click events.
func (cc *clickableContent) Tapped(ev *fyne.PointEvent) {
	if cc.canvas.onLeftClick == nil {
		return
	}
	// Fyne can deliver taps slightly outside the widget; drop them.
	size := cc.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}
	x, y, ok := cc.canvas.ToFrame(ev.Position)
	if !ok {
		return
	}
	cc.canvas.onLeftClick(x, y)
}

// NewImageCanvas creates an empty canvas.
func NewImageCanvas() *ImageCanvas {
	ic := &ImageCanvas{
		zoom:    1.0,
		imgSize: fyne.NewSize(400, 300),
	}

	ic.raster = fynecanvas.NewRaster(ic.draw)
	ic.raster.ScaleMode = fynecanvas.ImageScalePixels
	ic.raster.SetMinSize(ic.imgSize)

	ic.content = newClickableContent(ic, ic.raster)
	ic.scroll = newZoomScroll(ic.content, ic)
	ic.ExtendBaseWidget(ic)
	return ic
}

func (ic *ImageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(ic.scroll)
}

// SetImage replaces the displayed frame. origin is the position of the
// editable frame's top-left pixel inside img.
func (ic *ImageCanvas) SetImage(img image.Image, origin image.Point) {
	ic.frame = img
	ic.origin = origin
	ic.updateContentSize()
	if ic.fitToWindow {
		ic.FitToWindow()
	}
}

// Image returns the displayed frame.
func (ic *ImageCanvas) Image() image.Image {
	return ic.frame
}

// ToFrame converts a position on the content widget to frame pixels.
// ok is false for positions above or left of the editable area.
func (ic *ImageCanvas) ToFrame(pos fyne.Position) (x, y float64, ok bool) {
	return toFrame(pos, ic.zoom, ic.origin)
}

// toFrame undoes the zoom and removes the origin. Content-widget positions
// already include the scroll offset.
func toFrame(pos fyne.Position, zoom float64, origin image.Point) (x, y float64, ok bool) {
	if zoom <= 0 {
		return 0, 0, false
	}
	x = float64(pos.X)/zoom - float64(origin.X)
	y = float64(pos.Y)/zoom - float64(origin.Y)
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	return x, y, true
}

// SetZoom sets the zoom level.
func (ic *ImageCanvas) SetZoom(zoom float64) {
	ic.zoom = clampZoom(zoom)
	ic.updateContentSize()
	if ic.onZoomChange != nil {
		ic.onZoomChange(ic.zoom)
	}
}

func clampZoom(zoom float64) float64 {
	return max(minZoom, min(maxZoom, zoom))
}

// Zoom returns the current zoom level.
func (ic *ImageCanvas) Zoom() float64 {
	return ic.zoom
}

// ZoomIn increases the zoom level.
func (ic *ImageCanvas) ZoomIn() {
	ic.SetZoom(ic.zoom * zoomStep)
}

// ZoomOut decreases the zoom level.
func (ic *ImageCanvas) ZoomOut() {
	ic.SetZoom(ic.zoom / zoomStep)
}

// FitToWindow adjusts zoom so the whole frame is visible.
func (ic *ImageCanvas) FitToWindow() {
	if ic.frame == nil {
		return
	}
	zoom, ok := fitZoom(ic.frame.Bounds().Size(), ic.scroll.Size())
	if !ok {
		return
	}
	ic.SetZoom(zoom)
}

// fitZoom returns the zoom that fits an image of size img inside view.
func fitZoom(img image.Point, view fyne.Size) (float64, bool) {
	if img.X <= 0 || img.Y <= 0 || view.Width <= 0 || view.Height <= 0 {
		return 0, false
	}
	zoomX := float64(view.Width) / float64(img.X)
	zoomY := float64(view.Height) / float64(img.Y)
	return min(zoomX, zoomY) * fitMargin, true
}

// SetFitToWindow enables or disables auto-fit on resize.
func (ic *ImageCanvas) SetFitToWindow(fit bool) {
	ic.fitToWindow = fit
	if fit {
		ic.FitToWindow()
	}
}

// FitsToWindow reports whether auto-fit is on.
func (ic *ImageCanvas) FitsToWindow() bool {
	return ic.fitToWindow
}

// CheckResize refits the frame when the viewport size changed.
func (ic *ImageCanvas) CheckResize(size fyne.Size) {
	if !ic.fitToWindow {
		return
	}
	if size.Width > 0 && size.Height > 0 && size != ic.lastScrollSize {
		ic.lastScrollSize = size
		ic.FitToWindow()
	}
}

// OnZoomChange sets a callback for zoom changes.
func (ic *ImageCanvas) OnZoomChange(callback func(zoom float64)) {
	ic.onZoomChange = callback
}

// OnLeftClick sets a callback for left-click events.
// Coordinates are frame pixels, excluding the origin offset.
func (ic *ImageCanvas) OnLeftClick(callback func(x, y float64)) {
	ic.onLeftClick = callback
}

// Refresh redraws the frame.
func (ic *ImageCanvas) Refresh() {
	ic.raster.Refresh()
}

func (ic *ImageCanvas) updateContentSize() {
	if ic.frame == nil {
		ic.imgSize = fyne.NewSize(400, 300)
	} else {
		b := ic.frame.Bounds()
		ic.imgSize = fyne.NewSize(float32(float64(b.Dx())*ic.zoom), float32(float64(b.Dy())*ic.zoom))
	}

	ic.raster.SetMinSize(ic.imgSize)
	ic.raster.Resize(ic.imgSize)
	if ic.content != nil {
		ic.content.Resize(ic.imgSize)
		ic.content.Refresh()
	}
	ic.raster.Refresh()
	if ic.scroll != nil {
		ic.scroll.Refresh()
	}
}

// draw is the raster drawing function. The raster is always sized to the
// zoomed frame, so the frame is scaled to fill it.
func (ic *ImageCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(output.Pix); i += 4 {
		output.Pix[i] = 255
	}
	if ic.frame == nil || w <= 0 || h <= 0 {
		return output
	}
	xdraw.NearestNeighbor.Scale(output, output.Bounds(), ic.frame, ic.frame.Bounds(), xdraw.Src, nil)
	return output
}

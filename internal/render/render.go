// Package render composes the presenter view: slide, annotations and a
// camera thumbnail.
package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/annotation"
)

// Style holds the fixed drawing constants.
type Style struct {
	StrokeColor     color.RGBA
	StrokeThickness int
	CursorColor     color.RGBA
	CursorRadius    int
	ThumbWidth      int
	ThumbHeight     int
	GuideColor      color.RGBA
	GuideThickness  int
	GuideY          int
}

// DefaultStyle returns the presenter look: dark red ink, a red cursor and a
// 213x120 camera thumbnail.
func DefaultStyle() Style {
	return Style{
		StrokeColor:     color.RGBA{R: 200, A: 255},
		StrokeThickness: 12,
		CursorColor:     color.RGBA{R: 255, A: 255},
		CursorRadius:    12,
		ThumbWidth:      213,
		ThumbHeight:     120,
		GuideColor:      color.RGBA{G: 255, A: 255},
		GuideThickness:  10,
		GuideY:          300,
	}
}

// Renderer draws frames with a fixed style. It holds no per-frame state.
type Renderer struct {
	style Style
}

// New returns a Renderer. Non-positive sizes fall back to the defaults.
func New(style Style) *Renderer {
	def := DefaultStyle()
	if style.StrokeThickness <= 0 {
		style.StrokeThickness = def.StrokeThickness
	}
	if style.CursorRadius <= 0 {
		style.CursorRadius = def.CursorRadius
	}
	if style.ThumbWidth <= 0 || style.ThumbHeight <= 0 {
		style.ThumbWidth, style.ThumbHeight = def.ThumbWidth, def.ThumbHeight
	}
	if style.GuideThickness <= 0 {
		style.GuideThickness = def.GuideThickness
	}
	return &Renderer{style: style}
}

// Style returns the renderer's style.
func (r *Renderer) Style() Style {
	return r.style
}

// Compose returns a new Mat with the track drawn over a copy of slide and a
// thumbnail of camera in the top-right corner. Neither input is modified.
// The caller owns the result.
func (r *Renderer) Compose(slide gocv.Mat, track *annotation.Track, camera gocv.Mat) gocv.Mat {
	out := slide.Clone()

	if track != nil {
		r.drawTrack(&out, track)
	}
	r.pasteThumbnail(&out, camera)

	return out
}

func (r *Renderer) drawTrack(out *gocv.Mat, track *annotation.Track) {
	for _, stroke := range track.Strokes() {
		for j := 1; j < len(stroke); j++ {
			gocv.Line(out, stroke[j-1], stroke[j], r.style.StrokeColor, r.style.StrokeThickness)
		}
	}

	if p, ok := track.Cursor(); ok {
		gocv.Circle(out, p, r.style.CursorRadius, r.style.CursorColor, -1)
	}
}

// pasteThumbnail copies a resized camera frame into the top-right corner.
// It does nothing when the slide is smaller than the thumbnail.
func (r *Renderer) pasteThumbnail(out *gocv.Mat, camera gocv.Mat) {
	ws, hs := r.style.ThumbWidth, r.style.ThumbHeight
	w, h := out.Cols(), out.Rows()
	if camera.Empty() || w < ws || h < hs {
		return
	}

	small := gocv.NewMat()
	defer small.Close()
	gocv.Resize(camera, &small, image.Pt(ws, hs), 0, 0, gocv.InterpolationLinear)

	if small.Type() != out.Type() {
		converted := gocv.NewMat()
		defer converted.Close()
		if !convertChannels(small, &converted, out.Channels()) {
			return
		}
		small, converted = converted, small
	}

	region := out.Region(image.Rect(w-ws, 0, w, hs))
	defer region.Close()
	small.CopyTo(&region)
}

// convertChannels converts src to the given channel count.
func convertChannels(src gocv.Mat, dst *gocv.Mat, channels int) bool {
	switch {
	case src.Channels() == 1 && channels == 3:
		gocv.CvtColor(src, dst, gocv.ColorGrayToBGR)
	case src.Channels() == 3 && channels == 1:
		gocv.CvtColor(src, dst, gocv.ColorBGRToGray)
	case src.Channels() == 4 && channels == 3:
		gocv.CvtColor(src, dst, gocv.ColorBGRAToBGR)
	case src.Channels() == 3 && channels == 4:
		gocv.CvtColor(src, dst, gocv.ColorBGRToBGRA)
	default:
		return false
	}
	return true
}

// Guide draws the horizontal gesture guide onto the camera view in place.
func (r *Renderer) Guide(camera *gocv.Mat) {
	if camera == nil || camera.Empty() || r.style.GuideY <= 0 || r.style.GuideY >= camera.Rows() {
		return
	}
	gocv.Line(camera,
		image.Pt(0, r.style.GuideY),
		image.Pt(camera.Cols(), r.style.GuideY),
		r.style.GuideColor, r.style.GuideThickness)
}

// Package banner paints the startup splash that greets spectators before
// any client has written a pixel: a rounded badge naming the server and its
// canvas dimensions, rendered with a 2D drawing context and blitted into the
// canvas the same way a real client's SetPixel stream would.
package banner

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/itepastra/flurry/canvas"
)

// fontSize is chosen so the dimensions line fits comfortably on the
// smallest canvas this server is likely to be configured with.
const fontSize = 16.0

// Paint draws a centered rounded badge reading "flurry WxH" into dst. It is
// called once at startup, before the Acceptor begins accepting connections,
// so the MJPEG stream never opens on a blank gray frame.
func Paint(dst *canvas.Canvas) error {
	w, h := dst.Dimensions()
	dc := gg.NewContext(w, h)

	dc.SetRGB(0.1, 0.1, 0.12)
	dc.Clear()

	face, err := loadFace(fontSize)
	if err != nil {
		return fmt.Errorf("banner: loading font: %w", err)
	}
	dc.SetFontFace(face)

	text := fmt.Sprintf("flurry %dx%d", w, h)
	tw, th := dc.MeasureString(text)

	padding := 8.0
	bx := float64(w)/2 - tw/2 - padding
	by := float64(h)/2 - th/2 - padding
	bw := tw + padding*2
	bh := th + padding*2

	dc.SetRGB(0.85, 0.85, 0.9)
	dc.DrawRoundedRectangle(bx, by, bw, bh, 10)
	dc.Fill()

	dc.SetRGB(0.1, 0.1, 0.12)
	dc.DrawStringAnchored(text, float64(w)/2, float64(h)/2, 0.5, 0.35)

	return dst.Draw(dst.Bounds(), dc.Image(), image.Point{})
}

func loadFace(size float64) (font.Face, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: size}), nil
}

package viz

import (
	"image"
	"image/color"
	"image/gif"
	"os"
)

const (
	cellW, cellH = 8, 16
	gifDelay     = 2 // hundredths of a second
)

// Recorder collects canvas frames and writes them as an animated GIF.
type Recorder struct {
	Path   string
	frames []*image.Paletted
}

func NewRecorder(path string) *Recorder {
	return &Recorder{Path: path}
}

func (r *Recorder) Frames() int { return len(r.frames) }

// Capture rasterises the canvas, one block per Braille dot.
func (r *Recorder) Capture(c *Canvas) {
	img := image.NewPaletted(image.Rect(0, 0, c.Width*cellW, c.Height*cellH), color.Palette{color.Black, color.White})
	dotW, dotH := cellW/2, cellH/4
	for y := 0; y < c.SubHeight(); y++ {
		for x := 0; x < c.SubWidth(); x++ {
			if !c.Lit(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

func (r *Recorder) Save() error {
	if len(r.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, gifDelay)
	}
	f, err := os.Create(r.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}

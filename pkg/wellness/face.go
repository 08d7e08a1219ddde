package wellness

import (
	"image"
	"image/color"
	"math"
)

// Rect is a detector box in pixel coordinates.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

func (r Rect) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// Gray is an 8-bit grayscale region of a frame.
type Gray struct {
	W, H int
	Pix  []uint8
}

// NewGray converts the part of img covered by r to grayscale. The box is
// clipped to the image bounds; an empty intersection yields an empty region.
func NewGray(img image.Image, r Rect) *Gray {
	b := r.Bounds().Add(img.Bounds().Min).Intersect(img.Bounds())
	g := &Gray{W: b.Dx(), H: b.Dy()}
	if g.W <= 0 || g.H <= 0 {
		return &Gray{}
	}

	g.Pix = make([]uint8, g.W*g.H)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			c := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			g.Pix[y*g.W+x] = c.Y
		}
	}
	return g
}

func (g *Gray) Empty() bool {
	return g == nil || len(g.Pix) == 0
}

func (g *Gray) at(x, y int) float64 {
	return float64(g.Pix[y*g.W+x])
}

// Sub returns the region r relative to g, clipped to g.
func (g *Gray) Sub(r Rect) *Gray {
	if g.Empty() {
		return &Gray{}
	}
	b := r.Bounds().Intersect(image.Rect(0, 0, g.W, g.H))
	if b.Empty() {
		return &Gray{}
	}

	out := &Gray{W: b.Dx(), H: b.Dy(), Pix: make([]uint8, b.Dx()*b.Dy())}
	for y := 0; y < out.H; y++ {
		copy(out.Pix[y*out.W:(y+1)*out.W], g.Pix[(b.Min.Y+y)*g.W+b.Min.X:(b.Min.Y+y)*g.W+b.Max.X])
	}
	return out
}

func (g *Gray) Mean() float64 {
	if g.Empty() {
		return 0
	}
	var sum float64
	for _, p := range g.Pix {
		sum += float64(p)
	}
	return sum / float64(len(g.Pix))
}

// Std is the population standard deviation of pixel intensity.
func (g *Gray) Std() float64 {
	if g.Empty() {
		return 0
	}
	m := g.Mean()
	var sum float64
	for _, p := range g.Pix {
		d := float64(p) - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(g.Pix)))
}

// gradient returns the Sobel magnitude for every pixel; border pixels are zero.
func (g *Gray) gradient() []float64 {
	mag := make([]float64, len(g.Pix))
	for y := 1; y < g.H-1; y++ {
		for x := 1; x < g.W-1; x++ {
			gx := -g.at(x-1, y-1) - 2*g.at(x-1, y) - g.at(x-1, y+1) +
				g.at(x+1, y-1) + 2*g.at(x+1, y) + g.at(x+1, y+1)
			gy := -g.at(x-1, y-1) - 2*g.at(x, y-1) - g.at(x+1, y-1) +
				g.at(x-1, y+1) + 2*g.at(x, y+1) + g.at(x+1, y+1)
			mag[y*g.W+x] = math.Hypot(gx, gy)
		}
	}
	return mag
}

// EdgeDensity is the share of pixels marked as edges by a two-threshold
// hysteresis on the gradient magnitude: strong pixels (>= high) always count,
// weak pixels (>= low) count when an 8-neighbour is strong.
func (g *Gray) EdgeDensity(low, high float64) float64 {
	if g.Empty() {
		return 0
	}

	mag := g.gradient()
	edges := 0
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			m := mag[y*g.W+x]
			if m >= high {
				edges++
				continue
			}
			if m >= low && g.hasStrongNeighbour(mag, x, y, high) {
				edges++
			}
		}
	}
	return float64(edges) / float64(len(g.Pix))
}

func (g *Gray) hasStrongNeighbour(mag []float64, x, y int, high float64) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx < 0 || ny < 0 || nx >= g.W || ny >= g.H {
				continue
			}
			if mag[ny*g.W+nx] >= high {
				return true
			}
		}
	}
	return false
}

// Asymmetry compares the left half with the mirrored right half and returns
// the mean absolute difference scaled to [0,1].
func (g *Gray) Asymmetry() float64 {
	if g.Empty() || g.W < 2 {
		return 0
	}

	half := g.W / 2
	right := g.W - half
	width := half
	if right < width {
		width = right
	}

	var sum float64
	for y := 0; y < g.H; y++ {
		for x := 0; x < width; x++ {
			l := g.at(x, y)
			r := g.at(g.W-1-x, y)
			sum += math.Abs(l - r)
		}
	}
	return sum / float64(width*g.H) / 255.0
}

package dashboard

import (
	"fmt"
	"math/rand/v2"
)

// Star is one decorative background star
type Star struct {
	Left  float64 `json:"left"`  // percent of page width
	Top   float64 `json:"top"`   // percent of page height
	Size  float64 `json:"size"`  // pixels
	Delay float64 `json:"delay"` // twinkle animation delay in seconds
}

// Style renders the star's inline CSS
func (s Star) Style() string {
	return fmt.Sprintf("left: %.2f%%; top: %.2f%%; width: %.2fpx; height: %.2fpx; animation-delay: %.2fs;",
		s.Left, s.Top, s.Size, s.Size, s.Delay)
}

// Stars generates the starfield. With a fixed seed the field is identical on
// every call.
func (b *Builder) Stars() []Star {
	seed := b.opts.StarSeed
	if seed == 0 {
		seed = uint64(b.now().UnixNano())
	}
	return GenerateStars(b.opts.StarCount, seed)
}

// GenerateStars places n stars using a PCG source seeded with seed
func GenerateStars(n int, seed uint64) []Star {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	stars := make([]Star, n)
	for i := range stars {
		stars[i] = Star{
			Left:  r.Float64() * 100,
			Top:   r.Float64() * 100,
			Size:  r.Float64() * 2,
			Delay: r.Float64() * 3,
		}
	}
	return stars
}

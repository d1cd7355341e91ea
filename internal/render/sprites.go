package render

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"strings"
	"sync"

	nchess "github.com/corentings/chess/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/park285/Cheese-PositionSetup/internal/position"
)

//go:embed assets/pieces/*.svg
var pieceFiles embed.FS

// spriteSet is every piece rasterized at one square size.
type spriteSet struct {
	once    sync.Once
	sprites map[nchess.Piece]*image.RGBA
	err     error
}

// sets maps square size to *spriteSet. RenderPNG only asks for sizes from
// snapSize, so each renderer adds at most four entries.
var sets sync.Map

func spritesFor(size int) (map[nchess.Piece]*image.RGBA, error) {
	v, _ := sets.LoadOrStore(size, &spriteSet{})
	set := v.(*spriteSet)
	set.once.Do(func() {
		set.sprites, set.err = rasterizeAll(size)
	})
	return set.sprites, set.err
}

func rasterizeAll(size int) (map[nchess.Piece]*image.RGBA, error) {
	out := make(map[nchess.Piece]*image.RGBA, len(symbolPieces))
	for sym, piece := range symbolPieces {
		img, err := rasterizeSVG(assetPath(sym), size)
		if err != nil {
			return nil, err
		}
		out[piece] = img
	}
	return out, nil
}

// assetPath names the SVG for a symbol: side letter then the upper-case piece letter.
func assetPath(sym position.Symbol) string {
	side := "b"
	if sym.IsWhite() {
		side = "w"
	}
	return "assets/pieces/" + side + strings.ToUpper(sym.String()) + ".svg"
}

func rasterizeSVG(name string, size int) (*image.RGBA, error) {
	data, err := pieceFiles.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read piece asset %s: %w", name, err)
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse piece svg %s: %w", name, err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1.0)
	return img, nil
}

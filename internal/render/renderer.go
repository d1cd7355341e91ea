// Package render draws a position as a PNG board preview.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strings"

	nchess "github.com/corentings/chess/v2"
	"github.com/park285/Cheese-PositionSetup/internal/position"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	DefaultSquareSize = 64
	MinSquareSize     = 16
	MaxSquareSize     = 256
)

// Options tweak a single render.
type Options struct {
	SquareSize int
	// Highlight marks one square, usually the last edited one. Row 0 is rank 8.
	Highlight *[2]int
	// Flip draws rank 1 at the top.
	Flip bool
	// HideHUD skips the side-to-move/FEN strip above the board.
	HideHUD bool
}

type BoardRenderer interface {
	RenderPNG(ctx context.Context, pos *position.Position, opts Options) ([]byte, error)
}

type svgBoardRenderer struct {
	defaultSquare int
}

// NewSVGBoardRenderer returns a renderer whose default square size is squareSize.
func NewSVGBoardRenderer(squareSize int) BoardRenderer {
	if squareSize <= 0 {
		squareSize = DefaultSquareSize
	}
	return &svgBoardRenderer{defaultSquare: squareSize}
}

var (
	lightSquare         = color.RGBA{0xf0, 0xd9, 0xb5, 255}
	darkSquare          = color.RGBA{0xb5, 0x88, 0x63, 255}
	backgroundColor     = color.RGBA{24, 26, 38, 255}
	highlightColor      = color.NRGBA{R: 255, G: 228, B: 120, A: 140}
	hudPanelColor       = color.NRGBA{R: 28, G: 31, B: 46, A: 250}
	hudTextPrimary      = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	hudTextSecondary    = color.NRGBA{R: 204, G: 210, B: 236, A: 255}
	coordinateTextColor = color.NRGBA{R: 8, G: 214, B: 120, A: 255}
)

// Layout describes where things land in the output image.
type Layout struct {
	SquareSize int
	Margin     int
	HUDHeight  int
	Board      image.Rectangle
	Total      image.Rectangle
}

func layoutFor(squareSize int, hud bool) Layout {
	margin := squareSize / 2
	if margin < 14 {
		margin = 14
	}
	hudHeight := 0
	if hud {
		hudHeight = 2*fontFace().Metrics().Height.Ceil() + 16
	}
	boardSize := squareSize * position.Size
	origin := image.Pt(margin, margin+hudHeight)
	return Layout{
		SquareSize: squareSize,
		Margin:     margin,
		HUDHeight:  hudHeight,
		Board:      image.Rectangle{Min: origin, Max: origin.Add(image.Pt(boardSize, boardSize))},
		Total:      image.Rect(0, 0, boardSize+2*margin, boardSize+2*margin+hudHeight),
	}
}

// LayoutFor exposes the geometry used for a given option set.
func LayoutFor(opts Options) Layout {
	size := opts.SquareSize
	if size <= 0 {
		size = DefaultSquareSize
	}
	return layoutFor(size, !opts.HideHUD)
}

func (r *svgBoardRenderer) RenderPNG(ctx context.Context, pos *position.Position, opts Options) ([]byte, error) {
	if pos == nil {
		return nil, errors.New("position is nil")
	}
	opts.SquareSize = snapSize(opts.SquareSize, r.defaultSquare)
	lay := layoutFor(opts.SquareSize, !opts.HideHUD)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	img := image.NewRGBA(lay.Total)
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)

	board := toBoard(pos)
	drawSquares(img, lay, opts.Flip)
	if h := opts.Highlight; h != nil && h[0] >= 0 && h[0] < position.Size && h[1] >= 0 && h[1] < position.Size {
		drawSquareOverlay(img, cellRect(lay, h[0], h[1], opts.Flip), highlightColor)
	}
	if err := drawPieces(img, board, lay, opts.Flip); err != nil {
		return nil, err
	}
	drawCoordinates(img, lay, opts.Flip)
	if !opts.HideHUD {
		drawHUD(img, lay, pos)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// cellRect returns the screen rectangle of model cell (row, col).
func cellRect(lay Layout, row, col int, flip bool) image.Rectangle {
	if flip {
		row, col = position.Size-1-row, position.Size-1-col
	}
	x := lay.Board.Min.X + col*lay.SquareSize
	y := lay.Board.Min.Y + row*lay.SquareSize
	return image.Rect(x, y, x+lay.SquareSize, y+lay.SquareSize)
}

func drawSquares(dst imagedraw.Image, lay Layout, flip bool) {
	for row := 0; row < position.Size; row++ {
		for col := 0; col < position.Size; col++ {
			clr := squareColor(squareOf(row, col))
			imagedraw.Draw(dst, cellRect(lay, row, col, flip), image.NewUniform(clr), image.Point{}, imagedraw.Src)
		}
	}
}

func drawPieces(dst imagedraw.Image, board *nchess.Board, lay Layout, flip bool) error {
	sprites, err := spritesFor(lay.SquareSize)
	if err != nil {
		return err
	}
	for row := 0; row < position.Size; row++ {
		for col := 0; col < position.Size; col++ {
			piece := board.Piece(squareOf(row, col))
			if piece == nchess.NoPiece {
				continue
			}
			imagedraw.Draw(dst, cellRect(lay, row, col, flip), sprites[piece], image.Point{}, imagedraw.Over)
		}
	}
	return nil
}

func drawSquareOverlay(img *image.RGBA, rect image.Rectangle, clr color.Color) {
	imagedraw.Draw(img, rect, image.NewUniform(clr), image.Point{}, imagedraw.Over)
}

func drawCoordinates(dst imagedraw.Image, lay Layout, flip bool) {
	face := fontFace()
	drawer := &font.Drawer{Dst: dst, Face: face, Src: image.NewUniform(coordinateTextColor)}
	ascent := face.Metrics().Ascent.Ceil()

	for i := 0; i < position.Size; i++ {
		rank := cellRect(lay, i, 0, flip)
		drawCenteredText(drawer, ranksTopDown[i].String(), lay.Board.Min.X-lay.Margin/2, rank.Min.Y+lay.SquareSize/2+ascent/2)

		file := cellRect(lay, 0, i, flip)
		drawCenteredText(drawer, filesLeftRight[i].String(), file.Min.X+lay.SquareSize/2, lay.Board.Max.Y+lay.Margin/2+ascent/2)
	}
}

func drawHUD(img *image.RGBA, lay Layout, pos *position.Position) {
	face := fontFace()
	panel := image.Rect(lay.Board.Min.X, lay.Margin/2, lay.Board.Max.X, lay.Margin/2+lay.HUDHeight)
	drawRoundedPanel(img, panel, 8, hudPanelColor)

	drawer := &font.Drawer{Dst: img, Face: face}
	lineHeight := face.Metrics().Height.Ceil()
	top := image.Rect(panel.Min.X, panel.Min.Y+4, panel.Max.X, panel.Min.Y+4+lineHeight)
	bottom := top.Add(image.Pt(0, lineHeight+6))

	turn := "White to move"
	if pos.SideToMove == position.Black {
		turn = "Black to move"
	}
	drawCenteredString(drawer, top, turn, hudTextPrimary)
	fen := truncateWithEllipsis(face, pos.FEN(), panel.Dx()-16)
	drawCenteredString(drawer, bottom, fen, hudTextSecondary)
}

func truncateWithEllipsis(face font.Face, text string, maxWidth int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || maxWidth <= 0 || face == nil {
		return trimmed
	}
	drawer := font.Drawer{Face: face}
	if drawer.MeasureString(trimmed).Round() <= maxWidth {
		return trimmed
	}
	ellipsis := "..."
	if drawer.MeasureString(ellipsis).Round() > maxWidth {
		return ""
	}
	runes := []rune(trimmed)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + ellipsis
		if drawer.MeasureString(candidate).Round() <= maxWidth {
			return candidate
		}
	}
	return ellipsis
}

func drawRoundedPanel(img *image.RGBA, rect image.Rectangle, radius int, clr color.Color) {
	if rect.Empty() {
		return
	}
	maxRadius := min(rect.Dx()/2, rect.Dy()/2)
	radius = max(0, min(radius, maxRadius))
	fill := image.NewUniform(clr)
	if radius == 0 {
		imagedraw.Draw(img, rect, fill, image.Point{}, imagedraw.Over)
		return
	}

	// 가운데 세로띠 + 좌우 띠, 모서리는 원으로 채움
	imagedraw.Draw(img, image.Rect(rect.Min.X+radius, rect.Min.Y, rect.Max.X-radius, rect.Max.Y), fill, image.Point{}, imagedraw.Over)
	imagedraw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y+radius, rect.Min.X+radius, rect.Max.Y-radius), fill, image.Point{}, imagedraw.Over)
	imagedraw.Draw(img, image.Rect(rect.Max.X-radius, rect.Min.Y+radius, rect.Max.X, rect.Max.Y-radius), fill, image.Point{}, imagedraw.Over)

	corners := []image.Point{
		{rect.Min.X + radius, rect.Min.Y + radius},
		{rect.Max.X - radius - 1, rect.Min.Y + radius},
		{rect.Min.X + radius, rect.Max.Y - radius - 1},
		{rect.Max.X - radius - 1, rect.Max.Y - radius - 1},
	}
	for _, center := range corners {
		drawQuarterDisc(img, center, radius, rect, clr)
	}
}

// drawQuarterDisc fills the part of the disc that lies outside the straight
// bands already painted, so corners are not blended twice.
func drawQuarterDisc(img *image.RGBA, center image.Point, radius int, rect image.Rectangle, clr color.Color) {
	inner := image.Rect(rect.Min.X+radius, rect.Min.Y, rect.Max.X-radius, rect.Max.Y)
	side := image.Rect(rect.Min.X, rect.Min.Y+radius, rect.Max.X, rect.Max.Y-radius)
	r2 := radius * radius
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y > r2 {
				continue
			}
			p := image.Pt(center.X+x, center.Y+y)
			if !p.In(rect) || p.In(inner) || p.In(side) {
				continue
			}
			blendPixel(img, p.X, p.Y, clr)
		}
	}
}

func blendPixel(img *image.RGBA, x, y int, clr color.Color) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}
	sr, sg, sb, sa := clr.RGBA()
	if sa == 0 {
		return
	}
	dst := img.RGBAAt(x, y)
	inv := 0xffff - sa
	// premultiplied source-over
	img.SetRGBA(x, y, color.RGBA{
		R: uint8((sr + uint32(dst.R)*0x101*inv/0xffff) >> 8),
		G: uint8((sg + uint32(dst.G)*0x101*inv/0xffff) >> 8),
		B: uint8((sb + uint32(dst.B)*0x101*inv/0xffff) >> 8),
		A: uint8((sa + uint32(dst.A)*0x101*inv/0xffff) >> 8),
	})
}

func drawCenteredString(drawer *font.Drawer, rect image.Rectangle, text string, clr color.Color) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	metrics := drawer.Face.Metrics()
	width := drawer.MeasureString(text).Round()
	x := max(rect.Min.X, rect.Min.X+(rect.Dx()-width)/2)
	baseline := rect.Min.Y + (rect.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawer.Src = image.NewUniform(clr)
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func drawCenteredText(drawer *font.Drawer, text string, centerX, baseline int) {
	if text == "" {
		return
	}
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}

func squareColor(sq nchess.Square) color.Color {
	if (int(sq.File())+int(sq.Rank()))%2 == 0 {
		return darkSquare
	}
	return lightSquare
}

func fontFace() font.Face { return basicfont.Face7x13 }

// snapSize maps a requested square size onto the few sizes a renderer serves:
// half, one, one and a half and two times base, clamped to the allowed range.
// Zero or negative requests get base.
func snapSize(requested, base int) int {
	base = clampSquare(base)
	if requested <= 0 {
		return base
	}
	best, bestDiff := base, -1
	for _, num := range []int{1, 2, 3, 4} {
		c := clampSquare(base * num / 2)
		d := c - requested
		if d < 0 {
			d = -d
		}
		if bestDiff < 0 || d < bestDiff {
			best, bestDiff = c, d
		}
	}
	return best
}

func clampSquare(n int) int {
	if n < MinSquareSize {
		return MinSquareSize
	}
	if n > MaxSquareSize {
		return MaxSquareSize
	}
	return n
}

package position

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidFEN = errors.New("invalid fen")

// FENError names the field that failed to decode.
type FENError struct {
	Field  string
	Reason string
}

func (e *FENError) Error() string {
	return fmt.Sprintf("invalid fen: %s: %s", e.Field, e.Reason)
}

func (e *FENError) Unwrap() error { return ErrInvalidFEN }

func fenErr(field, format string, args ...any) error {
	return &FENError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// FEN encodes the position. The result always decodes back to an equal position.
func (p *Position) FEN() string {
	var b strings.Builder
	b.Grow(90)
	for row := 0; row < Size; row++ {
		empty := 0
		for col := 0; col < Size; col++ {
			sym := p.SquareAt(row, col)
			if sym == Empty {
				empty++
				continue
			}
			if empty > 0 {
				b.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			b.WriteByte(byte(sym))
		}
		if empty > 0 {
			b.WriteString(strconv.Itoa(empty))
		}
		if row != Size-1 {
			b.WriteByte('/')
		}
	}

	b.WriteByte(' ')
	b.WriteString(p.SideToMove.Letter())
	b.WriteByte(' ')
	b.WriteString(p.Castling.String())
	b.WriteByte(' ')
	b.WriteString(p.EnPassant())
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(p.halfmove))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(p.Fullmove()))
	return b.String()
}

func (p *Position) String() string { return p.FEN() }

// Parse decodes a FEN string into a new position.
//
// Only syntax and structure are checked. Halfmove and fullmove fields may be
// omitted and default to 0 and 1. Unknown letters in the castling field are
// ignored.
func Parse(fen string) (*Position, error) {
	parts := splitFields(fen)
	if len(parts) < 4 {
		return nil, fenErr("fields", "expected at least 4 fields, got %d", len(parts))
	}

	next := NewEmpty()

	ranks := strings.Split(parts[0], "/")
	if len(ranks) != Size {
		return nil, fenErr("board", "expected %d ranks, got %d", Size, len(ranks))
	}
	for row, rank := range ranks {
		file := 0
		for i := 0; i < len(rank); i++ {
			ch := rank[i]
			switch {
			case ch >= '0' && ch <= '9':
				file += int(ch - '0')
			case IsValidSymbol(Symbol(ch)): // '.' counts as one empty file
				if file >= Size {
					return nil, fenErr("board", "rank %d overflows", Size-row)
				}
				next.board[row][file] = Symbol(ch)
				file++
			default:
				return nil, fenErr("board", "unexpected %q in rank %d", ch, Size-row)
			}
		}
		if file != Size {
			return nil, fenErr("board", "rank %d spans %d files", Size-row, file)
		}
	}

	switch parts[1] {
	case "w":
		next.SideToMove = White
	case "b":
		next.SideToMove = Black
	default:
		return nil, fenErr("side", "expected w or b, got %q", parts[1])
	}

	castling := parts[2]
	if castling != "-" {
		next.Castling = Castling{
			WhiteKingside:  strings.IndexByte(castling, 'K') >= 0,
			WhiteQueenside: strings.IndexByte(castling, 'Q') >= 0,
			BlackKingside:  strings.IndexByte(castling, 'k') >= 0,
			BlackQueenside: strings.IndexByte(castling, 'q') >= 0,
		}
	}

	ep := strings.ToLower(parts[3])
	switch {
	case ep == NoEnPassant:
		next.enPassant = NoEnPassant
	case IsValidEnPassant(ep):
		next.enPassant = ep
	default:
		return nil, fenErr("en passant", "bad square %q", parts[3])
	}

	if len(parts) >= 5 {
		n, err := strconv.Atoi(parts[4])
		if err != nil || n < 0 {
			return nil, fenErr("halfmove", "bad clock %q", parts[4])
		}
		next.halfmove = n
	}
	if len(parts) >= 6 {
		n, err := strconv.Atoi(parts[5])
		if err != nil || n < 1 {
			return nil, fenErr("fullmove", "bad number %q", parts[5])
		}
		next.fullmove = n
	}

	return next, nil
}

// splitFields trims surrounding whitespace and splits on single spaces,
// dropping empty parts. Tabs or newlines inside the string stay part of a field.
func splitFields(fen string) []string {
	raw := strings.Split(strings.TrimSpace(fen), " ")
	parts := raw[:0]
	for _, p := range raw {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// ApplyFEN replaces the whole position with the decoded fen. On error the
// receiver is left exactly as it was.
func (p *Position) ApplyFEN(fen string) error {
	next, err := Parse(fen)
	if err != nil {
		return err
	}
	*p = *next
	return nil
}

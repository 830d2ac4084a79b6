package model

import "fmt"

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// forward is the row delta of a pawn of this color.
func (c Color) forward() int {
	if c == White {
		return -1
	}
	return 1
}

func (c Color) backRank() int {
	if c == White {
		return 7
	}
	return 0
}

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

func (p PieceType) getPieceNotation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return ""
	}
	return ""
}

// Value is the material weight used by the evaluator. The king weight is a
// sentinel and plays no part in mate detection.
func (p PieceType) Value() int {
	switch p {
	case Pawn:
		return 100
	case Knight:
		return 320
	case Bishop:
		return 330
	case Rook:
		return 500
	case Queen:
		return 900
	case King:
		return 20000
	}
	return 0
}

// Piece is never mutated once placed; promotion swaps in a new value.
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) Valid() bool {
	return p.Row >= 0 && p.Row < 8 && p.Col >= 0 && p.Col < 8
}

func (p Position) offset(dRow, dCol int) Position {
	return Position{Row: p.Row + dRow, Col: p.Col + dCol}
}

// Notation renders the square in coordinate form, e.g. "e4".
func (p Position) Notation() string {
	return fmt.Sprintf("%c%d", p.Col+'a', 8-p.Row)
}

func (p Position) String() string {
	return p.Notation()
}

// ParseSquare is the inverse of Notation.
func ParseSquare(s string) (Position, error) {
	if len(s) != 2 {
		return Position{}, fmt.Errorf("invalid square %q", s)
	}
	pos := Position{Row: 8 - int(s[1]-'0'), Col: int(s[0] - 'a')}
	if s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' || !pos.Valid() {
		return Position{}, fmt.Errorf("invalid square %q", s)
	}
	return pos, nil
}

// Board is indexed [row][col] with row 0 holding rank 8. Assigning a Board
// copies it, which is all the king-safety probe needs for a scratch board.
type Board [8][8]*Piece

func (b *Board) At(pos Position) *Piece {
	if !pos.Valid() {
		return nil
	}
	return b[pos.Row][pos.Col]
}

func (b *Board) Set(pos Position, piece *Piece) {
	b[pos.Row][pos.Col] = piece
}

func (b *Board) FindKing(color Color) (Position, bool) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b[row][col]
			if p != nil && p.Type == King && p.Color == color {
				return Position{Row: row, Col: col}, true
			}
		}
	}
	return Position{}, false
}

// Material sums piece values, white minus black.
func (b *Board) Material() int {
	score := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b[row][col]
			if p == nil {
				continue
			}
			if p.Color == White {
				score += p.Type.Value()
			} else {
				score -= p.Type.Value()
			}
		}
	}
	return score
}

// Cells returns the board as nested slices for JSON snapshots.
func (b *Board) Cells() [][]*Piece {
	cells := make([][]*Piece, 8)
	for row := 0; row < 8; row++ {
		cells[row] = make([]*Piece, 8)
		copy(cells[row], b[row][:])
	}
	return cells
}

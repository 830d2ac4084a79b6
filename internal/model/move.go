package model

import "fmt"

type MoveKind string

const (
	Normal    MoveKind = "normal"
	EnPassant MoveKind = "enPassant"
	Castling  MoveKind = "castling"
)

type CastleSide string

const (
	Kingside  CastleSide = "kingside"
	Queenside CastleSide = "queenside"
)

// Move is a generated candidate. Castle is only set when Kind is Castling.
type Move struct {
	From   Position   `json:"from"`
	To     Position   `json:"to"`
	Kind   MoveKind   `json:"kind"`
	Castle CastleSide `json:"castle,omitempty"`
}

func (m Move) String() string {
	return fmt.Sprintf("%s-%s", m.From.Notation(), m.To.Notation())
}

type CastleRookMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// castleRookMove returns the rook relocation for a castling king on row.
func castleRookMove(row int, side CastleSide) CastleRookMove {
	if side == Kingside {
		return CastleRookMove{From: Position{Row: row, Col: 7}, To: Position{Row: row, Col: 5}}
	}
	return CastleRookMove{From: Position{Row: row, Col: 0}, To: Position{Row: row, Col: 3}}
}

// MoveRecord is a committed ply.
type MoveRecord struct {
	From           Position        `json:"from"`
	To             Position        `json:"to"`
	Piece          Piece           `json:"piece"`
	Captured       *Piece          `json:"captured"`
	Kind           MoveKind        `json:"kind"`
	Castle         CastleSide      `json:"castle,omitempty"`
	CastleRookMove *CastleRookMove `json:"castleRookMove,omitempty"`
	Promotion      PieceType       `json:"promotion,omitempty"`
	Notation       string          `json:"notation"`
}

// notation renders the simplified coordinate form: an optional piece letter,
// origin, "-" or "x", destination.
func notation(piece Piece, from, to Position, capture bool) string {
	sep := "-"
	if capture {
		sep = "x"
	}
	return fmt.Sprintf("%s%s%s%s", piece.Type.getPieceNotation(), from.Notation(), sep, to.Notation())
}

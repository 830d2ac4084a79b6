package model

import (
	"fmt"
)

type GameStatus string

const (
	StatusActive    GameStatus = "active"
	StatusCheck     GameStatus = "check"
	StatusCheckmate GameStatus = "checkmate"
	StatusStalemate GameStatus = "stalemate"
)

// Terminal reports whether the side to move has no legal moves.
func (s GameStatus) Terminal() bool {
	return s == StatusCheckmate || s == StatusStalemate
}

// CastlingRights only ever go from true to false.
type CastlingRights struct {
	WhiteKing  bool `json:"whiteKing"`
	WhiteQueen bool `json:"whiteQueen"`
	BlackKing  bool `json:"blackKing"`
	BlackQueen bool `json:"blackQueen"`
}

func (c CastlingRights) sides(color Color) (kingside, queenside bool) {
	if color == White {
		return c.WhiteKing, c.WhiteQueen
	}
	return c.BlackKing, c.BlackQueen
}

func (c *CastlingRights) revokeColor(color Color) {
	if color == White {
		c.WhiteKing, c.WhiteQueen = false, false
	} else {
		c.BlackKing, c.BlackQueen = false, false
	}
}

// revokeCorner clears the right tied to a rook's home square, if pos is one.
func (c *CastlingRights) revokeCorner(pos Position) {
	switch pos {
	case Position{Row: 7, Col: 0}:
		c.WhiteQueen = false
	case Position{Row: 7, Col: 7}:
		c.WhiteKing = false
	case Position{Row: 0, Col: 0}:
		c.BlackQueen = false
	case Position{Row: 0, Col: 7}:
		c.BlackKing = false
	}
}

// CapturedPieces is keyed by the color that made the capture.
type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

func (c *CapturedPieces) add(capturer Color, piece Piece) {
	if capturer == White {
		c.White = append(c.White, piece)
	} else {
		c.Black = append(c.Black, piece)
	}
}

type GameState struct {
	Board           Board
	Turn            Color
	MoveHistory     []MoveRecord
	CapturedPieces  CapturedPieces
	CastlingRights  CastlingRights
	EnPassantTarget *Position
	Status          GameStatus
	HalfMoveClock   int
	FullMoveNumber  int
}

// clone deep-copies everything that is mutated in place. Pieces are shared
// since they are never mutated.
func (s *GameState) clone() GameState {
	c := *s
	c.MoveHistory = append([]MoveRecord{}, s.MoveHistory...)
	c.CapturedPieces = CapturedPieces{
		White: append([]Piece{}, s.CapturedPieces.White...),
		Black: append([]Piece{}, s.CapturedPieces.Black...),
	}
	if s.EnPassantTarget != nil {
		ep := *s.EnPassantTarget
		c.EnPassantTarget = &ep
	}
	return c
}

// updateStatus derives the status from the position alone.
func (s *GameState) updateStatus() {
	hasMoves := s.hasAnyLegalMoves()
	inCheck := InCheck(&s.Board, s.Turn)
	switch {
	case !hasMoves && inCheck:
		s.Status = StatusCheckmate
	case !hasMoves:
		s.Status = StatusStalemate
	case inCheck:
		s.Status = StatusCheck
	default:
		s.Status = StatusActive
	}
}

// Game owns the mutable state of one game. It is not safe for concurrent
// use; callers serialize access or work on a Clone.
type Game struct {
	start string
	state GameState
}

// NewGame sets up a game from a position descriptor; an empty descriptor
// means the standard initial position.
func NewGame(descriptor string) (*Game, error) {
	if descriptor == "" {
		descriptor = InitialDescriptor
	}
	setup, err := ParseDescriptor(descriptor)
	if err != nil {
		return nil, err
	}
	g := &Game{
		start: descriptor,
		state: GameState{
			Board:           setup.Board,
			Turn:            setup.Turn,
			MoveHistory:     make([]MoveRecord, 0),
			CapturedPieces:  newCapturedPieces(),
			CastlingRights:  setup.Castling,
			EnPassantTarget: setup.EnPassantTarget,
			HalfMoveClock:   setup.HalfMoveClock,
			FullMoveNumber:  setup.FullMoveNumber,
		},
	}
	g.state.updateStatus()
	return g, nil
}

func newCapturedPieces() CapturedPieces {
	return CapturedPieces{
		White: make([]Piece, 0),
		Black: make([]Piece, 0),
	}
}

// Clone returns an independent copy for hypothetical play.
func (g *Game) Clone() *Game {
	return &Game{start: g.start, state: g.state.clone()}
}

func (g *Game) Turn() Color { return g.state.Turn }
func (g *Game) Status() GameStatus { return g.state.Status }
func (g *Game) Board() Board { return g.state.Board }
func (g *Game) CastlingRights() CastlingRights { return g.state.CastlingRights }
func (g *Game) StartDescriptor() string { return g.start }
func (g *Game) InCheck() bool { return InCheck(&g.state.Board, g.state.Turn) }
func (g *Game) Descriptor() string { return Descriptor(&g.state.Board, g.state.Turn) }
func (g *Game) Material() int { return g.state.Board.Material() }
func (g *Game) HistoryLen() int { return len(g.state.MoveHistory) }
func (g *Game) History() []MoveRecord { return append([]MoveRecord(nil), g.state.MoveHistory...) }
func (g *Game) LegalMoves(from Position) []Move { return g.state.legalMovesFrom(from) }
func (g *Game) AllLegalMoves() []Move { return g.state.allLegalMoves() }

func (g *Game) EnPassantTarget() *Position {
	if g.state.EnPassantTarget == nil {
		return nil
	}
	ep := *g.state.EnPassantTarget
	return &ep
}

func (g *Game) Captured() CapturedPieces {
	return CapturedPieces{
		White: append([]Piece{}, g.state.CapturedPieces.White...),
		Black: append([]Piece{}, g.state.CapturedPieces.Black...),
	}
}

// ApplyMove validates from->to against a freshly generated legal move list
// and commits it. A zero promotion means queen. On error nothing changes.
func (g *Game) ApplyMove(from, to Position, promotion PieceType) (MoveRecord, error) {
	if !from.Valid() || !to.Valid() {
		return MoveRecord{}, fmt.Errorf("%w: square out of bounds", ErrIllegalMove)
	}
	piece := g.state.Board.At(from)
	if piece == nil {
		return MoveRecord{}, fmt.Errorf("%w: no piece at %s", ErrIllegalMove, from)
	}
	if piece.Color != g.state.Turn {
		return MoveRecord{}, fmt.Errorf("%w: not %s's turn", ErrIllegalMove, piece.Color)
	}
	switch promotion {
	case "":
		promotion = Queen
	case Queen, Rook, Bishop, Knight:
	default:
		return MoveRecord{}, fmt.Errorf("%w: cannot promote to %s", ErrIllegalMove, promotion)
	}

	var move *Move
	for _, m := range g.state.legalMovesFrom(from) {
		if m.To == to {
			m := m
			move = &m
			break
		}
	}
	if move == nil {
		return MoveRecord{}, fmt.Errorf("%w: %s-%s", ErrIllegalMove, from, to)
	}
	return g.executeMove(*move, promotion), nil
}

// ApplyGenerated commits a move produced by LegalMoves or AllLegalMoves,
// promoting to queen.
func (g *Game) ApplyGenerated(move Move) (MoveRecord, error) {
	return g.ApplyMove(move.From, move.To, Queen)
}

func (g *Game) executeMove(move Move, promotion PieceType) MoveRecord {
	s := &g.state
	piece := s.Board.At(move.From)
	mover := s.Turn

	record := MoveRecord{
		From:  move.From,
		To:    move.To,
		Piece: *piece,
		Kind:  move.Kind,
	}

	captured := s.Board.At(move.To)
	switch move.Kind {
	case EnPassant:
		captured = s.Board.At(Position{Row: move.From.Row, Col: move.To.Col})
	case Castling:
		rookMove := castleRookMove(move.From.Row, move.Castle)
		record.Castle = move.Castle
		record.CastleRookMove = &rookMove
	case Normal:
	}
	if captured != nil {
		c := *captured
		record.Captured = &c
		s.CapturedPieces.add(mover, c)
		s.CastlingRights.revokeCorner(move.To)
	}
	record.Notation = notation(*piece, move.From, move.To, captured != nil)

	s.Board.playCells(move, piece)

	if piece.Type == Pawn && move.To.Row == mover.Opponent().backRank() {
		s.Board.Set(move.To, &Piece{Type: promotion, Color: mover})
		record.Promotion = promotion
	}

	if piece.Type == Pawn && abs(move.To.Row-move.From.Row) == 2 {
		s.EnPassantTarget = &Position{Row: (move.From.Row + move.To.Row) / 2, Col: move.From.Col}
	} else {
		s.EnPassantTarget = nil
	}

	switch piece.Type {
	case King:
		s.CastlingRights.revokeColor(mover)
	case Rook:
		s.CastlingRights.revokeCorner(move.From)
	}

	if piece.Type == Pawn || captured != nil {
		s.HalfMoveClock = 0
	} else {
		s.HalfMoveClock++
	}
	if mover == Black {
		s.FullMoveNumber++
	}

	s.MoveHistory = append(s.MoveHistory, record)
	g.switchTurn()
	s.updateStatus()
	return record
}

func (g *Game) switchTurn() {
	g.state.Turn = g.state.Turn.Opponent()
}

// Undo rebuilds the game from its starting descriptor and replays every
// recorded move but the last.
func (g *Game) Undo() error {
	if len(g.state.MoveHistory) == 0 {
		return ErrNoMoveHistory
	}
	replay := g.state.MoveHistory[:len(g.state.MoveHistory)-1]

	fresh, err := NewGame(g.start)
	if err != nil {
		return fmt.Errorf("rebuild from %q: %w", g.start, err)
	}
	for i, rec := range replay {
		if _, err := fresh.ApplyMove(rec.From, rec.To, rec.Promotion); err != nil {
			return fmt.Errorf("replay ply %d (%s): %w", i+1, rec.Notation, err)
		}
	}
	g.state = fresh.state
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

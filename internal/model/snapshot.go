package model

// Snapshot is a detached, JSON-ready copy of a game's state.
type Snapshot struct {
	Descriptor      string         `json:"descriptor"`
	Board           [][]*Piece     `json:"board"`
	Turn            Color          `json:"turn"`
	Status          GameStatus     `json:"status"`
	IsCheck         bool           `json:"isCheck"`
	MoveHistory     []MoveRecord   `json:"moveHistory"`
	CapturedPieces  CapturedPieces `json:"capturedPieces"`
	CastlingRights  CastlingRights `json:"castlingRights"`
	EnPassantTarget *Position      `json:"enPassantTarget"`
	HalfMoveClock   int            `json:"halfMoveClock"`
	FullMoveNumber  int            `json:"fullMoveNumber"`
	LastMove        *MoveRecord    `json:"lastMove"`
}

func (g *Game) State() Snapshot {
	s := g.state.clone()
	snap := Snapshot{
		Descriptor:      Descriptor(&s.Board, s.Turn),
		Board:           s.Board.Cells(),
		Turn:            s.Turn,
		Status:          s.Status,
		IsCheck:         InCheck(&s.Board, s.Turn),
		MoveHistory:     s.MoveHistory,
		CapturedPieces:  s.CapturedPieces,
		CastlingRights:  s.CastlingRights,
		EnPassantTarget: s.EnPassantTarget,
		HalfMoveClock:   s.HalfMoveClock,
		FullMoveNumber:  s.FullMoveNumber,
	}
	if snap.MoveHistory == nil {
		snap.MoveHistory = []MoveRecord{}
	}
	if n := len(s.MoveHistory); n > 0 {
		last := s.MoveHistory[n-1]
		snap.LastMove = &last
	}
	return snap
}

package model

// pseudoMoves dispatches on the piece at from. Own-king safety is not
// considered here; see filterLegalMoves.
func (s *GameState) pseudoMoves(from Position) []Move {
	piece := s.Board.At(from)
	if piece == nil {
		return nil
	}
	switch piece.Type {
	case Pawn:
		return s.pseudoPawnMoves(from, piece)
	case Knight:
		return s.pseudoStepMoves(from, piece, knightDirs)
	case Bishop:
		return s.pseudoSlidingMoves(from, piece, bishopDirs)
	case Rook:
		return s.pseudoSlidingMoves(from, piece, rookDirs)
	case Queen:
		return s.pseudoSlidingMoves(from, piece, queenDirs)
	case King:
		return s.pseudoKingMoves(from, piece)
	default:
		return nil
	}
}

func (s *GameState) pseudoPawnMoves(from Position, piece *Piece) []Move {
	moves := []Move{}
	dir := piece.Color.forward()
	startRow := piece.Color.backRank() + dir

	one := from.offset(dir, 0)
	if one.Valid() && s.Board.At(one) == nil {
		moves = append(moves, Move{From: from, To: one, Kind: Normal})
		two := from.offset(2*dir, 0)
		if from.Row == startRow && s.Board.At(two) == nil {
			moves = append(moves, Move{From: from, To: two, Kind: Normal})
		}
	}

	for _, dCol := range []int{-1, 1} {
		target := from.offset(dir, dCol)
		if !target.Valid() {
			continue
		}
		if p := s.Board.At(target); p != nil && p.Color != piece.Color {
			moves = append(moves, Move{From: from, To: target, Kind: Normal})
		}
		if s.isEnPassantCapture(from, target, piece.Color) {
			moves = append(moves, Move{From: from, To: target, Kind: EnPassant})
		}
	}
	return moves
}

// isEnPassantCapture requires the recorded target square to be empty and the
// enemy pawn that skipped over it to still be beside the capturer.
func (s *GameState) isEnPassantCapture(from, target Position, color Color) bool {
	ep := s.EnPassantTarget
	if ep == nil || *ep != target || s.Board.At(target) != nil {
		return false
	}
	victim := s.Board.At(Position{Row: from.Row, Col: target.Col})
	return victim != nil && victim.Type == Pawn && victim.Color != color
}

func (s *GameState) pseudoStepMoves(from Position, piece *Piece, dirs []Position) []Move {
	moves := []Move{}
	for _, dir := range dirs {
		target := from.offset(dir.Row, dir.Col)
		if !target.Valid() {
			continue
		}
		if p := s.Board.At(target); p == nil || p.Color != piece.Color {
			moves = append(moves, Move{From: from, To: target, Kind: Normal})
		}
	}
	return moves
}

func (s *GameState) pseudoSlidingMoves(from Position, piece *Piece, dirs []Position) []Move {
	moves := []Move{}
	for _, dir := range dirs {
		target := from.offset(dir.Row, dir.Col)
		for target.Valid() {
			p := s.Board.At(target)
			if p == nil {
				moves = append(moves, Move{From: from, To: target, Kind: Normal})
			} else {
				if p.Color != piece.Color {
					moves = append(moves, Move{From: from, To: target, Kind: Normal})
				}
				break
			}
			target = target.offset(dir.Row, dir.Col)
		}
	}
	return moves
}

func (s *GameState) pseudoKingMoves(from Position, piece *Piece) []Move {
	moves := s.pseudoStepMoves(from, piece, kingDirs)

	row := piece.Color.backRank()
	if from != (Position{Row: row, Col: 4}) {
		return moves
	}
	kingside, queenside := s.CastlingRights.sides(piece.Color)
	if kingside && s.canCastle(piece.Color, row, Kingside) {
		moves = append(moves, Move{From: from, To: Position{Row: row, Col: 6}, Kind: Castling, Castle: Kingside})
	}
	if queenside && s.canCastle(piece.Color, row, Queenside) {
		moves = append(moves, Move{From: from, To: Position{Row: row, Col: 2}, Kind: Castling, Castle: Queenside})
	}
	return moves
}

// canCastle checks everything except the right itself: the rook is home, the
// squares between are empty, and the king does not start in, pass through or
// land on an attacked square. Attack queries go to the oracle only.
func (s *GameState) canCastle(color Color, row int, side CastleSide) bool {
	rookMove := castleRookMove(row, side)
	rook := s.Board.At(rookMove.From)
	if rook == nil || rook.Type != Rook || rook.Color != color {
		return false
	}

	empty := []int{5, 6}
	path := []int{4, 5, 6}
	if side == Queenside {
		empty = []int{3, 2, 1}
		path = []int{4, 3, 2}
	}
	for _, col := range empty {
		if s.Board.At(Position{Row: row, Col: col}) != nil {
			return false
		}
	}
	enemy := color.Opponent()
	for _, col := range path {
		if IsSquareAttacked(&s.Board, Position{Row: row, Col: col}, enemy) {
			return false
		}
	}
	return true
}

// filterLegalMoves plays each candidate on a copy of the board and keeps it
// only if the mover's king is not attacked afterwards. A side without a king
// has no legal moves.
func (s *GameState) filterLegalMoves(pseudoMoves []Move) []Move {
	legalMoves := []Move{}
	for _, move := range pseudoMoves {
		scratch := s.Board
		piece := scratch.At(move.From)
		if piece == nil {
			continue
		}
		scratch.playCells(move, piece)
		king, ok := scratch.FindKing(piece.Color)
		if !ok {
			continue
		}
		if !IsSquareAttacked(&scratch, king, piece.Color.Opponent()) {
			legalMoves = append(legalMoves, move)
		}
	}
	return legalMoves
}

// playCells performs the cell writes of move on b, without promotion or any
// bookkeeping outside the board.
func (b *Board) playCells(move Move, piece *Piece) {
	switch move.Kind {
	case EnPassant:
		b.Set(Position{Row: move.From.Row, Col: move.To.Col}, nil)
	case Castling:
		rookMove := castleRookMove(move.From.Row, move.Castle)
		b.Set(rookMove.To, b.At(rookMove.From))
		b.Set(rookMove.From, nil)
	case Normal:
	}
	b.Set(move.To, piece)
	b.Set(move.From, nil)
}

// legalMovesFrom returns nothing for empty squares and for pieces of the
// side not to move.
func (s *GameState) legalMovesFrom(from Position) []Move {
	piece := s.Board.At(from)
	if piece == nil || piece.Color != s.Turn {
		return []Move{}
	}
	return s.filterLegalMoves(s.pseudoMoves(from))
}

// allLegalMoves walks the board row-major; search tie-breaking relies on this
// order.
func (s *GameState) allLegalMoves() []Move {
	moves := []Move{}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			moves = append(moves, s.legalMovesFrom(Position{Row: row, Col: col})...)
		}
	}
	return moves
}

func (s *GameState) hasAnyLegalMoves() bool {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if len(s.legalMovesFrom(Position{Row: row, Col: col})) > 0 {
				return true
			}
		}
	}
	return false
}

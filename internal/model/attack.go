package model

var (
	rookDirs   = []Position{{Row: -1, Col: 0}, {Row: 1, Col: 0}, {Row: 0, Col: -1}, {Row: 0, Col: 1}}
	bishopDirs = []Position{{Row: -1, Col: -1}, {Row: -1, Col: 1}, {Row: 1, Col: -1}, {Row: 1, Col: 1}}
	queenDirs  = []Position{
		{Row: -1, Col: -1}, {Row: -1, Col: 0}, {Row: -1, Col: 1}, {Row: 0, Col: -1},
		{Row: 0, Col: 1}, {Row: 1, Col: -1}, {Row: 1, Col: 0}, {Row: 1, Col: 1},
	}
	knightDirs = []Position{
		{Row: -2, Col: -1}, {Row: -2, Col: 1}, {Row: -1, Col: -2}, {Row: -1, Col: 2},
		{Row: 1, Col: -2}, {Row: 1, Col: 2}, {Row: 2, Col: -1}, {Row: 2, Col: 1},
	}
	kingDirs = queenDirs
)

// IsSquareAttacked reports whether any piece of attackingColor attacks pos.
// It probes the board geometrically and must never call into move
// generation: castling generation depends on it.
func IsSquareAttacked(board *Board, pos Position, attackingColor Color) bool {
	// an attacking pawn sits one row behind pos relative to its own direction
	pawnRow := pos.Row - attackingColor.forward()
	for _, dCol := range []int{-1, 1} {
		if occupiedBy(board, Position{Row: pawnRow, Col: pos.Col + dCol}, attackingColor, Pawn) {
			return true
		}
	}
	for _, dir := range knightDirs {
		if occupiedBy(board, pos.offset(dir.Row, dir.Col), attackingColor, Knight) {
			return true
		}
	}
	for _, dir := range kingDirs {
		if occupiedBy(board, pos.offset(dir.Row, dir.Col), attackingColor, King) {
			return true
		}
	}
	for _, dir := range rookDirs {
		if p := firstOnRay(board, pos, dir); p != nil && p.Color == attackingColor && (p.Type == Rook || p.Type == Queen) {
			return true
		}
	}
	for _, dir := range bishopDirs {
		if p := firstOnRay(board, pos, dir); p != nil && p.Color == attackingColor && (p.Type == Bishop || p.Type == Queen) {
			return true
		}
	}
	return false
}

// InCheck reports false when color has no king on the board.
func InCheck(board *Board, color Color) bool {
	king, ok := board.FindKing(color)
	if !ok {
		return false
	}
	return IsSquareAttacked(board, king, color.Opponent())
}

func occupiedBy(board *Board, pos Position, color Color, pieceType PieceType) bool {
	p := board.At(pos)
	return p != nil && p.Color == color && p.Type == pieceType
}

func firstOnRay(board *Board, from Position, dir Position) *Piece {
	target := from.offset(dir.Row, dir.Col)
	for target.Valid() {
		if p := board.At(target); p != nil {
			return p
		}
		target = target.offset(dir.Row, dir.Col)
	}
	return nil
}

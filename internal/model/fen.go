package model

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const InitialDescriptor = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var letterToPieceType = map[rune]PieceType{
	'p': Pawn,
	'n': Knight,
	'b': Bishop,
	'r': Rook,
	'q': Queen,
	'k': King,
}

var pieceTypeToLetter = map[PieceType]rune{
	Pawn:   'p',
	Knight: 'n',
	Bishop: 'b',
	Rook:   'r',
	Queen:  'q',
	King:   'k',
}

// Setup is a decoded position descriptor.
type Setup struct {
	Board           Board
	Turn            Color
	Castling        CastlingRights
	EnPassantTarget *Position
	HalfMoveClock   int
	FullMoveNumber  int
}

// ParseDescriptor decodes
// "<placement> <w|b> [castling] [en passant] [halfmove clock] [fullmove number]".
// Castling rights default to all set when the field is missing; the clocks
// default to 0 and 1.
func ParseDescriptor(descriptor string) (Setup, error) {
	var setup Setup
	fields := strings.Fields(descriptor)
	if len(fields) < 2 {
		return setup, fmt.Errorf("%w: expected placement and side to move", ErrInvalidDescriptor)
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return setup, fmt.Errorf("%w: expected 8 ranks, got %d", ErrInvalidDescriptor, len(ranks))
	}
	for row, rank := range ranks {
		col := 0
		for _, ch := range rank {
			if ch >= '1' && ch <= '8' {
				col += int(ch - '0')
				if col > 8 {
					break
				}
				continue
			}
			pt, ok := letterToPieceType[unicode.ToLower(ch)]
			if !ok {
				return setup, fmt.Errorf("%w: unknown piece %q in rank %d", ErrInvalidDescriptor, ch, 8-row)
			}
			if col >= 8 {
				col++
				break
			}
			color := Black
			if unicode.IsUpper(ch) {
				color = White
			}
			setup.Board[row][col] = &Piece{Type: pt, Color: color}
			col++
		}
		if col != 8 {
			return setup, fmt.Errorf("%w: rank %d %q does not span 8 squares", ErrInvalidDescriptor, 8-row, rank)
		}
	}

	switch fields[1] {
	case "w":
		setup.Turn = White
	case "b":
		setup.Turn = Black
	default:
		return setup, fmt.Errorf("%w: side to move %q", ErrInvalidDescriptor, fields[1])
	}

	setup.Castling = CastlingRights{WhiteKing: true, WhiteQueen: true, BlackKing: true, BlackQueen: true}
	if len(fields) > 2 {
		rights, err := parseCastling(fields[2])
		if err != nil {
			return setup, err
		}
		setup.Castling = rights
	}

	if len(fields) > 3 && fields[3] != "-" {
		target, err := ParseSquare(fields[3])
		if err != nil {
			return setup, fmt.Errorf("%w: en passant square: %v", ErrInvalidDescriptor, err)
		}
		setup.EnPassantTarget = &target
	}

	setup.FullMoveNumber = 1
	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return setup, fmt.Errorf("%w: halfmove clock %q", ErrInvalidDescriptor, fields[4])
		}
		setup.HalfMoveClock = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return setup, fmt.Errorf("%w: fullmove number %q", ErrInvalidDescriptor, fields[5])
		}
		setup.FullMoveNumber = n
	}

	return setup, nil
}

func parseCastling(field string) (CastlingRights, error) {
	var rights CastlingRights
	if field == "-" {
		return rights, nil
	}
	for _, ch := range field {
		switch ch {
		case 'K':
			rights.WhiteKing = true
		case 'Q':
			rights.WhiteQueen = true
		case 'k':
			rights.BlackKing = true
		case 'q':
			rights.BlackQueen = true
		default:
			return rights, fmt.Errorf("%w: castling field %q", ErrInvalidDescriptor, field)
		}
	}
	return rights, nil
}

// Descriptor encodes placement and side to move only; castling, en passant
// and clock fields are not written back.
func Descriptor(board *Board, turn Color) string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		if row > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for col := 0; col < 8; col++ {
			p := board[row][col]
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			letter := pieceTypeToLetter[p.Type]
			if p.Color == White {
				letter = unicode.ToUpper(letter)
			}
			sb.WriteRune(letter)
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	sb.WriteByte(' ')
	if turn == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	return sb.String()
}

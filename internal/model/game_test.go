package model

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameDefaultsToInitialPosition(t *testing.T) {
	g := mustGame(t, "")

	assert.Equal(t, White, g.Turn())
	assert.Equal(t, StatusActive, g.Status())
	assert.Equal(t, InitialDescriptor, g.StartDescriptor())
	assert.Equal(t, 0, g.Material())
	assert.Equal(t, 0, g.HistoryLen())
	assert.Equal(t, CastlingRights{WhiteKing: true, WhiteQueen: true, BlackKing: true, BlackQueen: true}, g.CastlingRights())
}

func TestNewGameRejectsBadDescriptor(t *testing.T) {
	_, err := NewGame("rnbqkbnr/pppppppp/8/8 w")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDescriptor))
}

func TestApplyMoveUpdatesState(t *testing.T) {
	g := mustGame(t, "")

	rec, err := g.ApplyMove(sq(t, "e2"), sq(t, "e4"), "")
	require.NoError(t, err)

	assert.Equal(t, "e2-e4", rec.Notation)
	assert.Equal(t, Piece{Type: Pawn, Color: White}, rec.Piece)
	assert.Nil(t, rec.Captured)
	assert.Equal(t, Black, g.Turn())
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b", g.Descriptor())
	require.NotNil(t, g.EnPassantTarget())
	assert.Equal(t, "e3", g.EnPassantTarget().Notation())
	assert.Equal(t, 1, g.HistoryLen())
}

func TestApplyMoveRejections(t *testing.T) {
	tests := []struct {
		name      string
		from, to  Position
		promotion PieceType
	}{
		{"empty square", Position{Row: 4, Col: 4}, Position{Row: 3, Col: 4}, ""},
		{"opponent piece", Position{Row: 1, Col: 4}, Position{Row: 3, Col: 4}, ""},
		{"off board", Position{Row: 6, Col: 4}, Position{Row: 6, Col: 8}, ""},
		{"unreachable square", Position{Row: 6, Col: 4}, Position{Row: 3, Col: 4}, ""},
		{"promote to king", Position{Row: 6, Col: 4}, Position{Row: 4, Col: 4}, King},
		{"promote to pawn", Position{Row: 6, Col: 4}, Position{Row: 4, Col: 4}, Pawn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGame(t, "")
			before := g.State()

			_, err := g.ApplyMove(tt.from, tt.to, tt.promotion)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrIllegalMove), "got %v", err)
			if diff := cmp.Diff(before, g.State()); diff != "" {
				t.Errorf("state changed after rejected move (-before +after):\n%s", diff)
			}
		})
	}
}

func TestIllegalMoveLeavesPinnedPositionUnchanged(t *testing.T) {
	g := mustGame(t, "4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1")
	before := g.State()

	_, err := g.ApplyMove(sq(t, "e2"), sq(t, "d3"), "")
	assert.True(t, errors.Is(err, ErrIllegalMove))
	if diff := cmp.Diff(before, g.State()); diff != "" {
		t.Errorf("state changed (-before +after):\n%s", diff)
	}
}

func TestPromotion(t *testing.T) {
	const desc = "8/P6k/8/8/8/8/8/K7 w - - 0 1"

	t.Run("defaults to queen", func(t *testing.T) {
		g := mustGame(t, desc)
		rec, err := g.ApplyMove(sq(t, "a7"), sq(t, "a8"), "")
		require.NoError(t, err)

		board := g.Board()
		assert.Equal(t, &Piece{Type: Queen, Color: White}, board.At(sq(t, "a8")))
		assert.Equal(t, Queen, rec.Promotion)
		assert.Equal(t, "Q7/7k/8/8/8/8/8/K7 b", g.Descriptor())
	})

	t.Run("underpromotion", func(t *testing.T) {
		g := mustGame(t, desc)
		rec, err := g.ApplyMove(sq(t, "a7"), sq(t, "a8"), Knight)
		require.NoError(t, err)

		board := g.Board()
		assert.Equal(t, &Piece{Type: Knight, Color: White}, board.At(sq(t, "a8")))
		assert.Equal(t, Knight, rec.Promotion)
	})

	t.Run("undo replays the chosen piece", func(t *testing.T) {
		g := mustGame(t, desc)
		_, err := g.ApplyMove(sq(t, "a7"), sq(t, "a8"), Rook)
		require.NoError(t, err)
		want := g.State()

		play(t, g, "h7g6")
		require.NoError(t, g.Undo())

		if diff := cmp.Diff(want, g.State()); diff != "" {
			t.Errorf("undo mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestScholarsMate(t *testing.T) {
	g := mustGame(t, "")
	records := play(t, g, "e2e4", "e7e5", "f1c4", "b8c6", "d1h5", "g8f6", "h5f7")

	last := records[len(records)-1]
	assert.Equal(t, "Qh5xf7", last.Notation)
	assert.Equal(t, StatusCheckmate, g.Status())
	assert.True(t, g.Status().Terminal())
	assert.True(t, g.InCheck())
	assert.Empty(t, g.AllLegalMoves())
	assert.Equal(t, []Piece{{Type: Pawn, Color: Black}}, g.Captured().White)
	assert.Empty(t, g.Captured().Black)
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name  string
		desc  string
		want  GameStatus
		moves int
	}{
		{"initial", "", StatusActive, 20},
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", StatusStalemate, 0},
		{"check with one flight square", "k7/8/3N4/8/8/8/8/R6K b - - 0 1", StatusCheck, 1},
		{"back rank mate", "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", StatusActive, 0},
		{"side without a king", "8/8/8/8/8/8/8/R3K3 b - - 0 1", StatusStalemate, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGame(t, tt.desc)
			assert.Equal(t, tt.want, g.Status())
			if tt.moves > 0 {
				assert.Len(t, g.AllLegalMoves(), tt.moves)
			}
		})
	}

	g := mustGame(t, "k7/8/3N4/8/8/8/8/R6K b - - 0 1")
	assert.Equal(t, []Move{{From: sq(t, "a8"), To: sq(t, "b8"), Kind: Normal}}, g.AllLegalMoves())

	g = mustGame(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	play(t, g, "a1a8")
	assert.Equal(t, StatusCheckmate, g.Status())
}

func TestCastlingRightsRevoked(t *testing.T) {
	const open = "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1"

	t.Run("king move", func(t *testing.T) {
		g := mustGame(t, open)
		play(t, g, "e1f1")
		assert.Equal(t, CastlingRights{BlackKing: true, BlackQueen: true}, g.CastlingRights())
	})

	t.Run("rook move", func(t *testing.T) {
		g := mustGame(t, open)
		play(t, g, "h1h2")
		assert.Equal(t, CastlingRights{WhiteQueen: true, BlackKing: true, BlackQueen: true}, g.CastlingRights())
	})

	t.Run("rook captured on its corner", func(t *testing.T) {
		g := mustGame(t, open)
		rec := play(t, g, "a1a8")[0]
		require.NotNil(t, rec.Captured)
		assert.Equal(t, Piece{Type: Rook, Color: Black}, *rec.Captured)
		assert.Equal(t, CastlingRights{WhiteKing: true, BlackKing: true}, g.CastlingRights())
	})
}

func TestMoveClocks(t *testing.T) {
	g := mustGame(t, "")
	play(t, g, "e2e4", "g8f6", "g1f3")

	snap := g.State()
	assert.Equal(t, 2, snap.HalfMoveClock)
	assert.Equal(t, 2, snap.FullMoveNumber)

	play(t, g, "f6e4")
	snap = g.State()
	assert.Equal(t, 0, snap.HalfMoveClock, "capture resets the clock")
	assert.Equal(t, 3, snap.FullMoveNumber)
}

func TestMoveClocksFromDescriptor(t *testing.T) {
	g := mustGame(t, "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 12 34")

	snap := g.State()
	assert.Equal(t, 12, snap.HalfMoveClock)
	assert.Equal(t, 34, snap.FullMoveNumber)

	play(t, g, "h8h7", "h1h2")
	snap = g.State()
	assert.Equal(t, 14, snap.HalfMoveClock)
	assert.Equal(t, 35, snap.FullMoveNumber)

	require.NoError(t, g.Undo())
	require.NoError(t, g.Undo())
	snap = g.State()
	assert.Equal(t, 12, snap.HalfMoveClock)
	assert.Equal(t, 34, snap.FullMoveNumber)
}

func TestUndo(t *testing.T) {
	t.Run("empty history", func(t *testing.T) {
		g := mustGame(t, "")
		assert.True(t, errors.Is(g.Undo(), ErrNoMoveHistory))
	})

	t.Run("every opening move", func(t *testing.T) {
		g := mustGame(t, "")
		want := g.State()
		for _, m := range g.AllLegalMoves() {
			_, err := g.ApplyGenerated(m)
			require.NoError(t, err)
			require.NoError(t, g.Undo())
			if diff := cmp.Diff(want, g.State()); diff != "" {
				t.Fatalf("undo of %s mismatch (-want +got):\n%s", m, diff)
			}
		}
	})

	t.Run("restores en passant and captures", func(t *testing.T) {
		g := mustGame(t, "")
		play(t, g, "e2e4", "a7a6", "e4e5", "d7d5")
		want := g.State()

		play(t, g, "e5d6")
		require.NoError(t, g.Undo())

		if diff := cmp.Diff(want, g.State()); diff != "" {
			t.Errorf("undo mismatch (-want +got):\n%s", diff)
		}
		assert.Contains(t, g.LegalMoves(sq(t, "e5")), Move{From: sq(t, "e5"), To: sq(t, "d6"), Kind: EnPassant})
	})

	t.Run("restores castling", func(t *testing.T) {
		g := mustGame(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
		want := g.State()

		play(t, g, "e1c1")
		require.NoError(t, g.Undo())

		if diff := cmp.Diff(want, g.State()); diff != "" {
			t.Errorf("undo mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestCloneIsIndependent(t *testing.T) {
	g := mustGame(t, "")
	play(t, g, "e2e4")
	before := g.State()

	c := g.Clone()
	play(t, c, "e7e5", "g1f3")
	require.NoError(t, c.Undo())

	if diff := cmp.Diff(before, g.State()); diff != "" {
		t.Errorf("original changed through clone (-before +after):\n%s", diff)
	}
	assert.Equal(t, 2, c.HistoryLen())
}

// TestRandomPlayout plays seeded random games and checks that no move leaves
// the mover in check and that undoing everything returns to the start.
func TestRandomPlayout(t *testing.T) {
	for seed := int64(1); seed <= 3; seed++ {
		rng := rand.New(rand.NewSource(seed))
		g := mustGame(t, "")
		start := g.State()

		for ply := 0; ply < 80 && !g.Status().Terminal(); ply++ {
			moves := g.AllLegalMoves()
			require.NotEmpty(t, moves)
			mover := g.Turn()

			_, err := g.ApplyGenerated(moves[rng.Intn(len(moves))])
			require.NoError(t, err)

			board := g.Board()
			require.False(t, InCheck(&board, mover), "seed %d ply %d left %s in check", seed, ply, mover)
			assert.Equal(t, g.Status() == StatusCheck || g.Status() == StatusCheckmate, g.InCheck())
		}

		for g.HistoryLen() > 0 {
			require.NoError(t, g.Undo())
		}
		if diff := cmp.Diff(start, g.State()); diff != "" {
			t.Errorf("seed %d: full undo mismatch (-want +got):\n%s", seed, diff)
		}
	}
}

func TestSnapshotJSON(t *testing.T) {
	g := mustGame(t, "")

	data, err := json.Marshal(g.State())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []any{}, decoded["moveHistory"])
	assert.Equal(t, map[string]any{"white": []any{}, "black": []any{}}, decoded["capturedPieces"])
	assert.Equal(t, "white", decoded["turn"])
	assert.Nil(t, decoded["lastMove"])

	play(t, g, "e2e4")
	snap := g.State()
	require.NotNil(t, snap.LastMove)
	assert.Equal(t, "e2-e4", snap.LastMove.Notation)
}

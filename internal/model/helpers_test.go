package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustGame(t *testing.T, descriptor string) *Game {
	t.Helper()
	g, err := NewGame(descriptor)
	require.NoError(t, err, "NewGame(%q)", descriptor)
	return g
}

func sq(t *testing.T, s string) Position {
	t.Helper()
	pos, err := ParseSquare(s)
	require.NoError(t, err)
	return pos
}

// play applies a sequence of "e2e4"-style moves.
func play(t *testing.T, g *Game, moves ...string) []MoveRecord {
	t.Helper()
	records := make([]MoveRecord, 0, len(moves))
	for _, mv := range moves {
		require.Len(t, mv, 4, "move %q", mv)
		rec, err := g.ApplyMove(sq(t, mv[:2]), sq(t, mv[2:]), "")
		require.NoError(t, err, "ApplyMove(%s)", mv)
		records = append(records, rec)
	}
	return records
}

func destinations(moves []Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.To.Notation())
	}
	return out
}

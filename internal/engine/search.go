package engine

import (
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/benbeisheim/checkmate-backend/internal/model"
)

var ErrNoLegalMoves = errors.New("no legal moves")

// SearchResult describes one engine decision.
type SearchResult struct {
	Move    model.Move    `json:"move"`
	Score   int           `json:"score"`
	Depth   int           `json:"depth"`
	Nodes   int64         `json:"nodes"`
	Elapsed time.Duration `json:"-"`
	Random  bool          `json:"random"`
}

// MarshalJSON reports Elapsed as fractional milliseconds under elapsedMs.
func (r SearchResult) MarshalJSON() ([]byte, error) {
	type plain SearchResult
	return json.Marshal(struct {
		plain
		ElapsedMs float64 `json:"elapsedMs"`
	}{
		plain:     plain(r),
		ElapsedMs: float64(r.Elapsed) / float64(time.Millisecond),
	})
}

// Searcher runs fixed-depth minimax. It holds its own random source and node
// counter, so use one Searcher per goroutine.
type Searcher struct {
	rng      *rand.Rand
	nodes    int64
	maxDepth int
}

// NewSearcher uses rng for weighted play; nil seeds from the clock.
func NewSearcher(rng *rand.Rand) *Searcher {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Searcher{rng: rng}
}

// LimitDepth caps the depth Play derives from a rating. Zero or less removes
// the cap.
func (s *Searcher) LimitDepth(depth int) *Searcher {
	s.maxDepth = depth
	return s
}

// Evaluate scores material from white's point of view.
func Evaluate(g *model.Game) int {
	return g.Material()
}

// BestMove searches every legal move of the side to move to the given depth.
// White engines maximize and black engines minimize; on equal scores the
// first move in generation order wins.
func (s *Searcher) BestMove(g *model.Game, depth int, engineColor model.Color) (model.Move, bool) {
	res, err := s.Search(g, depth, engineColor)
	if err != nil {
		return model.Move{}, false
	}
	return res.Move, true
}

func (s *Searcher) Search(g *model.Game, depth int, engineColor model.Color) (SearchResult, error) {
	start := time.Now()
	s.nodes = 0
	if depth < 1 {
		depth = 1
	}

	moves := g.AllLegalMoves()
	if len(moves) == 0 {
		return SearchResult{}, ErrNoLegalMoves
	}

	maximizing := engineColor == model.White
	var bestMove model.Move
	bestScore := math.MaxInt
	if maximizing {
		bestScore = math.MinInt
	}
	for _, mv := range moves {
		child := g.Clone()
		if _, err := child.ApplyGenerated(mv); err != nil {
			continue
		}
		score := s.Minimax(child, depth-1, math.MinInt, math.MaxInt, !maximizing)
		if (maximizing && score > bestScore) || (!maximizing && score < bestScore) {
			bestScore = score
			bestMove = mv
		}
	}

	return SearchResult{
		Move:    bestMove,
		Score:   bestScore,
		Depth:   depth,
		Nodes:   s.nodes,
		Elapsed: time.Since(start),
	}, nil
}

// Minimax returns the material score of g searched to depth with alpha-beta
// pruning. Checkmate and stalemate are scored statically, so mate distance
// is not distinguished.
func (s *Searcher) Minimax(g *model.Game, depth int, alpha, beta int, maximizing bool) int {
	s.nodes++
	if depth == 0 || g.Status().Terminal() {
		return Evaluate(g)
	}

	moves := g.AllLegalMoves()
	if len(moves) == 0 {
		return Evaluate(g)
	}

	if maximizing {
		bestScore := math.MinInt
		for _, mv := range moves {
			child := g.Clone()
			if _, err := child.ApplyGenerated(mv); err != nil {
				continue
			}
			score := s.Minimax(child, depth-1, alpha, beta, false)
			bestScore = max(bestScore, score)
			alpha = max(alpha, score)
			if beta <= alpha {
				break
			}
		}
		return bestScore
	}

	bestScore := math.MaxInt
	for _, mv := range moves {
		child := g.Clone()
		if _, err := child.ApplyGenerated(mv); err != nil {
			continue
		}
		score := s.Minimax(child, depth-1, alpha, beta, true)
		bestScore = min(bestScore, score)
		beta = min(beta, score)
		if beta <= alpha {
			break
		}
	}
	return bestScore
}

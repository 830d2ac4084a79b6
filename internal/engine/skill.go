package engine

import (
	"github.com/benbeisheim/checkmate-backend/internal/model"
)

// skillBand maps ratings below Below to a search depth and the chance of
// playing a random legal move instead.
type skillBand struct {
	Below      int
	Depth      int
	RandomRate float64
}

var (
	depthBands = []skillBand{
		{Below: 700, Depth: 1},
		{Below: 900, Depth: 2},
	}
	randomBands = []skillBand{
		{Below: 800, RandomRate: 0.30},
		{Below: 1000, RandomRate: 0.15},
	}
)

const (
	maxSkillDepth   = 3
	minRandomRate   = 0.05
	DefaultSkill    = 800
	DefaultMaxDepth = maxSkillDepth
)

// DepthForSkill returns the search depth used at a rating.
func DepthForSkill(skill int) int {
	for _, b := range depthBands {
		if skill < b.Below {
			return b.Depth
		}
	}
	return maxSkillDepth
}

// RandomRateForSkill returns the probability of a uniformly random move.
func RandomRateForSkill(skill int) float64 {
	for _, b := range randomBands {
		if skill < b.Below {
			return b.RandomRate
		}
	}
	return minRandomRate
}

// WeightedMove picks a move for the side to move at the given rating.
func (s *Searcher) WeightedMove(g *model.Game, skill int) (model.Move, bool) {
	res, err := s.Play(g, skill)
	if err != nil {
		return model.Move{}, false
	}
	return res.Move, true
}

// Play is WeightedMove with search details.
func (s *Searcher) Play(g *model.Game, skill int) (SearchResult, error) {
	if s.rng.Float64() < RandomRateForSkill(skill) {
		moves := g.AllLegalMoves()
		if len(moves) == 0 {
			return SearchResult{}, ErrNoLegalMoves
		}
		mv := moves[s.rng.Intn(len(moves))]
		return SearchResult{Move: mv, Score: Evaluate(g), Random: true}, nil
	}
	return s.Search(g, s.depthForSkill(skill), g.Turn())
}

func (s *Searcher) depthForSkill(skill int) int {
	depth := DepthForSkill(skill)
	if s.maxDepth > 0 {
		depth = min(depth, s.maxDepth)
	}
	return depth
}

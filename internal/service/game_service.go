package service

import (
	"context"
	"fmt"
	"time"

	"github.com/benbeisheim/checkmate-backend/internal/engine"
	"github.com/benbeisheim/checkmate-backend/internal/model"
	"github.com/gofiber/fiber/v2/log"
)

type EngineOptions struct {
	// Timeout bounds how long a request waits for a search.
	Timeout      time.Duration
	DefaultSkill int
	MaxDepth     int
	// NewSearcher is called once per search; nil uses a clock-seeded one.
	NewSearcher func() *engine.Searcher
}

// EngineRequest overrides the seat's strength for one engine move. Depth,
// when set, disables random play.
type EngineRequest struct {
	Depth int `json:"depth"`
	Skill int `json:"skill"`
}

type GameService struct {
	gameManager *GameManager
	opts        EngineOptions
}

func NewGameService(gameManager *GameManager, opts EngineOptions) *GameService {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.DefaultSkill <= 0 {
		opts.DefaultSkill = engine.DefaultSkill
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = engine.DefaultMaxDepth
	}
	if opts.NewSearcher == nil {
		opts.NewSearcher = func() *engine.Searcher { return engine.NewSearcher(nil) }
	}
	return &GameService{
		gameManager: gameManager,
		opts:        opts,
	}
}

// CreateGame starts a session and, if white is an engine seat, lets it move.
func (gs *GameService) CreateGame(ctx context.Context, descriptor string, seats Seats) (GameView, error) {
	if seats.White.Kind == "" {
		seats.White.Kind = SeatHuman
	}
	if seats.Black.Kind == "" {
		seats.Black.Kind = SeatHuman
	}
	session, err := gs.gameManager.CreateGame(descriptor, seats)
	if err != nil {
		return GameView{}, fmt.Errorf("failed to create game: %w", err)
	}
	view, err := gs.playEngineTurns(ctx, session)
	if err != nil {
		log.Warnf("game %s: opening engine move failed: %v", session.ID, err)
		return session.View(), nil
	}
	return view, nil
}

func (gs *GameService) DeleteGame(gameID string) error {
	return gs.gameManager.DeleteGame(gameID)
}

func (gs *GameService) Session(gameID string) (*Session, error) {
	return gs.gameManager.GetSession(gameID)
}

func (gs *GameService) GetGameState(gameID string) (GameView, error) {
	session, err := gs.gameManager.GetSession(gameID)
	if err != nil {
		return GameView{}, err
	}
	return session.View(), nil
}

func (gs *GameService) LegalMoves(gameID string, square string) ([]model.Move, error) {
	session, err := gs.gameManager.GetSession(gameID)
	if err != nil {
		return nil, err
	}
	from, err := model.ParseSquare(square)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrIllegalMove, err)
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.game.LegalMoves(from), nil
}

// MakeMove plays a human move and then any engine replies that follow.
func (gs *GameService) MakeMove(ctx context.Context, gameID, from, to string, promotion model.PieceType) (model.MoveRecord, GameView, error) {
	session, err := gs.gameManager.GetSession(gameID)
	if err != nil {
		return model.MoveRecord{}, GameView{}, err
	}
	fromPos, err := model.ParseSquare(from)
	if err != nil {
		return model.MoveRecord{}, GameView{}, fmt.Errorf("%w: %v", model.ErrIllegalMove, err)
	}
	toPos, err := model.ParseSquare(to)
	if err != nil {
		return model.MoveRecord{}, GameView{}, fmt.Errorf("%w: %v", model.ErrIllegalMove, err)
	}

	var record model.MoveRecord
	view, err := session.update(func(g *model.Game) error {
		if session.seats.For(g.Turn()).Kind == SeatEngine {
			return ErrNotHumanTurn
		}
		rec, err := g.ApplyMove(fromPos, toPos, promotion)
		if err != nil {
			return err
		}
		record = rec
		return nil
	})
	if err != nil {
		return model.MoveRecord{}, GameView{}, err
	}
	log.Debugf("game %s: %s", gameID, record.Notation)

	view, err = gs.playEngineTurns(ctx, session)
	if err != nil {
		// the human move stands; the client can ask for the engine move again
		log.Warnf("game %s: engine reply failed: %v", gameID, err)
		return record, session.View(), nil
	}
	return record, view, nil
}

// Undo takes back the last move, and keeps going until a human seat is to
// move again. If that leaves an engine to move, as after taking back an
// engine's opening move, the engine plays again.
func (gs *GameService) Undo(ctx context.Context, gameID string) (GameView, error) {
	session, err := gs.gameManager.GetSession(gameID)
	if err != nil {
		return GameView{}, err
	}
	view, err := session.update(func(g *model.Game) error {
		if err := g.Undo(); err != nil {
			return err
		}
		for g.HistoryLen() > 0 && session.seats.For(g.Turn()).Kind == SeatEngine {
			if err := g.Undo(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return GameView{}, err
	}

	replied, err := gs.playEngineTurns(ctx, session)
	if err != nil {
		log.Warnf("game %s: engine reply after undo failed: %v", gameID, err)
		return view, nil
	}
	return replied, nil
}

// EngineMove asks the engine to play for the side to move, whatever the seat.
func (gs *GameService) EngineMove(ctx context.Context, gameID string, req EngineRequest) (engine.SearchResult, GameView, error) {
	session, err := gs.gameManager.GetSession(gameID)
	if err != nil {
		return engine.SearchResult{}, GameView{}, err
	}
	return gs.engineMove(ctx, session, req)
}

func (gs *GameService) engineMove(ctx context.Context, session *Session, req EngineRequest) (engine.SearchResult, GameView, error) {
	snapshot, seat, version := session.snapshot()

	if snapshot.Status().Terminal() {
		return engine.SearchResult{}, GameView{}, engine.ErrNoLegalMoves
	}
	skill := req.Skill
	if skill <= 0 {
		skill = seat.Skill
	}
	if skill <= 0 {
		skill = gs.opts.DefaultSkill
	}
	depth := min(req.Depth, gs.opts.MaxDepth)

	type outcome struct {
		res engine.SearchResult
		err error
	}
	done := make(chan outcome, 1)
	searcher := gs.opts.NewSearcher().LimitDepth(gs.opts.MaxDepth)
	go func() {
		var o outcome
		if depth > 0 {
			o.res, o.err = searcher.Search(snapshot, depth, snapshot.Turn())
		} else {
			o.res, o.err = searcher.Play(snapshot, skill)
		}
		done <- o
	}()

	ctx, cancel := context.WithTimeout(ctx, gs.opts.Timeout)
	defer cancel()

	var result engine.SearchResult
	select {
	case <-ctx.Done():
		return engine.SearchResult{}, GameView{}, fmt.Errorf("%w: %v", ErrEngineTimeout, ctx.Err())
	case o := <-done:
		if o.err != nil {
			return engine.SearchResult{}, GameView{}, o.err
		}
		result = o.res
	}

	view, err := gs.applyEngineMove(session, version, result.Move)
	if err != nil {
		return engine.SearchResult{}, GameView{}, err
	}
	log.Infof("game %s: engine played %s (score=%d depth=%d nodes=%d random=%t in %s)",
		session.ID, result.Move, result.Score, result.Depth, result.Nodes, result.Random, result.Elapsed)
	return result, view, nil
}

// applyEngineMove commits a move searched on a snapshot taken at version,
// unless the game has changed since.
func (gs *GameService) applyEngineMove(session *Session, version uint64, move model.Move) (GameView, error) {
	return session.update(func(g *model.Game) error {
		if session.version != version {
			return ErrGameChanged
		}
		_, err := g.ApplyGenerated(move)
		return err
	})
}

// playEngineTurns lets an engine seat answer when it is to move. Only one
// move is played; engine-vs-engine games advance through EngineMove.
func (gs *GameService) playEngineTurns(ctx context.Context, session *Session) (GameView, error) {
	session.mu.Lock()
	v := session.view()
	engineToMove := session.seats.For(session.game.Turn()).Kind == SeatEngine
	terminal := session.game.Status().Terminal()
	session.mu.Unlock()

	if !engineToMove || terminal {
		return v, nil
	}
	_, view, err := gs.engineMove(ctx, session, EngineRequest{})
	if err != nil {
		return v, err
	}
	return view, nil
}

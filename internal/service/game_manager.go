package service

import (
	"fmt"
	"sync"

	"github.com/benbeisheim/checkmate-backend/internal/model"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// GameManager holds every live session by id.
type GameManager struct {
	games map[string]*Session
	mu    sync.RWMutex
}

func NewGameManager() *GameManager {
	return &GameManager{
		games: make(map[string]*Session),
	}
}

func (gm *GameManager) CreateGame(descriptor string, seats Seats) (*Session, error) {
	if err := seats.White.validate(); err != nil {
		return nil, fmt.Errorf("white: %w", err)
	}
	if err := seats.Black.validate(); err != nil {
		return nil, fmt.Errorf("black: %w", err)
	}
	game, err := model.NewGame(descriptor)
	if err != nil {
		return nil, err
	}

	session := newSession(uuid.New().String(), game, seats)

	gm.mu.Lock()
	gm.games[session.ID] = session
	gm.mu.Unlock()

	log.Infof("created game %s (white=%s black=%s)", session.ID, seats.White.Kind, seats.Black.Kind)
	return session, nil
}

func (gm *GameManager) GetSession(gameID string) (*Session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	session, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return session, nil
}

func (gm *GameManager) DeleteGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	session, exists := gm.games[gameID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	delete(gm.games, gameID)
	session.close()
	log.Infof("deleted game %s", gameID)
	return nil
}

func (gm *GameManager) Count() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}

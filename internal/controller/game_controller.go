package controller

import (
	"errors"

	"github.com/benbeisheim/checkmate-backend/internal/engine"
	"github.com/benbeisheim/checkmate-backend/internal/model"
	"github.com/benbeisheim/checkmate-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

type createGameRequest struct {
	Descriptor string        `json:"descriptor"`
	White      *service.Seat `json:"white"`
	Black      *service.Seat `json:"black"`
}

type moveRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion"`
}

// statusFor maps service and engine errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrInvalidDescriptor), errors.Is(err, service.ErrInvalidSeat):
		return fiber.StatusBadRequest
	case errors.Is(err, model.ErrIllegalMove):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, model.ErrNoMoveHistory),
		errors.Is(err, engine.ErrNoLegalMoves),
		errors.Is(err, service.ErrNotHumanTurn),
		errors.Is(err, service.ErrGameChanged):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrEngineTimeout):
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}
	seats := service.Seats{White: service.Seat{Kind: service.SeatHuman}, Black: service.Seat{Kind: service.SeatHuman}}
	if req.White != nil {
		seats.White = *req.White
	}
	if req.Black != nil {
		seats.Black = *req.Black
	}

	view, err := gc.gameService.CreateGame(c.UserContext(), req.Descriptor, seats)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	view, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(view)
}

func (gc *GameController) DeleteGame(c *fiber.Ctx) error {
	if err := gc.gameService.DeleteGame(c.Params("gameId")); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	square := c.Query("square")
	moves, err := gc.gameService.LegalMoves(c.Params("gameId"), square)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"square": square,
		"moves":  moves,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var req moveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	record, view, err := gc.gameService.MakeMove(c.UserContext(), c.Params("gameId"), req.From, req.To, model.PieceType(req.Promotion))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"move": record,
		"game": view,
	})
}

func (gc *GameController) Undo(c *fiber.Ctx) error {
	view, err := gc.gameService.Undo(c.UserContext(), c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(view)
}

func (gc *GameController) EngineMove(c *fiber.Ctx) error {
	var req service.EngineRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	result, view, err := gc.gameService.EngineMove(c.UserContext(), c.Params("gameId"), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"search": result,
		"game":   view,
	})
}

// Evaluate scores an ad-hoc position without creating a game.
func (gc *GameController) Evaluate(c *fiber.Ctx) error {
	game, err := model.NewGame(c.Query("descriptor"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"descriptor": game.Descriptor(),
		"turn":       game.Turn(),
		"status":     game.Status(),
		"isCheck":    game.InCheck(),
		"evaluation": engine.Evaluate(game),
		"legalMoves": len(game.AllLegalMoves()),
	})
}

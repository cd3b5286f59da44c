package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/topbid/auction-api/internal/auction/application"
	"github.com/topbid/auction-api/internal/auction/domain"
	"github.com/topbid/auction-api/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Handler exposes the auction use cases over REST.
type Handler struct {
	service application.AuctionService
}

func NewHandler(service application.AuctionService) *Handler {
	return &Handler{service: service}
}

// Register mounts the auction routes on the fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Post("/auctions", h.createAuction)
	app.Get("/auctions/:code", h.getAuction)
	app.Post("/auctions/:code/bets", h.placeBet)
}

type createAuctionRequest struct {
	Code         string    `json:"code"`
	MinimalPrice string    `json:"minimal_price"`
	Currency     string    `json:"currency"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
}

type placeBetRequest struct {
	BidderID string `json:"bidder_id"`
	Price    string `json:"price"`
	Currency string `json:"currency"`
}

type placeBetResponse struct {
	Status string              `json:"status"`
	Bet    *application.BetDTO `json:"bet,omitempty"`
}

func (h *Handler) createAuction(c *fiber.Ctx) error {
	var request createAuctionRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c, "invalid request body")
	}

	currency, err := domain.ParseCurrency(request.Currency)
	if err != nil {
		return badRequest(c, err.Error())
	}
	minimalPrice, err := domain.NewMoney(request.MinimalPrice, currency)
	if err != nil {
		return badRequest(c, err.Error())
	}
	specification, err := domain.NewCreateAuctionSpecification(request.Code, minimalPrice, request.StartDate, request.EndDate)
	if err != nil {
		return badRequest(c, err.Error())
	}

	id, err := h.service.CreateAuction(c.Context(), specification)
	if err != nil {
		log.Error("createAuction handler failed",
			zap.String("code", request.Code),
			zap.Error(err),
		)
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id.String()})
}

func (h *Handler) getAuction(c *fiber.Ctx) error {
	state, err := h.service.GetAuction(c.Context(), c.Params("code"))
	if err != nil {
		if errors.Is(err, domain.ErrAuctionNotFound) {
			return notFound(c)
		}
		log.Error("getAuction handler failed",
			zap.String("code", c.Params("code")),
			zap.Error(err),
		)
		return internalError(c)
	}
	return c.JSON(state)
}

func (h *Handler) placeBet(c *fiber.Ctx) error {
	var request placeBetRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c, "invalid request body")
	}

	bidderID, err := domain.ParseID(request.BidderID)
	if err != nil {
		return badRequest(c, err.Error())
	}
	currency, err := domain.ParseCurrency(request.Currency)
	if err != nil {
		return badRequest(c, err.Error())
	}
	price, err := domain.NewMoney(request.Price, currency)
	if err != nil {
		return badRequest(c, err.Error())
	}
	specification, err := domain.NewPlaceBetSpecification(c.Params("code"), bidderID, price)
	if err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.service.PlaceBet(c.Context(), specification)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAuctionNotFound):
			return notFound(c)
		case errors.Is(err, domain.ErrVersionConflict):
			// the bid raced another writer, the client may retry
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "auction was modified concurrently, retry"})
		default:
			log.Error("placeBet handler failed",
				zap.String("code", c.Params("code")),
				zap.Error(err),
			)
			return internalError(c)
		}
	}

	response := placeBetResponse{Status: string(result.Status())}
	if bet, ok := result.Bet(); ok {
		response.Bet = &application.BetDTO{
			ID:           bet.ID.String(),
			BidderID:     bet.BidderID.String(),
			Price:        bet.Price.Amount().String(),
			CreationTime: bet.CreationTime,
		}
	}
	return c.JSON(response)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "auction not found"})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

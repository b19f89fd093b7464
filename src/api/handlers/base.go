package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"tradetracker/src/config"
	"tradetracker/src/models"
	"tradetracker/src/repositories"
	"tradetracker/src/services"
	"tradetracker/src/utils"

	"github.com/go-chi/jwtauth"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB        *pgxpool.Pool
	TokenAuth *jwtauth.JWTAuth
	Auth      config.AuthConfig

	BrokerAccountRepository repositories.BrokerAccountRepository
	PortfolioRepository     repositories.PortfolioRepository
	InstrumentRepository    repositories.InstrumentRepository
	FeeRuleRepository       repositories.FeeRuleRepository
	TradeRepository         repositories.TradeRepository
	HoldingRepository       repositories.HoldingRepository

	SettlementService     services.SettlementServiceI
	ReconciliationService services.ReconciliationServiceI

	instrumentsCache *utils.Cache[[]models.Instrument]
}

func NewHandler(
	db *pgxpool.Pool,
	tokenAuth *jwtauth.JWTAuth,
	auth config.AuthConfig,
	settlementService services.SettlementServiceI,
	reconciliationService services.ReconciliationServiceI,
) *Handler {
	return &Handler{
		DB:        db,
		TokenAuth: tokenAuth,
		Auth:      auth,

		BrokerAccountRepository: repositories.NewBrokerAccountRepository(db),
		PortfolioRepository:     repositories.NewPortfolioRepository(db),
		InstrumentRepository:    repositories.NewInstrumentRepository(db),
		FeeRuleRepository:       repositories.NewFeeRuleRepository(db),
		TradeRepository:         repositories.NewTradeRepository(db),
		HoldingRepository:       repositories.NewHoldingRepository(db),

		SettlementService:     settlementService,
		ReconciliationService: reconciliationService,

		instrumentsCache: utils.NewCache[[]models.Instrument](),
	}
}

func (h *Handler) respond(w http.ResponseWriter, _ *http.Request, data interface{}, status int) {
	res, err := json.Marshal(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(res)
}

// HandleErrors maps domain errors onto HTTP status codes. Missing referenced
// records translate to 404 and oversells to 409.
func (h *Handler) HandleErrors(w http.ResponseWriter, err error) {
	var notFound *services.NotFoundError
	var insufficient *services.InsufficientHoldingsError
	var httpErr *utils.HTTPError

	switch {
	case errors.As(err, &httpErr):
		utils.WriteError(w, httpErr)
	case errors.As(err, &notFound):
		utils.WriteError(w, utils.NotFound(notFound.Error()))
	case errors.As(err, &insufficient):
		utils.WriteError(w, utils.Conflict(insufficient.Error()))
	case errors.Is(err, services.ErrInvalidTradeType),
		errors.Is(err, services.ErrNonPositiveQty),
		errors.Is(err, services.ErrNonPositivePrice):
		utils.WriteError(w, utils.BadRequest(err.Error()))
	default:
		utils.WriteError(w, err)
	}
}

func Healthcheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

package api

import (
	"net/http"
	"time"

	handlers "tradetracker/src/api/handlers"
	"tradetracker/src/config"
	"tradetracker/src/database"
	"tradetracker/src/repositories"
	"tradetracker/src/services"
	"tradetracker/src/utils"
	redis_utils "tradetracker/src/utils/redis"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/sirupsen/logrus"
)

type Server struct {
	Router    *chi.Mux
	Handler   *handlers.Handler
	Logger    *logrus.Logger
	Port      string
	tokenAuth *jwtauth.JWTAuth
}

func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.SetupDB(cfg)
	if err != nil {
		return nil, err
	}

	// The redis cache tier is optional; fee lookups work without it.
	var cache *redis_utils.RedisHandler
	if cfg.Databases.Redis.Host != "" {
		cache, err = redis_utils.NewRedisHandler(cfg)
		if err != nil {
			return nil, err
		}
	}

	portfolioRepo := repositories.NewPortfolioRepository(db)
	instrumentRepo := repositories.NewInstrumentRepository(db)
	tradeRepo := repositories.NewTradeRepository(db)
	holdingRepo := repositories.NewHoldingRepository(db)
	feeRuleRepo := repositories.NewFeeRuleRepository(db)

	feeService := services.NewFeeService(feeRuleRepo, cache, cfg.Fees.CacheTTL)
	settlementService := services.NewSettlementService(portfolioRepo, instrumentRepo, tradeRepo, holdingRepo, feeService)
	reconciliationService := services.NewReconciliationService(portfolioRepo, tradeRepo, holdingRepo)

	tokenAuth := jwtauth.New("HS256", []byte(cfg.Auth.Secret), nil)

	logLevel, err := logrus.ParseLevel(cfg.Service.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}

	server := &Server{
		Router:    chi.NewRouter(),
		Handler:   handlers.NewHandler(db, tokenAuth, cfg.Auth, settlementService, reconciliationService),
		Logger:    utils.NewLogger(logLevel, false, ""),
		Port:      cfg.Service.Port,
		tokenAuth: tokenAuth,
	}
	server.InitRoutes()
	return server, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// withLogger injects the service logger into every request context.
func (s *Server) withLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(utils.WithLogger(r.Context(), s.Logger)))
	})
}

func (s *Server) InitRoutes() {
	s.Router.Use(s.withLogger)

	s.Router.Get("/alive", handlers.Healthcheck)
	s.Router.Post("/api/token", s.Handler.PostToken)

	s.Router.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(s.tokenAuth))
		r.Use(jwtauth.Authenticator)

		r.Route("/api/broker-accounts", func(r chi.Router) {
			r.Get("/", s.Handler.GetAllBrokerAccounts)
			r.Post("/", s.Handler.CreateBrokerAccount)
			r.Get("/{id}", s.Handler.GetBrokerAccountByID)
			r.Get("/{id}/fee-rules", s.Handler.GetBrokerAccountFeeRules)
		})

		r.Route("/api/fee-rules", func(r chi.Router) {
			r.Post("/", s.Handler.CreateFeeRule)
		})

		r.Route("/api/instruments", func(r chi.Router) {
			r.Get("/", s.Handler.GetAllInstruments)
			r.Post("/", s.Handler.CreateInstrument)
			r.Get("/{id}", s.Handler.GetInstrumentByID)
		})

		r.Route("/api/portfolios", func(r chi.Router) {
			r.Get("/", s.Handler.GetAllPortfolios)
			r.Post("/", s.Handler.CreatePortfolio)
			r.Get("/{id}", s.Handler.GetPortfolioByID)
			r.Delete("/{id}", s.Handler.DeletePortfolio)
			r.Get("/{id}/holdings", s.Handler.GetPortfolioHoldings)
			r.Get("/{id}/trades", s.Handler.GetPortfolioTrades)
			r.Post("/{id}/reconcile", s.Handler.ReconcilePortfolio)
		})

		r.Route("/api/trades", func(r chi.Router) {
			r.Post("/", s.Handler.PostTrade)
			r.Get("/{id}", s.Handler.GetTradeByID)
		})
	})
}

func NewHTTPServer(server *Server) *http.Server {
	httpServer := &http.Server{
		Addr:         ":" + server.Port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Handler:      server,
	}
	return httpServer
}

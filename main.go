package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"

	"tradetracker/src/api"
	"tradetracker/src/config"
	"tradetracker/src/scheduler"
	"tradetracker/src/utils"
)

func main() {
	cfg, err := config.LoadConfig("./settings", os.Getenv("ENV"))
	if err != nil {
		log.Println(err, "Error while loading config")
		return
	}
	errC, err := run(cfg)
	if err != nil {
		log.Println(err, "Couldn't run")
		return
	}

	if err := <-errC; err != nil {
		log.Println(err, "Error while running")
	}
}

func run(cfg *config.Config) (<-chan error, error) {
	errC := make(chan error, 1)

	server, err := api.NewServer(cfg)
	if err != nil {
		return nil, err
	}
	httpServer := api.NewHTTPServer(server)

	if cfg.Reconciliation.CronSpec != "" {
		_, err := scheduler.NewScheduledTask(cfg.Reconciliation.CronSpec, func() {
			ctx := utils.WithLogger(context.Background(), server.Logger)
			if err := server.Handler.ReconciliationService.ReconcileAll(ctx); err != nil {
				server.Logger.WithError(err).Error("holdings reconciliation run failed")
			}
		})
		if err != nil {
			return nil, err
		}
	}

	go func() {
		log.Println("Starting server on port", server.Port)

		// "ListenAndServe always returns a non-nil error. After Shutdown or Close, the returned error is
		// ErrServerClosed."
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalln("An error raised while setting up server", err)
			errC <- err
		}
	}()
	return errC, nil
}

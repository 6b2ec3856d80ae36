package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	echoapi "github.com/tkoide/shutsugan/apps/api/echo"
	"github.com/tkoide/shutsugan/core"
	"github.com/tkoide/shutsugan/core/catalog"
	"github.com/tkoide/shutsugan/core/roster"
	"github.com/tkoide/shutsugan/core/user"
	logsvc "github.com/tkoide/shutsugan/services/logger"
	"github.com/tkoide/shutsugan/storage/database"
	dummydb "github.com/tkoide/shutsugan/storage/database/dummy"
	"github.com/tkoide/shutsugan/storage/database/postgrest"
	"github.com/tkoide/shutsugan/storage/database/sqlpg"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	usrRepo, catRepo, rosterRepo, closeStore, err := setUpStore(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up reference store: %v", err), err)
	}
	defer func() {
		if err = closeStore(); err != nil {
			logger.Error(fmt.Sprintf("closing reference store: %v", err), err)
		}
	}()

	usrSvc := user.NewService(usrRepo)
	catSvc := catalog.NewService(catRepo)
	rosterSvc := roster.NewService(rosterRepo, catSvc)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			UserSvc:    usrSvc,
			RosterSvc:  rosterSvc,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// setUpStore wires the configured Reference Store backend.
func setUpStore(conf *core.Config) (user.Repository, catalog.Repository, roster.Repository, func() error, error) {
	noop := func() error { return nil }

	switch conf.Store.Backend {
	case "postgrest":
		client := postgrest.NewClient(conf)
		return postgrest.NewUserRepository(client),
			postgrest.NewCatalogRepository(client),
			postgrest.NewRosterRepository(client),
			noop, nil

	case "postgres":
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, nil, nil, nil, err
		}
		db, err := database.Open(conf)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		if err = database.Migrate(db.DB); err != nil {
			_ = db.Close()
			return nil, nil, nil, nil, err
		}
		return sqlpg.NewUserRepository(db),
			sqlpg.NewCatalogRepository(db),
			sqlpg.NewRosterRepository(db),
			db.Close, nil

	case "dummy":
		db, err := dummydb.Open()
		if err != nil {
			return nil, nil, nil, nil, err
		}
		return dummydb.NewUserRepository(db),
			dummydb.NewCatalogRepository(db),
			dummydb.NewRosterRepository(db),
			noop, nil
	}
	return nil, nil, nil, nil, errors.Errorf("unknown store backend %q", conf.Store.Backend)
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

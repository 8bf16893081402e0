package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"Seabed/internal/auth"
	"Seabed/internal/calc/anchor"
	"Seabed/internal/calc/capacity"
	"Seabed/internal/calc/lateral"
	"Seabed/internal/calc/loads"
	"Seabed/internal/calc/premium/autodesign"
	"Seabed/internal/calc/premium/batch"
	"Seabed/internal/calc/premium/importer"
	"Seabed/internal/calc/premium/recommend"
	"Seabed/internal/calc/report"
	"Seabed/internal/config"
	"Seabed/internal/profile"
	"Seabed/internal/repo"

	"github.com/gorilla/mux"
	"github.com/sgostarter/i/l"
	"golang.org/x/time/rate"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

// openRepo uses the in-process store for DATABASE_URL=memory.
func openRepo(ctx context.Context, cfg config.Config, logger l.Wrapper) (repo.Repository, func(), error) {
	if strings.HasPrefix(cfg.DatabaseURL, "memory") {
		logger.Info("using in-memory store")
		return repo.NewMemory(), func() {}, nil
	}
	db, err := repo.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	pg := repo.NewPostgres(db)
	if err := pg.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return pg, func() { db.Close() }, nil
}

func HandleList(router *mux.Router, cfg config.Config, store repo.Repository, logger l.Wrapper) {
	authEnv := &auth.Authenv{JWTkey: []byte(cfg.TokenKey), Repo: store, Logger: logger}
	eng := cfg.Engineering
	profileH := &profile.ProfileHandler{Repo: store, Profiles: repo.NewProfiles(store, logger), Settings: eng, Logger: logger}

	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.Burst)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods("GET")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	secureApi.HandleFunc("/profiles", profileH.List).Methods("GET")
	secureApi.HandleFunc("/profiles", profileH.Create).Methods("POST")
	secureApi.HandleFunc("/profiles/{id}", profileH.Get).Methods("GET")
	secureApi.HandleFunc("/profiles/{id}/evaluate", profileH.Evaluate).Methods("POST")
	secureApi.HandleFunc("/runs", profileH.Runs).Methods("GET")

	capacityH := &capacity.Handler{Materials: eng.Materials, Lateral: eng.Lateral}
	anchorH := &anchor.Handler{Settings: eng, Logger: logger}
	lateralH := &lateral.Handler{Config: eng.Lateral, E: eng.Materials.SteelModulus, Fy: eng.Materials.SteelYield}
	loadsH := &loads.Handler{Chain: eng.Chain}
	reportH := &report.Handler{Settings: eng, Logger: logger}
	autoH := &autodesign.Handler{Settings: eng, Logger: logger}
	batchH := &batch.Handler{Settings: eng, Logger: logger}
	recommendH := &recommend.Handler{Settings: eng, Logger: logger}
	importH := &importer.Handler{}

	secureApi.HandleFunc("/tools/capacity/calc", capacityH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/capacity/combinations", capacityH.Combinations).Methods("GET")
	secureApi.HandleFunc("/tools/anchor/calc", anchorH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/lateral/calc", lateralH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/loads/calc", loadsH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/loads/transfer", loadsH.Transfer).Methods("POST")
	secureApi.HandleFunc("/tools/report/pdf", reportH.Generate).Methods("POST")

	secureApi.HandleFunc("/premium/anchor/size", autoH.Anchor).Methods("POST")
	secureApi.HandleFunc("/premium/anchor/batch", batchH.Anchors).Methods("POST")
	secureApi.HandleFunc("/premium/anchor/recommend", recommendH.Anchor).Methods("POST")
	secureApi.HandleFunc("/premium/import/soil", importH.Soil).Methods("POST")
}

func main() {
	logger := l.NewConsoleLoggerWrapper()

	cfg, err := config.Load(".env")
	if err != nil {
		logger.WithFields(l.ErrorField(err)).Fatal("load config")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := openRepo(ctx, cfg, logger)
	if err != nil {
		logger.WithFields(l.ErrorField(err)).Fatal("open store")
	}
	defer closeStore()

	router := mux.NewRouter()
	HandleList(router, cfg, store, logger)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           CORS(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.WithFields(l.StringField("addr", cfg.ListenAddr)).Info("starting server")
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(l.ErrorField(err)).Error("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received, closing active connections")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(l.ErrorField(err)).Error("shutdown failed")
	}
	wg.Wait()
	logger.Info("server stopped")
}

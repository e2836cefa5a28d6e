package setup

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/gorilla/mux"

	"fingnet-server/config"
	"fingnet-server/handlers"
	"fingnet-server/routes"
	"fingnet-server/store"
)

func MustLoadConfig() *config.Config {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}
	return cfg
}

// MustInitStorage builds the façade and forces initialization up front so a
// broken environment fails at startup rather than on the first request.
func MustInitStorage(cfg *config.Config) *store.Storage {
	storage := store.New(store.Config{
		DatabaseURL:     cfg.DatabaseURL,
		MigrationsDir:   cfg.MigrationsDir,
		QuotaBytes:      cfg.QuotaBytes,
		FlatDir:         cfg.FlatDir,
		FlatBudgetBytes: cfg.FlatBudgetBytes,
		Tokens:          NewMemoryTokenProvider(),
	})

	if err := storage.Init(context.Background()); err != nil {
		log.Fatal("Error initializing storage: ", err)
	}

	if storage.Degraded() {
		color.New(color.FgYellow, color.Bold).Println("⚠️  Running on the flat fallback store")
	} else {
		color.New(color.FgGreen, color.Bold).Println("✅ Storage ready")
	}

	return storage
}

func StartServer(cfg *config.Config, storage *store.Storage) {
	if cfg.GoEnv == "development" {
		log.Println("In development mode.")
	}

	r := mux.NewRouter()
	routes.AddRoutes(r, handlers.NewApi(storage))

	go startServer(cfg.Port, r)
	log.Println("Started server on port " + cfg.Port)

	sigTermChan := make(chan os.Signal, 1)
	signal.Notify(sigTermChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigTermChan
		log.Println("Shutting down")
		os.Exit(0)
	}()

	select {}
}

func startServer(port string, r *mux.Router) {
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), r)
	if err != nil {
		log.Fatalf("Failed to start server on port %s: %v", port, err)
	}
}

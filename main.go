package main

import (
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"google.golang.org/grpc"

	"github.com/Billy-Davies-2/inazuma-guide/internal/config"
	"github.com/Billy-Davies-2/inazuma-guide/internal/dal"
	"github.com/Billy-Davies-2/inazuma-guide/internal/dataset"
	grpcserver "github.com/Billy-Davies-2/inazuma-guide/internal/grpc"
	"github.com/Billy-Davies-2/inazuma-guide/internal/handlers"
	"github.com/Billy-Davies-2/inazuma-guide/internal/logger"
	"github.com/Billy-Davies-2/inazuma-guide/internal/pubsub"
	"github.com/Billy-Davies-2/inazuma-guide/internal/teambuilder"
)

var (
	cfg       config.Config
	dataStore dal.TeamDAL
	catalog   *dataset.Catalog
	ps        *pubsub.PubSub
)

func main() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger first
	logger.Init(cfg.LogLevel)
	logger.Info("Starting Inazuma team builder", "environment", cfg.Environment)

	catalog, err = dataset.Default()
	if err != nil {
		logger.Error("Failed to load dataset", "error", err)
		log.Fatalf("Failed to load dataset: %v", err)
	}
	logger.Info("Dataset loaded",
		"players", len(catalog.Players()),
		"equipments", len(catalog.Equipments()),
		"hissatsu", len(catalog.Hissatsu()),
	)

	dataStore = openStore()
	defer dataStore.Close()

	ps = openPubSub()

	store := teambuilder.NewStore(dataStore, ps)

	// Start gRPC server in a goroutine
	go func() {
		addr := "0.0.0.0:" + cfg.GRPCPort
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			logger.Error("Failed to listen for gRPC", "error", err, "port", cfg.GRPCPort)
			log.Fatalf("Failed to listen for gRPC: %v", err)
		}

		grpcServer := grpc.NewServer()
		grpcserver.RegisterTeamBuilderServer(grpcServer, grpcserver.NewServer(store, catalog, ps))

		logger.Info("gRPC server starting", "address", addr)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("Failed to serve gRPC", "error", err)
			log.Fatalf("Failed to serve gRPC: %v", err)
		}
	}()

	mux := http.NewServeMux()
	handlers.NewAPIHandlers(store, catalog, ps, cfg.ShareBaseURL).Register(mux)

	// Health check endpoints
	mux.HandleFunc("/api/health", healthHandler)
	mux.HandleFunc("/healthz", livenessHandler) // Kubernetes liveness probe
	mux.HandleFunc("/readyz", readinessHandler) // Kubernetes readiness probe

	addr := "0.0.0.0:" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("Server starting", "address", addr)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("Server failed", "error", err)
		log.Fatal(err)
	}
}

func openStore() dal.TeamDAL {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		d, err := dal.NewSQLiteDAL(cfg.SQLiteFile)
		if err != nil {
			logger.Error("Failed to initialize SQLite", "error", err)
			log.Fatalf("Failed to initialize SQLite: %v", err)
		}
		logger.Info("Connected to SQLite database", "file", cfg.SQLiteFile)
		return d
	default:
		logger.Info("Using in-memory data store")
		return dal.NewMemoryDAL()
	}
}

func openPubSub() *pubsub.PubSub {
	switch cfg.NATSMode {
	case config.NATSModeEmbedded:
		logger.Info("Starting embedded NATS server for local development")
		opts := pubsub.DefaultEmbeddedNATSOptions()
		opts.Subject = cfg.NATSSubject
		opts.StoreDir = cfg.NATSStoreDir
		embedded, err := pubsub.NewEmbeddedNATSPubSub(opts)
		if err != nil {
			logger.Error("Failed to initialize embedded NATS", "error", err)
			log.Fatalf("Failed to initialize embedded NATS: %v", err)
		}
		logger.Info("Embedded NATS server ready", "url", embedded.ServerURL())
		return pubsub.NewWithUpstream(embedded)
	case config.NATSModeRemote:
		remote, err := pubsub.NewNATSPubSub(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			logger.Error("Failed to initialize NATS", "error", err)
			log.Fatalf("Failed to initialize NATS: %v", err)
		}
		logger.Info("Connected to NATS", "url", cfg.NATSURL)
		return pubsub.NewWithUpstream(remote)
	default:
		logger.Info("Using in-process pub/sub")
		return pubsub.New()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	// Check database connectivity
	if dataStore != nil {
		if _, err := dataStore.LoadTeam(); err != nil && !errors.Is(err, dal.ErrNotFound) {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			checks["database"] = map[string]any{
				"status": "unhealthy",
				"error":  err.Error(),
			}
		} else {
			checks["database"] = map[string]any{"status": "healthy", "driver": cfg.DBDriver}
		}
	} else {
		checks["database"] = map[string]any{"status": "not_configured"}
	}

	if catalog != nil {
		checks["dataset"] = map[string]any{"status": "healthy", "players": len(catalog.Players())}
	} else {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
		checks["dataset"] = map[string]any{"status": "not_loaded"}
	}

	if ps != nil {
		checks["pubsub"] = map[string]any{
			"status":      "healthy",
			"mode":        cfg.NATSMode,
			"subscribers": ps.SubscriberCount(),
		}
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"checks":    checks,
	})
}

// livenessHandler handles Kubernetes liveness probes
// Returns 200 if the application is running (doesn't check dependencies)
func livenessHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "alive",
		"timestamp": time.Now().Unix(),
	})
}

// readinessHandler handles Kubernetes readiness probes
// Returns 200 only once storage answers and the dataset is loaded
func readinessHandler(w http.ResponseWriter, r *http.Request) {
	if dataStore == nil || catalog == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"reason": "service not initialized",
		})
		return
	}
	if _, err := dataStore.LoadTeam(); err != nil && !errors.Is(err, dal.ErrNotFound) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"reason": "database not accessible",
			"error":  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ready",
		"timestamp": time.Now().Unix(),
	})
}

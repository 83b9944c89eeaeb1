package main

import (
	"net"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"animeverse/internal/grpcserver"
	"animeverse/internal/profile"
	"animeverse/internal/storage"
	synchub "animeverse/internal/sync"
	"animeverse/internal/watchstate"
	"animeverse/pkg/database"
	"animeverse/pkg/utils"
)

func main() {
	cfg, err := utils.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)

	dbCfg := database.DefaultConfig()
	if cfg.DBPath != "" {
		dbCfg.Path = cfg.DBPath
	}
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}
	store := storage.NewSQLiteStore(db)

	listener, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatalf("grpc listen failed: %v", err)
	}

	// Sync clients attach to the API server; events raised here have no
	// listeners of their own.
	hub := synchub.NewHub()
	profiles := profile.NewService(store, log)
	watch := watchstate.NewService(store, hub, log)
	svc := grpcserver.NewServer(profiles, watch, log)

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(grpcserver.LoggingInterceptor(log)))
	grpcserver.RegisterWatchStateServer(grpcServer, svc)

	log.WithField("addr", cfg.GRPCAddr).Info("gRPC server listening")
	if err := grpcServer.Serve(listener); err != nil {
		log.Fatalf("grpc server stopped: %v", err)
	}
}

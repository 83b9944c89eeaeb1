package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"animeverse/internal/auth"
	"animeverse/internal/catalog"
	"animeverse/internal/httpx"
	"animeverse/internal/playback"
	"animeverse/internal/profile"
	"animeverse/internal/router"
	"animeverse/internal/session"
	"animeverse/internal/settings"
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

	hub := synchub.NewHub()
	tcpSrv := synchub.NewServer(cfg.SyncAddr, hub, log)

	profiles := profile.NewService(store, log)
	watch := watchstate.NewService(store, hub, log)
	prefs := settings.NewService(store, log)
	cat := catalog.NewClient(cfg.Catalog, log)
	nav := router.NewNavigator(cat, watch, log)
	tokens := auth.TokenService{
		Secret:   []byte(cfg.Auth.JWTSecret),
		Issuer:   cfg.Auth.JWTIssuer,
		Duration: cfg.Auth.JWTDuration,
	}
	sess := session.New(profiles, watch, tokens, nav, hub, log)
	profiles.Subscribe(sess)
	player := playback.NewService(prefs, watch, log)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"127.0.0.1"})
	r.Use(
		httpx.RequestID(),
		httpx.AccessLog(log),
		httpx.Recovery(log),
		httpx.CORS(cfg.AllowedOrigins),
		httpx.SecurityHeaders(),
		httpx.NewRateLimiter(20, 40).Middleware(),
	)

	r.GET("/ws", synchub.WSHandler(hub, log, httpx.OriginAllowed(cfg.AllowedOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path})
	})

	r.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"db_error":    err.Error(),
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	// Public: profile picker, session switch, catalog browsing, theme.
	profile.NewHandler(profiles).RegisterRoutes(r.Group(""))
	session.NewHandler(sess).RegisterRoutes(r.Group(""))
	catalog.NewHandler(cat).RegisterRoutes(r.Group("/catalog"))
	settings.NewHandler(prefs).RegisterRoutes(r.Group("/settings"))

	// Everything scoped to the active profile.
	me := r.Group("/me")
	me.Use(auth.AuthMiddleware(tokens, sess))
	me.GET("", func(c *gin.Context) {
		claims := auth.MustGetClaims(c)
		c.JSON(http.StatusOK, gin.H{
			"profile_id": claims.ProfileID,
			"name":       claims.Name,
			"kids":       claims.Kids,
		})
	})
	watchstate.NewHandler(watch).RegisterRoutes(me)
	router.NewHandler(nav).RegisterRoutes(me)
	playback.NewHandler(player).RegisterRoutes(me.Group("/playback"))

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP API server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("shutdown signal received")
	case err := <-errCh:
		log.WithError(err).Error("server error")
	}

	log.Info("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown error")
	}
	if err := tcpSrv.Close(); err != nil {
		log.WithError(err).Warn("tcp shutdown error")
	}

	wg.Wait()
	log.Info("servers stopped")
}

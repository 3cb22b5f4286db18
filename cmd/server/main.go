// Package main is the entry point for the colormap server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atlasmap-sc/colormaps/internal/api"
	"github.com/atlasmap-sc/colormaps/internal/cache"
	"github.com/atlasmap-sc/colormaps/internal/config"
	"github.com/atlasmap-sc/colormaps/internal/metrics"
	"github.com/atlasmap-sc/colormaps/internal/render"
	"github.com/atlasmap-sc/colormaps/internal/service"
	"github.com/atlasmap-sc/colormaps/internal/store"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config/server.yaml", "Path to configuration file")
	noStore := flag.Bool("no-store", false, "Disable the persisted spec store")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting colormap server on port %d", cfg.Server.Port)

	if err := cfg.Simulation.Validate(); err != nil {
		log.Fatalf("Invalid simulation parameters: %v", err)
	}
	d := cfg.Simulation.Derive()
	log.Printf("Simulation: cell_z=%g fcen=%g (%.1f THz) df=%g, %d grid points",
		d.CellZ, d.CenterFrequency, d.CenterTHz, d.FrequencyWidth, d.GridPoints)

	ctx := context.Background()

	// Open spec store
	var specStore *store.Store
	if !*noStore {
		specStore, err = store.NewStore(cfg.Store.SQLitePath, nil)
		if err != nil {
			log.Fatalf("Failed to open spec store: %v", err)
		}
		defer specStore.Close()
		log.Printf("Spec store: sqlite=%s", cfg.Store.SQLitePath)
	}

	// Build the registry once; it is read-only after this point
	log.Printf("Registering colormaps")
	var src service.SpecSource
	if specStore != nil {
		src = specStore
	}
	registry, err := service.LoadRegistry(cfg.Colormaps, src, nil)
	if err != nil {
		log.Fatalf("Failed to build colormap registry: %v", err)
	}
	if _, ok := registry.Get(cfg.Render.DefaultColormap); !ok {
		log.Fatalf("Default colormap %q is not registered", cfg.Render.DefaultColormap)
	}
	log.Printf("%d colormap(s) registered, default: %s", registry.Len(), cfg.Render.DefaultColormap)

	// Initialize cache manager
	cacheManager, err := cache.NewManager(cache.Config{
		ImageCacheSizeMB: cfg.Cache.ImageSizeMB,
		ImageTTL:         time.Duration(cfg.Cache.ImageTTLMinutes) * time.Minute,
		QueryCacheSize:   cfg.Cache.QueryCacheSize,
	})
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}
	defer cacheManager.Close()

	renderer := render.NewRenderer(render.Config{
		ColorbarWidth:  cfg.Render.ColorbarWidth,
		ColorbarHeight: cfg.Render.ColorbarHeight,
	})

	m := metrics.New()

	colormapService, err := service.NewColormapService(service.ColormapServiceConfig{
		Registry:        registry,
		Cache:           cacheManager,
		Renderer:        renderer,
		Metrics:         m,
		DefaultColormap: cfg.Render.DefaultColormap,
		LUTSize:         cfg.Render.LUTSize,
	})
	if err != nil {
		log.Fatalf("Failed to initialize colormap service: %v", err)
	}
	defer colormapService.Close()

	// Set up HTTP router
	router := api.NewRouter(api.RouterConfig{
		Service:     colormapService,
		Store:       specStore,
		Simulation:  cfg.Simulation,
		Metrics:     m,
		CORSOrigins: cfg.Server.CORSOrigins,
		Title:       cfg.Server.Title,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on http://localhost:%d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

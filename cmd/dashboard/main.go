// Command dashboard serves the local analytics viewer: it proxies the
// accident backend into chart pages, filter endpoints and PDF reports.
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

	"github.com/rtaverse/dashboard/internal/charts"
	"github.com/rtaverse/dashboard/internal/config"
	"github.com/rtaverse/dashboard/internal/dashapi"
	"github.com/rtaverse/dashboard/internal/dashboard"
	"github.com/rtaverse/dashboard/internal/filter"
	"github.com/rtaverse/dashboard/internal/history"
	"github.com/rtaverse/dashboard/internal/httputil"
	"github.com/rtaverse/dashboard/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to JSON config file")
	backendURL  = flag.String("backend", "", "Backend base URL (overrides config)")
	listen      = flag.String("listen", "", "Listen address (overrides config)")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("dashboard %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	cfg := config.Empty()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	backend := cfg.GetBackendURL()
	if *backendURL != "" {
		backend = *backendURL
	}
	addr := cfg.GetListen()
	if *listen != "" {
		addr = *listen
	}

	hc := httputil.NewStandardClient(&http.Client{Timeout: cfg.GetRequestTimeout()})
	api := dashapi.NewClient(backend, hc)

	store := filter.NewStore()
	store.SetMode(filter.Mode{Model: cfg.GetForecastModel(), Horizon: cfg.GetForecastHorizon()})

	orch := dashboard.NewOrchestrator(api, store, charts.NewRegistry(), dashboard.NopView{})

	if path := cfg.GetHistoryDB(); path != "" {
		hist, err := history.NewStore(path)
		if err != nil {
			log.Fatalf("open filter history %s: %v", path, err)
		}
		defer hist.Close()
		orch.SetHistory(hist)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           dashboard.NewServer(orch).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("dashboard %s listening on %s (backend %s)", version.Version, addr, backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

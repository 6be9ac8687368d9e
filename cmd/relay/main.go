package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"CandlePulse/internal/config"
	"CandlePulse/internal/metrics"
	"CandlePulse/internal/relay"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] CandlePulse relay starting...")

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}

	m := metrics.New()
	rl := relay.NewRelay(cfg.Relay.ForwardURL, cfg.RelayTimeout(), m)

	mux := http.NewServeMux()
	rl.RegisterRoutes(mux)
	mux.Handle("/metrics", m.Handler())

	httpSrv := &http.Server{Addr: cfg.Relay.ListenAddr, Handler: mux}
	go func() {
		log.Printf("[INFO] relay listening on %s, forwarding to %s", cfg.Relay.ListenAddr, cfg.Relay.ForwardURL)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	if err := httpSrv.Shutdown(context.Background()); err != nil {
		log.Printf("[WARN] http shutdown: %v", err)
	}
	log.Println("[INFO] CandlePulse relay stopped")
}

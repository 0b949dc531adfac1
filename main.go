package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	tickRate := flag.Float64("tick", DefaultTickRate, "simulation tick rate in Hz")
	dbPath := flag.String("db", "gunbound.db", "telemetry database path (empty to disable)")
	logPath := flag.String("log", "", "log file path (empty for stderr)")
	flag.Parse()

	InitLogger(*logPath)
	defer SyncLogger()

	var db *DB
	if *dbPath != "" {
		var err error
		db, err = OpenDB(*dbPath)
		if err != nil {
			Log.Warnf("telemetry disabled, open db: %v", err)
			db = nil
		}
	}

	metrics := &Metrics{}
	analytics := NewAnalytics(db)
	registry := NewRegistry()

	hub := NewHub(registry, metrics, analytics)
	go hub.Run()

	engine := NewEngine(registry, *tickRate, metrics, analytics)
	go engine.Run()

	router := SetupRouter(hub, registry, metrics, db)
	server := &http.Server{Addr: *addr, Handler: router}

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		Log.Infof("server listening on %s (tick %.0f Hz)", *addr, *tickRate)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			Log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	Log.Info("shutting down...")
	server.Close()
	engine.Stop()
	analytics.Stop()
	if db != nil {
		db.Close()
	}
}

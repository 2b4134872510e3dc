package main

import (
	"flag"
	"log"
	"os"

	"github.com/flowgen/flowgen/pkg/api"
	"github.com/flowgen/flowgen/pkg/capture"
	"github.com/flowgen/flowgen/pkg/config"
	"github.com/flowgen/flowgen/pkg/session"
)

func main() {
	configPath := flag.String("config", "flowgen.yaml", "path to the configuration file")
	attach := flag.Bool("attach", true, "attach to a running browser and capture events")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	sess := session.New(
		session.WithLogger(log.New(os.Stdout, "[SESSION] ", log.LstdFlags)),
	)

	if *attach {
		bridge := capture.NewBridge(sess,
			capture.WithDebugPort(cfg.CapturePort),
			capture.WithLogger(log.New(os.Stdout, "[CAPTURE] ", log.LstdFlags)),
		)
		if err := bridge.Start(); err != nil {
			log.Fatalf("Failed to start capture bridge: %v", err)
		}
		defer bridge.Stop()
	}

	server := api.NewServer(sess, cfg,
		api.WithLogger(log.New(os.Stdout, "[API] ", log.LstdFlags)),
	)

	log.Printf("flowgen listening on %s", cfg.ListenAddr)
	if err := server.Start(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to start API server: %v", err)
	}
}

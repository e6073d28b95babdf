package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"go-firewatch/config"
	"go-firewatch/cronjobs"
	"go-firewatch/db"
	"go-firewatch/metrics"
	"go-firewatch/platform"
	"go-firewatch/routes"
	"go-firewatch/store"
	"go-firewatch/ws"

	"cloud.google.com/go/firestore"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Init firestore (optional: only when archive credentials are present)
	var firestoreClient *firestore.Client
	if cfg.FirestoreEnabled {
		firestoreClient, err = db.InitFirestore()
		if err != nil {
			log.Fatalf("Failed to initialize Firestore: %v", err)
		}
		defer db.CloseFirestore() // Firestore client is closed on exit
	} else {
		log.Println("FIREBASE_CREDENTIALS not set, sequence archive disabled")
	}

	// Platform API client; authenticate up front so a bad credential fails
	// the boot instead of the first poll.
	platformClient := platform.NewClient(cfg.APIURL, cfg.APILogin, cfg.APIPwd)
	if err := platformClient.Authenticate(context.Background()); err != nil {
		log.Fatalf("Failed to authenticate against the platform API: %v", err)
	}

	st := store.New(cfg.DetectionsTTL)
	hub := ws.NewHub()
	m := metrics.New(hub.ClientCount)

	deps := cronjobs.Deps{
		Cfg:       cfg,
		Platform:  platformClient,
		Store:     st,
		Hub:       hub,
		Metrics:   m,
		Firestore: firestoreClient,
	}

	// Warm the caches before the first request lands.
	cronjobs.RefreshCameras(deps)
	cronjobs.PollSequences(deps)

	// Initialize cron jobs
	cronjobs.InitCronJobs(deps)

	r := routes.SetupRouter(routes.Deps{
		Cfg:       cfg,
		Store:     st,
		Platform:  platformClient,
		Firestore: firestoreClient,
		Hub:       hub,
		Metrics:   m,
	})
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

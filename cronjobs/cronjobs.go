package cronjobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/robfig/cron/v3"

	"go-firewatch/config"
	"go-firewatch/geocode"
	"go-firewatch/metrics"
	"go-firewatch/platform"
	"go-firewatch/sequences"
	"go-firewatch/store"
	"go-firewatch/ws"

	fsdb "go-firewatch/db"
)

// Deps bundles what the scheduled jobs act on. Firestore is nil when the
// archive integration is disabled.
type Deps struct {
	Cfg       config.Config
	Platform  *platform.Client
	Store     *store.Store
	Hub       *ws.Hub
	Metrics   *metrics.Metrics
	Firestore *firestore.Client
}

// PollSequences fetches the live unlabeled sequences and swaps them into
// the store when change detection says the snapshot materially moved.
// Dashboard clients are only notified on an actual swap.
func PollSequences(d Deps) {
	d.Metrics.PollsTotal.Add(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	seqs, err := d.Platform.Sequences(ctx, time.Time{})
	if err != nil {
		d.Metrics.PollErrors.Add(1)
		log.Printf("Error fetching sequences: %v", err)
		return
	}

	// Keep only the recent window the live feed shows.
	seqs = sequences.PastNDays(seqs, d.Cfg.HistoryDays, time.Now())

	if !d.Store.ReplaceSequences(seqs) {
		d.Metrics.PollsUnchanged.Add(1)
		return
	}
	d.Metrics.SnapshotReplacements.Add(1)

	d.Hub.BroadcastUpdate(ws.UpdateMessage{
		Type:      "sequences_updated",
		Version:   d.Store.Version(),
		Sequences: len(seqs),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	d.Metrics.BroadcastsTotal.Add(1)
}

// RefreshCameras reloads the camera registry and fills in missing site
// addresses via reverse geocoding when the maps integration is enabled.
func RefreshCameras(d Deps) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cams, err := d.Platform.Cameras(ctx)
	if err != nil {
		log.Printf("Error fetching cameras: %v", err)
		return
	}

	if d.Cfg.MapsEnabled {
		known := make(map[int64]string)
		for _, cam := range d.Store.Cameras() {
			known[cam.ID] = cam.Address
		}
		for i := range cams {
			if addr, ok := known[cams[i].ID]; ok && addr != "" {
				cams[i].Address = addr
				continue
			}
			addr, err := geocode.ReverseGeocode(cams[i].Lat, cams[i].Lon)
			if err != nil {
				log.Printf("Failed to reverse geocode camera %s: %v", cams[i].Name, err)
				continue
			}
			cams[i].Address = addr
		}
	}

	d.Store.SetCameras(cams)
	d.Metrics.CameraRefreshes.Add(1)
	log.Printf("Camera registry refreshed: %d cameras", len(cams))
}

// ArchiveSnapshot writes the current sequence snapshot to Firestore.
func ArchiveSnapshot(d Deps) {
	if d.Firestore == nil {
		return
	}
	if err := fsdb.ArchiveSequences(d.Firestore, d.Store.Sequences()); err != nil {
		log.Printf("Error archiving sequences: %v", err)
		return
	}
	d.Metrics.ArchiveRuns.Add(1)
}

// InitCronJobs schedules the polling, registry refresh and archive jobs and
// starts the scheduler.
func InitCronJobs(d Deps) *cron.Cron {
	log.Println("\nStarting Cron Jobs -------------------------------------------------------")
	c := cron.New()

	// Sequence poll: the heartbeat of the live dashboard.
	_, err := c.AddFunc(fmt.Sprintf("@every %s", d.Cfg.PollInterval), func() {
		PollSequences(d)
	})
	if err != nil {
		log.Println("Error scheduling sequence poll", err)
	}

	// Camera registry: changes rarely, refresh hourly.
	_, err = c.AddFunc("@every 1h", func() {
		log.Println("\nCronJob: Camera Refresh Running")
		RefreshCameras(d)
	})
	if err != nil {
		log.Println("Error scheduling camera refresh:", err)
	}

	// Archive sweep: nightly, off the operator's peak hours.
	_, err = c.AddFunc("0 3 * * *", func() {
		log.Println("\nCronJob: Archive Sweep Running")
		ArchiveSnapshot(d)
	})
	if err != nil {
		log.Println("Error scheduling archive sweep:", err)
	}

	c.Start()
	return c
}

package main

import (
	"context"
	"time"

	"github.com/galleria-go/internal/viewer"
	"github.com/galleria-go/pkg/config"
	"github.com/galleria-go/pkg/logger"
)

func main() {
	cfg, err := config.Load("gallery")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Logger)

	client := viewer.NewHTTPClient(cfg.Viewer.FacadeURL, time.Duration(cfg.Viewer.Timeout)*time.Second)

	deps := viewer.Deps{
		Opener:  &logOpener{log: log},
		Alerter: &logAlerter{log: log},
	}
	if cfg.Viewer.DownloadDir != "" {
		deps.Saver = viewer.NewAFSDirectorySaver(cfg.Viewer.DownloadDir)
	}

	v := viewer.New(client, deps, viewer.OptionsFromConfig(cfg.Viewer), log)

	ctx := context.Background()
	v.Load(ctx)

	if msg := v.LoadError(); msg != "" {
		log.Fatal("Failed to load gallery", "facade_url", cfg.Viewer.FacadeURL, "error", msg)
	}

	counts := v.Counts()
	log.Info("Gallery loaded",
		"files", counts[viewer.FilterAll],
		"images", counts[viewer.FilterImage],
		"videos", counts[viewer.FilterVideo],
		"audio", counts[viewer.FilterAudio],
		"text", counts[viewer.FilterText],
	)

	if pd := v.Participants(); pd != nil {
		log.Info("Participants loaded", "count", pd.TotalCount)
	} else {
		log.Warn("Participants unavailable", "error", v.ParticipantsError())
	}

	if cfg.Viewer.DownloadDir != "" {
		count, err := v.BulkDownload(ctx)
		if err != nil {
			log.Fatal("Bulk download failed", "error", err)
		}
		log.Info("Downloaded gallery", "files", count, "dir", cfg.Viewer.DownloadDir)
	}
}

// logOpener stands in for the platform's save dialog when no download
// directory is configured: it reports the URL instead of fetching it.
type logOpener struct {
	log logger.Logger
}

func (o *logOpener) Open(ctx context.Context, url string) error {
	o.log.Info("Open file URL", "url", url)
	return nil
}

type logAlerter struct {
	log logger.Logger
}

func (a *logAlerter) Alert(message string) {
	a.log.Error(message)
}

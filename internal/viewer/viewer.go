// Package viewer holds the client-side gallery state: the fetched file
// list, classification, filters, and the single/bulk download and
// delete operations.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/galleria-go/internal/domain/gallery"
	"github.com/galleria-go/pkg/config"
	"github.com/galleria-go/pkg/logger"
	"github.com/galleria-go/pkg/metrics"
)

// ErrBusy is returned when a bulk operation is requested while another
// one is still running. Bulk operations cannot be cancelled; the
// triggering control is simply disabled until completion.
var ErrBusy = errors.New("a bulk operation is already running")

// ContentUnavailable is the placeholder shown when a text file's bytes
// could not be fetched.
const ContentUnavailable = "content unavailable"

type Filter string

const (
	FilterAll          Filter = "all"
	FilterImage        Filter = "image"
	FilterVideo        Filter = "video"
	FilterAudio        Filter = "audio"
	FilterText         Filter = "text"
	FilterParticipants Filter = "participants"
)

// Options carries the viewer's pacing knobs. The inter-file delays are
// deliberate backpressure toward the provider and the platform's
// download throttling.
type Options struct {
	DownloadDelay time.Duration
	DeleteDelay   time.Duration
	NoticeTTL     time.Duration
}

func DefaultOptions() Options {
	return Options{
		DownloadDelay: 500 * time.Millisecond,
		DeleteDelay:   100 * time.Millisecond,
		NoticeTTL:     4 * time.Second,
	}
}

func OptionsFromConfig(cfg config.ViewerConfig) Options {
	return Options{
		DownloadDelay: cfg.DownloadDelay(),
		DeleteDelay:   cfg.DeleteDelay(),
		NoticeTTL:     cfg.NoticeTTL(),
	}
}

// Notice is a transient success message that auto-dismisses after the
// configured TTL.
type Notice struct {
	ID      string
	Message string
	Count   int
}

// Confirmer approves a destructive bulk operation before it starts.
// Dismiss is called when the operation completes.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
	Dismiss()
}

// Alerter surfaces a blocking failure to the user.
type Alerter interface {
	Alert(message string)
}

// Deps are the platform capabilities the viewer renders through. Saver
// may be nil when no directory-handle capability exists.
type Deps struct {
	Saver     DirectorySaver
	Opener    URLOpener
	Confirmer Confirmer
	Alerter   Alerter
}

// Viewer owns all client-side state. Mutations go through its methods
// only; there are no ambient globals.
type Viewer struct {
	client Client
	deps   Deps
	opts   Options
	logger logger.Logger

	mu                sync.Mutex
	files             []gallery.FileRecord
	textContent       map[string]string
	filter            Filter
	loadError         string
	participants      *gallery.ParticipantsData
	participantsError string
	previewKey        string
	busy              bool
	notice            *Notice
}

func New(client Client, deps Deps, opts Options, log logger.Logger) *Viewer {
	return &Viewer{
		client:      client,
		deps:        deps,
		opts:        opts,
		logger:      log,
		textContent: make(map[string]string),
		filter:      FilterAll,
	}
}

// Load fetches the file list once. A list failure sets a visible error
// state and halts the text-content pass; the participants load still
// runs afterwards as an independent attempt over whatever was fetched.
func (v *Viewer) Load(ctx context.Context) {
	records, err := v.client.ListFiles(ctx)
	if err != nil {
		v.logger.Error("Failed to load file list", "error", err)
		v.mu.Lock()
		v.loadError = "Failed to load files"
		v.mu.Unlock()
	} else {
		v.mu.Lock()
		v.files = records
		v.loadError = ""
		v.mu.Unlock()
		v.loadTextContent(ctx)
	}

	v.loadParticipants(ctx)
}

// loadTextContent fetches text file bytes one at a time. A per-file
// failure degrades to a placeholder instead of failing the load.
func (v *Viewer) loadTextContent(ctx context.Context) {
	for _, rec := range v.Files() {
		if rec.Type != gallery.TypeText {
			continue
		}
		content := ContentUnavailable
		data, err := v.client.FetchContent(ctx, rec.URL)
		if err != nil {
			v.logger.Warn("Failed to fetch text content", "key", rec.Key, "error", err)
		} else {
			content = string(data)
		}
		v.mu.Lock()
		v.textContent[rec.Key] = content
		v.mu.Unlock()
	}
}

func (v *Viewer) loadParticipants(ctx context.Context) {
	var rosterURL string
	for _, rec := range v.Files() {
		if gallery.IsParticipantsFile(rec.Name) {
			rosterURL = rec.URL
			break
		}
	}

	if rosterURL == "" {
		v.mu.Lock()
		v.participantsError = "participants file not found"
		v.mu.Unlock()
		return
	}

	data, err := v.client.FetchContent(ctx, rosterURL)
	if err != nil {
		v.logger.Warn("Failed to fetch participants file", "error", err)
		v.mu.Lock()
		v.participantsError = "failed to load participants"
		v.mu.Unlock()
		return
	}

	pd, err := gallery.ParseParticipants(data)
	if err != nil {
		v.logger.Warn("Failed to parse participants file", "error", err)
		v.mu.Lock()
		v.participantsError = "failed to load participants"
		v.mu.Unlock()
		return
	}

	v.mu.Lock()
	v.participants = pd
	v.participantsError = ""
	v.mu.Unlock()
}

// Files returns a copy of the full in-memory list.
func (v *Viewer) Files() []gallery.FileRecord {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]gallery.FileRecord, len(v.files))
	copy(out, v.files)
	return out
}

func (v *Viewer) SetFilter(f Filter) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = f
}

func (v *Viewer) Filter() Filter {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

// Filtered returns the media files visible under the current filter.
// Unknown-typed files are excluded from every view, including "all".
// The participants pseudo-filter shows no media files at all.
func (v *Viewer) Filtered() []gallery.FileRecord {
	v.mu.Lock()
	defer v.mu.Unlock()

	var out []gallery.FileRecord
	switch v.filter {
	case FilterParticipants:
		return out
	case FilterAll:
		for _, rec := range v.files {
			if rec.Type != gallery.TypeUnknown {
				out = append(out, rec)
			}
		}
	default:
		want := gallery.FileType(v.filter)
		for _, rec := range v.files {
			if rec.Type == want {
				out = append(out, rec)
			}
		}
	}
	return out
}

// Counts recomputes per-category counts from the full list on every
// call. Linear in file count, fine at gallery scale.
func (v *Viewer) Counts() map[Filter]int {
	v.mu.Lock()
	defer v.mu.Unlock()

	counts := map[Filter]int{
		FilterAll:          0,
		FilterImage:        0,
		FilterVideo:        0,
		FilterAudio:        0,
		FilterText:         0,
		FilterParticipants: 0,
	}
	for _, rec := range v.files {
		switch rec.Type {
		case gallery.TypeImage:
			counts[FilterImage]++
		case gallery.TypeVideo:
			counts[FilterVideo]++
		case gallery.TypeAudio:
			counts[FilterAudio]++
		case gallery.TypeText:
			counts[FilterText]++
		default:
			continue
		}
		counts[FilterAll]++
	}
	if v.participants != nil {
		counts[FilterParticipants] = len(v.participants.Participants)
	}
	return counts
}

func (v *Viewer) LoadError() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loadError
}

func (v *Viewer) Participants() *gallery.ParticipantsData {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.participants
}

func (v *Viewer) ParticipantsError() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.participantsError
}

// TextContent returns the cached content for a text file key, if any.
func (v *Viewer) TextContent(key string) (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	content, ok := v.textContent[key]
	return content, ok
}

func (v *Viewer) OpenPreview(key string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.previewKey = key
}

func (v *Viewer) ClosePreview() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.previewKey = ""
}

func (v *Viewer) PreviewKey() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.previewKey
}

func (v *Viewer) Busy() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.busy
}

func (v *Viewer) Notice() *Notice {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.notice
}

// DownloadFile downloads one file. With a directory saver the bytes
// are written into the chosen directory; any error on that path falls
// back to opening the URL directly.
func (v *Viewer) DownloadFile(ctx context.Context, key string) error {
	rec, ok := v.findFile(key)
	if !ok {
		return fmt.Errorf("unknown file key: %s", key)
	}

	if v.deps.Saver != nil {
		err := v.saveToDirectory(ctx, rec)
		if err == nil {
			return nil
		}
		v.logger.Warn("Directory save failed, opening URL instead", "key", key, "error", err)
	}
	return v.deps.Opener.Open(ctx, rec.URL)
}

func (v *Viewer) saveToDirectory(ctx context.Context, rec gallery.FileRecord) error {
	if err := v.deps.Saver.Acquire(ctx); err != nil {
		return err
	}
	data, err := v.client.FetchContent(ctx, rec.URL)
	if err != nil {
		return err
	}
	return v.deps.Saver.Save(ctx, rec.Name, data)
}

// BulkDownload downloads every file in the current filtered view. If
// the directory saver can be acquired once, files are written
// sequentially with no inter-file delay; otherwise each URL is opened
// individually, paced by DownloadDelay to avoid download throttling.
func (v *Viewer) BulkDownload(ctx context.Context) (int, error) {
	if !v.beginBulk() {
		return 0, ErrBusy
	}
	defer v.endBulk()

	metrics.BulkOperationsTotal.WithLabelValues("download").Inc()
	filtered := v.Filtered()

	useDirectory := false
	if v.deps.Saver != nil {
		if err := v.deps.Saver.Acquire(ctx); err != nil {
			v.logger.Warn("Directory unavailable, falling back to per-file downloads", "error", err)
		} else {
			useDirectory = true
		}
	}

	count := 0
	if useDirectory {
		for _, rec := range filtered {
			data, err := v.client.FetchContent(ctx, rec.URL)
			if err != nil {
				v.logger.Warn("Failed to fetch file", "key", rec.Key, "error", err)
				continue
			}
			if err := v.deps.Saver.Save(ctx, rec.Name, data); err != nil {
				v.logger.Warn("Failed to save file", "key", rec.Key, "error", err)
				continue
			}
			count++
		}
		return count, nil
	}

	limiter := rate.NewLimiter(rate.Every(v.opts.DownloadDelay), 1)
	for _, rec := range filtered {
		if err := limiter.Wait(ctx); err != nil {
			return count, err
		}
		if err := v.deps.Opener.Open(ctx, rec.URL); err != nil {
			v.logger.Warn("Failed to open file URL", "key", rec.Key, "error", err)
			continue
		}
		count++
	}
	return count, nil
}

// DeleteFile deletes one file through the facade. On success the
// record leaves the in-memory list, a preview referencing it closes,
// and a transient notice appears. On failure local state is untouched
// and the user gets a blocking alert.
func (v *Viewer) DeleteFile(ctx context.Context, key string) error {
	if err := v.client.DeleteFile(ctx, key); err != nil {
		if v.deps.Alerter != nil {
			v.deps.Alerter.Alert("Failed to delete file")
		}
		return err
	}

	v.removeFile(key)
	v.setNotice("Deleted 1 file", 1)
	return nil
}

// BulkDelete deletes the current filtered view sequentially, paced by
// DeleteDelay. It requires confirmation first and dismisses the
// confirmation on completion. Per-item failures do not abort the
// sequence; the notice reports the honest success count.
func (v *Viewer) BulkDelete(ctx context.Context) (int, error) {
	if !v.beginBulk() {
		return 0, ErrBusy
	}
	defer v.endBulk()

	filtered := v.Filtered()
	if len(filtered) == 0 {
		return 0, nil
	}

	prompt := fmt.Sprintf("Delete %d files? This cannot be undone.", len(filtered))
	if v.deps.Confirmer == nil || !v.deps.Confirmer.Confirm(ctx, prompt) {
		return 0, nil
	}
	defer v.deps.Confirmer.Dismiss()

	metrics.BulkOperationsTotal.WithLabelValues("delete").Inc()

	limiter := rate.NewLimiter(rate.Every(v.opts.DeleteDelay), 1)
	deleted := 0
	for _, rec := range filtered {
		if err := limiter.Wait(ctx); err != nil {
			break
		}
		if err := v.client.DeleteFile(ctx, rec.Key); err != nil {
			v.logger.Warn("Failed to delete file", "key", rec.Key, "error", err)
			continue
		}
		v.removeFile(rec.Key)
		deleted++
	}

	v.setNotice(fmt.Sprintf("Deleted %d of %d files", deleted, len(filtered)), deleted)
	return deleted, nil
}

func (v *Viewer) findFile(key string) (gallery.FileRecord, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, rec := range v.files {
		if rec.Key == key {
			return rec, true
		}
	}
	return gallery.FileRecord{}, false
}

func (v *Viewer) removeFile(key string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	kept := v.files[:0]
	for _, rec := range v.files {
		if rec.Key != key {
			kept = append(kept, rec)
		}
	}
	v.files = kept
	delete(v.textContent, key)
	if v.previewKey == key {
		v.previewKey = ""
	}
}

func (v *Viewer) setNotice(message string, count int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := uuid.New().String()
	v.notice = &Notice{ID: id, Message: message, Count: count}

	if v.opts.NoticeTTL <= 0 {
		return
	}
	time.AfterFunc(v.opts.NoticeTTL, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if v.notice != nil && v.notice.ID == id {
			v.notice = nil
		}
	})
}

func (v *Viewer) beginBulk() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.busy {
		return false
	}
	v.busy = true
	return true
}

func (v *Viewer) endBulk() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.busy = false
}

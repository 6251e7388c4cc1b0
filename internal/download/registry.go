package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/openra/ra-launcher/internal/bridge"
	"github.com/openra/ra-launcher/internal/model"
	"github.com/openra/ra-launcher/internal/platform"
)

// Registry defaults
const (
	DefaultMaxParallel = 2
	DefaultFetchLimit  = 4 << 20
	PartialSuffix      = ".part"
	copyBufferSize     = 32 << 10
)

// Errors reported by the registry
var (
	ErrClosed        = errors.New("download registry closed")
	ErrNotRegistered = errors.New("download not registered")
	ErrNotCompleted  = errors.New("download not completed")
)

// Options configures a Registry
type Options struct {
	Directory   string // base directory destination paths are joined below
	MaxParallel int    // concurrent transfers, DefaultMaxParallel if < 1
	RateLimit   int64  // shared bandwidth cap in bytes per second, 0 for none
	FetchLimit  int64  // maximum fetch payload, DefaultFetchLimit if < 1
	Client      *http.Client
	Bridge      bridge.Bridge
	Logger      *slog.Logger
}

var _ Downloader = (*Registry)(nil)

// Registry tracks keyed downloads and outstanding fetches
type Registry struct {
	entries      map[string]*model.DownloadEntry
	entriesMutex sync.RWMutex
	closed       bool

	directory  string
	fetchLimit int64
	client     *http.Client
	limiter    *rate.Limiter
	slots      chan struct{}
	bridge     bridge.Bridge
	logger     *slog.Logger
	onUpdate   func(model.DownloadEntry) // callback for UI updates

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRegistry creates a new download registry
func NewRegistry(opts Options) *Registry {
	maxParallel := opts.MaxParallel
	if maxParallel < 1 {
		maxParallel = DefaultMaxParallel
	}
	fetchLimit := opts.FetchLimit
	if fetchLimit < 1 {
		fetchLimit = DefaultFetchLimit
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{Proxy: http.ProxyFromEnvironment},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				return nil
			},
		}
	}
	b := opts.Bridge
	if b == nil {
		b = bridge.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), int(opts.RateLimit))
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		entries:    make(map[string]*model.DownloadEntry),
		directory:  opts.Directory,
		fetchLimit: fetchLimit,
		client:     client,
		limiter:    limiter,
		slots:      make(chan struct{}, maxParallel),
		bridge:     b,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// SetUpdateCallback sets the callback function for entry updates
func (r *Registry) SetUpdateCallback(callback func(model.DownloadEntry)) {
	r.entriesMutex.Lock()
	r.onUpdate = callback
	r.entriesMutex.Unlock()
}

// RegisterDownload creates a Pending entry for key and schedules its transfer.
// It returns false when key or its destination is held by an active entry,
// when key or url is empty, or after Close.
func (r *Registry) RegisterDownload(key, url, destinationPath string) bool {
	if key == "" || url == "" {
		return false
	}

	r.entriesMutex.Lock()
	if r.closed {
		r.entriesMutex.Unlock()
		return false
	}
	if existing, ok := r.entries[key]; ok && existing.Status.IsActive() {
		r.entriesMutex.Unlock()
		r.logger.Debug("Rejected duplicate active download", "key", key)
		return false
	}

	dest := destinationPath
	if dest == "" {
		dest = key
	}
	dest = platform.JoinClean(r.directory, dest)
	if holder := r.activeHolder(dest); holder != "" {
		r.entriesMutex.Unlock()
		r.logger.Debug("Rejected download to busy destination", "key", key, "destination", dest, "held_by", holder)
		return false
	}

	entry := &model.DownloadEntry{
		Key:             key,
		URL:             url,
		DestinationPath: dest,
		Status:          model.DownloadStatusPending,
		BytesTotal:      -1,
		StartedAt:       time.Now(),
	}
	r.entries[key] = entry
	r.wg.Add(1)
	snapshot := *entry
	r.entriesMutex.Unlock()

	r.logger.Info("Download registered", "key", key, "url", url, "destination", snapshot.DestinationPath)
	r.notifyUpdate(snapshot)

	go r.run(entry)
	return true
}

// activeHolder returns the key of the active entry writing to dest, "" if none.
// Callers hold entriesMutex.
func (r *Registry) activeHolder(dest string) string {
	for key, entry := range r.entries {
		if entry.Status.IsActive() && entry.DestinationPath == dest {
			return key
		}
	}
	return ""
}

// LookupDownload returns a snapshot of the entry for key
func (r *Registry) LookupDownload(key string) (model.DownloadEntry, bool) {
	r.entriesMutex.RLock()
	defer r.entriesMutex.RUnlock()
	entry, exists := r.entries[key]
	if !exists {
		return model.DownloadEntry{}, false
	}
	return *entry, true
}

// GetAllDownloads returns snapshots of every entry ordered by key
func (r *Registry) GetAllDownloads() []model.DownloadEntry {
	r.entriesMutex.RLock()
	defer r.entriesMutex.RUnlock()

	entries := make([]model.DownloadEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}

// DownloadStatus returns the status for key, NotRegistered if unknown
func (r *Registry) DownloadStatus(key string) model.DownloadStatus {
	entry, ok := r.LookupDownload(key)
	if !ok {
		return model.DownloadStatusNotRegistered
	}
	return entry.Status
}

// DownloadError returns the last error for key, "" if none or unknown
func (r *Registry) DownloadError(key string) string {
	entry, _ := r.LookupDownload(key)
	return entry.LastError
}

// BytesCompleted returns received bytes for key, -1 if unknown
func (r *Registry) BytesCompleted(key string) int64 {
	entry, ok := r.LookupDownload(key)
	if !ok {
		return -1
	}
	return entry.BytesReceived
}

// BytesTotal returns the announced size for key, -1 if unknown
func (r *Registry) BytesTotal(key string) int64 {
	entry, ok := r.LookupDownload(key)
	if !ok {
		return -1
	}
	return entry.BytesTotal
}

// ClearDownload forgets a terminal entry. Active entries are kept and false is returned.
func (r *Registry) ClearDownload(key string) bool {
	r.entriesMutex.Lock()
	defer r.entriesMutex.Unlock()

	entry, exists := r.entries[key]
	if !exists || entry.Status.IsActive() {
		return false
	}
	delete(r.entries, key)
	return true
}

// Close cancels in-flight transfers and fetches, waits for them, then
// forgets every entry. Registrations after Close are rejected.
func (r *Registry) Close() error {
	r.entriesMutex.Lock()
	if r.closed {
		r.entriesMutex.Unlock()
		return nil
	}
	r.closed = true
	r.entriesMutex.Unlock()

	r.cancel()
	r.wg.Wait()

	r.entriesMutex.Lock()
	r.entries = make(map[string]*model.DownloadEntry)
	r.entriesMutex.Unlock()
	return nil
}

// run drives one entry to a terminal state
func (r *Registry) run(entry *model.DownloadEntry) {
	defer r.wg.Done()

	select {
	case r.slots <- struct{}{}:
		defer func() { <-r.slots }()
	case <-r.ctx.Done():
		r.finish(entry, r.ctx.Err())
		return
	}

	err := r.transfer(r.ctx, entry)
	r.finish(entry, err)
}

// transfer streams the response body into a partial file and renames it into place
func (r *Registry) transfer(ctx context.Context, entry *model.DownloadEntry) error {
	r.entriesMutex.RLock()
	url, dest := entry.URL, entry.DestinationPath
	r.entriesMutex.RUnlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected HTTP status: %s", resp.Status)
	}

	r.entriesMutex.Lock()
	entry.BytesTotal = resp.ContentLength
	r.entriesMutex.Unlock()

	if err := platform.CreateDirectoryIfNotExists(filepath.Dir(dest)); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	f, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+"-*"+PartialSuffix)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	partial := f.Name()
	if err := f.Chmod(platform.DefaultFilePermissions); err != nil {
		r.logger.Debug("Failed to set download permissions", "file", partial, "error", err)
	}

	body := io.Reader(resp.Body)
	if r.limiter != nil {
		body = &limitedReader{ctx: ctx, r: body, limiter: r.limiter}
	}

	_, err = io.CopyBuffer(&progressWriter{w: f, registry: r, entry: entry}, body, make([]byte, copyBufferSize))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(partial)
		return err
	}

	if err := os.Rename(partial, dest); err != nil {
		os.Remove(partial)
		return fmt.Errorf("failed to move download into place: %w", err)
	}
	return nil
}

// finish records the terminal state and reports it exactly once
func (r *Registry) finish(entry *model.DownloadEntry, err error) {
	r.entriesMutex.Lock()
	if err != nil {
		entry.Status = model.DownloadStatusFailed
		entry.LastError = err.Error()
	} else {
		entry.Status = model.DownloadStatusCompleted
		if entry.BytesTotal < 0 {
			entry.BytesTotal = entry.BytesReceived
		}
	}
	entry.FinishedAt = time.Now()
	snapshot := *entry
	r.entriesMutex.Unlock()

	if err != nil {
		r.logger.Warn("Download failed", "key", snapshot.Key, "error", err)
	} else {
		r.logger.Info("Download completed", "key", snapshot.Key, "bytes", snapshot.BytesReceived)
	}

	r.notifyUpdate(snapshot)
	r.bridge.Deliver(bridge.Event{
		Kind:   bridge.EventDownloadFinished,
		Key:    snapshot.Key,
		Status: snapshot.Status,
		Err:    snapshot.LastError,
	})
}

// advance records n received bytes, moving Pending entries to InProgress
func (r *Registry) advance(entry *model.DownloadEntry, n int) {
	r.entriesMutex.Lock()
	if entry.Status == model.DownloadStatusPending {
		entry.Status = model.DownloadStatusInProgress
	}
	entry.BytesReceived += int64(n)
	snapshot := *entry
	r.entriesMutex.Unlock()

	r.notifyUpdate(snapshot)
}

// notifyUpdate calls the update callback if set
func (r *Registry) notifyUpdate(entry model.DownloadEntry) {
	r.entriesMutex.RLock()
	callback := r.onUpdate
	r.entriesMutex.RUnlock()

	if callback != nil {
		callback(entry)
	}
}

type progressWriter struct {
	w        io.Writer
	registry *Registry
	entry    *model.DownloadEntry
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	if n > 0 {
		p.registry.advance(p.entry, n)
	}
	return n, err
}

// limitedReader throttles reads through a shared token bucket
type limitedReader struct {
	ctx     context.Context
	r       io.Reader
	limiter *rate.Limiter
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if burst := l.limiter.Burst(); len(p) > burst {
		p = p[:burst]
	}
	n, err := l.r.Read(p)
	if n > 0 {
		if waitErr := l.limiter.WaitN(l.ctx, n); waitErr != nil {
			return n, waitErr
		}
	}
	return n, err
}

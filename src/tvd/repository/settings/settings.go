package settings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tracelens/trace-lsp/src/tvd/entity"
	"github.com/tracelens/trace-lsp/src/tvd/internal/clock"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Filesystem events for the override file arrive in bursts on some editors, so
// collapse them before re-reading the file.
const _debounce = 200 * time.Millisecond

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// ChangeListener is invoked after the stored settings change.
type ChangeListener func(ctx context.Context, prev entity.ViewerSettings, next entity.ViewerSettings)

// Repository stores the current viewer settings and notifies subscribers on change.
type Repository interface {
	// Get returns the current settings.
	Get(ctx context.Context) entity.ViewerSettings
	// Update replaces the current settings, notifying subscribers if they changed.
	Update(ctx context.Context, next entity.ViewerSettings)
	// Subscribe registers a listener for settings changes. The returned func cancels the subscription.
	Subscribe(listener ChangeListener) (cancel func())
}

// Params are the parameters required to create a settings Repository.
type Params struct {
	fx.In

	Config    config.Provider
	Lifecycle fx.Lifecycle
	Logger    *zap.SugaredLogger
	Clock     clock.Clock
}

type repository struct {
	logger *zap.SugaredLogger
	clock  clock.Clock

	mu           sync.Mutex
	current      entity.ViewerSettings
	listeners    map[int]ChangeListener
	nextListener int

	overrideFile string
	readFile     func(name string) ([]byte, error)
	watcher      *fsnotify.Watcher
	watcherDone  chan struct{}
	pending      chan struct{}
}

// New creates a Repository seeded from static configuration.
// If an override file is configured, it is watched for the lifetime of the app
// and re-read whenever it changes.
func New(p Params) (Repository, error) {
	cfg := entity.SettingsConfig{}
	if err := p.Config.Get(entity.SettingsConfigKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", entity.SettingsConfigKey, err)
	}

	r := &repository{
		logger:       p.Logger,
		clock:        p.Clock,
		current:      cfg.Defaults,
		listeners:    make(map[int]ChangeListener),
		overrideFile: cfg.OverrideFile,
		readFile:     os.ReadFile,
	}

	if r.overrideFile != "" {
		p.Lifecycle.Append(fx.Hook{
			OnStart: r.startWatcher,
			OnStop:  r.stopWatcher,
		})
	}

	return r, nil
}

func (r *repository) Get(ctx context.Context) entity.ViewerSettings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *repository) Update(ctx context.Context, next entity.ViewerSettings) {
	r.mu.Lock()
	prev := r.current
	if prev == next {
		r.mu.Unlock()
		return
	}
	r.current = next
	listeners := make([]ChangeListener, 0, len(r.listeners))
	for _, l := range r.listeners {
		listeners = append(listeners, l)
	}
	r.mu.Unlock()

	r.logger.Infow("viewer settings changed", "prev", prev, "next", next)
	for _, l := range listeners {
		l(ctx, prev, next)
	}
}

func (r *repository) Subscribe(listener ChangeListener) (cancel func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.nextListener
	r.nextListener++
	r.listeners[key] = listener
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.listeners, key)
	}
}

func (r *repository) startWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating settings watcher: %w", err)
	}

	// Watch the directory rather than the file, since editors often replace
	// the file on save rather than writing it in place.
	if err := watcher.Add(filepath.Dir(r.overrideFile)); err != nil {
		watcher.Close()
		return fmt.Errorf("watching settings file %q: %w", r.overrideFile, err)
	}

	r.watcher = watcher
	r.watcherDone = make(chan struct{})
	r.pending = make(chan struct{}, 1)

	// Apply the current file contents, if any.
	r.applyOverrideFile(ctx)

	go r.watchLoop(ctx)
	go r.applyLoop(ctx)
	return nil
}

func (r *repository) stopWatcher(ctx context.Context) error {
	err := r.watcher.Close()
	<-r.watcherDone
	close(r.pending)
	return err
}

func (r *repository) watchLoop(ctx context.Context) {
	defer close(r.watcherDone)
	for {
		select {
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(r.overrideFile) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			select {
			case r.pending <- struct{}{}:
			default:
				// A re-read is already queued.
			}
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.logger.Warnf("settings watcher error: %s", err)
		}
	}
}

func (r *repository) applyLoop(ctx context.Context) {
	for range r.pending {
		r.clock.Sleep(_debounce)
		// Drain any event that arrived during the debounce window.
		select {
		case <-r.pending:
		default:
		}
		r.applyOverrideFile(ctx)
	}
}

func (r *repository) applyOverrideFile(ctx context.Context) {
	data, err := r.readFile(r.overrideFile)
	if err != nil {
		// Absent file means no overrides.
		return
	}

	next := r.Get(ctx)
	if err := yaml.Unmarshal(data, &next); err != nil {
		r.logger.Warnf("parsing settings file %q: %s", r.overrideFile, err)
		return
	}
	r.Update(ctx, next)
}

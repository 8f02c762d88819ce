package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/inkglass/corepad/internal/config"
	"github.com/inkglass/corepad/internal/lspcoord"
	"github.com/inkglass/corepad/internal/plugin"
)

// Options configures an Application.
type Options struct {
	ConfigPath string
	Files      []string
	LogLevel   string
}

// Application is the top-level coordinator: it owns the configuration, the
// Session of open documents and views, the plugin Manager and the
// DocumentAPI bridge plugins call through, and the Scheduler that drains
// their message queues each tick.
type Application struct {
	mu sync.RWMutex

	config  *config.Config
	logger  *Logger
	diag    *Diagnostics
	session *Session

	commands  *plugin.CommandRegistry
	docAPI    *plugin.DocumentAPI
	plugins   *plugin.Manager
	pluginCfg *plugin.ConfigStore
	scheduler *Scheduler

	trackers   map[plugin.BufferID]*lspcoord.Tracker
	trackersMu sync.Mutex

	stop chan struct{}
}

// New builds an Application from opts: loads configuration, opens any
// files named in opts.Files (falling back to a single scratch buffer),
// and wires the plugin bridge against the resulting Session.
func New(opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("app: load config: %w", err)
	}

	logger := NewLogger(LoggerConfig{Level: ParseLogLevel(opts.LogLevel), Prefix: "corepad"})
	diag := NewDiagnostics(512)
	session := NewSession()

	for _, path := range opts.Files {
		if _, err := session.OpenFile(path, 0); err != nil {
			diag.Record(TracePersistence, fmt.Sprintf("open %s: %v", path, err))
			logger.Warn("app: failed to open %s: %v", path, err)
		}
	}
	if _, _, ok := session.Active(); !ok {
		session.OpenScratch("")
	}

	commands := plugin.NewCommandRegistry()
	docAPI := plugin.NewDocumentAPI(session.Document, commands)
	scheduler := NewScheduler(session, docAPI, diag, logger, 256)

	return &Application{
		config:    cfg,
		logger:    logger,
		diag:      diag,
		session:   session,
		commands:  commands,
		docAPI:    docAPI,
		pluginCfg: plugin.NewConfigStore(nil),
		scheduler: scheduler,
		trackers:  make(map[plugin.BufferID]*lspcoord.Tracker),
		stop:      make(chan struct{}),
	}, nil
}

// AttachPlugins installs a plugin Manager and subscribes to its load
// events so every host it loads gets the document bridge wired in via
// WirePlugin the moment it becomes available, with no separate
// per-plugin wiring step required of the caller.
func (a *Application) AttachPlugins(manager *plugin.Manager) {
	a.mu.Lock()
	a.plugins = manager
	a.mu.Unlock()

	manager.Subscribe(func(event plugin.ManagerEvent) {
		if event.Type != plugin.EventPluginLoaded {
			return
		}
		host, ok := manager.Get(event.Plugin)
		if !ok {
			return
		}
		a.WirePlugin(host)
	})
}

// WirePlugin registers the document bridge module on a freshly loaded
// plugin host, so its Lua scripts can call ks.insertText{...} and friends
// against this Application's Session.
func (a *Application) WirePlugin(host *plugin.Host) {
	plugin.RegisterDocumentModule(host, a.docAPI, a.pluginCfg)
}

// Tracker returns the lspcoord.Tracker correlating external requests
// issued against buf, creating one on first use.
func (a *Application) Tracker(buf plugin.BufferID) *lspcoord.Tracker {
	a.trackersMu.Lock()
	defer a.trackersMu.Unlock()
	t, ok := a.trackers[buf]
	if !ok {
		t = lspcoord.NewTracker()
		a.trackers[buf] = t
	}
	return t
}

// Run starts the scheduler's tick loop and blocks until Shutdown is
// called or ctx is cancelled.
func (a *Application) Run(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		tick = 16 * time.Millisecond
	}
	done := make(chan struct{})
	go func() {
		a.scheduler.Run(tick, a.stop)
		close(done)
	}()
	select {
	case <-ctx.Done():
		a.Shutdown()
	case <-done:
	}
}

// Shutdown stops the scheduler and unloads every plugin. Safe to call more
// than once.
func (a *Application) Shutdown() {
	select {
	case <-a.stop:
		return
	default:
		close(a.stop)
	}
	if a.plugins != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.plugins.UnloadAll(ctx); err != nil {
			a.logger.Warn("app: plugin unload: %v", err)
		}
	}
}

func (a *Application) Config() *config.Config           { return a.config }
func (a *Application) Logger() *Logger                  { return a.logger }
func (a *Application) Diagnostics() *Diagnostics        { return a.diag }
func (a *Application) Session() *Session                { return a.session }
func (a *Application) Commands() *plugin.CommandRegistry { return a.commands }
func (a *Application) DocumentAPI() *plugin.DocumentAPI  { return a.docAPI }
func (a *Application) Scheduler() *Scheduler             { return a.scheduler }
func (a *Application) Plugins() *plugin.Manager          { return a.plugins }

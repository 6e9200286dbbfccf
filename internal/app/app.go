package app

import (
	"sync"
	"time"

	"github.com/dshills/zenmode/internal/editor"
	"github.com/dshills/zenmode/internal/options"
	"github.com/dshills/zenmode/internal/schedule"
	"github.com/dshills/zenmode/internal/script"
	"github.com/dshills/zenmode/internal/statusinfo"
	"github.com/dshills/zenmode/internal/zen"
)

// Options configures the application.
type Options struct {
	// OptionsFile is the TOML file holding zen target overrides.
	// Empty disables loading and watching.
	OptionsFile string

	// StateFile is the single-byte flag file persisting the active
	// state across sessions. Empty defaults to "zen_active" in the
	// working directory.
	StateFile string

	// HooksFile is a Lua file defining on_enable/on_disable. Empty
	// disables user hooks.
	HooksFile string

	// RedrawDelay is the debounce window for coalesced redraws.
	// Zero uses the scheduler default.
	RedrawDelay time.Duration

	// RestorePrevious re-enables focus mode at startup when the
	// previous session left it active.
	RestorePrevious bool

	// WatchOptions enables hot reload of the options file.
	WatchOptions bool

	// Redraw receives batched redraw requests. Required.
	Redraw func(schedule.Set)

	// Logger is the application logger. Nil uses the default config.
	Logger *Logger
}

// Application owns one instance of each subsystem component, constructed
// once and injected by reference; no package-level singletons.
type Application struct {
	logger *Logger
	env    editor.Environment

	registry *options.Registry
	notifier *options.Notifier
	watcher  *options.Watcher

	hooks     *editor.Hooks
	scheduler *schedule.Coalescer
	flags     *zen.FlagStore
	toggler   *zen.Toggler
	provider  *statusinfo.Provider
	userHooks *script.Hooks

	gcMu    sync.Mutex
	gcStop  func() bool
	stopped bool

	shutdownOnce sync.Once
}

// gcInterval is the sweep cadence for the statusline memo cache.
const gcInterval = 5 * time.Minute

// New builds and wires the application against the given host environment.
func New(env editor.Environment, opts Options) (*Application, error) {
	if env == nil {
		return nil, ErrNoEnvironment
	}

	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(DefaultLoggerConfig())
	}

	a := &Application{
		logger: logger,
		env:    env,
		hooks:  editor.NewHooks(),
	}

	a.registry = options.ZenFields()
	if opts.OptionsFile != "" {
		if err := options.Load(opts.OptionsFile, a.registry); err != nil {
			return nil, NewOperationError("load-options", opts.OptionsFile, err).
				WithContext("zen target overrides")
		}
	}

	a.scheduler = schedule.New(schedule.Config{
		Delay:  opts.RedrawDelay,
		Timer:  env.AfterFunc,
		Redraw: opts.Redraw,
	})

	stateFile := opts.StateFile
	if stateFile == "" {
		stateFile = "zen_active"
	}
	a.flags = zen.NewFlagStore(stateFile)

	if opts.HooksFile != "" {
		userHooks, err := script.Load(opts.HooksFile)
		if err != nil {
			// Missing or broken user hooks degrade, they never
			// block startup.
			logger.WithComponent("script").Warn("user hooks disabled: %v", err)
		} else {
			a.userHooks = userHooks
			logger.WithComponent("script").Info("user hooks loaded: on_enable=%v on_disable=%v",
				userHooks.Defined(true), userHooks.Defined(false))
		}
	}

	a.toggler = zen.New(zen.Config{
		Options:   env,
		Views:     env,
		Timer:     env,
		Registry:  a.registry,
		Scheduler: a.scheduler,
		Flags:     a.flags,
		OnToggle:  a.onToggle,
	})

	a.provider = statusinfo.New(statusinfo.Config{
		Search: env,
		Now:    env.Now,
	})

	a.subscribe()

	if opts.WatchOptions && opts.OptionsFile != "" {
		a.notifier = options.NewNotifier()
		a.notifier.Subscribe(func(c options.Change) {
			logger.WithComponent("options").Info("target %s: %v -> %v", c.Name, c.OldValue, c.NewValue)
			a.toggler.Reapply()
		})

		watcher, err := options.NewWatcher(opts.OptionsFile, a.registry, a.notifier)
		if err != nil {
			logger.WithComponent("options").Warn("options watch disabled: %v", err)
		} else {
			a.watcher = watcher
		}
	}

	if opts.RestorePrevious && a.flags.Load() {
		logger.Info("restoring focus mode from previous session")
		a.toggler.Toggle()
	}

	a.armGC()

	return a, nil
}

// armGC schedules the next periodic memo sweep. The timer re-arms itself
// until Shutdown.
func (a *Application) armGC() {
	a.gcMu.Lock()
	defer a.gcMu.Unlock()

	if a.stopped {
		return
	}
	a.gcStop = a.env.AfterFunc(gcInterval, func() {
		a.provider.GC()
		a.armGC()
	})
}

// onToggle runs after each effective toggle: log, then user hooks.
func (a *Application) onToggle(active bool) {
	a.logger.WithComponent("zen").Info("focus mode active=%v", active)

	if a.userHooks == nil {
		return
	}
	if err := a.userHooks.OnToggle(active); err != nil {
		a.logger.WithComponent("script").Warn("%v", err)
	}
}

// subscribe registers every inbound event hook the subsystem consumes.
func (a *Application) subscribe() {
	// Cursor and mode movement invalidate the status line.
	a.hooks.On(editor.EventCursorMoved, func() {
		a.scheduler.Schedule(schedule.KindStatus)
	})
	a.hooks.On(editor.EventInsertEnter, func() {
		a.scheduler.Schedule(schedule.KindStatus)
	})
	a.hooks.On(editor.EventInsertLeave, func() {
		a.scheduler.Schedule(schedule.KindStatus)
	})
	a.hooks.On(editor.EventViewEntered, func() {
		a.scheduler.Schedule(schedule.KindStatus)
	})

	// Macro recording flips the indicator state.
	a.hooks.On(editor.EventRecordingEnter, func() {
		a.provider.RecordingStarted(a.env.RecordingRegister())
		a.scheduler.Schedule(schedule.KindStatus)
	})
	a.hooks.On(editor.EventRecordingLeave, func() {
		a.provider.RecordingStopped()
		a.scheduler.Schedule(schedule.KindStatus)
	})

	// Views opened while focus mode is active receive the target
	// configuration; the apply is idempotent so re-applying to every
	// open view is safe.
	a.hooks.On(editor.EventViewCreated, func() {
		for _, view := range a.env.Views() {
			a.toggler.ApplyToView(view)
		}
	})

	// Search state changes.
	a.hooks.On(editor.EventSearchChanged, func() {
		a.scheduler.Schedule(schedule.KindStatus)
	})
	a.hooks.On(editor.EventSearchCleared, func() {
		a.provider.InvalidateSearch()
		a.scheduler.Schedule(schedule.KindStatus)
	})

	// Low-frequency sweep of expired cache entries.
	a.hooks.On(editor.EventFocusLost, func() {
		a.provider.GC()
	})

	// Session teardown.
	a.hooks.On(editor.EventExiting, func() {
		a.Shutdown()
	})
}

// Hooks returns the inbound event registry the host fires into.
func (a *Application) Hooks() *editor.Hooks {
	return a.hooks
}

// Toggler returns the focus-mode toggler.
func (a *Application) Toggler() *zen.Toggler {
	return a.toggler
}

// StatusInfo returns the statusline info provider.
func (a *Application) StatusInfo() *statusinfo.Provider {
	return a.provider
}

// Registry returns the zen field set.
func (a *Application) Registry() *options.Registry {
	return a.registry
}

// Logger returns the application logger.
func (a *Application) Logger() *Logger {
	return a.logger
}

// Shutdown stops the scheduler's pending timer, the options watcher, and
// the user hook state, then waits for in-flight flag writes. Idempotent;
// also wired to the exiting event.
func (a *Application) Shutdown() {
	a.shutdownOnce.Do(func() {
		a.gcMu.Lock()
		a.stopped = true
		if a.gcStop != nil {
			a.gcStop()
		}
		a.gcMu.Unlock()

		a.scheduler.Close()
		if a.watcher != nil {
			_ = a.watcher.Close()
		}
		if a.userHooks != nil {
			a.userHooks.Close()
		}
		a.flags.Flush()
		a.logger.Debug("shutdown complete")
	})
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"huangdou/internal/autostart"
	"huangdou/internal/clipboard"
	"huangdou/internal/config"
	"huangdou/internal/dialog"
	"huangdou/internal/inject"
	"huangdou/internal/loop"
	"huangdou/internal/notify"
	"huangdou/internal/osutils"
	"huangdou/internal/permission"
	"huangdou/internal/tap"
	"huangdou/internal/tray"
	"huangdou/internal/trigger"
)

const lockFileName = "huangdou.lock"

// runAgent runs the status-bar agent until Quit or a termination signal.
func runAgent(ctx context.Context, cfgMgr *config.Manager) error {
	if ctx == nil {
		ctx = context.Background()
	}
	slog.Info("Huangdou starting", "version", version, "config", cfgMgr.Path())

	if err := os.MkdirAll(cfgMgr.Dir(), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	lock, err := osutils.AcquireLock(filepath.Join(cfgMgr.Dir(), lockFileName))
	if err != nil {
		return err
	}
	defer lock.Release()

	if err := clipboard.EnsureUTF8Locale(); err != nil {
		slog.Warn("failed to set default locale", "error", err)
	}
	if !clipboard.Supported() {
		slog.Warn("clipboard not available, contents will not be protected")
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The controller lives on the loop goroutine. Its context is separate
	// so pending work can be flushed after the menu has gone.
	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	lp := loop.New()
	go lp.Run(loopCtx)

	ctrl := trigger.New(cfgMgr.Get().Settings(), lp, clipboard.New(), inject.NewInjector())

	dialogs := dialog.New()
	var login tray.LoginItem
	if agent, err := autostart.Default(); err == nil {
		login = agent
	} else {
		slog.Warn("login item unavailable", "error", err)
	}

	t := tray.New(tray.StatusTitle(false), tray.AppTitle)
	menu := tray.NewMenu(t, cfgMgr, dialogs, login, stop)

	ctrl.OnStateChange(func(s trigger.State) {
		menu.SetRecording(s == trigger.Recording)
	})
	cfgMgr.RegisterChangeCallback(func(cfg config.Config) {
		menu.Refresh(cfg)
		lp.Post(func() { ctrl.UpdateSettings(cfg.Settings()) })
	})

	keyTap := tap.New(func(ev trigger.Event) {
		lp.Post(func() { ctrl.HandleEvent(ev) })
	})

	go func() {
		guide := permission.NewGuide(dialogs, notify.Notifier{})
		if !guide.Ensure() {
			slog.Warn("accessibility permission missing; restart after granting it")
		}
		if err := keyTap.Start(); err != nil {
			if errors.Is(err, tap.ErrAccessibilityPermission) {
				slog.Error("cannot listen for the trigger key without accessibility permission")
				return
			}
			slog.Error("failed to start key event tap", "error", err)
			return
		}
		slog.Info("Huangdou running", "key", cfgMgr.Get().TriggerKey())
	}()

	go func() {
		<-ctx.Done()
		slog.Info("Shutting down...")
		t.Stop()
	}()

	t.OnExit(func() {
		keyTap.Stop()
		flushed := make(chan struct{})
		if lp.Post(func() {
			ctrl.Close()
			close(flushed)
		}) {
			<-flushed
		}
	})
	t.Run()

	stopLoop()
	<-lp.Done()
	return nil
}

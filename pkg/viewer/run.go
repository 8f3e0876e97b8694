package viewer

import (
	"context"
	"fmt"
	"time"

	"fortio.org/log"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/globe/pkg/config"
	"github.com/taigrr/globe/pkg/input"
	"github.com/taigrr/globe/pkg/relay"
)

const shutdownTimeout = 2 * time.Second

// Run opens the terminal and drives the viewer until ctx is done or the
// user quits. Every component is touched from this goroutine only.
func Run(ctx context.Context, cfg config.Config) error {
	v, err := New(cfg, nil)
	if err != nil {
		return err
	}

	t := uv.DefaultTerminal()
	width, height, err := t.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := t.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	modes, err := v.Start(ctx)
	if err != nil {
		shutdown(t, "")
		return err
	}
	defer func() { shutdown(t, v.Stop()) }()
	t.WriteString(modes) //nolint:errcheck // flushed with the first frame
	t.Resize(width, height)
	v.Resize(width, height)

	var relayEvents <-chan input.Event
	var srv *relay.Server
	if cfg.Relay.Addr != "" {
		srv = relay.New(cfg.Relay)
		addr, err := srv.Listen(ctx)
		if err != nil {
			return err
		}
		defer srv.Close()
		if err := v.Ctrl.AddSurface(srv); err != nil {
			return fmt.Errorf("relay: %w", err)
		}
		relayEvents = srv.Events()
		v.HUD.Notify(fmt.Sprintf("Input relay on http://%s/", addr))
	}

	ticker := time.NewTicker(cfg.FrameInterval())
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-t.Events():
			if !ok {
				return nil
			}
			if ws, isSize := ev.(uv.WindowSizeEvent); isSize {
				t.Erase()
				t.Resize(ws.Width, ws.Height)
			}
			if v.HandleEvent(ev) {
				return nil
			}
		case ev := <-relayEvents:
			srv.Dispatch(ev)
		case res := <-v.TextureLoaded():
			v.HandleTexture(res)
		case now := <-ticker.C:
			v.Step(now.Sub(last))
			last = now
			v.Draw(t)
			if err := t.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}

func shutdown(t *uv.Terminal, modes string) {
	if modes != "" {
		t.WriteString(modes) //nolint:errcheck // best effort while tearing down
		if err := t.Flush(); err != nil {
			log.Warnf("viewer: restore terminal modes: %v", err)
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := t.Shutdown(ctx); err != nil {
		log.Warnf("viewer: terminal shutdown: %v", err)
	}
}

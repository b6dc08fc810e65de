package ui

import (
	"context"
	"fmt"
	"log"
	stdnet "net"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"flipbook/internal/config"
	"flipbook/internal/net"
	"flipbook/internal/state"
	"flipbook/internal/storage"
)

const appID = "io.github.flipbook"

// AppOptions select how the window runs. FollowURL, when set, opens a
// read-only viewer of another machine's shared reel.
type AppOptions struct {
	Config    config.Config
	Share     bool
	FollowURL string
}

// RunApp opens the editor window and blocks until it is closed.
func RunApp(o AppOptions) error {
	a := app.NewWithID(appID)
	title := "Flipbook"
	if o.FollowURL != "" {
		title = "Flipbook (viewing)"
	}
	w := a.NewWindow(title)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := o.Config
	view := NewReelWidget(cfg.CanvasWidth, cfg.CanvasHeight)
	view.Surface().SetStrokeTolerance(cfg.EraserTolerance)
	strip := NewFrameStrip(cfg.ThumbnailWidth, cfg.ThumbnailHeight)
	status := widget.NewLabel("Ready")

	var store *storage.Store
	if o.FollowURL == "" {
		store = storage.New(a.Preferences())
	}

	var publish func([]byte)
	var shutdown []func()
	if o.Share {
		hub, link, stop, err := startSharing(ctx, cfg.SharePort)
		if err != nil {
			return err
		}
		publish = hub.Publish
		shutdown = append(shutdown, stop)
		status.SetText("Sharing at " + link)
	}

	var toolbar *Toolbar
	editor := NewEditor(EditorOptions{
		Config:  cfg,
		Store:   store,
		Surface: view.Surface(),
		Sched:   state.NewPostScheduler(fyne.Do),
		Hooks: state.Hooks{
			NewThumbnail:      strip.NewThumbnail,
			FrameAdded:        strip.FrameAdded,
			FramesReset:       strip.FramesReset,
			FrameSelected:     strip.FrameSelected,
			ThumbnailRendered: strip.ThumbnailRendered,
			Redrawn:           view.Redrawn,
			AnimationStopped: func() {
				if toolbar != nil {
					toolbar.Stopped()
				}
			},
		},
		Publish: publish,
		Status:  status.SetText,
	})
	if publish != nil {
		editor.share()
	}
	view.Attach(editor.Reel)
	view.ReadOnly = o.FollowURL != ""
	strip.OnSelect = func(i int) {
		if !editor.Reel.IsAnimating() {
			editor.Reel.SelectFrame(i)
		}
	}
	toolbar = NewToolbar(editor, view, view.ReadOnly)

	if o.FollowURL != "" {
		go func() {
			err := net.Follow(ctx, o.FollowURL, func(d *state.Document) {
				fyne.Do(func() { editor.Follow(d) })
			})
			msg := "Host stopped sharing"
			if err != nil {
				msg = err.Error()
			}
			fyne.Do(func() { status.SetText(msg) })
		}()
	} else {
		actions := &fileActions{editor: editor, win: w}
		w.SetMainMenu(actions.menu())
		addShortcuts(w.Canvas(), editor)
	}

	w.SetCloseIntercept(func() {
		editor.Close()
		cancel()
		for _, stop := range shutdown {
			stop()
		}
		w.Close()
	})
	w.SetContent(container.NewBorder(
		toolbar, container.NewVBox(strip, status), nil, nil,
		container.NewCenter(view),
	))
	w.Resize(fyne.NewSize(float32(cfg.CanvasWidth)+40, float32(cfg.CanvasHeight+cfg.ThumbnailHeight)+160))
	w.ShowAndRun()
	return nil
}

// startSharing serves the feed and advertises it on the LAN.
func startSharing(ctx context.Context, port int) (*net.Hub, string, func(), error) {
	l, err := stdnet.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, "", nil, fmt.Errorf("share on port %d: %w", port, err)
	}
	hub := net.NewHub()
	go func() {
		if err := hub.Serve(ctx, l); err != nil {
			log.Printf("[SHARE] %v", err)
		}
	}()
	stop := func() {}
	if server, err := net.Advertise(port); err != nil {
		log.Printf("[MDNS] not advertising: %v", err)
	} else {
		stop = func() { server.Shutdown() }
	}
	return hub, net.ShareLink(net.OutgoingIP(), port), stop, nil
}

func addShortcuts(c fyne.Canvas, e *Editor) {
	r := e.Reel
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { r.Undo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift},
		func(fyne.Shortcut) { r.Redo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { r.Redo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyN, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift},
		func(fyne.Shortcut) { r.AddFrame() })
}

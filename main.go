package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"flipbook/internal/config"
	"flipbook/internal/export"
	"flipbook/internal/net"
	"flipbook/internal/state"
	"flipbook/internal/storage"
	"flipbook/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var share bool

	root := &cobra.Command{
		Use:           "flipbook [flipbook://host:port]",
		Short:         "Draw frame-by-frame animations with onion skins",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			// Opening a share link launches straight into viewing.
			if len(args) == 1 && strings.HasPrefix(args[0], net.LinkScheme) {
				return join(cfg, args[0])
			}
			if len(args) == 1 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			return ui.RunApp(ui.AppOptions{Config: cfg, Share: share})
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	root.Flags().BoolVar(&share, "share", false, "share the drawing read-only on the local network")

	root.AddCommand(newJoinCmd(&configPath))
	root.AddCommand(newDiscoverCmd())
	root.AddCommand(newExportCmd(&configPath))
	return root
}

func join(cfg config.Config, link string) error {
	url, err := net.ParseLink(link)
	if err != nil {
		return err
	}
	return ui.RunApp(ui.AppOptions{Config: cfg, FollowURL: url})
}

func newJoinCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "join <flipbook://host:port>",
		Short: "Watch a drawing shared from another machine",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return join(cfg, args[0])
		},
	}
}

func newDiscoverCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List flipbooks shared on the local network",
		RunE: func(cmd *cobra.Command, _ []string) error {
			found := 0
			err := net.Browse(timeout, func(h net.Host) {
				found++
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", h.Link(), h.Name)
			})
			if err != nil {
				return err
			}
			if found == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no shared flipbooks found")
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Second, "how long to listen for answers")
	return cmd
}

// loadReel builds a headless reel from a saved document.
func loadReel(cfg config.Config, path string) (*state.Reel, error) {
	doc, err := storage.ReadDocumentFile(path)
	if err != nil {
		return nil, err
	}
	r := state.NewReel(nil, state.NewManualClock(), cfg.Options(), state.Hooks{})
	if err := r.Load(doc); err != nil {
		return nil, err
	}
	return r, nil
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newExportCmd(configPath *string) *cobra.Command {
	exp := &cobra.Command{Use: "export", Short: "Export a saved drawing"}

	var shadows bool
	var pageW, pageH, margin float64
	pdfCmd := &cobra.Command{
		Use:   "pdf <drawing.json> <out.pdf>",
		Short: "One page per frame, ready to print and flip",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			r, err := loadReel(cfg, args[0])
			if err != nil {
				return err
			}
			o := export.DefaultPDFOptions()
			o.PageWidth, o.PageHeight, o.Margin = pageW, pageH, margin
			o.Shadows = shadows
			o.Depth, o.Dir = cfg.Shadows, cfg.ShadowDirection
			if err := writeFile(args[1], func(f *os.File) error { return export.WritePDF(f, r, o) }); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d pages to %s\n", r.Len(), args[1])
			return nil
		},
	}
	def := export.DefaultPDFOptions()
	pdfCmd.Flags().BoolVar(&shadows, "shadows", false, "print onion skins behind each frame")
	pdfCmd.Flags().Float64Var(&pageW, "page-width", def.PageWidth, "page width in mm")
	pdfCmd.Flags().Float64Var(&pageH, "page-height", def.PageHeight, "page height in mm")
	pdfCmd.Flags().Float64Var(&margin, "margin", def.Margin, "page margin in mm")

	var frame int
	var pngShadows bool
	pngCmd := &cobra.Command{
		Use:   "png <drawing.json> <out.png>",
		Short: "Render one frame",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			r, err := loadReel(cfg, args[0])
			if err != nil {
				return err
			}
			err = writeFile(args[1], func(f *os.File) error {
				return export.WritePNG(f, r, frame-1, cfg.CanvasWidth, cfg.CanvasHeight, pngShadows)
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote frame %d to %s\n", frame, args[1])
			return nil
		},
	}
	pngCmd.Flags().IntVar(&frame, "frame", 1, "frame number, starting at 1")
	pngCmd.Flags().BoolVar(&pngShadows, "shadows", false, "draw onion skins")

	var interval time.Duration
	apngCmd := &cobra.Command{
		Use:   "apng <drawing.json> <out.png>",
		Short: "Play the drawing once into an animated PNG",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			doc, err := storage.ReadDocumentFile(args[0])
			if err != nil {
				return err
			}
			if interval <= 0 {
				interval = cfg.Options().Interval
			}
			rec, err := export.Record(doc, cfg.CanvasWidth, cfg.CanvasHeight, interval)
			if err != nil {
				return err
			}
			if err := rec.SaveAPNG(args[1]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d frames to %s\n", len(rec.Frames), args[1])
			return nil
		},
	}
	apngCmd.Flags().DurationVar(&interval, "interval", 0, "time per frame (default from config)")

	exp.AddCommand(pdfCmd, pngCmd, apngCmd)
	return exp
}

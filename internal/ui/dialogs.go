package ui

import (
	"io"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	fstorage "fyne.io/fyne/v2/storage"
)

// fileActions are the menu commands that go through a file dialog.
type fileActions struct {
	editor *Editor
	win    fyne.Window
}

func (a *fileActions) ask(answer func(bool)) {
	dialog.ShowConfirm("Unsaved changes", "Are you sure? You have unsaved changes!", answer, a.win)
}

func (a *fileActions) fail(what string, err error) {
	log.Printf("[UI] %s: %v", what, err)
	dialog.ShowError(err, a.win)
}

func (a *fileActions) newDocument() {
	confirmDiscard(a.editor.Discarding(), a.ask, a.editor.NewDocument)
}

func (a *fileActions) open() {
	confirmDiscard(a.editor.Discarding(), a.ask, func() {
		d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil {
				a.fail("open", err)
				return
			}
			if rc == nil {
				return
			}
			defer rc.Close()
			if err := a.editor.Open(rc); err != nil {
				a.fail("open "+rc.URI().Name(), err)
			}
		}, a.win)
		d.SetFilter(fstorage.NewExtensionFileFilter([]string{".json"}))
		d.Show()
	})
}

// saveAs shows a save dialog and hands the chosen file to write.
func (a *fileActions) saveAs(name string, write func(io.Writer) error) {
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			a.fail("save", err)
			return
		}
		if wc == nil {
			return
		}
		if err := write(wc); err != nil {
			wc.Close()
			a.fail("save "+wc.URI().Name(), err)
			return
		}
		if err := wc.Close(); err != nil {
			a.fail("close "+wc.URI().Name(), err)
		}
	}, a.win)
	d.SetFileName(name)
	d.Show()
}

func (a *fileActions) save()      { a.saveAs("animation.json", a.editor.Save) }
func (a *fileActions) exportPDF() { a.saveAs("flipbook.pdf", a.editor.ExportPDF) }
func (a *fileActions) exportPNG() { a.saveAs("frame.png", a.editor.ExportPNG) }

// exportAPNG needs a path because the encoder writes the file itself.
func (a *fileActions) exportAPNG() {
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			a.fail("export", err)
			return
		}
		if wc == nil {
			return
		}
		path := wc.URI().Path()
		wc.Close()
		if err := a.editor.ExportAPNG(path); err != nil {
			a.fail("export "+path, err)
		}
	}, a.win)
	d.SetFileName("flipbook.png")
	d.Show()
}

func (a *fileActions) menu() *fyne.MainMenu {
	return fyne.NewMainMenu(
		fyne.NewMenu("File",
			fyne.NewMenuItem("New", a.newDocument),
			fyne.NewMenuItem("Open…", a.open),
			fyne.NewMenuItem("Save…", a.save),
			fyne.NewMenuItemSeparator(),
			fyne.NewMenuItem("Export PDF…", a.exportPDF),
			fyne.NewMenuItem("Export frame as PNG…", a.exportPNG),
			fyne.NewMenuItem("Export animated PNG…", a.exportAPNG),
		),
	)
}

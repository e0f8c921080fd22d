package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/zarkzo/ich-review/ichclient"
)

type uiState struct {
	app      fyne.App
	w        fyne.Window
	cfg      ichclient.Config
	client   *ichclient.Client
	store    *ichclient.SessionStore
	ctrl     *SubmissionController
	renderer *ResultRenderer

	fileBind binding.String
	logBind  binding.String
	logMu    sync.Mutex
	logLines []string

	selectBtn *widget.Button
	submitBtn *widget.Button
	busyPop   *widget.PopUp
}

func buildUI(a fyne.App, cfg ichclient.Config, client *ichclient.Client, store *ichclient.SessionStore) *uiState {
	u := &uiState{
		app:    a,
		cfg:    cfg,
		client: client,
		store:  store,
	}
	u.w = a.NewWindow("ICH Review - Multi-Model Detection")
	u.fileBind = binding.NewString()
	_ = u.fileBind.Set("No file selected")
	u.logBind = binding.NewString()

	u.renderer = NewResultRenderer(cfg, store)
	u.ctrl = NewSubmissionController(cfg, client, store, Hooks{
		Notify: func(title, message string) {
			fyne.Do(func() { dialog.ShowInformation(title, message, u.w) })
		},
		Diagnostic:       u.appendLog,
		ReflectSelection: func(name string) { _ = u.fileBind.Set(name) },
		SetSubmitEnabled: func(enabled bool) {
			fyne.Do(func() {
				if enabled {
					u.submitBtn.Enable()
				} else {
					u.submitBtn.Disable()
				}
			})
		},
		SetBusy: u.setBusy,
		Navigate: func() {
			fyne.Do(func() { u.showResultView() })
		},
	})

	u.w.SetContent(u.buildSubmitScreen())
	u.w.Resize(fyne.NewSize(900, 640))
	return u
}

func (u *uiState) buildSubmitScreen() fyne.CanvasObject {
	title := widget.NewLabelWithStyle("Intracranial Hemorrhage Detection", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	subtitle := widget.NewLabelWithStyle(
		fmt.Sprintf("Upload a CT scan (%s, up to %d MiB) for multi-model analysis",
			u.cfg.AcceptExt, u.cfg.MaxUploadBytes>>20),
		fyne.TextAlignCenter, fyne.TextStyle{})

	fileLabel := widget.NewLabelWithData(u.fileBind)
	fileLabel.Alignment = fyne.TextAlignCenter

	u.selectBtn = widget.NewButtonWithIcon("Choose scan", theme.FolderOpenIcon(), func() { u.onChooseFile() })
	u.submitBtn = widget.NewButtonWithIcon("Analyze", theme.ConfirmIcon(), func() { u.onSubmit() })
	u.submitBtn.Importance = widget.HighImportance
	u.submitBtn.Disable()

	infoBtn := widget.NewButtonWithIcon("Hemorrhage types", theme.InfoIcon(), func() { showSubtypeInfo(u.w) })
	themeBtn := widget.NewButtonWithIcon("Dark / Light", theme.ColorPaletteIcon(), func() { toggleDarkMode(u.app) })

	logEntry := widget.NewEntryWithData(u.logBind)
	logEntry.MultiLine = true
	logEntry.Wrapping = fyne.TextWrapWord
	logEntry.SetPlaceHolder("Diagnostics")
	logEntry.Disable()

	controls := container.NewGridWithColumns(2, u.selectBtn, u.submitBtn)
	extras := container.NewGridWithColumns(2, infoBtn, themeBtn)

	return container.NewVBox(
		title,
		subtitle,
		widget.NewSeparator(),
		fileLabel,
		controls,
		extras,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Diagnostics", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewMax(logEntry),
	)
}

func (u *uiState) onChooseFile() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		if rc == nil {
			return
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		name := filepath.Base(rc.URI().Path())
		_ = u.ctrl.Select(name, int64(len(data)), data)
	}, u.w)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{u.cfg.AcceptExt}))
	fd.Show()
}

func (u *uiState) onSubmit() {
	go func() {
		_ = u.ctrl.Submit(context.Background())
	}()
}

func (u *uiState) setBusy(busy bool) {
	fyne.Do(func() {
		if busy {
			if u.busyPop == nil {
				bar := widget.NewProgressBarInfinite()
				msg := widget.NewLabel("Analyzing scan...")
				msg.Alignment = fyne.TextAlignCenter
				u.busyPop = widget.NewModalPopUp(container.NewVBox(msg, bar), u.w.Canvas())
			}
			u.busyPop.Show()
			return
		}
		if u.busyPop != nil {
			u.busyPop.Hide()
		}
	})
}

func (u *uiState) appendLog(msg string) {
	line := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), msg)
	u.logMu.Lock()
	u.logLines = append(u.logLines, line)
	if len(u.logLines) > 100 {
		u.logLines = u.logLines[len(u.logLines)-100:]
	}
	text := strings.Join(u.logLines, "\n")
	u.logMu.Unlock()
	_ = u.logBind.Set(text)
}

// showSubmitView rebuilds the submission screen, e.g. after coming back from
// a result. Selection state is reset; the workflow restarts clean.
func (u *uiState) showSubmitView() {
	u.ctrl = NewSubmissionController(u.cfg, u.client, u.store, u.ctrl.hooks)
	_ = u.fileBind.Set("No file selected")
	u.w.SetContent(u.buildSubmitScreen())
}

package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/mdobak/go-xerrors"

	"github.com/zarkzo/ich-review/ichclient"
)

const barAnimation = 600 * time.Millisecond

// showResultView consumes the session slot and renders the comparison. An
// empty or malformed slot sends the user straight back to the submission
// view with a notice; nothing partial is shown.
func (u *uiState) showResultView() {
	p, err := u.renderer.Load()
	if err != nil {
		ichclient.GetLogger().Warn("no renderable result", slog.Any("error", xerrors.New(err)))
		u.showSubmitView()
		dialog.ShowInformation("No result", "No detection result to display. Submit a scan first.", u.w)
		return
	}
	u.w.SetContent(u.buildResultScreen(p))
}

func (u *uiState) buildResultScreen(p *ichclient.PredictionPayload) fyne.CanvasObject {
	title := widget.NewLabelWithStyle("Detection Results", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	backBtn := widget.NewButtonWithIcon("New scan", theme.NavigateBackIcon(), func() { u.showSubmitView() })
	infoBtn := widget.NewButtonWithIcon("Hemorrhage types", theme.InfoIcon(), func() { showSubtypeInfo(u.w) })

	images := container.NewGridWithColumns(2,
		u.buildImagePane("Original", p.OriginalImage),
		u.buildImagePane("Processed", p.ProcessedImage),
	)

	cards := container.NewVBox()
	for _, view := range u.renderer.Comparison(p) {
		cards.Add(u.buildSourceCard(view))
	}

	body := container.NewVBox(
		title,
		container.NewGridWithColumns(2, backBtn, infoBtn),
		widget.NewSeparator(),
		images,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Model Comparison", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		cards,
	)
	return container.NewVScroll(body)
}

// buildImagePane shows one of the payload's images, fetched best-effort from
// the backend origin. A failed fetch leaves the placeholder text, the
// desktop equivalent of a broken image.
func (u *uiState) buildImagePane(caption, locator string) fyne.CanvasObject {
	label := widget.NewLabelWithStyle(caption, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	placeholder := widget.NewLabel("Loading image...")
	placeholder.Alignment = fyne.TextAlignCenter
	pane := container.NewStack(placeholder)

	go func() {
		data, err := u.client.FetchImage(context.Background(), locator)
		if err != nil {
			ichclient.GetLogger().Warn("image fetch failed",
				slog.String("locator", locator), slog.Any("error", xerrors.New(err)))
			fyne.Do(func() { placeholder.SetText("Image unavailable") })
			return
		}
		fyne.Do(func() {
			img := canvas.NewImageFromResource(fyne.NewStaticResource(caption, data))
			img.FillMode = canvas.ImageFillContain
			img.SetMinSize(fyne.NewSize(320, 320))
			pane.Objects = []fyne.CanvasObject{img}
			pane.Refresh()
		})
	}()

	return container.NewVBox(label, pane)
}

func (u *uiState) buildSourceCard(view ichclient.SourceView) fyne.CanvasObject {
	headline := widget.NewLabelWithStyle(Headline(view), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	if view.HasFinding {
		headline.Importance = widget.DangerImportance
	} else {
		headline.Importance = widget.SuccessImportance
	}

	rows := container.NewVBox(headline)
	for _, score := range view.Scores {
		rows.Add(u.buildScoreRow(score))
	}
	return widget.NewCard(view.Name, "", rows)
}

// buildScoreRow renders one label with a bar proportional to its score. The
// bar starts collapsed and animates to its target width.
func (u *uiState) buildScoreRow(score ichclient.LabelScore) fyne.CanvasObject {
	name := score.Label
	if score.Flagged {
		name = "⚠ " + name
	}
	label := widget.NewLabel(name)
	value := widget.NewLabel(fmt.Sprintf("%.1f%%", score.Score))
	value.Alignment = fyne.TextAlignTrailing

	bar := widget.NewProgressBar()
	bar.Min = 0
	bar.Max = 100
	bar.TextFormatter = func() string { return "" }

	target := score.Score
	anim := fyne.NewAnimation(barAnimation, func(f float32) {
		bar.SetValue(float64(f) * target)
	})
	anim.Curve = fyne.AnimationEaseOut
	anim.Start()

	header := container.NewBorder(nil, nil, label, value)
	return container.NewVBox(header, bar)
}

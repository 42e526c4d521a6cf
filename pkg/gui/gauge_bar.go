package gui

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/mscrnt/vdash/pkg/classify"
)

// GaugeBar displays one telemetry channel with both bar and text. The
// bar color follows the channel's severity band.
type GaugeBar struct {
	widget.BaseWidget

	label      string
	value      float64
	unit       string
	min        float64
	max        float64
	thresholds classify.Thresholds
	band       classify.Band
	barColor   color.Color
	showBar    bool

	// Tooltip data
	minSeen      float64
	maxSeen      float64
	avgSeen      float64
	hasHistory   bool
	tooltip      *widget.PopUp
	tooltipLabel *widget.Label
	tooltipTimer *time.Timer
}

// NewGaugeBar creates a gauge for one channel. min/max set the bar
// scale, thresholds drive the color.
func NewGaugeBar(label, unit string, min, max float64, thresholds classify.Thresholds, showBar bool) *GaugeBar {
	g := &GaugeBar{
		label:      label,
		unit:       unit,
		min:        min,
		max:        max,
		thresholds: thresholds,
		barColor:   ColorNormal,
		showBar:    showBar,
	}
	g.ExtendBaseWidget(g)
	return g
}

// SetValue updates the gauge and recomputes the severity band.
func (g *GaugeBar) SetValue(value float64) {
	band := classify.Classify(value, g.thresholds)
	if g.value == value && g.band == band {
		return
	}

	g.value = value
	g.band = band
	g.barColor = BandColor(band)

	g.Refresh()
}

// Band returns the current severity band.
func (g *GaugeBar) Band() classify.Band {
	return g.band
}

// SetHistory updates the historical data for tooltips
func (g *GaugeBar) SetHistory(minVal, maxVal, avg float64) {
	g.minSeen = minVal
	g.maxSeen = maxVal
	g.avgSeen = avg
	g.hasHistory = true
}

// MouseIn is called when the mouse enters the widget
func (g *GaugeBar) MouseIn(event *desktop.MouseEvent) {
	if g.tooltipTimer != nil {
		g.tooltipTimer.Stop()
	}

	g.tooltipTimer = time.AfterFunc(500*time.Millisecond, func() {
		if g.tooltip == nil {
			g.showTooltip(event)
		}
	})
}

// MouseOut is called when the mouse leaves the widget
func (g *GaugeBar) MouseOut() {
	if g.tooltipTimer != nil {
		g.tooltipTimer.Stop()
		g.tooltipTimer = nil
	}
	g.hideTooltip()
}

// MouseMoved is called when the mouse moves within the widget
func (g *GaugeBar) MouseMoved(_ *desktop.MouseEvent) {
	// The tooltip stays put while the mouse is over the widget.
}

func (g *GaugeBar) showTooltip(event *desktop.MouseEvent) {
	g.hideTooltip()

	content := g.buildTooltipContent()
	if content == "" {
		return
	}

	cnv := fyne.CurrentApp().Driver().CanvasForObject(g)
	if cnv == nil {
		return
	}

	g.tooltipLabel = widget.NewLabel(content)
	g.tooltipLabel.TextStyle = fyne.TextStyle{Monospace: true}
	tooltipCard := widget.NewCard(g.label, "", g.tooltipLabel)

	g.tooltip = widget.NewPopUp(tooltipCard, cnv)

	// Position near the mouse, nudged back on screen if needed.
	tooltipX := event.AbsolutePosition.X + 20
	tooltipY := event.AbsolutePosition.Y + 20

	canvasSize := cnv.Size()
	tooltipSize := g.tooltip.MinSize()

	if tooltipX+tooltipSize.Width > canvasSize.Width {
		tooltipX = event.AbsolutePosition.X - tooltipSize.Width - 20
	}
	if tooltipY+tooltipSize.Height > canvasSize.Height {
		tooltipY = event.AbsolutePosition.Y - tooltipSize.Height - 20
	}

	g.tooltip.Move(fyne.NewPos(tooltipX, tooltipY))
	g.tooltip.Show()
}

func (g *GaugeBar) hideTooltip() {
	if g.tooltip != nil {
		g.tooltip.Hide()
		g.tooltip = nil
		g.tooltipLabel = nil
	}
}

func (g *GaugeBar) buildTooltipContent() string {
	var content strings.Builder

	content.WriteString(fmt.Sprintf("Current: %s\n", formatChannelValue(g.value, g.unit)))

	if g.hasHistory {
		content.WriteString(fmt.Sprintf("\nMin: %s\n", formatChannelValue(g.minSeen, g.unit)))
		content.WriteString(fmt.Sprintf("Avg: %s\n", formatChannelValue(g.avgSeen, g.unit)))
		content.WriteString(fmt.Sprintf("Max: %s\n", formatChannelValue(g.maxSeen, g.unit)))
	}

	content.WriteString("\nStatus: ")
	switch g.band {
	case classify.BandDanger:
		content.WriteString("Danger")
	case classify.BandWarning:
		content.WriteString("Warning")
	default:
		content.WriteString("Normal")
	}

	return content.String()
}

// formatChannelValue picks a precision that suits the unit.
func formatChannelValue(val float64, unit string) string {
	switch unit {
	case "rpm":
		return fmt.Sprintf("%.0f %s", val, unit)
	case "km":
		return fmt.Sprintf("%.2f %s", val, unit)
	default:
		return fmt.Sprintf("%.1f %s", val, unit)
	}
}

// CreateRenderer creates the widget renderer
func (g *GaugeBar) CreateRenderer() fyne.WidgetRenderer {
	valueText := widget.NewLabel("")
	valueText.TextStyle = fyne.TextStyle{Monospace: true}

	var bar *canvas.Rectangle
	var barBg *canvas.Rectangle
	if g.showBar {
		barBg = canvas.NewRectangle(color.RGBA{0x33, 0x33, 0x33, 0xff})
		barBg.CornerRadius = 2
		bar = canvas.NewRectangle(g.barColor)
		bar.CornerRadius = 2
	}

	return &gaugeBarRenderer{
		gauge:     g,
		valueText: valueText,
		bar:       bar,
		barBg:     barBg,
	}
}

type gaugeBarRenderer struct {
	gauge     *GaugeBar
	valueText *widget.Label
	bar       *canvas.Rectangle
	barBg     *canvas.Rectangle
}

func (r *gaugeBarRenderer) Layout(size fyne.Size) {
	valueSize := r.valueText.MinSize()

	r.valueText.Resize(fyne.NewSize(size.Width, valueSize.Height))
	r.valueText.Move(fyne.NewPos(0, 0))

	if r.gauge.showBar && r.barBg != nil && r.bar != nil {
		barY := valueSize.Height + 2
		barHeight := float32(4)
		barWidth := size.Width

		r.barBg.Resize(fyne.NewSize(barWidth, barHeight))
		r.barBg.Move(fyne.NewPos(0, barY))

		span := r.gauge.max - r.gauge.min
		fillRatio := 0.0
		if span > 0 {
			fillRatio = (r.gauge.value - r.gauge.min) / span
		}
		if fillRatio > 1 {
			fillRatio = 1
		}
		if fillRatio < 0 {
			fillRatio = 0
		}
		fillWidth := barWidth * float32(fillRatio)

		r.bar.Resize(fyne.NewSize(fillWidth, barHeight))
		r.bar.Move(fyne.NewPos(0, barY))
	}
}

func (r *gaugeBarRenderer) MinSize() fyne.Size {
	valueSize := r.valueText.MinSize()
	width := valueSize.Width + 20
	height := valueSize.Height

	if r.gauge.showBar {
		height += 6
		height += 12
	}

	return fyne.NewSize(width, height)
}

func (r *gaugeBarRenderer) Refresh() {
	r.valueText.SetText(formatChannelValue(r.gauge.value, r.gauge.unit))

	if r.gauge.showBar && r.bar != nil {
		r.bar.FillColor = r.gauge.barColor
		r.bar.Refresh()
		r.Layout(r.gauge.Size())
	}
}

func (r *gaugeBarRenderer) Objects() []fyne.CanvasObject {
	objects := []fyne.CanvasObject{r.valueText}
	if r.gauge.showBar && r.barBg != nil && r.bar != nil {
		objects = append(objects, r.barBg, r.bar)
	}
	return objects
}

func (r *gaugeBarRenderer) Destroy() {}

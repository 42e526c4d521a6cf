package gui

import (
	"fmt"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// TelemetryChart is a rolling line chart for one channel with
// gridlines, data points and min/max tracking.
type TelemetryChart struct {
	widget.BaseWidget
	title    string
	values   []float64
	minValue float64
	maxValue float64
	capacity int
	mu       sync.Mutex

	// Track min/max
	minSeen float64
	maxSeen float64

	// Style options
	showGrid       bool
	showDataPoints bool
	lineColor      color.RGBA
	gridColor      color.Color
}

// NewTelemetryChart creates a chart scaled to [minValue, maxValue]
// holding the last capacity readings.
func NewTelemetryChart(title string, capacity int, minValue, maxValue float64, lineColor color.RGBA) *TelemetryChart {
	c := &TelemetryChart{
		title:          title,
		values:         make([]float64, 0, capacity),
		minValue:       minValue,
		maxValue:       maxValue,
		capacity:       capacity,
		minSeen:        maxValue,
		maxSeen:        minValue,
		showGrid:       true,
		showDataPoints: true,
		lineColor:      lineColor,
		gridColor:      color.RGBA{0x33, 0x33, 0x33, 0xff},
	}
	c.ExtendBaseWidget(c)
	return c
}

// AddValue appends a reading, dropping the oldest once full.
func (c *TelemetryChart) AddValue(value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values = append(c.values, value)
	if len(c.values) > c.capacity {
		c.values = c.values[1:]
	}

	// Update min/max
	if value < c.minSeen {
		c.minSeen = value
	}
	if value > c.maxSeen {
		c.maxSeen = value
	}

	c.Refresh()
}

// Reset clears the history.
func (c *TelemetryChart) Reset() {
	c.mu.Lock()
	c.values = c.values[:0]
	c.minSeen = c.maxValue
	c.maxSeen = c.minValue
	c.mu.Unlock()
	c.Refresh()
}

// CreateRenderer creates the chart renderer
func (c *TelemetryChart) CreateRenderer() fyne.WidgetRenderer {
	return &telemetryChartRenderer{
		chart: c,
	}
}

// MinSize returns the minimum size
func (c *TelemetryChart) MinSize() fyne.Size {
	return fyne.NewSize(300, 120)
}

// scaleY maps a value to a vertical ratio inside the chart area.
func (c *TelemetryChart) scaleY(value float64) float32 {
	span := c.maxValue - c.minValue
	if span <= 0 {
		return 0
	}
	ratio := (value - c.minValue) / span
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return float32(ratio)
}

// telemetryChartRenderer renders the chart
type telemetryChartRenderer struct {
	chart   *TelemetryChart
	objects []fyne.CanvasObject
}

func (r *telemetryChartRenderer) MinSize() fyne.Size {
	return r.chart.MinSize()
}

func (r *telemetryChartRenderer) Layout(size fyne.Size) {
	// Layout is handled in Objects()
}

func (r *telemetryChartRenderer) Refresh() {
	r.objects = r.render()
}

func (r *telemetryChartRenderer) Objects() []fyne.CanvasObject {
	if r.objects == nil {
		r.objects = r.render()
	}
	return r.objects
}

func (r *telemetryChartRenderer) render() []fyne.CanvasObject {
	r.chart.mu.Lock()
	defer r.chart.mu.Unlock()

	objects := []fyne.CanvasObject{}
	size := r.chart.MinSize()

	bg := canvas.NewRectangle(ColorCardBackground)
	bg.Resize(size)
	objects = append(objects, bg)

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = theme.SeparatorColor()
	border.StrokeWidth = 1
	border.Resize(size)
	objects = append(objects, border)

	// Chart area (with padding)
	padding := float32(10)
	chartWidth := size.Width - 2*padding
	chartHeight := size.Height - 2*padding - 20 // Extra space for title

	// Title
	if r.chart.title != "" {
		titleLabel := canvas.NewText(r.chart.title, theme.ForegroundColor())
		titleLabel.TextSize = 10
		titleLabel.Move(fyne.NewPos(padding, 2))
		objects = append(objects, titleLabel)
	}

	// Observed range readout in the header
	if len(r.chart.values) > 0 {
		rangeLabel := canvas.NewText(
			fmt.Sprintf("min %.1f  max %.1f", r.chart.minSeen, r.chart.maxSeen),
			theme.DisabledColor())
		rangeLabel.TextSize = 8
		rangeLabel.Move(fyne.NewPos(size.Width-padding-100, 4))
		objects = append(objects, rangeLabel)
	}

	// Grid lines
	if r.chart.showGrid {
		span := r.chart.maxValue - r.chart.minValue

		// Horizontal grid lines at quarter intervals
		for i := 1; i <= 3; i++ {
			y := padding + 20 + chartHeight*float32(i)/4
			line := canvas.NewLine(r.chart.gridColor)
			line.StrokeWidth = 1
			line.Position1 = fyne.NewPos(padding, y)
			line.Position2 = fyne.NewPos(padding+chartWidth, y)
			objects = append(objects, line)

			gridValue := r.chart.minValue + span*float64(4-i)/4
			label := canvas.NewText(fmt.Sprintf("%.0f", gridValue), theme.DisabledColor())
			label.TextSize = 8
			label.Move(fyne.NewPos(2, y-6))
			objects = append(objects, label)
		}

		// Vertical grid lines (every 10 values)
		gridInterval := 10
		if r.chart.capacity > 0 {
			for i := gridInterval; i < r.chart.capacity; i += gridInterval {
				x := padding + chartWidth*float32(i)/float32(r.chart.capacity)
				line := canvas.NewLine(r.chart.gridColor)
				line.StrokeWidth = 1
				line.Position1 = fyne.NewPos(x, padding+20)
				line.Position2 = fyne.NewPos(x, padding+20+chartHeight)
				objects = append(objects, line)
			}
		}
	}

	// Draw the line chart
	if len(r.chart.values) > 1 {
		points := make([]fyne.Position, 0, len(r.chart.values))

		for i, value := range r.chart.values {
			x := padding + chartWidth*float32(i)/float32(r.chart.capacity)
			y := padding + 20 + chartHeight*(1-r.chart.scaleY(value))
			points = append(points, fyne.NewPos(x, y))
		}

		// Draw lines between points
		for i := 1; i < len(points); i++ {
			line := canvas.NewLine(r.chart.lineColor)
			line.StrokeWidth = 2
			line.Position1 = points[i-1]
			line.Position2 = points[i]
			objects = append(objects, line)
		}

		// Highlight the last point
		if r.chart.showDataPoints {
			lastPoint := points[len(points)-1]

			glow := canvas.NewCircle(color.RGBA{
				R: r.chart.lineColor.R,
				G: r.chart.lineColor.G,
				B: r.chart.lineColor.B,
				A: 0x40,
			})
			glow.Resize(fyne.NewSize(12, 12))
			glow.Move(fyne.NewPos(lastPoint.X-6, lastPoint.Y-6))
			objects = append(objects, glow)

			point := canvas.NewCircle(r.chart.lineColor)
			point.Resize(fyne.NewSize(6, 6))
			point.Move(fyne.NewPos(lastPoint.X-3, lastPoint.Y-3))
			objects = append(objects, point)

			currentValue := r.chart.values[len(r.chart.values)-1]
			valueLabel := canvas.NewText(fmt.Sprintf("%.1f", currentValue), r.chart.lineColor)
			valueLabel.TextSize = 10
			valueLabel.TextStyle = fyne.TextStyle{Bold: true}

			labelY := lastPoint.Y - 15
			if labelY < padding+20 {
				labelY = lastPoint.Y + 8
			}
			valueLabel.Move(fyne.NewPos(lastPoint.X-10, labelY))
			objects = append(objects, valueLabel)
		}
	} else if len(r.chart.values) == 1 {
		x := padding
		y := padding + 20 + chartHeight*(1-r.chart.scaleY(r.chart.values[0]))

		point := canvas.NewCircle(r.chart.lineColor)
		point.Resize(fyne.NewSize(6, 6))
		point.Move(fyne.NewPos(x-3, y-3))
		objects = append(objects, point)
	}

	// "No data" message if empty
	if len(r.chart.values) == 0 {
		noDataLabel := canvas.NewText("No data", theme.DisabledColor())
		noDataLabel.TextSize = 12
		noDataLabel.Alignment = fyne.TextAlignCenter
		noDataLabel.Move(fyne.NewPos(size.Width/2-20, size.Height/2-6))
		objects = append(objects, noDataLabel)
	}

	return objects
}

func (r *telemetryChartRenderer) Destroy() {
	// Nothing to destroy
}

package gui

import (
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Diagnostics shows the simulator's host environment: OS, CPU and
// memory load of the machine running the panel.
type Diagnostics struct {
	content fyne.CanvasObject

	running  bool
	mu       sync.Mutex
	stopChan chan bool
	ticker   *time.Ticker

	hostLabel    *widget.Label
	osLabel      *widget.Label
	kernelLabel  *widget.Label
	uptimeLabel  *widget.Label
	cpuLabel     *widget.Label
	cpuUsage     *widget.Label
	memLabel     *widget.Label
	processLabel *widget.Label
	cpuChart     *TelemetryChart
}

// NewDiagnostics creates the diagnostics tab
func NewDiagnostics() *Diagnostics {
	d := &Diagnostics{
		stopChan: make(chan bool),
	}
	d.build()
	return d
}

func (d *Diagnostics) build() {
	d.hostLabel = widget.NewLabel("")
	d.osLabel = widget.NewLabel("")
	d.kernelLabel = widget.NewLabel("")
	d.uptimeLabel = widget.NewLabel("")
	d.cpuLabel = widget.NewLabel("")
	d.cpuUsage = widget.NewLabel("")
	d.memLabel = widget.NewLabel("")
	d.processLabel = widget.NewLabel("")
	d.cpuChart = NewTelemetryChart("Host CPU (%)", chartCapacity, 0, 100, ColorPedalLine)

	hostCard := widget.NewCard("Host", "", container.NewVBox(
		d.hostLabel,
		d.osLabel,
		d.kernelLabel,
		d.uptimeLabel,
	))

	loadCard := widget.NewCard("Load", "", container.NewVBox(
		d.cpuLabel,
		d.cpuUsage,
		d.cpuChart,
		d.memLabel,
		d.processLabel,
	))

	d.content = container.NewVScroll(container.NewVBox(hostCard, loadCard))
	d.updateStatic()
}

// Content returns the diagnostics content
func (d *Diagnostics) Content() fyne.CanvasObject {
	return d.content
}

// Start begins periodic load sampling.
func (d *Diagnostics) Start() {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.stopChan = make(chan bool)
	d.mu.Unlock()

	d.ticker = time.NewTicker(5 * time.Second)
	go d.monitor(d.ticker, d.stopChan)
}

// Stop halts load sampling.
func (d *Diagnostics) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.mu.Unlock()

	if d.ticker != nil {
		d.ticker.Stop()
	}
	close(d.stopChan)
}

func (d *Diagnostics) monitor(ticker *time.Ticker, stop <-chan bool) {
	d.updateLoad()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			d.updateLoad()
		}
	}
}

// updateStatic fills the fields that do not change while running.
func (d *Diagnostics) updateStatic() {
	if info, err := host.Info(); err == nil {
		d.hostLabel.SetText(fmt.Sprintf("Hostname: %s", info.Hostname))
		d.osLabel.SetText(fmt.Sprintf("OS: %s %s", info.Platform, info.PlatformVersion))
		d.kernelLabel.SetText(fmt.Sprintf("Kernel: %s", info.KernelVersion))
	}

	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		cores, _ := cpu.Counts(true)
		d.cpuLabel.SetText(fmt.Sprintf("CPU: %s (%d threads)", infos[0].ModelName, cores))
	}
}

func (d *Diagnostics) updateLoad() {
	var uptime string
	if info, err := host.Info(); err == nil {
		uptime = formatDuration(time.Duration(info.Uptime) * time.Second)
	}

	var cpuPct float64
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		cpuPct = percents[0]
	}

	var memText string
	if vm, err := mem.VirtualMemory(); err == nil {
		memText = fmt.Sprintf("Memory: %s / %s (%.1f%%)",
			FormatBytes(vm.Used), FormatBytes(vm.Total), vm.UsedPercent)
	}

	var procText string
	if pids, err := process.Pids(); err == nil {
		procText = fmt.Sprintf("Processes: %d", len(pids))
	}

	app := fyne.CurrentApp()
	if app == nil || app.Driver() == nil {
		return
	}
	app.Driver().DoFromGoroutine(func() {
		if uptime != "" {
			d.uptimeLabel.SetText(fmt.Sprintf("Uptime: %s", uptime))
		}
		d.cpuUsage.SetText(fmt.Sprintf("CPU usage: %.1f%%", cpuPct))
		d.cpuChart.AddValue(cpuPct)
		if memText != "" {
			d.memLabel.SetText(memText)
		}
		if procText != "" {
			d.processLabel.SetText(procText)
		}
	}, false)
}

// FormatBytes renders a byte count with a binary suffix.
func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

package gui

import (
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/mscrnt/vdash/pkg/classify"
	"github.com/mscrnt/vdash/pkg/config"
	"github.com/mscrnt/vdash/pkg/vehicle"
)

// chartCapacity is how many readings the rolling charts keep.
const chartCapacity = 60

// Dashboard is the live vehicle panel: gauges and charts refreshed by
// a single ticker, plus the gear, maneuver, pedal and power controls.
type Dashboard struct {
	content fyne.CanvasObject

	cfg *config.Config
	sim *vehicle.Simulator
	log *logrus.Logger

	// Update control
	running  bool
	mu       sync.Mutex
	stopChan chan bool
	ticker   *time.Ticker

	// Gauges keyed by channel name
	gauges map[string]*GaugeBar
	stats  map[string]*channelStats

	// Charts
	speedChart    *TelemetryChart
	rpmChart      *TelemetryChart
	steeringChart *TelemetryChart

	// Controls
	gearButtons    map[vehicle.Gear]*widget.Button
	maneuverLabel  *widget.Label
	powerButton    *widget.Button
	pauseButton    *widget.Button
	accelSlider    *widget.Slider
	brakeSlider    *widget.Slider
	clutchSlider   *widget.Slider
	steeringSlider *widget.Slider

	// Status strip
	statusLabel     *widget.Label
	lastUpdateLabel *widget.Label
}

// channelStats keeps running min/max/avg for gauge tooltips. The
// refresh goroutine adds readings while the Fyne thread reads and
// resets, so every access goes through the mutex.
type channelStats struct {
	mu    sync.Mutex
	min   float64
	max   float64
	sum   float64
	count int
}

func (s *channelStats) add(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count == 0 || v < s.min {
		s.min = v
	}
	if s.count == 0 || v > s.max {
		s.max = v
	}
	s.sum += v
	s.count++
}

func (s *channelStats) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.min = 0
	s.max = 0
	s.sum = 0
	s.count = 0
}

// summary returns min, max and average; ok is false before the first
// reading.
func (s *channelStats) summary() (min, max, avg float64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count == 0 {
		return 0, 0, 0, false
	}
	return s.min, s.max, s.sum / float64(s.count), true
}

// NewDashboard creates the dashboard tab around a simulator.
func NewDashboard(cfg *config.Config, sim *vehicle.Simulator, log *logrus.Logger) *Dashboard {
	d := &Dashboard{
		cfg:      cfg,
		sim:      sim,
		log:      log,
		stopChan: make(chan bool),
		gauges:   make(map[string]*GaugeBar),
		stats:    make(map[string]*channelStats),
	}
	d.build()
	return d
}

func (d *Dashboard) build() {
	for _, ch := range vehicle.Channels {
		d.gauges[ch.Name] = NewGaugeBar(ch.Label, ch.Unit, ch.Min, ch.Max, d.cfg.ThresholdsFor(ch.Name), true)
		d.stats[ch.Name] = &channelStats{}
	}

	d.speedChart = NewTelemetryChart("Speed (km/h)", chartCapacity, 0, vehicle.MaxSpeedKMH, ColorSpeedLine)
	d.rpmChart = NewTelemetryChart("RPM", chartCapacity, 0, vehicle.MaxRPM, ColorRPMLine)
	d.steeringChart = NewTelemetryChart("Steering (deg)", chartCapacity, -vehicle.MaxSteering, vehicle.MaxSteering, ColorSteeringLine)

	driveCard := widget.NewCard("Drive", "", container.NewVBox(
		d.gaugeRow(vehicle.ChannelSpeed),
		d.speedChart,
		d.gaugeRow(vehicle.ChannelOdometer),
	))

	engineCard := widget.NewCard("Engine", "", container.NewVBox(
		d.gaugeRow(vehicle.ChannelRPM),
		d.rpmChart,
	))

	steeringCard := widget.NewCard("Steering", "", container.NewVBox(
		d.gaugeRow(vehicle.ChannelSteering),
		d.steeringChart,
	))

	attitudeCard := widget.NewCard("Attitude", "", container.NewVBox(
		d.gaugeRow(vehicle.ChannelRoll),
		d.gaugeRow(vehicle.ChannelPitch),
		d.gaugeRow(vehicle.ChannelYaw),
		widget.NewSeparator(),
		d.gaugeRow(vehicle.ChannelRollRate),
		d.gaugeRow(vehicle.ChannelPitchRate),
		d.gaugeRow(vehicle.ChannelYawRate),
	))

	positionCard := widget.NewCard("Position", "", container.NewVBox(
		d.gaugeRow(vehicle.ChannelPosX),
		d.gaugeRow(vehicle.ChannelPosY),
		d.gaugeRow(vehicle.ChannelPosZ),
	))

	d.statusLabel = widget.NewLabel("Vehicle off")
	d.lastUpdateLabel = widget.NewLabel("")

	controls := widget.NewCard("Controls", "", container.NewVBox(
		d.buildGearButtons(),
		widget.NewSeparator(),
		d.buildManeuverControls(),
		widget.NewSeparator(),
		d.buildPowerControls(),
	))

	pedals := widget.NewCard("Pedals", "", d.buildPedalControls())

	statusBar := container.NewBorder(nil, nil, d.statusLabel, d.lastUpdateLabel)

	grid := container.NewGridWithColumns(3,
		driveCard, engineCard, steeringCard,
		attitudeCard, positionCard, container.NewVBox(controls, pedals),
	)

	d.content = container.NewBorder(nil, statusBar, nil, nil, container.NewVScroll(grid))
}

// gaugeRow pairs a channel label with its gauge.
func (d *Dashboard) gaugeRow(channel string) fyne.CanvasObject {
	info, _ := vehicle.ChannelByName(channel)
	label := widget.NewLabel(info.Label)
	return container.NewBorder(nil, nil, label, nil, d.gauges[channel])
}

func (d *Dashboard) buildGearButtons() fyne.CanvasObject {
	d.gearButtons = make(map[vehicle.Gear]*widget.Button)

	buttons := make([]fyne.CanvasObject, 0, len(vehicle.Gears))
	for _, g := range vehicle.Gears {
		gear := g
		btn := widget.NewButton(string(gear), func() {
			if err := d.sim.SetGear(gear); err != nil {
				d.setStatus(err.Error())
				return
			}
			d.highlightGear(gear)
			d.setStatus(fmt.Sprintf("Gear %s selected", gear))
		})
		d.gearButtons[gear] = btn
		buttons = append(buttons, btn)
	}
	d.highlightGear(d.sim.Snapshot().Gear)

	return container.NewGridWithColumns(len(buttons), buttons...)
}

// highlightGear marks exactly one gear button as active.
func (d *Dashboard) highlightGear(active vehicle.Gear) {
	for gear, btn := range d.gearButtons {
		if gear == active {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}
}

func (d *Dashboard) buildManeuverControls() fyne.CanvasObject {
	d.maneuverLabel = widget.NewLabel("Maneuver: none")

	start := func(m vehicle.Maneuver) {
		if err := d.sim.StartManeuver(m); err != nil {
			d.setStatus(err.Error())
			return
		}
		d.maneuverLabel.SetText(fmt.Sprintf("Maneuver: %s", m))
		d.highlightGear(d.sim.Snapshot().Gear)
		d.setStatus(fmt.Sprintf("Maneuver %s started", m))
	}

	straightBtn := widget.NewButton("Straight", func() { start(vehicle.ManeuverStraight) })
	leftBtn := widget.NewButton("Left", func() { start(vehicle.ManeuverLeft) })
	rightBtn := widget.NewButton("Right", func() { start(vehicle.ManeuverRight) })
	stopBtn := widget.NewButton("End", func() {
		d.sim.StopManeuver()
		d.maneuverLabel.SetText("Maneuver: none")
		d.setStatus("Maneuver ended")
	})

	return container.NewVBox(
		d.maneuverLabel,
		container.NewGridWithColumns(4, straightBtn, leftBtn, rightBtn, stopBtn),
	)
}

func (d *Dashboard) buildPowerControls() fyne.CanvasObject {
	d.powerButton = widget.NewButton("Start", func() {
		started := d.sim.TogglePower()
		if started {
			d.powerButton.SetText("Stop")
			d.setStatus("Vehicle started")
		} else {
			d.powerButton.SetText("Start")
			d.resetControlWidgets()
			d.setStatus("Vehicle off")
		}
	})

	d.pauseButton = widget.NewButton("Pause", func() {
		paused := !d.sim.Paused()
		d.sim.SetPaused(paused)
		if paused {
			d.pauseButton.SetText("Resume")
			d.setStatus("Simulation paused")
		} else {
			d.pauseButton.SetText("Pause")
			d.setStatus("Simulation resumed")
		}
	})

	resetButton := widget.NewButton("Reset", func() {
		d.sim.Reset()
		d.speedChart.Reset()
		d.rpmChart.Reset()
		d.steeringChart.Reset()
		for _, s := range d.stats {
			s.reset()
		}
		d.powerButton.SetText("Start")
		d.pauseButton.SetText("Pause")
		d.resetControlWidgets()
		d.setStatus("Simulation reset")
	})

	return container.NewGridWithColumns(3, d.powerButton, d.pauseButton, resetButton)
}

// resetControlWidgets syncs the control widgets with the simulator
// after power-off or reset.
func (d *Dashboard) resetControlWidgets() {
	state := d.sim.Snapshot()
	d.highlightGear(state.Gear)
	d.maneuverLabel.SetText("Maneuver: none")
	d.accelSlider.SetValue(state.Accel)
	d.brakeSlider.SetValue(state.Brake)
	d.clutchSlider.SetValue(state.Clutch)
	d.steeringSlider.SetValue(state.SteeringAngle)
}

func (d *Dashboard) buildPedalControls() fyne.CanvasObject {
	d.accelSlider = widget.NewSlider(0, vehicle.MaxPedal)
	d.accelSlider.OnChanged = func(v float64) { d.sim.SetAccelerator(v) }

	d.brakeSlider = widget.NewSlider(0, vehicle.MaxPedal)
	d.brakeSlider.OnChanged = func(v float64) { d.sim.SetBrake(v) }

	d.clutchSlider = widget.NewSlider(0, vehicle.MaxPedal)
	d.clutchSlider.OnChanged = func(v float64) { d.sim.SetClutch(v) }

	d.steeringSlider = widget.NewSlider(-vehicle.MaxSteering, vehicle.MaxSteering)
	d.steeringSlider.OnChanged = func(v float64) { d.sim.SetSteering(v) }

	return container.NewVBox(
		widget.NewLabel("Accelerator"), d.accelSlider, d.gauges[vehicle.ChannelAccel],
		widget.NewLabel("Brake"), d.brakeSlider, d.gauges[vehicle.ChannelBrake],
		widget.NewLabel("Clutch"), d.clutchSlider, d.gauges[vehicle.ChannelClutch],
		widget.NewLabel("Steering"), d.steeringSlider,
	)
}

func (d *Dashboard) setStatus(msg string) {
	d.statusLabel.SetText(msg)
}

// Content returns the dashboard content
func (d *Dashboard) Content() fyne.CanvasObject {
	return d.content
}

// Start begins the refresh loop.
func (d *Dashboard) Start() {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.stopChan = make(chan bool)
	d.mu.Unlock()

	interval := d.cfg.RefreshInterval()
	d.ticker = time.NewTicker(interval)
	d.log.WithField("interval", interval).Info("Dashboard refresh loop started")

	go d.refreshLoop(interval, d.ticker, d.stopChan)
}

// Stop halts the refresh loop.
func (d *Dashboard) Stop() {
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
	d.log.Info("Dashboard refresh loop stopped")
}

// refreshLoop advances the simulation once per tick and pushes the
// snapshot to the widgets. The ticker drops missed ticks, so a slow
// frame simply waits for the next one.
func (d *Dashboard) refreshLoop(interval time.Duration, ticker *time.Ticker, stop <-chan bool) {
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if d.cfg.Simulation {
				d.sim.Step(interval)
			}
			d.pushSnapshot(d.sim.Snapshot())
		}
	}
}

// pushSnapshot applies one snapshot to every widget on the UI thread.
func (d *Dashboard) pushSnapshot(state vehicle.State) {
	app := fyne.CurrentApp()
	if app == nil || app.Driver() == nil {
		return
	}

	for name, stat := range d.stats {
		if v, ok := state.Channel(name); ok {
			stat.add(v)
		}
	}

	app.Driver().DoFromGoroutine(func() {
		for name, gauge := range d.gauges {
			value, ok := state.Channel(name)
			if !ok {
				continue
			}
			gauge.SetValue(value)
			if min, max, avg, ok := d.stats[name].summary(); ok {
				gauge.SetHistory(min, max, avg)
			}
		}

		d.speedChart.AddValue(state.SpeedKMH)
		d.rpmChart.AddValue(state.RPM)
		d.steeringChart.AddValue(state.SteeringAngle)

		d.updateStatusStrip(state)
		d.lastUpdateLabel.SetText(fmt.Sprintf("Last updated: %s", time.Now().Format("15:04:05")))
	}, false)
}

// updateStatusStrip summarizes the worst band across all channels.
func (d *Dashboard) updateStatusStrip(state vehicle.State) {
	worst := classify.BandNormal
	worstChannel := ""
	for name, gauge := range d.gauges {
		if gauge.Band() > worst {
			worst = gauge.Band()
			worstChannel = name
		}
	}

	switch {
	case !state.Started:
		d.statusLabel.SetText("Vehicle off")
	case worst == classify.BandDanger:
		d.statusLabel.SetText(fmt.Sprintf("DANGER: %s out of range", worstChannel))
	case worst == classify.BandWarning:
		d.statusLabel.SetText(fmt.Sprintf("Warning: %s outside normal range", worstChannel))
	default:
		d.statusLabel.SetText(fmt.Sprintf("Running, gear %s", state.Gear))
	}
}

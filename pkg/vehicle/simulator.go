// Package vehicle simulates the dynamics of a single vehicle: engine
// speed, road speed, odometer, pose jitter, pedals and steering. All
// methods are safe for concurrent use; the GUI ticker and the control
// handlers call into the same Simulator.
package vehicle

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Physical limits of the simulated vehicle.
const (
	MaxRPM      = 8000.0
	MaxSpeedKMH = 300.0
	MaxPedal    = 100.0
	MaxSteering = 780.0
)

// Simulator advances a vehicle State in discrete time steps.
type Simulator struct {
	mu       sync.Mutex
	state    State
	defaults State
	paused   bool
	rng      *rand.Rand
}

// NewSimulator creates a simulator starting from the given state. The
// same state is restored by Reset.
func NewSimulator(initial State) *Simulator {
	return &Simulator{
		state:    initial,
		defaults: initial,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Snapshot returns a copy of the current state.
func (s *Simulator) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Step advances the simulation by dt. Paused or powered-off vehicles
// do not move, but the snapshot stays readable.
func (s *Simulator) Step(dt time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.paused || !s.state.Started {
		return
	}

	secs := dt.Seconds()
	if secs <= 0 {
		return
	}

	if m := s.state.ActiveManeuver; m != ManeuverNone {
		preset := maneuverPresets[m]
		s.state.SpeedKMH = preset.TargetSpeed
		s.state.SteeringAngle = preset.Steering
		s.state.RPM = clamp(preset.TargetSpeed*25, 800, MaxRPM)
	} else {
		s.stepEngine(secs)
		s.stepSpeed(secs)
	}

	s.state.OdometerKM += s.state.SpeedKMH / 3600 * secs
	s.stepPose()
}

// stepEngine updates RPM from the pedal positions.
func (s *Simulator) stepEngine(secs float64) {
	switch {
	case s.state.Accel > 0:
		s.state.RPM += s.state.Accel * 5 * secs
	case s.state.Brake > 0:
		s.state.RPM -= s.state.Brake * 2 * secs
	default:
		// idle down
		s.state.RPM -= 100 * secs
	}
	s.state.RPM = clamp(s.state.RPM, 0, MaxRPM)
}

// stepSpeed updates road speed. Only driving gears transmit power;
// park and neutral pin the speed to zero.
func (s *Simulator) stepSpeed(secs float64) {
	if !s.state.Gear.driving() {
		s.state.SpeedKMH = 0
		return
	}
	switch {
	case s.state.Accel > 0 && s.state.Brake == 0:
		s.state.SpeedKMH += s.state.Accel / 10 * 5 * secs
	case s.state.Brake > 0:
		s.state.SpeedKMH -= s.state.Brake / 5 * 5 * secs
	default:
		// coasting drag
		s.state.SpeedKMH -= 5 * secs
	}
	s.state.SpeedKMH = clamp(s.state.SpeedKMH, 0, MaxSpeedKMH)
}

// stepPose applies the random jitter that stands in for road noise.
func (s *Simulator) stepPose() {
	s.state.PosX += s.jitter(0.05)
	s.state.PosY += s.jitter(0.05)
	s.state.PosZ += s.jitter(0.05)

	s.state.Roll = s.jitter(5)
	s.state.Pitch = s.jitter(5)
	s.state.Yaw = s.jitter(180)

	s.state.RollRate = 23.4 + s.jitter(2)
	s.state.PitchRate = 23.4 + s.jitter(2)
	s.state.YawRate = 166.7 + s.jitter(10)
}

func (s *Simulator) jitter(span float64) float64 {
	return (s.rng.Float64()*2 - 1) * span
}

// SetGear selects a gear. Anything other than park or neutral requires
// the vehicle to be powered on.
func (s *Simulator) SetGear(g Gear) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Started && g != GearPark && g != GearNeutral {
		return fmt.Errorf("cannot select gear %s: vehicle is not started", g)
	}
	s.state.Gear = g
	return nil
}

// SetAccelerator sets the accelerator pedal position, clamped to 0-100.
func (s *Simulator) SetAccelerator(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Accel = clamp(v, 0, MaxPedal)
}

// SetBrake sets the brake pedal position, clamped to 0-100.
func (s *Simulator) SetBrake(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Brake = clamp(v, 0, MaxPedal)
}

// SetClutch sets the clutch pedal position, clamped to 0-100.
func (s *Simulator) SetClutch(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Clutch = clamp(v, 0, MaxPedal)
}

// SetSteering sets the steering wheel angle, clamped to +-780 degrees.
func (s *Simulator) SetSteering(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SteeringAngle = clamp(v, -MaxSteering, MaxSteering)
}

// StartManeuver activates a scripted preset. The previous maneuver, if
// any, is replaced; at most one runs at a time.
func (s *Simulator) StartManeuver(m Maneuver) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m == ManeuverNone {
		s.state.ActiveManeuver = ManeuverNone
		return nil
	}
	if _, ok := maneuverPresets[m]; !ok {
		return fmt.Errorf("unknown maneuver %q", m)
	}
	if !s.state.Started {
		return fmt.Errorf("cannot start maneuver %s: vehicle is not started", m)
	}
	if s.state.Gear == GearPark || s.state.Gear == GearNeutral {
		s.state.Gear = GearDrive
	}
	s.state.ActiveManeuver = m
	return nil
}

// StopManeuver returns the vehicle to manual control.
func (s *Simulator) StopManeuver() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ActiveManeuver = ManeuverNone
}

// TogglePower flips the ignition and returns the new state. Powering
// off kills the engine, stops the vehicle and selects park.
func (s *Simulator) TogglePower() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Started = !s.state.Started
	if !s.state.Started {
		s.shutdownLocked()
	}
	return s.state.Started
}

// SetPaused freezes or resumes the simulation without touching state.
func (s *Simulator) SetPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = paused
}

// Paused reports whether the simulation is frozen.
func (s *Simulator) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Stop powers the vehicle off.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Started = false
	s.shutdownLocked()
}

func (s *Simulator) shutdownLocked() {
	s.state.RPM = 0
	s.state.SpeedKMH = 0
	s.state.Accel = 0
	s.state.Brake = 0
	s.state.Clutch = 0
	s.state.ActiveManeuver = ManeuverNone
	s.state.Gear = GearPark
}

// Reset restores the state the simulator was created with.
func (s *Simulator) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.defaults
	s.paused = false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package vehicle

import (
	"testing"
	"time"
)

func startedSim() *Simulator {
	s := NewSimulator(DefaultState())
	s.TogglePower()
	return s
}

func TestGearRequiresPower(t *testing.T) {
	s := NewSimulator(DefaultState())

	if err := s.SetGear(GearDrive); err == nil {
		t.Error("expected error selecting D with vehicle off")
	}
	if err := s.SetGear(GearNeutral); err != nil {
		t.Errorf("selecting N with vehicle off: %v", err)
	}
	if err := s.SetGear(GearPark); err != nil {
		t.Errorf("selecting P with vehicle off: %v", err)
	}

	s.TogglePower()
	if err := s.SetGear(GearDrive); err != nil {
		t.Errorf("selecting D with vehicle on: %v", err)
	}
	if got := s.Snapshot().Gear; got != GearDrive {
		t.Errorf("gear = %s, want D", got)
	}
}

func TestSingleGearActive(t *testing.T) {
	s := startedSim()

	sequence := []Gear{GearDrive, GearReverse, GearLow, GearNeutral, GearDrive}
	for _, g := range sequence {
		if err := s.SetGear(g); err != nil {
			t.Fatalf("SetGear(%s): %v", g, err)
		}
		if got := s.Snapshot().Gear; got != g {
			t.Errorf("gear = %s, want %s", got, g)
		}
	}
}

func TestAccelerationAndClamps(t *testing.T) {
	s := startedSim()
	if err := s.SetGear(GearDrive); err != nil {
		t.Fatal(err)
	}
	s.SetAccelerator(100)

	for i := 0; i < 2000; i++ {
		s.Step(time.Second)
	}

	st := s.Snapshot()
	if st.SpeedKMH != MaxSpeedKMH {
		t.Errorf("speed = %v, want clamped at %v", st.SpeedKMH, MaxSpeedKMH)
	}
	if st.RPM != MaxRPM {
		t.Errorf("rpm = %v, want clamped at %v", st.RPM, MaxRPM)
	}
	if st.OdometerKM <= 0 {
		t.Error("odometer did not advance")
	}
}

func TestNeutralPinsSpeed(t *testing.T) {
	s := startedSim()
	if err := s.SetGear(GearDrive); err != nil {
		t.Fatal(err)
	}
	s.SetAccelerator(100)
	for i := 0; i < 10; i++ {
		s.Step(time.Second)
	}
	if s.Snapshot().SpeedKMH == 0 {
		t.Fatal("vehicle did not accelerate in D")
	}

	if err := s.SetGear(GearNeutral); err != nil {
		t.Fatal(err)
	}
	s.Step(time.Second)
	if got := s.Snapshot().SpeedKMH; got != 0 {
		t.Errorf("speed in N = %v, want 0", got)
	}
}

func TestBrakingStops(t *testing.T) {
	s := startedSim()
	if err := s.SetGear(GearDrive); err != nil {
		t.Fatal(err)
	}
	s.SetAccelerator(50)
	for i := 0; i < 20; i++ {
		s.Step(time.Second)
	}

	s.SetAccelerator(0)
	s.SetBrake(100)
	for i := 0; i < 120; i++ {
		s.Step(time.Second)
	}

	st := s.Snapshot()
	if st.SpeedKMH != 0 {
		t.Errorf("speed after braking = %v, want 0", st.SpeedKMH)
	}
	if st.RPM < 0 {
		t.Errorf("rpm = %v, want >= 0", st.RPM)
	}
}

func TestPedalAndSteeringClamps(t *testing.T) {
	s := startedSim()

	s.SetAccelerator(250)
	s.SetBrake(-10)
	s.SetClutch(101)
	s.SetSteering(-2000)

	st := s.Snapshot()
	if st.Accel != MaxPedal {
		t.Errorf("accel = %v, want %v", st.Accel, MaxPedal)
	}
	if st.Brake != 0 {
		t.Errorf("brake = %v, want 0", st.Brake)
	}
	if st.Clutch != MaxPedal {
		t.Errorf("clutch = %v, want %v", st.Clutch, MaxPedal)
	}
	if st.SteeringAngle != -MaxSteering {
		t.Errorf("steering = %v, want %v", st.SteeringAngle, -MaxSteering)
	}
}

func TestManeuverExclusive(t *testing.T) {
	s := startedSim()

	if err := s.StartManeuver(ManeuverLeft); err != nil {
		t.Fatal(err)
	}
	if err := s.StartManeuver(ManeuverRight); err != nil {
		t.Fatal(err)
	}
	if got := s.Snapshot().ActiveManeuver; got != ManeuverRight {
		t.Errorf("active maneuver = %s, want right", got)
	}

	s.Step(time.Second)
	st := s.Snapshot()
	if st.SpeedKMH != 30 {
		t.Errorf("maneuver speed = %v, want 30", st.SpeedKMH)
	}
	if st.SteeringAngle != 300 {
		t.Errorf("maneuver steering = %v, want 300", st.SteeringAngle)
	}

	s.StopManeuver()
	if got := s.Snapshot().ActiveManeuver; got != ManeuverNone {
		t.Errorf("active maneuver after stop = %s, want none", got)
	}
}

func TestManeuverRequiresPower(t *testing.T) {
	s := NewSimulator(DefaultState())
	if err := s.StartManeuver(ManeuverStraight); err == nil {
		t.Error("expected error starting maneuver with vehicle off")
	}
}

func TestPauseFreezesState(t *testing.T) {
	s := startedSim()
	if err := s.SetGear(GearDrive); err != nil {
		t.Fatal(err)
	}
	s.SetAccelerator(100)
	s.Step(time.Second)
	before := s.Snapshot()

	s.SetPaused(true)
	s.Step(time.Second)
	after := s.Snapshot()
	if after != before {
		t.Error("state changed while paused")
	}

	s.SetPaused(false)
	s.Step(time.Second)
	if s.Snapshot().SpeedKMH <= before.SpeedKMH {
		t.Error("vehicle did not resume after unpause")
	}
}

func TestStopPowersOff(t *testing.T) {
	s := startedSim()
	if err := s.SetGear(GearDrive); err != nil {
		t.Fatal(err)
	}
	s.SetAccelerator(60)
	for i := 0; i < 5; i++ {
		s.Step(time.Second)
	}

	s.Stop()
	st := s.Snapshot()
	if st.Started {
		t.Error("vehicle still started after Stop")
	}
	if st.SpeedKMH != 0 || st.RPM != 0 {
		t.Errorf("speed/rpm after Stop = %v/%v, want 0/0", st.SpeedKMH, st.RPM)
	}
	if st.Gear != GearPark {
		t.Errorf("gear after Stop = %s, want P", st.Gear)
	}
}

func TestReset(t *testing.T) {
	initial := DefaultState()
	initial.OdometerKM = 1234.5

	s := NewSimulator(initial)
	s.TogglePower()
	if err := s.SetGear(GearDrive); err != nil {
		t.Fatal(err)
	}
	s.SetAccelerator(80)
	for i := 0; i < 10; i++ {
		s.Step(time.Second)
	}

	s.Reset()
	if got := s.Snapshot(); got != initial {
		t.Errorf("state after reset = %+v, want %+v", got, initial)
	}
}

func TestParseGear(t *testing.T) {
	if _, err := ParseGear("X"); err == nil {
		t.Error("expected error for gear X")
	}
	g, err := ParseGear("D")
	if err != nil || g != GearDrive {
		t.Errorf("ParseGear(D) = %v, %v", g, err)
	}
}

func TestParseManeuver(t *testing.T) {
	if _, err := ParseManeuver("loop"); err == nil {
		t.Error("expected error for maneuver loop")
	}
	m, err := ParseManeuver("left")
	if err != nil || m != ManeuverLeft {
		t.Errorf("ParseManeuver(left) = %v, %v", m, err)
	}
}

func TestChannelLookup(t *testing.T) {
	st := DefaultState()
	st.SpeedKMH = 42

	v, ok := st.Channel(ChannelSpeed)
	if !ok || v != 42 {
		t.Errorf("Channel(speed) = %v, %v", v, ok)
	}
	if _, ok := st.Channel("bogus"); ok {
		t.Error("expected lookup miss for bogus channel")
	}

	for _, c := range Channels {
		if _, ok := st.Channel(c.Name); !ok {
			t.Errorf("catalog channel %s not readable from state", c.Name)
		}
	}
}

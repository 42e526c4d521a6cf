package vehicle

import "fmt"

// Gear is the selected transmission position.
type Gear string

const (
	GearPark    Gear = "P"
	GearReverse Gear = "R"
	GearNeutral Gear = "N"
	GearDrive   Gear = "D"
	GearLow     Gear = "L"
)

// Gears lists every selectable gear in display order.
var Gears = []Gear{GearPark, GearReverse, GearNeutral, GearDrive, GearLow}

// ParseGear converts a user supplied string into a Gear.
func ParseGear(s string) (Gear, error) {
	switch Gear(s) {
	case GearPark, GearReverse, GearNeutral, GearDrive, GearLow:
		return Gear(s), nil
	}
	return "", fmt.Errorf("unknown gear %q (valid: P, R, N, D, L)", s)
}

// driving reports whether the gear transmits power to the wheels.
func (g Gear) driving() bool {
	return g == GearDrive || g == GearReverse || g == GearLow
}

// Maneuver is a scripted driving preset. While a maneuver is active it
// overrides the target speed and steering angle on every step.
type Maneuver string

const (
	ManeuverNone     Maneuver = ""
	ManeuverStraight Maneuver = "straight"
	ManeuverLeft     Maneuver = "left"
	ManeuverRight    Maneuver = "right"
)

// ParseManeuver converts a user supplied string into a Maneuver.
func ParseManeuver(s string) (Maneuver, error) {
	switch Maneuver(s) {
	case ManeuverNone, ManeuverStraight, ManeuverLeft, ManeuverRight:
		return Maneuver(s), nil
	}
	return ManeuverNone, fmt.Errorf("unknown maneuver %q (valid: straight, left, right)", s)
}

// String returns a display name, "none" for the zero value.
func (m Maneuver) String() string {
	if m == ManeuverNone {
		return "none"
	}
	return string(m)
}

type maneuverPreset struct {
	TargetSpeed float64 // km/h
	Steering    float64 // degrees
}

var maneuverPresets = map[Maneuver]maneuverPreset{
	ManeuverStraight: {TargetSpeed: 60, Steering: 0},
	ManeuverLeft:     {TargetSpeed: 30, Steering: -300},
	ManeuverRight:    {TargetSpeed: 30, Steering: 300},
}

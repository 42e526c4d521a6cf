package vehicle

// State is a snapshot of every simulated channel plus the discrete
// vehicle controls. The JSON field names double as the on-disk config
// format and the MQTT payload shape.
type State struct {
	RPM        float64 `json:"rpm"`
	SpeedKMH   float64 `json:"speed_kmh"`
	OdometerKM float64 `json:"odometer_km"`

	Gear Gear `json:"gear"`

	PosX float64 `json:"pos_x_m"`
	PosY float64 `json:"pos_y_m"`
	PosZ float64 `json:"pos_z_m"`

	Roll  float64 `json:"angle_roll_deg"`
	Pitch float64 `json:"angle_pitch_deg"`
	Yaw   float64 `json:"angle_yaw_deg"`

	RollRate  float64 `json:"roll_rate_degs"`
	PitchRate float64 `json:"pitch_rate_degs"`
	YawRate   float64 `json:"yaw_rate_degs"`

	Clutch float64 `json:"clutch_value"`
	Brake  float64 `json:"brake_value"`
	Accel  float64 `json:"accel_value"`

	SteeringAngle float64 `json:"steering_wheel_angle"`

	Started        bool     `json:"vehicle_started"`
	ActiveManeuver Maneuver `json:"active_maneuver"`
}

// DefaultState returns the factory values used when no configuration
// overrides them.
func DefaultState() State {
	return State{
		Gear:      GearPark,
		RollRate:  23.4,
		PitchRate: 23.4,
		YawRate:   166.7,
	}
}

// Channel returns the numeric value of a named channel, false when the
// name is not a numeric channel.
func (s State) Channel(name string) (float64, bool) {
	switch name {
	case ChannelRPM:
		return s.RPM, true
	case ChannelSpeed:
		return s.SpeedKMH, true
	case ChannelOdometer:
		return s.OdometerKM, true
	case ChannelPosX:
		return s.PosX, true
	case ChannelPosY:
		return s.PosY, true
	case ChannelPosZ:
		return s.PosZ, true
	case ChannelRoll:
		return s.Roll, true
	case ChannelPitch:
		return s.Pitch, true
	case ChannelYaw:
		return s.Yaw, true
	case ChannelRollRate:
		return s.RollRate, true
	case ChannelPitchRate:
		return s.PitchRate, true
	case ChannelYawRate:
		return s.YawRate, true
	case ChannelClutch:
		return s.Clutch, true
	case ChannelBrake:
		return s.Brake, true
	case ChannelAccel:
		return s.Accel, true
	case ChannelSteering:
		return s.SteeringAngle, true
	}
	return 0, false
}

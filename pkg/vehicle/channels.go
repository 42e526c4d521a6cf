package vehicle

// Channel names. These are the keys used for thresholds in the config
// file and for samples in the telemetry log.
const (
	ChannelRPM       = "rpm"
	ChannelSpeed     = "speed_kmh"
	ChannelOdometer  = "odometer_km"
	ChannelPosX      = "pos_x_m"
	ChannelPosY      = "pos_y_m"
	ChannelPosZ      = "pos_z_m"
	ChannelRoll      = "angle_roll_deg"
	ChannelPitch     = "angle_pitch_deg"
	ChannelYaw       = "angle_yaw_deg"
	ChannelRollRate  = "roll_rate_degs"
	ChannelPitchRate = "pitch_rate_degs"
	ChannelYawRate   = "yaw_rate_degs"
	ChannelClutch    = "clutch_value"
	ChannelBrake     = "brake_value"
	ChannelAccel     = "accel_value"
	ChannelSteering  = "steering_wheel_angle"
)

// ChannelInfo describes one telemetry channel for display purposes.
type ChannelInfo struct {
	Name  string
	Label string
	Unit  string
	Min   float64
	Max   float64
}

// Channels lists every numeric channel in dashboard order.
var Channels = []ChannelInfo{
	{ChannelSpeed, "Speed", "km/h", 0, 300},
	{ChannelRPM, "RPM", "rpm", 0, 8000},
	{ChannelOdometer, "Odometer", "km", 0, 1000000},
	{ChannelAccel, "Accelerator", "%", 0, 100},
	{ChannelBrake, "Brake", "%", 0, 100},
	{ChannelClutch, "Clutch", "%", 0, 100},
	{ChannelSteering, "Steering", "deg", -780, 780},
	{ChannelPosX, "Position X", "m", -1000, 1000},
	{ChannelPosY, "Position Y", "m", -1000, 1000},
	{ChannelPosZ, "Position Z", "m", -1000, 1000},
	{ChannelRoll, "Roll", "deg", -180, 180},
	{ChannelPitch, "Pitch", "deg", -180, 180},
	{ChannelYaw, "Yaw", "deg", -180, 180},
	{ChannelRollRate, "Roll rate", "deg/s", -500, 500},
	{ChannelPitchRate, "Pitch rate", "deg/s", -500, 500},
	{ChannelYawRate, "Yaw rate", "deg/s", -500, 500},
}

// ChannelByName looks up a channel description.
func ChannelByName(name string) (ChannelInfo, bool) {
	for _, c := range Channels {
		if c.Name == name {
			return c, true
		}
	}
	return ChannelInfo{}, false
}

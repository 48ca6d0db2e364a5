package commander

// RobotMode is one of the fixed chassis/gimbal coordination enumerations.
type RobotMode string

// Fixed robot-mode wire tokens.
const (
	ModeChassisLead RobotMode = "chassis_lead"
	ModeGimbalLead  RobotMode = "gimbal_lead"
	ModeFree        RobotMode = "free"
)

var validModes = map[RobotMode]bool{ModeChassisLead: true, ModeGimbalLead: true, ModeFree: true}

// Version returns the robot's firmware version response (e.g. "version 00.00.00.60").
func (c *Commander) Version() (string, error) {
	return c.do("version", nil)
}

// GetRobotMode returns the robot's current coordination mode.
func (c *Commander) GetRobotMode() (RobotMode, error) {
	resp, err := c.do("robot_mode", []Arg{Token("?")})
	if err != nil {
		return "", err
	}
	return RobotMode(resp), nil
}

// RobotMode sets the robot's coordination mode.
func (c *Commander) RobotMode(mode RobotMode) error {
	if !validModes[mode] {
		return &InvalidArgError{Field: "mode", Reason: "must be chassis_lead, gimbal_lead or free"}
	}
	_, err := c.do("robot_mode", []Arg{Token(string(mode))})
	return err
}

// GetIP returns the robot's IP address as it reports it over the wire.
func (c *Commander) GetIP() (string, error) {
	return c.do("ip", []Arg{Token("?")})
}

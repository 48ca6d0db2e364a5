package commander

import "fmt"

// GimbalMoveOption sets one optional field of a GimbalMove request.
type GimbalMoveOption func(*gimbalMove)

type gimbalMove struct {
	speedPitch, speedYaw *float64
}

// GimbalSpeedPitch sets the pitch-axis speed in deg/s.
func GimbalSpeedPitch(v float64) GimbalMoveOption { return func(m *gimbalMove) { m.speedPitch = &v } }

// GimbalSpeedYaw sets the yaw-axis speed in deg/s.
func GimbalSpeedYaw(v float64) GimbalMoveOption { return func(m *gimbalMove) { m.speedYaw = &v } }

// GimbalMove issues a relative gimbal move; pitch and yaw are degrees.
func (c *Commander) GimbalMove(pitch, yaw float64, opts ...GimbalMoveOption) error {
	if !inRange(pitch, gimbalPitchMin, gimbalPitchMax) {
		return &InvalidArgError{Field: "pitch", Reason: fmt.Sprintf("must be within [%v, %v] deg", gimbalPitchMin, gimbalPitchMax)}
	}
	if !inRange(yaw, gimbalYawMin, gimbalYawMax) {
		return &InvalidArgError{Field: "yaw", Reason: fmt.Sprintf("must be within [%v, %v] deg", gimbalYawMin, gimbalYawMax)}
	}
	m := &gimbalMove{}
	for _, o := range opts {
		o(m)
	}
	args := []Arg{Token("pitch"), Float(pitch), Token("yaw"), Float(yaw)}
	if m.speedPitch != nil {
		if !inRange(*m.speedPitch, gimbalSpeedMin, gimbalSpeedMax) {
			return &InvalidArgError{Field: "speed_pitch", Reason: fmt.Sprintf("must be within [%v, %v] deg/s", gimbalSpeedMin, gimbalSpeedMax)}
		}
		args = append(args, Token("vp"), Float(*m.speedPitch))
	}
	if m.speedYaw != nil {
		if !inRange(*m.speedYaw, gimbalSpeedMin, gimbalSpeedMax) {
			return &InvalidArgError{Field: "speed_yaw", Reason: fmt.Sprintf("must be within [%v, %v] deg/s", gimbalSpeedMin, gimbalSpeedMax)}
		}
		args = append(args, Token("vy"), Float(*m.speedYaw))
	}
	_, err := c.do("gimbal move", args)
	return err
}

// GimbalMoveTo issues an absolute gimbal move to (pitch, yaw) degrees.
func (c *Commander) GimbalMoveTo(pitch, yaw float64) error {
	if !inRange(pitch, gimbalPitchMin, gimbalPitchMax) {
		return &InvalidArgError{Field: "pitch", Reason: fmt.Sprintf("must be within [%v, %v] deg", gimbalPitchMin, gimbalPitchMax)}
	}
	if !inRange(yaw, gimbalYawMin, gimbalYawMax) {
		return &InvalidArgError{Field: "yaw", Reason: fmt.Sprintf("must be within [%v, %v] deg", gimbalYawMin, gimbalYawMax)}
	}
	_, err := c.do("gimbal moveto", []Arg{Token("pitch"), Float(pitch), Token("yaw"), Float(yaw)})
	return err
}

// GimbalSuspend powers down the gimbal motors.
func (c *Commander) GimbalSuspend() error {
	_, err := c.do("gimbal suspend", nil)
	return err
}

// GimbalResume powers the gimbal motors back up.
func (c *Commander) GimbalResume() error {
	_, err := c.do("gimbal resume", nil)
	return err
}

// GimbalRecenter drives the gimbal back to its centered position.
func (c *Commander) GimbalRecenter() error {
	_, err := c.do("gimbal recenter", nil)
	return err
}

// GimbalPushOn subscribes to periodic gimbal attitude pushes at the given
// frequency, one of {1,5,10,20,30,50} Hz.
func (c *Commander) GimbalPushOn(attitudeFreq int) error {
	if err := validatePushFreq("attitude_freq", attitudeFreq); err != nil {
		return err
	}
	_, err := c.do("gimbal push", []Arg{Token("attitude"), Token("freq"), Int(attitudeFreq)})
	return err
}

// GimbalPushOff cancels the gimbal attitude push subscription.
func (c *Commander) GimbalPushOff() error {
	_, err := c.do("gimbal push", []Arg{Token("attitude"), Token("off")})
	return err
}

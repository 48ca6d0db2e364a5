package commander

import (
	"fmt"
	"strconv"
	"strings"
)

// ChassisSpeed commands continuous chassis translation/rotation speeds.
// x,y are m/s, z is deg/s.
func (c *Commander) ChassisSpeed(x, y, z float64) error {
	if !inRange(x, chassisSpeedXYMin, chassisSpeedXYMax) {
		return &InvalidArgError{Field: "x", Reason: fmt.Sprintf("must be within [%v, %v] m/s", chassisSpeedXYMin, chassisSpeedXYMax)}
	}
	if !inRange(y, chassisSpeedXYMin, chassisSpeedXYMax) {
		return &InvalidArgError{Field: "y", Reason: fmt.Sprintf("must be within [%v, %v] m/s", chassisSpeedXYMin, chassisSpeedXYMax)}
	}
	if !inRange(z, chassisSpeedZMin, chassisSpeedZMax) {
		return &InvalidArgError{Field: "z", Reason: fmt.Sprintf("must be within [%v, %v] deg/s", chassisSpeedZMin, chassisSpeedZMax)}
	}
	_, err := c.do("chassis speed", []Arg{Token("x"), Float(x), Token("y"), Float(y), Token("z"), Float(z)})
	return err
}

// ChassisMoveOption sets one optional field of a ChassisMove request.
type ChassisMoveOption func(*chassisMove)

type chassisMove struct {
	x, y, z         *float64
	speedXY, speedZ *float64
}

// MoveX sets the relative x displacement in meters.
func MoveX(v float64) ChassisMoveOption { return func(m *chassisMove) { m.x = &v } }

// MoveY sets the relative y displacement in meters.
func MoveY(v float64) ChassisMoveOption { return func(m *chassisMove) { m.y = &v } }

// MoveZ sets the relative rotation in degrees.
func MoveZ(v float64) ChassisMoveOption { return func(m *chassisMove) { m.z = &v } }

// MoveSpeedXY sets the translation speed in m/s.
func MoveSpeedXY(v float64) ChassisMoveOption { return func(m *chassisMove) { m.speedXY = &v } }

// MoveSpeedZ sets the rotation speed in deg/s.
func MoveSpeedZ(v float64) ChassisMoveOption { return func(m *chassisMove) { m.speedZ = &v } }

// ChassisMove issues a relative positional move; any field left unset keeps
// the robot's current default for that axis. At least one of x, y, z must
// be supplied.
func (c *Commander) ChassisMove(opts ...ChassisMoveOption) error {
	m := &chassisMove{}
	for _, o := range opts {
		o(m)
	}
	if m.x == nil && m.y == nil && m.z == nil {
		return &InvalidArgError{Field: "x,y,z", Reason: "at least one axis must be set"}
	}

	var args []Arg
	if m.x != nil {
		if !inRange(*m.x, chassisXYMin, chassisXYMax) {
			return &InvalidArgError{Field: "x", Reason: fmt.Sprintf("must be within [%v, %v] m", chassisXYMin, chassisXYMax)}
		}
		args = append(args, Token("x"), Float(*m.x))
	}
	if m.y != nil {
		if !inRange(*m.y, chassisXYMin, chassisXYMax) {
			return &InvalidArgError{Field: "y", Reason: fmt.Sprintf("must be within [%v, %v] m", chassisXYMin, chassisXYMax)}
		}
		args = append(args, Token("y"), Float(*m.y))
	}
	if m.z != nil {
		if !inRange(*m.z, chassisZMin, chassisZMax) {
			return &InvalidArgError{Field: "z", Reason: fmt.Sprintf("must be within [%v, %v] deg", chassisZMin, chassisZMax)}
		}
		args = append(args, Token("z"), Float(*m.z))
	}
	if m.speedXY != nil {
		if !inRange(*m.speedXY, 0, chassisSpeedXYMax) {
			return &InvalidArgError{Field: "speed_xy", Reason: fmt.Sprintf("must be within [0, %v] m/s", chassisSpeedXYMax)}
		}
		args = append(args, Token("vxy"), Float(*m.speedXY))
	}
	if m.speedZ != nil {
		if !inRange(*m.speedZ, 0, chassisSpeedZMax) {
			return &InvalidArgError{Field: "speed_z", Reason: fmt.Sprintf("must be within [0, %v] deg/s", chassisSpeedZMax)}
		}
		args = append(args, Token("vz"), Float(*m.speedZ))
	}

	_, err := c.do("chassis move", args)
	return err
}

// ChassisWheelSpeeds holds the four independent wheel speeds, in rpm.
type ChassisWheelSpeeds struct {
	W1, W2, W3, W4 int
}

// ChassisWheel commands the four wheels independently.
func (c *Commander) ChassisWheel(w ChassisWheelSpeeds) error {
	_, err := c.do("chassis wheel", []Arg{
		Token("w1"), Int(w.W1),
		Token("w2"), Int(w.W2),
		Token("w3"), Int(w.W3),
		Token("w4"), Int(w.W4),
	})
	return err
}

// ChassisPushOn subscribes to periodic chassis telemetry pushes at the
// given per-field frequencies, each one of {1,5,10,20,30,50} Hz.
func (c *Commander) ChassisPushOn(posFreq, attitudeFreq, statusFreq int) error {
	if err := validatePushFreq("pos_freq", posFreq); err != nil {
		return err
	}
	if err := validatePushFreq("attitude_freq", attitudeFreq); err != nil {
		return err
	}
	if err := validatePushFreq("status_freq", statusFreq); err != nil {
		return err
	}
	_, err := c.do("chassis push", []Arg{
		Token("position"), Token("freq"), Int(posFreq),
		Token("attitude"), Token("freq"), Int(attitudeFreq),
		Token("status"), Token("freq"), Int(statusFreq),
	})
	return err
}

// ChassisPushOff cancels all chassis telemetry push subscriptions.
func (c *Commander) ChassisPushOff() error {
	_, err := c.do("chassis push", []Arg{
		Token("position"), Token("off"),
		Token("attitude"), Token("off"),
		Token("status"), Token("off"),
	})
	return err
}

// GetChassisPosition queries the robot's current chassis position.
func (c *Commander) GetChassisPosition() (x, y, z float32, err error) {
	resp, err := c.do("chassis position ?", nil)
	if err != nil {
		return 0, 0, 0, err
	}
	return parseFloat3(resp)
}

// GetChassisAttitude queries the robot's current chassis attitude.
func (c *Commander) GetChassisAttitude() (pitch, roll, yaw float32, err error) {
	resp, err := c.do("chassis attitude ?", nil)
	if err != nil {
		return 0, 0, 0, err
	}
	return parseFloat3(resp)
}

func parseFloat3(resp string) (a, b, cc float32, err error) {
	fields := strings.Fields(resp)
	if len(fields) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: expected 3 fields in %q", ErrRemote, resp)
	}
	vals := [3]float32{}
	for i, f := range fields {
		v, perr := strconv.ParseFloat(f, 32)
		if perr != nil {
			return 0, 0, 0, fmt.Errorf("%w: %v", ErrRemote, perr)
		}
		vals[i] = float32(v)
	}
	return vals[0], vals[1], vals[2], nil
}

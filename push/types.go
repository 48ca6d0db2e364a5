// Package push decodes the robot's UDP push telegrams into typed records.
package push

import "time"

// Record is the tagged union of decoded push telegram records. Each carries
// a monotonic receive timestamp.
type Record interface {
	isPushRecord()
	ReceivedAt() time.Time
}

type base struct{ At time.Time }

func (base) isPushRecord() {}

func (b base) ReceivedAt() time.Time { return b.At }

// ChassisPosition reports the chassis's position estimate relative to its
// power-on origin. Z is only present on hardware that reports it; HasZ
// distinguishes "reported zero" from "not reported".
type ChassisPosition struct {
	base
	X, Y, Z float32
	HasZ    bool
}

// ChassisAttitude reports the chassis's orientation in degrees.
type ChassisAttitude struct {
	base
	Pitch, Roll, Yaw float32
}

// ChassisStatus reports the chassis's discrete motion/contact flags.
type ChassisStatus struct {
	base
	Static, UpHill, DownHill, OnSlope, PickUp, Slip bool
	ImpactX, ImpactY, ImpactZ                       bool
	RollOver, HillStatic                            bool
}

// GimbalAttitude reports the gimbal's orientation in degrees.
type GimbalAttitude struct {
	base
	Pitch, Yaw float32
}

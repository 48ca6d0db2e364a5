package commander

// Numeric envelopes enforced host-side before any request touches the wire.
// Values mirror the robot's documented operating envelope.
const (
	chassisXYMin, chassisXYMax            = -5.0, 5.0       // meters, chassis_move x/y
	chassisZMin, chassisZMax              = -1800.0, 1800.0 // degrees, chassis_move z
	chassisSpeedXYMin, chassisSpeedXYMax  = -3.5, 3.5       // m/s
	chassisSpeedZMin, chassisSpeedZMax    = -600.0, 600.0   // deg/s

	gimbalPitchMin, gimbalPitchMax = -25.0, 30.0   // degrees
	gimbalYawMin, gimbalYawMax     = -250.0, 250.0 // degrees
	gimbalSpeedMin, gimbalSpeedMax = 0.0, 540.0    // deg/s

	armorSensitivityMin, armorSensitivityMax = 1, 10
	blasterBeadMin, blasterBeadMax           = 1, 8
)

// pushFrequencies is the fixed set of push-rate enumerations the robot
// accepts for chassis_push_on/gimbal_push_on; any other value is rejected
// host-side.
var pushFrequencies = map[int]bool{1: true, 5: true, 10: true, 20: true, 30: true, 50: true}

func inRange(v, lo, hi float64) bool { return v >= lo && v <= hi }

func validatePushFreq(field string, hz int) error {
	if !pushFrequencies[hz] {
		return &InvalidArgError{Field: field, Reason: "must be one of {1,5,10,20,30,50} Hz"}
	}
	return nil
}

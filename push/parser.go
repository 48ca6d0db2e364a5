package push

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robo-ep/sdk/internal/metrics"
)

// MalformedError reports a push telegram segment that could not be decoded;
// the segment is dropped, the datagram's other segments are unaffected.
type MalformedError struct {
	Segment string
	Reason  string
	// Unknown marks an unrecognized (subsystem, group) pair, which the
	// listener logs at most once per distinct key rather than every occurrence.
	Unknown bool
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("push: malformed segment %q: %s", e.Segment, e.Reason)
}

// Parse decodes a ";"-delimited push telegram into zero or more records.
// A malformed individual segment never aborts the others in the same
// datagram; it is returned as one of errs and the segment is skipped.
func Parse(line string, now time.Time) (records []Record, errs []error) {
	for _, segment := range strings.Split(line, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		rec, err := parseSegment(segment, now)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		records = append(records, rec)
	}
	return records, errs
}

func parseSegment(segment string, now time.Time) (Record, error) {
	fields := strings.Fields(segment)
	if len(fields) < 2 {
		return nil, &MalformedError{Segment: segment, Reason: "fewer than 2 tokens"}
	}
	subsystem, group, rest := fields[0], fields[1], fields[2:]
	b := base{At: now}

	switch subsystem {
	case "chassis":
		switch group {
		case "position":
			return parseChassisPosition(b, rest, segment)
		case "attitude":
			return parseChassisAttitude(b, rest, segment)
		case "status":
			return parseChassisStatus(b, rest, segment)
		}
	case "gimbal":
		switch group {
		case "attitude":
			return parseGimbalAttitude(b, rest, segment)
		}
	}
	metrics.IncMalformed("push_unknown_key")
	return nil, &MalformedError{Segment: segment, Reason: fmt.Sprintf("unknown (%s, %s)", subsystem, group), Unknown: true}
}

func parseChassisPosition(b base, fields []string, segment string) (Record, error) {
	if len(fields) != 2 && len(fields) != 3 {
		return nil, &MalformedError{Segment: segment, Reason: "expected 2 or 3 fields"}
	}
	x, err := parseFloat(fields[0])
	if err != nil {
		return nil, &MalformedError{Segment: segment, Reason: err.Error()}
	}
	y, err := parseFloat(fields[1])
	if err != nil {
		return nil, &MalformedError{Segment: segment, Reason: err.Error()}
	}
	rec := ChassisPosition{base: b, X: x, Y: y}
	if len(fields) == 3 {
		z, err := parseFloat(fields[2])
		if err != nil {
			return nil, &MalformedError{Segment: segment, Reason: err.Error()}
		}
		rec.Z = z
		rec.HasZ = true
	}
	metrics.IncPushRecord("chassis", "position")
	return rec, nil
}

func parseChassisAttitude(b base, fields []string, segment string) (Record, error) {
	if len(fields) != 3 {
		return nil, &MalformedError{Segment: segment, Reason: "expected 3 fields"}
	}
	vals, err := parseFloats(fields)
	if err != nil {
		return nil, &MalformedError{Segment: segment, Reason: err.Error()}
	}
	metrics.IncPushRecord("chassis", "attitude")
	return ChassisAttitude{base: b, Pitch: vals[0], Roll: vals[1], Yaw: vals[2]}, nil
}

func parseChassisStatus(b base, fields []string, segment string) (Record, error) {
	if len(fields) != 11 {
		return nil, &MalformedError{Segment: segment, Reason: "expected 11 fields"}
	}
	bools := make([]bool, 11)
	for i, f := range fields {
		v, err := parseBool(f)
		if err != nil {
			return nil, &MalformedError{Segment: segment, Reason: err.Error()}
		}
		bools[i] = v
	}
	metrics.IncPushRecord("chassis", "status")
	return ChassisStatus{
		base:        b,
		Static:      bools[0],
		UpHill:      bools[1],
		DownHill:    bools[2],
		OnSlope:     bools[3],
		PickUp:      bools[4],
		Slip:        bools[5],
		ImpactX:     bools[6],
		ImpactY:     bools[7],
		ImpactZ:     bools[8],
		RollOver:    bools[9],
		HillStatic:  bools[10],
	}, nil
}

func parseGimbalAttitude(b base, fields []string, segment string) (Record, error) {
	if len(fields) != 2 {
		return nil, &MalformedError{Segment: segment, Reason: "expected 2 fields"}
	}
	vals, err := parseFloats(fields)
	if err != nil {
		return nil, &MalformedError{Segment: segment, Reason: err.Error()}
	}
	metrics.IncPushRecord("gimbal", "attitude")
	return GimbalAttitude{base: b, Pitch: vals[0], Yaw: vals[1]}, nil
}

func parseFloat(s string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return float32(v), nil
}

func parseFloats(fields []string) ([]float32, error) {
	out := make([]float32, len(fields))
	for i, f := range fields {
		v, err := parseFloat(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseBool(s string) (bool, error) {
	switch s {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}

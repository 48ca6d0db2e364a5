package event

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robo-ep/sdk/internal/metrics"
)

// MalformedError reports an event telegram segment that could not be
// decoded; the segment is dropped, the datagram's other segments are
// unaffected.
type MalformedError struct {
	Segment string
	Reason  string
	Unknown bool
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("event: malformed segment %q: %s", e.Segment, e.Reason)
}

// Parse decodes a ";"-delimited event telegram into zero or more records.
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
	subsystem, kind, rest := fields[0], fields[1], fields[2:]
	b := base{At: now}

	switch subsystem {
	case "armor":
		if kind == "hit" {
			return parseArmorHit(b, rest, segment)
		}
	case "sound":
		if kind == "applause" {
			return parseApplause(b, rest, segment)
		}
	}
	metrics.IncMalformed("event_unknown_key")
	return nil, &MalformedError{Segment: segment, Reason: fmt.Sprintf("unknown (%s, %s)", subsystem, kind), Unknown: true}
}

func parseArmorHit(b base, fields []string, segment string) (Record, error) {
	if len(fields) != 2 {
		return nil, &MalformedError{Segment: segment, Reason: "expected 2 fields"}
	}
	index, err := parseUint8(fields[0])
	if err != nil {
		return nil, &MalformedError{Segment: segment, Reason: err.Error()}
	}
	kind, err := parseUint8(fields[1])
	if err != nil {
		return nil, &MalformedError{Segment: segment, Reason: err.Error()}
	}
	metrics.IncEventRecord("armor", "hit")
	return ArmorHit{base: b, Index: index, Kind: kind}, nil
}

func parseApplause(b base, fields []string, segment string) (Record, error) {
	if len(fields) != 1 {
		return nil, &MalformedError{Segment: segment, Reason: "expected 1 field"}
	}
	count, err := parseUint8(fields[0])
	if err != nil {
		return nil, &MalformedError{Segment: segment, Reason: err.Error()}
	}
	metrics.IncEventRecord("sound", "applause")
	return Applause{base: b, Count: count}, nil
}

func parseUint8(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return uint8(v), nil
}

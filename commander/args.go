package commander

import "strconv"

// Arg is one wire token of a request line. Commands are built from a verb
// plus a list of Args, joined by spaces and terminated with ";".
type Arg string

// Bool renders a toggle as the wire tokens "on"/"off".
func Bool(b bool) Arg {
	if b {
		return Arg("on")
	}
	return Arg("off")
}

// Int renders an integer using locale-independent formatting.
func Int(n int) Arg { return Arg(strconv.Itoa(n)) }

// Float renders a float using locale-independent, "." decimal formatting
// with no trailing zeros beyond what's needed to round-trip.
func Float(f float64) Arg { return Arg(strconv.FormatFloat(f, 'f', -1, 64)) }

// Token passes a fixed wire enumeration token through unchanged (e.g. "chassis_lead").
func Token(s string) Arg { return Arg(s) }

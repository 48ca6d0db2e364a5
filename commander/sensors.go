package commander

import "fmt"

// ArmorEventKind is a fixed armor-plate event-detection enumeration.
type ArmorEventKind string

// Fixed armor event wire tokens.
const (
	ArmorEventHit    ArmorEventKind = "hit"
	ArmorEventImpact ArmorEventKind = "impact"
)

// SoundEventKind is a fixed sound-detection event enumeration.
type SoundEventKind string

// Fixed sound event wire tokens.
const (
	SoundEventApplause SoundEventKind = "applause"
)

// LEDPosition is a fixed LED-group enumeration.
type LEDPosition string

// Fixed LED-position wire tokens.
const (
	LEDAll    LEDPosition = "all"
	LEDTop    LEDPosition = "top_all"
	LEDBottom LEDPosition = "bottom_all"
)

// LEDEffect is a fixed LED-behavior enumeration.
type LEDEffect string

// Fixed LED-effect wire tokens.
const (
	LEDEffectSolid  LEDEffect = "solid"
	LEDEffectBlink  LEDEffect = "blink"
	LEDEffectBreath LEDEffect = "breath"
	LEDEffectOff    LEDEffect = "off"
)

// ArmorSensitivity sets the armor-plate hit-detection sensitivity, 1..10.
func (c *Commander) ArmorSensitivity(n int) error {
	if n < armorSensitivityMin || n > armorSensitivityMax {
		return &InvalidArgError{Field: "n", Reason: fmt.Sprintf("must be within [%d, %d]", armorSensitivityMin, armorSensitivityMax)}
	}
	_, err := c.do("armor sensitivity", []Arg{Int(n)})
	return err
}

// ArmorEvent enables or disables reporting for one armor event kind.
func (c *Commander) ArmorEvent(kind ArmorEventKind, on bool) error {
	_, err := c.do("armor event", []Arg{Token(string(kind)), Bool(on)})
	return err
}

// SoundEvent enables or disables reporting for one sound event kind.
func (c *Commander) SoundEvent(kind SoundEventKind, on bool) error {
	_, err := c.do("sound event", []Arg{Token(string(kind)), Bool(on)})
	return err
}

// LEDControl sets one LED group to a fixed RGB color and effect.
func (c *Commander) LEDControl(pos LEDPosition, effect LEDEffect, r, g, b int) error {
	for _, v := range []int{r, g, b} {
		if v < 0 || v > 255 {
			return &InvalidArgError{Field: "r,g,b", Reason: "must be within [0, 255]"}
		}
	}
	_, err := c.do("led control", []Arg{
		Token("comp"), Token(string(pos)),
		Token("r"), Int(r), Token("g"), Int(g), Token("b"), Int(b),
		Token("effect"), Token(string(effect)),
	})
	return err
}

package commander

import "fmt"

// BlasterFire fires a single gel-bead shot.
func (c *Commander) BlasterFire() error {
	_, err := c.do("blaster fire", nil)
	return err
}

// BlasterBead fires count gel beads, 1..8.
func (c *Commander) BlasterBead(count int) error {
	if count < blasterBeadMin || count > blasterBeadMax {
		return &InvalidArgError{Field: "count", Reason: fmt.Sprintf("must be within [%d, %d]", blasterBeadMin, blasterBeadMax)}
	}
	_, err := c.do("blaster bead", []Arg{Int(count)})
	return err
}

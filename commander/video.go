package commander

// Stream enables or disables the robot's H.264 video stream on port 40921.
func (c *Commander) Stream(on bool) error {
	_, err := c.do("stream", []Arg{Bool(on)})
	return err
}

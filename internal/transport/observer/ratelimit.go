package observer

// cmdWindow admits at most max commands per window ticks. The window
// restarts at the first command after it has elapsed.
type cmdWindow struct {
	window uint64
	max    int

	start uint64
	count int
}

// allow reports whether a command at nowTick is admitted, and otherwise how
// many ticks remain until the window resets.
func (c *cmdWindow) allow(nowTick uint64) (ok bool, cooldownTicks uint64) {
	if c == nil || c.window == 0 || c.max <= 0 {
		return true, 0
	}
	if nowTick-c.start >= c.window {
		c.start = nowTick
		c.count = 0
	}
	c.count++
	if c.count <= c.max {
		return true, 0
	}
	return false, c.start + c.window - nowTick
}

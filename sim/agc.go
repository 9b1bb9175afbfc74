package sim

// AGC is the command module's guidance computer. It implements
// saturn.GuidanceComputer.
type AGC struct {
	virtual  bool
	channels map[int]int
	forward  func(channel, value int) bool
}

// NewAGC returns a computer; virtual selects the emulated AGC.
func NewAGC(virtual bool) *AGC {
	return &AGC{virtual: virtual, channels: make(map[int]int)}
}

func (a *AGC) IsVirtualAGC() bool { return a.virtual }

// SetOutputChannel stores a value written by the IU.
func (a *AGC) SetOutputChannel(channel, value int) { a.channels[channel] = value }

// Channel returns the last value of an output channel.
func (a *AGC) Channel(channel int) (int, bool) {
	v, ok := a.channels[channel]
	return v, ok
}

// WriteChannel stores a value written by the AGC software and forwards it
// to the IU. It reports whether the IU took it.
func (a *AGC) WriteChannel(channel, value int) bool {
	a.channels[channel] = value
	if a.forward == nil {
		return false
	}
	return a.forward(channel, value)
}

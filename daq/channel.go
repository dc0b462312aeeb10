package daq

// DefaultWindowSeconds bounds how much history a Channel retains by
// default: after each Update, every sample older than the newest sample's
// time minus this many seconds is dropped.
const DefaultWindowSeconds = 10.0

const microsPerSecond = 1e6

// Channel tracks a shared time axis, in seconds, and a set of named
// float64 streams aligned to it, trimmed to a rolling time window.
type Channel struct {
	Window float64
	Times  []float64
	Data   map[string][]float64
}

// NewChannel creates an empty Channel retaining windowSeconds of history.
func NewChannel(windowSeconds float64) *Channel {
	return &Channel{Window: windowSeconds, Data: make(map[string][]float64)}
}

// AddChannel starts tracking a named stream with no data yet. Calling it
// again for a name already tracked is a no-op.
func (c *Channel) AddChannel(name string) {
	if _, exists := c.Data[name]; !exists {
		c.Data[name] = []float64{}
	}
}

// RemoveChannel stops tracking a named stream and discards its data.
func (c *Channel) RemoveChannel(name string) {
	delete(c.Data, name)
}

// Update appends one batch of readings, per tracked channel name present
// in values, against timesMicros (converted to seconds). A name in values
// that was never added is ignored. If the batch's first time is earlier
// than the most recently recorded time, the whole buffer is treated as
// the start of a new run and cleared before the batch is appended. After
// appending, every sample older than the newest sample's time minus
// Window is dropped.
func (c *Channel) Update(values map[string][]float64, timesMicros []float64) {
	if len(timesMicros) == 0 {
		return
	}

	times := make([]float64, len(timesMicros))
	for i, t := range timesMicros {
		times[i] = t / microsPerSecond
	}

	if len(c.Times) > 0 && times[0] < c.Times[len(c.Times)-1] {
		c.Times = nil
		for name := range c.Data {
			c.Data[name] = []float64{}
		}
	}

	c.Times = append(c.Times, times...)
	for name, existing := range c.Data {
		if incoming, ok := values[name]; ok {
			c.Data[name] = append(existing, incoming...)
		}
	}

	threshold := c.Times[len(c.Times)-1] - c.Window
	cut := cutIndex(c.Times, threshold)
	c.Times = c.Times[cut:]
	for name, series := range c.Data {
		seriesCut := cut
		if seriesCut > len(series) {
			seriesCut = len(series)
		}
		c.Data[name] = series[seriesCut:]
	}
}

package domain

// Sample is one voltage/current reading. Samples are taken once per second,
// so the index of a sample in its file is its time offset.
type Sample struct {
	Voltage float64
	Current float64
}

// Power returns the unrounded instantaneous power in watts.
func (s Sample) Power() float64 {
	return s.Voltage * s.Current
}

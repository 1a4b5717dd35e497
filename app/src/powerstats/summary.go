package powerstats

import (
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"

	"quote-frontend/app/src/domain"

	"github.com/shopspring/decimal"
)

const (
	powerPlaces   = 4
	averagePlaces = 5
)

// Stats is the min/max/average of one series.
type Stats struct {
	Max     float64
	Min     float64
	Average float64
}

// Summary describes one measurement run.
type Summary struct {
	DurationSeconds int
	Voltage         Stats
	Current         Stats
	Power           Stats
	// Watts holds the per-second power, rounded to four decimals.
	Watts []float64
}

// Summarize computes the run statistics. The power average is the mean of
// the unrounded products, rounded to four decimals.
func Summarize(samples []domain.Sample) (Summary, error) {
	if len(samples) == 0 {
		return Summary{}, domain.ErrEmptyInput
	}

	voltages := make([]float64, len(samples))
	currents := make([]float64, len(samples))
	watts := make([]float64, len(samples))
	var powerSum float64
	for i, s := range samples {
		voltages[i] = s.Voltage
		currents[i] = s.Current
		watts[i] = Round(s.Power(), powerPlaces)
		powerSum += s.Power()
	}

	power := seriesStats(watts, averagePlaces)
	power.Average = Round(powerSum/float64(len(samples)), powerPlaces)

	return Summary{
		DurationSeconds: len(samples),
		Voltage:         seriesStats(voltages, averagePlaces),
		Current:         seriesStats(currents, averagePlaces),
		Power:           power,
		Watts:           watts,
	}, nil
}

func seriesStats(values []float64, places int32) Stats {
	st := Stats{Max: math.Inf(-1), Min: math.Inf(1)}
	var sum float64
	for _, v := range values {
		st.Max = math.Max(st.Max, v)
		st.Min = math.Min(st.Min, v)
		sum += v
	}
	st.Average = Round(sum/float64(len(values)), places)
	return st
}

// Round rounds the exact binary value of x half to even at the given
// number of decimal places.
func Round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	exact, err := decimal.NewFromString(new(big.Float).SetFloat64(x).Text('f', 40))
	if err != nil {
		return x
	}
	rounded, _ := exact.RoundBank(places).Float64()
	return rounded
}

// WriteSummary renders the summary in the plain text report layout.
func WriteSummary(w io.Writer, s Summary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Test duration: %d seconds\n\n", s.DurationSeconds)
	writeBlock(&b, "Voltage", "V", s.Voltage)
	b.WriteString("\n\n")
	writeBlock(&b, "Current", "A", s.Current)
	b.WriteString("\n\n")
	writeBlock(&b, "Wattage", "W", s.Power)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeBlock(b *strings.Builder, name, unit string, st Stats) {
	fmt.Fprintf(b, "%s stats:\n", name)
	fmt.Fprintf(b, "%s max: %s %s\n", name, FormatFloat(st.Max), unit)
	fmt.Fprintf(b, "%s min: %s %s\n", name, FormatFloat(st.Min), unit)
	fmt.Fprintf(b, "%s average: %s %s", name, FormatFloat(st.Average), unit)
}

// FormatFloat prints the shortest representation that round-trips, always
// with a fractional part ("5.0", "0.1234") and in exponent form outside
// [1e-4, 1e16).
func FormatFloat(v float64) string {
	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") && !math.IsInf(v, 0) && !math.IsNaN(v) {
		s += ".0"
	}
	return s
}

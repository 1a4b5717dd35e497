// Package powerstats turns voltage/current logs into power summaries and plots.
package powerstats

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"quote-frontend/app/src/domain"
)

// headerRows is the number of leading rows a measurement log carries before data.
const headerRows = 2

// Columns selects the zero-based CSV columns holding each reading.
type Columns struct {
	Voltage int
	Current int
}

// DefaultColumns matches the layout written by the USB power meter.
var DefaultColumns = Columns{Voltage: 1, Current: 2}

// ReadSamples parses a measurement log. The first two rows are skipped;
// every remaining row is one sample taken one second after the previous one.
func ReadSamples(r io.Reader, cols Columns) ([]domain.Sample, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var samples []domain.Sample
	for row := 0; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedRow, err)
		}
		if row < headerRows {
			continue
		}

		line, _ := reader.FieldPos(0)
		sample, err := parseSample(record, cols)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrMalformedRow, line, err)
		}
		samples = append(samples, sample)
	}

	if len(samples) == 0 {
		return nil, domain.ErrEmptyInput
	}
	return samples, nil
}

// ReadFile opens path and parses it with ReadSamples.
func ReadFile(path string, cols Columns) ([]domain.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	samples, err := ReadSamples(f, cols)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return samples, nil
}

func parseSample(record []string, cols Columns) (domain.Sample, error) {
	voltage, err := parseField(record, cols.Voltage, "voltage")
	if err != nil {
		return domain.Sample{}, err
	}
	current, err := parseField(record, cols.Current, "current")
	if err != nil {
		return domain.Sample{}, err
	}
	return domain.Sample{Voltage: voltage, Current: current}, nil
}

func parseField(record []string, idx int, name string) (float64, error) {
	if idx < 0 || idx >= len(record) {
		return 0, fmt.Errorf("missing %s column %d", name, idx)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(record[idx]), 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", name, record[idx], err)
	}
	return value, nil
}

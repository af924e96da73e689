// Package wind converts wind-speed series into capacity factors through a
// turbine power curve.
package wind

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// CurvePoint is one sample of a turbine power curve.
type CurvePoint struct {
	Speed float64 // wind speed, m/s
	CF    float64 // fractional output in [0, 1]
}

// Curve is a turbine power curve sampled at increasing wind speeds.
type Curve []CurvePoint

// ParseCurve reads a whitespace-delimited power-curve file of
// (wind_speed, label, capacity_factor) triples, one per line. The middle
// label column is ignored. Blank lines are skipped.
func ParseCurve(r io.Reader) (Curve, error) {
	var curve Curve
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("power curve line %d: expected 3 columns, got %d", lineNum, len(fields))
		}
		speed, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("power curve line %d: bad wind speed %q: %w", lineNum, fields[0], err)
		}
		cf, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("power curve line %d: bad capacity factor %q: %w", lineNum, fields[2], err)
		}
		if speed < 0 {
			return nil, fmt.Errorf("power curve line %d: negative wind speed %g", lineNum, speed)
		}
		curve = append(curve, CurvePoint{Speed: speed, CF: cf})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("power curve: %w", err)
	}
	if err := curve.validate(); err != nil {
		return nil, err
	}
	return curve, nil
}

// ReadCurveFile reads a power curve from disk.
func ReadCurveFile(path string) (Curve, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseCurve(f)
}

func (c Curve) validate() error {
	if len(c) < 2 {
		return fmt.Errorf("power curve needs at least 2 points, got %d", len(c))
	}
	for i := 1; i < len(c); i++ {
		if c[i].Speed <= c[i-1].Speed {
			return fmt.Errorf("power curve speeds not strictly increasing at point %d (%g then %g)",
				i, c[i-1].Speed, c[i].Speed)
		}
	}
	return nil
}

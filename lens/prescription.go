package lens

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// A single row of a lens prescription in patent format: the curvature radius
// of the surface, the axial distance to the next surface, the refractive
// index of the glass that follows it, a flatness flag for iris and sensor
// planes, plus the published width, height and anti-reflective coating
// parameters.
type PatentEntry struct {
	Radius    float32
	Thickness float32
	IOR       float32
	Flat      bool
	Width     float32
	Height    float32
	Coating   float32
}

// A named list of patent-format rows, front element first. Aperture holds
// the row index of the iris plane.
type Prescription struct {
	Name     string
	Aperture int
	Rows     []PatentEntry
}

// The row index of the iris plane in the Nikon prescription.
const NikonApertureIndex = 14

// The published prescription for the Nikon 28-75mm f/2.8 zoom. Row 14 is the
// iris plane and the final row is the sensor plane.
func NikonPrescription() Prescription {
	return Prescription{
		Name:     "nikon-28-75mm",
		Aperture: NikonApertureIndex,
		Rows: []PatentEntry{
			{72.747, 2.300, 1.60300, false, 0.2, 29.0, 530},
			{37.000, 13.000, 1.00000, false, 0.2, 29.0, 600},
			{-172.809, 2.100, 1.58913, false, 2.7, 26.2, 570},
			{39.894, 1.000, 1.00000, false, 2.7, 26.2, 660},
			{49.820, 4.400, 1.86074, false, 0.5, 20.0, 330},
			{74.750, 53.142, 1.00000, false, 0.5, 20.0, 544},
			{63.402, 1.600, 1.86074, false, 0.5, 16.1, 740},
			{37.530, 8.600, 1.51680, false, 0.5, 16.1, 411},
			{-75.887, 1.600, 1.80458, false, 0.5, 16.0, 580},
			{-97.792, 7.063, 1.00000, false, 0.5, 16.5, 730},
			{96.034, 3.600, 1.62041, false, 0.5, 18.0, 700},
			{261.743, 0.100, 1.00000, false, 0.5, 18.0, 440},
			{54.262, 6.000, 1.69680, false, 0.5, 18.0, 800},
			{-5995.277, 1.532, 1.00000, false, 0.5, 18.0, 300},
			{0.0, 2.800, 1.00000, true, 18.0, 7.0, 440},
			{-74.414, 2.200, 1.90265, false, 0.5, 13.0, 500},
			{-62.929, 1.450, 1.51680, false, 0.1, 13.0, 770},
			{121.380, 2.500, 1.00000, false, 4.0, 13.1, 820},
			{-85.723, 1.400, 1.49782, false, 4.0, 13.0, 200},
			{31.093, 2.600, 1.80458, false, 4.0, 13.1, 540},
			{84.758, 16.889, 1.00000, false, 0.5, 13.0, 580},
			{459.690, 1.400, 1.86074, false, 1.0, 15.0, 533},
			{40.240, 7.300, 1.49782, false, 1.0, 15.0, 666},
			{-49.771, 0.100, 1.00000, false, 1.0, 15.2, 500},
			{62.369, 7.000, 1.67025, false, 1.0, 16.0, 487},
			{-76.454, 5.200, 1.00000, false, 1.0, 16.0, 671},
			{-32.524, 2.000, 1.80454, false, 0.5, 17.0, 487},
			{-50.194, 39.683, 1.00000, false, 0.5, 17.0, 732},
			{0.0, 5.0, 1.00000, true, 10.0, 10.0, 500},
		},
	}
}

// Parse a prescription from its plain-text form. Each line describes one row
// as whitespace-separated columns matching the patent format field order:
//
//	radius thickness ior flat width height coating
//
// Blank lines and lines starting with # are skipped. The iris plane is taken
// to be the first flat row.
func ReadPrescription(name string, r io.Reader) (Prescription, error) {
	p := Prescription{
		Name:     name,
		Aperture: -1,
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 7 {
			return Prescription{}, fmt.Errorf("prescription: line %d: expected 7 columns; got %d", lineNo, len(fields))
		}

		var entry PatentEntry
		var err error
		if entry.Radius, err = parseColumn(lineNo, "radius", fields[0]); err != nil {
			return Prescription{}, err
		}
		if entry.Thickness, err = parseColumn(lineNo, "thickness", fields[1]); err != nil {
			return Prescription{}, err
		}
		if entry.IOR, err = parseColumn(lineNo, "ior", fields[2]); err != nil {
			return Prescription{}, err
		}
		if entry.Width, err = parseColumn(lineNo, "width", fields[4]); err != nil {
			return Prescription{}, err
		}
		if entry.Height, err = parseColumn(lineNo, "height", fields[5]); err != nil {
			return Prescription{}, err
		}
		if entry.Coating, err = parseColumn(lineNo, "coating", fields[6]); err != nil {
			return Prescription{}, err
		}

		flat, err := strconv.ParseBool(fields[3])
		if err != nil {
			return Prescription{}, fmt.Errorf("prescription: line %d: invalid flat value %q", lineNo, fields[3])
		}
		entry.Flat = flat

		if flat && p.Aperture == -1 {
			p.Aperture = len(p.Rows)
		}
		p.Rows = append(p.Rows, entry)
	}
	if err := scanner.Err(); err != nil {
		return Prescription{}, fmt.Errorf("prescription: %s", err.Error())
	}

	return p, nil
}

// Parse a single numeric prescription column.
func parseColumn(lineNo int, name, value string) (float32, error) {
	val, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return 0, fmt.Errorf("prescription: line %d: invalid %s value %q", lineNo, name, value)
	}
	return float32(val), nil
}

// Load a prescription from a local file or a http/https URL. The name of the
// returned prescription is derived from the resource path.
func LoadPrescription(pathOrURL string) (Prescription, error) {
	res, err := NewResource(pathOrURL)
	if err != nil {
		return Prescription{}, err
	}
	defer res.Close()

	return ReadPrescription(res.Name(), res)
}

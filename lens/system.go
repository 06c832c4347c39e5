package lens

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/benpm/opengl-lens-flare/log"
	"github.com/benpm/opengl-lens-flare/types"
	"github.com/olekukonko/tablewriter"
)

var (
	ErrPrescriptionTooShort = errors.New("lens: prescription needs at least 5 rows to form ghosts")
)

type SurfaceKind uint8

const (
	Spherical SurfaceKind = iota
	Planar
)

// Get a printable surface kind name.
func (k SurfaceKind) String() string {
	switch k {
	case Spherical:
		return "spherical"
	case Planar:
		return "planar"
	}
	return "unknown"
}

// The surface shape of an optical interface. Radius is only meaningful for
// spherical surfaces; all dispatch happens on Kind.
type Surface struct {
	Kind   SurfaceKind
	Radius float32
}

// Define a spherical surface with the given signed curvature radius.
func SphericalSurface(radius float32) Surface {
	return Surface{Kind: Spherical, Radius: radius}
}

// Define a planar surface (iris and sensor planes).
func PlanarSurface() Surface {
	return Surface{Kind: Planar}
}

// One optical interface of the run-time stack.
type Interface struct {
	// Sphere center on the optical axis.
	Center types.Vec3

	// The surface shape.
	Surface Surface

	// Refractive triple: N[0] = index before the surface, N[1] = coating
	// index, N[2] = index after the surface.
	N types.Vec3

	// Surface aperture (radial extent).
	SA float32

	// Coating thickness term.
	D1 float32

	// Absolute axial position.
	Pos float32

	// Width factor carried from the prescription.
	W float32
}

// A compiled lens system: the interface stack an incoming ray crosses, with
// index 0 closest to the sensor and the last index at the front element.
type System struct {
	Name string

	// Stack index of the iris plane or -1 when the prescription does not
	// mark one.
	Aperture int

	Interfaces []Interface
}

// Build compiles a patent-format prescription into the run-time interface
// stack. The prescription is walked in reverse so the sensor-side row lands
// at index 0 and axial positions accumulate from there towards the front
// element. Refractive indices chain across rows with vacuum outside the
// front element; IOR values are deliberately not checked for physical
// plausibility.
func Build(p Prescription) (*System, error) {
	if len(p.Rows) < 5 {
		return nil, ErrPrescriptionTooShort
	}

	logger := log.New("lens compiler")
	start := time.Now()

	sys := &System{
		Name:       p.Name,
		Aperture:   -1,
		Interfaces: make([]Interface, 0, len(p.Rows)),
	}

	var total float32
	for i := len(p.Rows) - 1; i >= 0; i-- {
		entry := p.Rows[i]
		total += entry.Thickness

		surface := SphericalSurface(entry.Radius)
		if entry.Flat {
			surface = PlanarSurface()
		}

		incident := float32(1.0)
		if i > 0 {
			incident = p.Rows[i-1].IOR
		}

		sys.Interfaces = append(sys.Interfaces, Interface{
			Center:  types.XYZ(0, 0, total-entry.Radius),
			Surface: surface,
			N:       types.XYZ(incident, 1.0, entry.IOR),
			SA:      entry.Height,
			D1:      entry.Coating,
			Pos:     total,
			W:       entry.Width,
		})
	}

	if p.Aperture >= 0 && p.Aperture < len(p.Rows) {
		sys.Aperture = len(p.Rows) - 1 - p.Aperture
	}

	if err := sys.Validate(); err != nil {
		return nil, err
	}

	logger.Noticef("compiled %s: %d interfaces, %d ghosts in %d ms",
		sys.Name, len(sys.Interfaces), GhostCount(len(sys.Interfaces)),
		time.Since(start).Nanoseconds()/1000000)

	return sys, nil
}

// Validate checks the structural invariants of the stack: refractive indices
// chain across consecutive interfaces, the outermost interface borders
// vacuum and axial positions never decrease.
func (sys *System) Validate() error {
	n := len(sys.Interfaces)
	if n == 0 {
		return ErrPrescriptionTooShort
	}

	for k := 0; k < n-1; k++ {
		if sys.Interfaces[k].N[0] != sys.Interfaces[k+1].N[2] {
			return fmt.Errorf("lens: refractive index chain broken between interfaces %d and %d", k, k+1)
		}
		if sys.Interfaces[k].Pos > sys.Interfaces[k+1].Pos {
			return fmt.Errorf("lens: axial position decreases between interfaces %d and %d", k, k+1)
		}
	}

	if sys.Interfaces[n-1].N[0] != 1.0 {
		return fmt.Errorf("lens: outermost interface must border vacuum; got IOR %.5f", sys.Interfaces[n-1].N[0])
	}

	return nil
}

// Build a tabular representation of the interface stack.
func (sys *System) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"#", "Surface", "Radius", "Position", "Aperture", "IOR in", "IOR out", "Coating"})

	for k, iface := range sys.Interfaces {
		radius := "-"
		if iface.Surface.Kind == Spherical {
			radius = fmt.Sprintf("%.3f", iface.Surface.Radius)
		}
		kind := iface.Surface.Kind.String()
		if k == sys.Aperture {
			kind += " (iris)"
		}
		table.Append([]string{
			fmt.Sprintf("%d", k),
			kind,
			radius,
			fmt.Sprintf("%.3f", iface.Pos),
			fmt.Sprintf("%.1f", iface.SA),
			fmt.Sprintf("%.5f", iface.N[0]),
			fmt.Sprintf("%.5f", iface.N[2]),
			fmt.Sprintf("%.0f", iface.D1),
		})
	}

	ghosts := EnumerateGhosts(len(sys.Interfaces))
	table.SetFooter([]string{
		"Total",
		fmt.Sprintf("%d interfaces", len(sys.Interfaces)),
		"",
		"",
		"",
		"",
		fmt.Sprintf("%d ghosts", len(ghosts)),
		strings.TrimLeft(fmtSize(sys.InterfaceData(), PackGhosts(ghosts)), " "),
	})

	table.Render()
	return buf.String()
}

// Sum the total space used by a set of slices and return back a formatted
// value with the appropriate byte/kb/mb unit.
func fmtSize(items ...interface{}) string {
	var totalBytes float32 = 0.0
	for _, item := range items {
		t := reflect.TypeOf(item)
		v := reflect.ValueOf(item)
		if v.Len() == 0 {
			continue
		}

		totalBytes += float32(int(t.Elem().Size()) * v.Len())
	}

	if totalBytes < 1e3 {
		return fmt.Sprintf("%3d bytes", int(totalBytes))
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", totalBytes/1e3)
	}
	return fmt.Sprintf("%5.1f mb", totalBytes/1e6)
}

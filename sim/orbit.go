package sim

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/saturn-connectors/model"
)

// Earth constants in SI units.
const (
	EarthMu     = 3.986004418e14 // m^3/s^2
	EarthRadius = 6.371e6        // m
)

// ErrInvalidTLE is returned for malformed two-line element sets.
var ErrInvalidTLE = errors.New("invalid TLE")

// Orbit propagates a parking orbit from a TLE with SGP4.
// go-satellite works in kilometres; Orbit returns metres.
type Orbit struct {
	sat satellite.Satellite
}

// NewOrbitFromTLE constructs an orbit from TLE lines.
func NewOrbitFromTLE(line1, line2 string) (*Orbit, error) {
	line1 = strings.TrimRight(line1, " \r\n")
	line2 = strings.TrimRight(line2, " \r\n")
	if len(line1) != 69 || !strings.HasPrefix(line1, "1 ") {
		return nil, fmt.Errorf("%w: line 1 %q", ErrInvalidTLE, line1)
	}
	if len(line2) != 69 || !strings.HasPrefix(line2, "2 ") {
		return nil, fmt.Errorf("%w: line 2 %q", ErrInvalidTLE, line2)
	}
	if err := checkTLE(line1, line2); err != nil {
		return nil, err
	}
	return &Orbit{sat: satellite.TLEToSat(line1, line2, satellite.GravityWGS72)}, nil
}

// tleField is one column range go-satellite parses, in the form it parses
// it. A field go-satellite cannot parse terminates the process, so every
// one is checked up front.
type tleField struct {
	name    string
	text    string
	integer bool
}

func checkTLE(line1, line2 string) error {
	for i, line := range []string{line1, line2} {
		if want, got := tleChecksum(line), line[68]; got != want {
			return fmt.Errorf("%w: line %d checksum %q, want %q", ErrInvalidTLE, i+1, got, want)
		}
	}

	squeeze := func(s string) string { return strings.Replace(s, " ", "", 2) }
	fields := []tleField{
		{"catalog number", strings.TrimSpace(line1[2:7]), true},
		{"epoch year", line1[18:20], true},
		{"epoch day", line1[20:32], false},
		{"mean motion derivative", squeeze(line1[33:43]), false},
		{"mean motion second derivative", squeeze(line1[44:45] + "." + line1[45:50] + "e" + line1[50:52]), false},
		{"drag term", squeeze(line1[53:54] + "." + line1[54:59] + "e" + line1[59:61]), false},
		{"inclination", squeeze(line2[8:16]), false},
		{"right ascension", squeeze(line2[17:25]), false},
		{"eccentricity", "." + line2[26:33], false},
		{"argument of perigee", squeeze(line2[34:42]), false},
		{"mean anomaly", squeeze(line2[43:51]), false},
		{"mean motion", squeeze(line2[52:63]), false},
	}
	for _, f := range fields {
		var err error
		if f.integer {
			_, err = strconv.ParseInt(f.text, 10, 0)
		} else {
			_, err = strconv.ParseFloat(f.text, 64)
		}
		if err != nil {
			return fmt.Errorf("%w: %s %q", ErrInvalidTLE, f.name, f.text)
		}
	}
	return nil
}

// tleChecksum is the mod-10 sum of the digits of the first 68 columns, with
// each minus sign counting as one.
func tleChecksum(line string) byte {
	sum := 0
	for _, c := range line[:68] {
		switch {
		case c >= '0' && c <= '9':
			sum += int(c - '0')
		case c == '-':
			sum++
		}
	}
	return byte('0' + sum%10)
}

// State returns the ECI position (m) and velocity (m/s) at t.
func (o *Orbit) State(t time.Time) (pos, vel model.Vector3) {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	p, v := satellite.Propagate(o.sat, year, int(month), day, hour, min, sec)

	const kmToM = 1000.0
	return model.V(p.X, p.Y, p.Z).Scale(kmToM), model.V(v.X, v.Y, v.Z).Scale(kmToM)
}

// Altitude returns the geodetic altitude (m) of an ECI position at t.
func Altitude(pos model.Vector3, t time.Time) float64 {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()
	gmst := satellite.ThetaG_JD(satellite.JDay(year, int(month), day, hour, min, sec))

	const mToKm = 1 / 1000.0
	alt, _, _ := satellite.ECIToLLA(satellite.Vector3{X: pos.X * mToKm, Y: pos.Y * mToKm, Z: pos.Z * mToKm}, gmst)
	return alt * 1000
}

// ElementsFromState derives osculating elements from an Earth-centred
// state vector. Angles are in radians.
func ElementsFromState(r, v model.Vector3) model.Elements {
	rn, vn := r.Norm(), v.Norm()
	if rn == 0 {
		return model.Elements{}
	}

	h := r.Cross(v)
	hn := h.Norm()
	node := model.V(-h.Y, h.X, 0)
	nn := node.Norm()

	ecc := r.Scale(vn*vn - EarthMu/rn).Sub(v.Scale(r.Dot(v))).Scale(1 / EarthMu)
	e := ecc.Norm()

	energy := vn*vn/2 - EarthMu/rn
	a := math.Inf(1)
	if energy != 0 {
		a = -EarthMu / (2 * energy)
	}

	inc := 0.0
	if hn > 0 {
		inc = math.Acos(clamp(h.Z/hn, -1, 1))
	}

	const eps = 1e-9
	raan := 0.0
	if nn > eps {
		raan = wrap(math.Atan2(node.Y, node.X))
	}

	// Longitude of periapsis, measured from the reference direction.
	lpe := 0.0
	if e > eps {
		lpe = wrap(math.Atan2(ecc.Y, ecc.X))
		if nn > eps {
			argp := math.Acos(clamp(node.Dot(ecc)/(nn*e), -1, 1))
			if ecc.Z < 0 {
				argp = 2*math.Pi - argp
			}
			lpe = wrap(raan + argp)
		}
	}

	// True longitude, then mean longitude for elliptic orbits.
	trueLon := wrap(math.Atan2(r.Y, r.X))
	meanLon := trueLon
	if e > eps && e < 1 {
		nu := math.Acos(clamp(ecc.Dot(r)/(e*rn), -1, 1))
		if r.Dot(v) < 0 {
			nu = 2*math.Pi - nu
		}
		E := 2 * math.Atan(math.Sqrt((1-e)/(1+e))*math.Tan(nu/2))
		M := E - e*math.Sin(E)
		meanLon = wrap(lpe + M)
	}

	return model.Elements{
		SemiMajorAxis:      a,
		Eccentricity:       e,
		Inclination:        inc,
		AscendingNode:      raan,
		LongitudePeriapsis: lpe,
		MeanLongitude:      meanLon,
	}
}

// ApoapsisDistance returns the apoapsis radius, or +Inf for escape orbits.
func ApoapsisDistance(el model.Elements) float64 {
	if el.Eccentricity >= 1 || el.SemiMajorAxis <= 0 || math.IsInf(el.SemiMajorAxis, 0) {
		return math.Inf(1)
	}
	return el.SemiMajorAxis * (1 + el.Eccentricity)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func wrap(angle float64) float64 {
	angle = math.Mod(angle, 2*math.Pi)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle
}

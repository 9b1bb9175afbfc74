package sim

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/signalsfoundry/saturn-connectors/model"
)

const (
	issLine1 = "1 25544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9993"
	issLine2 = "2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.49370953257767"
)

var epoch = time.Date(2021, 10, 2, 0, 0, 0, 0, time.UTC)

func approx(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestNewOrbitFromTLERejectsMalformedLines(t *testing.T) {
	if _, err := NewOrbitFromTLE("1 25544U", issLine2); !errors.Is(err, ErrInvalidTLE) {
		t.Fatalf("short line 1 error = %v, want ErrInvalidTLE", err)
	}
	if _, err := NewOrbitFromTLE(issLine1, issLine1); !errors.Is(err, ErrInvalidTLE) {
		t.Fatalf("swapped lines error = %v, want ErrInvalidTLE", err)
	}
	junk1 := "1 " + strings.Repeat("x", 67)
	junk2 := "2 " + strings.Repeat("x", 67)
	if _, err := NewOrbitFromTLE(junk1, junk2); !errors.Is(err, ErrInvalidTLE) {
		t.Fatalf("non-numeric lines error = %v, want ErrInvalidTLE", err)
	}
	badSum := issLine1[:68] + "0"
	if _, err := NewOrbitFromTLE(badSum, issLine2); !errors.Is(err, ErrInvalidTLE) {
		t.Fatalf("bad checksum error = %v, want ErrInvalidTLE", err)
	}
	// Corrupt the inclination and repair the checksum so only the field check can fail.
	badIncl := issLine2[:8] + "51.6x59" + issLine2[15:68]
	badIncl += string(tleChecksum(badIncl))
	if _, err := NewOrbitFromTLE(issLine1, badIncl); !errors.Is(err, ErrInvalidTLE) {
		t.Fatalf("bad inclination error = %v, want ErrInvalidTLE", err)
	}
}

func TestTLEChecksum(t *testing.T) {
	for _, line := range []string{issLine1, issLine2} {
		if got, want := tleChecksum(line), line[68]; got != want {
			t.Fatalf("tleChecksum(%q) = %q, want %q", line, got, want)
		}
	}
}

func TestOrbitStateIsLowEarthOrbit(t *testing.T) {
	o, err := NewOrbitFromTLE(issLine1, issLine2)
	if err != nil {
		t.Fatalf("NewOrbitFromTLE: %v", err)
	}
	pos, vel := o.State(epoch)

	if r := pos.Norm(); r < 6.6e6 || r > 7.0e6 {
		t.Fatalf("|r| = %.0f m, want a low Earth orbit radius", r)
	}
	if v := vel.Norm(); v < 7.4e3 || v > 7.9e3 {
		t.Fatalf("|v| = %.1f m/s, want ~7.66 km/s", v)
	}
	if alt := Altitude(pos, epoch); alt < 300e3 || alt > 500e3 {
		t.Fatalf("altitude = %.0f m, want 300-500 km", alt)
	}

	el := ElementsFromState(pos, vel)
	if inc := el.Inclination * 180 / math.Pi; !approx(inc, 51.6, 1) {
		t.Fatalf("inclination = %.2f deg, want ~51.6", inc)
	}
	if el.Eccentricity > 0.01 {
		t.Fatalf("eccentricity = %v, want near circular", el.Eccentricity)
	}
}

func TestElementsFromStateCircularEquatorial(t *testing.T) {
	r := 7.0e6
	vc := math.Sqrt(EarthMu / r)

	el := ElementsFromState(model.V(r, 0, 0), model.V(0, vc, 0))
	if !approx(el.SemiMajorAxis, r, 1) {
		t.Fatalf("a = %v, want %v", el.SemiMajorAxis, r)
	}
	if el.Eccentricity > 1e-9 || el.Inclination > 1e-9 {
		t.Fatalf("e = %v i = %v, want 0", el.Eccentricity, el.Inclination)
	}
	if ap := ApoapsisDistance(el); !approx(ap, r, 1) {
		t.Fatalf("apoapsis = %v, want %v", ap, r)
	}
}

func TestElementsFromStateInclined(t *testing.T) {
	r := 7.0e6
	vc := math.Sqrt(EarthMu / r)
	inc := 30 * math.Pi / 180

	el := ElementsFromState(model.V(r, 0, 0), model.V(0, vc*math.Cos(inc), vc*math.Sin(inc)))
	if !approx(el.Inclination, inc, 1e-9) {
		t.Fatalf("i = %v, want %v", el.Inclination, inc)
	}
	if !approx(el.AscendingNode, 0, 1e-9) {
		t.Fatalf("ascending node = %v, want 0", el.AscendingNode)
	}
}

func TestElementsFromStateAtPeriapsis(t *testing.T) {
	r := 7.0e6
	v := 1.1 * math.Sqrt(EarthMu/r)

	el := ElementsFromState(model.V(r, 0, 0), model.V(0, v, 0))
	if !approx(el.Eccentricity, 0.21, 1e-9) {
		t.Fatalf("e = %v, want 0.21", el.Eccentricity)
	}
	if !approx(el.SemiMajorAxis, r/0.79, 1) {
		t.Fatalf("a = %v, want %v", el.SemiMajorAxis, r/0.79)
	}
	if el.LongitudePeriapsis != 0 || el.MeanLongitude != 0 {
		t.Fatalf("periapsis longitude = %v mean longitude = %v, want 0", el.LongitudePeriapsis, el.MeanLongitude)
	}
	if ap := ApoapsisDistance(el); !approx(ap, el.SemiMajorAxis*1.21, 1) {
		t.Fatalf("apoapsis = %v", ap)
	}
}

func TestApoapsisDistanceEscape(t *testing.T) {
	r := 7.0e6
	v := 1.5 * math.Sqrt(2*EarthMu/r)

	if ap := ApoapsisDistance(ElementsFromState(model.V(r, 0, 0), model.V(0, v, 0))); !math.IsInf(ap, 1) {
		t.Fatalf("escape apoapsis = %v, want +Inf", ap)
	}
}

func TestElementsFromStateZeroPosition(t *testing.T) {
	if el := ElementsFromState(model.Vector3{}, model.V(1, 0, 0)); el != (model.Elements{}) {
		t.Fatalf("elements at origin = %+v, want zero", el)
	}
}

func TestMJD(t *testing.T) {
	if got := MJD(time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)); got != 40587 {
		t.Fatalf("MJD(unix epoch) = %v, want 40587", got)
	}
	if got := MJD(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)); !approx(got, 51544.5, 1e-9) {
		t.Fatalf("MJD(J2000) = %v, want 51544.5", got)
	}
}

package campyros

import (
	"testing"

	"github.com/gonum/floats"
)

func testRocket(pitch float64, chute Parachute) *Rocket {
	times, masses := LinearBurnTable(4, 5, 11)
	massModel, err := NewCylindricalMassModel(46, 0.1, 2, times, masses)
	if err != nil {
		panic(err)
	}
	motor := ConstantThrustMotor(2000, 5, 101325, 0.01, 1.8)
	site := NewLaunchSite(5, 0, pitch, 0, 0.1160, 52.2079, nil)
	return NewRocket(massModel, motor, NullAeroModel{Area: 0.0086}, site, nil, chute, NominalFactors())
}

func TestNewRocketInitialState(t *testing.T) {
	r := testRocket(0, Parachute{})
	if !r.OnRail() || r.BurnOut() || r.ParachuteDeployed() {
		t.Fatal("wrong initial phase flags")
	}
	if alt := PosI2Alt(r.PosI, 0); !floats.EqualWithinAbs(alt, r.LaunchSite.Alt, 1e-6) {
		t.Fatalf("initial altitude %f, expected %f", alt, r.LaunchSite.Alt)
	}
	// At rest relative to the rotating Earth.
	velL := VelI2L(r.VelI, r.LaunchSite, 0)
	if !floats.EqualWithinAbs(norm(velL), 0, 1e-9) {
		t.Fatalf("initial launch-frame velocity %+v", velL)
	}
	if !vectorsEqual(r.WB, []float64{0, 0, 0}) {
		t.Fatal("initial angular velocity not zero")
	}
	assertOrthonormal(t, r.B2I)
	// A vertical rail points the body x axis straight up.
	xbI, _, _ := RotationAxes(r.B2I)
	xbL := DirectionI2L(xbI, r.LaunchSite, 0)
	if !floats.EqualWithinAbs(xbL[2], 1, 1e-9) {
		t.Fatalf("vertical rail body x in launch frame: %+v", xbL)
	}
}

func TestFDotGravityOnly(t *testing.T) {
	r := testRocket(0, Parachute{})
	r.Motor = nil
	r.onRail = false
	s := NewFlight(r, ExportConfig{}).GetState()
	fDot := r.FDot(0, s)

	// The velocity derivative is the state velocity itself.
	for i := 0; i < 3; i++ {
		if fDot[i] != s[i+3] {
			t.Fatal("position derivative is not the velocity")
		}
	}
	// Still air, co-rotating launch: the only force is gravity, straight down in the
	// launch frame at the surface gravity magnitude.
	accL := DirectionI2L(fDot[3:6], r.LaunchSite, 0)
	g := MuEarth / (REarth * REarth)
	if !floats.EqualWithinAbs(accL[2], -g, 1e-3) {
		t.Fatalf("vertical acceleration %f, expected %f", accL[2], -g)
	}
	if !floats.EqualWithinAbs(accL[0], 0, 1e-6) || !floats.EqualWithinAbs(accL[1], 0, 1e-6) {
		t.Fatalf("lateral acceleration %+v", accL)
	}
	// No moments, no rotation.
	if !vectorsEqual(fDot[6:9], []float64{0, 0, 0}) {
		t.Fatalf("angular acceleration %+v", fDot[6:9])
	}
}

func TestFDotGravityErrorFactor(t *testing.T) {
	r := testRocket(0, Parachute{})
	r.Motor = nil
	r.onRail = false
	s := NewFlight(r, ExportConfig{}).GetState()
	nominal := r.FDot(0, s)

	r.Errors.Gravity = 2
	doubled := r.FDot(0, s)
	for i := 3; i < 6; i++ {
		if !floats.EqualWithinAbs(doubled[i], 2*nominal[i], 1e-9) {
			t.Fatalf("gravity factor not applied: %f vs %f", doubled[i], nominal[i])
		}
	}
}

func TestFDotRailConstraint(t *testing.T) {
	// On a pitched rail, thrust plus gravity must still accelerate along the body x
	// axis only.
	r := testRocket(10, Parachute{})
	s := NewFlight(r, ExportConfig{}).GetState()
	fDot := r.FDot(0, s)
	xbI, _, _ := RotationAxes(r.B2I)
	lateral := cross(fDot[3:6], xbI)
	if !floats.EqualWithinAbs(norm(lateral), 0, 1e-6) {
		t.Fatalf("rail-phase acceleration not collinear with the rail: %+v", lateral)
	}
	if dot(fDot[3:6], xbI) <= 0 {
		t.Fatal("thrust should push the rocket up the rail")
	}
	if !vectorsEqual(fDot[6:9], []float64{0, 0, 0}) {
		t.Fatal("the rail must prevent rotation")
	}
}

func TestCheckPhaseRailAndBurnout(t *testing.T) {
	r := testRocket(0, Parachute{})
	// Still at the base of the rail: no event.
	if events := r.checkPhase(); len(events) != 0 {
		t.Fatalf("unexpected events %+v", events)
	}
	// Past the end of the rail.
	r.PosI = PosL2I([]float64{0, 0, r.LaunchSite.Alt + 6}, r.LaunchSite, 0)
	events := r.checkPhase()
	if len(events) != 1 || events[0] != EventClearedRail {
		t.Fatalf("expected rail event, got %+v", events)
	}
	if r.OnRail() {
		t.Fatal("still on rail after clearing it")
	}
	// Burnout fires once, at the first check past the burn time.
	r.Time = 5.2
	events = r.checkPhase()
	if len(events) != 1 || events[0] != EventBurnout {
		t.Fatalf("expected burnout event, got %+v", events)
	}
	r.Time = 6
	if events = r.checkPhase(); len(events) != 0 {
		t.Fatalf("burnout fired twice: %+v", events)
	}
}

func TestCheckPhaseApogeeDeploysParachute(t *testing.T) {
	chute := Parachute{MainArea: 2, MainCd: 1, DrogueArea: 0.3, DrogueCd: 0.8, MainAlt: 300}
	r := testRocket(0, chute)
	r.onRail = false
	r.burnOut = true
	r.WB = []float64{0.1, -0.2, 0.3}

	// Ascending polls only move the watch and record along.
	for i, alt := range []float64{800, 1200, 1500} {
		r.Time = float64(i+1) * 2.5
		r.PosI = PosL2I([]float64{0, 0, alt}, r.LaunchSite, r.Time)
		if events := r.checkPhase(); len(events) != 0 {
			t.Fatalf("deployed while ascending: %+v", events)
		}
	}
	// First descending poll is apogee.
	r.Time = 10
	r.PosI = PosL2I([]float64{0, 0, 1480}, r.LaunchSite, r.Time)
	events := r.checkPhase()
	if len(events) != 1 || events[0] != EventParachute {
		t.Fatalf("expected parachute event, got %+v", events)
	}
	if !r.ParachuteDeployed() {
		t.Fatal("flag not set")
	}
	if !vectorsEqual(r.WB, []float64{0, 0, 0}) {
		t.Fatal("deployment must zero the angular velocity")
	}
	// One-shot.
	r.Time = 12.5
	r.PosI = PosL2I([]float64{0, 0, 1300}, r.LaunchSite, r.Time)
	if events = r.checkPhase(); len(events) != 0 {
		t.Fatalf("parachute fired twice: %+v", events)
	}
}

func TestParachuteDrag(t *testing.T) {
	chute := Parachute{MainArea: 2, MainCd: 1, DrogueArea: 0.3, DrogueCd: 0.8, MainAlt: 300}
	if cd, area := chute.Drag(1000); cd != 0.8 || area != 0.3 {
		t.Fatal("drogue stage expected above the main altitude")
	}
	if cd, area := chute.Drag(200); cd != 1.0 || area != 2.0 {
		t.Fatal("main stage expected below the main altitude")
	}
	if chute.IsZero() {
		t.Fatal("real parachute reported as zero")
	}
	if !(Parachute{}).IsZero() {
		t.Fatal("zero parachute not reported as zero")
	}
}

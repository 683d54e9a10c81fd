package main

import (
	"flag"
	"log"
	"strings"

	campyros "github.com/CUSF-Simulation/CamPyRoS"
	"github.com/spf13/viper"
)

// This code effectively only reads the scenario file and flies the rocket.

const defaultScenario = "~~unset~~"

var (
	scenario string
	verbose  bool
)

func init() {
	// Read flags
	flag.StringVar(&scenario, "scenario", defaultScenario, "flight scenario TOML file")
	flag.BoolVar(&verbose, "verbose", false, "really verbose (esp. for configuration)")
}

func main() {
	flag.Parse()
	// Load scenario
	if scenario == defaultScenario {
		log.Fatal("no scenario provided")
	}
	scenario = strings.Replace(scenario, ".toml", "", 1)
	viper.AddConfigPath(".")
	viper.SetConfigName(scenario)
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("./%s.toml: Error %s", scenario, err)
	}

	rocket := rocketFromConf()

	conf := campyros.ExportConfig{
		Filename:  viper.GetString("sim.output"),
		AsJSON:    viper.GetBool("sim.json"),
		AsCSV:     viper.GetBool("sim.csv"),
		Timestamp: viper.GetBool("sim.timestamp"),
	}

	if runs := viper.GetInt("montecarlo.runs"); runs > 0 {
		disp := campyros.Dispersions{
			GravitySigma:      viper.GetFloat64("montecarlo.gravity_sigma"),
			PressureSigma:     viper.GetFloat64("montecarlo.pressure_sigma"),
			DensitySigma:      viper.GetFloat64("montecarlo.density_sigma"),
			SpeedOfSoundSigma: viper.GetFloat64("montecarlo.speed_of_sound_sigma"),
			WindSigma:         viper.GetFloat64("montecarlo.wind_sigma"),
		}
		mc, err := campyros.NewMonteCarlo(rocketFromConf, runs, disp)
		if err != nil {
			log.Fatalf("monte carlo: %s", err)
		}
		for i, res := range mc.Run() {
			if res.Err != nil {
				log.Printf("run %d failed: %s", i, res.Err)
				continue
			}
			log.Printf("run %d: apogee %.1f m, landing %.1f m south, %.1f m east", i, res.Apogee, res.LandingL[0], res.LandingL[1])
		}
		return
	}

	variable := true
	if viper.IsSet("sim.variable") {
		variable = viper.GetBool("sim.variable")
	}
	step := viper.GetFloat64("sim.step")
	if step == 0 {
		step = campyros.DefaultStep
	}
	maxTime := viper.GetFloat64("sim.maxtime")
	if maxTime == 0 {
		maxTime = campyros.DefaultMaxTime
	}
	rec, err := campyros.NewPreciseFlight(rocket, variable, step, maxTime, conf).Run()
	if err != nil {
		log.Fatalf("flight aborted: %s", err)
	}
	log.Printf("flown %d steps, apogee %.1f m", rec.Len(), rec.Apogee())
}

func rocketFromConf() *campyros.Rocket {
	var wind campyros.Wind
	if viper.IsSet("site.windx") || viper.IsSet("site.windy") {
		wind = campyros.ConstantWind{
			viper.GetFloat64("site.windx"),
			viper.GetFloat64("site.windy"),
			viper.GetFloat64("site.windz")}
	}
	site := campyros.NewLaunchSite(
		viper.GetFloat64("site.raillength"),
		viper.GetFloat64("site.railyaw"),
		viper.GetFloat64("site.railpitch"),
		viper.GetFloat64("site.alt"),
		viper.GetFloat64("site.long"),
		viper.GetFloat64("site.lat"),
		wind)

	burnTime := viper.GetFloat64("motor.burntime")
	times, masses := campyros.LinearBurnTable(viper.GetFloat64("mass.prop"), burnTime, 21)
	massModel, err := campyros.NewCylindricalMassModel(
		viper.GetFloat64("mass.dry"),
		viper.GetFloat64("mass.radius"),
		viper.GetFloat64("mass.length"),
		times, masses)
	if err != nil {
		log.Fatalf("mass model: %s", err)
	}

	motor := campyros.ConstantThrustMotor(
		viper.GetFloat64("motor.thrust"),
		burnTime,
		viper.GetFloat64("motor.ambientpressure"),
		viper.GetFloat64("motor.exitarea"),
		viper.GetFloat64("motor.position"))

	aero := aeroFromConf()

	chute := campyros.Parachute{
		MainArea:   viper.GetFloat64("parachute.mainarea"),
		MainCd:     viper.GetFloat64("parachute.maincd"),
		DrogueArea: viper.GetFloat64("parachute.droguearea"),
		DrogueCd:   viper.GetFloat64("parachute.droguecd"),
		MainAlt:    viper.GetFloat64("parachute.mainalt"),
	}

	return campyros.NewRocket(massModel, motor, aero, site, nil, chute, campyros.NominalFactors())
}

// aeroFromConf builds a constant-coefficient aero model spanning the whole flight
// envelope. Grid-based coefficient files are for library users; the scenario format
// keeps to the flat coefficients hand-calculated for most student airframes.
func aeroFromConf() campyros.AeroModel {
	refArea := viper.GetFloat64("aero.refarea")
	if refArea == 0 {
		return campyros.NullAeroModel{}
	}
	ca := viper.GetFloat64("aero.ca")
	cn := viper.GetFloat64("aero.cn")
	cop := viper.GetFloat64("aero.cop")
	flat := func(v float64) [][]float64 { return [][]float64{{v, v}, {v, v}} }
	aero, err := campyros.NewTabulatedAeroModel(
		[]float64{0, 25}, []float64{0, 3.15},
		flat(ca), flat(cn), flat(cop),
		refArea,
		viper.GetFloat64("aero.rolldamping"),
		viper.GetFloat64("aero.pitchdamping"))
	if err != nil {
		log.Fatalf("aero model: %s", err)
	}
	return aero
}

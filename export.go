package campyros

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/soniakeys/meeus/julian"
)

// ExportConfig configures the exporting of the simulation.
type ExportConfig struct {
	Filename  string
	AsJSON    bool
	AsCSV     bool
	Timestamp bool
	CSVAppend func(st FlightState) string // Custom export (do not include leading comma)
	CSVAppendHdr func() string            // Header for the custom export
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return !c.AsJSON && !c.AsCSV
}

// createFlightCSVFile returns a file which requires a defer close statement!
func createFlightCSVFile(conf ExportConfig, site LaunchSite) *os.File {
	config := simConfig()
	var filename string
	if conf.Timestamp {
		t := time.Now()
		filename = fmt.Sprintf("%s/flight-%s-%d-%02d-%02dT%02d.%02d.%02d.csv", config.outputDir, conf.Filename, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	} else {
		filename = fmt.Sprintf("%s/flight-%s.csv", config.outputDir, conf.Filename)
	}
	f, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	// Header
	f.WriteString(fmt.Sprintf(`# Creation date (UTC): %s
# Records are <t> <pos inertial> <vel inertial> <angular vel body> <lat> <long> <alt> <events>
#   Time in seconds since ignition, positions in m, velocities in m/s, rates in rad/s
#   Launch time (UTC): %s (JD %f)
#   Launch site: lat %f deg, long %f deg, alt %f m
time,x_i,y_i,z_i,vx_i,vy_i,vz_i,wx_b,wy_b,wz_b,lat,long,alt,events`, time.Now(), site.LaunchTime, julian.TimeToJD(site.LaunchTime), site.Lat, site.Long, site.Alt))
	if conf.CSVAppendHdr != nil {
		f.WriteString("," + conf.CSVAppendHdr())
	}
	return f
}

// StreamStates streams the output of the channel to the configured files. The JSON
// record is necessarily buffered in memory until the channel closes; the CSV rows
// go straight to disk.
func StreamStates(conf ExportConfig, site LaunchSite, stateChan <-chan (FlightState)) {
	var fAsCSV *os.File
	var rec *Record
	if conf.AsCSV {
		fAsCSV = createFlightCSVFile(conf, site)
		defer fAsCSV.Close()
	}
	if conf.AsJSON {
		rec = NewRecord()
	}
	for state := range stateChan {
		if conf.AsCSV {
			lat, long, alt := I2LLA(state.PosI, state.T)
			asTxt := fmt.Sprintf("%f,%f,%f,%f,%f,%f,%f,%f,%f,%f,%f,%f,%f,%s",
				state.T, state.PosI[0], state.PosI[1], state.PosI[2],
				state.VelI[0], state.VelI[1], state.VelI[2],
				state.WB[0], state.WB[1], state.WB[2],
				lat, long, alt, strings.Join(state.Events, ";"))
			if conf.CSVAppend != nil {
				asTxt += "," + conf.CSVAppend(state)
			}
			if _, err := fAsCSV.WriteString("\n" + asTxt); err != nil {
				panic(err)
			}
		}
		if conf.AsJSON {
			rec.Time = append(rec.Time, state.T)
			rec.PosI = append(rec.PosI, state.PosI)
			rec.VelI = append(rec.VelI, state.VelI)
			b2i := make([]float64, 9)
			copy(b2i, state.B2I.RawMatrix().Data)
			rec.B2IMat = append(rec.B2IMat, b2i)
			rec.WB = append(rec.WB, state.WB)
			events := state.Events
			if events == nil {
				events = []string{}
			}
			rec.Events = append(rec.Events, events)
		}
	}
	// The channel is closed, hence the simulation is over.
	if conf.AsJSON {
		config := simConfig()
		var filename string
		if conf.Timestamp {
			t := time.Now()
			filename = fmt.Sprintf("%s/flight-%s-%d-%02d-%02dT%02d.%02d.%02d.json", config.outputDir, conf.Filename, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
		} else {
			filename = fmt.Sprintf("%s/flight-%s.json", config.outputDir, conf.Filename)
		}
		if err := rec.Save(filename); err != nil {
			panic(err)
		}
	}
}

// Save writes the record as a JSON document.
func (rec *Record) Save(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(rec)
}

// LoadRecord reads a flight record back from a JSON document and validates that
// all columns have the same number of steps.
func LoadRecord(filename string) (*Record, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rec := NewRecord()
	if err := json.NewDecoder(f).Decode(rec); err != nil {
		return nil, err
	}
	n := len(rec.Time)
	if len(rec.PosI) != n || len(rec.VelI) != n || len(rec.B2IMat) != n || len(rec.WB) != n || len(rec.Events) != n {
		return nil, fmt.Errorf("record columns have mismatched lengths (time=%d pos=%d vel=%d b2i=%d w=%d events=%d)", n, len(rec.PosI), len(rec.VelI), len(rec.B2IMat), len(rec.WB), len(rec.Events))
	}
	for i, m := range rec.B2IMat {
		if len(m) != 9 {
			return nil, fmt.Errorf("record step %d has a %d-component rotation, expected 9", i, len(m))
		}
	}
	return rec, nil
}

// RotationAt reconstructs the body-to-inertial rotation of step i,
// re-orthonormalizing against the round trip through decimal serialization.
func (rec *Record) RotationAt(i int) (xb, yb, zb []float64) {
	m := rec.B2IMat[i]
	return RotationAxes(RotationFromAxes(
		[]float64{m[0], m[3], m[6]},
		[]float64{m[1], m[4], m[7]},
		[]float64{m[2], m[5], m[8]}))
}

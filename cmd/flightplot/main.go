package main

import (
	"flag"
	"log"
	"math"

	campyros "github.com/CUSF-Simulation/CamPyRoS"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Plots the altitude and speed profiles of an exported flight record.

var (
	record string
	outDir string
)

func init() {
	flag.StringVar(&record, "record", "", "flight record JSON file")
	flag.StringVar(&outDir, "o", ".", "output directory")
}

func main() {
	flag.Parse()
	if record == "" {
		log.Fatal("no record provided")
	}
	rec, err := campyros.LoadRecord(record)
	if err != nil {
		log.Fatalf("%s: %s", record, err)
	}
	if rec.Len() == 0 {
		log.Fatalf("%s: empty record", record)
	}

	speeds := make([]float64, rec.Len())
	for i, v := range rec.VelI {
		speeds[i] = norm3(v)
	}

	if err := saveLinePlot("Altitude", "time (s)", "altitude (m)", rec.Time, rec.Altitudes(), outDir+"/altitude.png"); err != nil {
		log.Fatal(err)
	}
	if err := saveLinePlot("Inertial speed", "time (s)", "speed (m/s)", rec.Time, speeds, outDir+"/speed.png"); err != nil {
		log.Fatal(err)
	}
	log.Printf("plotted %d steps, apogee %.1f m", rec.Len(), rec.Apogee())
}

func saveLinePlot(title, xlabel, ylabel string, xs, ys []float64, filename string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel

	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)
	return p.Save(8*vg.Inch, 6*vg.Inch, filename)
}

func norm3(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

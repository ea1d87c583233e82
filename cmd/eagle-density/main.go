// Command eagle-density evaluates the eagle presence density for one
// wind-plant layout: it loads a modeling-options file, fits the density
// surface, scores the supplied turbine positions and prints the densities
// and diagonal Jacobian entries as JSON. Results can optionally be
// persisted to SQLite and rendered as a heatmap PNG or HTML report.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/NLRWindSystems/Ard/internal/config"
	"github.com/NLRWindSystems/Ard/internal/density"
	"github.com/NLRWindSystems/Ard/internal/eco"
	"github.com/NLRWindSystems/Ard/internal/logcap"
	"github.com/NLRWindSystems/Ard/internal/monitor"
	"github.com/NLRWindSystems/Ard/internal/runstore"
	"github.com/NLRWindSystems/Ard/internal/units"
)

var (
	optionsPath = flag.String("options", "", "Path to the modeling options JSON file (required)")
	xFlag       = flag.String("x", "", "Comma-separated turbine x (Easting) coordinates")
	yFlag       = flag.String("y", "", "Comma-separated turbine y (Northing) coordinates")
	layoutPath  = flag.String("layout", "", "CSV file of x,y turbine coordinates (alternative to -x/-y)")
	iter        = flag.Int("iter", -1, "Optimizer iteration number, used for logs and the results store")
	rank        = flag.Int("rank", 0, "Process rank, used for log file naming")
	capture     = flag.Bool("capture", false, "Redirect evaluation stdout/stderr to per-component logfiles")
	logDir      = flag.String("log-dir", ".", "Base directory for captured logs")
	dbPath      = flag.String("db", "", "SQLite file to record results to (optional)")
	plotPath    = flag.String("plot", "", "Write a density heatmap PNG to this path (optional)")
	plotRes     = flag.Int("plot-res", 256, "Heatmap raster resolution per axis")
	htmlPath    = flag.String("html", "", "Write an HTML density report to this path (optional)")
)

// parseCSVFloatSlice parses a comma-separated list of floats
func parseCSVFloatSlice(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float '%s': %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// readLayoutCSV reads a two-column x,y coordinate file. A non-numeric
// first row is treated as a header and skipped.
func readLayoutCSV(path string) (xs, ys []float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open layout file: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read layout CSV: %w", err)
	}
	for i, rec := range records {
		if len(rec) != 2 {
			return nil, nil, fmt.Errorf("layout row %d has %d columns, want 2", i+1, len(rec))
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if errX != nil || errY != nil {
			if i == 0 {
				continue // header row
			}
			return nil, nil, fmt.Errorf("layout row %d is not numeric", i+1)
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys, nil
}

// output is the JSON document printed to stdout. The Jacobian blocks are
// diagonal, so only their diagonals are emitted.
type output struct {
	Density        []float64 `json:"density"`
	DDensityDXDiag []float64 `json:"d_density_dx_diag"`
	DDensityDYDiag []float64 `json:"d_density_dy_diag"`
}

func main() {
	flag.Parse()

	if *optionsPath == "" {
		log.Fatal("missing required -options flag")
	}

	opts, err := config.LoadModelingOptions(*optionsPath)
	if err != nil {
		log.Fatalf("load modeling options: %v", err)
	}

	var xs, ys []float64
	switch {
	case *layoutPath != "":
		xs, ys, err = readLayoutCSV(*layoutPath)
		if err != nil {
			log.Fatalf("read layout: %v", err)
		}
	default:
		xs, err = parseCSVFloatSlice(*xFlag)
		if err != nil {
			log.Fatalf("parse -x: %v", err)
		}
		ys, err = parseCSVFloatSlice(*yFlag)
		if err != nil {
			log.Fatalf("parse -y: %v", err)
		}
	}
	xs = units.SliceToMetres(xs, opts.GetCoordinateUnits())
	ys = units.SliceToMetres(ys, opts.GetCoordinateUnits())

	grid, err := opts.Grid()
	if err != nil {
		log.Fatalf("build density grid: %v", err)
	}
	surface, err := density.FitSurface(grid)
	if err != nil {
		log.Fatalf("fit density surface: %v", err)
	}
	evaluator, err := eco.NewEvaluator(surface, opts.Layout.NTurbines)
	if err != nil {
		log.Fatalf("build evaluator: %v", err)
	}

	layout := eco.Layout{X: xs, Y: ys}

	var result *eco.Result
	evaluate := func() error {
		var evalErr error
		result, evalErr = evaluator.Evaluate(layout)
		return evalErr
	}
	if *capture {
		err = logcap.Capture(*logDir, "eco.eagle_density", *rank, *iter, evaluate)
	} else {
		err = evaluate()
	}
	if err != nil {
		log.Fatalf("evaluate layout: %v", err)
	}

	if *dbPath != "" {
		if err := record(*dbPath, *optionsPath, opts.Layout.NTurbines, *iter, layout, result); err != nil {
			log.Fatalf("record results: %v", err)
		}
	}

	if *plotPath != "" {
		if err := monitor.SaveHeatmap(surface, layout.X, layout.Y, *plotRes, *plotPath); err != nil {
			log.Fatalf("write heatmap: %v", err)
		}
		log.Printf("[EagleDensity] Wrote heatmap to %s", *plotPath)
	}

	if *htmlPath != "" {
		f, err := os.Create(*htmlPath)
		if err != nil {
			log.Fatalf("create HTML report: %v", err)
		}
		if err := monitor.WriteDensityReport(f, layout.X, layout.Y, result.Density); err != nil {
			f.Close()
			log.Fatalf("write HTML report: %v", err)
		}
		f.Close()
		log.Printf("[EagleDensity] Wrote HTML report to %s", *htmlPath)
	}

	out := output{
		Density:        result.Density,
		DDensityDXDiag: make([]float64, len(result.Density)),
		DDensityDYDiag: make([]float64, len(result.Density)),
	}
	for i := range result.Density {
		out.DDensityDXDiag[i] = result.DDensityDX.At(i, i)
		out.DDensityDYDiag[i] = result.DDensityDY.At(i, i)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("encode output: %v", err)
	}
}

func record(dbPath, optionsPath string, nTurbines, iter int, layout eco.Layout, result *eco.Result) error {
	store, err := runstore.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open results store: %w", err)
	}
	defer store.Close()

	runID, err := store.BeginRun(optionsPath, nTurbines)
	if err != nil {
		return err
	}
	storeIter := iter
	if storeIter < 0 {
		storeIter = 0
	}
	if err := store.RecordEvaluation(runID, storeIter, layout, result); err != nil {
		return err
	}
	log.Printf("[EagleDensity] Recorded run %s iteration %d to %s", runID, storeIter, dbPath)
	return nil
}

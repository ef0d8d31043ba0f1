// Command modelinfo prints parameter tables of the X-ray spectral
// models and optionally evaluates them over an energy grid.
//
// Usage:
//
//	modelinfo [flags] [model-name ...]
//
// Without arguments it prints the parameter tables of all models.
//
// Examples:
//
//	modelinfo phabs tbabs
//	modelinfo -xsect data/xsect -eval -emin 0.3 -emax 10 -bins 100 tbabs
//	modelinfo -atomdb data/cie.fits -eval -kt 2.5 apec
//	modelinfo -list
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-xray/atomdb"
	"github.com/cwbudde/algo-xray/model/absorb"
	"github.com/cwbudde/algo-xray/model/plasma"
	"github.com/cwbudde/algo-xray/xray/abund"
	"github.com/cwbudde/algo-xray/xray/grid"
	"github.com/cwbudde/algo-xray/xray/param"
)

// evaluator is the surface shared by all models.
type evaluator interface {
	Name() string
	Params() param.Params
	Evaluate(energies []float64) ([]float64, error)
}

type modelEntry struct {
	name  string
	desc  string
	build func(cfg buildConfig) (evaluator, error)
}

type buildConfig struct {
	xsectDir  string
	atomdbOrg string
	set       abund.Set
}

var registry = []modelEntry{
	{"phabs", "photoelectric absorption (Balucinska-Church & McCammon)", buildPhAbs},
	{"tbabs", "photoelectric absorption with ISM corrections (Wilms et al.)", buildTbAbs},
	{"apec", "collisional plasma emission (Smith et al. 2001)", buildAPEC},
	{"vapec", "collisional plasma emission, variable abundances", buildVAPEC},
}

func buildPhAbs(cfg buildConfig) (evaluator, error) {
	if cfg.xsectDir == "" {
		return nil, fmt.Errorf("phabs needs -xsect")
	}

	return absorb.NewPhAbs(
		absorb.WithTableDir(cfg.xsectDir),
		absorb.WithAbundanceSet(cfg.set),
	)
}

func buildTbAbs(cfg buildConfig) (evaluator, error) {
	if cfg.xsectDir == "" {
		return nil, fmt.Errorf("tbabs needs -xsect")
	}

	return absorb.NewTbAbs(
		absorb.WithTableDir(cfg.xsectDir),
		absorb.WithAbundanceSet(cfg.set),
	)
}

func buildAPEC(cfg buildConfig) (evaluator, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	return plasma.NewAPEC(db, plasma.WithAbundanceSet(cfg.set))
}

func buildVAPEC(cfg buildConfig) (evaluator, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	return plasma.NewVAPEC(db, plasma.WithAbundanceSet(cfg.set))
}

func openDB(cfg buildConfig) (*atomdb.DB, error) {
	if cfg.atomdbOrg == "" {
		return nil, fmt.Errorf("apec/vapec need -atomdb")
	}

	return atomdb.Open(cfg.atomdbOrg)
}

func main() {
	list := flag.Bool("list", false, "list available model names")
	eval := flag.Bool("eval", false, "evaluate the models over the energy grid")
	emin := flag.Float64("emin", 0.3, "grid start energy in keV")
	emax := flag.Float64("emax", 10, "grid end energy in keV")
	bins := flag.Int("bins", 32, "number of energy bins")
	logGrid := flag.Bool("log", false, "use a logarithmic grid")
	setName := flag.String("set", "AG89", "abundance set (AG89, ASPL, WILM)")
	xsectDir := flag.String("xsect", "", "directory with xsect_*.fits tables")
	atomdbFile := flag.String("atomdb", "", "CIE database FITS file")
	nh := flag.Float64("nh", 1, "column density in 1e22 cm^-2 for absorption models")
	kt := flag.Float64("kt", 1, "plasma temperature in keV for apec/vapec")
	abundVal := flag.Float64("abund", 1, "metal abundance for apec/vapec")
	redshift := flag.Float64("redshift", 0, "source redshift for apec/vapec")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: modelinfo [flags] [model-name ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints parameter tables of the X-ray spectral models.\n")
		fmt.Fprintf(os.Stderr, "Without arguments, prints all models.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  modelinfo phabs tbabs\n")
		fmt.Fprintf(os.Stderr, "  modelinfo -xsect data/xsect -eval -nh 0.5 tbabs\n")
		fmt.Fprintf(os.Stderr, "  modelinfo -atomdb data/cie.fits -eval -kt 2.5 apec\n")
		fmt.Fprintf(os.Stderr, "  modelinfo -list\n")
	}
	flag.Parse()

	if *list {
		printList()
		return
	}

	set, err := abund.Parse(*setName, abund.AG89)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	cfg := buildConfig{
		xsectDir:  *xsectDir,
		atomdbOrg: *atomdbFile,
		set:       set,
	}

	names := flag.Args()
	if len(names) == 0 {
		for _, e := range registry {
			names = append(names, e.name)
		}
	}

	entries := resolveEntries(names)
	if len(entries) == 0 {
		fmt.Fprintf(os.Stderr, "error: no matching models\n")
		os.Exit(1)
	}

	failed := false

	for _, e := range entries {
		m, err := e.build(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %s: %v\n", e.name, err)

			failed = true

			continue
		}

		applyValues(m, *nh, *kt, *abundVal, *redshift)

		fmt.Printf("%s: %s\n", e.name, e.desc)
		printParams(m.Params())

		if *eval {
			err = evaluate(m, *emin, *emax, *bins, *logGrid)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: %s: %v\n", e.name, err)

				failed = true
			}
		}

		fmt.Println()
	}

	if failed {
		os.Exit(1)
	}
}

func printList() {
	names := make([]string, len(registry))
	for i, e := range registry {
		names[i] = e.name
	}

	sort.Strings(names)

	for _, n := range names {
		fmt.Println(n)
	}
}

func resolveEntries(names []string) []modelEntry {
	byName := make(map[string]modelEntry, len(registry))
	for _, e := range registry {
		byName[e.name] = e
	}

	var result []modelEntry

	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))

		e, ok := byName[name]
		if !ok {
			fmt.Fprintf(os.Stderr, "warning: unknown model %q (use -list to see available)\n", name)
			continue
		}

		result = append(result, e)
	}

	return result
}

// applyValues pushes the flag values into matching parameters,
// ignoring models that lack them.
func applyValues(m evaluator, nh, kt, abundVal, redshift float64) {
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"NH", nh},
		{"kT", kt},
		{"abund", abundVal},
		{"redshift", redshift},
	} {
		p, err := m.Params().ByName(v.name)
		if err != nil {
			continue
		}

		err = p.Set(v.value)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}
}

func printParams(ps param.Params) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "  Parameter\tValue\tMin\tMax\tUnit\tFixed\n")
	fmt.Fprintf(tw, "  ---------\t-----\t---\t---\t----\t-----\n")

	for _, p := range ps {
		unit := p.Unit
		if unit == "" {
			unit = "-"
		}

		fmt.Fprintf(tw, "  %s\t%g\t%g\t%g\t%s\t%v\n",
			p.Name, p.Value(), p.Min, p.Max, unit, p.Fixed)
	}

	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}

func evaluate(m evaluator, emin, emax float64, bins int, logGrid bool) error {
	var (
		centers []float64
		err     error
	)

	if logGrid {
		centers, err = grid.Logarithmic(emin, emax, bins)
	} else {
		centers, err = grid.Uniform(emin, emax, bins)
	}

	if err != nil {
		return err
	}

	out, err := m.Evaluate(centers)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "  E [keV]\tValue\n")

	for i := range centers {
		fmt.Fprintf(tw, "  %.4f\t%.6g\n", centers[i], out[i])
	}

	return tw.Flush()
}

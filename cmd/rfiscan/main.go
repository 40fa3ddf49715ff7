// Command rfiscan runs RFI detectors over a spectrogram and prints a
// flagging report.
//
// Usage:
//
//	rfiscan [flags] file.csv [detector-name ...]
//
// The input is a CSV matrix with one row per time sample and one column
// per frequency channel. Without detector names it runs all detectors.
//
// Examples:
//
//	rfiscan obs.csv
//	rfiscan -workers 4 obs.csv wavelet periodic
//	rfiscan -list
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-rfi/detect"
	"github.com/cwbudde/algo-rfi/detect/fullchan"
	"github.com/cwbudde/algo-rfi/detect/parity"
	"github.com/cwbudde/algo-rfi/detect/periodic"
	"github.com/cwbudde/algo-rfi/detect/threshold"
	"github.com/cwbudde/algo-rfi/detect/wavelet"
	"github.com/cwbudde/algo-rfi/flagging"
	"github.com/cwbudde/algo-rfi/spectrogram"
)

type options struct {
	workers int
	seed    int64
	level   int
}

type detectorEntry struct {
	name     string
	products []string
	run      func(s *spectrogram.Spectrogram, reg *flagging.Registry, o options) (detect.Report, error)
}

var registry = []detectorEntry{
	{"parity", []string{"odd", "even"},
		func(s *spectrogram.Spectrogram, reg *flagging.Registry, o options) (detect.Report, error) {
			return parity.Flag(s, reg, parity.WithWorkers(o.workers))
		}},
	{"threshold", []string{"outlier"},
		func(s *spectrogram.Spectrogram, reg *flagging.Registry, o options) (detect.Report, error) {
			return threshold.Flag(s, reg, threshold.WithWorkers(o.workers))
		}},
	{"fullchan", []string{"not-normal", "normal"},
		func(s *spectrogram.Spectrogram, reg *flagging.Registry, o options) (detect.Report, error) {
			return fullchan.Flag(s, reg, fullchan.WithWorkers(o.workers))
		}},
	{"periodic", []string{"pulsed"},
		func(s *spectrogram.Spectrogram, reg *flagging.Registry, o options) (detect.Report, error) {
			return periodic.Flag(s, reg, periodic.WithWorkers(o.workers))
		}},
}

func waveletEntry(level int) detectorEntry {
	products := make([]string, level)
	for b := range products {
		if b == 0 {
			products[b] = "approx"
		} else {
			products[b] = fmt.Sprintf("band-%d", b)
		}
	}
	return detectorEntry{"wavelet", products,
		func(s *spectrogram.Spectrogram, reg *flagging.Registry, o options) (detect.Report, error) {
			return wavelet.Flag(s, reg,
				wavelet.WithWorkers(o.workers),
				wavelet.WithLevel(o.level),
				wavelet.WithSeed(o.seed))
		}}
}

func main() {
	workers := flag.Int("workers", 0, "parallel workers (0 = all CPUs)")
	seed := flag.Int64("seed", 1, "seed for the bootstrap calibration")
	level := flag.Int("level", 4, "wavelet decomposition depth")
	list := flag.Bool("list", false, "list available detector names")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: rfiscan [flags] file.csv [detector-name ...]\n\n")
		fmt.Fprintf(os.Stderr, "Runs RFI detectors over a CSV spectrogram and prints the flag counts.\n")
		fmt.Fprintf(os.Stderr, "Without detector names it runs all detectors.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	entries := append(append([]detectorEntry(nil), registry...), waveletEntry(*level))

	if *list {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.name
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	s, err := loadCSV(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	selected := resolveEntries(entries, args[1:])
	if len(selected) == 0 {
		fmt.Fprintf(os.Stderr, "error: no matching detectors\n")
		os.Exit(1)
	}

	o := options{workers: *workers, seed: *seed, level: *level}
	printReport(s, selected, o)
}

func loadCSV(path string) (*spectrogram.Spectrogram, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty matrix", path)
	}

	rows, cols := len(records), len(records[0])
	data := make([]float64, 0, rows*cols)
	for i, rec := range records {
		if len(rec) != cols {
			return nil, fmt.Errorf("%s: row %d has %d columns, want %d", path, i, len(rec), cols)
		}
		for _, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d: %w", path, i, err)
			}
			data = append(data, v)
		}
	}
	return spectrogram.New(data, rows, cols)
}

func resolveEntries(entries []detectorEntry, names []string) []detectorEntry {
	if len(names) == 0 {
		return entries
	}
	byName := make(map[string]detectorEntry, len(entries))
	for _, e := range entries {
		byName[e.name] = e
	}

	var result []detectorEntry
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		e, ok := byName[name]
		if !ok {
			fmt.Fprintf(os.Stderr, "warning: unknown detector %q (use -list to see available)\n", name)
			continue
		}
		result = append(result, e)
	}
	return result
}

func printReport(s *spectrogram.Spectrogram, entries []detectorEntry, o options) {
	total := float64(s.Len())
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Detector\tProduct\tFlagged\tFraction\tElapsed\n")
	fmt.Fprintf(tw, "--------\t-------\t-------\t--------\t-------\n")

	for _, e := range entries {
		var reg flagging.Registry
		if err := reg.Allocate(len(e.products)); err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", e.name, err)
			os.Exit(1)
		}
		matrices := make([]*flagging.Matrix, len(e.products))
		slots := make([]flagging.Slot, len(e.products))
		labels := make([]int, len(e.products))
		for i := range e.products {
			m, err := flagging.NewMatrix(s.Rows(), s.Cols())
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %s: %v\n", e.name, err)
				os.Exit(1)
			}
			matrices[i] = m
			if err := reg.SetSlot(m, i); err != nil {
				fmt.Fprintf(os.Stderr, "error: %s: %v\n", e.name, err)
				os.Exit(1)
			}
			slots[i] = flagging.SlotAt(i)
			labels[i] = i
		}
		if err := reg.SetProducts(slots, labels); err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", e.name, err)
			os.Exit(1)
		}

		rep, err := e.run(s, &reg, o)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", e.name, err)
			os.Exit(1)
		}

		for i, name := range e.products {
			count := matrices[i].Count()
			fmt.Fprintf(tw, "%s\t%s\t%d\t%.4f\t%v\n",
				e.name, name, count, float64(count)/total, rep.Elapsed)
		}
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}

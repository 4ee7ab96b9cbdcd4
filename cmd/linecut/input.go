package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/piwi3910/LineCut/internal/importer"
	"github.com/piwi3910/LineCut/internal/model"
	"github.com/piwi3910/LineCut/internal/project"
)

// inputFlags collects the ways a job can be described on the command line.
// Lists given inline, from files and from presets are concatenated.
type inputFlags struct {
	config      string
	job         string
	stock       string
	pieces      string
	demand      string
	stockFile   string
	piecesFile  string
	preset      string
	presetCount int

	timeLimit time.Duration
	nodes     int
	workers   int
	tolerance float64
	noGreedy  bool

	stdin io.Reader // nil reads os.Stdin
}

func (in *inputFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&in.config, "config", project.DefaultConfigPath(), "application config file")
	fs.StringVar(&in.job, "job", "", "load stock, pieces and options from a saved job file")
	fs.StringVar(&in.stock, "stock", "", "comma separated stock lengths, e.g. 6000,6000,3000")
	fs.StringVar(&in.pieces, "pieces", "", "comma separated piece lengths, e.g. 1800,550")
	fs.StringVar(&in.demand, "demand", "", "comma separated minimum quantities, one per piece (default 1 each)")
	fs.StringVar(&in.stockFile, "stock-file", "", "CSV or Excel stock list (label, length, bars), - reads CSV from stdin")
	fs.StringVar(&in.piecesFile, "pieces-file", "", "CSV, Excel or DXF piece list, - reads CSV from stdin")
	fs.StringVar(&in.preset, "preset", "", "add bars of a named inventory preset")
	fs.IntVar(&in.presetCount, "preset-count", 1, "number of preset bars to add")

	fs.DurationVar(&in.timeLimit, "time", model.DefaultTimeLimit, "search time limit, 0 for none")
	fs.IntVar(&in.nodes, "nodes", 0, "search node limit, 0 for none")
	fs.IntVar(&in.workers, "workers", 1, "parallel search workers")
	fs.Float64Var(&in.tolerance, "tol", model.DefaultTolerance, "feasibility and integrality tolerance")
	fs.BoolVar(&in.noGreedy, "no-greedy", false, "do not seed the search with heuristic assignments")
}

// loadConfig reads the application config named by -config.
func (in *inputFlags) loadConfig() (model.AppConfig, error) {
	return project.LoadAppConfig(in.config)
}

// buildJob assembles the job. Options come from the saved job or the config
// defaults, overridden by any option flag set explicitly.
func (in *inputFlags) buildJob(fs *flag.FlagSet, cfg model.AppConfig) (model.Job, error) {
	job := model.NewJob()
	cfg.ApplyToOptions(&job.Options)
	if in.job != "" {
		loaded, err := project.LoadJob(in.job)
		if err != nil {
			return job, err
		}
		job = loaded
	}

	lengths, err := parseLengths(in.stock)
	if err != nil {
		return job, errors.Wrap(err, "-stock")
	}
	for _, l := range lengths {
		job.Stocks = append(job.Stocks, model.NewStockUnit(fmt.Sprintf("Stock %d", len(job.Stocks)+1), l))
	}

	pieces, err := parsePieces(in.pieces, in.demand)
	if err != nil {
		return job, err
	}
	job.Pieces = append(job.Pieces, pieces...)

	if in.stockFile == stdinPath && in.piecesFile == stdinPath {
		return job, errors.New("only one of -stock-file and -pieces-file can read stdin")
	}
	if in.stockFile != "" {
		res, err := in.importList(in.stockFile, importer.StockList)
		if err != nil {
			return job, err
		}
		job.Stocks = append(job.Stocks, res.Stocks...)
	}
	if in.piecesFile != "" {
		res, err := in.importList(in.piecesFile, importer.PieceList)
		if err != nil {
			return job, err
		}
		job.Pieces = append(job.Pieces, res.Pieces...)
	}

	if in.preset != "" {
		inv, _, err := project.LoadInventoryFor(in.config)
		if err != nil {
			return job, err
		}
		preset := inv.FindStockByName(in.preset)
		if preset == nil {
			return job, errors.Errorf("no inventory preset named %q (have: %s)", in.preset, strings.Join(inv.StockNames(), ", "))
		}
		job.Stocks = append(job.Stocks, preset.ToStockUnits(in.presetCount)...)
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	in.applyOptions(&job.Options, set)
	job.Options = job.Options.Normalized()
	return job, nil
}

// applyOptions copies the option flags named in set into o.
func (in *inputFlags) applyOptions(o *model.Options, set map[string]bool) {
	if set["time"] {
		o.TimeLimit = in.timeLimit
	}
	if set["nodes"] {
		o.NodeLimit = in.nodes
	}
	if set["workers"] {
		o.Workers = in.workers
	}
	if set["tol"] {
		o.Tolerance = in.tolerance
	}
	if set["no-greedy"] {
		o.Heuristic = !in.noGreedy
	}
}

// stdinPath names standard input in the list file flags.
const stdinPath = "-"

// importList reads a stock or piece list. Standard input is read as
// comma separated CSV.
func (in *inputFlags) importList(path string, kind importer.ListKind) (importer.ImportResult, error) {
	var res importer.ImportResult
	if path == stdinPath {
		stdin := in.stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		path = "stdin"
		res = importer.ImportCSVFromReader(stdin, ',', kind)
	} else {
		var err error
		if res, err = importer.ImportFile(path, kind); err != nil {
			return res, err
		}
	}
	for _, w := range res.Warnings {
		log.Warningf("%s: %s", path, w)
	}
	if err := res.Err(); err != nil {
		return res, errors.Wrap(err, path)
	}
	log.V(1).Infof("imported %d stock units and %d piece types from %s", len(res.Stocks), len(res.Pieces), path)
	return res, nil
}

// parsePieces pairs inline piece lengths with their demand. An empty demand
// list asks for one of each piece.
func parsePieces(lengthList, demandList string) ([]model.PieceType, error) {
	lengths, err := parseLengths(lengthList)
	if err != nil {
		return nil, errors.Wrap(err, "-pieces")
	}
	demand, err := parseCounts(demandList)
	if err != nil {
		return nil, errors.Wrap(err, "-demand")
	}
	if demand == nil {
		demand = make([]int, len(lengths))
		for j := range demand {
			demand[j] = 1
		}
	}
	if len(demand) != len(lengths) {
		return nil, errors.Errorf("-demand has %d entries for %d pieces", len(demand), len(lengths))
	}
	out := make([]model.PieceType, len(lengths))
	for j, l := range lengths {
		out[j] = model.NewPieceType(fmt.Sprintf("Piece %d", j+1), l, demand[j])
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// parseLengths parses a comma separated list of lengths. Range checks are
// left to the solver's input validation.
func parseLengths(s string) ([]float64, error) {
	fields := splitList(s)
	if len(fields) == 0 {
		return nil, nil
	}
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, errors.Errorf("entry %d: %q is not a number", i+1, f)
		}
		out[i] = v
	}
	return out, nil
}

func parseCounts(s string) ([]int, error) {
	fields := splitList(s)
	if len(fields) == 0 {
		return nil, nil
	}
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.Errorf("entry %d: %q is not a whole number", i+1, f)
		}
		out[i] = v
	}
	return out, nil
}

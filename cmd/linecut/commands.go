package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	log "github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/piwi3910/LineCut/internal/engine"
	"github.com/piwi3910/LineCut/internal/export"
	"github.com/piwi3910/LineCut/internal/model"
	"github.com/piwi3910/LineCut/internal/project"
)

const recentJobLimit = 10

func runSolve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("solve", flag.ContinueOnError)
	var in inputFlags
	in.register(fs)
	name := fs.String("name", "", "job name used in reports")
	save := fs.String("save", "", "save the job and its result to this file")
	pdfPath := fs.String("pdf", "", "write a PDF cut-list report")
	labelsPath := fs.String("labels", "", "write a PDF sheet of QR piece labels")
	xlsxPath := fs.String("xlsx", "", "write the patterns to an Excel workbook")
	asJSON := fs.Bool("json", false, "print the result as JSON")
	offcut := fs.Float64("offcut", 0, "minimum leftover kept as an offcut, 0 uses the config value")
	keepOffcuts := fs.Bool("keep-offcuts", false, "add the reusable offcuts to the inventory as presets")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := in.loadConfig()
	if err != nil {
		return err
	}
	job, err := in.buildJob(fs, cfg)
	if err != nil {
		return err
	}
	if *name != "" {
		job.Name = *name
	}

	res, err := engine.SolveJob(ctx, job)
	if err != nil {
		return err
	}
	job.Result = &res

	if *asJSON {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return errors.Wrap(err, "encode result")
		}
		fmt.Println(string(data))
	} else {
		printResult(os.Stdout, job, res)
	}

	var offcuts []model.Offcut
	if res.HasSolution() {
		minLen := *offcut
		if minLen <= 0 {
			minLen = cfg.MinOffcutLength
		}
		offcuts = model.DetectOffcuts(*res.Solution, minLen)
		if !*asJSON {
			printOffcuts(os.Stdout, offcuts)
		}
	}
	if *keepOffcuts {
		if err := keepInventoryOffcuts(in.config, offcuts); err != nil {
			return err
		}
	}

	if err := writeReports(job, res, *pdfPath, *labelsPath, *xlsxPath); err != nil {
		return err
	}

	if *save != "" {
		if err := project.SaveJob(*save, job); err != nil {
			return err
		}
		cfg.AddRecentJob(*save, recentJobLimit)
		if err := project.SaveAppConfig(in.config, cfg); err != nil {
			log.Warningf("could not record recent job: %v", err)
		}
		log.V(1).Infof("saved job %q to %s", job.Name, *save)
	}
	return nil
}

// keepInventoryOffcuts stores offcuts in the inventory that belongs to the
// config file at configPath.
func keepInventoryOffcuts(configPath string, offcuts []model.Offcut) error {
	if len(offcuts) == 0 {
		return nil
	}
	inv, invPath, err := project.LoadInventoryFor(configPath)
	if err != nil {
		return err
	}
	added := inv.AddOffcuts(offcuts)
	if err := project.SaveInventory(invPath, inv); err != nil {
		return err
	}
	log.V(1).Infof("kept %d offcuts in %s", added, invPath)
	return nil
}

func writeReports(job model.Job, res model.Result, pdfPath, labelsPath, xlsxPath string) error {
	if pdfPath == "" && labelsPath == "" && xlsxPath == "" {
		return nil
	}
	if !res.HasSolution() {
		return errors.Errorf("no cutting plan to export (%s: %s)", res.Status, res.Reason)
	}
	if pdfPath != "" {
		if err := export.ExportPDF(pdfPath, job, res); err != nil {
			return err
		}
	}
	if labelsPath != "" {
		if err := export.ExportLabels(labelsPath, res.Solution); err != nil {
			return err
		}
	}
	if xlsxPath != "" {
		if err := export.ExportExcel(xlsxPath, job, res); err != nil {
			return err
		}
	}
	return nil
}

func runCompare(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	var in inputFlags
	in.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := in.loadConfig()
	if err != nil {
		return err
	}
	job, err := in.buildJob(fs, cfg)
	if err != nil {
		return err
	}

	results := engine.CompareScenarios(ctx, engine.BuildDefaultScenarios(job.Options), job)
	printComparison(os.Stdout, results)
	return nil
}

func runEstimate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("estimate", flag.ContinueOnError)
	var in inputFlags
	in.register(fs)
	bar := fs.Float64("bar", 0, "bar length to buy (mm), or use -preset")
	waste := fs.Float64("waste", 10, "waste allowance in percent")
	price := fs.Float64("price", 0, "price per bar, or use -preset")
	solve := fs.Bool("solve", false, "solve the job against the recommended bars")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// -preset picks the bar here instead of adding stock.
	presetName := in.preset
	in.preset = ""

	cfg, err := in.loadConfig()
	if err != nil {
		return err
	}
	job, err := in.buildJob(fs, cfg)
	if err != nil {
		return err
	}

	length, unitPrice := *bar, *price
	label := "Bar " + fmtLength(length)
	if presetName != "" {
		inv, _, err := project.LoadInventoryFor(in.config)
		if err != nil {
			return err
		}
		p := inv.FindStockByName(presetName)
		if p == nil {
			return errors.Errorf("no inventory preset named %q", presetName)
		}
		length, label = p.Length, p.Name
		if unitPrice == 0 {
			unitPrice = p.PricePerBar
		}
	}
	if length <= 0 {
		return errors.New("a bar length is required (-bar or -preset)")
	}
	if len(job.Pieces) == 0 {
		return errors.New("no pieces given")
	}

	est := model.CalculatePurchaseEstimate(job.Pieces, length, *waste, unitPrice)
	printEstimate(os.Stdout, est)
	if !*solve {
		return nil
	}

	if !est.Feasible() {
		return errors.Errorf("a %s bar is shorter than a demanded piece", fmtLength(length))
	}
	if est.BarsWithWaste == 0 {
		return errors.New("no demanded pieces to cut")
	}
	job.Stocks = est.StockUnits(label)
	res, err := engine.SolveJob(ctx, job)
	if err != nil {
		return err
	}
	fmt.Println()
	printResult(os.Stdout, job, res)
	if res.Status == model.StatusInfeasible {
		fmt.Printf("\n%d bars cannot cover the demand; raise -waste and try again\n", est.BarsWithWaste)
	}
	return nil
}

func runBackup(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	configPath := fs.String("config", project.DefaultConfigPath(), "application config file")
	exportPath := fs.String("export", "", "write config and inventory to this file")
	importPath := fs.String("import", "", "restore config and merge inventory from a backup file")
	mergePath := fs.String("merge-inventory", "", "merge the presets of an inventory file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	modes := 0
	for _, p := range []string{*exportPath, *importPath, *mergePath} {
		if p != "" {
			modes++
		}
	}
	if modes != 1 {
		return errors.New("exactly one of -export, -import or -merge-inventory is required")
	}

	cfg, err := project.LoadAppConfig(*configPath)
	if err != nil {
		return err
	}
	inv, invPath, err := project.LoadInventoryFor(*configPath)
	if err != nil {
		return err
	}
	before := len(inv.Stocks)

	switch {
	case *exportPath != "":
		if err := project.ExportAllData(*exportPath, cfg, inv); err != nil {
			return err
		}
		fmt.Printf("exported config and %d presets to %s\n", len(inv.Stocks), *exportPath)
		return nil
	case *importPath != "":
		backup, err := project.ImportAllData(*importPath)
		if err != nil {
			return err
		}
		if err := project.SaveAppConfig(*configPath, backup.Config); err != nil {
			return err
		}
		inv = project.MergeInventory(inv, backup.Inventory)
	default:
		if inv, err = project.ImportInventory(*mergePath, inv); err != nil {
			return err
		}
	}

	if err := project.SaveInventory(invPath, inv); err != nil {
		return err
	}
	fmt.Printf("%d new presets, %d total\n", len(inv.Stocks)-before, len(inv.Stocks))
	return nil
}

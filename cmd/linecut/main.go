// LineCut - Linear Cut List Optimizer
//
// Assigns demanded piece lengths to stock bars so that total offcut waste is
// minimal, proving optimality with an LP-based branch and bound.
//
// Usage:
//
//	linecut [-v=N -logtostderr] <command> [flags]
//
// Commands:
//
//	solve     optimize a cut list and export reports
//	compare   solve the same job under several option sets
//	estimate  estimate how many bars of one length to buy
//	backup    export or restore config and inventory
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	log "github.com/golang/glog"
)

const usage = `usage: linecut [glog flags] <command> [flags]

commands:
  solve     optimize a cut list and export reports
  compare   solve the same job under several option sets
  estimate  estimate how many bars of one length to buy
  backup    export or restore config and inventory

run "linecut <command> -h" for command flags
`

type command func(ctx context.Context, args []string) error

var commands = map[string]command{
	"solve":    runSolve,
	"compare":  runCompare,
	"estimate": runEstimate,
	"backup":   runBackup,
}

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	os.Exit(run(flag.Args()))
}

func run(args []string) int {
	defer log.Flush()

	if len(args) == 0 {
		flag.Usage()
		return 2
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "linecut: unknown command %q\n\n", args[0])
		flag.Usage()
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd(ctx, args[1:]); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		log.Errorf("%s: %v", args[0], err)
		fmt.Fprintf(os.Stderr, "linecut %s: %v\n", args[0], err)
		return 1
	}
	return 0
}

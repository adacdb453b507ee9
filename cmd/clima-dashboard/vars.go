package main

import (
	"flag"

	"github.com/evilsocket/islazy/log"
)

var (
	debug = false
	seed  = int64(0)
)

func init() {
	flag.BoolVar(&debug, "debug", debug, "Enable debug logs.")
	flag.Int64Var(&seed, "seed", seed, "Seed for the reading simulator, 0 for a time based seed.")
}

func setup() {
	if debug {
		log.Level = log.DEBUG
	} else {
		log.Level = log.INFO
	}
	log.OnFatal = log.ExitOnFatal
}

package main

import (
	"context"
	"flag"
	"log"

	"hexcrawl-substrate/internal/app"
)

func main() {
	configPath := flag.String("config", "", "path to a substrate YAML config file (defaults omitted)")
	savePath := flag.String("save", "", "save file path override (defaults to the config's save_path)")
	ticks := flag.Uint64("ticks", 0, "number of ticks to advance before saving")
	days := flag.Uint64("days", 0, "number of days to advance before saving (applied after -ticks)")
	forensicsPath := flag.String("forensics", "", "optional path to write a compressed event-trace/command-log side-dump")
	flag.Parse()

	cfg := app.Config{
		ConfigPath:    *configPath,
		SavePathFlag:  *savePath,
		Ticks:         *ticks,
		Days:          *days,
		ForensicsPath: *forensicsPath,
	}
	if err := app.Run(context.Background(), cfg); err != nil {
		log.Fatalf("%v", err)
	}
}

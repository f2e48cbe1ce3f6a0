// Command gones runs the NES emulation core headlessly for a fixed
// number of frames and logs basic execution stats at info level.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"gones/internal/app"
	"gones/internal/cartridge"
	"gones/internal/version"
)

type cli struct {
	Run     runCmd     `cmd:"" default:"true" help:"Run a ROM headlessly for N frames."`
	Version versionCmd `cmd:"" help:"Print build information."`
}

type runCmd struct {
	ROM    string `arg:"" name:"rom" help:"Path to an iNES ROM file." type:"existingfile"`
	Config string `name:"config" help:"Optional TOML config file." type:"path"`
	Frames int    `name:"frames" help:"Number of frames to run (0 = use config default)."`
	Log    string `name:"log" help:"Log level: trace, debug, info, warn, error (empty = use config)."`
}

type versionCmd struct{}

func runROM(r *runCmd, log *logrus.Logger) error {
	cfg, err := app.LoadConfig(r.Config)
	if err != nil {
		return err
	}
	if r.Frames > 0 {
		cfg.Headless.Frames = r.Frames
	}

	level := r.Log
	if level == "" {
		level = cfg.LogLevel
	}
	if parsed, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(parsed)
	}

	cart, err := cartridge.LoadFromFile(r.ROM, cfg.Mapper.ForceID, log)
	if err != nil {
		return fmt.Errorf("gones: %w", err)
	}

	machine := app.New(cart, log)
	log.WithFields(logrus.Fields{
		"rom":    r.ROM,
		"mapper": cart.MapperID(),
		"frames": cfg.Headless.Frames,
	}).Info("starting emulation")

	for i := 0; i < cfg.Headless.Frames; i++ {
		machine.StepFrame()
	}

	log.WithField("cycles", machine.CPU.TotalCycles()).Info("run complete")
	return nil
}

func main() {
	log := logrus.New()

	var c cli
	parser, err := kong.New(&c,
		kong.Name("gones"),
		kong.Description("A NES emulation core: CPU, PPU, bus, and cartridge mappers."),
		kong.UsageOnError(),
	)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	fatalIfErr(ctx.Error)

	var runErr error
	switch {
	case ctx.Command() == "version":
		fmt.Println(version.GetDetailedVersion())
	case strings.HasPrefix(ctx.Command(), "run"):
		runErr = runROM(&c.Run, log)
	default:
		runErr = runROM(&c.Run, log)
	}
	fatalIfErr(runErr)
}

func fatalIfErr(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "fatal error:", err)
	os.Exit(1)
}

// Command orrery-term shows the solar system in a terminal.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/edwinsyarief/orrery"
	"github.com/edwinsyarief/orrery/host/input"
	"github.com/edwinsyarief/orrery/host/termhost"
	"github.com/edwinsyarief/orrery/internal/cli"
	"github.com/edwinsyarief/orrery/internal/logging"
	orrerysignal "github.com/edwinsyarief/orrery/signal"
)

func main() {
	common := cli.Register(flag.CommandLine)
	fps := flag.Int("fps", 30, "Frames per second")
	logFile := flag.String("log", "", "Log file (default: no logs, stderr is the screen)")
	quiet := flag.Bool("quiet", false, "No chime when the marker stabilizes")
	autoFind := flag.Bool("found", false, "Start with the marker found")
	flag.Parse()

	var out io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			cli.Fatal("%v", err)
		}
		defer f.Close()
		out = f
	}

	env, err := common.Setup(out)
	if err != nil {
		cli.Fatal("%v", err)
	}
	defer common.Finish(env, os.Stdout)

	var chime *termhost.Chime
	if !*quiet {
		chime, err = termhost.NewChime()
		if err != nil {
			env.Logger.Warn("audio unavailable, running without chime", logging.Err(err))
		}
	}

	tree := env.Config.Orbit().Table().BuildTree()
	pulse := input.NewPulse(2 * time.Second)
	sys, err := orrery.New(env.Config, tree, orrerysignal.NewBus(), env.Options(orrery.WithPausables(pulse))...)
	if err != nil {
		cli.Fatal("%v", err)
	}
	sys.Start()
	defer sys.Stop()

	host, err := termhost.New(sys, tree, termhost.Options{
		FPS:      *fps,
		Chime:    chime,
		Pulse:    pulse,
		Logger:   env.Logger,
		AutoFind: *autoFind,
	})
	if err != nil {
		cli.Fatal("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := host.Run(ctx); err != nil && err != context.Canceled {
		env.Logger.Error("terminal host ended", logging.Err(err))
	}
}

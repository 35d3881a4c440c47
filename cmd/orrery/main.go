// Command orrery shows the solar system in a window, with a simulated
// marker standing in for the AR tracker.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/edwinsyarief/orrery"
	"github.com/edwinsyarief/orrery/host/ebitenhost"
	"github.com/edwinsyarief/orrery/host/input"
	"github.com/edwinsyarief/orrery/internal/cli"
	"github.com/edwinsyarief/orrery/internal/logging"
	"github.com/edwinsyarief/orrery/signal"
	_ "github.com/silbinarywolf/preferdiscretegpu"
)

func main() {
	common := cli.Register(flag.CommandLine)
	tps := flag.Int("tps", 60, "Ticks per second")
	span := flag.Float64("span", 9.0, "Scene units across the shortest window side")
	autoFind := flag.Bool("found", false, "Start with the marker found")
	flag.Parse()

	env, err := common.Setup(nil)
	if err != nil {
		cli.Fatal("%v", err)
	}
	defer common.Finish(env, os.Stdout)

	tree := env.Config.Orbit().Table().BuildTree()
	pulse := input.NewPulse(2 * time.Second)
	sys, err := orrery.New(env.Config, tree, signal.NewBus(), env.Options(orrery.WithPausables(pulse))...)
	if err != nil {
		cli.Fatal("%v", err)
	}
	sys.Start()
	defer sys.Stop()

	game := ebitenhost.New(sys, tree, ebitenhost.Options{
		TPS:      *tps,
		Span:     *span,
		Pulse:    pulse,
		Logger:   env.Logger,
		AutoFind: *autoFind,
	})
	if err := ebitenhost.Run(game, "orrery"); err != nil {
		env.Logger.Error("game ended", logging.Err(err))
	}
}

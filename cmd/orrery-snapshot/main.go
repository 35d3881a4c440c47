// Command orrery-snapshot runs the orrery headless for a fixed time
// and writes the final frame as a WebP image. The marker is reported
// found on the first frame unless -lost is given.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/edwinsyarief/orrery"
	"github.com/edwinsyarief/orrery/clock"
	"github.com/edwinsyarief/orrery/host/input"
	"github.com/edwinsyarief/orrery/internal/cli"
	"github.com/edwinsyarief/orrery/internal/logging"
	"github.com/edwinsyarief/orrery/render"
	"github.com/edwinsyarief/orrery/scene"
	"github.com/edwinsyarief/orrery/signal"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		cli.Fatal("%v", err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("orrery-snapshot", flag.ContinueOnError)
	fs.SetOutput(stderr)
	common := cli.Register(fs)
	out := fs.String("out", "orrery.webp", "Output WebP path")
	at := fs.Duration("at", 5*time.Second, "Simulated time of the snapshot")
	tps := fs.Int("tps", 60, "Simulated ticks per second")
	size := fs.Int("size", 256, "Image size in pixels")
	span := fs.Float64("span", 9.0, "Scene units across the image")
	lost := fs.Bool("lost", false, "Never report the marker as found")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tps <= 0 || *size <= 0 || !(*span > 0) {
		return fmt.Errorf("-tps, -size and -span must be positive")
	}

	env, err := common.Setup(stderr)
	if err != nil {
		return err
	}
	defer common.Finish(env, stdout)

	tree := env.Config.Orbit().Table().BuildTree()
	bus := signal.NewBus()
	sys, err := orrery.New(env.Config, tree, bus, env.Options()...)
	if err != nil {
		return err
	}
	sys.Start()
	defer sys.Stop()

	markerNode, _ := tree.Lookup(scene.NameMarker)
	marker := input.NewMarkerSim(bus, markerNode)
	frames := int(at.Seconds() * float64(*tps))
	frame := clock.NewFrame(*tps)
	for i := 0; i < frames; i++ {
		now := frame.Step()
		if i == 0 && !*lost {
			marker.Find(now)
		}
		if err := sys.Update(now); err != nil {
			env.Logger.Warn("tick failed", logging.Duration("time", now), logging.Err(err))
		}
	}

	opts := render.DefaultOptions()
	opts.Size = *size
	opts.Span = *span
	img := render.Frame(tree, opts)
	if err := render.WriteWebP(*out, img); err != nil {
		return err
	}
	env.Logger.Info("snapshot written",
		logging.String("path", *out),
		logging.Duration("at", frame.Now()),
		logging.Int("frames", frames),
		logging.String("orbit", sys.Orbit().State().String()))
	return nil
}

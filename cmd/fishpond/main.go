// Command fishpond animates a school of flexible fish.
//
// Usage
//
// The fishpond command takes one optional argument:
//  fishpond [config_file]
// It is the path to a TOML config file.
// If no config file is specified, an interactive simulation
// with default parameters will run in an OpenGL window.
// If the config sets Output, the simulation runs headless for Steps
// steps of duration Dt and is recorded to that HDF5 file.
//
// A recording can be summarized with:
//  fishpond stats file.h5
//
// Interactive mode
//
// In interactive mode, the simulation can be paused/resumed with space.
// While in pause, pressing right arrow will perform a single step.
// S shows or hides the spines, W switches between weighted and plain
// aggregation, R resets the zoom and scrolling zooms around the cursor.
// Pressing Esc or closing the window will quit.
package main

import (
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ErikLambrechts/fishpond"
	"github.com/ErikLambrechts/fishpond/hdf5"
	"github.com/ErikLambrechts/fishpond/internal/config"
	"github.com/ErikLambrechts/fishpond/internal/observability"
	"github.com/ErikLambrechts/fishpond/opengl"
)

func init() {
	// Most OpenGL functions have to run from the main thread.
	// This is needed to arrange that main() runs on main thread.
	// See https://github.com/golang/go/wiki/LockOSThread for more info.
	runtime.LockOSThread()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// falls back to a development logger if config failed
		observability.GetLogger().Error("Command failed", zap.Error(err))
		observability.Sync()
		os.Exit(1)
	}
}

// flags holds the command line overrides of the config file.
type flags struct {
	output   string
	steps    int
	workers  int
	seed     int64
	logLevel string
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "fishpond [config_file]",
		Short: "Animate a school of flexible fish",
		Long: `The first argument is optional and is the path to a TOML config file.
If no config file is specified, an interactive simulation
with default parameters will run in an OpenGL window.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(cmd, args, &f)
			if err != nil {
				return err
			}
			observability.InitializeLogger(conf.Logger)
			defer observability.Sync()
			return run(conf, observability.GetLogger())
		},
	}

	f.register(cmd)
	cmd.AddCommand(newStatsCmd())
	return cmd
}

// register binds f to the flags of cmd.
func (f *flags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "", "record to this HDF5 file instead of opening a window")
	fl.IntVar(&f.steps, "steps", 0, "number of recorded steps")
	fl.IntVarP(&f.workers, "workers", "w", 0, "goroutines computing steering")
	fl.Int64Var(&f.seed, "seed", 0, "seed of the random source, 0 for current time")
	fl.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
}

// loadConfig reads the config file, if any, and applies the flags that were set.
func loadConfig(cmd *cobra.Command, args []string, f *flags) (*config.Config, error) {
	conf := config.Default()
	if len(args) == 1 {
		var err error
		if conf, err = config.ParseConfig(args[0]); err != nil {
			return nil, err
		}
	}

	fl := cmd.Flags()
	if fl.Changed("output") {
		conf.Output = f.output
	}
	if fl.Changed("steps") {
		conf.Steps = f.steps
	}
	if fl.Changed("workers") {
		conf.Workers = f.workers
	}
	if fl.Changed("seed") {
		conf.Seed = f.seed
	}
	if fl.Changed("log-level") {
		conf.Logger.Level = f.logLevel
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// run sets up the school and runs it interactively or not depending on config.
func run(conf *config.Config, log *zap.Logger) error {
	s := setup(conf, fishpond.NewRand(conf.Seed))
	log.Info("School ready",
		zap.Int("fish", len(s.School)),
		zap.Float64("width", conf.Width),
		zap.Float64("height", conf.Height),
		zap.Bool("weighted", conf.Behavior.Weighted),
		zap.Int("workers", conf.Workers),
		zap.Int64("seed", conf.Seed))

	if conf.Output == "" {
		return opengl.Run(s, &opengl.Config{
			Step:       s.Step,
			Xmin:       0,
			Ymin:       0,
			Xmax:       conf.Width,
			Ymax:       conf.Height,
			WindowSize: conf.Display.WindowSize,
			ShowSpine:  conf.Display.ShowSpine,
			Spine:      conf.Display.Spine,
			Outline:    conf.Display.Outline,
			Background: conf.Display.Background,
			Logger:     log,
		})
	}
	return hdf5.Run(s, &hdf5.Config{
		Output:   conf.Output,
		Steps:    conf.Steps,
		Step:     func() { s.Step(conf.Dt) },
		Datasets: datasets(conf.SchoolSize),
		Attrs:    conf,
		Logger:   log,
	})
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nextcore/choreo/cmd/choreo/internal/site"
	"github.com/nextcore/choreo/pkg/scheduler"
	"github.com/nextcore/choreo/pkg/timeline"
)

type simulateOptions struct {
	script   string
	png      string
	realtime bool
	scale    float64
}

func newSimulateCommand(ctx *commandContext) *cobra.Command {
	var opts simulateOptions

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play a navigation script and print the transition timeline",
		Long: `simulate builds the festival site, plays a navigation script against it and
prints a timeline of every status change, leaf completion, sound cue and
navigation signal.

By default time is virtual, so the run is instant and repeatable. With
--realtime the script plays on a wall-clock event loop instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, ctx, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.script, "script", "s", "", "Navigation script (YAML); defaults to the built-in tour")
	cmd.Flags().StringVar(&opts.png, "png", "", "Also write the timeline chart to this PNG file")
	cmd.Flags().BoolVar(&opts.realtime, "realtime", false, "Run on a real-time event loop")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0.5, "Chart pixels per millisecond")
	return cmd
}

func runSimulate(cmd *cobra.Command, ctx *commandContext, opts simulateOptions) error {
	sc, err := site.LoadScript(opts.script)
	if err != nil {
		return err
	}
	log := ctx.logger
	log.Info("simulating", zap.String("script", sc.Name), zap.Int("steps", len(sc.Steps)), zap.Bool("realtime", opts.realtime))

	var (
		sched scheduler.Scheduler
		play  func(*site.Site) error
	)
	if opts.realtime {
		loop := scheduler.NewLoop(0)
		sched = loop
		play = func(s *site.Site) error { return s.PlayRealtime(cmd.Context(), loop, sc) }
	} else {
		manual := scheduler.NewManual()
		sched = manual
		play = func(s *site.Site) error { return s.Play(manual, sc) }
	}

	rec := timeline.New(sched)
	s, err := site.New(site.Options{Sched: sched, Config: ctx.config, Recorder: rec, Logger: log})
	if err != nil {
		return err
	}
	if err := play(s); err != nil {
		return fmt.Errorf("simulate %s: %w", sc.Name, err)
	}

	out := cmd.OutOrStdout()
	if err := rec.WriteTable(out); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d events over %s\n\n%s\n", rec.Len(), rec.Elapsed(), s.Render())

	if opts.png != "" {
		if err := writeChart(rec, opts.png, opts.scale); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote chart to %s\n", opts.png)
	}
	return nil
}

func writeChart(rec *timeline.Recorder, path string, scale float64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close chart: %w", cerr)
		}
	}()
	if err := rec.WritePNG(f, timeline.ChartOptions{Scale: scale}); err != nil {
		return fmt.Errorf("encode chart: %w", err)
	}
	return nil
}

// SPDX-License-Identifier: EPL-2.0

// Command audmix plays clips at the same time, each on its own channel,
// or renders the mix to a WAV file.
//
//	audmix [-config audmix.yaml] [-render out.wav] [-convert] [-volume 0.8] clip...
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/clip"
	"github.com/ik5/audmix/internal/config"
	"github.com/ik5/audmix/mixer"
	"github.com/ik5/audmix/sink"
)

var (
	configFile = flag.String("config", "", "YAML configuration file")
	render     = flag.String("render", "", "Render the mix to this WAV file instead of playing it")
	backend    = flag.String("backend", "", "Output backend: malgo, oto or wav (overrides the config)")
	convert    = flag.Bool("convert", false, "Downmix and resample clips that are not mono 16-bit at the mixer rate")
	volume     = flag.Float64("volume", 1, "Volume of every channel, 0.0 to 1.0")
	debug      = flag.Bool("debug", false, "Enable debug logging")
)

const pollInterval = 50 * time.Millisecond

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] clip...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, flag.Args()); err != nil {
		logger.Error("audmix: failed", "error", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			return config.Config{}, err
		}
	}

	if *backend != "" {
		cfg.Sink.Backend = *backend
	}
	if *render != "" {
		cfg.Sink = sink.Options{Backend: sink.BackendWAV, Path: *render}
		cfg.Mixer.StopWhenIdle = true
	}
	if *convert {
		cfg.Load.Convert = true
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func run(ctx context.Context, logger *slog.Logger, paths []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(paths) > cfg.Mixer.Channels {
		return fmt.Errorf("%d clips but only %d channels", len(paths), cfg.Mixer.Channels)
	}

	clips := make([]*clip.Buffer, 0, len(paths))
	for _, path := range paths {
		b, err := audmix.DecodeFile(path, cfg.Load)
		if err != nil {
			return err
		}
		logger.Info("audmix: loaded clip", "path", path, "frames", b.Len(), "duration", b.Duration())
		clips = append(clips, b)
	}

	out, err := sink.New(cfg.Sink, logger)
	if err != nil {
		return err
	}

	cfg.Mixer.Logger = logger
	engine, err := mixer.Start(cfg.Mixer, out)
	if err != nil {
		return err
	}

	for id, b := range clips {
		if err := engine.Assign(id, b); err != nil {
			return errors.Join(err, engine.Stop())
		}
	}
	engine.SetVolumeAll(*volume)

	waitErr := wait(ctx, engine, len(clips))
	return errors.Join(waitErr, engine.Stop())
}

// wait returns once every channel finished and the device had time to play
// its queue, the engine stopped on its own, or ctx is done.
func wait(ctx context.Context, engine *mixer.Engine, channels int) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-engine.Done():
			return engine.Err()
		case <-ticker.C:
		}

		if busy(engine, channels) {
			continue
		}

		drain := engine.Params().FramesDuration(engine.Params().BufferFrames)
		select {
		case <-ctx.Done():
		case <-engine.Done():
			return engine.Err()
		case <-time.After(drain):
		}
		return nil
	}
}

func busy(engine *mixer.Engine, channels int) bool {
	for id := range channels {
		if st, err := engine.Status(id); err == nil && st.Active {
			return true
		}
	}
	return false
}

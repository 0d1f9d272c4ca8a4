package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/videoreader"
	"github.com/xaionaro-go/videoreader/libav"
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "syntax: %s [options] <path>\n", os.Args[0])
		pflag.PrintDefaults()
	}

	loggerLevel := logger.LevelWarning
	pflag.Var(&loggerLevel, "log-level", "Log level")
	netPprofAddr := pflag.String("net-pprof-listen-addr", "", "an address to listen for incoming net/pprof connections")
	configPath := pflag.String("config", "", "path to a YAML config")
	seekTo := pflag.Int64("seek", -1, "seek to this timestamp (in time base units) before reading")
	maxFrames := pflag.Uint64("max-frames", 0, "stop after this amount of frames (0 means no limit)")
	outputPath := pflag.String("output", "", "write the raw converted frames to this file")
	pflag.Parse()
	if len(pflag.Args()) != 1 {
		pflag.Usage()
		os.Exit(1)
	}

	l := logrus.Default().WithLevel(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	ctx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()
	logger.Default = func() logger.Logger {
		return l
	}
	defer belt.Flush(ctx)

	if *netPprofAddr != "" {
		observability.Go(ctx, func(context.Context) { l.Error(http.ListenAndServe(*netPprofAddr, nil)) })
	}

	cfg := videoreader.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = videoreader.LoadConfig(*configPath)
		if err != nil {
			l.Fatal(err)
		}
	}
	l.Debugf("config: %s", spew.Sdump(cfg))

	var output *os.File
	if *outputPath != "" {
		var err error
		output, err = os.Create(*outputPath)
		if err != nil {
			l.Fatal(err)
		}
		defer output.Close()
	}

	f, err := libav.NewFactory(ctx)
	if err != nil {
		l.Fatal(err)
	}

	path := pflag.Arg(0)
	l.Debugf("opening '%s'...", path)
	r, err := libav.Open(ctx, f.Backend, path, cfg)
	if err != nil {
		l.Fatal(err)
	}

	timeBase := r.TimeBase()
	fmt.Printf("%dx%d, time base %s, duration %v\n", r.Width(), r.Height(), timeBase, timeBase.ToDuration(r.Duration()))

	if *seekTo >= 0 {
		if err := r.Seek(ctx, *seekTo); err != nil {
			r.Close()
			l.Fatal(err)
		}
	}

	frames, errCh := r.ServeFrames(ctx, 2)
	defer func() {
		cancelFn()
		for range frames {
		}
		if err := r.Close(); err != nil {
			logger.Errorf(ctx, "unable to close the reader: %v", err)
		}
	}()
	t := time.NewTicker(time.Second)
	defer t.Stop()
	var count uint64
	for {
		select {
		case frame, ok := <-frames:
			if !ok {
				if err := <-errCh; err != nil {
					logger.Errorf(ctx, "decoding stopped: %v", err)
				}
				printStats(r.Stats())
				return
			}
			count++
			fmt.Printf("%d\t%d\t%.6f\n", count, frame.Pts, frame.Position.Seconds())
			if output != nil {
				if _, err := output.Write(frame.Data); err != nil {
					logger.Errorf(ctx, "unable to write the frame: %v", err)
					return
				}
			}
			if *maxFrames > 0 && count >= *maxFrames {
				printStats(r.Stats())
				return
			}
		case <-t.C:
			l.Debugf("stats: %#+v", r.Stats())
		}
	}
}

func printStats(stats videoreader.Stats) {
	fmt.Fprintf(
		os.Stderr,
		"packets: read:%d skipped:%d (%d bytes); frames: decoded:%d discarded:%d converted:%d\n",
		stats.PacketsRead, stats.PacketsSkipped, stats.BytesRead,
		stats.FramesDecoded, stats.FramesDiscarded, stats.FramesConverted,
	)
}

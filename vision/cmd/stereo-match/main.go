/*
DESCRIPTION
  stereo-match computes a disparity map from a rectified stereo image pair
  using semi-global matching, and writes it as a greyscale PNG.

AUTHORS
  Australian Ocean Lab (AusOcean)

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean)

  It is free software: you can redistribute it and/or modify them
  under the terms of the GNU General Public License as published by the
  Free Software Foundation, either version 3 of the License, or (at your
  option) any later version.

  It is distributed in the hope that it will be useful, but WITHOUT
  ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
  FITNESS FOR A PARTICULAR PURPOSE. See the GNU General Public License
  for more details.

  You should have received a copy of the GNU General Public License
  in gpl.txt. If not, see http://www.gnu.org/licenses.
*/

// stereo-match computes a disparity map from a rectified stereo image pair.
//
// Usage:
//
//	stereo-match -left l.png -right r.png -out disparity.png \
//	  -cost census -radius 2 -disparity subpixel \
//	  -params "LowPenaltyCoeff=0.1,HighPenaltyCoeff=0.3,MaxDisparity=48"
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ausocean/stereo/vision/cost"
	"github.com/ausocean/stereo/vision/disparity"
	"github.com/ausocean/stereo/vision/imgio"
	"github.com/ausocean/stereo/vision/sgm"
	"github.com/ausocean/stereo/vision/stereo"
	"github.com/ausocean/utils/filemap"
	"github.com/ausocean/utils/logging"
	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logging configuration.
const (
	defaultLogPath = "stereo-match.log"
	logMaxSize     = 500 // MB.
	logMaxBackup   = 10
	logMaxAge      = 28 // Days.
	logSuppress    = false
)

// Base image names.
const (
	baseLeft  = "left"
	baseRight = "right"
)

// options holds the command line configuration of a run.
type options struct {
	left, right string
	out         string
	base        string
	cost        string
	radius      int
	disparity   string
	params      string
	scale       float64
	plot        string
}

func main() {
	var opts options
	flag.StringVar(&opts.left, "left", "", "Path of the left image")
	flag.StringVar(&opts.right, "right", "", "Path of the right image")
	flag.StringVar(&opts.out, "out", "disparity.png", "Path of the output disparity image")
	flag.StringVar(&opts.base, "base", baseLeft, "Base image, left or right")
	flag.StringVar(&opts.cost, "cost", cost.NameCensus, "Matching cost, one of "+strings.Join(cost.Names, ", "))
	flag.IntVar(&opts.radius, "radius", 2, "Matching cost window radius")
	flag.StringVar(&opts.disparity, "disparity", disparity.NameWTA, "Disparity computer, one of "+strings.Join(disparity.Names, ", "))
	flag.StringVar(&opts.params, "params", "", "Comma separated Name=Value aggregator parameters")
	flag.Float64Var(&opts.scale, "scale", 1, "Factor to scale the input images by")
	flag.StringVar(&opts.plot, "plot", "", "Directory to save a disparity histogram to")
	logLevel := flag.Int("LogLevel", int(logging.Info), "Specifies log level")
	logPath := flag.String("LogPath", defaultLogPath, "Specifies log path")
	flag.Parse()

	validLogLevel := true
	if *logLevel < int(logging.Debug) || *logLevel > int(logging.Fatal) {
		*logLevel = int(logging.Info)
		validLogLevel = false
	}

	fileLog := &lumberjack.Logger{
		Filename:   *logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(int8(*logLevel), io.MultiWriter(os.Stderr, fileLog), logSuppress)
	if !validLogLevel {
		log.Error("invalid log level was defaulted to Info")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, opts, log)
	if err != nil {
		log.Fatal("stereo matching failed", "error", err)
	}
}

// run loads the image pair, aggregates matching costs and writes the results
// described by opts.
func run(ctx context.Context, opts options, log logging.Logger) error {
	id := uuid.New()
	log.Info("starting run", "id", id.String(), "base", opts.base, "cost", opts.cost,
		"radius", opts.radius, "disparity", opts.disparity)

	cfg, err := config(opts)
	if err != nil {
		return err
	}

	left, err := load(opts.left, opts.scale)
	if err != nil {
		return fmt.Errorf("could not load left image: %w", err)
	}
	right, err := load(opts.right, opts.scale)
	if err != nil {
		return fmt.Errorf("could not load right image: %w", err)
	}
	log.Info("loaded image pair", "rows", left.Rows(), "cols", left.Cols())

	cc, err := cost.ByName(opts.cost, opts.radius)
	if err != nil {
		return err
	}
	dc, err := disparity.ByName(opts.disparity, cc)
	if err != nil {
		return err
	}

	m := stereo.NewMap(left.Rows(), left.Cols())
	agg := sgm.New(cfg, left, right, m, cc, dc, log)
	err = agg.Init()
	if err != nil {
		return fmt.Errorf("could not initialise aggregator: %w", err)
	}
	c := agg.Config()
	log.Info("initialised aggregator", "id", id.String(), "lowPenalty", c.LowPenaltyCoeff,
		"highPenalty", c.HighPenaltyCoeff, "threshold", c.IntensityThreshold,
		"maxDisparity", c.MaxDisparity, "leftBase", c.IsLeftImageBase)

	start := time.Now()
	err = agg.ComputeMatchingCosts(ctx)
	if err != nil {
		return fmt.Errorf("could not compute matching costs: %w", err)
	}
	s := disparity.Summarize(m)
	log.Info("computed disparity map", "id", id.String(), "duration (sec)", time.Since(start).Seconds(),
		"valid", s.Valid, "invalid", s.Invalid, "mean", s.Mean, "stdDev", s.StdDev,
		"min", s.Min, "max", s.Max, "confidence", s.MeanConfidence)

	err = imgio.SavePNG(opts.out, disparity.Gray(m))
	if err != nil {
		return fmt.Errorf("could not save disparity image: %w", err)
	}
	log.Info("saved disparity image", "path", opts.out)

	if opts.plot == "" {
		return nil
	}
	name := strings.TrimSuffix(filepath.Base(opts.out), filepath.Ext(opts.out)) + "-histogram"
	err = disparity.PlotHistogram(m, opts.plot, name)
	if err != nil {
		return fmt.Errorf("could not plot histogram: %w", err)
	}
	log.Info("saved disparity histogram", "dir", opts.plot, "name", name)
	return nil
}

// config builds the aggregator configuration from the base image choice and
// the Name=Value pairs of the params option.
func config(opts options) (sgm.Config, error) {
	cfg := sgm.DefaultConfig()
	switch opts.base {
	case baseLeft:
		cfg.IsLeftImageBase = true
	case baseRight:
		cfg.IsLeftImageBase = false
	default:
		return cfg, fmt.Errorf("invalid base image %q, want %s or %s", opts.base, baseLeft, baseRight)
	}
	if opts.params == "" {
		return cfg, nil
	}
	err := cfg.Update(filemap.Split(opts.params, ",", "="))
	if err != nil {
		return cfg, fmt.Errorf("could not apply params: %w", err)
	}
	return cfg, nil
}

func load(path string, scale float64) (*stereo.Image, error) {
	if path == "" {
		return nil, errors.New("no image path given")
	}
	img, err := imgio.Load(path)
	if err != nil {
		return nil, err
	}
	return imgio.Scale(img, scale)
}

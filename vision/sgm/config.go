/*
DESCRIPTION
  config.go provides the configuration of the semi-global matching
  aggregator, along with validation and updating from key/value parameters.

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

package sgm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadConfig is wrapped by all configuration validation errors.
var ErrBadConfig = errors.New("invalid configuration")

// Default configuration values.
const (
	defaultLowPenaltyCoeff    = 0.1
	defaultHighPenaltyCoeff   = 0.3
	defaultIntensityThreshold = 0.1
	defaultMaxDisparity       = 64
)

// Config holds the aggregator parameters.
type Config struct {
	// LowPenaltyCoeff scales MaxCost to give the penalty P1 for a disparity
	// change of one. In [0,1].
	LowPenaltyCoeff float64

	// HighPenaltyCoeff scales MaxCost to give the penalty P2 for larger
	// disparity changes. In [0,1].
	HighPenaltyCoeff float64

	// IntensityThreshold is the base to matched intensity difference above
	// which P2 is doubled.
	IntensityThreshold float64

	// MaxDisparity bounds the disparity search range. Zero searches up to
	// the image width. Every path holds two cost buffers as long as the
	// largest range along it, so an unbounded search on wide images costs
	// memory in proportion to the width times the number of paths.
	MaxDisparity int

	// IsLeftImageBase selects the left image as the base image, in which case
	// matched pixels lie to the left and disparities are negative.
	IsLeftImageBase bool
}

// DefaultConfig returns a Config with default values and the left image as
// base.
func DefaultConfig() Config {
	return Config{
		LowPenaltyCoeff:    defaultLowPenaltyCoeff,
		HighPenaltyCoeff:   defaultHighPenaltyCoeff,
		IntensityThreshold: defaultIntensityThreshold,
		MaxDisparity:       defaultMaxDisparity,
		IsLeftImageBase:    true,
	}
}

// Validate checks that all fields hold usable values.
func (c Config) Validate() error {
	switch {
	case c.LowPenaltyCoeff < 0 || c.LowPenaltyCoeff > 1:
		return fmt.Errorf("%w: LowPenaltyCoeff %v outside [0,1]", ErrBadConfig, c.LowPenaltyCoeff)
	case c.HighPenaltyCoeff < 0 || c.HighPenaltyCoeff > 1:
		return fmt.Errorf("%w: HighPenaltyCoeff %v outside [0,1]", ErrBadConfig, c.HighPenaltyCoeff)
	case c.IntensityThreshold < 0:
		return fmt.Errorf("%w: negative IntensityThreshold %v", ErrBadConfig, c.IntensityThreshold)
	case c.MaxDisparity < 0:
		return fmt.Errorf("%w: negative MaxDisparity %d", ErrBadConfig, c.MaxDisparity)
	}
	return nil
}

// Information for parameters that can be set by name.
var variables = []struct {
	name   string
	update func(c *Config, v string) error
}{
	{
		name: "LowPenaltyCoeff",
		update: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("could not convert LowPenaltyCoeff value to float: %w", err)
			}
			c.LowPenaltyCoeff = f
			return nil
		},
	},
	{
		name: "HighPenaltyCoeff",
		update: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("could not convert HighPenaltyCoeff value to float: %w", err)
			}
			c.HighPenaltyCoeff = f
			return nil
		},
	},
	{
		name: "IntensityThreshold",
		update: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("could not convert IntensityThreshold value to float: %w", err)
			}
			c.IntensityThreshold = f
			return nil
		},
	},
	{
		name: "MaxDisparity",
		update: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("could not convert MaxDisparity value to int: %w", err)
			}
			c.MaxDisparity = n
			return nil
		},
	},
	{
		name: "IsLeftImageBase",
		update: func(c *Config, v string) error {
			b, err := strconv.ParseBool(strings.ToLower(v))
			if err != nil {
				return fmt.Errorf("could not convert IsLeftImageBase value to bool: %w", err)
			}
			c.IsLeftImageBase = b
			return nil
		},
	},
}

// Update sets the fields named in vars and validates the result. Names are
// matched case insensitively. On error c is left unchanged.
func (c *Config) Update(vars map[string]string) error {
	next := *c
	for k, v := range vars {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		found := false
		for _, vr := range variables {
			if !strings.EqualFold(vr.name, k) {
				continue
			}
			found = true
			if err := vr.update(&next, strings.TrimSpace(v)); err != nil {
				return err
			}
			break
		}
		if !found {
			return fmt.Errorf("%w: unknown parameter %q", ErrBadConfig, k)
		}
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

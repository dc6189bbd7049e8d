// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command altreplay decodes an altrace trace log and prints a summary of
// the replayed calls. It is a minimal driver over tracefile and playback,
// standing in for the out-of-scope GUI shell, text dumper, and live
// re-driver (spec.md §1).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/icculus/altrace/playback"
	"github.com/icculus/altrace/tracefile"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		verbose bool
	)

	root := &cobra.Command{
		Use:   "altreplay [trace-file]",
		Short: "Decode an altrace trace log and summarize the replayed state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			return run(cmdArgs[0], verbose)
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.altreplay.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every decoded call, not just the summary")

	cobra.OnInitialize(func() {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			viper.SetConfigName(".altreplay")
			viper.SetConfigType("yaml")
			viper.AddConfigPath("$HOME")
		}
		viper.SetEnvPrefix("ALTREPLAY")
		viper.AutomaticEnv()
		_ = viper.ReadInConfig()
	})

	return root
}

func run(path string, verbose bool) error {
	logger, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	f, err := os.Open(path)
	if err != nil {
		logger.Errorw("opening trace file", "path", path, "error", err)
		return err
	}
	defer f.Close()

	builder := playback.NewStateBuilder()
	visitor := &loggingVisitor{Visitor: builder, logger: logger, verbose: verbose}

	res, err := tracefile.Process(f, visitor)
	if err != nil {
		logger.Errorw("decoding trace", "path", path, "error", err)
		return err
	}

	summarize(builder.Store(), res, logger)
	return nil
}

func newLogger(verbose bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// loggingVisitor wraps a playback.StateBuilder to add optional per-call
// logging, without playback itself taking a dependency on zap (the
// Ambient Stack decision keeps logging out of the library packages).
type loggingVisitor struct {
	tracefile.Visitor
	logger  *zap.SugaredLogger
	verbose bool
}

func (v *loggingVisitor) Call(info tracefile.CallerInfo, call *tracefile.Call) {
	if v.verbose {
		v.logger.Debugw("call", "name", call.Name, "thread", info.ThreadID, "ts", info.Timestamp)
	}
	v.Visitor.Call(info, call)
}

func (v *loggingVisitor) EOS(okay bool, reason string) {
	if !okay {
		v.logger.Warnw("trace ended abnormally", "reason", reason)
	}
	v.Visitor.EOS(okay, reason)
}

func summarize(store *playback.Store, res tracefile.Result, logger *zap.SugaredLogger) {
	var errors, failures, inefficient int
	for _, rec := range store.All() {
		if rec.GeneratedALError != 0 || rec.GeneratedALCError != 0 {
			errors++
		}
		if rec.ReportedFailure {
			failures++
		}
		if rec.InefficientStateChange {
			inefficient++
		}
	}

	fmt.Printf("run %s: %d calls decoded, result=%v\n", store.RunID, store.Len(), res)
	fmt.Printf("  calls generating an AL/ALC error: %d\n", errors)
	fmt.Printf("  calls reporting failure:          %d\n", failures)
	fmt.Printf("  inefficient state changes:        %d\n", inefficient)
	fmt.Printf("  latest timestamp:                 %dms\n", store.LatestTimestamp())
	fmt.Printf("  distinct threads:                 %d\n", store.LargestThreadID()+1)

	logger.Infow("replay complete",
		"runID", store.RunID,
		"calls", store.Len(),
		"result", res,
		"errors", errors,
		"failures", failures,
		"inefficient", inefficient,
	)
}

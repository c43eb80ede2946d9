// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command lightfield loads a lightfield archive into a GPU texture array
// and keeps its shader program compiled from files on disk, recompiling
// it whenever they are edited.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cogentcore.org/lightfield/base/logx"
	"cogentcore.org/lightfield/config"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "lightfield:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &config.Flags{}
	root := &cobra.Command{
		Use:   "lightfield [archive]",
		Short: "Load a lightfield and live-reload its shaders",
		Long: `lightfield decodes every view of a lightfield archive (a zip file or
a directory of images named <tag>_<column>_<row>.<ext>), uploads them
as the layers of one texture array, and runs a frame loop that
recompiles the shader program whenever its source files change.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			archive := ""
			if len(args) > 0 {
				archive = args[0]
			}
			c, err := setup(flags, archive)
			if err != nil {
				return err
			}
			if c.Archive == "" {
				return fmt.Errorf("no archive given")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, c)
		},
	}
	flags.Bind(root.PersistentFlags(), config.New())

	root.AddCommand(&cobra.Command{
		Use:           "check",
		Short:         "Compile the shader program once and print any errors",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(flags, "")
			if err != nil {
				return err
			}
			return check(cmd.OutOrStdout(), c)
		},
	})
	return root
}

// setup resolves the config and sets up logging from it.
func setup(flags *config.Flags, archive string) (*config.Config, error) {
	c, err := flags.Resolve(archive)
	if err != nil {
		return nil, err
	}
	logx.UserLevel = logx.LevelFromString(c.LogLevel)
	logx.SetDefaultLogger()
	return c, nil
}

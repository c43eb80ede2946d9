// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
)

// NewHandler returns a text [slog.Handler] writing to w that only shows
// records at or above [UserLevel], omits the time, and colors the level
// name when w is a terminal that supports it.
func NewHandler(w io.Writer) slog.Handler {
	out := termenv.NewOutput(w)
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: UserLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				return slog.Attr{}
			case slog.LevelKey:
				lv, ok := a.Value.Any().(slog.Level)
				if !ok {
					return a
				}
				a.Value = slog.StringValue(colorLevel(out, lv))
			}
			return a
		},
	})
}

// colorLevel returns the level name styled for the given output.
// Outputs without color support get the plain name.
func colorLevel(out *termenv.Output, lv slog.Level) string {
	var c string
	switch {
	case lv >= slog.LevelError:
		c = "1" // red
	case lv >= slog.LevelWarn:
		c = "3" // yellow
	case lv >= slog.LevelInfo:
		c = "4" // blue
	default:
		c = "8" // gray
	}
	return out.String(lv.String()).Foreground(out.Color(c)).String()
}

// SetDefaultLogger sets the default logger to a handler from
// [NewHandler] writing to stderr, using the current [UserLevel].
func SetDefaultLogger() {
	slog.SetDefault(slog.New(NewHandler(os.Stderr)))
}

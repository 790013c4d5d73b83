package main

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/arloliu/ptcloud/document"
	"github.com/urfave/cli/v3"
)

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer
			major, minor, library := document.Versions()
			_, _ = fmt.Fprintf(w, "library:    %s\n", library)
			_, _ = fmt.Fprintf(w, "format:     %s %d.%d\n", document.FormatName, major, minor)
			if info, ok := debug.ReadBuildInfo(); ok {
				_, _ = fmt.Fprintf(w, "go:         %s\n", info.GoVersion)
				for _, s := range info.Settings {
					if s.Key == "vcs.revision" {
						_, _ = fmt.Fprintf(w, "commit:     %s\n", s.Value)
					}
				}
			}

			return nil
		},
	}
}

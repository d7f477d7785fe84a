// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// mirrorFlags are shared by the run and once commands.
// Flag values override the corresponding configuration entries.
func mirrorFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.StringFlag{
			Name:  "channel_url",
			Usage: "URL of the YouTube channel to mirror",
		},
		&cli.StringFlag{
			Name:  "download_path",
			Usage: "Base directory for mirrored playlists",
		},
		&cli.IntFlag{
			Name:  "max_workers",
			Usage: "Maximum concurrent downloads within a playlist",
		},
	}
}

// runCommand starts the recurring mirror daemon
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Mirror the channel on a recurring schedule",
		Flags: append(mirrorFlags(),
			&cli.IntFlag{
				Name:  "period",
				Usage: "Hours between mirroring passes",
			},
		),
		Action: r.MirrorRun,
	}
}

// onceCommand performs a single pass and exits
func onceCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "once",
		Usage:  "Perform a single mirroring pass and exit",
		Flags:  mirrorFlags(),
		Action: r.MirrorOnce,
	}
}

// historyCommand inspects recorded passes
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recorded mirroring passes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of passes to show",
				Value: 10,
			},
			&cli.StringFlag{
				Name:  "pass",
				Usage: "Show per-item outcomes for a pass ID",
			},
			&cli.BoolFlag{
				Name:  "failures",
				Usage: "Only show failed downloads (requires --pass)",
			},
			&cli.StringFlag{
				Name:  "export",
				Usage: "Export pass report: csv, markdown, txt (requires --pass)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path for exported report",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.History,
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize database and run migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.SetupDatabase,
	}
}

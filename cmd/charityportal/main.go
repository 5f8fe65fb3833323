package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "charityportal",
		Usage: "Distribution site permit workflow service",
		Commands: []*cli.Command{
			serveCommand,
			seedCommand,
			requirementsCommand,
			nanoidCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}

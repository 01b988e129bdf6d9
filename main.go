package main

import (
	"fmt"
	"os"

	"fjacquet/bucket-ledger/cmd/bucket"
	"fjacquet/bucket-ledger/cmd/distribute"
	"fjacquet/bucket-ledger/cmd/overview"
	"fjacquet/bucket-ledger/cmd/recurring"
	"fjacquet/bucket-ledger/cmd/root"
	"fjacquet/bucket-ledger/cmd/serve"
	"fjacquet/bucket-ledger/cmd/snapshot"
	"fjacquet/bucket-ledger/internal/config"

	"github.com/sirupsen/logrus"
)

func init() {
	// .env must be loaded before the level is read from the environment
	config.LoadEnv()

	// set the global level before any logger is created
	level := config.LevelFromEnv()
	logrus.SetLevel(level)
	root.Log.SetLevel(level)

	root.Init()

	root.Cmd.AddCommand(overview.Cmd)
	root.Cmd.AddCommand(distribute.Cmd)
	root.Cmd.AddCommand(bucket.Cmd)
	root.Cmd.AddCommand(recurring.Cmd)
	root.Cmd.AddCommand(snapshot.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

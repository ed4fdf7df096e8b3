// Command vvdaw-worker is the standalone executable §4.5 describes: it
// loads one VST3 plugin, opens a shared region a parent process already
// created, runs the region's worker-side audio loop on its own thread,
// and answers the line-delimited JSON control protocol (§6.1) on
// stdin/stdout.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/vvdaw/host/internal/logging"
	"github.com/vvdaw/host/pkg/workerhost"
)

func main() {
	logLevel := pflag.String("log-level", "info", "log level: debug, info, warn, error")
	pflag.Parse()

	defer workerhost.InstallCrashHandler(os.Stdout)

	args := pflag.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: vvdaw-worker [flags] <plugin_path> <region_name>")
		os.Exit(1)
	}
	pluginPath, regionName := args[0], args[1]

	logger := logging.New(logging.Options{Level: *logLevel, Prefix: "worker", Writer: os.Stderr})

	host, err := workerhost.Load(pluginPath, regionName, logger)
	if err != nil {
		logger.Error("load failed", "err", err)
		workerhost.WriteFatal(os.Stdout, err)
		os.Exit(1)
	}
	defer host.Close()

	if err := host.Run(os.Stdin, os.Stdout); err != nil {
		logger.Error("control loop exited with error", "err", err)
		os.Exit(1)
	}
}

// Command vvdaw-scanner loads a single VST3 bundle, extracts its
// PluginInfo and parameter list, prints the result as one JSON line to
// stdout, and exits (§2, §6.4). It never processes audio.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/vvdaw/host/internal/logging"
	"github.com/vvdaw/host/pkg/scanner"
)

func main() {
	logLevel := pflag.String("log-level", "info", "log level: debug, info, warn, error")
	pflag.Parse()
	args := pflag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: vvdaw-scanner [flags] <plugin_path>")
		os.Exit(1)
	}

	logger := logging.New(logging.Options{Level: *logLevel, Prefix: "scanner", Writer: os.Stderr})

	res, err := scanner.Scan(args[0])
	if err != nil {
		logger.Error("scan failed", "path", args[0], "err", err)
		json.NewEncoder(os.Stdout).Encode(scanner.Result{Path: args[0], Error: err.Error()})
		os.Exit(1)
	}
	if err := json.NewEncoder(os.Stdout).Encode(res); err != nil {
		fmt.Fprintln(os.Stderr, "vvdaw-scanner: encode result:", err)
		os.Exit(1)
	}
}

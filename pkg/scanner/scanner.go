// Package scanner implements the one-shot metadata-extraction worker
// from §2/§6.4: a small binary that loads a single plugin bundle,
// extracts its PluginInfo and parameter list, prints them as JSON, and
// exits — plus the parent-side directory walk that discovers bundles
// and invokes that binary against each one.
package scanner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/vvdaw/host/pkg/vst3host"
)

// Result is the JSON-serializable outcome of scanning one bundle: either
// Info/Parameters are populated, or Error is, never both.
type Result struct {
	Path       string               `json:"path"`
	Info       *ResultInfo          `json:"info,omitempty"`
	Parameters []ResultParameterInfo `json:"parameters,omitempty"`
	Error      string               `json:"error,omitempty"`
}

type ResultInfo struct {
	Name    string `json:"name"`
	Vendor  string `json:"vendor"`
	Version string `json:"version"`
	UID     string `json:"uid"`
}

type ResultParameterInfo struct {
	ID      uint32  `json:"id"`
	Name    string  `json:"name"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
}

// Scan loads the plugin bundle at path, extracts its metadata, and tears
// it back down. It never calls Initialize or Process — discovery only
// needs the factory/component/controller walk from §4.3 steps 1-6.
func Scan(path string) (*Result, error) {
	host, err := vst3host.Load(path)
	if err != nil {
		return nil, fmt.Errorf("scanner: load %s: %w", path, err)
	}
	defer host.Close()

	info := host.Info()
	params := host.Parameters()
	out := make([]ResultParameterInfo, len(params))
	for i, p := range params {
		out[i] = ResultParameterInfo{ID: p.ID, Name: p.Name, Min: p.Min, Max: p.Max, Default: p.Default}
	}
	return &Result{
		Path: path,
		Info: &ResultInfo{
			Name:    info.Name,
			Vendor:  info.Vendor,
			Version: info.Version,
			UID:     fmt.Sprintf("%x", info.UID[:]),
		},
		Parameters: out,
	}, nil
}

// Discover walks dirs recursively looking for VST3 bundles (directories
// ending in ".vst3", or bare files with that extension) and runs
// scannerExe as a subprocess against each one, per §6.4: "scanner
// failures are reported but do not abort the scan." It returns every
// successful Result plus a separate slice of per-bundle errors.
func Discover(dirs []string, scannerExe string) ([]Result, []error) {
	var bundles []string
	for _, dir := range dirs {
		bundles = append(bundles, findBundles(dir)...)
	}

	var results []Result
	var errs []error
	for _, bundle := range bundles {
		res, err := runScanner(scannerExe, bundle)
		if err != nil {
			errs = append(errs, fmt.Errorf("discover: %s: %w", bundle, err))
			continue
		}
		results = append(results, *res)
	}
	return results, errs
}

func findBundles(root string) []string {
	var found []string
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries don't abort the walk
		}
		if d.IsDir() && strings.HasSuffix(path, ".vst3") {
			found = append(found, path)
			return filepath.SkipDir // bundle directories aren't recursed into
		}
		if !d.IsDir() && strings.HasSuffix(path, ".vst3") {
			found = append(found, path)
		}
		return nil
	})
	return found
}

func runScanner(scannerExe, bundlePath string) (*Result, error) {
	cmd := exec.Command(scannerExe, bundlePath)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("run scanner: %w", err)
	}
	var res Result
	if err := json.Unmarshal(stdout.Bytes(), &res); err != nil {
		return nil, fmt.Errorf("parse scanner output: %w", err)
	}
	if res.Error != "" {
		return nil, fmt.Errorf("scanner reported: %s", res.Error)
	}
	return &res, nil
}

// Command guvcalc summarizes a room file without the HTTP service.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"Illuminate/internal/calc/results"
	"Illuminate/internal/calc/safety"
	"Illuminate/internal/logger"
	"Illuminate/internal/refdata"
	"Illuminate/internal/room"

	"go.uber.org/zap"
)

func main() {
	roomPath := flag.String("room", "-", "room JSON file, - for stdin")
	refdataDir := flag.String("refdata", os.Getenv("REFDATA_DIR"), "directory with reference CSVs (embedded tables when empty)")
	raw := flag.Bool("raw", false, "print unrounded values")
	level := flag.String("log-level", "warn", "log level")
	flag.Parse()

	zl, err := logger.NewLogger(*level, "console", "guvcalc")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer zl.Sync()

	if err := run(os.Stdout, *roomPath, *refdataDir, !*raw, zl); err != nil {
		zl.Error("summary failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(out io.Writer, roomPath, refdataDir string, rounded bool, zl *zap.Logger) error {
	data, err := readRoom(roomPath)
	if err != nil {
		return err
	}
	rm, err := room.Decode(data)
	if err != nil {
		return err
	}
	tables, err := refdata.Load(refdataDir)
	if err != nil {
		return err
	}
	sum, err := results.Summarize(safety.NewEngine(tables), rm, rounded)
	if err != nil {
		return err
	}
	if sum.Photobiological != nil {
		safety.LogWarnings(zl, nil, sum.Photobiological.Weighted.Warnings)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(sum)
}

func readRoom(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

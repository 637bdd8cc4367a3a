// bench-parse measures parse and render throughput and heap memory while
// round-tripping every Python file under a source tree.
//
// Usage:
//
//	go run ./scripts/bench-parse --src ~/sources/cpython/Lib --batch 500 \
//	  --profile-dir docs/profiles/parse
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast"
	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
)

type heapSnapshot struct {
	label     string
	heapInUse uint64
	heapSys   uint64
	numGC     uint32
}

type totals struct {
	files    int
	bytes    int
	failed   int
	changed  int
	parse    time.Duration
	render   time.Duration
	failures []string
}

func main() {
	srcDir := flag.String("src", "", "Directory with Python sources")
	batchSize := flag.Int("batch", 500, "Files per batch between heap snapshots")
	profileDir := flag.String("profile-dir", "", "Directory to write heap profiles")
	cpuProfile := flag.Bool("cpu-profile", false, "Write CPU profile to profile-dir/cpu.prof")

	flag.Parse()

	if *srcDir == "" {
		log.Fatal("--src is required")
	}

	if *profileDir != "" {
		if err := os.MkdirAll(*profileDir, 0o755); err != nil {
			log.Fatalf("mkdir profile-dir: %v", err)
		}
	}

	if *cpuProfile {
		if *profileDir == "" {
			log.Fatal("--cpu-profile needs --profile-dir")
		}

		cpuPath := filepath.Join(*profileDir, "cpu.prof")

		cpuFile, cpuErr := os.Create(cpuPath)
		if cpuErr != nil {
			log.Fatalf("create cpu profile: %v", cpuErr)
		}
		defer cpuFile.Close()

		if startErr := pprof.StartCPUProfile(cpuFile); startErr != nil {
			log.Fatalf("start cpu profile: %v", startErr)
		}
		defer pprof.StopCPUProfile()

		log.Printf("CPU profiling enabled -> %s", cpuPath)
	}

	files, err := collectSources(*srcDir)
	if err != nil {
		log.Fatalf("walk %s: %v", *srcDir, err)
	}

	log.Printf("found %d Python files", len(files))

	var snapshots []heapSnapshot

	takeSnapshot := func(label string) {
		runtime.GC()
		runtime.GC()

		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		snapshots = append(snapshots, heapSnapshot{label: label, heapInUse: m.HeapInuse, heapSys: m.HeapSys, numGC: m.NumGC})

		log.Printf("  [heap] %-30s inuse=%6.1f MB  sys=%6.1f MB",
			label, float64(m.HeapInuse)/1e6, float64(m.HeapSys)/1e6)
	}

	writeHeapProfile := func(name string) {
		if *profileDir == "" {
			return
		}

		runtime.GC()

		path := filepath.Join(*profileDir, name)

		f, ferr := os.Create(path)
		if ferr != nil {
			log.Printf("warning: create heap profile %s: %v", path, ferr)

			return
		}
		defer f.Close()

		if perr := pprof.WriteHeapProfile(f); perr != nil {
			log.Printf("warning: write heap profile %s: %v", path, perr)
		}
	}

	parser := pyast.NewParser()
	ctx := context.Background()

	var sum totals

	takeSnapshot("before")
	writeHeapProfile("heap_before.prof")

	for start := 0; start < len(files); start += *batchSize {
		end := min(start+*batchSize, len(files))

		for _, file := range files[start:end] {
			benchFile(ctx, parser, file, &sum)
		}

		takeSnapshot(fmt.Sprintf("batch_%d_%d", start, end))
	}

	takeSnapshot("after")
	writeHeapProfile("heap_after.prof")

	fmt.Println()
	fmt.Println("=== Heap Memory Timeline ===")
	fmt.Printf("%-30s %10s %10s %6s\n", "Phase", "InUse(MB)", "Sys(MB)", "GCs")

	for _, s := range snapshots {
		fmt.Printf("%-30s %10.1f %10.1f %6d\n", s.label, float64(s.heapInUse)/1e6, float64(s.heapSys)/1e6, s.numGC)
	}

	fmt.Println()
	fmt.Println("=== Throughput ===")
	fmt.Printf("files:    %d (%d failed, %d not a fixpoint)\n", sum.files, sum.failed, sum.changed)
	fmt.Printf("bytes:    %d\n", sum.bytes)
	fmt.Printf("parse:    %v (%.1f MB/s)\n", sum.parse, mbPerSecond(sum.bytes, sum.parse))
	fmt.Printf("render:   %v\n", sum.render)

	if len(sum.failures) > 0 {
		fmt.Println()
		fmt.Println("=== Failures ===")
		fmt.Println(strings.Join(sum.failures, "\n"))
	}
}

func collectSources(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !entry.IsDir() && strings.HasSuffix(path, ".py") {
			files = append(files, path)
		}

		return nil
	})

	return files, err
}

func benchFile(ctx context.Context, parser *pyast.Parser, path string, sum *totals) {
	src, err := os.ReadFile(path)
	if err != nil {
		log.Printf("warning: read %s: %v", path, err)

		return
	}

	sum.files++
	sum.bytes += len(src)

	parseStart := time.Now()
	module, err := parser.Parse(ctx, src)
	sum.parse += time.Since(parseStart)

	if err != nil {
		sum.failed++
		sum.failures = append(sum.failures, fmt.Sprintf("%s: %v", path, err))

		return
	}

	renderStart := time.Now()
	_, err = node.Render(node.FinalizeNode(module))
	sum.render += time.Since(renderStart)

	if err != nil {
		sum.failed++
		sum.failures = append(sum.failures, fmt.Sprintf("%s: %v", path, err))

		return
	}

	rt, err := pyast.CheckRoundTrip(ctx, parser, src, node.DefaultRenderOptions())
	if err == nil && !rt.OK() {
		sum.changed++
		sum.failures = append(sum.failures, path+": not a fixpoint")
	}
}

func mbPerSecond(bytes int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}

	return float64(bytes) / 1e6 / elapsed.Seconds()
}

// Package batch runs a conversion function over every matching file in
// a directory concurrently, bounded to the host's CPU count. This is a
// supplemental feature: single-file conversion semantics and results
// are unaffected by whether a file goes through Run or is converted on
// its own.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ConvertFunc converts one source file into a destination file,
// returning a short human-readable summary line on success.
type ConvertFunc func(path string) (summary string, err error)

// Result pairs a source path with the outcome of converting it.
type Result struct {
	Path    string
	Summary string
	Err     error
}

// Run globs pattern under dir, converts every match concurrently using
// convert, and returns one Result per match in deterministic
// (lexical) path order regardless of completion order. Concurrency is
// capped at runtime.NumCPU() in-flight conversions.
func Run(dir, pattern string, convert ConvertFunc) ([]Result, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("batch: glob %s: %w", pattern, err)
	}
	sort.Strings(matches)

	results := make([]Result, len(matches))
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())

	for i, path := range matches {
		i, path := i, path
		g.Go(func() error {
			summary, convErr := convert(path)
			mu.Lock()
			results[i] = Result{Path: path, Summary: summary, Err: convErr}
			mu.Unlock()
			return nil
		})
	}
	// errgroup.Group.Go's returned error is always nil above: a single
	// file's failure is recorded per-Result, not escalated, so one bad
	// input in a batch never aborts the rest.
	_ = g.Wait()

	return results, nil
}

// PrintSummary writes one line per result to w-equivalent stderr/stdout
// convention used by the CLI front ends: failures go to stderr with a
// non-zero marker, successes to stdout.
func PrintSummary(results []Result) (failures int) {
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: FAILED: %v\n", r.Path, r.Err)
			failures++
			continue
		}
		fmt.Fprintf(os.Stdout, "%s: %s\n", r.Path, r.Summary)
	}
	return failures
}

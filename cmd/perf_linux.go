//go:build linux

package cmd

import (
	"fmt"

	perf "github.com/hodgesds/perf-utils"
)

// runWithPerf wraps f with a hardware instruction counter.
func runWithPerf(f func() error) error {
	var ferr error
	pv, err := perf.CPUInstructions(func() error {
		ferr = f()
		return ferr
	})
	if ferr != nil {
		return ferr
	}
	if err != nil {
		return err
	}
	fmt.Printf("CPU instructions retired: %d\n", pv.Value)
	return nil
}

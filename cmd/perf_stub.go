//go:build !linux

package cmd

import "fmt"

func runWithPerf(f func() error) error {
	fmt.Println("perf counters are only available on linux, running without them")
	return f()
}

package health

import (
	"context"
	"fmt"
	"runtime"
)

// GoroutineCountCheck fails when the process runs more goroutines than
// threshold, a cheap proxy for leaks.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(context.Context) error {
		if n := runtime.NumGoroutine(); n > threshold {
			return fmt.Errorf("too many goroutines: %d > %d", n, threshold)
		}
		return nil
	}
}

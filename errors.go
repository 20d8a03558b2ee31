package physics2d

import "fmt"

// assertf panics with a formatted message when cond is false. It is
// reserved for programmer errors that should never happen at runtime
// (stage index overflow, non-monotonic sync index, worker index out of
// range, overlap-array counts disagreeing with the event bitset); no code
// in this package calls it, so none of those conditions is checked. A
// panic here means an invariant was violated, not that the solver hit a
// recoverable runtime condition.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}

// Package async provides small coordination primitives for goroutines that
// must signal completion to a waiting caller.
//
// # Core Types
//
// Latch is a countdown completion signal. It is created with the number of
// units of work to wait for; each finished unit calls CountDown, and the latch
// completes when the count reaches zero. Waiters either block (Await) or block
// with a timeout (AwaitWithTimeout).
//
// # Usage
//
//	latch := async.NewLatch(len(jobs))
//
//	for _, job := range jobs {
//		queue <- func() {
//			defer latch.CountDown()
//			job.Run()
//		}
//	}
//
//	// Wait for every job scheduled above, and only those.
//	latch.Await()
//
// A latch created with a count of zero or less is complete immediately.
//
// Using timeout:
//
//	if err := latch.AwaitWithTimeout(time.Second); errors.Is(err, async.ErrTimeout) {
//		log.Println("jobs still running")
//	}
//
// # Error Handling
//
// The package defines one error:
//   - ErrTimeout: returned when AwaitWithTimeout exceeds its duration
//
// # Concurrency Safety
//
// All operations are safe for concurrent use. Extra CountDown calls after the
// latch has completed are ignored.
package async

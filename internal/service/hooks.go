package service

import (
	"log"
	"sync"
	"time"
)

// Hook is a pre/post callback pair invoked around facade operations. Hooks
// compose: Before callbacks run in registration order, After callbacks in
// reverse, wrapping the operation like middleware.
type Hook struct {
	Before func(op string)
	After  func(op string, err error)
}

// LoggingHook announces each operation and its outcome on the given logger.
func LoggingHook(logger *log.Logger) Hook {
	return Hook{
		Before: func(op string) {
			logger.Printf("starting %s", op)
		},
		After: func(op string, err error) {
			if err != nil {
				logger.Printf("%s failed: %v", op, err)
				return
			}
			logger.Printf("%s done", op)
		},
	}
}

// TimingHook logs the wall-clock duration of each operation. Durations are
// tracked per operation name, so two concurrent calls to the same operation
// share a start mark; good enough for coarse timing.
func TimingHook(logger *log.Logger) Hook {
	var mu sync.Mutex
	starts := make(map[string]time.Time)
	return Hook{
		Before: func(op string) {
			mu.Lock()
			starts[op] = time.Now()
			mu.Unlock()
		},
		After: func(op string, err error) {
			mu.Lock()
			t, ok := starts[op]
			delete(starts, op)
			mu.Unlock()
			if ok {
				logger.Printf("%s took %s", op, time.Since(t))
			}
		},
	}
}

// around runs fn wrapped by the service's hook chain.
func (s *Service) around(op string, fn func() error) error {
	for _, h := range s.hooks {
		if h.Before != nil {
			h.Before(op)
		}
	}
	err := fn()
	for i := len(s.hooks) - 1; i >= 0; i-- {
		if s.hooks[i].After != nil {
			s.hooks[i].After(op, err)
		}
	}
	return err
}

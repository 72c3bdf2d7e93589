package engine

import (
	"sync"
	"time"
)

// RepeatingTask runs a callback on a fixed interval until stopped
type RepeatingTask struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartRepeating calls fn every interval on its own goroutine
func StartRepeating(interval time.Duration, fn func()) *RepeatingTask {
	t := &RepeatingTask{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go t.run(interval, fn)
	return t
}

func (t *RepeatingTask) run(interval time.Duration, fn func()) {
	defer close(t.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			// stop wins over a tick that became ready at the same time
			select {
			case <-t.stop:
				return
			default:
			}
			fn()
		}
	}
}

// Stop cancels the task. It never blocks, may be called any number of
// times, and is safe to call from inside fn.
func (t *RepeatingTask) Stop() {
	t.once.Do(func() {
		close(t.stop)
	})
}

// Stopped reports whether Stop has been called
func (t *RepeatingTask) Stopped() bool {
	select {
	case <-t.stop:
		return true
	default:
		return false
	}
}

// Done is closed once the task goroutine has exited
func (t *RepeatingTask) Done() <-chan struct{} {
	return t.done
}

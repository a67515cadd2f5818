// TimerManager schedules the periodic maintenance work a channel's owning
// goroutine needs done on a cadence of its choice -- chiefly, calling
// fragment.Receiver.Cleanup at a steady interval. Timers are tracked by a
// caller-chosen key so they can be individually cancelled or replaced.
package transport

import (
	"sync"
	"time"
)

// TimerKey names a scheduled or periodic timer.
type TimerKey string

// Callback runs when a timer fires.
type Callback func()

type timer struct {
	stop chan struct{}
}

// TimerManager runs periodic callbacks on their own goroutines, tracked
// so they can be cancelled individually or all at once on Stop.
type TimerManager struct {
	mu       sync.Mutex
	periodic map[TimerKey]*timer
	stopAll  chan struct{}
	wg       sync.WaitGroup
}

// NewTimerManager constructs a ready-to-use manager.
func NewTimerManager() *TimerManager {
	return &TimerManager{
		periodic: make(map[TimerKey]*timer),
		stopAll:  make(chan struct{}),
	}
}

// SchedulePeriodic runs callback every interval until StopTimer(id) or
// Stop is called. Re-scheduling the same id replaces the previous timer.
func (tm *TimerManager) SchedulePeriodic(id TimerKey, interval time.Duration, callback Callback) {
	tm.mu.Lock()
	if existing, ok := tm.periodic[id]; ok {
		close(existing.stop)
	}
	t := &timer{stop: make(chan struct{})}
	tm.periodic[id] = t
	tm.mu.Unlock()

	tm.wg.Add(1)
	go func() {
		defer tm.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				callback()
			case <-t.stop:
				return
			case <-tm.stopAll:
				return
			}
		}
	}()
}

// StopTimer cancels a single periodic timer. Reports whether one existed.
func (tm *TimerManager) StopTimer(id TimerKey) bool {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	t, ok := tm.periodic[id]
	if !ok {
		return false
	}
	close(t.stop)
	delete(tm.periodic, id)
	return true
}

// Stop cancels every timer and waits for their goroutines to exit.
func (tm *TimerManager) Stop() {
	close(tm.stopAll)
	tm.wg.Wait()
}

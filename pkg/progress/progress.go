package progress

import (
	"sync"
	"time"
)

// Stage is one animated segment of the progress bar. The percentage
// moves linearly from Start to End over Duration, then holds at End
// until the next stage begins.
type Stage struct {
	Label    string
	Start    int
	End      int
	Duration time.Duration
}

// Snapshot is the externally visible progress state.
type Snapshot struct {
	Label   string
	Percent int
	Done    bool
}

type Options struct {
	// TickInterval is how often the animation advances. (default: 50ms)
	TickInterval time.Duration

	// CompleteDelay defers the completion callback so the bar is visible
	// at 100% for a moment. (default: 500ms)
	CompleteDelay time.Duration

	// ForceCompleteAfter completes the bar when it has been sitting at or
	// above ForceCompleteThreshold for this long. (default: 10s)
	ForceCompleteAfter time.Duration

	// ForceCompleteThreshold is the stall detection percentage. (default: 95)
	ForceCompleteThreshold int

	// OnUpdate is called after every visible change, outside the
	// controller lock.
	OnUpdate func(Snapshot)

	// OnComplete is called exactly once after the bar reaches 100%.
	OnComplete func()

	// Now overrides the clock. Used in tests.
	Now func() time.Time
}

// Controller animates a simulated progress bar through scripted stages.
// At most one stage animates at a time; beginning a new stage stops the
// previous animation.
type Controller struct {
	opts Options

	mu        sync.Mutex
	snapshot  Snapshot
	highSince time.Time
	completed bool
	closed    bool

	stopAnim      chan struct{}
	completeTimer *time.Timer
	closeCh       chan struct{}
	wg            sync.WaitGroup
}

func New(options ...Options) *Controller {
	var opts Options
	if len(options) > 0 {
		opts = options[0]
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = 50 * time.Millisecond
	}
	if opts.CompleteDelay <= 0 {
		opts.CompleteDelay = 500 * time.Millisecond
	}
	if opts.ForceCompleteAfter <= 0 {
		opts.ForceCompleteAfter = 10 * time.Second
	}
	if opts.ForceCompleteThreshold <= 0 {
		opts.ForceCompleteThreshold = 95
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	c := &Controller{
		opts:    opts,
		closeCh: make(chan struct{}),
	}
	c.wg.Add(1)
	go c.watchdog()
	return c
}

// Begin starts animating the given stage, replacing any running stage.
func (c *Controller) Begin(stage Stage) {
	c.mu.Lock()
	if c.closed || c.completed {
		c.mu.Unlock()
		return
	}
	c.stopAnimationLocked()
	stop := make(chan struct{})
	c.stopAnim = stop
	c.snapshot.Label = stage.Label
	c.setPercentLocked(stage.Start)
	snapshot := c.snapshot
	c.mu.Unlock()
	c.notify(snapshot)

	c.wg.Add(1)
	go c.animate(stage, stop)
}

func (c *Controller) animate(stage Stage, stop chan struct{}) {
	defer c.wg.Done()
	start := c.opts.Now()
	ticker := time.NewTicker(c.opts.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-c.closeCh:
			return
		case <-ticker.C:
			elapsed := c.opts.Now().Sub(start)
			percent := stage.End
			if stage.Duration > 0 && elapsed < stage.Duration {
				span := stage.End - stage.Start
				percent = stage.Start + int(float64(span)*float64(elapsed)/float64(stage.Duration))
			}
			if percent > stage.End {
				percent = stage.End
			}

			c.mu.Lock()
			// A tick can be in flight while Begin swaps the stage; only
			// the animation owning the current stop channel may write.
			if c.closed || c.completed || c.stopAnim != stop {
				c.mu.Unlock()
				return
			}
			changed := percent != c.snapshot.Percent
			c.setPercentLocked(percent)
			snapshot := c.snapshot
			c.mu.Unlock()
			if changed {
				c.notify(snapshot)
			}
			if percent >= stage.End {
				return
			}
		}
	}
}

// Finish completes the bar at 100% and schedules the completion
// callback. Subsequent calls are no-ops.
func (c *Controller) Finish() {
	c.mu.Lock()
	if c.closed || c.completed {
		c.mu.Unlock()
		return
	}
	c.completed = true
	c.stopAnimationLocked()
	c.setPercentLocked(100)
	c.snapshot.Done = true
	snapshot := c.snapshot
	if c.opts.OnComplete != nil {
		c.completeTimer = time.AfterFunc(c.opts.CompleteDelay, c.opts.OnComplete)
	}
	c.mu.Unlock()
	c.notify(snapshot)
}

// Snapshot returns the current progress state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// Close stops all animations, the stall watchdog and any pending
// completion callback.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopAnimationLocked()
	if c.completeTimer != nil {
		c.completeTimer.Stop()
		c.completeTimer = nil
	}
	close(c.closeCh)
	c.mu.Unlock()
	c.wg.Wait()
}

// watchdog force-completes a bar stuck near the end, so a slow
// confirmation never leaves the user at 95% forever.
func (c *Controller) watchdog() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.opts.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.closeCh:
			return
		case <-ticker.C:
			c.mu.Lock()
			stuck := !c.completed && !c.highSince.IsZero() && c.opts.Now().Sub(c.highSince) >= c.opts.ForceCompleteAfter
			c.mu.Unlock()
			if stuck {
				c.Finish()
				return
			}
		}
	}
}

func (c *Controller) setPercentLocked(percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	c.snapshot.Percent = percent
	if percent >= c.opts.ForceCompleteThreshold {
		if c.highSince.IsZero() {
			c.highSince = c.opts.Now()
		}
	} else {
		c.highSince = time.Time{}
	}
}

func (c *Controller) stopAnimationLocked() {
	if c.stopAnim != nil {
		close(c.stopAnim)
		c.stopAnim = nil
	}
}

func (c *Controller) notify(snapshot Snapshot) {
	if c.opts.OnUpdate != nil {
		c.opts.OnUpdate(snapshot)
	}
}

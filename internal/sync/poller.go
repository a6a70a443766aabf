package sync

import (
	"context"
	"errors"
	"fmt"
	"sort"
	gosync "sync"
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/juju/loggo"
	"golang.org/x/sync/errgroup"

	"github.com/nhle/venuedesk/internal/model"
	"github.com/nhle/venuedesk/internal/readstate"
	"github.com/nhle/venuedesk/internal/source"
	"github.com/nhle/venuedesk/internal/synth"
)

var logger = loggo.GetLogger("venuedesk.sync")

const (
	// DefaultInterval is the period between scheduled passes.
	DefaultInterval = 5 * time.Minute

	// DefaultFetchTimeout is the maximum time allowed for a single fetch.
	DefaultFetchTimeout = 30 * time.Second
)

// Config holds the collaborators and timings of a Poller.
type Config struct {
	Backend   source.Backend
	ReadState *readstate.Set
	Windows   synth.Windows

	// Interval defaults to DefaultInterval.
	Interval time.Duration

	// FetchTimeout defaults to DefaultFetchTimeout.
	FetchTimeout time.Duration

	// Clock defaults to the wall clock.
	Clock clock.Clock
}

// Validate checks that the required collaborators are set.
func (c Config) Validate() error {
	if c.Backend == nil {
		return errors.New("missing backend")
	}
	if c.ReadState == nil {
		return errors.New("missing read-state")
	}
	return nil
}

// Poller runs notification passes over the backend: fetch every source,
// synthesize drafts, overlay read-state, sort, publish. One Poller is
// created per session and driven explicitly with Start and Stop.
type Poller struct {
	backend      source.Backend
	readState    *readstate.Set
	windows      synth.Windows
	interval     time.Duration
	fetchTimeout time.Duration
	clock        clock.Clock

	mu       gosync.Mutex
	snapshot model.Snapshot
	subs     map[int]func(model.Snapshot)
	nextSub  int
	inFlight int
	running  bool
	stopped  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New creates a Poller. It does not start polling.
func New(cfg Config) (*Poller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.WallClock
	}

	return &Poller{
		backend:      cfg.Backend,
		readState:    cfg.ReadState,
		windows:      cfg.Windows,
		interval:     cfg.Interval,
		fetchTimeout: cfg.FetchTimeout,
		clock:        cfg.Clock,
		snapshot:     model.Snapshot{Notifications: []model.Notification{}},
		subs:         make(map[int]func(model.Snapshot)),
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}, nil
}

// Start runs a pass immediately and then one every interval until Stop.
// Calling Start more than once, or after Stop, does nothing.
func (p *Poller) Start() {
	p.mu.Lock()
	if p.running || p.stopped {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.mu.Unlock()

	go p.loop()
}

// Stop clears the timer and waits for the scheduling loop to exit. A pass
// still waiting on the backend completes in the background and its result
// is discarded. Stop is safe to call more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	wasRunning := p.running
	p.running = false
	p.inFlight = 0
	p.snapshot.Loading = false
	close(p.stopCh)
	p.mu.Unlock()

	if wasRunning {
		<-p.doneCh
	}
}

// loop is the scheduling goroutine. Timer-driven passes never overlap each
// other; the timer is re-armed only after the previous pass settles.
func (p *Poller) loop() {
	defer close(p.doneCh)

	if !p.scheduledPass() {
		return
	}

	timer := p.clock.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-timer.Chan():
			if !p.scheduledPass() {
				return
			}
			timer.Reset(p.interval)
		}
	}
}

// scheduledPass runs one pass in its own goroutine and waits for it or for
// Stop, whichever comes first. It returns false if the poller was stopped.
func (p *Poller) scheduledPass() bool {
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.pass(context.Background())
	}()

	select {
	case <-done:
		return true
	case <-p.stopCh:
		return false
	}
}

// Refresh runs a pass on demand and returns the snapshot it published. It
// may run concurrently with a scheduled pass; the last to finish wins.
func (p *Poller) Refresh(ctx context.Context) model.Snapshot {
	return p.pass(ctx)
}

// Snapshot returns the most recently published snapshot.
func (p *Poller) Snapshot() model.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

// Subscribe registers fn to receive every published snapshot, starting with
// the current one. fn is called from the publishing goroutine and must not
// block or mutate the snapshot. The returned function unsubscribes.
func (p *Poller) Subscribe(fn func(model.Snapshot)) (unsubscribe func()) {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	current := p.snapshot
	p.mu.Unlock()

	fn(current)

	var once gosync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			p.mu.Unlock()
		})
	}
}

// MarkAsRead acknowledges one notification and republishes the snapshot
// with the updated read flags.
func (p *Poller) MarkAsRead(ctx context.Context, id string) error {
	if err := p.readState.MarkRead(ctx, id); err != nil {
		return err
	}
	p.reannotate()
	return nil
}

// MarkAllAsRead acknowledges every notification in the current snapshot.
func (p *Poller) MarkAllAsRead(ctx context.Context) error {
	current := p.Snapshot()
	ids := make([]string, len(current.Notifications))
	for i, n := range current.Notifications {
		ids[i] = n.ID
	}
	if err := p.readState.MarkAllRead(ctx, ids); err != nil {
		return err
	}
	p.reannotate()
	return nil
}

// pass performs one full fetch, synthesize, merge and publish cycle. All
// time-window rules see the same instant.
func (p *Poller) pass(ctx context.Context) model.Snapshot {
	passID := uuid.NewString()
	now := p.clock.Now()

	p.beginPass()
	logger.Debugf("pass %s started", passID)

	drafts, statuses := p.collect(ctx, passID, now)
	sort.SliceStable(drafts, func(i, j int) bool {
		return drafts[i].CreatedAt.After(drafts[j].CreatedAt)
	})

	snap := p.endPass(model.Snapshot{
		Notifications: drafts,
		PassID:        passID,
		RefreshedAt:   now,
		Sources:       statuses,
	})
	logger.Debugf("pass %s finished: %d notifications, %d unread",
		passID, len(snap.Notifications), snap.UnreadCount)
	return snap
}

// fetchJob fetches one source and synthesizes its drafts.
type fetchJob struct {
	kind source.Kind
	run  func(ctx context.Context, now time.Time) ([]model.Notification, int, error)
}

func (p *Poller) jobs() []fetchJob {
	b, w := p.backend, p.windows
	return []fetchJob{
		{source.KindEvents, func(ctx context.Context, now time.Time) ([]model.Notification, int, error) {
			events, err := b.ListEvents(ctx)
			return synth.Events(events, now, w), len(events), err
		}},
		{source.KindIntakeForms, func(ctx context.Context, now time.Time) ([]model.Notification, int, error) {
			forms, err := b.ListIntakeForms(ctx)
			return synth.IntakeForms(forms, now, w), len(forms), err
		}},
		{source.KindInvoices, func(ctx context.Context, now time.Time) ([]model.Notification, int, error) {
			invoices, err := b.ListInvoices(ctx)
			return synth.Invoices(invoices, now, w), len(invoices), err
		}},
		{source.KindContracts, func(ctx context.Context, now time.Time) ([]model.Notification, int, error) {
			contracts, err := b.ListContracts(ctx)
			return synth.Contracts(contracts, now, w), len(contracts), err
		}},
		{source.KindBookings, func(ctx context.Context, now time.Time) ([]model.Notification, int, error) {
			bookings, err := b.ListBookings(ctx)
			return synth.Bookings(bookings, now, w), len(bookings), err
		}},
	}
}

// collect fetches every source concurrently and waits for all of them. A
// failed fetch is logged and contributes nothing; it never fails the pass.
func (p *Poller) collect(
	ctx context.Context,
	passID string,
	now time.Time,
) ([]model.Notification, []model.SourceStatus) {
	jobs := p.jobs()
	results := make([][]model.Notification, len(jobs))
	statuses := make([]model.SourceStatus, len(jobs))

	var g errgroup.Group
	for i, job := range jobs {
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
			defer cancel()

			drafts, records, err := p.runJob(fetchCtx, job, now)
			status := model.SourceStatus{
				Source:    string(job.kind),
				CheckedAt: now,
			}
			if err != nil {
				logger.Warningf("pass %s: fetching %s: %v", passID, job.kind, err)
				status.Error = err.Error()
				statuses[i] = status
				return nil
			}
			status.OK = true
			status.Records = records
			statuses[i] = status
			results[i] = drafts
			return nil
		})
	}
	_ = g.Wait()

	var drafts []model.Notification
	for _, r := range results {
		drafts = append(drafts, r...)
	}
	if drafts == nil {
		drafts = []model.Notification{}
	}
	return drafts, statuses
}

// runJob isolates a source so that a panicking adapter is treated like a
// failed fetch.
func (p *Poller) runJob(
	ctx context.Context,
	job fetchJob,
	now time.Time,
) (drafts []model.Notification, records int, err error) {
	defer func() {
		if r := recover(); r != nil {
			drafts, records = nil, 0
			err = fmt.Errorf("%s panicked: %v", job.kind, r)
		}
	}()

	drafts, records, err = job.run(ctx, now)
	if err != nil {
		return nil, 0, err
	}
	return drafts, records, nil
}

// beginPass marks a pass in flight and publishes the loading state.
func (p *Poller) beginPass() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.inFlight++
	snap := p.snapshot
	snap.Loading = true
	p.snapshot = snap
	subs := p.subscribersLocked()
	p.mu.Unlock()

	notify(subs, snap)
}

// endPass overlays read-state onto snap and publishes it unless the poller
// has been stopped. The overlay happens under the lock so an acknowledgement
// made while the pass was running is not lost.
func (p *Poller) endPass(snap model.Snapshot) model.Snapshot {
	p.mu.Lock()
	for i := range snap.Notifications {
		snap.Notifications[i].Read = p.readState.IsRead(snap.Notifications[i].ID)
	}
	snap.UnreadCount = model.CountUnread(snap.Notifications)
	if p.stopped {
		p.mu.Unlock()
		return snap
	}
	if p.inFlight > 0 {
		p.inFlight--
	}
	snap.Loading = p.inFlight > 0
	p.snapshot = snap
	subs := p.subscribersLocked()
	p.mu.Unlock()

	notify(subs, snap)
	return snap
}

// reannotate re-reads the read flags of the current snapshot and
// republishes it.
func (p *Poller) reannotate() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	snap := p.snapshot
	ns := make([]model.Notification, len(snap.Notifications))
	for i, n := range snap.Notifications {
		n.Read = p.readState.IsRead(n.ID)
		ns[i] = n
	}
	snap.Notifications = ns
	snap.UnreadCount = model.CountUnread(ns)
	p.snapshot = snap
	subs := p.subscribersLocked()
	p.mu.Unlock()

	notify(subs, snap)
}

func (p *Poller) subscribersLocked() []func(model.Snapshot) {
	subs := make([]func(model.Snapshot), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(model.Snapshot), snap model.Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}

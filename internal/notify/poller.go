package notify

import (
	"context"
	"sync"
	"time"

	"marketplace-client/internal/api"
	"marketplace-client/pkg/logger"
)

// DefaultInterval matches the refresh cadence the notification bell uses.
const DefaultInterval = 10 * time.Second

// feed is the slice of the API client the poller needs.
type feed interface {
	Notifications(ctx context.Context) ([]api.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) error
}

// Snapshot is a point-in-time view of the filtered notification list.
type Snapshot struct {
	Items  []api.Notification
	Unread int
}

// Poller keeps a role-filtered notification list fresh. The role is fixed at
// construction; callers that only know a route path can derive it with
// rbac.RoleFromPath first. The server list is the source of truth: every
// refresh replaces local state wholesale, so an acknowledgement that failed
// to stick server-side resurfaces on the next poll.
type Poller struct {
	feed     feed
	role     string
	interval time.Duration

	// OnUpdate, when set, is called after every successful refresh with the
	// new snapshot. Called from the polling goroutine.
	OnUpdate func(Snapshot)

	mu     sync.Mutex
	items  []api.Notification
	unread int
}

// NewPoller builds a poller for the given audience role. A non-positive
// interval falls back to DefaultInterval; an unknown role is kept as-is and
// simply matches nothing.
func NewPoller(f feed, role string, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{feed: f, role: role, interval: interval}
}

// Role reports the audience this poller filters for.
func (p *Poller) Role() string { return p.role }

// Refresh fetches the notification list once and replaces local state with
// the entries targeting this poller's role.
func (p *Poller) Refresh(ctx context.Context) error {
	all, err := p.feed.Notifications(ctx)
	if err != nil {
		return err
	}

	filtered := make([]api.Notification, 0, len(all))
	unread := 0
	for _, n := range all {
		if n.TargetRole != p.role {
			continue
		}
		filtered = append(filtered, n)
		if !n.IsRead {
			unread++
		}
	}

	p.mu.Lock()
	p.items = filtered
	p.unread = unread
	p.mu.Unlock()

	if p.OnUpdate != nil {
		p.OnUpdate(Snapshot{Items: filtered, Unread: unread})
	}
	return nil
}

// Run refreshes immediately and then on every interval tick until ctx is
// cancelled. Fetch failures are logged and the loop keeps going.
func (p *Poller) Run(ctx context.Context) {
	log := logger.From(ctx)
	if err := p.Refresh(ctx); err != nil && ctx.Err() == nil {
		log.Warn("notification refresh failed", "role", p.role, "err", err)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Refresh(ctx); err != nil && ctx.Err() == nil {
				log.Warn("notification refresh failed", "role", p.role, "err", err)
			}
		}
	}
}

// Current returns a copy of the filtered list and the unread count.
func (p *Poller) Current() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	items := make([]api.Notification, len(p.items))
	copy(items, p.items)
	return Snapshot{Items: items, Unread: p.unread}
}

// Acknowledge marks one notification read, locally first and then on the
// server, and returns its link target ("" when the notification carries
// none or is unknown). An already-read notification just returns its link;
// no server call is made. The local mark is not rolled back when the server
// call fails; the next refresh re-syncs from the server list.
func (p *Poller) Acknowledge(ctx context.Context, id int64) string {
	link := ""
	wasUnread := false

	p.mu.Lock()
	for i := range p.items {
		if p.items[i].ID != id {
			continue
		}
		link = p.items[i].Link
		if !p.items[i].IsRead {
			wasUnread = true
			p.items[i].IsRead = true
			p.unread--
		}
		break
	}
	p.mu.Unlock()

	if !wasUnread {
		return link
	}
	if err := p.feed.MarkNotificationRead(ctx, id); err != nil {
		logger.From(ctx).Warn("notification ack failed", "id", id, "err", err)
	}
	return link
}

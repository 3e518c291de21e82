package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"marketplace-client/internal/api"
	"marketplace-client/internal/rbac"
)

type fakeFeed struct {
	mu      sync.Mutex
	items   []api.Notification
	listErr error
	markErr error

	fetches int
	marked  []int64
}

func (f *fakeFeed) Notifications(ctx context.Context) ([]api.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]api.Notification, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeFeed) MarkNotificationRead(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marked = append(f.marked, id)
	return f.markErr
}

func (f *fakeFeed) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func (f *fakeFeed) markedIDs() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int64, len(f.marked))
	copy(out, f.marked)
	return out
}

func threeNotifications() []api.Notification {
	return []api.Notification{
		{ID: 1, Message: "order shipped", TargetRole: rbac.RoleCustomer, IsRead: false, Link: "/order/7"},
		{ID: 2, Message: "new order", TargetRole: rbac.RoleSeller, IsRead: false},
		{ID: 3, Message: "welcome", TargetRole: rbac.RoleCustomer, IsRead: true},
	}
}

func TestPoller_FiltersByRole(t *testing.T) {
	feed := &fakeFeed{items: threeNotifications()}
	p := NewPoller(feed, rbac.RoleCustomer, time.Minute)

	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	snap := p.Current()
	if len(snap.Items) != 2 {
		t.Fatalf("expected 2 customer notifications, got %d", len(snap.Items))
	}
	if snap.Items[0].ID != 1 || snap.Items[1].ID != 3 {
		t.Fatalf("unexpected ids: %+v", snap.Items)
	}
	if snap.Unread != 1 {
		t.Fatalf("unread = %d, want 1", snap.Unread)
	}
}

func TestPoller_AcknowledgePatchesExactlyOnce(t *testing.T) {
	feed := &fakeFeed{items: threeNotifications()}
	p := NewPoller(feed, rbac.RoleCustomer, time.Minute)
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	link := p.Acknowledge(context.Background(), 1)
	if link != "/order/7" {
		t.Fatalf("link = %q, want /order/7", link)
	}
	if ids := feed.markedIDs(); len(ids) != 1 || ids[0] != 1 {
		t.Fatalf("marked ids = %v, want [1]", ids)
	}
	if snap := p.Current(); snap.Unread != 0 || !snap.Items[0].IsRead {
		t.Fatalf("local state not updated: %+v", snap)
	}
}

func TestPoller_AcknowledgeAlreadyReadSkipsServerCall(t *testing.T) {
	feed := &fakeFeed{items: threeNotifications()}
	p := NewPoller(feed, rbac.RoleCustomer, time.Minute)
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	// Notification 3 arrives already read.
	if link := p.Acknowledge(context.Background(), 3); link != "" {
		t.Fatalf("link = %q, want empty", link)
	}
	if ids := feed.markedIDs(); len(ids) != 0 {
		t.Fatalf("already-read ack must not call the server, got %v", ids)
	}

	// A second ack of a just-read notification is also local-only, but still
	// hands back the link.
	p.Acknowledge(context.Background(), 1)
	if link := p.Acknowledge(context.Background(), 1); link != "/order/7" {
		t.Fatalf("repeat ack link = %q, want /order/7", link)
	}
	if ids := feed.markedIDs(); len(ids) != 1 || ids[0] != 1 {
		t.Fatalf("marked ids = %v, want [1]", ids)
	}
}

func TestPoller_AcknowledgeUnknownIDIsNoop(t *testing.T) {
	feed := &fakeFeed{items: threeNotifications()}
	p := NewPoller(feed, rbac.RoleCustomer, time.Minute)
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if link := p.Acknowledge(context.Background(), 99); link != "" {
		t.Fatalf("expected empty link for unknown id, got %q", link)
	}
	if ids := feed.markedIDs(); len(ids) != 0 {
		t.Fatalf("unexpected server calls: %v", ids)
	}
}

func TestPoller_AckFailureKeepsLocalMark(t *testing.T) {
	feed := &fakeFeed{items: threeNotifications(), markErr: errors.New("503")}
	p := NewPoller(feed, rbac.RoleCustomer, time.Minute)
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	p.Acknowledge(context.Background(), 1)
	if snap := p.Current(); snap.Unread != 0 {
		t.Fatalf("local mark should survive a failed server call, unread = %d", snap.Unread)
	}

	// The next refresh restores the server's view.
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if snap := p.Current(); snap.Unread != 1 {
		t.Fatalf("refresh should re-sync from server, unread = %d", snap.Unread)
	}
}

func TestPoller_RefreshPropagatesListError(t *testing.T) {
	feed := &fakeFeed{listErr: errors.New("boom")}
	p := NewPoller(feed, rbac.RoleCustomer, time.Minute)
	if err := p.Refresh(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPoller_OnUpdateFires(t *testing.T) {
	feed := &fakeFeed{items: threeNotifications()}
	p := NewPoller(feed, rbac.RoleSeller, time.Minute)

	var got Snapshot
	p.OnUpdate = func(s Snapshot) { got = s }
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].ID != 2 || got.Unread != 1 {
		t.Fatalf("unexpected callback snapshot: %+v", got)
	}
}

func TestPoller_RunStopsOnCancel(t *testing.T) {
	feed := &fakeFeed{items: threeNotifications()}
	p := NewPoller(feed, rbac.RoleCustomer, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	deadline := time.After(time.Second)
	for feed.fetchCount() < 2 {
		select {
		case <-deadline:
			t.Fatalf("poller never ticked")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("run did not stop after cancel")
	}

	count := feed.fetchCount()
	time.Sleep(20 * time.Millisecond)
	if feed.fetchCount() != count {
		t.Fatalf("fetches continued after cancel")
	}
}

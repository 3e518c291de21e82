package nav

import (
	"context"
	"errors"
	"testing"

	"marketplace-client/internal/api"
	"marketplace-client/internal/auth"
)

type fakeDirectory struct {
	me         api.User
	meErr      error
	sellers    []api.Seller
	sellersErr error
}

func (f *fakeDirectory) Me(ctx context.Context) (api.User, error) { return f.me, f.meErr }
func (f *fakeDirectory) Sellers(ctx context.Context) ([]api.Seller, error) {
	return f.sellers, f.sellersErr
}

func loggedIn(userID int64, username string, staff bool) auth.Snapshot {
	return auth.Snapshot{
		State:      auth.StateAuthenticated,
		IsLoggedIn: true,
		User:       &auth.Claims{UserID: userID, Username: username, IsStaff: staff},
	}
}

func TestResolve_Anonymous(t *testing.T) {
	r := NewResolver(&fakeDirectory{})
	menu := r.Resolve(context.Background(), auth.Snapshot{State: auth.StateAnonymous})
	if menu.Branch != BranchAnonymous || menu.SellerAction != SellerActionNone || menu.ShowAdmin {
		t.Fatalf("unexpected menu: %+v", menu)
	}
}

func TestResolve_SellerBranches(t *testing.T) {
	cases := []struct {
		name       string
		sellers    []api.Seller
		wantBranch Branch
		wantAction SellerAction
	}{
		{
			name:       "not a seller",
			sellers:    []api.Seller{{ID: 9, UserID: 99, ShopName: "other"}},
			wantBranch: BranchCustomer,
			wantAction: SellerActionRegister,
		},
		{
			name:       "pending approval",
			sellers:    []api.Seller{{ID: 5, UserID: 1, ShopName: "mine", IsApproved: false}},
			wantBranch: BranchSellerPending,
			wantAction: SellerActionPending,
		},
		{
			name:       "approved",
			sellers:    []api.Seller{{ID: 5, UserID: 1, ShopName: "mine", IsApproved: true}},
			wantBranch: BranchSellerApproved,
			wantAction: SellerActionDashboard,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := &fakeDirectory{
				me:      api.User{ID: 1, Username: "alice", Email: "a@example.com"},
				sellers: tc.sellers,
			}
			menu := NewResolver(dir).Resolve(context.Background(), loggedIn(1, "alice", false))
			if menu.Branch != tc.wantBranch || menu.SellerAction != tc.wantAction {
				t.Fatalf("got %+v, want branch %q action %q", menu, tc.wantBranch, tc.wantAction)
			}
			if menu.Username != "alice" || menu.Email != "a@example.com" {
				t.Fatalf("profile fields not applied: %+v", menu)
			}
		})
	}
}

func TestResolve_AdminFlagFromProfile(t *testing.T) {
	dir := &fakeDirectory{me: api.User{ID: 1, Username: "root", IsSuperuser: true}}
	menu := NewResolver(dir).Resolve(context.Background(), loggedIn(1, "root", false))
	if !menu.ShowAdmin {
		t.Fatalf("superuser profile must expose admin entry")
	}
}

func TestResolve_ProfileFailureFallsBackToClaims(t *testing.T) {
	dir := &fakeDirectory{
		meErr:   errors.New("boom"),
		sellers: []api.Seller{},
	}
	menu := NewResolver(dir).Resolve(context.Background(), loggedIn(1, "alice", true))
	if menu.Branch != BranchCustomer {
		t.Fatalf("unexpected branch %q", menu.Branch)
	}
	if !menu.ShowAdmin {
		t.Fatalf("staff claim should keep admin entry when profile lookup fails")
	}
	if menu.Username != "alice" {
		t.Fatalf("claims username should survive, got %q", menu.Username)
	}
}

func TestResolve_SellerLookupFailureDegradesToNonSeller(t *testing.T) {
	dir := &fakeDirectory{
		me:         api.User{ID: 1, Username: "alice"},
		sellersErr: errors.New("503"),
	}
	menu := NewResolver(dir).Resolve(context.Background(), loggedIn(1, "alice", false))
	if menu.Branch != BranchCustomer || menu.SellerAction != SellerActionRegister {
		t.Fatalf("expected most restrictive branch, got %+v", menu)
	}
}

package nav

import (
	"context"

	"golang.org/x/sync/errgroup"

	"marketplace-client/internal/api"
	"marketplace-client/internal/auth"
	"marketplace-client/pkg/logger"
)

// Branch names the navigation shape derived for the current user. It is
// recomputed per call from the session snapshot plus two remote lookups and
// carries no persisted state of its own.
type Branch string

const (
	BranchAnonymous      Branch = "anonymous"
	BranchCustomer       Branch = "customer"
	BranchSellerPending  Branch = "seller_pending"
	BranchSellerApproved Branch = "seller_approved"
)

// SellerAction is what the "Seller" entry does when activated.
type SellerAction string

const (
	SellerActionNone      SellerAction = ""
	SellerActionRegister  SellerAction = "register"
	SellerActionPending   SellerAction = "pending_notice"
	SellerActionDashboard SellerAction = "dashboard"
)

// SellerDashboardPath is where an approved seller lands.
const SellerDashboardPath = "/seller/dashboard"

// Menu is the resolved navigation state.
type Menu struct {
	Branch       Branch
	SellerAction SellerAction

	// ShowAdmin exposes the admin-only entry. Cosmetic: the server enforces
	// staff permissions on every admin call regardless.
	ShowAdmin bool

	Username string
	Email    string
	ShopName string
}

// directory is the slice of the API client the resolver needs.
type directory interface {
	Me(ctx context.Context) (api.User, error)
	Sellers(ctx context.Context) ([]api.Seller, error)
}

// Resolver derives the role-gated navigation state. Lookup failures degrade
// to the most restrictive branch instead of propagating, so navigation stays
// usable when the API is unwell.
type Resolver struct {
	dir directory
}

func NewResolver(dir directory) *Resolver { return &Resolver{dir: dir} }

// Resolve computes the menu for the given session snapshot. Both remote
// lookups run concurrently; the call returns once both settle.
func (r *Resolver) Resolve(ctx context.Context, snap auth.Snapshot) Menu {
	if !snap.IsLoggedIn || snap.User == nil {
		return Menu{Branch: BranchAnonymous}
	}

	menu := Menu{
		Branch:       BranchCustomer,
		SellerAction: SellerActionRegister,
		ShowAdmin:    snap.User.IsAdminUser(),
		Username:     snap.User.Username,
	}

	var (
		user       api.User
		userErr    error
		sellers    []api.Seller
		sellersErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		user, userErr = r.dir.Me(gctx)
		return nil
	})
	g.Go(func() error {
		sellers, sellersErr = r.dir.Sellers(gctx)
		return nil
	})
	_ = g.Wait()

	log := logger.From(ctx)
	if userErr != nil {
		// Keep the token-claim view of the user; the profile is cosmetic.
		log.Warn("profile lookup failed, using token claims", "err", userErr)
	} else {
		menu.Username = user.Username
		menu.Email = user.Email
		menu.ShowAdmin = user.IsStaff || user.IsSuperuser
	}

	if sellersErr != nil {
		// Most restrictive branch: treat the user as not a seller.
		log.Warn("seller lookup failed, treating user as non-seller", "err", sellersErr)
		return menu
	}

	// The listing endpoint returns the full seller set and is filtered here
	// by user id. This assumes the set fits in one response; a paginated
	// deployment needs a dedicated "my seller status" endpoint instead.
	for _, s := range sellers {
		if s.UserID != snap.User.UserID {
			continue
		}
		menu.ShopName = s.ShopName
		if s.IsApproved {
			menu.Branch = BranchSellerApproved
			menu.SellerAction = SellerActionDashboard
		} else {
			menu.Branch = BranchSellerPending
			menu.SellerAction = SellerActionPending
		}
		return menu
	}
	return menu
}

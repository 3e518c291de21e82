package stub

import (
	"sync"
	"time"

	"marketplace-client/internal/rbac"
)

// Records held by the in-memory store. Wire names live in the handlers; these
// are plain structs so the store stays decoupled from the HTTP layer.

type user struct {
	ID          int64
	Username    string
	Email       string
	Password    string
	IsStaff     bool
	IsSuperuser bool
}

type profile struct {
	ID        int64
	UserID    int64
	Bio       string
	AvatarURL string
}

type seller struct {
	ID         int64
	UserID     int64
	ShopName   string
	Phone      string
	Address    string
	IsApproved bool
	CreatedAt  time.Time
}

type category struct {
	ID   int64
	Name string
}

type product struct {
	ID          int64
	SellerID    int64
	CategoryID  int64
	Name        string
	Description string
	PriceMinor  int64
	Currency    string
	Stock       int
	ImageURL    string
	CreatedAt   time.Time
}

type notification struct {
	ID         int64
	UserID     int64
	Message    string
	Type       string
	IsRead     bool
	Link       string
	TargetRole string
	CreatedAt  time.Time
}

type cartItem struct {
	ID        int64
	UserID    int64
	ProductID int64
	Quantity  int
}

type address struct {
	ID       int64
	UserID   int64
	FullName string
	Phone    string
	Line1    string
	City     string
	Country  string
}

type orderItem struct {
	ID          int64
	ProductID   int64
	ProductName string
	SellerID    int64
	Quantity    int
	PriceMinor  int64
}

type order struct {
	ID         int64
	UserID     int64
	AddressID  int64
	Status     string
	TotalMinor int64
	Currency   string
	Items      []orderItem
	CreatedAt  time.Time
}

// memoryStore holds the whole marketplace state behind one mutex. Good enough
// for a development fixture; contention is not a concern here.
type memoryStore struct {
	mu sync.Mutex

	users         []user
	profiles      []profile
	sellers       []seller
	categories    []category
	products      []product
	notifications []notification
	cartItems     []cartItem
	addresses     []address
	orders        []order

	// checkout idempotency key to order id
	checkoutKeys map[string]int64

	nextID int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{checkoutKeys: map[string]int64{}, nextID: 1}
}

// id hands out the next identifier. Callers must hold mu.
func (s *memoryStore) id() int64 {
	n := s.nextID
	s.nextID++
	return n
}

func (s *memoryStore) userByID(id int64) (user, bool) {
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return user{}, false
}

func (s *memoryStore) userByName(username string) (user, bool) {
	for _, u := range s.users {
		if u.Username == username {
			return u, true
		}
	}
	return user{}, false
}

// addUser appends the account plus its empty profile record. Callers must
// hold mu.
func (s *memoryStore) addUser(u user) user {
	s.users = append(s.users, u)
	s.profiles = append(s.profiles, profile{ID: s.id(), UserID: u.ID})
	return u
}

func (s *memoryStore) sellerByUser(userID int64) (seller, bool) {
	for _, sl := range s.sellers {
		if sl.UserID == userID {
			return sl, true
		}
	}
	return seller{}, false
}

func (s *memoryStore) productByID(id int64) (product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return product{}, false
}

func (s *memoryStore) notify(userID int64, role, message, typ, link string, now time.Time) {
	s.notifications = append(s.notifications, notification{
		ID:         s.id(),
		UserID:     userID,
		Message:    message,
		Type:       typ,
		Link:       link,
		TargetRole: role,
		CreatedAt:  now,
	})
}

// seed loads a small demo dataset: an admin, an approved seller with stock,
// and a plain customer with a pending notification.
func (s *memoryStore) seed(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.addUser(user{ID: s.id(), Username: "admin", Email: "admin@example.com", Password: "admin123", IsStaff: true, IsSuperuser: true})
	sellerUser := s.addUser(user{ID: s.id(), Username: "seller_sam", Email: "sam@example.com", Password: "seller123"})
	customer := s.addUser(user{ID: s.id(), Username: "casey", Email: "casey@example.com", Password: "customer123"})

	shop := seller{ID: s.id(), UserID: sellerUser.ID, ShopName: "Sam's Gadgets", Phone: "555-0100", IsApproved: true, CreatedAt: now}
	s.sellers = append(s.sellers, shop)

	electronics := category{ID: s.id(), Name: "Electronics"}
	accessories := category{ID: s.id(), Name: "Accessories"}
	s.categories = append(s.categories, electronics, accessories)

	s.products = append(s.products,
		product{ID: s.id(), SellerID: shop.ID, CategoryID: electronics.ID, Name: "USB-C Hub", PriceMinor: 3499, Currency: "USD", Stock: 25, CreatedAt: now},
		product{ID: s.id(), SellerID: shop.ID, CategoryID: accessories.ID, Name: "Laptop Sleeve", PriceMinor: 1999, Currency: "USD", Stock: 40, CreatedAt: now},
	)

	s.notify(customer.ID, rbac.RoleCustomer, "Welcome to the marketplace", "info", "", now)
	s.notify(sellerUser.ID, rbac.RoleSeller, "Your shop has been approved", "success", "/seller/dashboard", now)
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"marketplace-client/internal/api"
	"marketplace-client/internal/auth"
	"marketplace-client/internal/config"
	"marketplace-client/pkg/logger"
)

// shopctl is a terminal client for the marketplace API: browse the catalog,
// manage a cart, place orders, and run a seller shop or admin moderation from
// the command line.

type commandFn func(cc *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	ctx     context.Context
	log     *slog.Logger
	cfg     config.Config
	client  *api.Client
	session *auth.Session
	store   *auth.Store
}

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}
	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmdName)
		printUsage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logger.NewCLI(cfg.App.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.With(ctx, log)

	cc, err := newCommandContext(ctx, log, cfg)
	if err != nil {
		log.Error("init failed", "err", err)
		os.Exit(1)
	}

	if err := cmd.run(cc, os.Args[2:]); err != nil {
		log.Error("command failed", "command", cmdName, "err", err)
		os.Exit(1)
	}
}

func newCommandContext(ctx context.Context, log *slog.Logger, cfg config.Config) (*commandContext, error) {
	tokenPath := cfg.API.TokenFile
	if tokenPath == "" {
		p, err := auth.DefaultStorePath()
		if err != nil {
			return nil, err
		}
		tokenPath = p
	}
	store := auth.NewStore(tokenPath)

	client, err := api.NewClient(api.Options{
		BaseURL: cfg.API.BaseURL,
		Tokens:  store,
		Timeout: cfg.API.Timeout,
	})
	if err != nil {
		return nil, err
	}

	session := auth.NewSession(store, func(ctx context.Context, username, password string) (auth.TokenPair, error) {
		pair, err := client.Login(ctx, username, password)
		if err != nil {
			return auth.TokenPair{}, err
		}
		return auth.TokenPair{Access: pair.Access, Refresh: pair.Refresh}, nil
	})

	return &commandContext{
		ctx:     ctx,
		log:     log,
		cfg:     cfg,
		client:  client,
		session: session,
		store:   store,
	}, nil
}

func commands() map[string]command {
	all := []command{
		{"login", "Authenticate and persist the token pair", runLogin},
		{"logout", "Clear the stored token pair", runLogout},
		{"whoami", "Show the current session", runWhoami},
		{"register", "Create a customer account", runRegister},
		{"profile", "Show or update the profile record", runProfile},
		{"menu", "Show the navigation entries for the current user", runMenu},
		{"notifications", "List notifications; -watch polls, -ack marks read", runNotifications},

		{"products", "List the catalog; supports -search and -category", runProducts},
		{"product", "Show one product by id", runProduct},
		{"categories", "List categories", runCategories},
		{"cart", "Show the cart", runCart},
		{"cart-add", "Add a product to the cart", runCartAdd},
		{"cart-update", "Change the quantity of a cart item", runCartUpdate},
		{"cart-remove", "Remove a cart item", runCartRemove},
		{"addresses", "List shipping addresses", runAddresses},
		{"address-add", "Create a shipping address", runAddressAdd},
		{"checkout", "Turn the cart into an order", runCheckout},
		{"orders", "List orders", runOrders},
		{"order", "Show one order by id", runOrder},

		{"seller-register", "Apply for a seller shop", runSellerRegister},
		{"seller-products", "List your products", runSellerProducts},
		{"seller-product-add", "Create a product", runSellerProductAdd},
		{"seller-product-update", "Update a product", runSellerProductUpdate},
		{"seller-product-delete", "Delete a product", runSellerProductDelete},
		{"seller-orders", "List orders containing your products", runSellerOrders},
		{"seller-order-status", "Move an order to a new status", runSellerOrderStatus},
		{"seller-stats", "Show your shop dashboard numbers", runSellerStats},

		{"admin-users", "List user accounts (staff)", runAdminUsers},
		{"admin-sellers", "List seller applications (staff)", runAdminSellers},
		{"admin-approve-seller", "Approve or revoke a seller (staff)", runAdminApproveSeller},
		{"admin-category-add", "Create a category (staff)", runAdminCategoryAdd},
		{"admin-category-delete", "Delete a category (staff)", runAdminCategoryDelete},
	}
	m := make(map[string]command, len(all))
	for _, c := range all {
		m[c.name] = c
	}
	return m
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: shopctl <command> [flags]")
	fmt.Fprintln(os.Stderr)

	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stderr, 0, 4, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%s\n", name, cmds[name].description)
	}
	_ = w.Flush()
}

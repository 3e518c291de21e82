package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"marketplace-client/internal/api"
	"marketplace-client/internal/nav"
	"marketplace-client/internal/notify"
	"marketplace-client/internal/rbac"
)

func runLogin(cc *commandContext, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("username", "", "account username")
	password := fs.String("password", "", "account password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return errors.New("-username is required")
	}

	pw := *password
	if pw == "" {
		fmt.Fprint(os.Stderr, "password: ")
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		pw = string(b)
	}

	if cc.session.Current().IsLoggedIn {
		return errors.New("already logged in; run logout first")
	}
	if !cc.session.Login(cc.ctx, *username, pw) {
		return errors.New("login failed")
	}

	snap := cc.session.Current()
	fmt.Printf("logged in as %s\n", snap.User.Username)
	return nil
}

func runLogout(cc *commandContext, args []string) error {
	if err := cc.session.Logout(); err != nil {
		return err
	}
	fmt.Println("logged out")
	return nil
}

func runWhoami(cc *commandContext, args []string) error {
	snap := cc.session.Current()
	if !snap.IsLoggedIn {
		fmt.Println("not logged in")
		return nil
	}

	w := newTable()
	fmt.Fprintf(w, "username\t%s\n", snap.User.Username)
	fmt.Fprintf(w, "user id\t%d\n", snap.User.UserID)
	fmt.Fprintf(w, "admin\t%s\n", yesNo(snap.User.IsAdminUser()))
	if exp := snap.User.ExpiresAt; exp != nil {
		fmt.Fprintf(w, "token expires\t%s\n", exp.Format(time.RFC3339))
	}
	return w.Flush()
}

func runRegister(cc *commandContext, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	username := fs.String("username", "", "desired username")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *password == "" {
		return errors.New("-username and -password are required")
	}

	u, err := cc.client.Register(cc.ctx, api.RegisterRequest{Username: *username, Email: *email, Password: *password})
	if err != nil {
		return err
	}
	fmt.Printf("account %s created (id %d); run `shopctl login` next\n", u.Username, u.ID)
	return nil
}

func runProfile(cc *commandContext, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	bio := fs.String("bio", "", "set the profile bio")
	avatar := fs.String("avatar", "", "set the avatar url")
	if err := fs.Parse(args); err != nil {
		return err
	}

	profiles, err := cc.client.Profiles(cc.ctx)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		return errors.New("no profile record")
	}
	// Staff see every profile; pick our own.
	p := profiles[0]
	if snap := cc.session.Current(); snap.IsLoggedIn {
		for _, cand := range profiles {
			if cand.UserID == snap.User.UserID {
				p = cand
				break
			}
		}
	}

	if *bio != "" || *avatar != "" {
		p, err = cc.client.UpdateProfile(cc.ctx, p.ID, *bio, *avatar)
		if err != nil {
			return err
		}
	}

	w := newTable()
	fmt.Fprintf(w, "role\t%s\n", p.Role)
	if p.Bio != "" {
		fmt.Fprintf(w, "bio\t%s\n", p.Bio)
	}
	if p.AvatarURL != "" {
		fmt.Fprintf(w, "avatar\t%s\n", p.AvatarURL)
	}
	return w.Flush()
}

func runMenu(cc *commandContext, args []string) error {
	menu := nav.NewResolver(cc.client).Resolve(cc.ctx, cc.session.Current())

	w := newTable()
	fmt.Fprintf(w, "branch\t%s\n", menu.Branch)
	if menu.Username != "" {
		fmt.Fprintf(w, "user\t%s\n", menu.Username)
	}
	if menu.ShopName != "" {
		fmt.Fprintf(w, "shop\t%s\n", menu.ShopName)
	}
	switch menu.SellerAction {
	case nav.SellerActionRegister:
		fmt.Fprintf(w, "seller\tregister with `shopctl seller-register`\n")
	case nav.SellerActionPending:
		fmt.Fprintf(w, "seller\tapplication pending approval\n")
	case nav.SellerActionDashboard:
		fmt.Fprintf(w, "seller\tdashboard at %s\n", nav.SellerDashboardPath)
	}
	fmt.Fprintf(w, "admin\t%s\n", yesNo(menu.ShowAdmin))
	return w.Flush()
}

func runNotifications(cc *commandContext, args []string) error {
	fs := flag.NewFlagSet("notifications", flag.ContinueOnError)
	role := fs.String("role", "", "audience role: customer, seller or admin (default from -path or customer)")
	path := fs.String("path", "", "derive the role from a route path instead")
	watch := fs.Bool("watch", false, "keep polling until interrupted")
	ack := fs.Int64("ack", 0, "mark one notification read by id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	audience := *role
	if audience == "" {
		audience = rbac.RoleFromPath(*path)
	}
	if !rbac.IsValid(audience) {
		return fmt.Errorf("unknown role %q", audience)
	}

	poller := notify.NewPoller(cc.client, audience, cc.cfg.Notify.PollInterval)

	if *ack != 0 {
		if err := poller.Refresh(cc.ctx); err != nil {
			return err
		}
		link := poller.Acknowledge(cc.ctx, *ack)
		if link != "" {
			fmt.Println("open:", link)
		}
		return nil
	}

	if *watch {
		poller.OnUpdate = printNotifications
		poller.Run(cc.ctx)
		return nil
	}

	if err := poller.Refresh(cc.ctx); err != nil {
		return err
	}
	printNotifications(poller.Current())
	return nil
}

func printNotifications(snap notify.Snapshot) {
	fmt.Printf("%d unread\n", snap.Unread)
	w := newTable()
	for _, n := range snap.Items {
		read := " "
		if !n.IsRead {
			read = "*"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", read, n.ID, n.CreatedAt.Format("2006-01-02 15:04"), n.Type, n.Message)
	}
	_ = w.Flush()
}

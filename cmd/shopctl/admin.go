package main

import (
	"errors"
	"flag"
	"fmt"
)

func runAdminUsers(cc *commandContext, args []string) error {
	users, err := cc.client.Users(cc.ctx)
	if err != nil {
		return err
	}
	w := newTable()
	fmt.Fprintln(w, "id\tusername\temail\tstaff")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, yesNo(u.IsStaff || u.IsSuperuser))
	}
	return w.Flush()
}

func runAdminSellers(cc *commandContext, args []string) error {
	sellers, err := cc.client.Sellers(cc.ctx)
	if err != nil {
		return err
	}
	w := newTable()
	fmt.Fprintln(w, "id\tshop\tuser\tapproved")
	for _, s := range sellers {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", s.ID, s.ShopName, s.UserID, yesNo(s.IsApproved))
	}
	return w.Flush()
}

func runAdminApproveSeller(cc *commandContext, args []string) error {
	fs := flag.NewFlagSet("admin-approve-seller", flag.ContinueOnError)
	id := fs.Int64("id", 0, "seller id")
	revoke := fs.Bool("revoke", false, "revoke approval instead of granting it")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return errors.New("-id is required")
	}

	s, err := cc.client.SetSellerApproval(cc.ctx, *id, !*revoke)
	if err != nil {
		return err
	}
	fmt.Printf("seller %d (%s) approved: %s\n", s.ID, s.ShopName, yesNo(s.IsApproved))
	return nil
}

func runAdminCategoryAdd(cc *commandContext, args []string) error {
	fs := flag.NewFlagSet("admin-category-add", flag.ContinueOnError)
	name := fs.String("name", "", "category name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return errors.New("-name is required")
	}

	cat, err := cc.client.CreateCategory(cc.ctx, *name)
	if err != nil {
		return err
	}
	fmt.Printf("category %d created: %s\n", cat.ID, cat.Name)
	return nil
}

func runAdminCategoryDelete(cc *commandContext, args []string) error {
	id, err := idArg(args, "category id")
	if err != nil {
		return err
	}
	if err := cc.client.DeleteCategory(cc.ctx, id); err != nil {
		return err
	}
	fmt.Println("deleted")
	return nil
}

package main

import (
	"errors"
	"flag"
	"fmt"

	"marketplace-client/internal/api"
)

func runProducts(cc *commandContext, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	search := fs.String("search", "", "match against name and description")
	category := fs.Int64("category", 0, "filter by category id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	products, err := cc.client.Products(cc.ctx, api.ProductQuery{Search: *search, CategoryID: *category})
	if err != nil {
		return err
	}

	w := newTable()
	fmt.Fprintln(w, "id\tname\tprice\tstock")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", p.ID, p.Name, money(p.PriceMinor, p.Currency), p.Stock)
	}
	return w.Flush()
}

func runProduct(cc *commandContext, args []string) error {
	id, err := idArg(args, "product id")
	if err != nil {
		return err
	}
	p, err := cc.client.Product(cc.ctx, id)
	if err != nil {
		return err
	}

	w := newTable()
	fmt.Fprintf(w, "name\t%s\n", p.Name)
	fmt.Fprintf(w, "price\t%s\n", money(p.PriceMinor, p.Currency))
	fmt.Fprintf(w, "stock\t%d\n", p.Stock)
	if p.Description != "" {
		fmt.Fprintf(w, "description\t%s\n", p.Description)
	}
	return w.Flush()
}

func runCategories(cc *commandContext, args []string) error {
	cats, err := cc.client.Categories(cc.ctx)
	if err != nil {
		return err
	}
	w := newTable()
	for _, cat := range cats {
		fmt.Fprintf(w, "%d\t%s\n", cat.ID, cat.Name)
	}
	return w.Flush()
}

func runCart(cc *commandContext, args []string) error {
	cart, err := cc.client.Cart(cc.ctx)
	if err != nil {
		return err
	}

	w := newTable()
	fmt.Fprintln(w, "item\tproduct\tqty\tprice")
	for _, it := range cart.Items {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", it.ID, it.ProductName, it.Quantity, money(it.PriceMinor, it.Currency))
	}
	fmt.Fprintf(w, "\ttotal\t\t%s\n", money(cart.TotalMinor, cart.Currency))
	return w.Flush()
}

func runCartAdd(cc *commandContext, args []string) error {
	fs := flag.NewFlagSet("cart-add", flag.ContinueOnError)
	product := fs.Int64("product", 0, "product id")
	qty := fs.Int("qty", 1, "quantity")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *product == 0 {
		return errors.New("-product is required")
	}

	it, err := cc.client.AddCartItem(cc.ctx, *product, *qty)
	if err != nil {
		return err
	}
	fmt.Printf("added %dx %s (item %d)\n", it.Quantity, it.ProductName, it.ID)
	return nil
}

func runCartUpdate(cc *commandContext, args []string) error {
	fs := flag.NewFlagSet("cart-update", flag.ContinueOnError)
	item := fs.Int64("item", 0, "cart item id")
	qty := fs.Int("qty", 0, "new quantity")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *item == 0 || *qty <= 0 {
		return errors.New("-item and a positive -qty are required")
	}

	it, err := cc.client.UpdateCartItem(cc.ctx, *item, *qty)
	if err != nil {
		return err
	}
	fmt.Printf("item %d now %dx\n", it.ID, it.Quantity)
	return nil
}

func runCartRemove(cc *commandContext, args []string) error {
	id, err := idArg(args, "cart item id")
	if err != nil {
		return err
	}
	if err := cc.client.RemoveCartItem(cc.ctx, id); err != nil {
		return err
	}
	fmt.Println("removed")
	return nil
}

func runAddresses(cc *commandContext, args []string) error {
	addrs, err := cc.client.Addresses(cc.ctx)
	if err != nil {
		return err
	}
	w := newTable()
	fmt.Fprintln(w, "id\tname\tline1\tcity\tcountry")
	for _, a := range addrs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", a.ID, a.FullName, a.Line1, a.City, a.Country)
	}
	return w.Flush()
}

func runAddressAdd(cc *commandContext, args []string) error {
	fs := flag.NewFlagSet("address-add", flag.ContinueOnError)
	name := fs.String("name", "", "full name")
	phone := fs.String("phone", "", "phone number")
	line1 := fs.String("line1", "", "street address")
	city := fs.String("city", "", "city")
	country := fs.String("country", "", "country code")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *line1 == "" {
		return errors.New("-name and -line1 are required")
	}

	a, err := cc.client.CreateAddress(cc.ctx, api.AddressInput{
		FullName: *name, Phone: *phone, Line1: *line1, City: *city, Country: *country,
	})
	if err != nil {
		return err
	}
	fmt.Printf("address %d created\n", a.ID)
	return nil
}

func runCheckout(cc *commandContext, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	addressID := fs.Int64("address", 0, "shipping address id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *addressID == 0 {
		return errors.New("-address is required")
	}

	o, err := cc.client.Checkout(cc.ctx, *addressID)
	if err != nil {
		return err
	}
	fmt.Printf("order %d placed: %s, %s\n", o.ID, o.Status, money(o.TotalMinor, o.Currency))
	return nil
}

func runOrders(cc *commandContext, args []string) error {
	orders, err := cc.client.Orders(cc.ctx)
	if err != nil {
		return err
	}
	printOrders(orders)
	return nil
}

func runOrder(cc *commandContext, args []string) error {
	id, err := idArg(args, "order id")
	if err != nil {
		return err
	}
	o, err := cc.client.Order(cc.ctx, id)
	if err != nil {
		return err
	}

	w := newTable()
	fmt.Fprintf(w, "status\t%s\n", o.Status)
	fmt.Fprintf(w, "total\t%s\n", money(o.TotalMinor, o.Currency))
	fmt.Fprintf(w, "placed\t%s\n", o.CreatedAt.Format("2006-01-02 15:04"))
	for _, it := range o.Items {
		fmt.Fprintf(w, "item\t%dx %s\n", it.Quantity, it.ProductName)
	}
	return w.Flush()
}

func printOrders(orders []api.Order) {
	w := newTable()
	fmt.Fprintln(w, "id\tstatus\ttotal\tplaced")
	for _, o := range orders {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", o.ID, o.Status, money(o.TotalMinor, o.Currency), o.CreatedAt.Format("2006-01-02 15:04"))
	}
	_ = w.Flush()
}

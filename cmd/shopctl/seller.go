package main

import (
	"errors"
	"flag"
	"fmt"

	"marketplace-client/internal/api"
)

func runSellerRegister(cc *commandContext, args []string) error {
	fs := flag.NewFlagSet("seller-register", flag.ContinueOnError)
	shop := fs.String("shop", "", "shop name")
	phone := fs.String("phone", "", "contact phone")
	address := fs.String("address", "", "business address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *shop == "" {
		return errors.New("-shop is required")
	}

	s, err := cc.client.RegisterSeller(cc.ctx, api.SellerRegistration{
		ShopName: *shop, Phone: *phone, Address: *address,
	})
	if err != nil {
		return err
	}
	fmt.Printf("application %d submitted for %q; awaiting approval\n", s.ID, s.ShopName)
	return nil
}

func runSellerProducts(cc *commandContext, args []string) error {
	products, err := cc.client.SellerProducts(cc.ctx)
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

func productInputFlags(fs *flag.FlagSet) *api.ProductInput {
	in := &api.ProductInput{}
	fs.StringVar(&in.Name, "name", "", "product name")
	fs.StringVar(&in.Description, "description", "", "description")
	fs.Int64Var(&in.PriceMinor, "price", 0, "price in minor units (cents)")
	fs.StringVar(&in.Currency, "currency", "USD", "currency code")
	fs.IntVar(&in.Stock, "stock", 0, "units in stock")
	fs.Int64Var(&in.CategoryID, "category", 0, "category id")
	fs.StringVar(&in.ImageURL, "image", "", "image url")
	return in
}

func runSellerProductAdd(cc *commandContext, args []string) error {
	fs := flag.NewFlagSet("seller-product-add", flag.ContinueOnError)
	in := productInputFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if in.Name == "" || in.PriceMinor <= 0 {
		return errors.New("-name and a positive -price are required")
	}

	p, err := cc.client.CreateProduct(cc.ctx, *in)
	if err != nil {
		return err
	}
	fmt.Printf("product %d created: %s at %s\n", p.ID, p.Name, money(p.PriceMinor, p.Currency))
	return nil
}

func runSellerProductUpdate(cc *commandContext, args []string) error {
	fs := flag.NewFlagSet("seller-product-update", flag.ContinueOnError)
	id := fs.Int64("id", 0, "product id")
	in := productInputFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return errors.New("-id is required")
	}
	if in.Name == "" || in.PriceMinor <= 0 {
		return errors.New("-name and a positive -price are required")
	}

	p, err := cc.client.UpdateProduct(cc.ctx, *id, *in)
	if err != nil {
		return err
	}
	fmt.Printf("product %d updated\n", p.ID)
	return nil
}

func runSellerProductDelete(cc *commandContext, args []string) error {
	id, err := idArg(args, "product id")
	if err != nil {
		return err
	}
	if err := cc.client.DeleteProduct(cc.ctx, id); err != nil {
		return err
	}
	fmt.Println("deleted")
	return nil
}

func runSellerOrders(cc *commandContext, args []string) error {
	orders, err := cc.client.SellerOrders(cc.ctx)
	if err != nil {
		return err
	}
	printOrders(orders)
	return nil
}

func runSellerOrderStatus(cc *commandContext, args []string) error {
	fs := flag.NewFlagSet("seller-order-status", flag.ContinueOnError)
	id := fs.Int64("id", 0, "order id")
	status := fs.String("status", "", "new status: confirmed, shipping, delivered or cancelled")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 || *status == "" {
		return errors.New("-id and -status are required")
	}

	o, err := cc.client.UpdateSellerOrderStatus(cc.ctx, *id, *status)
	if err != nil {
		return err
	}
	fmt.Printf("order %d is now %s\n", o.ID, o.Status)
	return nil
}

func runSellerStats(cc *commandContext, args []string) error {
	stats, err := cc.client.SellerStats(cc.ctx)
	if err != nil {
		return err
	}
	w := newTable()
	fmt.Fprintf(w, "products\t%d\n", stats.TotalProducts)
	fmt.Fprintf(w, "orders\t%d\n", stats.TotalOrders)
	fmt.Fprintf(w, "revenue\t%s\n", money(stats.RevenueMinor, stats.Currency))
	return w.Flush()
}

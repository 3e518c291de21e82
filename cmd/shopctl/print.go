package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
)

// idArg parses a single positional numeric argument.
func idArg(args []string, what string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected exactly one argument: the %s", what)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, args[0])
	}
	return id, nil
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

// money renders integer minor units as "USD 34.99".
func money(minor int64, currency string) string {
	if currency == "" {
		currency = "?"
	}
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s %s%d.%02d", currency, sign, minor/100, minor%100)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

package main

import (
	"errors"
	"flag"
	"reflect"
	"testing"

	"github.com/and161185/auto-marketplace/internal/form"
	"github.com/and161185/auto-marketplace/internal/i18n"
)

func Test_splitList(t *testing.T) {
	t.Parallel()

	if got := splitList(" Navi, ,AHK ,"); !reflect.DeepEqual(got, []string{"Navi", "AHK"}) {
		t.Fatalf("splitList: %q", got)
	}
	if got := splitList(""); got != nil {
		t.Fatalf("empty input should give nil, got %q", got)
	}
}

func Test_listingFlags_Create(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("car-add", flag.ContinueOnError)
	lf := bindListing(fs)
	if err := fs.Parse([]string{"-brand", "VW", "-year", "2015", "-price", "9999.5", "-seats", "5", "-features", "Navi,AHK"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	req := lf.create(visited(fs))
	if req.Brand != "VW" || req.Year != 2015 || req.Price != 9999.5 {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.Seats == nil || *req.Seats != 5 {
		t.Fatalf("seats should be set")
	}
	if req.Doors != nil || req.Horsepower != nil || req.PreviousOwners != nil {
		t.Fatalf("unset optional numbers must stay nil")
	}
	if !reflect.DeepEqual(req.Features, []string{"Navi", "AHK"}) {
		t.Fatalf("features: %q", req.Features)
	}
}

func Test_listingFlags_Update(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("car-update", flag.ContinueOnError)
	lf := bindListing(fs)
	if err := fs.Parse([]string{"-price", "18000", "-accident-free", "-images", ""}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	req := lf.update(visited(fs))
	if req.Price == nil || *req.Price != 18000 {
		t.Fatalf("price should be set")
	}
	if req.AccidentFree == nil || !*req.AccidentFree {
		t.Fatalf("accident-free should be set")
	}
	if req.Brand != nil || req.Year != nil || req.Features != nil {
		t.Fatalf("untouched fields must stay nil: %+v", req)
	}
	if req.ImageURLs != nil {
		t.Fatalf("empty list stays nil, got %q", req.ImageURLs)
	}
}

func Test_searchFlags(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("cars", flag.ContinueOnError)
	sf := bindSearch(fs)
	if err := fs.Parse([]string{"-brand", "BMW", "-min-price", "0", "-page", "2"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := sf.search(visited(fs)).Query().Encode()
	if got != "brand=BMW&minPrice=0&page=2" {
		t.Fatalf("query = %q", got)
	}
}

func Test_describe(t *testing.T) {
	t.Parallel()

	pr := i18n.MustPrinter("de")
	err := (&form.Login{Email: "x", Password: "1"}).Validate()
	want := "email: Ungültige E-Mail-Adresse\npassword: Passwort muss mindestens 6 Zeichen haben"
	if got := describe(pr, err); got != want {
		t.Fatalf("describe = %q", got)
	}
	if got := describe(pr, errors.New("boom")); got != "boom" {
		t.Fatalf("plain error = %q", got)
	}
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/and161185/auto-marketplace/internal/form"
	"github.com/and161185/auto-marketplace/internal/i18n"
	"github.com/and161185/auto-marketplace/internal/model"
)

// ------- flag helpers -------

// visited returns the flags given on the command line.
func visited(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// splitList parses a comma separated list; blanks are dropped.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func opt[T any](set map[string]bool, name string, v T) *T {
	if !set[name] {
		return nil
	}
	return &v
}

// ------- listings -------

type listingFlags struct {
	brand, model, fuel, transmission, color, body, engine, drivetrain *string
	condition, history, description, location, zip                    *string
	features, images, mainImage                                       *string
	year, mileage, doors, seats, horsepower, owners                   *int
	price                                                             *float64
	accidentFree                                                      *bool
}

func bindListing(fs *flag.FlagSet) *listingFlags {
	return &listingFlags{
		brand:        fs.String("brand", "", "brand, e.g. BMW"),
		model:        fs.String("model", "", "model, e.g. 320d"),
		fuel:         fs.String("fuel", "", "fuel type (PETROL, DIESEL, ELECTRIC, HYBRID, ...)"),
		transmission: fs.String("transmission", "", "MANUAL or AUTOMATIC"),
		color:        fs.String("color", "", "color"),
		body:         fs.String("body", "", "body type"),
		engine:       fs.String("engine", "", "engine size, e.g. 2.0L"),
		drivetrain:   fs.String("drivetrain", "", "drivetrain (FWD, RWD, AWD)"),
		condition:    fs.String("condition", "", "condition (NEW, USED, ...)"),
		history:      fs.String("history", "", "service history"),
		description:  fs.String("description", "", "description (at least 50 characters)"),
		location:     fs.String("location", "", "city"),
		zip:          fs.String("zip", "", "zip code"),
		features:     fs.String("features", "", "comma separated features"),
		images:       fs.String("images", "", "comma separated image URLs"),
		mainImage:    fs.String("main-image", "", "main image URL"),
		year:         fs.Int("year", 0, "first registration year"),
		mileage:      fs.Int("mileage", 0, "mileage in km"),
		doors:        fs.Int("doors", 0, "number of doors"),
		seats:        fs.Int("seats", 0, "number of seats"),
		horsepower:   fs.Int("hp", 0, "horsepower"),
		owners:       fs.Int("owners", 0, "previous owners"),
		price:        fs.Float64("price", 0, "price in EUR"),
		accidentFree: fs.Bool("accident-free", false, "no accident history"),
	}
}

// create builds a new listing. Optional numbers are sent only when given.
func (l *listingFlags) create(set map[string]bool) model.CreateListingRequest {
	return model.CreateListingRequest{
		Brand:          *l.brand,
		Model:          *l.model,
		Year:           *l.year,
		Price:          *l.price,
		Mileage:        *l.mileage,
		FuelType:       *l.fuel,
		Transmission:   *l.transmission,
		Color:          *l.color,
		Doors:          opt(set, "doors", *l.doors),
		Seats:          opt(set, "seats", *l.seats),
		BodyType:       *l.body,
		EngineSize:     *l.engine,
		Horsepower:     opt(set, "hp", *l.horsepower),
		Drivetrain:     *l.drivetrain,
		Condition:      *l.condition,
		PreviousOwners: opt(set, "owners", *l.owners),
		AccidentFree:   *l.accidentFree,
		ServiceHistory: *l.history,
		Features:       splitList(*l.features),
		ImageURLs:      splitList(*l.images),
		MainImageURL:   *l.mainImage,
		Description:    *l.description,
		Location:       *l.location,
		ZipCode:        *l.zip,
	}
}

// update builds a partial update from the flags that were given.
func (l *listingFlags) update(set map[string]bool) model.UpdateListingRequest {
	req := model.UpdateListingRequest{
		Brand:          opt(set, "brand", *l.brand),
		Model:          opt(set, "model", *l.model),
		Year:           opt(set, "year", *l.year),
		Price:          opt(set, "price", *l.price),
		Mileage:        opt(set, "mileage", *l.mileage),
		FuelType:       opt(set, "fuel", *l.fuel),
		Transmission:   opt(set, "transmission", *l.transmission),
		Color:          opt(set, "color", *l.color),
		Doors:          opt(set, "doors", *l.doors),
		Seats:          opt(set, "seats", *l.seats),
		BodyType:       opt(set, "body", *l.body),
		EngineSize:     opt(set, "engine", *l.engine),
		Horsepower:     opt(set, "hp", *l.horsepower),
		Drivetrain:     opt(set, "drivetrain", *l.drivetrain),
		Condition:      opt(set, "condition", *l.condition),
		PreviousOwners: opt(set, "owners", *l.owners),
		AccidentFree:   opt(set, "accident-free", *l.accidentFree),
		ServiceHistory: opt(set, "history", *l.history),
		MainImageURL:   opt(set, "main-image", *l.mainImage),
		Description:    opt(set, "description", *l.description),
		Location:       opt(set, "location", *l.location),
		ZipCode:        opt(set, "zip", *l.zip),
	}
	if set["features"] {
		req.Features = splitList(*l.features)
	}
	if set["images"] {
		req.ImageURLs = splitList(*l.images)
	}
	return req
}

// ------- search -------

type searchFlags struct {
	brand, model, fuel, transmission, location, sort *string
	minPrice, maxPrice                               *float64
	minYear, maxYear, page, size                     *int
}

func bindSearch(fs *flag.FlagSet) *searchFlags {
	return &searchFlags{
		brand:        fs.String("brand", "", "brand"),
		model:        fs.String("model", "", "model"),
		fuel:         fs.String("fuel", "", "fuel type"),
		transmission: fs.String("transmission", "", "transmission"),
		location:     fs.String("location", "", "city"),
		sort:         fs.String("sort", "", "sort, e.g. price,asc"),
		minPrice:     fs.Float64("min-price", 0, "minimum price"),
		maxPrice:     fs.Float64("max-price", 0, "maximum price"),
		minYear:      fs.Int("min-year", 0, "minimum year"),
		maxYear:      fs.Int("max-year", 0, "maximum year"),
		page:         fs.Int("page", 0, "page number, starting at 0"),
		size:         fs.Int("size", 0, "page size"),
	}
}

func (s *searchFlags) search(set map[string]bool) model.ListingSearch {
	return model.ListingSearch{
		Brand:        *s.brand,
		Model:        *s.model,
		MinPrice:     opt(set, "min-price", *s.minPrice),
		MaxPrice:     opt(set, "max-price", *s.maxPrice),
		MinYear:      opt(set, "min-year", *s.minYear),
		MaxYear:      opt(set, "max-year", *s.maxYear),
		FuelType:     *s.fuel,
		Transmission: *s.transmission,
		Location:     *s.location,
		Page:         opt(set, "page", *s.page),
		Size:         opt(set, "size", *s.size),
		Sort:         *s.sort,
	}
}

// ------- errors -------

// describe renders err for the terminal. Field errors are listed one per line.
func describe(pr *i18n.Printer, err error) string {
	var ve *form.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	msgs := ve.Messages(pr)
	names := make([]string, 0, len(msgs))
	for name := range msgs {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", name, msgs[name])
	}
	return b.String()
}

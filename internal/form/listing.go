package form

import (
	"github.com/and161185/auto-marketplace/internal/i18n"
	"github.com/and161185/auto-marketplace/internal/model"
)

// Listing bounds accepted by the backend.
const (
	MinYear           = 1900
	MaxYear           = 2030
	MinDoors          = 2
	MaxDoors          = 6
	MinSeats          = 1
	MaxSeats          = 9
	MinDescriptionLen = 50
)

// Listing sanitizes and validates a new listing in place.
func Listing(req *model.CreateListingRequest) error {
	for _, p := range []*string{
		&req.Brand, &req.Model, &req.FuelType, &req.Transmission, &req.Color, &req.BodyType,
		&req.EngineSize, &req.Drivetrain, &req.Condition, &req.ServiceHistory,
		&req.Description, &req.Location, &req.ZipCode,
	} {
		*p = Sanitize(*p)
	}
	req.Features = sanitizeAll(req.Features)

	var c checker
	c.check(req.Brand != "", "brand", i18n.MsgFormBrandRequired)
	c.check(req.Model != "", "model", i18n.MsgFormModelRequired)
	c.check(req.Year >= MinYear, "year", i18n.MsgFormYearMin)
	c.check(req.Year <= MaxYear, "year", i18n.MsgFormYearMax)
	c.check(req.Price > 0, "price", i18n.MsgFormPricePositive)
	c.check(req.Mileage >= 0, "mileage", i18n.MsgFormMileageMin)
	c.check(req.FuelType != "", "fuelType", i18n.MsgFormFuelTypeRequired)
	c.check(req.Transmission != "", "transmission", i18n.MsgFormTransmissionRequired)
	c.check(req.Condition != "", "condition", i18n.MsgFormConditionRequired)
	c.check(req.Description != "", "description", i18n.MsgFormDescriptionRequired)
	c.check(runes(req.Description) >= MinDescriptionLen, "description", i18n.MsgFormDescriptionMin)
	checkOptional(&c, req.Doors, req.Seats, req.Horsepower, req.PreviousOwners)
	return c.err()
}

// ListingUpdate sanitizes and validates the fields present in req.
func ListingUpdate(req *model.UpdateListingRequest) error {
	for _, p := range []*string{
		req.Brand, req.Model, req.FuelType, req.Transmission, req.Color, req.BodyType,
		req.EngineSize, req.Drivetrain, req.Condition, req.ServiceHistory,
		req.Description, req.Location, req.ZipCode,
	} {
		if p != nil {
			*p = Sanitize(*p)
		}
	}
	req.Features = sanitizeAll(req.Features)

	var c checker
	present := func(p *string) bool { return p == nil || *p != "" }
	c.check(present(req.Brand), "brand", i18n.MsgFormBrandRequired)
	c.check(present(req.Model), "model", i18n.MsgFormModelRequired)
	c.check(present(req.FuelType), "fuelType", i18n.MsgFormFuelTypeRequired)
	c.check(present(req.Transmission), "transmission", i18n.MsgFormTransmissionRequired)
	c.check(present(req.Condition), "condition", i18n.MsgFormConditionRequired)
	if req.Year != nil {
		c.check(*req.Year >= MinYear, "year", i18n.MsgFormYearMin)
		c.check(*req.Year <= MaxYear, "year", i18n.MsgFormYearMax)
	}
	if req.Price != nil {
		c.check(*req.Price > 0, "price", i18n.MsgFormPricePositive)
	}
	if req.Mileage != nil {
		c.check(*req.Mileage >= 0, "mileage", i18n.MsgFormMileageMin)
	}
	if req.Description != nil {
		c.check(*req.Description != "", "description", i18n.MsgFormDescriptionRequired)
		c.check(runes(*req.Description) >= MinDescriptionLen, "description", i18n.MsgFormDescriptionMin)
	}
	checkOptional(&c, req.Doors, req.Seats, req.Horsepower, req.PreviousOwners)
	return c.err()
}

func checkOptional(c *checker, doors, seats, horsepower, owners *int) {
	if doors != nil {
		c.check(*doors >= MinDoors, "doors", i18n.MsgFormDoorsMin)
		c.check(*doors <= MaxDoors, "doors", i18n.MsgFormDoorsMax)
	}
	if seats != nil {
		c.check(*seats >= MinSeats, "seats", i18n.MsgFormSeatsMin)
		c.check(*seats <= MaxSeats, "seats", i18n.MsgFormSeatsMax)
	}
	if horsepower != nil {
		c.check(*horsepower >= 1, "horsepower", i18n.MsgFormHorsepowerMin)
	}
	if owners != nil {
		c.check(*owners >= 0, "previousOwners", i18n.MsgFormPreviousOwnersMin)
	}
}

func sanitizeAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = Sanitize(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

package model

import (
	"net/url"
	"strconv"
)

// CreateProfileRequest seeds the backend profile right after sign-up.
type CreateProfileRequest struct {
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	UserType  UserType `json:"userType"`
}

// UpdateProfileRequest carries optional profile changes; nil fields are left untouched.
type UpdateProfileRequest struct {
	FirstName       *string `json:"firstName,omitempty"`
	LastName        *string `json:"lastName,omitempty"`
	PhoneNumber     *string `json:"phoneNumber,omitempty"`
	ProfileImageURL *string `json:"profileImageUrl,omitempty"`
}

// UpdateSellerRequest carries optional seller-only changes.
type UpdateSellerRequest struct {
	CompanyName     *string  `json:"companyName,omitempty"`
	BusinessLicense *string  `json:"businessLicense,omitempty"`
	Address         *string  `json:"address,omitempty"`
	Specializations []string `json:"specializations,omitempty"`
}

// CreateListingRequest is the payload of POST /cars.
type CreateListingRequest struct {
	Brand          string   `json:"brand"`
	Model          string   `json:"model"`
	Year           int      `json:"year"`
	Price          float64  `json:"price"`
	Mileage        int      `json:"mileage"`
	FuelType       string   `json:"fuelType"`
	Transmission   string   `json:"transmission"`
	Color          string   `json:"color,omitempty"`
	Doors          *int     `json:"doors,omitempty"`
	Seats          *int     `json:"seats,omitempty"`
	BodyType       string   `json:"bodyType,omitempty"`
	EngineSize     string   `json:"engineSize,omitempty"`
	Horsepower     *int     `json:"horsepower,omitempty"`
	Drivetrain     string   `json:"drivetrain,omitempty"`
	Condition      string   `json:"condition"`
	PreviousOwners *int     `json:"previousOwners,omitempty"`
	AccidentFree   bool     `json:"accidentFree"`
	ServiceHistory string   `json:"serviceHistory,omitempty"`
	Features       []string `json:"features,omitempty"`
	ImageURLs      []string `json:"imageUrls,omitempty"`
	MainImageURL   string   `json:"mainImageUrl,omitempty"`
	Description    string   `json:"description"`
	Location       string   `json:"location,omitempty"`
	ZipCode        string   `json:"zipCode,omitempty"`
}

// UpdateListingRequest is the payload of PUT /cars/{id}; every field is optional.
type UpdateListingRequest struct {
	Brand          *string  `json:"brand,omitempty"`
	Model          *string  `json:"model,omitempty"`
	Year           *int     `json:"year,omitempty"`
	Price          *float64 `json:"price,omitempty"`
	Mileage        *int     `json:"mileage,omitempty"`
	FuelType       *string  `json:"fuelType,omitempty"`
	Transmission   *string  `json:"transmission,omitempty"`
	Color          *string  `json:"color,omitempty"`
	Doors          *int     `json:"doors,omitempty"`
	Seats          *int     `json:"seats,omitempty"`
	BodyType       *string  `json:"bodyType,omitempty"`
	EngineSize     *string  `json:"engineSize,omitempty"`
	Horsepower     *int     `json:"horsepower,omitempty"`
	Drivetrain     *string  `json:"drivetrain,omitempty"`
	Condition      *string  `json:"condition,omitempty"`
	PreviousOwners *int     `json:"previousOwners,omitempty"`
	AccidentFree   *bool    `json:"accidentFree,omitempty"`
	ServiceHistory *string  `json:"serviceHistory,omitempty"`
	Features       []string `json:"features,omitempty"`
	ImageURLs      []string `json:"imageUrls,omitempty"`
	MainImageURL   *string  `json:"mainImageUrl,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Location       *string  `json:"location,omitempty"`
	ZipCode        *string  `json:"zipCode,omitempty"`
}

// ListingSearch holds the optional filters of GET /cars and GET /cars/search.
type ListingSearch struct {
	Brand        string
	Model        string
	MinPrice     *float64
	MaxPrice     *float64
	MinYear      *int
	MaxYear      *int
	FuelType     string
	Transmission string
	Location     string
	Page         *int
	Size         *int
	Sort         string
}

// Query encodes the set filters; unset filters are omitted.
func (s ListingSearch) Query() url.Values {
	q := url.Values{}
	setStr := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	setInt := func(k string, v *int) {
		if v != nil {
			q.Set(k, strconv.Itoa(*v))
		}
	}
	setFloat := func(k string, v *float64) {
		if v != nil {
			q.Set(k, strconv.FormatFloat(*v, 'f', -1, 64))
		}
	}
	setStr("brand", s.Brand)
	setStr("model", s.Model)
	setFloat("minPrice", s.MinPrice)
	setFloat("maxPrice", s.MaxPrice)
	setInt("minYear", s.MinYear)
	setInt("maxYear", s.MaxYear)
	setStr("fuelType", s.FuelType)
	setStr("transmission", s.Transmission)
	setStr("location", s.Location)
	setInt("page", s.Page)
	setInt("size", s.Size)
	setStr("sort", s.Sort)
	return q
}

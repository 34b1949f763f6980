package model

import (
	"strconv"
	"time"
)

// ListingStatus is the lifecycle state of a listing.
type ListingStatus string

const (
	ListingActive          ListingStatus = "ACTIVE"
	ListingSold            ListingStatus = "SOLD"
	ListingInactive        ListingStatus = "INACTIVE"
	ListingPendingApproval ListingStatus = "PENDING_APPROVAL"
	ListingRejected        ListingStatus = "REJECTED"
)

// DisplayName returns the German label used by the marketplace UI.
func (s ListingStatus) DisplayName() string {
	switch s {
	case ListingActive:
		return "Verfügbar"
	case ListingSold:
		return "Verkauft"
	case ListingInactive:
		return "Inaktiv"
	case ListingPendingApproval:
		return "Warte auf Genehmigung"
	case ListingRejected:
		return "Abgelehnt"
	}
	return string(s)
}

// Listing is a vehicle offered by a seller. The backend owns it.
type Listing struct {
	ID       string `json:"id"`
	SellerID string `json:"sellerId,omitempty"`

	Brand        string  `json:"brand"`
	Model        string  `json:"model"`
	Year         int     `json:"year"`
	Price        float64 `json:"price"`
	Mileage      int     `json:"mileage"` // km
	FuelType     string  `json:"fuelType"`
	Transmission string  `json:"transmission"`

	Color      string `json:"color,omitempty"`
	Doors      *int   `json:"doors,omitempty"`
	Seats      *int   `json:"seats,omitempty"`
	BodyType   string `json:"bodyType,omitempty"`
	EngineSize string `json:"engineSize,omitempty"`
	Horsepower *int   `json:"horsepower,omitempty"`
	Drivetrain string `json:"drivetrain,omitempty"`

	Condition      string `json:"condition"`
	PreviousOwners *int   `json:"previousOwners,omitempty"`
	AccidentFree   bool   `json:"accidentFree"`
	ServiceHistory string `json:"serviceHistory,omitempty"`

	Features     []string `json:"features,omitempty"`
	ImageURLs    []string `json:"imageUrls,omitempty"`
	MainImageURL string   `json:"mainImageUrl,omitempty"`

	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
	ZipCode     string `json:"zipCode,omitempty"`

	Status    ListingStatus `json:"status"`
	CreatedAt *time.Time    `json:"createdAt,omitempty"`
	UpdatedAt *time.Time    `json:"updatedAt,omitempty"`
	SoldAt    *time.Time    `json:"soldAt,omitempty"`
}

// Title formats "Brand Model (Year)".
func (l *Listing) Title() string {
	return l.Brand + " " + l.Model + " (" + strconv.Itoa(l.Year) + ")"
}

// Available reports whether the listing can still be bought.
func (l *Listing) Available() bool { return l.Status == ListingActive }

// Stats is the public marketplace summary. The backend does not pin its shape,
// so it is kept as decoded JSON.
type Stats map[string]any

// Page is a paginated backend response.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// Option lists offered by the listing forms.
var (
	FuelTypes = []string{
		"Benzin", "Diesel", "Elektro", "Hybrid", "Plug-in Hybrid",
		"Wasserstoff", "Autogas (LPG)", "Erdgas (CNG)",
	}
	TransmissionTypes = []string{"Manuell", "Automatik", "Halbautomatik", "CVT"}
	BodyTypes         = []string{
		"Limousine", "Kombi", "SUV", "Cabrio", "Coupé",
		"Kleinwagen", "Van", "Pick-up", "Sportwagen",
	}
	Conditions      = []string{"Neu", "Gebraucht", "Jahreswagen", "Vorführwagen", "Unfallfrei", "Repariert"}
	DrivetrainTypes = []string{"Frontantrieb", "Heckantrieb", "Allradantrieb"}
)

package form

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/auto-marketplace/internal/errs"
	"github.com/and161185/auto-marketplace/internal/i18n"
	"github.com/and161185/auto-marketplace/internal/model"
	"github.com/and161185/auto-marketplace/internal/notify"
)

func fieldsOf(t *testing.T, err error) map[string]i18n.Key {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "want ValidationError, got %v", err)
	require.ErrorIs(t, err, errs.ErrInvalidInput)
	return ve.Fields
}

func TestLogin(t *testing.T) {
	t.Parallel()

	l := &Login{Email: "  ada@example.com ", Password: "secret1"}
	require.NoError(t, l.Validate())
	require.Equal(t, "ada@example.com", l.Email)

	err := (&Login{Email: "Ada <ada@example.com>", Password: "123"}).Validate()
	require.Equal(t, map[string]i18n.Key{
		"email":    i18n.MsgFormEmailInvalid,
		"password": i18n.MsgFormPasswordMin,
	}, fieldsOf(t, err))
	require.Equal(t, "invalid input: email, password", err.Error())
}

func TestRegistration(t *testing.T) {
	t.Parallel()

	valid := func() *Registration {
		return &Registration{
			FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
			Password: "secret1", ConfirmPassword: "secret1",
			UserType: model.UserTypeSeller, AcceptTerms: true,
		}
	}
	r := valid()
	require.NoError(t, r.Validate())
	require.Equal(t, model.CreateProfileRequest{FirstName: "Ada", LastName: "Lovelace", UserType: model.UserTypeSeller}, r.Seed())

	cases := []struct {
		name  string
		edit  func(*Registration)
		field string
		key   i18n.Key
	}{
		{"short first name", func(r *Registration) { r.FirstName = " A " }, "firstName", i18n.MsgFormFirstNameMin},
		{"short last name", func(r *Registration) { r.LastName = "L" }, "lastName", i18n.MsgFormLastNameMin},
		{"umlaut counts as one", func(r *Registration) { r.LastName = "Ö" }, "lastName", i18n.MsgFormLastNameMin},
		{"bad email", func(r *Registration) { r.Email = "ada" }, "email", i18n.MsgFormEmailInvalid},
		{"mismatch", func(r *Registration) { r.ConfirmPassword = "secret2" }, "confirmPassword", i18n.MsgFormPasswordMismatch},
		{"no user type", func(r *Registration) { r.UserType = "" }, "userType", i18n.MsgFormUserTypeInvalid},
		{"terms", func(r *Registration) { r.AcceptTerms = false }, "agreeToTerms", i18n.MsgFormTermsRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := valid()
			tc.edit(r)
			require.Equal(t, map[string]i18n.Key{tc.field: tc.key}, fieldsOf(t, r.Validate()))
		})
	}
}

func validListing() *model.CreateListingRequest {
	return &model.CreateListingRequest{
		Brand: "BMW", Model: "320d", Year: 2019, Price: 21500, Mileage: 88000,
		FuelType: "DIESEL", Transmission: "AUTOMATIC", Condition: "USED",
		Description: strings.Repeat("Gepflegter Zustand. ", 3),
	}
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name, in, want string
	}{
		{"plain text", "  Gepflegter Wagen ", "Gepflegter Wagen"},
		{"tags", "<b>Top</b> Zustand", "Top Zustand"},
		{"ampersand kept", "Nichtraucher & Garage", "Nichtraucher & Garage"},
		{"entity encoded script", "&lt;script&gt;alert(1)&lt;/script&gt; Gepflegter Wagen", "Gepflegter Wagen"},
		{"double encoded tag", "&amp;lt;b&amp;gt;fett&amp;lt;/b&amp;gt;", "fett"},
		{"numeric entities", "&#60;img src=x onerror=alert(1)&#62;Foto", "Foto"},
		{"lone angle bracket", "Preis < 10.000 EUR", "Preis < 10.000 EUR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Sanitize(tc.in)
			require.Equal(t, tc.want, got)
			require.NotContains(t, got, "<script")
		})
	}
}

func TestListing(t *testing.T) {
	t.Parallel()

	req := validListing()
	req.Description = "<b>Scheckheftgepflegt</b>, Nichtraucher & Garagenfahrzeug, <script>alert(1)</script>keine Mängel."
	req.Features = []string{"<i>Navi</i>", "  ", "AHK"}
	require.NoError(t, Listing(req))
	require.Equal(t, "Scheckheftgepflegt, Nichtraucher & Garagenfahrzeug, keine Mängel.", req.Description)
	require.Equal(t, []string{"Navi", "AHK"}, req.Features)

	doors, seats, hp, owners := 7, 0, 0, -1
	bad := &model.CreateListingRequest{Year: 1899, Price: 0, Mileage: -1, Doors: &doors, Seats: &seats, Horsepower: &hp, PreviousOwners: &owners, Description: "kurz"}
	require.Equal(t, map[string]i18n.Key{
		"brand":          i18n.MsgFormBrandRequired,
		"model":          i18n.MsgFormModelRequired,
		"year":           i18n.MsgFormYearMin,
		"price":          i18n.MsgFormPricePositive,
		"mileage":        i18n.MsgFormMileageMin,
		"fuelType":       i18n.MsgFormFuelTypeRequired,
		"transmission":   i18n.MsgFormTransmissionRequired,
		"condition":      i18n.MsgFormConditionRequired,
		"description":    i18n.MsgFormDescriptionMin,
		"doors":          i18n.MsgFormDoorsMax,
		"seats":          i18n.MsgFormSeatsMin,
		"horsepower":     i18n.MsgFormHorsepowerMin,
		"previousOwners": i18n.MsgFormPreviousOwnersMin,
	}, fieldsOf(t, Listing(bad)))

	markupOnly := validListing()
	markupOnly.Brand = "<img src=x>"
	require.Equal(t, map[string]i18n.Key{"brand": i18n.MsgFormBrandRequired}, fieldsOf(t, Listing(markupOnly)))
}

func TestListingUpdate(t *testing.T) {
	t.Parallel()

	require.NoError(t, ListingUpdate(&model.UpdateListingRequest{}))

	price, year := 19900.0, 2031
	desc := "<p>zu kurz</p>"
	brand := " "
	err := ListingUpdate(&model.UpdateListingRequest{Price: &price, Year: &year, Description: &desc, Brand: &brand})
	require.Equal(t, map[string]i18n.Key{
		"year":        i18n.MsgFormYearMax,
		"description": i18n.MsgFormDescriptionMin,
		"brand":       i18n.MsgFormBrandRequired,
	}, fieldsOf(t, err))
	require.Equal(t, "zu kurz", desc)
}

func TestValidationError_Messages(t *testing.T) {
	t.Parallel()

	err := (&Login{Email: "x", Password: "secret1"}).Validate()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, map[string]string{"email": "Ungültige E-Mail-Adresse"}, ve.Messages(i18n.MustPrinter("de")))
}

func TestSubmitter(t *testing.T) {
	t.Parallel()

	rec := &notify.Recorder{}
	s := NewSubmitter(rec, i18n.MustPrinter("de"), zaptest.NewLogger(t))
	ctx := context.Background()

	t.Run("invalid form is not sent", func(t *testing.T) {
		sent := false
		err := s.Submit(ctx, (&Login{}).Validate, func(context.Context) error { sent = true; return nil })
		require.ErrorIs(t, err, errs.ErrInvalidInput)
		require.False(t, sent)
	})

	t.Run("second submit fails fast", func(t *testing.T) {
		entered, release := make(chan struct{}), make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Submit(ctx, nil, func(context.Context) error {
				close(entered)
				<-release
				return nil
			})
		}()
		<-entered
		err := s.Submit(ctx, nil, func(context.Context) error { return nil })
		require.ErrorIs(t, err, errs.ErrInFlight)
		require.Equal(t, []string{"Bitte warten, die Anfrage läuft noch."}, rec.Messages(notify.LevelInfo))
		close(release)
		wg.Wait()

		require.NoError(t, s.Submit(ctx, nil, func(context.Context) error { return nil }))
	})

	t.Run("send error is returned", func(t *testing.T) {
		require.ErrorIs(t, s.Submit(ctx, nil, func(context.Context) error { return errs.ErrServer }), errs.ErrServer)
	})
}

// Command amp is a command-line client for the auto marketplace.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/and161185/auto-marketplace/internal/app"
	"github.com/and161185/auto-marketplace/internal/config"
	"github.com/and161185/auto-marketplace/internal/form"
	"github.com/and161185/auto-marketplace/internal/i18n"
	"github.com/and161185/auto-marketplace/internal/identity"
	"github.com/and161185/auto-marketplace/internal/logger"
	"github.com/and161185/auto-marketplace/internal/metrics"
	"github.com/and161185/auto-marketplace/internal/model"
	"github.com/and161185/auto-marketplace/internal/notify"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// ---- presentation hooks ----

// terminalNav tells the user where the browser client would have redirected.
type terminalNav struct{ w io.Writer }

func (n terminalNav) ToLogin() { fmt.Fprintln(n.w, "→ amp login") }
func (n terminalNav) ToHome() { fmt.Fprintln(n.w, "→ amp cars") }

// printOpener asks the user to open the consent page.
func printOpener(w io.Writer) identity.Opener {
	return func(url string) error {
		_, err := fmt.Fprintf(w, "Open this page to sign in with Google:\n  %s\n", url)
		return err
	}
}

// ---- utils ----

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func usage() {
	fmt.Fprintf(os.Stderr, `amp CLI
Usage:
  amp [-api URL] [-timeout 30s] [-metrics] <cmd> [args]

Configuration is read from MARKETPLACE_* variables and .env / .env.local.

Commands:
  version
  health
  login          -email <e> -password <p>
  login-google
  register       -email <e> -password <p> -confirm <p> -first <n> -last <n> -type SELLER|CUSTOMER -accept-terms
  logout
  whoami
  profile
  profile-update [-first n] [-last n] [-phone p] [-image url]
  display-name   -name <n> [-photo url]
  seller-info    [-company c] [-license l] [-address a] [-specializations a,b]
  deactivate
  sellers        [-specialization s]
  cars           [-brand b] [-model m] [-min-price p] [-max-price p] [-min-year y] [-max-year y] [-page n] [-size n] [-sort s]
  search         (same filters as cars)
  car            -id <id>
  similar        -id <id>
  stats
  my-cars
  car-add        -brand b -model m -year y -price p -mileage km -fuel f -transmission t -condition c -description d [...]
  car-update     -id <id> [listing flags]
  car-sold       -id <id>
  car-rm         -id <id>
`)
	os.Exit(2)
}

func fail(pr *i18n.Printer, err error) {
	fmt.Fprintln(os.Stderr, describe(pr, err))
	os.Exit(1)
}

// ---- main ----

// main loads configuration, wires the client and dispatches the subcommand.
func main() {
	apiURL := flag.String("api", "", "backend base URL (overrides MARKETPLACE_API_URL)")
	timeout := flag.Duration("timeout", 30*time.Second, "overall command timeout")
	dumpMetrics := flag.Bool("metrics", false, "print request metrics to stderr when done")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)
	if cmd == "version" {
		fmt.Printf("amp %s (%s)\n", version, buildDate)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fail(nil, err)
	}
	if *apiURL != "" {
		cfg.APIURL = *apiURL
		if err := cfg.Validate(); err != nil {
			fail(nil, err)
		}
	}
	log, err := logger.New(cfg.Production(), cfg.LogLevel)
	if err != nil {
		fail(nil, err)
	}

	a, err := app.New(cfg, log, app.Options{
		Notifier:  notify.NewWriter(os.Stderr),
		Navigator: terminalNav{w: os.Stderr},
		Opener:    printOpener(os.Stderr),
		UserAgent: "amp/" + version,
	})
	if err != nil {
		fail(nil, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cmd != "login-google" {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	if err := a.Start(ctx); err != nil {
		a.Close()
		fail(a.Printer, err)
	}
	err = run(ctx, a, cmd, flag.Args()[1:])
	if *dumpMetrics {
		_ = metrics.Dump(os.Stderr, a.Registry)
	}
	a.Close()
	if err != nil {
		if errors.Is(err, errUsage) {
			usage()
		}
		fail(a.Printer, err)
	}
}

var errUsage = errors.New("usage")

// run executes one subcommand.
func run(ctx context.Context, a *app.App, cmd string, args []string) error {
	switch cmd {

	case "health":
		h, err := a.Health.Check(ctx)
		if err != nil {
			return err
		}
		printJSON(h)

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "email")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		l := &form.Login{Email: *email, Password: *password}
		return a.Forms.Submit(ctx, l.Validate, func(ctx context.Context) error {
			return a.Identity.SignIn(ctx, l.Email, l.Password)
		})

	case "login-google":
		return a.Identity.SignInWithPopup(ctx)

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		r := &form.Registration{}
		fs.StringVar(&r.Email, "email", "", "email")
		fs.StringVar(&r.Password, "password", "", "password")
		fs.StringVar(&r.ConfirmPassword, "confirm", "", "password again")
		fs.StringVar(&r.FirstName, "first", "", "first name")
		fs.StringVar(&r.LastName, "last", "", "last name")
		userType := fs.String("type", "", "SELLER or CUSTOMER")
		fs.BoolVar(&r.AcceptTerms, "accept-terms", false, "accept the terms of use")
		_ = fs.Parse(args)
		r.UserType = model.UserType(*userType)

		return a.Forms.Submit(ctx, r.Validate, func(ctx context.Context) error {
			p, err := a.Identity.SignUp(ctx, r.Email, r.Password, r.Seed())
			if err != nil {
				return err
			}
			printJSON(p)
			return nil
		})

	case "logout":
		return a.Identity.SignOut(ctx)

	case "whoami":
		s, err := a.Profile.RequireAuth(ctx)
		if err != nil {
			return err
		}
		printJSON(struct {
			State   string         `json:"state"`
			Session *model.Session `json:"session"`
			Profile *model.Profile `json:"profile,omitempty"`
		}{s.State.String(), s.Session, s.Profile})

	case "profile":
		if _, err := a.Profile.RequireAuth(ctx); err != nil {
			return err
		}
		p, err := a.Profile.Reload(ctx)
		if err != nil {
			return err
		}
		printJSON(p)

	case "profile-update":
		fs := flag.NewFlagSet("profile-update", flag.ExitOnError)
		first := fs.String("first", "", "first name")
		last := fs.String("last", "", "last name")
		phone := fs.String("phone", "", "phone number")
		image := fs.String("image", "", "profile image URL")
		_ = fs.Parse(args)
		set := visited(fs)

		if _, err := a.Profile.RequireAuth(ctx); err != nil {
			return err
		}
		p, err := a.Profile.UpdateProfile(ctx, model.UpdateProfileRequest{
			FirstName:       opt(set, "first", *first),
			LastName:        opt(set, "last", *last),
			PhoneNumber:     opt(set, "phone", *phone),
			ProfileImageURL: opt(set, "image", *image),
		})
		if err != nil {
			return err
		}
		printJSON(p)

	case "display-name":
		fs := flag.NewFlagSet("display-name", flag.ExitOnError)
		name := fs.String("name", "", "display name")
		photo := fs.String("photo", "", "photo URL")
		_ = fs.Parse(args)
		if *name == "" {
			return errUsage
		}
		return a.Identity.UpdateDisplayName(ctx, *name, *photo)

	case "seller-info":
		fs := flag.NewFlagSet("seller-info", flag.ExitOnError)
		company := fs.String("company", "", "company name")
		license := fs.String("license", "", "business license")
		address := fs.String("address", "", "address")
		specs := fs.String("specializations", "", "comma separated brands or segments")
		_ = fs.Parse(args)
		set := visited(fs)

		if _, err := a.Profile.RequireSeller(ctx); err != nil {
			return err
		}
		req := model.UpdateSellerRequest{
			CompanyName:     opt(set, "company", form.Sanitize(*company)),
			BusinessLicense: opt(set, "license", form.Sanitize(*license)),
			Address:         opt(set, "address", form.Sanitize(*address)),
		}
		if set["specializations"] {
			req.Specializations = splitList(*specs)
		}
		p, err := a.Profile.UpdateSellerInfo(ctx, req)
		if err != nil {
			return err
		}
		printJSON(p)

	case "deactivate":
		if _, err := a.Profile.RequireAuth(ctx); err != nil {
			return err
		}
		if err := a.Users.Deactivate(ctx); err != nil {
			return err
		}
		return a.Identity.SignOut(ctx)

	case "sellers":
		fs := flag.NewFlagSet("sellers", flag.ExitOnError)
		spec := fs.String("specialization", "", "filter by specialization")
		_ = fs.Parse(args)

		var (
			sellers []model.Profile
			err     error
		)
		if *spec != "" {
			sellers, err = a.Users.SearchSellers(ctx, *spec)
		} else {
			sellers, err = a.Users.Sellers(ctx)
		}
		if err != nil {
			return err
		}
		printJSON(sellers)

	case "cars", "search":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		sf := bindSearch(fs)
		_ = fs.Parse(args)

		find := a.Cars.List
		if cmd == "search" {
			find = a.Cars.Search
		}
		page, err := find(ctx, sf.search(visited(fs)))
		if err != nil {
			return err
		}
		printJSON(page)

	case "car", "similar", "car-sold", "car-rm":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.String("id", "", "listing id")
		_ = fs.Parse(args)
		if *id == "" {
			return errUsage
		}
		return byID(ctx, a, cmd, *id)

	case "stats":
		s, err := a.Cars.Stats(ctx)
		if err != nil {
			return err
		}
		printJSON(s)

	case "my-cars":
		if _, err := a.Profile.RequireSeller(ctx); err != nil {
			return err
		}
		cars, err := a.Cars.Mine(ctx)
		if err != nil {
			return err
		}
		printJSON(cars)

	case "car-add":
		fs := flag.NewFlagSet("car-add", flag.ExitOnError)
		lf := bindListing(fs)
		_ = fs.Parse(args)
		req := lf.create(visited(fs))

		if _, err := a.Profile.RequireSeller(ctx); err != nil {
			return err
		}
		return a.Forms.Submit(ctx, func() error { return form.Listing(&req) }, func(ctx context.Context) error {
			l, err := a.Cars.Create(ctx, req)
			if err != nil {
				return err
			}
			printJSON(l)
			return nil
		})

	case "car-update":
		fs := flag.NewFlagSet("car-update", flag.ExitOnError)
		id := fs.String("id", "", "listing id")
		lf := bindListing(fs)
		_ = fs.Parse(args)
		if *id == "" {
			return errUsage
		}
		req := lf.update(visited(fs))

		if _, err := a.Profile.RequireSeller(ctx); err != nil {
			return err
		}
		return a.Forms.Submit(ctx, func() error { return form.ListingUpdate(&req) }, func(ctx context.Context) error {
			l, err := a.Cars.Update(ctx, *id, req)
			if err != nil {
				return err
			}
			printJSON(l)
			return nil
		})

	default:
		return errUsage
	}
	return nil
}

// byID runs the single-listing commands.
func byID(ctx context.Context, a *app.App, cmd, id string) error {
	switch cmd {
	case "car":
		l, err := a.Cars.Get(ctx, id)
		if err != nil {
			return err
		}
		printJSON(l)
	case "similar":
		ls, err := a.Cars.Similar(ctx, id)
		if err != nil {
			return err
		}
		printJSON(ls)
	case "car-sold":
		if _, err := a.Profile.RequireSeller(ctx); err != nil {
			return err
		}
		l, err := a.Cars.MarkSold(ctx, id)
		if err != nil {
			return err
		}
		printJSON(l)
	case "car-rm":
		if _, err := a.Profile.RequireSeller(ctx); err != nil {
			return err
		}
		return a.Cars.Delete(ctx, id)
	}
	return nil
}

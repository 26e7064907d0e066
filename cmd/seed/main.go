// Command seed loads a catalogue fixture (users, phones, offers, options)
// into the store through the same use cases the API uses.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/phonedex/internal/app"
	"github.com/kailas-cloud/phonedex/internal/config"
	"github.com/kailas-cloud/phonedex/internal/domain"
	dombatch "github.com/kailas-cloud/phonedex/internal/domain/batch"
	domoffer "github.com/kailas-cloud/phonedex/internal/domain/offer"
	domoption "github.com/kailas-cloud/phonedex/internal/domain/option"
	domphone "github.com/kailas-cloud/phonedex/internal/domain/phone"
	domuser "github.com/kailas-cloud/phonedex/internal/domain/user"
	logpkg "github.com/kailas-cloud/phonedex/internal/logger"
	offeruc "github.com/kailas-cloud/phonedex/internal/usecase/offer"
	useruc "github.com/kailas-cloud/phonedex/internal/usecase/user"
	"github.com/kailas-cloud/phonedex/internal/version"
)

func main() {
	file := flag.String("file", "fixtures/catalog.yaml", "fixture file (YAML or JSON)")
	flag.Parse()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Seeding catalogue", zap.String("version", version.String()), zap.String("file", *file))

	fx, err := loadFixture(*file)
	if err != nil {
		logger.Fatal("Failed to load fixture", zap.String("file", *file), zap.Error(err))
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer a.Close()

	s := &seeder{users: a.Users, phones: a.Phones, offers: a.Offers, options: a.Options, logger: logger}
	rep, err := s.run(ctx, fx)
	if err != nil {
		logger.Fatal("Seed failed", zap.Error(err))
	}

	logger.Info("Seed complete",
		zap.Int("users", rep.Users),
		zap.Int("phones", rep.Phones),
		zap.Int("offers", rep.Offers),
		zap.Int("offers_failed", rep.OffersFailed),
		zap.Int("options", rep.Options),
	)
}

// --- Fixture ---

type userFixture struct {
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Role     domuser.Role `json:"role"`
}

// offerFixture references its phone by slug; ids are assigned on insert.
type offerFixture struct {
	domoffer.Offer
	PhoneSlug string `json:"phone_slug"`
}

type fixture struct {
	Users   []userFixture      `json:"users"`
	Phones  []domphone.Phone   `json:"phones"`
	Offers  []offerFixture     `json:"offers"`
	Options []domoption.Option `json:"options"`
}

// loadFixture reads a YAML or JSON fixture. YAML is converted to JSON first
// so both formats decode through the documents' JSON field names.
func loadFixture(path string) (fixture, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fixture{}, fmt.Errorf("read fixture: %w", err)
	}

	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	raw, err := json.Marshal(tree)
	if err != nil {
		return fixture{}, fmt.Errorf("convert fixture: %w", err)
	}

	var fx fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		return fixture{}, fmt.Errorf("decode fixture: %w", err)
	}
	return fx, nil
}

// --- Seeding ---

type userCreator interface {
	Create(ctx context.Context, in useruc.Input) (useruc.Session, error)
}

type phoneCreator interface {
	Create(ctx context.Context, p *domphone.Phone) (domphone.Phone, error)
	GetBySlug(ctx context.Context, slug string) (domphone.Phone, error)
}

type offerCreator interface {
	AddBulk(ctx context.Context, items []offeruc.Input) []dombatch.Result
}

type optionCreator interface {
	Create(ctx context.Context, o *domoption.Option) (domoption.Option, error)
}

type seeder struct {
	users   userCreator
	phones  phoneCreator
	offers  offerCreator
	options optionCreator
	logger  *zap.Logger
}

type report struct {
	Users        int
	Phones       int
	Offers       int
	OffersFailed int
	Options      int
}

// run inserts the fixture. Existing users and phones (same email or slug) are kept;
// offers for an existing phone attach to it.
func (s *seeder) run(ctx context.Context, fx fixture) (report, error) {
	var rep report

	for _, u := range fx.Users {
		_, err := s.users.Create(ctx, useruc.Input{Name: u.Name, Email: u.Email, Password: u.Password, Role: u.Role})
		switch {
		case err == nil:
			rep.Users++
		case errors.Is(err, domain.ErrAlreadyExists):
			s.logger.Info("User exists, skipped", zap.String("email", u.Email))
		default:
			return rep, fmt.Errorf("user %s: %w", u.Email, err)
		}
	}

	ids := make(map[string]string, len(fx.Phones))
	for i := range fx.Phones {
		p := fx.Phones[i]
		created, err := s.phones.Create(ctx, &p)
		switch {
		case err == nil:
			rep.Phones++
			ids[created.Slug] = created.ID
		case errors.Is(err, domain.ErrAlreadyExists):
			existing, getErr := s.phones.GetBySlug(ctx, p.Slug)
			if getErr != nil {
				return rep, fmt.Errorf("phone %s: %w", p.Slug, getErr)
			}
			ids[existing.Slug] = existing.ID
			s.logger.Info("Phone exists, reused", zap.String("slug", p.Slug))
		default:
			return rep, fmt.Errorf("phone %s: %w", p.Name, err)
		}
	}

	if len(fx.Offers) > 0 {
		items := make([]offeruc.Input, len(fx.Offers))
		for i, o := range fx.Offers {
			items[i] = offeruc.Input{PhoneID: ids[o.PhoneSlug], Offer: o.Offer}
		}
		for _, res := range s.offers.AddBulk(ctx, items) {
			if res.Status() == dombatch.StatusOK {
				rep.Offers++
				continue
			}
			rep.OffersFailed++
			s.logger.Warn("Offer rejected",
				zap.Int("index", res.Index()),
				zap.String("phone_slug", fx.Offers[res.Index()].PhoneSlug),
				zap.Error(res.Err()),
			)
		}
	}

	for i := range fx.Options {
		o := fx.Options[i]
		if _, err := s.options.Create(ctx, &o); err != nil {
			return rep, fmt.Errorf("option %s: %w", o.Name, err)
		}
		rep.Options++
	}

	return rep, nil
}

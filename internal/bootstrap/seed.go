// Package bootstrap fills a development database with a demo profile.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"

	account "anoa.com/folio/internal/modules/account/service"
	post "anoa.com/folio/internal/modules/post/service"
	profile "anoa.com/folio/internal/modules/profile/service"
	"anoa.com/folio/internal/modules/resource/kind"
	resource "anoa.com/folio/internal/modules/resource/service"
	"anoa.com/folio/pkg/apperror"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

const (
	DemoUsername = "demo_user"
	DemoEmail    = "demo@folio.local"
)

// DemoAccountID is fixed so a development token can be minted for it.
var DemoAccountID = uuid.MustParse("0190c0de-0000-7000-8000-000000000001")

// Seeder creates demo data through the services so every record passes the
// same validation as user input.
type Seeder struct {
	Accounts  account.AccountService
	Profiles  profile.ProfileService
	Resources resource.ResourceService
	Posts     post.PostService

	faker *gofakeit.Faker
}

func NewSeeder(accounts account.AccountService, profiles profile.ProfileService, resources resource.ResourceService, posts post.PostService, seed int64) *Seeder {
	return &Seeder{
		Accounts:  accounts,
		Profiles:  profiles,
		Resources: resources,
		Posts:     posts,
		faker:     gofakeit.New(seed),
	}
}

// SeedDemo creates the demo account and profile with one published resource
// of every kind and a tagged post. It does nothing when the profile exists.
func (s *Seeder) SeedDemo(ctx context.Context) error {
	if _, err := s.Profiles.GetByUsername(ctx, DemoUsername); err == nil {
		log.Println("Demo profile already exists, skipping seed")
		return nil
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return err
	}

	if _, err := s.Accounts.Register(ctx, DemoAccountID, url.Values{"email": {DemoEmail}}); err != nil && !errors.Is(err, apperror.ErrConflict) {
		return fmt.Errorf("seed account: %w", err)
	}

	if _, err := s.Profiles.Create(ctx, DemoAccountID, url.Values{
		"username":     {DemoUsername},
		"display_name": {s.faker.Name()},
		"job_title":    {s.faker.JobTitle()},
		"location":     {s.faker.City()},
		"website":      {s.faker.URL()},
		"bio":          {"<p>" + s.faker.Sentence(12) + "</p>"},
	}); err != nil {
		return fmt.Errorf("seed profile: %w", err)
	}

	var project uuid.UUID
	for _, d := range kind.All() {
		res, err := s.Resources.Create(ctx, d.Name, DemoUsername, s.resourceForm(d))
		if err != nil {
			return fmt.Errorf("seed %s: %w", d.Name, err)
		}
		if d.Name == kind.Project {
			project = res.ID
		}
	}

	if _, err := s.Posts.Create(ctx, DemoUsername, url.Values{
		"title":         {s.faker.Sentence(4)},
		"content":       {"<p>" + s.faker.Paragraph(2, 3, 10, "</p><p>") + "</p>"},
		"by":            {s.faker.Name()},
		"published":     {"true"},
		"tags":          {`["notes","process"]`},
		"resource_kind": {kind.Project},
		"resource_id":   {project.String()},
	}); err != nil {
		return fmt.Errorf("seed post: %w", err)
	}

	log.Printf("✅ Demo profile %q seeded for account %s", DemoUsername, DemoAccountID)
	return nil
}

func (s *Seeder) resourceForm(d *kind.Descriptor) url.Values {
	start := s.faker.Number(2005, 2018)
	form := url.Values{kind.PublishedField: {"true"}}

	for _, f := range d.Fields {
		var v string
		switch f.Name {
		case "url":
			v = s.faker.URL()
		case "year", "from", "issued":
			v = strconv.Itoa(start)
		case "to":
			v = strconv.Itoa(start + s.faker.Number(1, 5))
		case "expires":
			v = "Does not expire"
		case "description":
			v = s.faker.Paragraph(1, 3, 10, " ")
		case "title", "name", "degree":
			v = s.faker.JobTitle()
		case "location":
			v = s.faker.City()
		default:
			v = s.faker.Company()
		}
		form.Set(f.Name, v)
	}
	return form
}

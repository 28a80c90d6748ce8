package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/swparks/sw-cli/internal/api"
	"github.com/swparks/sw-cli/internal/domain"
	"github.com/swparks/sw-cli/internal/resolve"
	"github.com/swparks/sw-cli/internal/validation"
)

// profileFlags are the user fields shared by register and profile edit.
type profileFlags struct {
	username  string
	fullName  string
	email     string
	gender    string
	country   string
	city      string
	birthDate string
}

func (p *profileFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&p.username, "username", "", "User name")
	f.StringVar(&p.fullName, "fullname", "", "Full name")
	f.StringVar(&p.email, "email", "", "Email address")
	f.StringVar(&p.gender, "gender", "", "Gender: male|female")
	f.StringVar(&p.country, "country", "", "Country name or id")
	f.StringVar(&p.city, "city", "", "City name or id")
	f.StringVar(&p.birthDate, "birth-date", "", "Birth date (YYYY-MM-DD)")
	flagAlias(f, "username", "name")
	flagAlias(f, "birth-date", "birthday")
}

// apply copies changed flags onto profile. Country and city names are
// looked up in the country list only when one of them changed.
func (p *profileFlags) apply(ctx context.Context, cmd *cobra.Command, client *api.Client, profile *domain.Profile) error {
	changed := cmd.Flags().Changed
	if changed("username") {
		if err := validation.ValidateName(p.username); err != nil {
			return usageErrorf("username: %v", err)
		}
		profile.Username = p.username
	}
	if changed("fullname") {
		if err := validation.ValidateName(p.fullName); err != nil {
			return usageErrorf("fullname: %v", err)
		}
		profile.FullName = p.fullName
	}
	if changed("email") {
		email := strings.TrimSpace(p.email)
		if err := validation.ValidateEmail(email); err != nil {
			return usageErrorf("%v", err)
		}
		profile.Email = email
	}
	if changed("gender") {
		gender, err := domain.ParseGender(p.gender)
		if err != nil {
			return usageErrorf("%v", err)
		}
		profile.Gender = gender
	}
	if changed("birth-date") {
		t, err := parseBirthDate(p.birthDate)
		if err != nil {
			return err
		}
		profile.BirthDate = t
	}
	if changed("country") || changed("city") {
		countryID, cityID, err := resolveLocation(ctx, client, p.country, p.city, profile.CountryID)
		if err != nil {
			return err
		}
		profile.CountryID = countryID
		if cityID != 0 {
			profile.CityID = cityID
		}
	}
	return nil
}

// resolveLocation turns country and city queries into ids. An empty country
// keeps currentCountry; a city without a country is searched everywhere and
// its country is derived from the match.
func resolveLocation(ctx context.Context, client *api.Client, country, city string, currentCountry int) (int, int, error) {
	countries, err := client.Countries().List(ctx)
	if err != nil {
		return 0, 0, err
	}

	countryID := currentCountry
	if country != "" {
		if countryID, err = resolve.Countries(countries).Lookup(country); err != nil {
			return 0, 0, usageErrorf("country: %v", err)
		}
	}
	if city == "" {
		return countryID, 0, nil
	}

	scope := countryID
	if country == "" {
		scope = 0
	}
	cityID, err := resolve.Cities(countries, scope).Lookup(city)
	if err != nil {
		return 0, 0, usageErrorf("city: %v", err)
	}
	if owner, _, ok := api.CityByID(countries, cityID); ok {
		countryID = int(owner.ID)
	}
	return countryID, cityID, nil
}

// cityLabel renders "City, Country" for text output, falling back to ids.
func cityLabel(countries []api.Country, cityID int) string {
	if country, city, ok := api.CityByID(countries, cityID); ok {
		return fmt.Sprintf("%s, %s", city.Name, country.Name)
	}
	if cityID == 0 {
		return "-"
	}
	return fmt.Sprintf("city %d", cityID)
}

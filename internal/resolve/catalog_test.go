package resolve_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swparks/sw-cli/internal/api"
	"github.com/swparks/sw-cli/internal/resolve"
)

var testCountries = []api.Country{
	{ID: 17, Name: "Россия", Cities: []api.City{
		{ID: 1, Name: "Москва"},
		{ID: 2, Name: "Санкт-Петербург"},
	}},
	{ID: 20, Name: "Беларусь", Cities: []api.City{
		{ID: 50, Name: "Минск"},
	}},
}

func TestLookup(t *testing.T) {
	cities := resolve.Cities(testCountries, 0)

	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{query: "50", want: 50},
		{query: " 2 ", want: 2},
		{query: "999", wantErr: true},
		{query: "минск", want: 50},
		{query: "МОСКВА", want: 1},
		{query: "петер", want: 2},
		{query: "oslo", wantErr: true},
		{query: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := cities.Lookup(tt.query)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookup_ExactNameBeatsLongerFuzzyHit(t *testing.T) {
	c := resolve.Catalog{{ID: 1, Name: "Москва"}, {ID: 2, Name: "Московский"}}
	id, err := c.Lookup("москва")
	require.NoError(t, err)
	assert.Equal(t, 1, id)
}

func TestLookup_Errors(t *testing.T) {
	c := resolve.Catalog{{ID: 1, Name: "Park North"}, {ID: 2, Name: "Park South"}}

	_, err := c.Lookup("park")
	var ambiguous *resolve.AmbiguousError
	require.True(t, errors.As(err, &ambiguous), "got %T: %v", err, err)
	assert.Len(t, ambiguous.Candidates, 2)
	assert.Contains(t, err.Error(), "Park North (1)")

	_, err = c.Lookup("7")
	var notFound *resolve.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "unknown id 7", err.Error())

	_, err = c.Lookup("  ")
	assert.ErrorIs(t, err, resolve.ErrEmptyQuery)
}

func TestSearch(t *testing.T) {
	c := resolve.Catalog{{ID: 1, Name: "Minsk"}, {ID: 2, Name: "Murmansk"}, {ID: 3, Name: "Omsk"}}

	got := c.Search("msk", 2)
	require.Len(t, got, 2)
	for _, n := range got {
		assert.True(t, strings.Contains(strings.ToLower(n.Name), "m"))
	}
	assert.Equal(t, c, c.Search("", 2))
	assert.Empty(t, c.Search("msk", 0))
	assert.Empty(t, c.Search("zzz", 5))
}

func TestCountriesAndCities(t *testing.T) {
	countries := resolve.Countries(testCountries)
	require.Len(t, countries, 2)
	assert.Equal(t, 20, countries[1].ID)

	assert.Len(t, resolve.Cities(testCountries, 0), 3)
	scoped := resolve.Cities(testCountries, 20)
	require.Len(t, scoped, 1)
	assert.Equal(t, "Минск", scoped[0].Name)
}

func TestParkKinds(t *testing.T) {
	id, err := resolve.ParkTypes.Lookup("legend")
	require.NoError(t, err)
	assert.Equal(t, api.ParkTypeLegendary, id)

	id, err = resolve.ParkSizes.Lookup("3")
	require.NoError(t, err)
	assert.Equal(t, api.ParkSizeLarge, id)

	assert.Equal(t, "modern", resolve.ParkTypes.Name(api.ParkTypeModern))
	assert.Equal(t, "42", resolve.ParkTypes.Name(42))
}

package resolve

import "github.com/swparks/sw-cli/internal/api"

// ParkTypes names the park types.
var ParkTypes = Catalog{
	{ID: api.ParkTypeSoviet, Name: "soviet"},
	{ID: api.ParkTypeModern, Name: "modern"},
	{ID: api.ParkTypeCollars, Name: "collars"},
	{ID: api.ParkTypeLegendary, Name: "legendary"},
}

// ParkSizes names the park sizes.
var ParkSizes = Catalog{
	{ID: api.ParkSizeSmall, Name: "small"},
	{ID: api.ParkSizeMedium, Name: "medium"},
	{ID: api.ParkSizeLarge, Name: "large"},
}

// Countries builds a catalog of countries.
func Countries(countries []api.Country) Catalog {
	c := make(Catalog, 0, len(countries))
	for _, country := range countries {
		c = append(c, Named{ID: int(country.ID), Name: country.Name})
	}
	return c
}

// Cities builds a catalog of cities: all of them, or those of countryID
// when it is positive.
func Cities(countries []api.Country, countryID int) Catalog {
	var c Catalog
	for _, country := range countries {
		if countryID > 0 && int(country.ID) != countryID {
			continue
		}
		for _, city := range country.Cities {
			c = append(c, Named{ID: int(city.ID), Name: city.Name})
		}
	}
	return c
}

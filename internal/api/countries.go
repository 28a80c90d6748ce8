package api

import "context"

// GetCountries lists countries with their cities.
type GetCountries struct{}

func (GetCountries) route() Route {
	return get("/countries", false)
}

// List retrieves all countries with cities. Served from the cache when one
// is configured.
func (s CountriesService) List(ctx context.Context) ([]Country, error) {
	return listCountries(ctx, s)
}

func listCountries(ctx context.Context, r Requester) ([]Country, error) {
	var result []Country
	if err := r.call(ctx, GetCountries{}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CityByID finds a city across countries.
func CityByID(countries []Country, id int) (*Country, *City, bool) {
	for i := range countries {
		for j := range countries[i].Cities {
			if int(countries[i].Cities[j].ID) == id {
				return &countries[i], &countries[i].Cities[j], true
			}
		}
	}
	return nil, nil, false
}

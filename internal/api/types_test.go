package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swparks/sw-cli/internal/domain"
)

func TestFlexInt_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input   string
		want    FlexInt
		wantErr bool
	}{
		{`42`, 42, false},
		{`"42"`, 42, false},
		{`""`, 0, false},
		{`null`, 0, false},
		{`"abc"`, 0, true},
		{`true`, 0, true},
	}

	for _, tt := range tests {
		var got FlexInt
		err := json.Unmarshal([]byte(tt.input), &got)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestFlexFloat(t *testing.T) {
	var f FlexFloat
	require.NoError(t, json.Unmarshal([]byte(`"55.751244"`), &f))
	assert.Equal(t, "55.751244", f.String())

	require.NoError(t, json.Unmarshal([]byte(`37.6`), &f))
	assert.Equal(t, "37.6", f.String())
}

func TestParseServerDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-05-01T09:00:00+03:00", time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)},
		{"2024-05-01T09:00:00", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)},
		{"2024-05-01 09:00:00", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)},
		{"1990-11-25", time.Date(1990, 11, 25, 0, 0, 0, 0, time.UTC)},
		{"", time.Time{}},
	}
	for _, tt := range tests {
		got, err := ParseServerDate(tt.input)
		require.NoError(t, err, tt.input)
		assert.True(t, tt.want.Equal(got), "%s: got %v", tt.input, got)
	}

	_, err := ParseServerDate("yesterday")
	assert.Error(t, err)
}

func TestUser_EffectiveAccessors(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id": 3, "name": "ann"}`), &u))
	assert.Equal(t, 0, u.EffectiveFriendsCount())
	assert.Equal(t, 0, u.EffectiveFriendRequestCount())
	assert.Equal(t, 0, u.EffectiveParksCount())
	assert.Equal(t, 0, u.EffectiveJournalsCount())
	assert.Equal(t, domain.GenderUnspecified, u.EffectiveGender())

	require.NoError(t, json.Unmarshal([]byte(`{"id": 3, "name": "ann", "gender": 1, "friends": "4", "area_count": 2}`), &u))
	assert.Equal(t, 4, u.EffectiveFriendsCount())
	assert.Equal(t, 2, u.EffectiveParksCount())
	assert.Equal(t, domain.GenderFemale, u.EffectiveGender())
}

func TestUser_ProfileForm(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 3, "name": "ann", "fullname": "Ann A", "email": "ann@example.com",
		"gender": 1, "country_id": 17, "city_id": 1, "birth_date": "1990-11-25"
	}`), &u))

	form := u.ProfileForm()
	assert.Equal(t, "ann", form.Username)
	assert.Equal(t, 17, form.CountryID)
	assert.Equal(t, 1990, form.BirthDate.Year())
	assert.False(t, form.IsReadyToSave(u.ProfileForm()), "unchanged profile is not ready to save")

	edited := form
	edited.FullName = "Ann B"
	assert.True(t, edited.IsReadyToSave(form))
}

func TestPark_EffectiveAccessors(t *testing.T) {
	p := Park{Comments: []Comment{{ID: 1}, {ID: 2}}, TrainingUsers: []User{{ID: 1}}}
	assert.Equal(t, 2, p.EffectiveCommentsCount())
	assert.Equal(t, 1, p.EffectiveTrainingUsersCount())
	assert.False(t, p.EffectiveTrainHere())

	count := FlexInt(10)
	train := true
	p.CommentsCount = &count
	p.TrainHere = &train
	assert.Equal(t, 10, p.EffectiveCommentsCount())
	assert.True(t, p.EffectiveTrainHere())
}

func TestPark_FormRoundTrip(t *testing.T) {
	var p Park
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 8, "address": "Main st", "latitude": "55.75", "longitude": "37.61",
		"city_id": 1, "type_id": 2, "class_id": 3,
		"photos": [{"id": 1, "photo": "a.jpg"}, {"id": 2, "photo": "b.jpg"}]
	}`), &p))

	old := p.Form()
	assert.Equal(t, "55.75", old.Latitude)
	assert.Equal(t, 2, old.PhotosCount)
	assert.False(t, old.IsReadyToUpdate(p.Form()))

	edited := old
	edited.Address = "Main st 2"
	assert.True(t, edited.IsReadyToUpdate(old))
}

func TestEvent_EffectiveAccessors(t *testing.T) {
	var e Event
	require.NoError(t, json.Unmarshal([]byte(`{"id": 1, "title": "Run", "training_users": [{"id": 1}, {"id": 2}]}`), &e))
	assert.Equal(t, 2, e.EffectiveParticipantsCount())
	assert.Equal(t, 0, e.EffectiveCommentsCount())
	assert.False(t, e.EffectiveIsCurrent())

	require.NoError(t, json.Unmarshal([]byte(`{"id": 1, "title": "Run", "user_count": 12, "is_current": true}`), &e))
	assert.Equal(t, 12, e.EffectiveParticipantsCount())
	assert.True(t, e.EffectiveIsCurrent())
}

func TestJournal_AccessRules(t *testing.T) {
	friends := FlexInt(domain.AccessFriends)
	j := Journal{ID: 1, OwnerID: 2, CommentAccess: &friends}
	acting := 1

	assert.True(t, j.CanCreateEntry(&acting, []int{2, 3}))
	assert.False(t, j.CanCreateEntry(&acting, []int{3}))
	assert.False(t, j.CanCreateEntry(nil, []int{2}))
	assert.True(t, j.CanView(nil, nil), "view access defaults to all")
}

func TestCityByID(t *testing.T) {
	countries := []Country{
		{ID: 1, Name: "A", Cities: []City{{ID: 10, Name: "a1"}}},
		{ID: 2, Name: "B", Cities: []City{{ID: 20, Name: "b1"}, {ID: 21, Name: "b2"}}},
	}
	country, city, ok := CityByID(countries, 21)
	require.True(t, ok)
	assert.Equal(t, "B", country.Name)
	assert.Equal(t, "b2", city.Name)

	_, _, ok = CityByID(countries, 99)
	assert.False(t, ok)
}

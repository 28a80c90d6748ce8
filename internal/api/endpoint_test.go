package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swparks/sw-cli/internal/domain"
)

type routeCase struct {
	endpoint  Endpoint
	method    string
	path      string
	auth      bool
	multipart bool
}

func allRouteCases() []routeCase {
	since := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	return []routeCase{
		{Registration{Form: domain.NewRegistrationForm()}, http.MethodPost, "/registration", false, false},
		{Login{}, http.MethodPost, "/auth/login", true, false},
		{ResetPassword{Login: "a"}, http.MethodPost, "/auth/reset", false, false},
		{ChangePassword{Current: "a", New: "b"}, http.MethodPost, "/auth/changepass", true, false},
		{GetUser{ID: 1}, http.MethodGet, "/users/1", true, false},
		{EditUser{ID: 1}, http.MethodPost, "/users/1", true, false},
		{DeleteUser{}, http.MethodDelete, "/users/current", true, false},
		{FindUsers{Name: "x"}, http.MethodGet, "/users/search", true, false},
		{GetFriends{UserID: 1}, http.MethodGet, "/users/1/friends", true, false},
		{GetFriendRequests{}, http.MethodGet, "/friends/requests", true, false},
		{AcceptFriendRequest{UserID: 2}, http.MethodPost, "/friends/2/accept", true, false},
		{DeclineFriendRequest{UserID: 2}, http.MethodDelete, "/friends/2/accept", true, false},
		{SendFriendRequest{UserID: 2}, http.MethodPost, "/friends/2", true, false},
		{DeleteFriend{UserID: 2}, http.MethodDelete, "/friends/2", true, false},
		{GetBlacklist{}, http.MethodGet, "/blacklist", true, false},
		{AddToBlacklist{UserID: 3}, http.MethodPost, "/blacklist/3", true, false},
		{RemoveFromBlacklist{UserID: 3}, http.MethodDelete, "/blacklist/3", true, false},
		{GetAllParks{}, http.MethodGet, "/areas", false, false},
		{GetUpdatedParks{Since: since}, http.MethodGet, "/areas/last/2024-03-01T10:30:00", false, false},
		{GetPark{ID: 4}, http.MethodGet, "/areas/4", true, false},
		{CreatePark{}, http.MethodPost, "/areas", true, true},
		{EditPark{ID: 4}, http.MethodPost, "/areas/4", true, true},
		{DeletePark{ID: 4}, http.MethodDelete, "/areas/4", true, false},
		{GetParksForUser{UserID: 1}, http.MethodGet, "/users/1/areas", true, false},
		{PostTrainHere{ParkID: 4}, http.MethodPost, "/areas/4/train", true, false},
		{DeleteTrainHere{ParkID: 4}, http.MethodDelete, "/areas/4/train", true, false},
		{AddParkComment{ParkID: 4, Text: "t"}, http.MethodPost, "/areas/4/comments", true, false},
		{EditParkComment{ParkID: 4, CommentID: 5, Text: "t"}, http.MethodPost, "/areas/4/comments/5", true, false},
		{DeleteParkComment{ParkID: 4, CommentID: 5}, http.MethodDelete, "/areas/4/comments/5", true, false},
		{DeleteParkPhoto{ParkID: 4, PhotoID: 6}, http.MethodDelete, "/areas/4/photos/6", true, false},
		{GetFutureEvents{}, http.MethodGet, "/trainings/current", false, false},
		{GetPastEvents{}, http.MethodGet, "/trainings/last", false, false},
		{GetEvent{ID: 7}, http.MethodGet, "/trainings/7", true, false},
		{CreateEvent{}, http.MethodPost, "/trainings", true, true},
		{EditEvent{ID: 7}, http.MethodPost, "/trainings/7", true, true},
		{DeleteEvent{ID: 7}, http.MethodDelete, "/trainings/7", true, false},
		{PostGoToEvent{EventID: 7}, http.MethodPost, "/trainings/7/go", true, false},
		{DeleteGoToEvent{EventID: 7}, http.MethodDelete, "/trainings/7/go", true, false},
		{AddEventComment{EventID: 7, Text: "t"}, http.MethodPost, "/trainings/7/comments", true, false},
		{EditEventComment{EventID: 7, CommentID: 8, Text: "t"}, http.MethodPost, "/trainings/7/comments/8", true, false},
		{DeleteEventComment{EventID: 7, CommentID: 8}, http.MethodDelete, "/trainings/7/comments/8", true, false},
		{DeleteEventPhoto{EventID: 7, PhotoID: 9}, http.MethodDelete, "/trainings/7/photos/9", true, false},
		{GetDialogs{}, http.MethodGet, "/dialogs", true, false},
		{GetMessages{DialogID: 10}, http.MethodGet, "/dialogs/10/messages", true, false},
		{SendMessage{UserID: 11, Text: "hi"}, http.MethodPost, "/messages/11", true, false},
		{MarkAsRead{UserID: 11}, http.MethodPost, "/messages/mark_as_read", true, false},
		{DeleteDialog{DialogID: 10}, http.MethodDelete, "/dialogs/10", true, false},
		{GetJournals{UserID: 1}, http.MethodGet, "/users/1/journals", true, false},
		{GetJournal{UserID: 1, JournalID: 2}, http.MethodGet, "/users/1/journals/2", true, false},
		{CreateJournal{UserID: 1, Title: "t"}, http.MethodPost, "/users/1/journals", true, false},
		{EditJournalSettings{UserID: 1, JournalID: 2}, http.MethodPut, "/users/1/journals/2", true, false},
		{DeleteJournal{UserID: 1, JournalID: 2}, http.MethodDelete, "/users/1/journals/2", true, false},
		{GetJournalEntries{UserID: 1, JournalID: 2}, http.MethodGet, "/users/1/journals/2/messages", true, false},
		{SaveJournalEntry{UserID: 1, JournalID: 2, Text: "t"}, http.MethodPost, "/users/1/journals/2/messages", true, false},
		{EditJournalEntry{UserID: 1, JournalID: 2, EntryID: 3, Text: "t"}, http.MethodPut, "/users/1/journals/2/messages/3", true, false},
		{DeleteJournalEntry{UserID: 1, JournalID: 2, EntryID: 3}, http.MethodDelete, "/users/1/journals/2/messages/3", true, false},
		{GetCountries{}, http.MethodGet, "/countries", false, false},
	}
}

func TestEndpointRoutes(t *testing.T) {
	for _, tc := range allRouteCases() {
		r := RouteOf(tc.endpoint)
		name := tc.method + " " + tc.path
		assert.Equal(t, tc.method, r.Method, name)
		assert.Equal(t, tc.path, r.Path, name)
		assert.Equal(t, tc.auth, r.NeedAuth, name)
		assert.Equal(t, tc.multipart, r.Multipart, name)
	}
}

func TestEndpointRoutes_UniqueMethodAndPath(t *testing.T) {
	seen := map[string]Endpoint{}
	for _, tc := range allRouteCases() {
		r := RouteOf(tc.endpoint)
		key := r.Method + " " + r.Path
		if prev, ok := seen[key]; ok {
			t.Errorf("%T and %T both map to %s", prev, tc.endpoint, key)
		}
		seen[key] = tc.endpoint
	}
}

func TestEndpointRoutes_AcceptDeclineDifferByMethod(t *testing.T) {
	accept := RouteOf(AcceptFriendRequest{UserID: 5})
	decline := RouteOf(DeclineFriendRequest{UserID: 5})
	assert.Equal(t, accept.Path, decline.Path)
	assert.NotEqual(t, accept.Method, decline.Method)
}

func TestEndpointRoutes_MethodFamilies(t *testing.T) {
	puts := 0
	for _, tc := range allRouteCases() {
		if RouteOf(tc.endpoint).Method == http.MethodPut {
			puts++
		}
	}
	assert.Equal(t, 2, puts, "only journal settings and entry edits use PUT")
}

func TestRouteURL(t *testing.T) {
	tests := []struct {
		name     string
		endpoint Endpoint
		base     string
		want     string
	}{
		{"no query", GetDialogs{}, "https://workout.su/api/v3", "https://workout.su/api/v3/dialogs"},
		{"trailing slash", GetDialogs{}, "https://workout.su/api/v3/", "https://workout.su/api/v3/dialogs"},
		{"fixed query", GetAllParks{}, "https://h", "https://h/areas?fields=short"},
		{"escaped query", FindUsers{Name: "Иван P&T"}, "https://h", "https://h/users/search?name=%D0%98%D0%B2%D0%B0%D0%BD+P%26T"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RouteOf(tt.endpoint).URL(tt.base))
		})
	}
}

func TestRouteURL_EmptyQueryHasNoQuestionMark(t *testing.T) {
	r := Route{Path: "/dialogs", Query: []QueryItem{}}
	assert.Equal(t, "https://h/dialogs", r.URL("https://h"))
}

func TestEndpointParams(t *testing.T) {
	r := RouteOf(EditJournalSettings{UserID: 1, JournalID: 2, Title: "Log", View: domain.AccessFriends, Comment: domain.AccessNobody})
	assert.Equal(t, []Param{
		{Key: "title", Value: "Log"},
		{Key: "view_access", Value: "1"},
		{Key: "comment_access", Value: "2"},
	}, r.Params)

	r = RouteOf(MarkAsRead{UserID: 42})
	assert.Equal(t, []Param{{Key: "from_user_id", Value: "42"}}, r.Params)

	r = RouteOf(GetDialogs{})
	assert.Empty(t, r.Params)
}

func TestBuild(t *testing.T) {
	session := &fakeSession{token: "dG9rZW4="}

	t.Run("auth header only when needed", func(t *testing.T) {
		req, err := Build("https://h", GetDialogs{}, session, "")
		require.NoError(t, err)
		assert.Equal(t, "Basic dG9rZW4=", req.Header.Get("Authorization"))
		assert.Nil(t, req.Body)
		assert.Empty(t, req.Header.Get("Content-Type"))

		req, err = Build("https://h", GetCountries{}, session, "")
		require.NoError(t, err)
		assert.Empty(t, req.Header.Get("Authorization"))
	})

	t.Run("no token no header", func(t *testing.T) {
		req, err := Build("https://h", GetDialogs{}, &fakeSession{}, "")
		require.NoError(t, err)
		assert.Empty(t, req.Header.Get("Authorization"))
	})

	t.Run("url-encoded body", func(t *testing.T) {
		req, err := Build("https://h", AddParkComment{ParkID: 1, Text: "great bars"}, session, "")
		require.NoError(t, err)
		assert.Equal(t, "application/x-www-form-urlencoded", req.Header.Get("Content-Type"))
		assert.Equal(t, "comment=great+bars", string(req.Body))
	})

	t.Run("multipart body with custom boundary", func(t *testing.T) {
		form := domain.EventForm{Title: "Run", Description: "Morning", ParkID: 3, Date: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
		req, err := Build("https://h", CreateEvent{Form: form}, session, "XyZ")
		require.NoError(t, err)
		assert.Equal(t, "multipart/form-data; boundary=XyZ", req.Header.Get("Content-Type"))
		assert.Contains(t, string(req.Body), "name=\"date\"\r\n\r\n2024-05-01T09:00:00\r\n")
		assert.Contains(t, string(req.Body), "--XyZ--\r\n")
	})

	t.Run("nil endpoint", func(t *testing.T) {
		_, err := Build("https://h", nil, session, "")
		assert.Error(t, err)
	})
}

func TestCacheable(t *testing.T) {
	assert.True(t, cacheable(GetAllParks{}))
	assert.True(t, cacheable(GetCountries{}))
	assert.False(t, cacheable(GetPark{ID: 1}))
	assert.False(t, cacheable(GetFutureEvents{}))
}

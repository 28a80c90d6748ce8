package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/swparks/sw-cli/internal/domain"
)

// Park types
const (
	ParkTypeSoviet    = 1
	ParkTypeModern    = 2
	ParkTypeCollars   = 3
	ParkTypeLegendary = 6
)

// Park sizes
const (
	ParkSizeSmall  = 1
	ParkSizeMedium = 2
	ParkSizeLarge  = 3
)

// serverDateLayouts are the formats seen in date fields, most specific first.
var serverDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseServerDate parses a date string in any format the API sends. Blank
// input returns the zero time without error.
func ParseServerDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range serverDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func serverTime(s string) time.Time {
	t, _ := ParseServerDate(s)
	return t
}

// FlexInt handles JSON numbers that may come as strings or integers
type FlexInt int

func (fi *FlexInt) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var i int
	if err := json.Unmarshal(data, &i); err == nil {
		*fi = FlexInt(i)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*fi = 0
			return nil
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*fi = FlexInt(i)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into FlexInt", data)
}

// FlexFloat handles JSON numbers that may come as strings or numbers
type FlexFloat float64

func (ff *FlexFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*ff = FlexFloat(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*ff = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*ff = FlexFloat(f)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into FlexFloat", data)
}

// String formats the value without trailing zeros, the way the server
// expects coordinates in forms.
func (ff FlexFloat) String() string {
	return strconv.FormatFloat(float64(ff), 'f', -1, 64)
}

// LoginResponse is returned by /auth/login.
type LoginResponse struct {
	UserID FlexInt `json:"user_id"`
}

// User is a public profile. Counters are optional on the wire.
type User struct {
	ID                 FlexInt  `json:"id"`
	Name               string   `json:"name"`
	FullName           string   `json:"fullname,omitempty"`
	Email              string   `json:"email,omitempty"`
	Image              string   `json:"image,omitempty"`
	Gender             *FlexInt `json:"gender,omitempty"`
	CountryID          *FlexInt `json:"country_id,omitempty"`
	CityID             *FlexInt `json:"city_id,omitempty"`
	BirthDate          string   `json:"birth_date,omitempty"`
	FriendsCount       *FlexInt `json:"friends,omitempty"`
	FriendRequestCount *FlexInt `json:"friend_requests,omitempty"`
	ParksCount         *FlexInt `json:"area_count,omitempty"`
	JournalsCount      *FlexInt `json:"journal_count,omitempty"`
	AddedParks         []Park   `json:"added_areas,omitempty"`
}

// EffectiveFriendsCount is FriendsCount or 0.
func (u *User) EffectiveFriendsCount() int {
	return derefInt(u.FriendsCount)
}

// EffectiveFriendRequestCount is FriendRequestCount or 0.
func (u *User) EffectiveFriendRequestCount() int {
	return derefInt(u.FriendRequestCount)
}

// EffectiveParksCount is ParksCount or 0.
func (u *User) EffectiveParksCount() int {
	return derefInt(u.ParksCount)
}

// EffectiveJournalsCount is JournalsCount or 0.
func (u *User) EffectiveJournalsCount() int {
	return derefInt(u.JournalsCount)
}

// EffectiveGender is the wire gender or GenderUnspecified when absent.
func (u *User) EffectiveGender() domain.Gender {
	if u.Gender == nil {
		return domain.GenderUnspecified
	}
	return domain.Gender(*u.Gender)
}

// BirthDateTime parses BirthDate; zero when absent or malformed.
func (u *User) BirthDateTime() time.Time {
	return serverTime(u.BirthDate)
}

// ProfileForm builds the edit-profile snapshot for this user.
func (u *User) ProfileForm() domain.EditProfileForm {
	return domain.EditProfileForm{
		Profile: domain.Profile{
			Username:  u.Name,
			FullName:  u.FullName,
			Email:     u.Email,
			Gender:    u.EffectiveGender(),
			CountryID: derefInt(u.CountryID),
			CityID:    derefInt(u.CityID),
			BirthDate: u.BirthDateTime(),
		},
		AgeLimit: domain.AgeLimit{MinAge: domain.DefaultMinAge},
	}
}

// Comment is a park or event comment.
type Comment struct {
	ID   FlexInt `json:"id"`
	Body string  `json:"body"`
	Date string  `json:"date"`
	User *User   `json:"user,omitempty"`
}

// DateTime parses Date; zero when absent or malformed.
func (c *Comment) DateTime() time.Time {
	return serverTime(c.Date)
}

// Park is a workout ground. The list endpoint returns only the short form.
type Park struct {
	ID                 FlexInt        `json:"id"`
	Name               string         `json:"name,omitempty"`
	Address            string         `json:"address,omitempty"`
	Latitude           FlexFloat      `json:"latitude"`
	Longitude          FlexFloat      `json:"longitude"`
	CityID             FlexInt        `json:"city_id"`
	CountryID          FlexInt        `json:"country_id"`
	TypeID             FlexInt        `json:"type_id"`
	SizeID             FlexInt        `json:"class_id"`
	Preview            string         `json:"preview,omitempty"`
	AuthorID           *FlexInt       `json:"author_id,omitempty"`
	AuthorName         string         `json:"author_name,omitempty"`
	CreateDate         string         `json:"create_date,omitempty"`
	ModifyDate         string         `json:"modify_date,omitempty"`
	CommentsCount      *FlexInt       `json:"comments_count,omitempty"`
	TrainingUsersCount *FlexInt       `json:"trainings,omitempty"`
	TrainHere          *bool          `json:"train_here,omitempty"`
	Photos             []domain.Photo `json:"photos,omitempty"`
	Comments           []Comment      `json:"comments,omitempty"`
	TrainingUsers      []User         `json:"users_train_here,omitempty"`
}

// EffectiveCommentsCount prefers the counter, falling back to the loaded
// comments.
func (p *Park) EffectiveCommentsCount() int {
	if p.CommentsCount != nil {
		return int(*p.CommentsCount)
	}
	return len(p.Comments)
}

// EffectiveTrainingUsersCount prefers the counter, falling back to the
// loaded users.
func (p *Park) EffectiveTrainingUsersCount() int {
	if p.TrainingUsersCount != nil {
		return int(*p.TrainingUsersCount)
	}
	return len(p.TrainingUsers)
}

// EffectiveTrainHere is TrainHere or false.
func (p *Park) EffectiveTrainHere() bool {
	return p.TrainHere != nil && *p.TrainHere
}

// IsAuthor reports whether userID created the park.
func (p *Park) IsAuthor(userID int) bool {
	return p.AuthorID != nil && int(*p.AuthorID) == userID
}

// ModifiedAt parses ModifyDate, falling back to CreateDate.
func (p *Park) ModifiedAt() time.Time {
	if t := serverTime(p.ModifyDate); !t.IsZero() {
		return t
	}
	return serverTime(p.CreateDate)
}

// Form builds the edit snapshot for this park. New photos start empty.
func (p *Park) Form() domain.ParkForm {
	return domain.ParkForm{
		Address:     p.Address,
		Latitude:    p.Latitude.String(),
		Longitude:   p.Longitude.String(),
		CityID:      int(p.CityID),
		TypeID:      int(p.TypeID),
		SizeID:      int(p.SizeID),
		PhotosCount: len(p.Photos),
	}
}

// Event is a training event.
type Event struct {
	ID                FlexInt        `json:"id"`
	Title             string         `json:"title"`
	Description       string         `json:"description,omitempty"`
	BeginDate         string         `json:"begin_date,omitempty"`
	ParkID            FlexInt        `json:"area_id"`
	ParkName          string         `json:"name,omitempty"`
	Address           string         `json:"address,omitempty"`
	CityID            FlexInt        `json:"city_id"`
	CountryID         FlexInt        `json:"country_id"`
	Latitude          FlexFloat      `json:"latitude"`
	Longitude         FlexFloat      `json:"longitude"`
	Preview           string         `json:"preview,omitempty"`
	IsCurrent         *bool          `json:"is_current,omitempty"`
	Author            *User          `json:"author,omitempty"`
	CommentsCount     *FlexInt       `json:"comment_count,omitempty"`
	ParticipantsCount *FlexInt       `json:"user_count,omitempty"`
	TrainHere         *bool          `json:"train_here,omitempty"`
	Photos            []domain.Photo `json:"photos,omitempty"`
	Comments          []Comment      `json:"comments,omitempty"`
	Participants      []User         `json:"training_users,omitempty"`
}

// EffectiveParticipantsCount prefers the counter, falling back to the
// loaded participants.
func (e *Event) EffectiveParticipantsCount() int {
	if e.ParticipantsCount != nil {
		return int(*e.ParticipantsCount)
	}
	return len(e.Participants)
}

// EffectiveCommentsCount prefers the counter, falling back to the loaded
// comments.
func (e *Event) EffectiveCommentsCount() int {
	if e.CommentsCount != nil {
		return int(*e.CommentsCount)
	}
	return len(e.Comments)
}

// EffectiveIsCurrent is IsCurrent or false.
func (e *Event) EffectiveIsCurrent() bool {
	return e.IsCurrent != nil && *e.IsCurrent
}

// EffectiveTrainHere is TrainHere or false.
func (e *Event) EffectiveTrainHere() bool {
	return e.TrainHere != nil && *e.TrainHere
}

// BeginTime parses BeginDate; zero when absent or malformed.
func (e *Event) BeginTime() time.Time {
	return serverTime(e.BeginDate)
}

// Form builds the edit snapshot for this event.
func (e *Event) Form() domain.EventForm {
	return domain.EventForm{
		Title:       e.Title,
		Description: e.Description,
		Date:        e.BeginTime(),
		ParkID:      int(e.ParkID),
		ParkName:    e.ParkName,
		PhotosCount: len(e.Photos),
	}
}

// Dialog is a conversation with one other user.
type Dialog struct {
	ID              FlexInt  `json:"dialog_id"`
	UserID          FlexInt  `json:"anketa_id"`
	Name            string   `json:"name"`
	Image           string   `json:"image,omitempty"`
	LastMessageText string   `json:"last_message_text,omitempty"`
	LastMessageDate string   `json:"last_message_date,omitempty"`
	UnreadCount     *FlexInt `json:"count,omitempty"`
}

// EffectiveUnreadCount is UnreadCount or 0.
func (d *Dialog) EffectiveUnreadCount() int {
	return derefInt(d.UnreadCount)
}

// LastMessageTime parses LastMessageDate; zero when absent or malformed.
func (d *Dialog) LastMessageTime() time.Time {
	return serverTime(d.LastMessageDate)
}

// Message is one entry of a dialog.
type Message struct {
	ID      FlexInt `json:"id"`
	UserID  FlexInt `json:"user_id"`
	Name    string  `json:"name,omitempty"`
	Text    string  `json:"message"`
	Created string  `json:"created"`
}

// CreatedTime parses Created; zero when absent or malformed.
func (m *Message) CreatedTime() time.Time {
	return serverTime(m.Created)
}

// Journal is a training diary.
type Journal struct {
	ID              FlexInt  `json:"journal_id"`
	OwnerID         FlexInt  `json:"owner_id"`
	Title           string   `json:"title"`
	LastMessageText string   `json:"last_message_text,omitempty"`
	LastMessageDate string   `json:"last_message_date,omitempty"`
	CreateDate      string   `json:"create_date,omitempty"`
	ModifyDate      string   `json:"modify_date,omitempty"`
	EntriesCount    *FlexInt `json:"count,omitempty"`
	ViewAccess      *FlexInt `json:"view_access,omitempty"`
	CommentAccess   *FlexInt `json:"comment_access,omitempty"`
}

// EffectiveEntriesCount is EntriesCount or 0.
func (j *Journal) EffectiveEntriesCount() int {
	return derefInt(j.EntriesCount)
}

// EffectiveViewAccess is ViewAccess or AccessAll when absent.
func (j *Journal) EffectiveViewAccess() domain.AccessLevel {
	return accessOrAll(j.ViewAccess)
}

// EffectiveCommentAccess is CommentAccess or AccessAll when absent.
func (j *Journal) EffectiveCommentAccess() domain.AccessLevel {
	return accessOrAll(j.CommentAccess)
}

// CanCreateEntry applies the comment access rule for actingUserID.
func (j *Journal) CanCreateEntry(actingUserID *int, friendIDs []int) bool {
	return domain.CanCreateJournalEntry(int(j.OwnerID), j.EffectiveCommentAccess(), actingUserID, friendIDs)
}

// CanView applies the view access rule for actingUserID.
func (j *Journal) CanView(actingUserID *int, friendIDs []int) bool {
	return domain.CanViewJournal(int(j.OwnerID), j.EffectiveViewAccess(), actingUserID, friendIDs)
}

// JournalEntry is one diary post.
type JournalEntry struct {
	ID         FlexInt `json:"id"`
	JournalID  FlexInt `json:"journal_id"`
	UserID     FlexInt `json:"user_id"`
	Name       string  `json:"name,omitempty"`
	Image      string  `json:"image,omitempty"`
	Text       string  `json:"message"`
	CreateDate string  `json:"create_date,omitempty"`
	ModifyDate string  `json:"modify_date,omitempty"`
}

// CreatedTime parses CreateDate; zero when absent or malformed.
func (e *JournalEntry) CreatedTime() time.Time {
	return serverTime(e.CreateDate)
}

// City belongs to a Country.
type City struct {
	ID        FlexInt   `json:"id"`
	Name      string    `json:"name"`
	Latitude  FlexFloat `json:"lat"`
	Longitude FlexFloat `json:"lon"`
}

// Country with its cities.
type Country struct {
	ID     FlexInt `json:"id"`
	Name   string  `json:"name"`
	Cities []City  `json:"cities"`
}

func derefInt(v *FlexInt) int {
	if v == nil {
		return 0
	}
	return int(*v)
}

func accessOrAll(v *FlexInt) domain.AccessLevel {
	if v == nil {
		return domain.AccessAll
	}
	return domain.AccessLevel(*v)
}

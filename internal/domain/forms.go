package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultMinAge is the youngest age allowed to register, in years.
const DefaultMinAge = 13

// BirthDateLayout is the wire format for birth dates.
const BirthDateLayout = "2006-01-02"

// EventDateLayout is the wire format for event start times.
const EventDateLayout = "2006-01-02T15:04:05"

// Param is one form field in the order it is sent.
type Param struct {
	Key   string
	Value string
}

// Gender is the server's gender code.
type Gender int

const (
	GenderUnspecified Gender = -1
	GenderMale        Gender = 0
	GenderFemale      Gender = 1
)

func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	default:
		return "unspecified"
	}
}

// ParseGender accepts "male", "female" or the numeric code.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m", "0":
		return GenderMale, nil
	case "female", "f", "1":
		return GenderFemale, nil
	case "", "unspecified":
		return GenderUnspecified, nil
	default:
		return GenderUnspecified, fmt.Errorf("invalid gender %q: must be male or female", s)
	}
}

// Profile holds the fields shared by registration and profile editing.
type Profile struct {
	Username  string
	FullName  string
	Email     string
	Gender    Gender
	CountryID int
	CityID    int
	BirthDate time.Time
}

func (p Profile) params() []Param {
	return []Param{
		{Key: "name", Value: p.Username},
		{Key: "fullname", Value: p.FullName},
		{Key: "email", Value: p.Email},
		{Key: "gender", Value: strconv.Itoa(int(p.Gender))},
		{Key: "country_id", Value: strconv.Itoa(p.CountryID)},
		{Key: "city_id", Value: strconv.Itoa(p.CityID)},
		{Key: "birth_date", Value: p.BirthDate.Format(BirthDateLayout)},
	}
}

func (p Profile) isComplete(maxBirthDate time.Time) bool {
	return !isBlank(p.Username) &&
		!isBlank(p.Email) &&
		p.Gender != GenderUnspecified &&
		!p.BirthDate.IsZero() &&
		!dateOnly(p.BirthDate).After(maxBirthDate)
}

// AgeLimit computes the latest allowed birth date for a minimum age.
type AgeLimit struct {
	MinAge int
	Now    func() time.Time
}

// MaxBirthDate is today minus MinAge years, truncated to the date.
func (a AgeLimit) MaxBirthDate() time.Time {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	minAge := a.MinAge
	if minAge <= 0 {
		minAge = DefaultMinAge
	}
	return dateOnly(now()).AddDate(-minAge, 0, 0)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// RegistrationForm is the sign-up form.
type RegistrationForm struct {
	Profile
	Password        string
	MinPasswordSize int
	AgeLimit        AgeLimit
}

// NewRegistrationForm returns an empty form with default constraints.
func NewRegistrationForm() RegistrationForm {
	return RegistrationForm{
		Profile:         Profile{Gender: GenderUnspecified},
		MinPasswordSize: DefaultMinPasswordSize,
		AgeLimit:        AgeLimit{MinAge: DefaultMinAge},
	}
}

// IsReady reports whether the form can be submitted.
func (f RegistrationForm) IsReady() bool {
	minSize := f.MinPasswordSize
	if minSize <= 0 {
		minSize = DefaultMinPasswordSize
	}
	return f.isComplete(f.AgeLimit.MaxBirthDate()) && TrueCount(f.Password) >= minSize
}

// Params returns the fields in wire order.
func (f RegistrationForm) Params() []Param {
	params := f.params()
	// password goes after email
	out := make([]Param, 0, len(params)+1)
	out = append(out, params[:3]...)
	out = append(out, Param{Key: "password", Value: f.Password})
	return append(out, params[3:]...)
}

// EditProfileForm edits the signed-in user's profile.
type EditProfileForm struct {
	Profile
	AgeLimit AgeLimit
}

// IsReadyToSave requires the registration fields (without the password) and
// a change relative to the saved snapshot.
func (f EditProfileForm) IsReadyToSave(saved EditProfileForm) bool {
	return f.isComplete(f.AgeLimit.MaxBirthDate()) && !f.Equal(saved)
}

// Equal compares the editable fields.
func (f EditProfileForm) Equal(other EditProfileForm) bool {
	return f.Username == other.Username &&
		f.FullName == other.FullName &&
		f.Email == other.Email &&
		f.Gender == other.Gender &&
		f.CountryID == other.CountryID &&
		f.CityID == other.CityID &&
		f.BirthDate.Equal(other.BirthDate)
}

// Params returns the fields in wire order.
func (f EditProfileForm) Params() []Param {
	return f.params()
}

// ParkForm creates or edits a park.
type ParkForm struct {
	Address     string
	Latitude    string
	Longitude   string
	CityID      int
	TypeID      int
	SizeID      int
	PhotosCount int
	Photos      []MediaAttachment
}

// IsReadyToCreate requires an address, coordinates, a city and at least one
// new photo.
func (f ParkForm) IsReadyToCreate() bool {
	return f.hasLocation() && len(f.Photos) > 0
}

// IsReadyToUpdate requires the location fields, at least one photo counting
// those already on the server, and a change relative to old.
func (f ParkForm) IsReadyToUpdate(old ParkForm) bool {
	return f.hasLocation() && f.PhotosCount+len(f.Photos) > 0 && !f.Equal(old)
}

func (f ParkForm) hasLocation() bool {
	return !isBlank(f.Address) && !isBlank(f.Latitude) && !isBlank(f.Longitude) && f.CityID != 0
}

// Equal is full field-wise equality including attachments.
func (f ParkForm) Equal(other ParkForm) bool {
	return f.Address == other.Address &&
		f.Latitude == other.Latitude &&
		f.Longitude == other.Longitude &&
		f.CityID == other.CityID &&
		f.TypeID == other.TypeID &&
		f.SizeID == other.SizeID &&
		f.PhotosCount == other.PhotosCount &&
		attachmentsEqual(f.Photos, other.Photos)
}

// Params returns the text fields in wire order.
func (f ParkForm) Params() []Param {
	return []Param{
		{Key: "address", Value: f.Address},
		{Key: "latitude", Value: f.Latitude},
		{Key: "longitude", Value: f.Longitude},
		{Key: "city_id", Value: strconv.Itoa(f.CityID)},
		{Key: "type_id", Value: strconv.Itoa(f.TypeID)},
		{Key: "class_id", Value: strconv.Itoa(f.SizeID)},
	}
}

// EventForm creates or edits a training event.
type EventForm struct {
	Title       string
	Description string
	Date        time.Time
	ParkID      int
	ParkName    string
	PhotosCount int
	Photos      []MediaAttachment
}

// IsReadyToCreate requires a title, a description and a park.
func (f EventForm) IsReadyToCreate() bool {
	return !isBlank(f.Title) && !isBlank(f.Description) && f.ParkID != 0
}

// IsReadyToUpdate requires IsReadyToCreate and a change relative to old.
func (f EventForm) IsReadyToUpdate(old EventForm) bool {
	return f.IsReadyToCreate() && !f.Equal(old)
}

// Equal is full field-wise equality including attachments.
func (f EventForm) Equal(other EventForm) bool {
	return f.Title == other.Title &&
		f.Description == other.Description &&
		f.Date.Equal(other.Date) &&
		f.ParkID == other.ParkID &&
		f.ParkName == other.ParkName &&
		f.PhotosCount == other.PhotosCount &&
		attachmentsEqual(f.Photos, other.Photos)
}

// Params returns the text fields in wire order.
func (f EventForm) Params() []Param {
	return []Param{
		{Key: "title", Value: f.Title},
		{Key: "description", Value: f.Description},
		{Key: "date", Value: f.Date.Format(EventDateLayout)},
		{Key: "area_id", Value: strconv.Itoa(f.ParkID)},
	}
}

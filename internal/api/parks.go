package api

import (
	"context"
	"fmt"
	"time"

	"github.com/swparks/sw-cli/internal/domain"
)

// UpdatedSinceLayout formats the date in GetUpdatedParks paths.
const UpdatedSinceLayout = "2006-01-02T15:04:05"

// GetAllParks lists every park in short form.
type GetAllParks struct{}

func (GetAllParks) route() Route {
	r := get("/areas", false)
	r.Query = []QueryItem{{Name: "fields", Value: "short"}}
	return r
}

// GetUpdatedParks lists parks changed after Since.
type GetUpdatedParks struct {
	Since time.Time
}

func (e GetUpdatedParks) route() Route {
	return get("/areas/last/"+e.Since.UTC().Format(UpdatedSinceLayout), false)
}

// GetPark fetches one park with comments, photos and trainees.
type GetPark struct {
	ID int
}

func (e GetPark) route() Route {
	return get(fmt.Sprintf("/areas/%d", e.ID), true)
}

// CreatePark uploads a new park with its photos.
type CreatePark struct {
	Form domain.ParkForm
}

func (e CreatePark) route() Route {
	return multipartRoute("/areas", e.Form.Params(), e.Form.Photos)
}

// EditPark updates a park, adding any new photos.
type EditPark struct {
	ID   int
	Form domain.ParkForm
}

func (e EditPark) route() Route {
	return multipartRoute(fmt.Sprintf("/areas/%d", e.ID), e.Form.Params(), e.Form.Photos)
}

// DeletePark removes a park.
type DeletePark struct {
	ID int
}

func (e DeletePark) route() Route {
	return del(fmt.Sprintf("/areas/%d", e.ID))
}

// GetParksForUser lists the parks a user trains at.
type GetParksForUser struct {
	UserID int
}

func (e GetParksForUser) route() Route {
	return get(fmt.Sprintf("/users/%d/areas", e.UserID), true)
}

// PostTrainHere marks the signed-in user as training at a park.
type PostTrainHere struct {
	ParkID int
}

func (e PostTrainHere) route() Route {
	return post(fmt.Sprintf("/areas/%d/train", e.ParkID))
}

// DeleteTrainHere clears the train-here mark.
type DeleteTrainHere struct {
	ParkID int
}

func (e DeleteTrainHere) route() Route {
	return del(fmt.Sprintf("/areas/%d/train", e.ParkID))
}

// AddParkComment posts a comment on a park.
type AddParkComment struct {
	ParkID int
	Text   string
}

func (e AddParkComment) route() Route {
	return post(fmt.Sprintf("/areas/%d/comments", e.ParkID), param("comment", e.Text))
}

// EditParkComment replaces the text of a park comment.
type EditParkComment struct {
	ParkID    int
	CommentID int
	Text      string
}

func (e EditParkComment) route() Route {
	return post(fmt.Sprintf("/areas/%d/comments/%d", e.ParkID, e.CommentID), param("comment", e.Text))
}

// DeleteParkComment removes a park comment.
type DeleteParkComment struct {
	ParkID    int
	CommentID int
}

func (e DeleteParkComment) route() Route {
	return del(fmt.Sprintf("/areas/%d/comments/%d", e.ParkID, e.CommentID))
}

// DeleteParkPhoto removes one photo of a park.
type DeleteParkPhoto struct {
	ParkID  int
	PhotoID int
}

func (e DeleteParkPhoto) route() Route {
	return del(fmt.Sprintf("/areas/%d/photos/%d", e.ParkID, e.PhotoID))
}

// List retrieves all parks in short form. Served from the cache when one is
// configured.
func (s ParksService) List(ctx context.Context) ([]Park, error) {
	return listParks(ctx, s)
}

func listParks(ctx context.Context, r Requester) ([]Park, error) {
	var result []Park
	if err := r.call(ctx, GetAllParks{}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdatedSince retrieves parks modified after since.
func (s ParksService) UpdatedSince(ctx context.Context, since time.Time) ([]Park, error) {
	var result []Park
	if err := s.call(ctx, GetUpdatedParks{Since: since}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Get retrieves a park by ID.
func (s ParksService) Get(ctx context.Context, id int) (*Park, error) {
	return getPark(ctx, s, id)
}

func getPark(ctx context.Context, r Requester, id int) (*Park, error) {
	var result Park
	if err := r.call(ctx, GetPark{ID: id}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ForUser retrieves the parks userID trains at.
func (s ParksService) ForUser(ctx context.Context, userID int) ([]Park, error) {
	var result []Park
	if err := s.call(ctx, GetParksForUser{UserID: userID}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Create uploads a new park.
func (s ParksService) Create(ctx context.Context, form domain.ParkForm) (*Park, error) {
	var result Park
	if err := s.call(ctx, CreatePark{Form: form}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Update saves changes to park id.
func (s ParksService) Update(ctx context.Context, id int, form domain.ParkForm) (*Park, error) {
	var result Park
	if err := s.call(ctx, EditPark{ID: id, Form: form}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete removes park id.
func (s ParksService) Delete(ctx context.Context, id int) error {
	return s.call(ctx, DeletePark{ID: id}, nil)
}

// SetTrainHere marks or unmarks the signed-in user as training at parkID.
func (s ParksService) SetTrainHere(ctx context.Context, parkID int, train bool) error {
	if train {
		return s.call(ctx, PostTrainHere{ParkID: parkID}, nil)
	}
	return s.call(ctx, DeleteTrainHere{ParkID: parkID}, nil)
}

// AddComment posts a comment on parkID.
func (s ParksService) AddComment(ctx context.Context, parkID int, text string) error {
	return s.call(ctx, AddParkComment{ParkID: parkID, Text: text}, nil)
}

// EditComment replaces the text of a comment.
func (s ParksService) EditComment(ctx context.Context, parkID, commentID int, text string) error {
	return s.call(ctx, EditParkComment{ParkID: parkID, CommentID: commentID, Text: text}, nil)
}

// DeleteComment removes a comment.
func (s ParksService) DeleteComment(ctx context.Context, parkID, commentID int) error {
	return s.call(ctx, DeleteParkComment{ParkID: parkID, CommentID: commentID}, nil)
}

// DeletePhoto removes photoID from park and returns the remaining photos
// renumbered from 1.
func (s ParksService) DeletePhoto(ctx context.Context, park *Park, photoID int) ([]domain.Photo, error) {
	if err := s.call(ctx, DeleteParkPhoto{ParkID: int(park.ID), PhotoID: photoID}, nil); err != nil {
		return nil, err
	}
	park.Photos = domain.RenumberAfterRemoval(park.Photos, photoID)
	return park.Photos, nil
}

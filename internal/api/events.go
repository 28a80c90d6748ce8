package api

import (
	"context"
	"fmt"

	"github.com/swparks/sw-cli/internal/domain"
)

// GetFutureEvents lists upcoming events.
type GetFutureEvents struct{}

func (GetFutureEvents) route() Route {
	return get("/trainings/current", false)
}

// GetPastEvents lists finished events.
type GetPastEvents struct{}

func (GetPastEvents) route() Route {
	return get("/trainings/last", false)
}

// GetEvent fetches one event.
type GetEvent struct {
	ID int
}

func (e GetEvent) route() Route {
	return get(fmt.Sprintf("/trainings/%d", e.ID), true)
}

// CreateEvent uploads a new event with its photos.
type CreateEvent struct {
	Form domain.EventForm
}

func (e CreateEvent) route() Route {
	return multipartRoute("/trainings", e.Form.Params(), e.Form.Photos)
}

// EditEvent updates an event, adding any new photos.
type EditEvent struct {
	ID   int
	Form domain.EventForm
}

func (e EditEvent) route() Route {
	return multipartRoute(fmt.Sprintf("/trainings/%d", e.ID), e.Form.Params(), e.Form.Photos)
}

// DeleteEvent removes an event.
type DeleteEvent struct {
	ID int
}

func (e DeleteEvent) route() Route {
	return del(fmt.Sprintf("/trainings/%d", e.ID))
}

// PostGoToEvent signs the user up for an event.
type PostGoToEvent struct {
	EventID int
}

func (e PostGoToEvent) route() Route {
	return post(fmt.Sprintf("/trainings/%d/go", e.EventID))
}

// DeleteGoToEvent withdraws from an event.
type DeleteGoToEvent struct {
	EventID int
}

func (e DeleteGoToEvent) route() Route {
	return del(fmt.Sprintf("/trainings/%d/go", e.EventID))
}

// AddEventComment posts a comment on an event.
type AddEventComment struct {
	EventID int
	Text    string
}

func (e AddEventComment) route() Route {
	return post(fmt.Sprintf("/trainings/%d/comments", e.EventID), param("comment", e.Text))
}

// EditEventComment replaces the text of an event comment.
type EditEventComment struct {
	EventID   int
	CommentID int
	Text      string
}

func (e EditEventComment) route() Route {
	return post(fmt.Sprintf("/trainings/%d/comments/%d", e.EventID, e.CommentID), param("comment", e.Text))
}

// DeleteEventComment removes an event comment.
type DeleteEventComment struct {
	EventID   int
	CommentID int
}

func (e DeleteEventComment) route() Route {
	return del(fmt.Sprintf("/trainings/%d/comments/%d", e.EventID, e.CommentID))
}

// DeleteEventPhoto removes one photo of an event.
type DeleteEventPhoto struct {
	EventID int
	PhotoID int
}

func (e DeleteEventPhoto) route() Route {
	return del(fmt.Sprintf("/trainings/%d/photos/%d", e.EventID, e.PhotoID))
}

// List retrieves future events, or past ones when past is set.
func (s EventsService) List(ctx context.Context, past bool) ([]Event, error) {
	return listEvents(ctx, s, past)
}

func listEvents(ctx context.Context, r Requester, past bool) ([]Event, error) {
	var e Endpoint = GetFutureEvents{}
	if past {
		e = GetPastEvents{}
	}
	var result []Event
	if err := r.call(ctx, e, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Get retrieves an event by ID.
func (s EventsService) Get(ctx context.Context, id int) (*Event, error) {
	return getEvent(ctx, s, id)
}

func getEvent(ctx context.Context, r Requester, id int) (*Event, error) {
	var result Event
	if err := r.call(ctx, GetEvent{ID: id}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Create uploads a new event.
func (s EventsService) Create(ctx context.Context, form domain.EventForm) (*Event, error) {
	var result Event
	if err := s.call(ctx, CreateEvent{Form: form}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Update saves changes to event id.
func (s EventsService) Update(ctx context.Context, id int, form domain.EventForm) (*Event, error) {
	var result Event
	if err := s.call(ctx, EditEvent{ID: id, Form: form}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete removes event id.
func (s EventsService) Delete(ctx context.Context, id int) error {
	return s.call(ctx, DeleteEvent{ID: id}, nil)
}

// SetGoing signs the user up for eventID or withdraws them.
func (s EventsService) SetGoing(ctx context.Context, eventID int, going bool) error {
	if going {
		return s.call(ctx, PostGoToEvent{EventID: eventID}, nil)
	}
	return s.call(ctx, DeleteGoToEvent{EventID: eventID}, nil)
}

// AddComment posts a comment on eventID.
func (s EventsService) AddComment(ctx context.Context, eventID int, text string) error {
	return s.call(ctx, AddEventComment{EventID: eventID, Text: text}, nil)
}

// EditComment replaces the text of a comment.
func (s EventsService) EditComment(ctx context.Context, eventID, commentID int, text string) error {
	return s.call(ctx, EditEventComment{EventID: eventID, CommentID: commentID, Text: text}, nil)
}

// DeleteComment removes a comment.
func (s EventsService) DeleteComment(ctx context.Context, eventID, commentID int) error {
	return s.call(ctx, DeleteEventComment{EventID: eventID, CommentID: commentID}, nil)
}

// DeletePhoto removes photoID from event and returns the remaining photos
// renumbered from 1.
func (s EventsService) DeletePhoto(ctx context.Context, event *Event, photoID int) ([]domain.Photo, error) {
	if err := s.call(ctx, DeleteEventPhoto{EventID: int(event.ID), PhotoID: photoID}, nil); err != nil {
		return nil, err
	}
	event.Photos = domain.RenumberAfterRemoval(event.Photos, photoID)
	return event.Photos, nil
}

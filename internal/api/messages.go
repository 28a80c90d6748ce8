package api

import (
	"context"
	"fmt"
	"strconv"
)

// GetDialogs lists the signed-in user's dialogs.
type GetDialogs struct{}

func (GetDialogs) route() Route {
	return get("/dialogs", true)
}

// GetMessages lists the messages of a dialog.
type GetMessages struct {
	DialogID int
}

func (e GetMessages) route() Route {
	return get(fmt.Sprintf("/dialogs/%d/messages", e.DialogID), true)
}

// SendMessage writes to UserID.
type SendMessage struct {
	UserID int
	Text   string
}

func (e SendMessage) route() Route {
	return post(fmt.Sprintf("/messages/%d", e.UserID), param("message", e.Text))
}

// MarkAsRead marks every message from UserID as read.
type MarkAsRead struct {
	UserID int
}

func (e MarkAsRead) route() Route {
	return post("/messages/mark_as_read", param("from_user_id", strconv.Itoa(e.UserID)))
}

// DeleteDialog removes a dialog.
type DeleteDialog struct {
	DialogID int
}

func (e DeleteDialog) route() Route {
	return del(fmt.Sprintf("/dialogs/%d", e.DialogID))
}

// Dialogs retrieves the signed-in user's dialogs.
func (s MessagesService) Dialogs(ctx context.Context) ([]Dialog, error) {
	var result []Dialog
	if err := s.call(ctx, GetDialogs{}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// List retrieves the messages of dialogID.
func (s MessagesService) List(ctx context.Context, dialogID int) ([]Message, error) {
	return listMessages(ctx, s, dialogID)
}

func listMessages(ctx context.Context, r Requester, dialogID int) ([]Message, error) {
	var result []Message
	if err := r.call(ctx, GetMessages{DialogID: dialogID}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Send writes text to userID.
func (s MessagesService) Send(ctx context.Context, userID int, text string) error {
	return s.call(ctx, SendMessage{UserID: userID, Text: text}, nil)
}

// MarkRead marks messages from userID as read.
func (s MessagesService) MarkRead(ctx context.Context, userID int) error {
	return s.call(ctx, MarkAsRead{UserID: userID}, nil)
}

// DeleteDialog removes dialogID.
func (s MessagesService) DeleteDialog(ctx context.Context, dialogID int) error {
	return s.call(ctx, DeleteDialog{DialogID: dialogID}, nil)
}

// UnreadTotal sums unread counters across dialogs.
func UnreadTotal(dialogs []Dialog) int {
	total := 0
	for i := range dialogs {
		total += dialogs[i].EffectiveUnreadCount()
	}
	return total
}

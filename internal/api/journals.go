package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/swparks/sw-cli/internal/domain"
)

// GetJournals lists a user's journals.
type GetJournals struct {
	UserID int
}

func (e GetJournals) route() Route {
	return get(fmt.Sprintf("/users/%d/journals", e.UserID), true)
}

// GetJournal fetches one journal.
type GetJournal struct {
	UserID    int
	JournalID int
}

func (e GetJournal) route() Route {
	return get(journalPath(e.UserID, e.JournalID), true)
}

// CreateJournal starts a new journal.
type CreateJournal struct {
	UserID int
	Title  string
}

func (e CreateJournal) route() Route {
	return post(fmt.Sprintf("/users/%d/journals", e.UserID), param("title", e.Title))
}

// EditJournalSettings changes title and access levels.
type EditJournalSettings struct {
	UserID    int
	JournalID int
	Title     string
	View      domain.AccessLevel
	Comment   domain.AccessLevel
}

func (e EditJournalSettings) route() Route {
	return put(journalPath(e.UserID, e.JournalID),
		param("title", e.Title),
		param("view_access", strconv.Itoa(int(e.View))),
		param("comment_access", strconv.Itoa(int(e.Comment))),
	)
}

// DeleteJournal removes a journal with all entries.
type DeleteJournal struct {
	UserID    int
	JournalID int
}

func (e DeleteJournal) route() Route {
	return del(journalPath(e.UserID, e.JournalID))
}

// GetJournalEntries lists the entries of a journal.
type GetJournalEntries struct {
	UserID    int
	JournalID int
}

func (e GetJournalEntries) route() Route {
	return get(journalPath(e.UserID, e.JournalID)+"/messages", true)
}

// SaveJournalEntry appends an entry.
type SaveJournalEntry struct {
	UserID    int
	JournalID int
	Text      string
}

func (e SaveJournalEntry) route() Route {
	return post(journalPath(e.UserID, e.JournalID)+"/messages", param("message", e.Text))
}

// EditJournalEntry replaces the text of an entry.
type EditJournalEntry struct {
	UserID    int
	JournalID int
	EntryID   int
	Text      string
}

func (e EditJournalEntry) route() Route {
	return put(fmt.Sprintf("%s/messages/%d", journalPath(e.UserID, e.JournalID), e.EntryID), param("message", e.Text))
}

// DeleteJournalEntry removes an entry.
type DeleteJournalEntry struct {
	UserID    int
	JournalID int
	EntryID   int
}

func (e DeleteJournalEntry) route() Route {
	return del(fmt.Sprintf("%s/messages/%d", journalPath(e.UserID, e.JournalID), e.EntryID))
}

func journalPath(userID, journalID int) string {
	return fmt.Sprintf("/users/%d/journals/%d", userID, journalID)
}

// JournalSettings is the editable part of a journal.
type JournalSettings struct {
	Title   string
	View    domain.AccessLevel
	Comment domain.AccessLevel
}

// Settings returns the current settings of j.
func (j *Journal) Settings() JournalSettings {
	return JournalSettings{
		Title:   j.Title,
		View:    j.EffectiveViewAccess(),
		Comment: j.EffectiveCommentAccess(),
	}
}

// List retrieves the journals of userID.
func (s JournalsService) List(ctx context.Context, userID int) ([]Journal, error) {
	var result []Journal
	if err := s.call(ctx, GetJournals{UserID: userID}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Get retrieves one journal.
func (s JournalsService) Get(ctx context.Context, userID, journalID int) (*Journal, error) {
	return getJournal(ctx, s, userID, journalID)
}

func getJournal(ctx context.Context, r Requester, userID, journalID int) (*Journal, error) {
	var result Journal
	if err := r.call(ctx, GetJournal{UserID: userID, JournalID: journalID}, &result); err != nil {
		return nil, err
	}
	if result.OwnerID == 0 {
		result.OwnerID = FlexInt(userID)
	}
	return &result, nil
}

// Create starts a journal titled title for userID.
func (s JournalsService) Create(ctx context.Context, userID int, title string) error {
	return s.call(ctx, CreateJournal{UserID: userID, Title: title}, nil)
}

// UpdateSettings saves title and access levels.
func (s JournalsService) UpdateSettings(ctx context.Context, userID, journalID int, settings JournalSettings) error {
	return s.call(ctx, EditJournalSettings{
		UserID:    userID,
		JournalID: journalID,
		Title:     settings.Title,
		View:      settings.View,
		Comment:   settings.Comment,
	}, nil)
}

// Delete removes a journal.
func (s JournalsService) Delete(ctx context.Context, userID, journalID int) error {
	return s.call(ctx, DeleteJournal{UserID: userID, JournalID: journalID}, nil)
}

// Entries retrieves the entries of a journal.
func (s JournalsService) Entries(ctx context.Context, userID, journalID int) ([]JournalEntry, error) {
	var result []JournalEntry
	if err := s.call(ctx, GetJournalEntries{UserID: userID, JournalID: journalID}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// AddEntry appends text to a journal.
func (s JournalsService) AddEntry(ctx context.Context, userID, journalID int, text string) error {
	return s.call(ctx, SaveJournalEntry{UserID: userID, JournalID: journalID, Text: text}, nil)
}

// EditEntry replaces the text of an entry.
func (s JournalsService) EditEntry(ctx context.Context, userID, journalID, entryID int, text string) error {
	return s.call(ctx, EditJournalEntry{UserID: userID, JournalID: journalID, EntryID: entryID, Text: text}, nil)
}

// DeleteEntry removes an entry.
func (s JournalsService) DeleteEntry(ctx context.Context, userID, journalID, entryID int) error {
	return s.call(ctx, DeleteJournalEntry{UserID: userID, JournalID: journalID, EntryID: entryID}, nil)
}

package domain

import (
	"fmt"
	"slices"
	"strings"
)

// AccessLevel controls who may read or comment on a journal.
// The integer value is the wire code.
type AccessLevel int

const (
	AccessAll     AccessLevel = 0
	AccessFriends AccessLevel = 1
	AccessNobody  AccessLevel = 2
)

func (a AccessLevel) String() string {
	switch a {
	case AccessAll:
		return "all"
	case AccessFriends:
		return "friends"
	case AccessNobody:
		return "nobody"
	default:
		return fmt.Sprintf("access(%d)", int(a))
	}
}

// AccessLevelNames lists the accepted textual forms.
var AccessLevelNames = []string{"all", "friends", "nobody"}

// ParseAccessLevel accepts a name or the numeric wire code.
func ParseAccessLevel(s string) (AccessLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "0":
		return AccessAll, nil
	case "friends", "1":
		return AccessFriends, nil
	case "nobody", "2":
		return AccessNobody, nil
	default:
		return 0, fmt.Errorf("invalid access level %q: must be one of %s", s, strings.Join(AccessLevelNames, ", "))
	}
}

// CanCreateJournalEntry decides whether the acting user may add an entry to
// a journal owned by ownerID whose comment access is level. actingUserID is
// nil for anonymous users.
func CanCreateJournalEntry(ownerID int, level AccessLevel, actingUserID *int, friendIDs []int) bool {
	if actingUserID == nil {
		return false
	}
	switch level {
	case AccessNobody:
		return false
	case AccessFriends:
		return ownerID == *actingUserID || slices.Contains(friendIDs, ownerID)
	case AccessAll:
		return true
	default:
		return false
	}
}

// CanViewJournal applies the view access level. Owners always see their
// own journals; anonymous users only see journals open to everyone.
func CanViewJournal(ownerID int, level AccessLevel, actingUserID *int, friendIDs []int) bool {
	if actingUserID != nil && *actingUserID == ownerID {
		return true
	}
	switch level {
	case AccessAll:
		return true
	case AccessFriends:
		return actingUserID != nil && slices.Contains(friendIDs, ownerID)
	default:
		return false
	}
}

package api

import (
	"context"
	"fmt"
)

// GetFriends lists the friends of a user.
type GetFriends struct {
	UserID int
}

func (e GetFriends) route() Route {
	return get(fmt.Sprintf("/users/%d/friends", e.UserID), true)
}

// GetFriendRequests lists incoming friend requests.
type GetFriendRequests struct{}

func (GetFriendRequests) route() Route {
	return get("/friends/requests", true)
}

// AcceptFriendRequest accepts a request from UserID.
type AcceptFriendRequest struct {
	UserID int
}

func (e AcceptFriendRequest) route() Route {
	return post(fmt.Sprintf("/friends/%d/accept", e.UserID))
}

// DeclineFriendRequest shares the accept path and is told apart by method.
type DeclineFriendRequest struct {
	UserID int
}

func (e DeclineFriendRequest) route() Route {
	return del(fmt.Sprintf("/friends/%d/accept", e.UserID))
}

// SendFriendRequest asks UserID to become a friend.
type SendFriendRequest struct {
	UserID int
}

func (e SendFriendRequest) route() Route {
	return post(fmt.Sprintf("/friends/%d", e.UserID))
}

// DeleteFriend removes UserID from friends.
type DeleteFriend struct {
	UserID int
}

func (e DeleteFriend) route() Route {
	return del(fmt.Sprintf("/friends/%d", e.UserID))
}

// GetBlacklist lists blocked users.
type GetBlacklist struct{}

func (GetBlacklist) route() Route {
	return get("/blacklist", true)
}

// AddToBlacklist blocks UserID.
type AddToBlacklist struct {
	UserID int
}

func (e AddToBlacklist) route() Route {
	return post(fmt.Sprintf("/blacklist/%d", e.UserID))
}

// RemoveFromBlacklist unblocks UserID.
type RemoveFromBlacklist struct {
	UserID int
}

func (e RemoveFromBlacklist) route() Route {
	return del(fmt.Sprintf("/blacklist/%d", e.UserID))
}

// List retrieves the friends of userID.
func (s FriendsService) List(ctx context.Context, userID int) ([]User, error) {
	return listFriends(ctx, s, userID)
}

func listFriends(ctx context.Context, r Requester, userID int) ([]User, error) {
	var result []User
	if err := r.call(ctx, GetFriends{UserID: userID}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// FriendIDs returns the ids of userID's friends.
func (s FriendsService) FriendIDs(ctx context.Context, userID int) ([]int, error) {
	friends, err := listFriends(ctx, s, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(friends))
	for _, f := range friends {
		ids = append(ids, int(f.ID))
	}
	return ids, nil
}

// Requests retrieves pending incoming friend requests.
func (s FriendsService) Requests(ctx context.Context) ([]User, error) {
	var result []User
	if err := s.call(ctx, GetFriendRequests{}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Respond accepts or declines a friend request from userID.
func (s FriendsService) Respond(ctx context.Context, userID int, accept bool) error {
	if accept {
		return s.call(ctx, AcceptFriendRequest{UserID: userID}, nil)
	}
	return s.call(ctx, DeclineFriendRequest{UserID: userID}, nil)
}

// Add sends a friend request to userID.
func (s FriendsService) Add(ctx context.Context, userID int) error {
	return s.call(ctx, SendFriendRequest{UserID: userID}, nil)
}

// Remove deletes userID from friends.
func (s FriendsService) Remove(ctx context.Context, userID int) error {
	return s.call(ctx, DeleteFriend{UserID: userID}, nil)
}

// Blacklist retrieves blocked users.
func (s FriendsService) Blacklist(ctx context.Context) ([]User, error) {
	var result []User
	if err := s.call(ctx, GetBlacklist{}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Block adds userID to the blacklist, or removes them when block is false.
func (s FriendsService) Block(ctx context.Context, userID int, block bool) error {
	if block {
		return s.call(ctx, AddToBlacklist{UserID: userID}, nil)
	}
	return s.call(ctx, RemoveFromBlacklist{UserID: userID}, nil)
}

package api

// Service accessors group Client methods by resource.
// Each service embeds *Client.

type AuthService struct{ *Client }

type UsersService struct{ *Client }

type FriendsService struct{ *Client }

type ParksService struct{ *Client }

type EventsService struct{ *Client }

type MessagesService struct{ *Client }

type JournalsService struct{ *Client }

type CountriesService struct{ *Client }

func (c *Client) Auth() AuthService {
	return AuthService{c}
}

func (c *Client) Users() UsersService {
	return UsersService{c}
}

func (c *Client) Friends() FriendsService {
	return FriendsService{c}
}

func (c *Client) Parks() ParksService {
	return ParksService{c}
}

func (c *Client) Events() EventsService {
	return EventsService{c}
}

func (c *Client) Messages() MessagesService {
	return MessagesService{c}
}

func (c *Client) Journals() JournalsService {
	return JournalsService{c}
}

func (c *Client) Countries() CountriesService {
	return CountriesService{c}
}

package slack

// Channel is one conversation: a public or private channel, a group, or a
// direct message. The same shape comes back from listing and info calls;
// LastRead is only populated by info calls.
type Channel struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsChannel  bool   `json:"is_channel"`
	IsGroup    bool   `json:"is_group"`
	IsIM       bool   `json:"is_im"`
	IsPrivate  bool   `json:"is_private"`
	IsArchived bool   `json:"is_archived"`
	IsMember   bool   `json:"is_member"`
	// User is the peer user id. Direct messages only.
	User string `json:"user"`
	// LastRead is the last-read marker, an opaque timestamp token. Empty
	// when the conversation has never been read.
	LastRead string `json:"last_read"`
}

// DisplayName returns the name a user would recognize the conversation by.
// Direct messages have no name of their own, so the peer user id stands in
// until the caller resolves it.
func (c Channel) DisplayName() string {
	if c.Name != "" {
		return "#" + c.Name
	}
	if c.User != "" {
		return "@" + c.User
	}
	return c.ID
}

// Message is one unit of conversation history.
type Message struct {
	Type string `json:"type"`
	// Subtype is empty for ordinary user messages. System events such as
	// joins and topic changes carry a non-empty subtype.
	Subtype string `json:"subtype"`
	// User is the author id, empty for system-authored messages.
	User      string     `json:"user"`
	BotID     string     `json:"bot_id"`
	Text      string     `json:"text"`
	TS        string     `json:"ts"`
	ThreadTS  string     `json:"thread_ts"`
	Reactions []Reaction `json:"reactions,omitempty"`
}

// Reaction is an emoji reaction attached to a message.
type Reaction struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Users []string `json:"users"`
}

// User is a workspace member.
type User struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	RealName string  `json:"real_name"`
	Deleted  bool    `json:"deleted"`
	IsBot    bool    `json:"is_bot"`
	Profile  Profile `json:"profile"`
}

// Profile carries the display fields of a user record.
type Profile struct {
	DisplayName string `json:"display_name"`
	RealName    string `json:"real_name"`
	Email       string `json:"email"`
}

// DisplayName returns the most specific non-empty name for the user.
func (u User) DisplayName() string {
	if u.Profile.DisplayName != "" {
		return u.Profile.DisplayName
	}
	if u.RealName != "" {
		return u.RealName
	}
	return u.Name
}

// Identity describes the authenticated session, from an identity check.
type Identity struct {
	UserID string `json:"user_id"`
	User   string `json:"user"`
	TeamID string `json:"team_id"`
	Team   string `json:"team"`
	URL    string `json:"url"`
}

// envelope is the part of every response body shared across methods.
// Error fields are only meaningful when OK is false.
type envelope struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error"`
	Needed string `json:"needed"`
}

// responseMetadata carries the continuation cursor on paginated responses.
// An empty cursor marks the final page.
type responseMetadata struct {
	NextCursor string `json:"next_cursor"`
}

type channelListResponse struct {
	Channels         []Channel        `json:"channels"`
	ResponseMetadata responseMetadata `json:"response_metadata"`
}

type channelInfoResponse struct {
	Channel Channel `json:"channel"`
}

type historyResponse struct {
	Messages []Message `json:"messages"`
	HasMore  bool      `json:"has_more"`
}

type postMessageResponse struct {
	Channel string `json:"channel"`
	TS      string `json:"ts"`
}

type userInfoResponse struct {
	User User `json:"user"`
}

type userListResponse struct {
	Members          []User           `json:"members"`
	ResponseMetadata responseMetadata `json:"response_metadata"`
}

type openDMResponse struct {
	Channel struct {
		ID string `json:"id"`
	} `json:"channel"`
}

// Package transport carries inbound Telegram update events to the engine and
// outbound replies back to the Bot API.
package transport

// Update is one inbound transport event. Channel posts are a distinct event
// kind from direct messages.
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	ChannelPost   *Message       `json:"channel_post,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

// Message is an inbound text message or channel post.
type Message struct {
	MessageID int64       `json:"message_id"`
	From      *User       `json:"from,omitempty"`
	Chat      Chat        `json:"chat"`
	Date      int64       `json:"date"`
	Text      string      `json:"text,omitempty"`
	Caption   string      `json:"caption,omitempty"`
	Photo     []PhotoSize `json:"photo,omitempty"`
}

// Content returns the message text, falling back to the media caption.
func (m *Message) Content() string {
	if m.Text != "" {
		return m.Text
	}
	return m.Caption
}

// PhotoSize is one resolution of an attached photo. The Bot API lists sizes
// smallest first.
type PhotoSize struct {
	FileID string `json:"file_id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// LargestPhoto returns the file id of the best-resolution attachment, or ""
// when the message carries no photo.
func (m *Message) LargestPhoto() string {
	if len(m.Photo) == 0 {
		return ""
	}
	return m.Photo[len(m.Photo)-1].FileID
}

// Chat identifies the conversation an update belongs to.
type Chat struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Username string `json:"username,omitempty"`
	Title    string `json:"title,omitempty"`
}

// User identifies the sender of a message or callback.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// DisplayName returns the username, falling back to the full name.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Username != "" {
		return u.Username
	}
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	return name
}

// CallbackQuery is a pressed inline button.
type CallbackQuery struct {
	ID      string   `json:"id"`
	From    User     `json:"from"`
	Message *Message `json:"message,omitempty"`
	Data    string   `json:"data,omitempty"`
}

// InlineKeyboard is a grid of inline buttons attached to an outbound message.
type InlineKeyboard struct {
	InlineKeyboard [][]InlineButton `json:"inline_keyboard"`
}

// InlineButton is one inline keyboard button carrying a callback payload.
type InlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

// TwoButtonRow builds a single-row keyboard with two choices.
func TwoButtonRow(leftText, leftData, rightText, rightData string) *InlineKeyboard {
	return &InlineKeyboard{
		InlineKeyboard: [][]InlineButton{{
			{Text: leftText, CallbackData: leftData},
			{Text: rightText, CallbackData: rightData},
		}},
	}
}

package domain

import "time"

// AvatarSelf is the sentinel avatar reference for the self-chat contact.
const AvatarSelf = "saved-messages"

// Mode distinguishes fully local demo operation from a real account
// proxied through the backend. It is fixed once the user logs in.
type Mode int

const (
	ModeDemo Mode = iota
	ModeReal
)

func (m Mode) String() string {
	if m == ModeReal {
		return "real"
	}
	return "demo"
}

// Sender identifies which side of a chat produced a message.
type Sender int

const (
	SenderSelf Sender = iota
	SenderPeer
)

// Status is the delivery status of a message. Transitions are
// one-directional: StatusSent -> StatusRead, never back.
type Status int

const (
	StatusSent Status = iota
	StatusRead
)

// Contact is one entry in the chat sidebar.
type Contact struct {
	ID          string
	Name        string
	Avatar      string // URL or AvatarSelf
	LastMessage string
	LastTime    string // display-formatted, not sortable
	UnreadCount int
	Online      bool
	Persona     string // system prompt; set only for generated-reply contacts

	SelfChat       bool
	BackendSourced bool
}

// Kind classifies a contact for send dispatch.
type Kind int

const (
	KindPersona Kind = iota
	KindSelf
	KindBackend
)

// Kind derives the dispatch branch for this contact.
func (c Contact) Kind() Kind {
	switch {
	case c.SelfChat:
		return KindSelf
	case c.BackendSourced:
		return KindBackend
	default:
		return KindPersona
	}
}

// Message is one entry in a chat transcript. IDs increase strictly
// with creation order within a chat.
type Message struct {
	ID     int64
	Text   string
	Sender Sender
	Time   time.Time
	Status Status
}

// Dialog is the wire shape of one chat returned by the backend's
// get-dialogs endpoint. Date is epoch seconds.
type Dialog struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	LastMessage string `json:"lastMessage"`
	UnreadCount int    `json:"unreadCount"`
	Date        int64  `json:"date"`
}

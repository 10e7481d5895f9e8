// Package persona holds the scripted demo contacts and the reply
// generator that speaks for them.
package persona

import "github.com/mushtum/mushtumgram/internal/domain"

// Fallback strings shown instead of a raw generator error. Bot chats
// never surface failures to the user.
const (
	ApologyText   = "Uzr, hozir javob bera olmayman. Keyinroq yozing."
	MissingKeyMsg = "API kaliti topilmadi. Iltimos, sozlamalarni tekshiring."
)

// SelfChat is the always-present "Saved Messages" contact. Exactly one
// self-chat exists in the store and it is never backend-sourced.
func SelfChat() domain.Contact {
	return domain.Contact{
		ID:       "saved",
		Name:     "Saved Messages",
		Avatar:   domain.AvatarSelf,
		Online:   true,
		SelfChat: true,
	}
}

// DemoContacts returns the demo-mode seed: the self-chat followed by
// the persona bots. Real mode seeds SelfChat alone and pulls the rest
// from the backend.
func DemoContacts() []domain.Contact {
	return []domain.Contact{
		SelfChat(),
		{
			ID:          "1",
			Name:        "Mushtum Bot",
			Avatar:      "https://picsum.photos/seed/mushtum/200/200",
			LastMessage: "Welcome to Mushtumgram Lite!",
			LastTime:    "10:00",
			UnreadCount: 1,
			Online:      true,
			Persona:     "You are the official Mushtumgram bot. Be helpful, polite and official. Speak Uzbek.",
		},
		{
			ID:          "2",
			Name:        "Toshmat Aka",
			Avatar:      "https://picsum.photos/seed/toshmat/200/200",
			LastMessage: "Choyxonaga kelasanmi?",
			LastTime:    "09:45",
			UnreadCount: 3,
			Online:      false,
			Persona:     "Sen Toshmat akasan. 45 yoshli o'zbek erkak. Choyxona, palov haqida gapirasan. Qo'polroq lekin samimiy.",
		},
	}
}

package ui

// StoreUpdatedMsg signals that the store state has changed.
type StoreUpdatedMsg struct{}

// SessionCheckedMsg carries the startup check-session result.
type SessionCheckedMsg struct {
	Authorized bool
}

// CodeSentMsg reports the outcome of send-code (or the demo delay).
type CodeSentMsg struct {
	Err error
}

// LoginDoneMsg reports the outcome of login (or the demo delay).
type LoginDoneMsg struct {
	Err error
}

// authTickMsg advances the resend countdown once per second.
type authTickMsg struct{}

// ChatSelectedMsg is emitted when the user picks a chat.
type ChatSelectedMsg struct {
	ContactID string
}

// sendMessageMsg is emitted when the user presses Enter in the input.
type sendMessageMsg struct {
	text string
}

// SendDoneMsg reports a completed send dispatch.
type SendDoneMsg struct {
	Err error
}

// DialogsRefreshedMsg reports a completed contact-list refresh.
type DialogsRefreshedMsg struct {
	Err error
}

// splashLineMsg advances the splash connection narration.
type splashLineMsg struct {
	index int
}

// SplashDoneMsg dismisses the splash overlay.
type SplashDoneMsg struct{}

// StatusMsg updates the status bar text.
type StatusMsg struct {
	Text string
}

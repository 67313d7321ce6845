package common

const (
	KEY_USER_STATE  = "user_state:%d"
	KEY_USER_SYMBOL = "user_symbol:%d"
)

const (
	KEY_CHAT_SESSION    = "chat_session:%d"
	KEY_RATE_LIMIT_CHAT = "chat:%d"
)

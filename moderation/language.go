package moderation

import "github.com/abadojack/whatlanggo"

// Language returns the detected natural language of a message, for debug
// logging and future per-language word lists. Detection on very short
// messages is unreliable; callers must treat the result as a hint.
func Language(text string) string {
	info := whatlanggo.Detect(text)
	return whatlanggo.LangToString(info.Lang)
}

package telegram

import "strings"

// markdownV2Escaper escapes every special character the Bot API's MarkdownV2
// parse mode reserves: _ * [ ] ( ) ~ ` > # + - = | { } . !
var markdownV2Escaper = strings.NewReplacer(
	`_`, `\_`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`(`, `\(`,
	`)`, `\)`,
	`~`, `\~`,
	"`", "\\`",
	`>`, `\>`,
	`#`, `\#`,
	`+`, `\+`,
	`-`, `\-`,
	`=`, `\=`,
	`|`, `\|`,
	`{`, `\{`,
	`}`, `\}`,
	`.`, `\.`,
	`!`, `\!`,
)

// Escape returns s with all MarkdownV2 special characters escaped, making it
// safe to embed in a formatted message.
func Escape(s string) string {
	return markdownV2Escaper.Replace(s)
}

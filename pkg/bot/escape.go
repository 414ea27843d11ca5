package bot

import "strings"

var codeEscaper = strings.NewReplacer("\\", "\\\\", "`", "\\`")

// escapeCode escapes text for a MarkdownV2 pre block.
func escapeCode(text string) string {
	return codeEscaper.Replace(text)
}

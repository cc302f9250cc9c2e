package providers

import (
	"fmt"
	"strings"
)

const lineSystemPrompt = `You are a strict, expert code reviewer. You are shown exactly one line of code that was added in a change.

Rules:
1. If the line has a bug, a security issue, a performance problem, or a clear readability problem, reply with one short, actionable sentence describing it.
2. Do not restate the code. Do not use markdown. Do not add a preamble.
3. If there is nothing worth saying about the line, reply with exactly: NONE`

// noComment is the reply that tells us the model had nothing to say.
const noComment = "NONE"

func lineUserPrompt(code string) string {
	return fmt.Sprintf("Review this line:\n%s", code)
}

// normalizeComment trims a model reply and maps the no-comment marker to "".
func normalizeComment(reply string) string {
	reply = strings.TrimSpace(reply)
	reply = strings.Trim(reply, "`")
	reply = strings.TrimSpace(reply)
	if strings.EqualFold(strings.TrimRight(reply, "."), noComment) {
		return ""
	}
	return reply
}

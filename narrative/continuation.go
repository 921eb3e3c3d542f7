package narrative

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	fence             = "```"
	continuationTail  = 2000
	continuationLimit = 600
	continuationAsk   = "Please continue the markdown report immediately from the end of the assistant message above. " +
		"Do NOT ask for the snippet again; continue the existing style and headings."
)

var fenceOpen = regexp.MustCompile("```(?:markdown)?\\s*")

// fenced locates the first fenced block. closing is -1 when the block never closes.
type fenced struct {
	body    string
	closing int
}

func findFence(text string) (fenced, bool) {
	loc := fenceOpen.FindStringIndex(text)
	if loc == nil {
		return fenced{}, false
	}
	closing := strings.LastIndex(text, fence)
	if closing <= loc[0] {
		return fenced{body: text[loc[1]:], closing: -1}, true
	}
	return fenced{body: text[loc[1]:closing], closing: closing}, true
}

// NeedsContinuation reports whether the fenced block looks cut off: it ends on a letter, or its last
// line is under six characters and the block does not end with '.' or ':'. Text without a fence, or
// with an empty block, never needs continuation.
func NeedsContinuation(text string) bool {
	f, ok := findFence(text)
	if !ok {
		return false
	}
	body := strings.TrimRightFunc(f.body, unicode.IsSpace)
	if body == "" {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(body)
	if unicode.IsLetter(last) {
		return true
	}
	lastLine := body[strings.LastIndex(body, "\n")+1:]
	if utf8.RuneCountInString(strings.TrimSpace(lastLine)) < 6 {
		return !strings.HasSuffix(body, ".") && !strings.HasSuffix(body, ":")
	}
	return false
}

// Continue asks the model to pick up where the fenced block stops and splices the answer in before
// the closing fence, closing the fence when there was none.
func Continue(ctx context.Context, chat Chatter, text string) (string, error) {
	f, ok := findFence(text)
	if !ok {
		return "", ErrNoFence
	}
	tail := strings.TrimRightFunc(f.body, unicode.IsSpace)
	if len(tail) > continuationTail {
		tail = tail[len(tail)-continuationTail:]
		for !utf8.ValidString(tail) && tail != "" {
			tail = tail[1:]
		}
	}

	resp, err := chat.Chat(ctx, ChatRequest{
		Messages: []Message{
			{Role: "assistant", Content: tail},
			{Role: "user", Content: continuationAsk},
		},
		Model:     defaultModel,
		MaxTokens: continuationLimit,
	})
	if err != nil {
		return "", fmt.Errorf("requesting continuation: %w", err)
	}
	cont := strings.TrimSpace(resp.Content)
	if cont == "" {
		return "", fmt.Errorf("no continuation text received")
	}

	if f.closing < 0 {
		return text + "\n\n" + cont + "\n" + fence, nil
	}
	return text[:f.closing] + "\n\n" + cont + "\n" + fence + text[f.closing+len(fence):], nil
}

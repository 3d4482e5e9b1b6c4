package rag

import (
	"fmt"
	"strings"

	"github.com/agentbase/agentbase/internal/model"
)

const (
	DefaultMaxDocChars     = 500
	DefaultMaxMessageChars = 300

	defaultPreamble = "You are a helpful assistant. Use the following context to answer the user's question."

	documentHeader = "DOCUMENT CONTEXT:"
	messageHeader  = "CONVERSATION CONTEXT:"
)

type DocumentEntry struct {
	Doc   model.Document
	Score float64
}

type MessageEntry struct {
	Msg   model.Message
	Score float64
}

// ContextAssembler turns ranked records into the bounded prompt context.
// Output is fully determined by its inputs; identical inputs yield
// byte-identical prompts.
type ContextAssembler struct {
	MaxDocChars     int
	MaxMessageChars int
}

func NewContextAssembler(maxDocChars, maxMessageChars int) *ContextAssembler {
	if maxDocChars <= 0 {
		maxDocChars = DefaultMaxDocChars
	}
	if maxMessageChars <= 0 {
		maxMessageChars = DefaultMaxMessageChars
	}
	return &ContextAssembler{MaxDocChars: maxDocChars, MaxMessageChars: maxMessageChars}
}

// Assemble builds the provenance block and the augmented prompt. With no
// context at all the base prompt passes through untouched, empty headers
// are never emitted.
func (a *ContextAssembler) Assemble(docs []DocumentEntry, msgs []MessageEntry, basePrompt string) (ContextBlock, string) {
	block := ContextBlock{}
	var docSnippets []string
	for _, entry := range docs {
		preview := truncate(entry.Doc.Content, a.MaxDocChars)
		block.Documents = append(block.Documents, RetrievedDocument{
			ID:      entry.Doc.ID,
			Title:   entry.Doc.Title,
			Preview: preview,
			Score:   entry.Score,
		})
		docSnippets = append(docSnippets, fmt.Sprintf("Title: %s\n%s", entry.Doc.Title, preview))
	}
	var msgSnippets []string
	for _, entry := range msgs {
		content := truncate(entry.Msg.Content, a.MaxMessageChars)
		block.Messages = append(block.Messages, RetrievedMessage{
			ID:             entry.Msg.ID,
			ConversationID: entry.Msg.ConversationID,
			Role:           entry.Msg.Role,
			Content:        content,
			Score:          entry.Score,
		})
		msgSnippets = append(msgSnippets, fmt.Sprintf("%s: %s", strings.ToUpper(entry.Msg.Role), content))
	}
	if len(docSnippets) == 0 && len(msgSnippets) == 0 {
		return block, basePrompt
	}

	sections := make([]string, 0, 3)
	if strings.TrimSpace(basePrompt) != "" {
		sections = append(sections, basePrompt)
	} else {
		sections = append(sections, defaultPreamble)
	}
	if len(docSnippets) > 0 {
		sections = append(sections, documentHeader+"\n"+strings.Join(docSnippets, "\n\n"))
	}
	if len(msgSnippets) > 0 {
		sections = append(sections, messageHeader+"\n"+strings.Join(msgSnippets, "\n\n"))
	}
	return block, strings.Join(sections, "\n\n")
}

// truncate is a hard cap on character (rune) count, never mid-word aware.
func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

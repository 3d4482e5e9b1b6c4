package rag

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/agentbase/agentbase/internal/model"
)

func TestAssembleEmptyContextPassesBasePromptThrough(t *testing.T) {
	assembler := NewContextAssembler(500, 300)

	block, prompt := assembler.Assemble(nil, nil, "Answer politely.")
	require.True(t, block.Empty())
	require.Equal(t, "Answer politely.", prompt)

	_, prompt = assembler.Assemble(nil, nil, "")
	require.Equal(t, "", prompt)
}

func TestAssembleIsDeterministic(t *testing.T) {
	assembler := NewContextAssembler(500, 300)
	docs := []DocumentEntry{
		{Doc: model.Document{ID: "d1", Title: "Refund Policy", Content: "Refunds within 30 days."}, Score: 0.92},
		{Doc: model.Document{ID: "d2", Title: "Shipping", Content: "Ships in 2 days."}, Score: 0.81},
	}
	msgs := []MessageEntry{
		{Msg: model.Message{ID: "m1", Role: model.MessageRoleUser, Content: "What about returns?"}, Score: 0.88},
	}

	block1, prompt1 := assembler.Assemble(docs, msgs, "Base.")
	block2, prompt2 := assembler.Assemble(docs, msgs, "Base.")
	require.Equal(t, prompt1, prompt2)
	require.Equal(t, block1, block2)
}

func TestAssembleTruncatesToExactCap(t *testing.T) {
	assembler := NewContextAssembler(50, 20)
	docs := []DocumentEntry{
		{Doc: model.Document{ID: "d1", Title: "Long", Content: strings.Repeat("x", 400)}, Score: 0.9},
		{Doc: model.Document{ID: "d2", Title: "Short", Content: "tiny"}, Score: 0.8},
	}
	msgs := []MessageEntry{
		{Msg: model.Message{ID: "m1", Role: model.MessageRoleUser, Content: strings.Repeat("y", 100)}, Score: 0.7},
	}

	block, _ := assembler.Assemble(docs, msgs, "")
	require.Equal(t, 50, utf8.RuneCountInString(block.Documents[0].Preview))
	require.Equal(t, "tiny", block.Documents[1].Preview)
	require.Equal(t, 20, utf8.RuneCountInString(block.Messages[0].Content))
}

func TestAssembleSectionLayout(t *testing.T) {
	assembler := NewContextAssembler(500, 300)
	docs := []DocumentEntry{
		{Doc: model.Document{ID: "d1", Title: "Refund Policy", Content: "Refunds within 30 days."}, Score: 0.92},
	}
	msgs := []MessageEntry{
		{Msg: model.Message{ID: "m1", Role: model.MessageRoleUser, Content: "hello"}, Score: 0.8},
	}

	_, prompt := assembler.Assemble(docs, msgs, "Base prompt.")
	require.True(t, strings.HasPrefix(prompt, "Base prompt.\n\n"))
	require.Contains(t, prompt, "DOCUMENT CONTEXT:\nTitle: Refund Policy\nRefunds within 30 days.")
	require.Contains(t, prompt, "CONVERSATION CONTEXT:\nUSER: hello")
	require.Less(t, strings.Index(prompt, "DOCUMENT CONTEXT:"), strings.Index(prompt, "CONVERSATION CONTEXT:"))
}

func TestAssembleSubstitutesPreambleWhenBaseMissing(t *testing.T) {
	assembler := NewContextAssembler(500, 300)
	docs := []DocumentEntry{
		{Doc: model.Document{ID: "d1", Title: "T", Content: "C"}, Score: 0.9},
	}

	_, prompt := assembler.Assemble(docs, nil, "")
	require.True(t, strings.HasPrefix(prompt, defaultPreamble))
}

func TestAssembleSkipsEmptySourceGroups(t *testing.T) {
	assembler := NewContextAssembler(500, 300)
	msgs := []MessageEntry{
		{Msg: model.Message{ID: "m1", Role: model.MessageRoleAssistant, Content: "hi"}, Score: 0.8},
	}

	_, prompt := assembler.Assemble(nil, msgs, "Base.")
	require.NotContains(t, prompt, documentHeader)
	require.Contains(t, prompt, messageHeader+"\nASSISTANT: hi")
}

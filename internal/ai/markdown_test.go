package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarkdownToTextStripsFormatting(t *testing.T) {
	input := "# Refund Policy\n\nCustomers may request a **refund** within *30 days*.\n\n## Process\n\nOpen a ticket with the [support team](https://example.com/support)."
	out := MarkdownToText(input)
	require.Equal(t, "Refund Policy\nCustomers may request a refund within 30 days.\nProcess\nOpen a ticket with the support team.", out)
}

func TestMarkdownToTextKeepsCodeBlocks(t *testing.T) {
	input := "Run this:\n\n```sh\ncurl -X POST /api/v1/chat\n```\n"
	out := MarkdownToText(input)
	require.Contains(t, out, "Run this:")
	require.Contains(t, out, "curl -X POST /api/v1/chat")
}

func TestMarkdownToTextPlainInput(t *testing.T) {
	require.Equal(t, "just text", MarkdownToText("just text"))
	require.Equal(t, "", MarkdownToText(""))
}

package httphandler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown_Basic(t *testing.T) {
	out := RenderMarkdown("Good work on **question 3**")

	assert.Contains(t, out, "<strong>question 3</strong>")
}

func TestRenderMarkdown_Empty(t *testing.T) {
	assert.Equal(t, "", RenderMarkdown(""))
}

func TestRenderMarkdown_SanitizesScript(t *testing.T) {
	out := RenderMarkdown(`nice <script>alert("xss")</script> try`)

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "nice")
}

func TestRenderMarkdown_GFMTable(t *testing.T) {
	out := RenderMarkdown("| q | score |\n|---|---|\n| 1 | 10 |")

	assert.Contains(t, out, "<table>")
}

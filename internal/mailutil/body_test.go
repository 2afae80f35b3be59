package mailutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBodyText(t *testing.T) {
	body := `<html><head><style>p { color: red; }</style></head>
<body><p>Hi&nbsp;Jane,</p><p>Lunch at <b>noon</b> &amp; coffee?</p><br/><div>Thanks</div>
<script>alert(1)</script></body></html>`

	got := BodyText(body)
	assert.Equal(t, "Hi Jane,\nLunch at noon & coffee?\n\nThanks", got)
}

func TestBodyText_Plain(t *testing.T) {
	assert.Equal(t, "just text", BodyText("  just   text \n"))
}

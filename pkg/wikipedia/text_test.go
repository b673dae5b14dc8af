package wikipedia

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestToPlainText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"only whitespace", " \n\t ", ""},
		{"strips tags", "<div><p>Python was conceived in the late 1980s.</p></div>", "Python was conceived in the late 1980s."},
		{"decodes entities", "A &amp; B &lt;tag&gt; &nbsp;end", "A & B <tag> end"},
		{"quotes", "&quot;quoted&quot; and &#39;single&#39;", `"quoted" and 'single'`},
		{"numeric entities untouched", "caf&#233; &mdash; ok", "caf&#233; &mdash; ok"},
		{"single pass decode", "&amp;lt;", "&lt;"},
		{"collapses newlines", "<p>one</p>\n\n<p>two\tthree</p>", "one two three"},
		{"table flattens", "<table><tr><td>a</td> <td>b</td></tr></table>", "a b"},
		{"attributes removed", `<a href="/wiki/Go" title="Go">Go</a> language`, "Go language"},
		{"trims", "  <b> bold </b>  ", "bold"},
		{"empty tag", "a<>b", "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ToPlainText(tt.in))
		})
	}
}

func TestToPlainText_Truncation(t *testing.T) {
	t.Parallel()

	t.Run("over limit", func(t *testing.T) {
		t.Parallel()
		in := "<p>" + strings.Repeat("a", MaxContentRunes+500) + "</p>"
		got := ToPlainText(in)
		assert.Equal(t, MaxContentRunes+len(TruncationSuffix), len(got))
		assert.True(t, strings.HasSuffix(got, TruncationSuffix))
		assert.Equal(t, strings.Repeat("a", MaxContentRunes), strings.TrimSuffix(got, TruncationSuffix))
	})

	t.Run("at limit", func(t *testing.T) {
		t.Parallel()
		in := strings.Repeat("b", MaxContentRunes)
		got := ToPlainText(in)
		assert.Equal(t, in, got)
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		t.Parallel()
		in := strings.Repeat("é", MaxContentRunes+1)
		got := ToPlainText(in)
		assert.Equal(t, MaxContentRunes+utf8.RuneCountInString(TruncationSuffix), utf8.RuneCountInString(got))
		assert.True(t, utf8.ValidString(got))
	})
}

func TestToPlainText_IdempotentOnOutput(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"<div><p>Python was conceived in the late 1980s.</p></div>",
		"<ul>\n<li>first</li>\n<li>second &amp; third</li>\n</ul>",
		"plain text   with   gaps",
	}
	for _, in := range inputs {
		once := ToPlainText(in)
		assert.Equal(t, once, ToPlainText(once), "input %q", in)
	}
}

package audible

import "testing"

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text unchanged",
			input: "A lone astronaut must save the earth.",
			want:  "A lone astronaut must save the earth.",
		},
		{
			name:  "tags removed",
			input: "<p>A <b>lone</b> astronaut.</p>",
			want:  "A lone astronaut.",
		},
		{
			name:  "entities decoded",
			input: "Weir&#39;s best &amp; brightest",
			want:  "Weir's best & brightest",
		},
		{
			name:  "whitespace collapsed",
			input: "<p>First.</p>\n\n<p>Second.</p>",
			want:  "First. Second.",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripHTML(tt.input); got != tt.want {
				t.Errorf("stripHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHTMLToMarkdown(t *testing.T) {
	t.Run("plain text passes through", func(t *testing.T) {
		in := "No markup here."
		if got := htmlToMarkdown(in); got != in {
			t.Errorf("htmlToMarkdown(%q) = %q, want unchanged", in, got)
		}
	})

	t.Run("bold converted", func(t *testing.T) {
		got := htmlToMarkdown("<p>An <b>instant</b> classic.</p>")
		want := "An **instant** classic."
		if got != want {
			t.Errorf("htmlToMarkdown() = %q, want %q", got, want)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if got := htmlToMarkdown(""); got != "" {
			t.Errorf("htmlToMarkdown(\"\") = %q", got)
		}
	})
}

func TestContainsHTML(t *testing.T) {
	if containsHTML("1 < 2 and 3 > 2") {
		t.Error("comparison operators should not count as HTML")
	}
	if !containsHTML("<p>hello</p>") {
		t.Error("paragraph tag should count as HTML")
	}
}

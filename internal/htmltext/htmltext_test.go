package htmltext

import "testing"

func TestToText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text untouched",
			in:   "Salary < 100k and  benefits > none",
			want: "Salary < 100k and  benefits > none",
		},
		{
			name: "generics in plain text untouched",
			in:   "Strong Java skills (List<String>, Map<K, V>) and Optional<T> usage required.",
			want: "Strong Java skills (List<String>, Map<K, V>) and Optional<T> usage required.",
		},
		{
			name: "paragraphs and list items become lines",
			in:   "<p>We offer:</p><ul><li>Dental</li><li>Paid  time off</li></ul>",
			want: "We offer:\nDental\nPaid time off",
		},
		{
			name: "line breaks",
			in:   "Full-time<br>Remote<br/>Toronto",
			want: "Full-time\nRemote\nToronto",
		},
		{
			name: "scripts dropped",
			in:   "<div>Senior Engineer<script>var x = 1;</script></div>",
			want: "Senior Engineer",
		},
		{
			name: "entities decoded",
			in:   "<span>R&amp;D &amp; 401(k)</span>",
			want: "R&D & 401(k)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToText(tt.in)
			if err != nil {
				t.Fatalf("ToText: %v", err)
			}
			if got != tt.want {
				t.Errorf("ToText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLooksLikeMarkup(t *testing.T) {
	if LooksLikeMarkup("a < b > c") {
		t.Error("comparison operators detected as markup")
	}
	if !LooksLikeMarkup(`<a href="x">link</a>`) {
		t.Error("anchor tag not detected")
	}
	if LooksLikeMarkup("Use Optional<T> and <Placeholder> values") {
		t.Error("generic type parameters detected as markup")
	}
	if !LooksLikeMarkup("Remote<BR/>Toronto") {
		t.Error("line break not detected")
	}
}

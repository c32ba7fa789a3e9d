package pii

import (
	"strings"
	"testing"
)

func TestDetect_Categories(t *testing.T) {
	d := New()

	tests := []struct {
		name     string
		text     string
		category Category
	}{
		{"email", "contact alice@example.com for details", CategoryEmail},
		{"email with plus", "send to bob+dev@mail.example.org today", CategoryEmail},
		{"phone dashed", "call 555-123-4567 now", CategoryPhone},
		{"phone parens", "call (555) 123-4567 now", CategoryPhone},
		{"phone with country code", "call +1 555-123-4567 now", CategoryPhone},
		{"ssn", "ssn is 123-45-6789 on file", CategorySSN},
		{"card spaced", "card 4111 1111 1111 1111 charged", CategoryCard},
		{"card dashed", "card 4111-1111-1111-1111 charged", CategoryCard},
		{"card compact", "card 4111111111111111 charged", CategoryCard},
		{"name with honorific", "meeting with Dr. Jane Smith at noon", CategoryName},
		{"name bare", "please forward this to John Smith before Friday", CategoryName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := d.Detect(tt.text)
			if len(findings) == 0 {
				t.Fatalf("Detect(%q) found nothing", tt.text)
			}
			found := false
			for _, f := range findings {
				if f.Category == tt.category {
					found = true
					if tt.text[f.Start:f.End] != f.Match {
						t.Errorf("offsets do not cover match: %q vs %q", tt.text[f.Start:f.End], f.Match)
					}
				}
			}
			if !found {
				t.Errorf("Detect(%q) = %v, want category %v", tt.text, findings, tt.category)
			}
		})
	}
}

func TestDetect_BareName(t *testing.T) {
	d := New(CategoryName)

	findings := d.Detect("Please forward this to John Smith before Friday.")
	if len(findings) != 1 {
		t.Fatalf("Detect = %v, want one name finding", findings)
	}
	if findings[0].Match != "John Smith" {
		t.Errorf("Match = %q, want John Smith", findings[0].Match)
	}
}

func TestDetect_CleanText(t *testing.T) {
	d := New()

	clean := []string{
		"",
		"quarterly report with no sensitive data",
		"version 1.2.3 released on 2024-01-15",
		"order total was 149.99",
	}
	for _, text := range clean {
		if findings := d.Detect(text); len(findings) != 0 {
			t.Errorf("Detect(%q) = %v, want none", text, findings)
		}
	}
}

func TestDetect_OrderedAndDeduplicated(t *testing.T) {
	d := New()

	text := "alice@example.com then 123-45-6789 then bob@example.com"
	findings := d.Detect(text)
	if len(findings) != 3 {
		t.Fatalf("Detect() = %d findings, want 3", len(findings))
	}
	for i := 1; i < len(findings); i++ {
		if findings[i].Start < findings[i-1].End {
			t.Errorf("findings overlap or unordered: %v", findings)
		}
	}
}

func TestNew_SelectedCategories(t *testing.T) {
	d := New(CategoryEmail)

	text := "alice@example.com and ssn 123-45-6789"
	findings := d.Detect(text)
	if len(findings) != 1 || findings[0].Category != CategoryEmail {
		t.Fatalf("Detect with email-only detector = %v, want one email finding", findings)
	}

	if !d.Contains(text) {
		t.Error("Contains should report the email")
	}
	if New(CategoryCard).Contains(text) {
		t.Error("card-only detector should not match")
	}
}

func TestMask_Email(t *testing.T) {
	d := New()

	masked, counts := d.Mask("contact alice@example.com for details")
	if want := "contact ***@example.com for details"; masked != want {
		t.Fatalf("Mask = %q, want %q", masked, want)
	}
	if counts[CategoryEmail] != 1 {
		t.Errorf("counts = %v, want one email", counts)
	}
}

func TestMask_CardKeepsLastFour(t *testing.T) {
	d := New()

	masked, counts := d.Mask("card 4111 1111 1111 1234 charged")
	if want := "card ****-****-****-1234 charged"; masked != want {
		t.Fatalf("Mask = %q, want %q", masked, want)
	}
	if counts[CategoryCard] != 1 {
		t.Errorf("counts = %v, want one card", counts)
	}
}

func TestMask_Redacted(t *testing.T) {
	d := New()

	tests := []struct {
		text string
		want string
	}{
		{"ssn 123-45-6789 on file", "ssn " + RedactedPlaceholder + " on file"},
		{"call 555-123-4567 now", "call " + RedactedPlaceholder + " now"},
		{"met Dr. Jane Smith today", "met " + RedactedPlaceholder + " today"},
	}

	for _, tt := range tests {
		masked, _ := d.Mask(tt.text)
		if masked != tt.want {
			t.Errorf("Mask(%q) = %q, want %q", tt.text, masked, tt.want)
		}
	}
}

func TestMask_MultipleFindings(t *testing.T) {
	d := New()

	text := "alice@example.com or 555-123-4567 or bob@example.com"
	masked, counts := d.Mask(text)

	if strings.Contains(masked, "alice") || strings.Contains(masked, "555-123-4567") {
		t.Fatalf("Mask left PII behind: %q", masked)
	}
	if counts[CategoryEmail] != 2 || counts[CategoryPhone] != 1 {
		t.Errorf("counts = %v, want 2 emails and 1 phone", counts)
	}
}

func TestMask_Idempotent(t *testing.T) {
	d := New()

	text := "alice@example.com, 123-45-6789, 4111 1111 1111 1234, Dr. Jane Smith, 555-123-4567"
	once, _ := d.Mask(text)
	twice, counts := d.Mask(once)

	if once != twice {
		t.Fatalf("Mask not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
	if len(counts) != 0 {
		t.Errorf("second Mask found %v, want nothing", counts)
	}
}

func TestMask_CleanTextUnchanged(t *testing.T) {
	d := New()

	text := "nothing sensitive here"
	masked, counts := d.Mask(text)
	if masked != text {
		t.Errorf("Mask changed clean text: %q", masked)
	}
	if counts != nil {
		t.Errorf("counts = %v, want nil", counts)
	}
}

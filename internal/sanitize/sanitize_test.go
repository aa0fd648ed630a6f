package sanitize

import (
	"strings"
	"testing"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain name unchanged",
			input:    "normal_filename",
			expected: "normal_filename",
		},
		{
			name:     "slashes to underscores",
			input:    "path/to/file",
			expected: "path_to_file",
		},
		{
			name:     "spaces to underscores",
			input:    "file name with spaces",
			expected: "file_name_with_spaces",
		},
		{
			name:     "timestamp with colons",
			input:    "2024-01-01T12:30:00",
			expected: "2024-01-01T12_30_00",
		},
		{
			name:     "parentheses stripped",
			input:    "file(with)parentheses",
			expected: "filewithparentheses",
		},
		{
			name:     "windows reserved characters",
			input:    `a<b>c:"d"|e?f*g`,
			expected: "a_b_c_d_e_f_g",
		},
		{
			name:     "whitespace run collapsed",
			input:    "too   many\t spaces",
			expected: "too_many_spaces",
		},
		{
			name:     "literal double underscore preserved",
			input:    "Helper__Chat",
			expected: "Helper__Chat",
		},
		{
			name:     "leading and trailing junk trimmed",
			input:    "  /session one/  ",
			expected: "session_one",
		},
		{
			name:     "empty input",
			input:    "",
			expected: DefaultName,
		},
		{
			name:     "only invalid characters",
			input:    "///:::",
			expected: DefaultName,
		},
		{
			name:     "unicode preserved",
			input:    "数据 分析",
			expected: "数据_分析",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filename(tt.input)
			if got != tt.expected {
				t.Errorf("Filename(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFilenameMaxLength(t *testing.T) {
	long := strings.Repeat("a", 200)

	if got := Filename(long); len([]rune(got)) != MaxFilenameLength {
		t.Errorf("default truncation: got %d runes, want %d", len([]rune(got)), MaxFilenameLength)
	}
	if got := FilenameMax(long, 50); len([]rune(got)) != 50 {
		t.Errorf("custom truncation: got %d runes, want 50", len([]rune(got)))
	}
	if got := FilenameMax("short", 80); got != "short" {
		t.Errorf("short input changed: %q", got)
	}

	// Truncation must not split a multi-byte rune.
	wide := strings.Repeat("数", 100)
	got := FilenameMax(wide, 10)
	if len([]rune(got)) != 10 {
		t.Errorf("rune truncation: got %d runes, want 10", len([]rune(got)))
	}
	for _, r := range got {
		if r != '数' {
			t.Errorf("rune corrupted during truncation: %q", got)
		}
	}
}

func TestFilenameNoReservedOutput(t *testing.T) {
	inputs := []string{
		"a/b\\c:d*e?f\"g<h>i|j",
		"  mixed / junk : everywhere  ",
		strings.Repeat("x:y/z ", 100),
		"",
	}
	for _, in := range inputs {
		got := Filename(in)
		if strings.ContainsAny(got, `/\:*?"<>|`) {
			t.Errorf("Filename(%q) = %q contains reserved characters", in, got)
		}
		if strings.ContainsAny(got, " \t\n") {
			t.Errorf("Filename(%q) = %q contains whitespace", in, got)
		}
		if len([]rune(got)) > MaxFilenameLength {
			t.Errorf("Filename(%q) exceeds max length: %d", in, len([]rune(got)))
		}
	}
}

func TestFilenameDeterministic(t *testing.T) {
	inputs := []string{"GPU Cost Crisis: Solution (v2)", "", "a/b", strings.Repeat("λ", 300)}
	for _, in := range inputs {
		first := Filename(in)
		for i := 0; i < 3; i++ {
			if got := Filename(in); got != first {
				t.Fatalf("Filename(%q) not deterministic: %q != %q", in, got, first)
			}
		}
	}
}

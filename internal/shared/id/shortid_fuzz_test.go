package id

import (
	"strings"
	"testing"
)

// FuzzGenerate tests the Generate function
func FuzzGenerate(f *testing.F) {
	// Seed with various lengths
	lengths := []int{0, 1, 2, 5, 10, 12, 20, 32, 50, 100}
	for _, l := range lengths {
		f.Add(l)
	}

	f.Fuzz(func(t *testing.T, length int) {
		result, err := Generate(length)

		// Should not return error
		if err != nil {
			t.Errorf("Generate(%d) returned error: %v", length, err)
			return
		}

		// If length <= 0, should use default length
		expectedLen := length
		if expectedLen <= 0 {
			expectedLen = DefaultLength
		}

		if len(result) != expectedLen {
			t.Errorf("Generate(%d) returned string of length %d, expected %d", length, len(result), expectedLen)
		}

		// All characters should be from the alphabet
		for _, c := range result {
			if !strings.ContainsRune(alphabet, c) {
				t.Errorf("Generate(%d) returned invalid character %q", length, c)
			}
		}
	})
}

// FuzzGenerateWithPrefix tests the GenerateWithPrefix function
func FuzzGenerateWithPrefix(f *testing.F) {
	seeds := []struct {
		prefix string
		length int
	}{
		{PrefixSubscription, DefaultLength},
		{PrefixApiKey, KeyLength},
		{"", 1},
		{"x", 0},
		{"multi_under", 5},
	}

	for _, seed := range seeds {
		f.Add(seed.prefix, seed.length)
	}

	f.Fuzz(func(t *testing.T, prefix string, length int) {
		id, err := GenerateWithPrefix(prefix, length)
		if err != nil {
			t.Errorf("GenerateWithPrefix(%q, %d) returned error: %v", prefix, length, err)
			return
		}

		if !strings.HasPrefix(id, prefix+"_") {
			t.Errorf("GenerateWithPrefix(%q, %d) = %q, missing prefix separator", prefix, length, id)
		}

		if !HasPrefix(id, prefix) {
			t.Errorf("HasPrefix(%q, %q) = false, expected true", id, prefix)
		}

		expectedLen := length
		if expectedLen <= 0 {
			expectedLen = DefaultLength
		}
		random := strings.TrimPrefix(id, prefix+"_")
		if len(random) != expectedLen {
			t.Errorf("GenerateWithPrefix(%q, %d) random part has length %d, expected %d", prefix, length, len(random), expectedLen)
		}
	})
}

// TestGenerateUniqueness tests that generated IDs are unique
func TestGenerateUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	iterations := 10000

	for i := 0; i < iterations; i++ {
		id, err := Generate(DefaultLength)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		if seen[id] {
			t.Errorf("Generate produced duplicate ID: %s", id)
		}
		seen[id] = true
	}
}

func TestHasPrefix(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		prefix string
		want   bool
	}{
		{"subscription id", "sub_xK9mP2vL3nQa", PrefixSubscription, true},
		{"api key id", "key_abc123", PrefixApiKey, true},
		{"wrong prefix", "sub_abc123", PrefixApiKey, false},
		{"missing separator", "subabc123", PrefixSubscription, false},
		{"prefix only", "sub_", PrefixSubscription, true},
		{"empty id", "", PrefixSubscription, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasPrefix(tt.id, tt.prefix); got != tt.want {
				t.Errorf("HasPrefix(%q, %q) = %v, want %v", tt.id, tt.prefix, got, tt.want)
			}
		})
	}
}

func TestMustGenerate(t *testing.T) {
	id := MustGenerate(KeyLength)
	if len(id) != KeyLength {
		t.Errorf("MustGenerate(%d) returned string of length %d", KeyLength, len(id))
	}
}

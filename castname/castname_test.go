package castname

import (
	"regexp"
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-z]+-[a-z]+$`)
	for i := 0; i < 10; i++ {
		result := Generate()
		if result == "" {
			t.Fatal("Generate() returned empty string")
		}
		if !pattern.MatchString(result) {
			t.Errorf("Generate() = %q, expected format 'adjective-noun'", result)
		}
	}
}

func TestGenerateComponents(t *testing.T) {
	result := Generate()
	adj, noun, ok := strings.Cut(result, "-")
	if !ok {
		t.Fatalf("Generate() = %q, missing separator", result)
	}

	found := false
	for _, w := range adjectives {
		if w == adj {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("Generate() = %q, %q not in adjectives list", result, adj)
	}

	found = false
	for _, w := range nouns {
		if w == noun {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("Generate() = %q, %q not in nouns list", result, noun)
	}
}

func TestGenerateVariety(t *testing.T) {
	results := make(map[string]bool)
	iterations := 100
	for i := 0; i < iterations; i++ {
		results[Generate()] = true
	}
	if len(results) < iterations/2 {
		t.Errorf("Generate() produced %d unique values out of %d iterations, expected more variety", len(results), iterations)
	}
}

func TestPickEmptyList(t *testing.T) {
	if _, err := pick(nil); err == nil {
		t.Error("pick(nil) expected error, got nil")
	}
}

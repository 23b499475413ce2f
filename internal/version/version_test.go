// ABOUTME: Tests for version constants
// ABOUTME: Checks the values announced in handshakes and mDNS records
package version

import (
	"strconv"
	"strings"
	"testing"
)

func TestVersionIsSemver(t *testing.T) {
	parts := strings.Split(Version, ".")
	if len(parts) != 3 {
		t.Fatalf("Version %q should have three dot-separated parts", Version)
	}

	for i, part := range parts {
		if _, err := strconv.Atoi(part); err != nil {
			t.Errorf("Version part %d (%q) is not numeric", i, part)
		}
	}
}

func TestIdentifiers(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"product", Product},
		{"manufacturer", Manufacturer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value == "" {
				t.Fatal("should not be empty")
			}
			if strings.TrimSpace(tt.value) != tt.value {
				t.Errorf("%q has surrounding whitespace", tt.value)
			}
			// TXT records limit a key=value pair to 255 bytes
			if len(tt.value) > 200 {
				t.Errorf("%q is too long for a TXT record", tt.value)
			}
		})
	}
}

func TestProductNamesManufacturer(t *testing.T) {
	if !strings.HasPrefix(Product, Manufacturer) {
		t.Errorf("Product %q should start with manufacturer %q", Product, Manufacturer)
	}
}

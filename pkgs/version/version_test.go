package version

import "testing"

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0", "2.0", -1},
		{"2.0", "1.0", 1},
		{"1.0", "1.0", 0},

		{"1.0.0", "1.0.1", -1},
		{"1.2.10", "1.2.9", 1},
		{"1.10", "1.9", 1},
		{"10", "9", 1},
		{"2", "10", -1},

		// semver treats a missing patch as zero
		{"1.0", "1.0.0", 0},
		{"v1.3.0", "1.2.0", 1},

		{"1.01", "1.1", 0},
		{"01", "1", 0},

		{"", "", 0},
		{"1", "", 1},
		{"", "1", -1},

		{"1.0~rc1", "1.0", -1},
		{"1.0~alpha", "1.0~beta", -1},
		{"~", "", -1},

		{"a", "1", 1},
		{"1a", "1b", -1},
		{"1.0a", "1.0", 1},

		{"1.0.0-rc1", "1.0.0-rc2", -1},
		{"1.0.0-rc10", "1.0.0-rc9", 1},
		{"2.0.0-rc1", "2.0.0", -1},
		{"2.0.0-alpha", "2.0.0", -1},
		{"1.2.0-beta.1", "1.2.0", -1},
		{"1.0.0-beta", "1.0.0-alpha", 1},
		{"1.0.0-alpha", "1.0.0-alpha.1", -1},
		{"1.0.1-rc1", "1.0.0", 1},
		{"v2.0.0-rc.2", "2.0.0-rc.1", 1},
		{"1.0.0+b1", "1.0.0+b2", -1},

		{"2.6.32", "2.6.32.1", -1},
		{"3.0", "2.6.39", 1},
		{"1.0.0", "1.0.0.0", -1},
		{"1-2", "1.2", -1},
		{"1_2", "1.2", 1},

		{"release-1.0", "release-2.0", -1},
		{"1.0+git20200101", "1.0+git20200102", -1},
	}
	for _, tt := range tests {
		if got := Compare(tt.a, tt.b); got != tt.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		if got := Compare(tt.b, tt.a); got != -tt.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", tt.b, tt.a, got, -tt.want)
		}
	}
}

func TestAtLeast(t *testing.T) {
	tests := []struct {
		have, min string
		want      bool
	}{
		{"1.3.0", "1.2.0", true},
		{"1.2.0", "1.2.0", true},
		{"1.1.9", "1.2.0", false},
		{"1.2.13", "1.2.3", true},
		{"0.9", "", true},
		{"", "1.0", false},
		{"2.0.0-rc1", "2.0.0", false},
		{"2.0.0", "2.0.0-rc1", true},
		{"2.0.0-alpha", "2.0.0", false},
		{"1.2.0-beta.1", "1.2.0", false},
		{"2.0.0-rc2", "2.0.0-rc1", true},
		{"2.1.0-rc1", "2.0.0", true},
	}
	for _, tt := range tests {
		if got := AtLeast(tt.have, tt.min); got != tt.want {
			t.Errorf("AtLeast(%q, %q) = %v, want %v", tt.have, tt.min, got, tt.want)
		}
	}
}

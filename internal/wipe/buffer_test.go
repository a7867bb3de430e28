package wipe

import "testing"

// TestBufferSizePolicy verifies the length-to-chunk-size mapping
func TestBufferSizePolicy(t *testing.T) {
	const (
		min = int64(1 << 20)
		max = int64(16 << 20)
	)

	tests := []struct {
		name     string
		length   int64
		expected int64
	}{
		{"zero length", 0, 0},
		{"negative length", -1, 0},
		{"one byte", 1, 1},
		{"small file", 4096, 4096},
		{"exactly min", min, min},
		{"just above min", min + 1, min},
		{"mid range clamped to min", 50 << 20, min},
		{"one percent in range", 200 << 20, 2 << 20},
		{"large file", 1 << 30, (1 << 30) / 100},
		{"huge file clamped to max", 1 << 40, max},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BufferSize(tt.length, min, max)
			if got != tt.expected {
				t.Errorf("BufferSize(%d) = %d, expected %d", tt.length, got, tt.expected)
			}
		})
	}
}

// TestBufferSizeAlwaysBounded verifies the invariant for positive lengths
func TestBufferSizeAlwaysBounded(t *testing.T) {
	const (
		min = int64(1 << 20)
		max = int64(16 << 20)
	)

	lengths := []int64{1, 100, min - 1, min, min + 1, 100 << 20, 3 << 30, 1 << 42}
	for _, l := range lengths {
		got := BufferSize(l, min, max)
		if got < 1 || got > max {
			t.Errorf("BufferSize(%d) = %d, outside [1, %d]", l, got, max)
		}
		if got > l {
			t.Errorf("BufferSize(%d) = %d, larger than the file itself", l, got)
		}
	}
}

package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  uint32
	}{
		{
			name:  "given empty string, then returns zero",
			input: "",
			want:  0,
		},
		{
			name:  "given single byte, then returns its value",
			input: "a",
			want:  97,
		},
		{
			name:  "given abc, then returns rolling hash",
			input: "abc",
			want:  96354,
		},
		{
			name:  "given hello, then matches the 31-multiplier string hash",
			input: "hello",
			want:  99162322,
		},
		{
			name:  "given non-ASCII text, then hashes the UTF-8 bytes",
			input: "héllo wörld",
			want:  636163487,
		},
		{
			name:  "given long input, then wraps at 32 bits",
			input: "The quick brown fox jumps over the lazy dog",
			want:  3685539155,
		},
		{
			name:  "given JSON variables, then returns expected hash",
			input: `{"a":1}`,
			want:  2852813310,
		},
		{
			name:  "given JSON null, then returns expected hash",
			input: "null",
			want:  3392903,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, String(tt.input))
			assert.Equal(t, tt.want, Sum32([]byte(tt.input)))
		})
	}
}

func TestString_Properties(t *testing.T) {
	t.Parallel()

	t.Run("deterministic and equal for bytes and strings", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			s := rapid.String().Draw(t, "input")

			first := String(s)
			assert.Equal(t, first, String(s))
			assert.Equal(t, first, Sum32([]byte(s)))
		})
	})

	t.Run("matches the recurrence computed in 64-bit arithmetic", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			b := rapid.SliceOf(rapid.Byte()).Draw(t, "input")

			var want uint64
			for _, c := range b {
				want = ((want << 5) - want + uint64(c)) & 0xFFFFFFFF
			}
			assert.Equal(t, uint32(want), Sum32(b))
		})
	})

	t.Run("appending a byte extends the accumulator", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			b := rapid.SliceOf(rapid.Byte()).Draw(t, "prefix")
			c := rapid.Byte().Draw(t, "suffix")

			assert.Equal(t, Sum32(b)*31+uint32(c), Sum32(append(b, c)))
		})
	})
}

func BenchmarkString(b *testing.B) {
	payload := `{"data":{"user":{"id":"1","name":"Ada","email":"ada@example.com"}}}`
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = String(payload)
	}
}

package byterange

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConcrete(t *testing.T) {
	tests := []struct {
		name  string
		spec  Spec
		total uint64
		want  Window
	}{
		{"head", FromTo(0, 99), 1000, Window{0, 100}},
		{"tail", FromTo(900, 999), 1000, Window{900, 100}},
		{"clamped end", FromTo(500, 2000), 1000, Window{500, 500}},
		{"single byte", FromTo(0, 0), 1, Window{0, 1}},
		{"all from", AllFrom(10), 1000, Window{10, 990}},
		{"all from zero", AllFrom(0), 1000, Window{0, 1000}},
		{"all from last", AllFrom(999), 1000, Window{999, 1}},
		{"suffix", SuffixLength(50), 1000, Window{950, 50}},
		{"suffix whole", SuffixLength(1000), 1000, Window{0, 1000}},
		{"suffix clamped", SuffixLength(5000), 1000, Window{0, 1000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve([]Spec{tt.spec}, tt.total)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, got.Offset+got.Length, tt.total)
			assert.GreaterOrEqual(t, got.Length, uint64(1))
		})
	}
}

func TestResolveUnsatisfiable(t *testing.T) {
	tests := []struct {
		name  string
		specs []Spec
		total uint64
	}{
		{"empty set", nil, 1000},
		{"empty set zero total", []Spec{}, 0},
		{"inverted", []Spec{FromTo(5, 2)}, 1000},
		{"start at end", []Spec{FromTo(1000, 1500)}, 1000},
		{"start past end", []Spec{FromTo(2000, 3000)}, 1000},
		{"from-to empty resource", []Spec{FromTo(0, 0)}, 0},
		{"all from at end", []Spec{AllFrom(1000)}, 1000},
		{"all from empty resource", []Spec{AllFrom(0)}, 0},
		{"zero suffix", []Spec{SuffixLength(0)}, 1000},
		{"suffix empty resource", []Spec{SuffixLength(10)}, 0},
		{"unknown kind", []Spec{{Kind: 42}}, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.specs, tt.total)
			require.Error(t, err)
			assert.True(t, IsUnsatisfiable(err))
			assert.NotEmpty(t, err.Error())
		})
	}
}

func TestResolveSuffixDiagnostics(t *testing.T) {
	_, err := Resolve([]Spec{SuffixLength(10)}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty resource")
	assert.NotContains(t, err.Error(), "zero-length")

	_, err = Resolve([]Spec{SuffixLength(0)}, 1000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zero-length")
}

func TestResolveOnlyFirstRange(t *testing.T) {
	got, err := Resolve([]Spec{FromTo(0, 9), AllFrom(5000), SuffixLength(0)}, 100)
	require.NoError(t, err)
	assert.Equal(t, Window{0, 10}, got)

	_, err = Resolve([]Spec{AllFrom(5000), FromTo(0, 9)}, 100)
	assert.True(t, IsUnsatisfiable(err))
}

func TestResolveProperties(t *testing.T) {
	totals := []uint64{1, 2, 3, 7, 64}
	for _, total := range totals {
		for x := uint64(0); x < total+3; x++ {
			for y := uint64(0); y < total+3; y++ {
				got, err := Resolve([]Spec{FromTo(x, y)}, total)
				switch {
				case x >= total || x > y:
					assert.True(t, IsUnsatisfiable(err), "FromTo(%d,%d)/%d", x, y, total)
				case y >= total:
					require.NoError(t, err)
					assert.Equal(t, Window{x, total - x}, got)
				default:
					require.NoError(t, err)
					assert.Equal(t, Window{x, y - x + 1}, got)
				}
			}

			got, err := Resolve([]Spec{AllFrom(x)}, total)
			if x >= total {
				assert.True(t, IsUnsatisfiable(err), "AllFrom(%d)/%d", x, total)
			} else {
				require.NoError(t, err)
				assert.Equal(t, Window{x, total - x}, got)
			}

			got, err = Resolve([]Spec{SuffixLength(x)}, total)
			switch {
			case x == 0:
				assert.True(t, IsUnsatisfiable(err))
			case x > total:
				require.NoError(t, err)
				assert.Equal(t, Window{0, total}, got)
			default:
				require.NoError(t, err)
				assert.Equal(t, Window{total - x, x}, got)
			}
		}
	}
}

func TestResolveLargeBounds(t *testing.T) {
	const max = ^uint64(0)

	got, err := Resolve([]Spec{FromTo(0, max)}, max)
	require.NoError(t, err)
	assert.Equal(t, Window{0, max}, got)

	got, err = Resolve([]Spec{SuffixLength(max)}, 10)
	require.NoError(t, err)
	assert.Equal(t, Window{0, 10}, got)

	_, err = Resolve([]Spec{AllFrom(max)}, max)
	assert.True(t, IsUnsatisfiable(err))
}

func TestResolveIdempotent(t *testing.T) {
	specs := []Spec{FromTo(3, 40)}
	w1, err1 := Resolve(specs, 20)
	w2, err2 := Resolve(specs, 20)
	assert.Equal(t, w1, w2)
	assert.Equal(t, err1, err2)
	assert.Equal(t, []Spec{FromTo(3, 40)}, specs)
}

func TestIsUnsatisfiableWrapped(t *testing.T) {
	_, err := Resolve(nil, 10)
	wrapped := errors.Wrap(err, "serve /a.bin")
	assert.True(t, IsUnsatisfiable(wrapped))
	assert.False(t, IsUnsatisfiable(errors.New("boom")))
	assert.False(t, IsUnsatisfiable(nil))
}

func TestContentRange(t *testing.T) {
	w := Window{Offset: 950, Length: 50}
	assert.Equal(t, uint64(999), w.Last())
	assert.Equal(t, "bytes 950-999/1000", w.ContentRange(1000))
	assert.Equal(t, "bytes */1000", UnsatisfiedContentRange(1000))
}

func TestSpecString(t *testing.T) {
	assert.Equal(t, "0-99", FromTo(0, 99).String())
	assert.Equal(t, "10-", AllFrom(10).String())
	assert.Equal(t, "-50", SuffixLength(50).String())
	assert.Equal(t, "invalid", Spec{}.String())
}

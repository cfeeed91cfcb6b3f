package clipboard

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystem_Copy(t *testing.T) {
	tests := []struct {
		name    string
		writeFn func(string) error
		want    bool
	}{
		{
			name:    "copies",
			writeFn: func(string) error { return nil },
			want:    true,
		},
		{
			name:    "write failure is reported as false",
			writeFn: func(string) error { return fmt.Errorf("exit status 1") },
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			originalWrite, originalUnsupported := clipboardWrite, clipboardUnsupported
			t.Cleanup(func() {
				clipboardWrite, clipboardUnsupported = originalWrite, originalUnsupported
			})
			clipboardUnsupported = func() bool { return false }

			var copied string
			clipboardWrite = func(text string) error {
				copied = text
				return tt.writeFn(text)
			}

			assert.Equal(t, tt.want, System{}.Copy("x = 4"))
			assert.Equal(t, "x = 4", copied)
		})
	}
}

func TestSystem_Copy_Unsupported(t *testing.T) {
	originalWrite, originalUnsupported := clipboardWrite, clipboardUnsupported
	t.Cleanup(func() {
		clipboardWrite, clipboardUnsupported = originalWrite, originalUnsupported
	})
	clipboardUnsupported = func() bool { return true }
	clipboardWrite = func(string) error {
		t.Fatal("clipboard must not be written")
		return nil
	}

	assert.False(t, System{}.Copy("x = 4"))
}

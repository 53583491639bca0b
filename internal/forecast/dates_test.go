package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalDate(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"compact", "20251022", "2025-10-22"},
		{"dashed", "2025-10-22", "2025-10-22"},
		{"slashed", "2025/10/22", "2025-10-22"},
		{"iso datetime", "2025-10-22T00:00:00+08:00", "2025-10-22"},
		{"iso datetime utc", "2025-10-22T15:00:00Z", "2025-10-22"},
		{"rfc822 style", "Wed, 22 Oct 2025 08:00:00 +0800", "2025-10-22"},
		{"bare textual", "22 Oct 2025", "2025-10-22"},
		{"whitespace", "  20251022  ", "2025-10-22"},
		{"empty", "", ""},
		{"unparseable kept as-is", "next Tuesday", "next Tuesday"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanonicalDate(tc.in))
		})
	}
}

func TestCanonicalDateAgreesAcrossForms(t *testing.T) {
	// The same calendar day in every upstream form must land on one
	// canonical value.
	forms := []string{"20251022", "2025-10-22", "2025/10/22", "2025-10-22T00:00:00+08:00"}
	for _, f := range forms {
		assert.Equal(t, "2025-10-22", CanonicalDate(f), "form %q", f)
	}
}

package redact

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "long_local", in: "alice@x.com", want: "al***@x.com"},
		{name: "short_local", in: "ab@x.com", want: "***@x.com"},
		{name: "no_at", in: "alice", want: "***"},
		{name: "many_at", in: "a@b@c", want: "***"},
		{name: "empty", in: "", want: "***"},
		{name: "unicode", in: "юзер@пример.рф", want: "юз***@пример.рф"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, Email(tt.in))
		})
	}
}

func TestUsername(t *testing.T) {
	t.Parallel()

	require.Equal(t, "a***", Username("alice"))
	require.Equal(t, "***", Username("a"))
	require.Equal(t, "***", Username(""))
	require.Equal(t, "ж***", Username("женя"))
}

func TestLiterals(t *testing.T) {
	t.Parallel()

	require.Equal(t, "[REDACTED_TOKEN]", Token())
	require.Equal(t, "[REDACTED_PASSWORD]", Password())
}

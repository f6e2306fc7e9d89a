package validate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldPrefixesName(t *testing.T) {
	v := Field("email", Required(), Email())

	err := v("")
	require.Error(t, err)
	require.Contains(t, err.Error(), "email")

	require.NoError(t, v("alice@team.com"))
	require.Error(t, v("not-an-email"))
}

func TestComposeFirstErrorWins(t *testing.T) {
	v := Compose(MinLength(3), MaxLength(5))

	require.Error(t, v("ab"))
	require.NoError(t, v("abcd"))
	require.Error(t, v("abcdef"))
}

func TestOneOf(t *testing.T) {
	v := OneOf("online", "away", "offline")

	require.NoError(t, v("away"))
	require.Error(t, v("busy"))
}

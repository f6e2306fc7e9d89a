package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveRoomKey(t *testing.T) {
	tests := []struct {
		name    string
		target  RoomTarget
		want    string
		wantErr error
	}{
		{
			name:   "group target uses the group id",
			target: RoomTarget{GroupID: "g1"},
			want:   "g1",
		},
		{
			name:   "direct target joins sorted ids",
			target: RoomTarget{SelfID: "u2", OtherID: "u1"},
			want:   "u1:u2",
		},
		{
			name:    "empty target",
			target:  RoomTarget{},
			wantErr: ErrInvalidTarget,
		},
		{
			name:    "missing counterpart",
			target:  RoomTarget{SelfID: "u1"},
			wantErr: ErrInvalidTarget,
		},
		{
			name:    "both group and pair",
			target:  RoomTarget{GroupID: "g1", SelfID: "u1", OtherID: "u2"},
			wantErr: ErrInvalidTarget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveRoomKey(tt.target)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDirectRoomKeySymmetry(t *testing.T) {
	pairs := [][2]string{
		{"u1", "u2"},
		{"alice", "bob"},
		{"9f3c", "0a1b"},
		{"same", "same"},
	}

	for _, p := range pairs {
		require.Equal(t, DirectRoomKey(p[0], p[1]), DirectRoomKey(p[1], p[0]),
			"key must not depend on argument order for %q/%q", p[0], p[1])
	}
}

func TestDirectRoomKeyDistinctPairs(t *testing.T) {
	// A naive concatenation without a separator would collapse ("a","bc")
	// and ("ab","c") into the same room.
	require.NotEqual(t, DirectRoomKey("a", "bc"), DirectRoomKey("ab", "c"))
}

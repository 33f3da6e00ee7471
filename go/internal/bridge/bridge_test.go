package bridge

import "testing"

func TestSubjectTokenSanitizesRoomIDs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		roomID string
		want   string
	}{
		{roomID: "my-room", want: "my-room"},
		{roomID: "my room.2", want: "my_room_2"},
		{roomID: "a*b>c", want: "a_b_c"},
		{roomID: "", want: "unknown"},
	}

	for _, tt := range tests {
		if got := subjectToken(tt.roomID); got != tt.want {
			t.Errorf("subjectToken(%q) = %q, want %q", tt.roomID, got, tt.want)
		}
	}
}

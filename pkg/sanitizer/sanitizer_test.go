package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Boardroom  ", "Boardroom"},
		{"Board   Room", "Board Room"},
		{"\tBoard\nRoom ", "Board Room"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := TrimAndNormalize(tt.in); got != tt.want {
			t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFoldRoom(t *testing.T) {
	if FoldRoom(" BOARDROOM ") != FoldRoom("boardroom") {
		t.Error("room identity must ignore case and surrounding space")
	}
	if FoldRoom("Boardroom") == FoldRoom("Boardroom 2") {
		t.Error("different rooms must fold to different identities")
	}
}

package utils

import "testing"

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"buy milk", "buy milk"},
		{"  walk dog \n", "walk dog"},
		{"   ", ""},
		{"\t\n", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeText(tt.in); got != tt.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseTaskID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1700000000000", 1700000000000, false},
		{"#42", 42, false},
		{" 7 ", 7, false},
		{"0", 0, false},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseTaskID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTaskID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTaskID(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestItemsLeft(t *testing.T) {
	tests := map[int]string{
		0: "0 items left",
		1: "1 item left",
		2: "2 items left",
	}
	for n, want := range tests {
		if got := ItemsLeft(n); got != want {
			t.Errorf("ItemsLeft(%d) = %q, want %q", n, got, want)
		}
	}
}

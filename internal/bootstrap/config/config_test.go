package config

import "testing"

func TestModulus(t *testing.T) {
	cases := []struct {
		mode    string
		want    int
		wantErr bool
	}{
		{mode: "", want: 0},
		{mode: "never", want: 0},
		{mode: "none", want: 0},
		{mode: "NEVER", want: 0},
		{mode: "every_1", want: 1},
		{mode: "every_3", want: 3},
		{mode: "Every_10", want: 10},
		{mode: "every_0", wantErr: true},
		{mode: "every_-2", wantErr: true},
		{mode: "every_x", wantErr: true},
		{mode: "sometimes", wantErr: true},
	}

	for _, tc := range cases {
		got, err := JuryConfig{Mode: tc.mode}.Modulus()
		if tc.wantErr {
			if err == nil {
				t.Fatalf("Modulus(%q) expected error", tc.mode)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Modulus(%q) error = %v", tc.mode, err)
		}
		if got != tc.want {
			t.Fatalf("Modulus(%q) = %d, want %d", tc.mode, got, tc.want)
		}
	}
}

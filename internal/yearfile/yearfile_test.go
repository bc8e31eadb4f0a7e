package yearfile

import "testing"

// TestFromPath verifies that the year is taken from the trailing 4 characters
// of the base name's first stem, and that non-numeric suffixes are rejected.
func TestFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		want    int
		wantErr bool
	}{
		{name: "plain", path: "egresos_2019.csv", want: 2019},
		{name: "nested dir", path: "/data/exports/egresos_2021.csv", want: 2021},
		{name: "double extension", path: "exports/egresos_2020.csv.gz", want: 2020},
		{name: "year only stem", path: "2017.csv", want: 2017},
		{name: "no extension", path: "egresos_2018", want: 2018},
		{name: "non numeric suffix", path: "egresos_final.csv", wantErr: true},
		{name: "digits then letters", path: "2019_egresos.csv", wantErr: true},
		{name: "stem too short", path: "x.csv", wantErr: true},
		{name: "empty", path: "", wantErr: true},
		{name: "trailing slash", path: "data/", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := FromPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("FromPath(%q) = %d, want error", tt.path, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromPath(%q): %v", tt.path, err)
			}
			if got != tt.want {
				t.Fatalf("FromPath(%q) = %d, want %d", tt.path, got, tt.want)
			}
		})
	}
}

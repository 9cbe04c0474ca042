package hosttype

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseStructTag(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		want    map[string]string
		wantErr bool
	}{
		{
			name: "empty tag",
			tag:  "",
			want: map[string]string{},
		},
		{
			name: "single key-value",
			tag:  "name=score",
			want: map[string]string{"name": "score"},
		},
		{
			name: "key-value and flag",
			tag:  "name=score, omit",
			want: map[string]string{"name": "score", "omit": ""},
		},
		{
			name: "dash as omit",
			tag:  "-",
			want: map[string]string{"-": ""},
		},
		{
			name: "quoted value with spaces",
			tag:  "label='High Score',name=highScore",
			want: map[string]string{"label": "High Score", "name": "highScore"},
		},
		{
			name: "double quoted value",
			tag:  `label="High Score"`,
			want: map[string]string{"label": "High Score"},
		},
		{
			name:    "empty key",
			tag:     "=x",
			wantErr: true,
		},
		{
			name:    "unterminated quote",
			tag:     "label='oops",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStructTag(tt.tag)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseStructTag(%q) mismatch (-want +got):\n%s", tt.tag, diff)
			}
		})
	}
}

func TestParseFieldTag(t *testing.T) {
	ft, err := ParseFieldTag("name='hit points',label='Hit Points'")
	if err != nil {
		t.Fatal(err)
	}
	if ft.Name != "hit points" || ft.Label != "Hit Points" || ft.Omit {
		t.Errorf("unexpected tag %+v", ft)
	}
	if _, err := ParseFieldTag("bogus=1"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestNormalizeName(t *testing.T) {
	tests := map[string]string{
		"Hit Points":  "HitPoints",
		" a\tb c ":    "abc",
		"already":     "already",
		"":            "",
		"Max  Health": "MaxHealth",
	}
	for in, want := range tests {
		if got := NormalizeName(in); got != want {
			t.Errorf("NormalizeName(%q): expected %q, got %q", in, want, got)
		}
	}
}

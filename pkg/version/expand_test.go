package version

import "testing"

func TestExpandComputesLatestAndStable(t *testing.T) {
	out := Expand(map[string]string{
		"1.0":    "u10",
		"2.0":    "u20",
		"2.1rc1": "urc",
	})

	if out["latest"] != "urc" {
		t.Errorf("latest = %q, want the URL of the maximum version", out["latest"])
	}
	if out["stable"] != "u20" {
		t.Errorf("stable = %q, want the URL of the maximum final release", out["stable"])
	}
	for _, label := range []string{"1.0", "2.0", "2.1rc1"} {
		if _, ok := out[label]; !ok {
			t.Errorf("original entry %q was dropped", label)
		}
	}
}

func TestExpandOverridesLiteralAliases(t *testing.T) {
	// When parseable labels exist, latest/stable are computed from them,
	// even if literal alias entries are present.
	out := Expand(map[string]string{
		"latest": "X",
		"1.0":    "u10",
	})
	if out["latest"] != "u10" {
		t.Errorf("latest = %q, want computed value u10", out["latest"])
	}
	if out["stable"] != "u10" {
		t.Errorf("stable = %q, want computed value u10", out["stable"])
	}
}

func TestExpandAliasFallbacks(t *testing.T) {
	tests := []struct {
		name           string
		in             map[string]string
		latest, stable string
	}{
		{
			name:   "stable only",
			in:     map[string]string{"stable": "S"},
			latest: "S", stable: "S",
		},
		{
			name:   "latest and stable",
			in:     map[string]string{"latest": "L", "stable": "S"},
			latest: "L", stable: "S",
		},
		{
			name:   "master only",
			in:     map[string]string{"master": "M"},
			latest: "M", stable: "M",
		},
		{
			// devdocs is an opaque alias; latest falls back to the stable
			// entry because nothing parses as a version.
			name:   "numpy devdocs",
			in:     map[string]string{"stable": "https://numpy.org/doc/stable/", "devdocs": "https://numpy.org/devdocs/"},
			latest: "https://numpy.org/doc/stable/", stable: "https://numpy.org/doc/stable/",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Expand(tt.in)
			if out["latest"] != tt.latest {
				t.Errorf("latest = %q, want %q", out["latest"], tt.latest)
			}
			if out["stable"] != tt.stable {
				t.Errorf("stable = %q, want %q", out["stable"], tt.stable)
			}
		})
	}
}

func TestExpandSynonyms(t *testing.T) {
	out := Expand(map[string]string{
		"2.3.x":  "ux",
		"v2.2.0": "uv",
	})
	if out["2.3"] != "ux" {
		t.Errorf(`synonym "2.3" = %q, want ux`, out["2.3"])
	}
	if out["2.2.0"] != "uv" {
		t.Errorf(`synonym "2.2.0" = %q, want uv`, out["2.2.0"])
	}
}

func TestExpandSynonymNeverShadowsLiteral(t *testing.T) {
	out := Expand(map[string]string{
		"2.3.x": "range",
		"2.3":   "exact",
	})
	if out["2.3"] != "exact" {
		t.Errorf(`"2.3" = %q, want the literal entry to win`, out["2.3"])
	}
}

func TestExpandEmpty(t *testing.T) {
	out := Expand(nil)
	if len(out) != 0 {
		t.Errorf("Expand(nil) = %v, want empty", out)
	}
}

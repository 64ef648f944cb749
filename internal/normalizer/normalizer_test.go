package normalizer

import (
	"reflect"
	"testing"
)

// TestNormalize tests cleaning raw affiliation strings.
func TestNormalize(t *testing.T) {
	t.Parallel()

	t.Run("plain institution passes through", func(t *testing.T) {
		t.Parallel()

		got := Normalize("Stanford University")
		want := []string{"Stanford University"}

		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("strips role prefix before at", func(t *testing.T) {
		t.Parallel()

		got := Normalize("Prof. at Stanford University")
		want := []string{"Stanford University"}

		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("drops unit with role marker entirely", func(t *testing.T) {
		t.Parallel()

		// "Director" names a person's role, so the whole unit goes even
		// though stripping could have salvaged "Acme University".
		if got := Normalize("Director at Acme University"); got != nil {
			t.Errorf("got %v, want nil", got)
		}
	})

	t.Run("drops professor marker", func(t *testing.T) {
		t.Parallel()

		if got := Normalize("Professor of Computer Science"); got != nil {
			t.Errorf("got %v, want nil", got)
		}
	})

	t.Run("splits on semicolons", func(t *testing.T) {
		t.Parallel()

		got := Normalize("MIT; Harvard University")
		want := []string{"MIT", "Harvard University"}

		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("splits on standalone and", func(t *testing.T) {
		t.Parallel()

		got := Normalize("MIT and Harvard University")
		want := []string{"MIT", "Harvard University"}

		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("does not split inside words containing and", func(t *testing.T) {
		t.Parallel()

		got := Normalize("Maryland Institute")
		want := []string{"Maryland Institute"}

		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("keeps city-country pair as one unit", func(t *testing.T) {
		t.Parallel()

		got := Normalize("University of Cambridge, UK")
		want := []string{"University of Cambridge, UK"}

		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("strips everything before @", func(t *testing.T) {
		t.Parallel()

		got := Normalize("Researcher @ DeepMind")
		want := []string{"DeepMind"}

		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("folds fullwidth comma", func(t *testing.T) {
		t.Parallel()

		got := Normalize("Tsinghua University，Beijing")
		want := []string{"Tsinghua University", "Beijing"}

		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("empty input yields nothing", func(t *testing.T) {
		t.Parallel()

		if got := Normalize(""); got != nil {
			t.Errorf("got %v, want nil", got)
		}
	})

	t.Run("whitespace-only yields nothing", func(t *testing.T) {
		t.Parallel()

		if got := Normalize("   "); got != nil {
			t.Errorf("got %v, want nil", got)
		}
	})

	t.Run("is pure and repeatable", func(t *testing.T) {
		t.Parallel()

		const raw = "Prof. at Stanford University; MIT and Cambridge, UK"
		first := Normalize(raw)
		second := Normalize(raw)

		if !reflect.DeepEqual(first, second) {
			t.Errorf("repeat call diverged: %v vs %v", first, second)
		}
	})
}

// TestCountryAwareCommaSplit tests the comma split that keeps country
// suffixes attached.
func TestCountryAwareCommaSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		part string
		want []string
	}{
		{
			name: "no commas",
			part: "Stanford University",
			want: []string{"Stanford University"},
		},
		{
			name: "country suffix joins",
			part: "University of Cambridge, UK",
			want: []string{"University of Cambridge, UK"},
		},
		{
			name: "iso country name joins",
			part: "ETH Zurich, Switzerland",
			want: []string{"ETH Zurich, Switzerland"},
		},
		{
			name: "plain city splits",
			part: "Stanford University, Palo Alto",
			want: []string{"Stanford University", "Palo Alto"},
		},
		{
			name: "leading country is skipped",
			part: "Germany, Max Planck Institute",
			want: []string{"Max Planck Institute"},
		},
		{
			name: "trailing lone country is skipped",
			part: "Tsinghua University, Beijing, China",
			want: []string{"Tsinghua University", "Beijing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := countryAwareCommaSplit(tt.part)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("countryAwareCommaSplit(%q) = %v, want %v", tt.part, got, tt.want)
			}
		})
	}
}

// TestIsCountry tests country-name detection.
func TestIsCountry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "iso name", in: "Japan", want: true},
		{name: "iso name lowercase", in: "france", want: true},
		{name: "alias UK", in: "UK", want: true},
		{name: "alias USA", in: "USA", want: true},
		{name: "alias with surrounding space", in: " England ", want: true},
		{name: "city is not a country", in: "Cambridge", want: false},
		{name: "empty string", in: "", want: false},
		{name: "institution", in: "Stanford University", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsCountry(tt.in); got != tt.want {
				t.Errorf("IsCountry(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

package csvimport

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/editflowhq/editflow/internal/dateutil"
)

var importNow = time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC)

func TestParse(t *testing.T) {
	t.Run("slash dates are normalized", func(t *testing.T) {
		tasks, warnings, err := Parse("新聞面對面, EP50, James, 2024/02/06", importNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(warnings) != 0 {
			t.Errorf("unexpected warnings: %v", warnings)
		}
		if len(tasks) != 1 {
			t.Fatalf("got %d tasks, want 1", len(tasks))
		}
		got := tasks[0]
		if got.Show != "新聞面對面" || got.Episode != "EP50" || got.Editor != "James" {
			t.Errorf("got %q/%q/%q, want 新聞面對面/EP50/James", got.Show, got.Episode, got.Editor)
		}
		if dateutil.Format(got.StartDate) != "2024-02-06" {
			t.Errorf("got start %s, want 2024-02-06", dateutil.Format(got.StartDate))
		}
		if !got.EndDate.Equal(got.StartDate) {
			t.Error("missing end date should default to start date")
		}
		if got.Version != 1 {
			t.Errorf("got version %d, want 1", got.Version)
		}
	})

	t.Run("quoted show name keeps its comma", func(t *testing.T) {
		tasks, _, err := Parse(`"Zoom In, Zoom Out",EP3,Eason,2024-03-01,2024-03-03`, importNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := tasks[0]
		if got.Show != "Zoom In, Zoom Out" {
			t.Errorf("got show %q, want %q", got.Show, "Zoom In, Zoom Out")
		}
		if dateutil.Format(got.EndDate) != "2024-03-03" {
			t.Errorf("got end %s, want 2024-03-03", dateutil.Format(got.EndDate))
		}
	})

	t.Run("header rows are skipped", func(t *testing.T) {
		text := "show,episode,editor,Start Date\nDC Insiders,EP1,James,2024-02-05"
		tasks, _, err := Parse(text, importNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tasks) != 1 {
			t.Fatalf("got %d tasks, want 1 (header skipped)", len(tasks))
		}
	})

	t.Run("show inside a program name is not a header", func(t *testing.T) {
		tasks, warnings, err := Parse("Morning Show,EP2,James,2024-02-05", importNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(warnings) != 0 {
			t.Errorf("unexpected warnings: %v", warnings)
		}
		if len(tasks) != 1 {
			t.Fatalf("got %d tasks, want 1 (row is data, not a header)", len(tasks))
		}
		if tasks[0].Show != "Morning Show" {
			t.Errorf("got show %q, want %q", tasks[0].Show, "Morning Show")
		}
	})

	t.Run("short rows are skipped with a warning", func(t *testing.T) {
		text := "DC Insiders,EP1,James,2024-02-05\nonly,three,columns"
		tasks, warnings, err := Parse(text, importNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tasks) != 1 {
			t.Errorf("got %d tasks, want 1", len(tasks))
		}
		if len(warnings) != 1 {
			t.Errorf("got %d warnings, want 1", len(warnings))
		}
	})

	t.Run("empty show falls back to default", func(t *testing.T) {
		tasks, _, err := Parse(`"",EP1,James,2024-02-05`, importNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tasks[0].Show != DefaultShow {
			t.Errorf("got show %q, want %q", tasks[0].Show, DefaultShow)
		}
	})

	t.Run("no usable rows is a hard failure", func(t *testing.T) {
		_, _, err := Parse("show,episode\n,,\n", importNow)
		if !errors.Is(err, ErrNoRows) {
			t.Errorf("got %v, want ErrNoRows", err)
		}
	})

	t.Run("dotted and swapped dates normalize", func(t *testing.T) {
		text := "A,EP1,James,2024.02.05\nB,EP2,Eason,05/02/2024"
		tasks, _, err := Parse(text, importNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := dateutil.Format(tasks[0].StartDate); got != "2024-02-05" {
			t.Errorf("dotted: got %s, want 2024-02-05", got)
		}
		if got := dateutil.Format(tasks[1].StartDate); got != "2024-02-05" {
			t.Errorf("swapped year: got %s, want 2024-02-05", got)
		}
	})
}

func TestSplitFields(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "plain fields trimmed",
			line: "a, b ,c",
			want: []string{"a", "b", "c"},
		},
		{
			name: "quoted comma preserved",
			line: `"Zoom In, Zoom Out",EP3,Eason,2024-03-01,2024-03-03`,
			want: []string{"Zoom In, Zoom Out", "EP3", "Eason", "2024-03-01", "2024-03-03"},
		},
		{
			name: "empty unquoted runs dropped",
			line: "a,,b,",
			want: []string{"a", "b"},
		},
		{
			name: "quoted empty kept",
			line: `"",b`,
			want: []string{"", "b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitFields(tt.line); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

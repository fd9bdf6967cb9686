package model

import "testing"

func TestProgressEvent_Percent(t *testing.T) {
	tests := []struct {
		name       string
		downloaded int64
		total      int64
		expected   float64
		known      bool
	}{
		{"unknown total", 100, 0, 0, false},
		{"negative total", 100, -1, 0, false},
		{"half", 512, 1024, 50, true},
		{"complete", 1024, 1024, 100, true},
		{"nothing yet", 0, 1024, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := ProgressEvent{DownloadedBytes: tt.downloaded, TotalBytes: tt.total}
			percent, ok := event.Percent()
			if ok != tt.known {
				t.Fatalf("expected known=%v, got %v", tt.known, ok)
			}
			if percent != tt.expected {
				t.Errorf("expected percent %v, got %v", tt.expected, percent)
			}
		})
	}
}

func TestDownloadResult_GetDisplayTitle(t *testing.T) {
	tests := []struct {
		title      string
		outputPath string
		url        string
		expected   string
	}{
		{"Video Title", "", "https://youtube.com/watch?v=123", "Video Title"},
		{"", "", "https://youtube.com/watch?v=123", "https://youtube.com/watch?v=123"},
		{"", "/music/Some_Song.mp3", "https://youtube.com/watch?v=456", "Some_Song"},
		{"", `C:\music\Other.mp3`, "https://youtube.com/watch?v=789", "Other"},
		{"https://youtube.com/watch?v=1", "", "https://youtube.com/watch?v=1", "https://youtube.com/watch?v=1"},
	}

	for _, test := range tests {
		result := &DownloadResult{Title: test.title, OutputPath: test.outputPath, URL: test.url}
		got := result.GetDisplayTitle()
		if got != test.expected {
			t.Errorf("GetDisplayTitle() with title='%s', output='%s' = '%s', expected '%s'",
				test.title, test.outputPath, got, test.expected)
		}
	}
}

func TestBatchSummary_Record(t *testing.T) {
	var summary BatchSummary

	summary.Record(DownloadResult{URL: "a", Succeeded: true})
	summary.Record(DownloadResult{URL: "b", Succeeded: false, Error: "boom"})
	summary.Record(DownloadResult{URL: "c", Succeeded: true})

	if summary.Total != 3 {
		t.Errorf("Expected total 3, got %d", summary.Total)
	}
	if summary.Succeeded != 2 {
		t.Errorf("Expected succeeded 2, got %d", summary.Succeeded)
	}
	if summary.Failed != 1 {
		t.Errorf("Expected failed 1, got %d", summary.Failed)
	}

	expected := "total=3 succeeded=2 failed=1"
	if summary.String() != expected {
		t.Errorf("Expected %q, got %q", expected, summary.String())
	}
}

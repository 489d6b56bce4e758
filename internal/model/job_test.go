package model

import (
	"testing"
	"time"
)

func TestParseQuality(t *testing.T) {
	tests := []struct {
		input    string
		expected Quality
		wantErr  bool
	}{
		{"128", QualityStandard, false},
		{"256", QualityHigh, false},
		{"standard", QualityStandard, false},
		{"high", QualityHigh, false},
		{"High", QualityHigh, false},
		{" 128 ", QualityStandard, false},
		{"320", 0, true},
		{"", 0, true},
	}

	for _, test := range tests {
		result, err := ParseQuality(test.input)
		if test.wantErr {
			if err == nil {
				t.Errorf("ParseQuality(%q) expected error, got nil", test.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseQuality(%q) unexpected error: %v", test.input, err)
			continue
		}
		if result != test.expected {
			t.Errorf("ParseQuality(%q) = %v, expected %v", test.input, result, test.expected)
		}
	}
}

func TestQuality_BitrateArg(t *testing.T) {
	if QualityStandard.BitrateArg() != "128K" {
		t.Errorf("Expected '128K', got '%s'", QualityStandard.BitrateArg())
	}

	if QualityHigh.BitrateArg() != "256K" {
		t.Errorf("Expected '256K', got '%s'", QualityHigh.BitrateArg())
	}
}

func TestJob_GetDisplayTitle(t *testing.T) {
	tests := []struct {
		outputPath string
		url        string
		expected   string
	}{
		{"", "https://youtube.com/watch?v=123", "https://youtube.com/watch?v=123"},
		{"/home/user/Downloads/Song Title [abc].mp3", "https://youtube.com/watch?v=abc", "Song Title [abc]"},
		{"C:\\Users\\user\\Downloads\\Track.mp3", "https://youtube.com/watch?v=xyz", "Track"},
	}

	for _, test := range tests {
		job := &Job{
			URL:        test.url,
			OutputPath: test.outputPath,
		}
		result := job.GetDisplayTitle()
		if result != test.expected {
			t.Errorf("GetDisplayTitle() with outputPath='%s' = '%s', expected '%s'",
				test.outputPath, result, test.expected)
		}
	}
}

func TestJob_FailureText(t *testing.T) {
	job := &Job{
		State:  JobStateSucceeded,
		Reason: FailureCancelled,
	}
	if job.FailureText() != "" {
		t.Errorf("Expected empty failure text for succeeded job, got '%s'", job.FailureText())
	}

	job = &Job{
		State:  JobStateFailed,
		Reason: FailureCancelled,
	}
	if job.FailureText() != "Cancelled" {
		t.Errorf("Expected 'Cancelled', got '%s'", job.FailureText())
	}

	job = &Job{
		State:        JobStateFailed,
		Reason:       FailureSubprocessError,
		ReasonDetail: "ERROR: video unavailable",
	}
	expected := "SubprocessError: ERROR: video unavailable"
	if job.FailureText() != expected {
		t.Errorf("Expected '%s', got '%s'", expected, job.FailureText())
	}
}

func TestJob_Creation(t *testing.T) {
	now := time.Now()
	job := &Job{
		ID:        "job-123",
		URL:       "https://youtube.com/watch?v=test",
		Quality:   QualityStandard,
		State:     JobStateQueued,
		Percent:   0,
		CreatedAt: now,
	}

	if job.ID != "job-123" {
		t.Errorf("Expected ID to be 'job-123', got '%s'", job.ID)
	}

	if job.State != JobStateQueued {
		t.Errorf("Expected state to be JobStateQueued, got %s", job.State)
	}

	if !job.CreatedAt.Equal(now) {
		t.Errorf("Expected CreatedAt to be %v, got %v", now, job.CreatedAt)
	}
}

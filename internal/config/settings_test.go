package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	settings, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if settings.MaxParallel != DefaultMaxParallel {
		t.Errorf("Expected MaxParallel to be %d, got %d", DefaultMaxParallel, settings.MaxParallel)
	}

	if settings.Quality != DefaultQuality {
		t.Errorf("Expected Quality to be '%s', got '%s'", DefaultQuality, settings.Quality)
	}

	if settings.MaxURLLength != DefaultMaxURLLength {
		t.Errorf("Expected MaxURLLength to be %d, got %d", DefaultMaxURLLength, settings.MaxURLLength)
	}

	if settings.DownloadDir == "" {
		t.Error("Expected DownloadDir to fall back to the platform Downloads directory")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("YTMP3_MAX_PARALLEL_DOWNLOADS", "5")
	t.Setenv("YTMP3_QUALITY_PRESET", "high")
	t.Setenv("YTMP3_DOWNLOAD_DIRECTORY", "/tmp/yt-mp3-test")

	settings, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if settings.MaxParallel != 5 {
		t.Errorf("Expected MaxParallel to be 5, got %d", settings.MaxParallel)
	}

	if settings.Quality != "high" {
		t.Errorf("Expected Quality to be 'high', got '%s'", settings.Quality)
	}

	if settings.DownloadDir != "/tmp/yt-mp3-test" {
		t.Errorf("Expected DownloadDir to be '/tmp/yt-mp3-test', got '%s'", settings.DownloadDir)
	}
}

func TestLoad_ClampsParallel(t *testing.T) {
	t.Setenv("YTMP3_MAX_PARALLEL_DOWNLOADS", "100")

	settings, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if settings.MaxParallel != MaxParallel {
		t.Errorf("Expected MaxParallel to be clamped to %d, got %d", MaxParallel, settings.MaxParallel)
	}
}

func TestClampParallel(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{0, MinParallel},
		{-3, MinParallel},
		{1, 1},
		{3, 3},
		{10, 10},
		{11, MaxParallel},
		{100, MaxParallel},
	}

	for _, test := range tests {
		result := ClampParallel(test.input)
		if result != test.expected {
			t.Errorf("ClampParallel(%d) = %d, expected %d", test.input, result, test.expected)
		}
	}
}

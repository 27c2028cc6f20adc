package voice_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"studypulse/internal/services"
	"studypulse/internal/voice"
)

func TestClassifyWordsThresholds(t *testing.T) {
	for w := 0; w < 40; w++ {
		got := voice.ClassifyWords(w)
		var want voice.StressLevel
		switch {
		case w < 10:
			want = voice.StressLow
		case w < 20:
			want = voice.StressMedium
		default:
			want = voice.StressHigh
		}
		if got != want {
			t.Fatalf("ClassifyWords(%d) = %s, want %s", w, got, want)
		}
	}
}

func TestClassifyStressFromTranscript(t *testing.T) {
	cases := []struct {
		transcript string
		want       voice.StressLevel
	}{
		{"", voice.StressLow},
		{"   \n\t ", voice.StressLow},
		{"I am fine", voice.StressLow},
		{strings.Repeat("word ", 9), voice.StressLow},
		{strings.Repeat("word ", 10), voice.StressMedium},
		{strings.Repeat("word ", 19), voice.StressMedium},
		{strings.Repeat("word ", 20), voice.StressHigh},
		{"one\ttwo\nthree  four", voice.StressLow},
	}
	for _, tc := range cases {
		if got := voice.ClassifyStress(tc.transcript); got != tc.want {
			t.Fatalf("ClassifyStress(%q) = %s, want %s", tc.transcript, got, tc.want)
		}
	}
}

func TestAnalyzeIAmFine(t *testing.T) {
	got := voice.Analyze(" I am fine ")
	if got.WordCount != 3 {
		t.Fatalf("expected 3 words, got %d", got.WordCount)
	}
	if got.StressLevel != voice.StressLow {
		t.Fatalf("expected Low, got %s", got.StressLevel)
	}
	if got.EnergyLevel != 15.0 {
		t.Fatalf("expected energy 15.0, got %v", got.EnergyLevel)
	}
	if got.Transcript != "I am fine" {
		t.Fatalf("expected trimmed transcript, got %q", got.Transcript)
	}
}

func TestEnergyLevelCaps(t *testing.T) {
	if got := voice.EnergyLevel(0); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := voice.EnergyLevel(20); got != 100 {
		t.Fatalf("expected 100, got %v", got)
	}
	if got := voice.EnergyLevel(45); got != 100 {
		t.Fatalf("expected cap at 100, got %v", got)
	}
}

func TestDisabledTranscriber(t *testing.T) {
	_, err := voice.Disabled{}.Transcribe(context.Background(), voice.Audio{})
	if !errors.Is(err, voice.ErrTranscriptionDisabled) {
		t.Fatalf("expected disabled error, got %v", err)
	}
	if !errors.Is(err, services.ErrNotImplemented) {
		t.Fatalf("expected not-implemented marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "send a transcript") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

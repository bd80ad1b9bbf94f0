package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadPreferencesDefaultsOnMissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	prefs, err := loadPreferences()
	assert.NoError(t, err)
	assert.Equal(t, defaultPreferences(), prefs)
}

func TestLoadPreferencesReadsFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	contents := "theme: solarized\nexpand_depth: 4\n"
	path := filepath.Join(home, ".amlexplore.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	prefs, err := loadPreferences()
	assert.NoError(t, err)
	assert.Equal(t, preferences{Theme: "solarized", ExpandDepth: 4}, prefs)
}

func TestLoadPreferencesMalformedFileIsError(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, ".amlexplore.yaml")
	if err := os.WriteFile(path, []byte("theme: [unterminated"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := loadPreferences()
	assert.Error(t, err)
}

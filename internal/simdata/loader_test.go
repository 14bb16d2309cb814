package simdata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeResultFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func TestParseRunID(t *testing.T) {
	testCases := []struct {
		name      string
		filename  string
		wantID    int
		wantOK    bool
		expectErr bool
	}{
		{"simple_id", "sim_0.json", 0, true, false},
		{"multi_digit_id", "sim_42.json", 42, true, false},
		{"negative_id", "sim_-3.json", -3, true, false},
		{"leading_zero", "sim_007.json", 7, true, false},
		{"wrong_prefix", "run_1.json", 0, false, false},
		{"wrong_suffix", "sim_1.json.bak", 0, false, false},
		{"uppercase_suffix", "sim_1.JSON", 0, false, false},
		{"unrelated_file", "notes.txt", 0, false, false},
		{"non_integer_id", "sim_abc.json", 0, false, true},
		{"empty_id", "sim_.json", 0, false, true},
		{"float_id", "sim_1.5.json", 0, false, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok, err := parseRunID(tc.filename)
			if tc.expectErr {
				if err == nil {
					t.Errorf("expected error for %q, got nil", tc.filename)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tc.wantOK {
				t.Errorf("expected ok=%v, got %v", tc.wantOK, ok)
			}
			if ok && id != tc.wantID {
				t.Errorf("expected id %d, got %d", tc.wantID, id)
			}
		})
	}
}

func TestLoadResults(t *testing.T) {
	dir := t.TempDir()
	writeResultFile(t, dir, "sim_10.json", `{"time": [0, 1], "com_1": [1.5, 2.5], "com_2": [0.1, 0.2]}`)
	writeResultFile(t, dir, "sim_2.json", `{"time": [0, 1, 2], "com_1": [3.0, 4.0, 5.0], "com_2": [0.3, 0.4, 0.5]}`)
	writeResultFile(t, dir, "readme.txt", "not a result")
	writeResultFile(t, dir, "other.json", `{"time": [0]}`)

	c, err := LoadResults(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 runs, got %d", c.Len())
	}

	ids := c.IDs()
	if ids[0] != 2 || ids[1] != 10 {
		t.Errorf("expected ids in ascending order [2 10], got %v", ids)
	}

	rec, ok := c.Get(10)
	if !ok {
		t.Fatal("expected run 10 to be present")
	}
	if rec.Steps() != 2 {
		t.Errorf("expected run 10 to have 2 steps, got %d", rec.Steps())
	}
	if got := rec.Series["com_1"][1]; got != 2.5 {
		t.Errorf("expected com_1[1] = 2.5, got %v", got)
	}

	// Unknown keys in a result file are ignored.
	writeResultFile(t, dir, "sim_3.json", `{"time": [0], "com_1": [1], "com_2": [2], "volume": [9]}`)
	c, err = LoadResults(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec, _ = c.Get(3)
	if len(rec.Series) != 2 {
		t.Errorf("expected exactly 2 series, got %v", rec.Series.Names())
	}
}

func TestLoadResultsNotADirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")
	if _, err := LoadResults(missing); !errors.Is(err, ErrNotDirectory) {
		t.Errorf("expected ErrNotDirectory for missing path, got %v", err)
	}

	file := filepath.Join(t.TempDir(), "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := LoadResults(file); !errors.Is(err, ErrNotDirectory) {
		t.Errorf("expected ErrNotDirectory for regular file, got %v", err)
	}
}

func TestLoadResultsEmptyDirectory(t *testing.T) {
	c, err := LoadResults(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty collection, got %d runs", c.Len())
	}
}

func TestLoadResultsMalformedFiles(t *testing.T) {
	testCases := []struct {
		name    string
		file    string
		content string
	}{
		{"invalid_json", "sim_1.json", `{"time": [0], "com_1":`},
		{"missing_time", "sim_1.json", `{"com_1": [1], "com_2": [2]}`},
		{"missing_com_1", "sim_1.json", `{"time": [0], "com_2": [2]}`},
		{"missing_com_2", "sim_1.json", `{"time": [0], "com_1": [1]}`},
		{"length_mismatch", "sim_1.json", `{"time": [0, 1], "com_1": [1], "com_2": [2, 3]}`},
		{"non_numeric_series", "sim_1.json", `{"time": [0], "com_1": ["a"], "com_2": [2]}`},
		{"non_integer_time", "sim_1.json", `{"time": [0.5], "com_1": [1], "com_2": [2]}`},
		{"bad_run_id", "sim_x.json", `{"time": [0], "com_1": [1], "com_2": [2]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeResultFile(t, dir, tc.file, tc.content)
			if _, err := LoadResults(dir); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadResultsDuplicateRunID(t *testing.T) {
	dir := t.TempDir()
	// sim_1.json and sim_01.json both parse to run id 1.
	writeResultFile(t, dir, "sim_1.json", `{"time": [0], "com_1": [1], "com_2": [2]}`)
	writeResultFile(t, dir, "sim_01.json", `{"time": [0], "com_1": [1], "com_2": [2]}`)

	if _, err := LoadResults(dir); err == nil {
		t.Error("expected duplicate run id error, got nil")
	}
}

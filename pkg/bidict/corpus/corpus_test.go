package corpus

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeDump(t *testing.T, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.json.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create dump: %v", err)
	}
	gz := gzip.NewWriter(f)
	for _, line := range lines {
		if _, err := io.WriteString(gz, line+"\n"); err != nil {
			t.Fatalf("Failed to write dump: %v", err)
		}
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("Failed to close gzip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Failed to close dump: %v", err)
	}
	return path
}

func longText(word string) string {
	return strings.Repeat(word+" ", 30) // comfortably over MinArticleLen
}

func TestReaderStreamsAdmittedRecords(t *testing.T) {
	path := writeDump(t, []string{
		`{"title":"Fjell","text":"` + longText("fjell") + `"}`,
		`{"title":"Fjord","text":"` + longText("fjord") + `"}`,
	})

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()

	var titles []string
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		titles = append(titles, rec.Title)
	}

	if len(titles) != 2 || titles[0] != "Fjell" || titles[1] != "Fjord" {
		t.Errorf("Unexpected titles: %v", titles)
	}
}

func TestReaderSkipsMalformedLines(t *testing.T) {
	path := writeDump(t, []string{
		`{"title":"Ok","text":"` + longText("tekst") + `"}`,
		`{not json at all`,
		``,
		`{"title":"Ogsaa ok","text":"` + longText("meir") + `"}`,
	})

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()

	count := 0
	for {
		if _, err := r.Next(); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		count++
	}

	if count != 2 {
		t.Errorf("Expected 2 admitted records, got %d", count)
	}
	if r.Malformed() != 1 {
		t.Errorf("Expected 1 malformed line, got %d", r.Malformed())
	}
}

func TestReaderAdmissionThreshold(t *testing.T) {
	short := strings.Repeat("x", MinArticleLen) // exactly at the limit: rejected
	path := writeDump(t, []string{
		`{"text":"` + short + `"}`,
		`{"text":""}`,
		`{"title":"Utan tekst"}`,
		`{"text":"` + strings.Repeat("y", MinArticleLen+1) + `"}`,
	})

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()

	count := 0
	for {
		if _, err := r.Next(); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		count++
	}

	if count != 1 {
		t.Errorf("Expected 1 admitted record, got %d", count)
	}
	if r.Rejected() != 3 {
		t.Errorf("Expected 3 rejected records, got %d", r.Rejected())
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "finst-ikkje.json.gz")); err == nil {
		t.Error("Opening a missing dump should fail")
	}
}

func TestOpenNotGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.json")
	if err := os.WriteFile(path, []byte(`{"text":"x"}`), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := Open(path); err == nil {
		t.Error("Opening a non-gzip file should fail")
	}
}

package database

import (
	"database/sql"
	"errors"
	"os"
	"testing"
)

// openTestDB connects to the database named by PPTXTEXT_TEST_DB_URL.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	url := os.Getenv("PPTXTEXT_TEST_DB_URL")
	if url == "" {
		t.Skip("PPTXTEXT_TEST_DB_URL not set")
	}
	db, err := NewConnection(url)
	if err != nil {
		t.Fatalf("NewConnection failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := EnsureSchema(db); err != nil {
		t.Fatal(err)
	}
	if err := ClearDatabase(db); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestExtractionRoundTrip(t *testing.T) {
	db := openTestDB(t)

	id, err := SaveExtraction(db, &Extraction{
		Filename:         "deck.pptx",
		OriginalFilePath: "/stage/deck.pptx",
		Checksum:         "abc",
		Text:             "Slide1\nSlide2",
		SlideCount:       2,
		TextRunCount:     2,
	})
	if err != nil {
		t.Fatalf("SaveExtraction failed: %v", err)
	}

	if err := UpdateExtractionSummary(db, id, "two slides"); err != nil {
		t.Fatal(err)
	}
	if err := UpdateExtractionPath(db, id, "/done/deck.pptx"); err != nil {
		t.Fatal(err)
	}

	got, err := GetExtractionByChecksum(db, "abc")
	if err != nil {
		t.Fatalf("GetExtractionByChecksum failed: %v", err)
	}
	if got.ID != id || got.Text != "Slide1\nSlide2" || got.AISummary != "two slides" || got.OriginalFilePath != "/done/deck.pptx" {
		t.Errorf("Unexpected extraction: %+v", got)
	}

	all, err := GetAllExtractions(db)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 extraction, got %d", len(all))
	}

	if _, err := GetExtractionByChecksum(db, "missing"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected sql.ErrNoRows, got %v", err)
	}
}

func TestDuplicateChecksumRejected(t *testing.T) {
	db := openTestDB(t)

	e := &Extraction{Filename: "a.pptx", OriginalFilePath: "/a.pptx", Checksum: "same", Text: ""}
	if _, err := SaveExtraction(db, e); err != nil {
		t.Fatal(err)
	}
	if _, err := SaveExtraction(db, e); err == nil {
		t.Error("Expected unique violation on duplicate checksum")
	}
}

package database

import (
	"database/sql"
	"time"
)

// Extraction is one stored text extraction of a presentation file.
type Extraction struct {
	ID               int       `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilePath string    `json:"original_file_path"`
	Checksum         string    `json:"checksum"`
	Text             string    `json:"text"`
	SlideCount       int       `json:"slide_count"`
	TextRunCount     int       `json:"text_run_count"`
	AISummary        string    `json:"ai_summary"`
	CreatedAt        time.Time `json:"created_at"`
}

const extractionColumns = "id, filename, original_file_path, checksum, text, slide_count, text_run_count, ai_summary, created_at"

func scanExtraction(row interface{ Scan(...interface{}) error }) (*Extraction, error) {
	var e Extraction
	err := row.Scan(&e.ID, &e.Filename, &e.OriginalFilePath, &e.Checksum, &e.Text, &e.SlideCount, &e.TextRunCount, &e.AISummary, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func SaveExtraction(db *sql.DB, e *Extraction) (int, error) {
	query := `
		INSERT INTO pptx_texts (filename, original_file_path, checksum, text, slide_count, text_run_count, ai_summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id int
	err := db.QueryRow(query, e.Filename, e.OriginalFilePath, e.Checksum, e.Text, e.SlideCount, e.TextRunCount, e.AISummary).Scan(&id)
	return id, err
}

// GetExtractionByChecksum returns sql.ErrNoRows when nothing matches.
func GetExtractionByChecksum(db *sql.DB, checksum string) (*Extraction, error) {
	row := db.QueryRow("SELECT "+extractionColumns+" FROM pptx_texts WHERE checksum = $1", checksum)
	return scanExtraction(row)
}

func GetAllExtractions(db *sql.DB) ([]Extraction, error) {
	rows, err := db.Query("SELECT " + extractionColumns + " FROM pptx_texts ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	extractions := []Extraction{}
	for rows.Next() {
		e, err := scanExtraction(rows)
		if err != nil {
			return nil, err
		}
		extractions = append(extractions, *e)
	}
	return extractions, rows.Err()
}

func UpdateExtractionSummary(db *sql.DB, id int, summary string) error {
	_, err := db.Exec("UPDATE pptx_texts SET ai_summary = $1 WHERE id = $2", summary, id)
	return err
}

func UpdateExtractionPath(db *sql.DB, id int, path string) error {
	_, err := db.Exec("UPDATE pptx_texts SET original_file_path = $1 WHERE id = $2", path, id)
	return err
}

func ClearDatabase(db *sql.DB) error {
	_, err := db.Exec("DELETE FROM pptx_texts")
	return err
}

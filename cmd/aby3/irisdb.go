package main

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/luxfi/aby3/internal/errs"
	"github.com/luxfi/aby3/internal/iriscode"
)

// loadIrisDB reads every record of a sample database in id order. The
// schema is the one irisgen produces: iris_codes(id INTEGER PRIMARY
// KEY, code BLOB, mask BLOB) with raw packed bit-vector blobs.
func loadIrisDB(path string) ([]iriscode.IrisCode, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrIO, "open iris database")
	}
	defer db.Close()

	rows, err := db.Query("SELECT code, mask FROM iris_codes ORDER BY id")
	if err != nil {
		return nil, errs.Wrap(errs.ErrIO, "query iris records")
	}
	defer rows.Close()

	var records []iriscode.IrisCode
	for rows.Next() {
		var codeBlob, maskBlob []byte
		if err := rows.Scan(&codeBlob, &maskBlob); err != nil {
			return nil, errs.Wrap(errs.ErrIO, "scan iris record")
		}
		code, err := iriscode.BitsFromBytes(codeBlob)
		if err != nil {
			return nil, err
		}
		mask, err := iriscode.BitsFromBytes(maskBlob)
		if err != nil {
			return nil, err
		}
		records = append(records, iriscode.IrisCode{Code: code, Mask: mask})
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrIO, "iterate iris records")
	}
	return records, nil
}

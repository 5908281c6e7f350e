package sqlite

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDriverInfo(t *testing.T) {
	info := GetInfo()

	if info.DriverName == "" {
		t.Error("DriverName should not be empty")
	}
	if info.DriverType == "" {
		t.Error("DriverType should not be empty")
	}
	if info.Package == "" {
		t.Error("Package should not be empty")
	}

	if info.DriverName != DriverName() {
		t.Errorf("DriverName mismatch: info=%s, func=%s", info.DriverName, DriverName())
	}
	if info.DriverType != DriverType() {
		t.Errorf("DriverType mismatch: info=%s, func=%s", info.DriverType, DriverType())
	}
	if info.IsCGO != IsCGO() {
		t.Errorf("IsCGO mismatch: info=%v, func=%v", info.IsCGO, IsCGO())
	}

	t.Logf("SQLite driver: %s (%s) from %s", info.DriverName, info.DriverType, info.Package)
}

func TestOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "files.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE files (path TEXT PRIMARY KEY, format TEXT, detected_at TIMESTAMP)`)
	if err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	_, err = db.Exec(`INSERT INTO files (path, format, detected_at) VALUES (?, ?, ?)`,
		"data/report.pdf", "Portable Document Format", now)
	if err != nil {
		t.Fatalf("failed to insert: %v", err)
	}

	var formatName string
	var detectedAt time.Time
	err = db.QueryRow(`SELECT format, detected_at FROM files WHERE path = ?`, "data/report.pdf").
		Scan(&formatName, &detectedAt)
	if err != nil {
		t.Fatalf("failed to query: %v", err)
	}
	if formatName != "Portable Document Format" {
		t.Errorf("format = %q, want Portable Document Format", formatName)
	}
	if !detectedAt.Equal(now) {
		t.Errorf("detected_at = %v, want %v", detectedAt, now)
	}
}

func TestOpenReadOnly(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "files.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	_, err = db.Exec(`CREATE TABLE files (path TEXT PRIMARY KEY, format TEXT)`)
	if err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	_, err = db.Exec(`INSERT INTO files (path, format) VALUES (?, ?)`, "a.png", "Portable Network Graphics")
	if err != nil {
		t.Fatalf("failed to insert: %v", err)
	}
	db.Close()

	rodb, err := OpenReadOnly(dbPath)
	if err != nil {
		t.Fatalf("failed to open read-only: %v", err)
	}
	defer rodb.Close()

	var formatName string
	err = rodb.QueryRow(`SELECT format FROM files WHERE path = ?`, "a.png").Scan(&formatName)
	if err != nil {
		t.Fatalf("failed to query: %v", err)
	}
	if formatName != "Portable Network Graphics" {
		t.Errorf("format = %q, want Portable Network Graphics", formatName)
	}
}

func TestMustOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "files.db")

	// Should not panic for a valid path.
	db := MustOpen(dbPath)
	db.Close()
}

func TestDriverTypeConsistency(t *testing.T) {
	switch driverType := DriverType(); driverType {
	case "purego":
		if IsCGO() {
			t.Error("IsCGO() should be false for purego driver")
		}
		if DriverName() != "sqlite" {
			t.Errorf("purego driver should use 'sqlite' name, got '%s'", DriverName())
		}
	case "cgo":
		if !IsCGO() {
			t.Error("IsCGO() should be true for cgo driver")
		}
		if DriverName() != "sqlite3" {
			t.Errorf("cgo driver should use 'sqlite3' name, got '%s'", DriverName())
		}
	default:
		t.Errorf("unknown driver type: %s", driverType)
	}
}

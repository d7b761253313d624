package backup

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

var (
	// ErrNotZip means the file exists but is not a zip archive.
	ErrNotZip = errors.New("file is not a valid backup archive")
	// ErrNoPayload means the zip contains no recognizable snapshot payload.
	ErrNoPayload = errors.New("archive does not contain a backup payload")
)

const (
	archivePrefix = "backup_"
	infoFileName  = "backup_info.txt"
	timestampFmt  = "20060102_150405"
)

// Packager reads and writes backup archives in a directory. An archive is a
// zip named backup_<timestamp>.zip holding the JSON snapshot payload
// (backup_<timestamp>.json) and a small plaintext metadata file.
type Packager struct {
	dir string
}

func NewPackager(dir string) *Packager {
	return &Packager{dir: dir}
}

// Dir returns the backup directory.
func (p *Packager) Dir() string { return p.dir }

// Write stores the snapshot as a new archive and returns its file name.
// The zip is assembled in a temporary file and renamed into place, so a
// crash mid-write never leaves a half-written archive behind.
func (p *Packager) Write(snap *Snapshot) (string, error) {
	if err := os.MkdirAll(p.dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	stamp := snap.CreatedAt.Format(timestampFmt)
	name := archivePrefix + stamp + ".zip"
	target := filepath.Join(p.dir, name)
	if _, err := os.Stat(target); err == nil {
		return "", fmt.Errorf("backup %s already exists", name)
	}

	payload, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(p.dir, "backup-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	zw := zip.NewWriter(tmp)
	if err := writeEntry(zw, archivePrefix+stamp+".json", payload); err != nil {
		tmp.Close()
		return "", err
	}
	if err := writeEntry(zw, infoFileName, infoText(snap)); err != nil {
		tmp.Close()
		return "", err
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to finalize archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("failed to store archive: %w", err)
	}
	return name, nil
}

// Read opens the named archive and decodes its snapshot.
func (p *Packager) Read(name string) (*Snapshot, error) {
	path := filepath.Join(p.dir, filepath.Base(name))
	zr, err := zip.OpenReader(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("backup %s: %w", name, os.ErrNotExist)
		}
		return nil, fmt.Errorf("%s: %w", name, ErrNotZip)
	}
	defer zr.Close()

	var payload *zip.File
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, archivePrefix) && strings.HasSuffix(f.Name, ".json") {
			payload = f
			break
		}
	}
	if payload == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNoPayload)
	}

	rc, err := payload.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open payload: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNoPayload)
	}
	return &snap, nil
}

// Info summarizes an archive without restoring it.
type Info struct {
	FileName  string
	SizeBytes int64
	CreatedAt time.Time
	CreatedBy string
	RowCounts map[string]int
}

// Inspect reads the named archive and reports its size, creation time and
// per-table row counts.
func (p *Packager) Inspect(name string) (*Info, error) {
	snap, err := p.Read(name)
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(filepath.Join(p.dir, filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("failed to stat archive: %w", err)
	}

	counts := make(map[string]int, len(snap.Tables))
	for table, data := range snap.Tables {
		counts[table] = len(data.Rows)
	}
	return &Info{
		FileName:  filepath.Base(name),
		SizeBytes: fi.Size(),
		CreatedAt: snap.CreatedAt,
		CreatedBy: snap.CreatedBy,
		RowCounts: counts,
	}, nil
}

// List returns the archive file names in the backup directory, newest
// first. The timestamped naming makes lexical order chronological.
func (p *Packager) List() ([]string, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), archivePrefix) && strings.HasSuffix(e.Name(), ".zip") {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create archive entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write archive entry %s: %w", name, err)
	}
	return nil
}

func infoText(snap *Snapshot) []byte {
	var b strings.Builder
	b.WriteString("Urban Mobility database backup\n")
	fmt.Fprintf(&b, "Backup created: %s\n", snap.CreatedAt.Format(time.RFC3339))
	if snap.CreatedBy != "" {
		fmt.Fprintf(&b, "Created by: %s\n", snap.CreatedBy)
	}
	fmt.Fprintf(&b, "Format: %s\n", snap.FormatID)
	fmt.Fprintf(&b, "Payload: %s%s.json\n", archivePrefix, snap.CreatedAt.Format(timestampFmt))

	tables := make([]string, 0, len(snap.Tables))
	for t := range snap.Tables {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	for _, t := range tables {
		fmt.Fprintf(&b, "%s: %d rows\n", t, len(snap.Tables[t].Rows))
	}
	return []byte(b.String())
}

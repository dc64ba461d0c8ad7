// Package archive records which videos have already been downloaded, as a
// TSV file of extractor, id and title. Writes are atomic (temp+rename).
package archive

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cnnvideo/internal/config"
)

// TSV columns: extractor, id, title
const numColumns = 3

// Entry is one archived download.
type Entry struct {
	Extractor string
	ID        string
	Title     string
}

func (e Entry) key() string {
	return strings.ToLower(e.Extractor) + "\t" + e.ID
}

// Archive is a download archive backed by a TSV file.
type Archive struct {
	path string
}

// Open returns the archive stored at path. The file is created on first Add.
func Open(path string) *Archive {
	return &Archive{path: path}
}

// OpenDefault opens the archive under the XDG data directory.
func OpenDefault() (*Archive, error) {
	path, err := config.ArchivePath()
	if err != nil {
		return nil, err
	}
	return Open(path), nil
}

// Path returns the backing file.
func (a *Archive) Path() string { return a.path }

// Load reads the archive and returns all entries.
func (a *Archive) Load() ([]Entry, error) {
	f, err := os.Open(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := parseLine(line)
		if err != nil {
			continue // Skip malformed lines
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}

	return entries, nil
}

// Contains reports whether extractor/id has been archived.
func (a *Archive) Contains(extractor, id string) (bool, error) {
	entries, err := a.Load()
	if err != nil {
		return false, err
	}
	want := Entry{Extractor: extractor, ID: id}.key()
	for _, e := range entries {
		if e.key() == want {
			return true, nil
		}
	}
	return false, nil
}

// Add records an entry, replacing the title of an existing one.
func (a *Archive) Add(entry Entry) error {
	if entry.Extractor == "" || entry.ID == "" {
		return fmt.Errorf("archive entry needs an extractor and an id")
	}

	entries, err := a.Load()
	if err != nil {
		return err
	}

	found := false
	for i, e := range entries {
		if e.key() == entry.key() {
			entries[i] = entry
			found = true
			break
		}
	}
	if !found {
		entries = append(entries, entry)
	}

	return a.write(entries)
}

// Remove deletes an entry. It reports whether anything was removed.
func (a *Archive) Remove(extractor, id string) (bool, error) {
	entries, err := a.Load()
	if err != nil {
		return false, err
	}

	want := Entry{Extractor: extractor, ID: id}.key()
	var filtered []Entry
	for _, e := range entries {
		if e.key() != want {
			filtered = append(filtered, e)
		}
	}
	if len(filtered) == len(entries) {
		return false, nil
	}

	return true, a.write(filtered)
}

// write replaces the archive file with entries via temp file + rename.
func (a *Archive) write(entries []Entry) error {
	dir := filepath.Dir(a.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating archive dir: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "archive-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	writer := bufio.NewWriter(tmpFile)
	for _, e := range entries {
		if _, err := writer.WriteString(formatLine(e) + "\n"); err != nil {
			tmpFile.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("writing archive: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("flushing archive: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, a.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming archive file: %w", err)
	}

	return nil
}

// FormatForDisplay renders entries one per line for listing.
func FormatForDisplay(entries []Entry) []string {
	items := make([]string, 0, len(entries))
	for _, e := range entries {
		display := fmt.Sprintf("[%s] %s", e.Extractor, e.ID)
		if e.Title != "" {
			display += "  " + e.Title
		}
		items = append(items, display)
	}
	return items
}

func parseLine(line string) (Entry, error) {
	fields := strings.SplitN(line, "\t", numColumns)
	if len(fields) < numColumns-1 {
		return Entry{}, fmt.Errorf("expected %d columns, got %d", numColumns, len(fields))
	}

	e := Entry{Extractor: fields[0], ID: fields[1]}
	if len(fields) == numColumns {
		e.Title = fields[2]
	}
	if e.Extractor == "" || e.ID == "" {
		return Entry{}, fmt.Errorf("empty extractor or id")
	}
	return e, nil
}

// formatLine converts an Entry to a TSV line. Tabs and newlines in the title
// would break the columns, so they become spaces.
func formatLine(e Entry) string {
	title := strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(e.Title)
	return strings.Join([]string{e.Extractor, e.ID, title}, "\t")
}

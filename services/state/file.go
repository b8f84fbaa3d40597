package state

import (
	"os"
	"strconv"
	"strings"

	"cruisewatch/logger"
)

// FileStore implements Store on a small plain-text file: the title on the
// first line and the price on the second. Legacy files written by earlier
// versions hold only the title; those read back with price 0.
type FileStore struct {
	path string
	log  *logger.Logger
}

// NewFileStore creates a file-backed store at the given path
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		log:  logger.ForState(),
	}
}

// Get reads the last-seen record, or a zero record when the file is absent
func (s *FileStore) Get() (Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, nil
		}
		return Record{}, err
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	record := Record{Title: strings.TrimSpace(lines[0])}
	if len(lines) > 1 {
		if price, err := strconv.Atoi(strings.TrimSpace(lines[1])); err == nil && price > 0 {
			record.Price = price
		}
	}
	return record, nil
}

// Set overwrites the file with the given record
func (s *FileStore) Set(r Record) error {
	content := r.Title + "\n" + strconv.Itoa(r.Price) + "\n"
	if err := os.WriteFile(s.path, []byte(content), 0644); err != nil {
		return err
	}
	s.log.Debug().Str("title", r.Title).Int("price", r.Price).Msg("Record written")
	return nil
}

// Close is a no-op for the file store
func (s *FileStore) Close() error {
	return nil
}

package progress

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"locator/models"
)

// ErrMalformed marks a progress file that could not be parsed. Callers
// treat it as "no prior progress" and surface a warning.
var ErrMalformed = errors.New("progress file is malformed")

var header = []string{"ROW", "LOCATION", "EXPIRY", "LAST_USER", "LAST_DATE"}

// Store persists in-flight survey answers, one CSV file per (user, survey)
// pair, in a scratch directory. Files are ephemeral; losing them on restart
// is accepted.
type Store struct {
	Dir string
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Path returns the sanitized progress file path for a (user, survey) pair.
func (s *Store) Path(user, survey string) string {
	return filepath.Join(s.Dir, fmt.Sprintf("progress_%s_%s.csv", sanitize(user), sanitize(survey)))
}

// Load reads prior progress keyed by catalog row-origin index. A missing
// file yields an empty map; a malformed file yields an empty map and
// ErrMalformed.
func (s *Store) Load(user, survey string) (map[int]models.ProgressEntry, error) {
	entries := make(map[int]models.ProgressEntry)

	f, err := os.Open(s.Path(user, survey))
	if err != nil {
		if os.IsNotExist(err) {
			return entries, nil
		}
		return entries, fmt.Errorf("open progress file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)
	rows, err := r.ReadAll()
	if err != nil {
		return map[int]models.ProgressEntry{}, ErrMalformed
	}
	if len(rows) == 0 {
		return entries, nil
	}
	if !equalHeader(rows[0]) {
		return map[int]models.ProgressEntry{}, ErrMalformed
	}

	for _, row := range rows[1:] {
		idx, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return map[int]models.ProgressEntry{}, ErrMalformed
		}
		entries[idx] = models.ProgressEntry{
			Location: row[1],
			Expiry:   row[2],
			LastUser: row[3],
			LastDate: row[4],
		}
	}
	return entries, nil
}

// Save overwrites the progress file with the full entry set. Rows are
// written in ascending row order so that identical state always produces an
// identical file.
func (s *Store) Save(user, survey string, entries map[int]models.ProgressEntry) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create progress dir: %w", err)
	}

	keys := make([]int, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	f, err := os.Create(s.Path(user, survey))
	if err != nil {
		return fmt.Errorf("create progress file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, k := range keys {
		e := entries[k]
		if err := w.Write([]string{strconv.Itoa(k), e.Location, e.Expiry, e.LastUser, e.LastDate}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func sanitize(v string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(v) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

func equalHeader(row []string) bool {
	if len(row) != len(header) {
		return false
	}
	for i, h := range header {
		if strings.TrimSpace(row[i]) != h {
			return false
		}
	}
	return true
}

package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const fileExt = ".csv"

// ErrNotFound is matched (via errors.Is) by every NotFoundError.
var ErrNotFound = errors.New("data not found")

// NotFoundError reports that no dataset file matches the requested city.
type NotFoundError struct {
	City string
}

func (e *NotFoundError) Error() string {
	return "Data not found for " + e.City
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Resolution describes which file a city query resolved to.
type Resolution struct {
	Path  string
	Key   string
	Fuzzy bool // true when found by substring scan rather than exact name
}

// Resolver maps city names to per-city CSV files in a single directory.
type Resolver struct {
	dir string
}

// NewResolver returns a Resolver rooted at dir.
func NewResolver(dir string) *Resolver {
	return &Resolver{dir: dir}
}

// CleanCityKey drops any parenthetical suffix, trims, replaces spaces with
// underscores and upper-cases: "Denver (CO)" -> "DENVER".
func CleanCityKey(city string) string {
	if i := strings.IndexByte(city, '('); i >= 0 {
		city = city[:i]
	}
	city = strings.TrimSpace(city)
	return strings.ToUpper(strings.ReplaceAll(city, " ", "_"))
}

// Resolve returns the dataset file for city. The exact file <KEY>.csv wins; otherwise the
// first .csv name (lexicographic) containing KEY is used. Keys containing path separators
// never match exactly, so lookups stay inside the data directory. Returns a *NotFoundError
// when nothing matches.
func (r *Resolver) Resolve(city string) (Resolution, error) {
	key := CleanCityKey(city)
	if !strings.ContainsAny(key, `/\`) {
		exact := filepath.Join(r.dir, key+fileExt)
		if info, err := os.Stat(exact); err == nil && !info.IsDir() {
			return Resolution{Path: exact, Key: key}, nil
		}
	}

	names, err := r.csvNames()
	if err != nil {
		return Resolution{}, err
	}
	for _, name := range names {
		if strings.Contains(name, key) {
			return Resolution{Path: filepath.Join(r.dir, name), Key: key, Fuzzy: true}, nil
		}
	}
	return Resolution{}, &NotFoundError{City: city}
}

// Cities lists the dataset keys present in the data directory, sorted.
func (r *Resolver) Cities() ([]string, error) {
	names, err := r.csvNames()
	if err != nil {
		return nil, err
	}
	cities := make([]string, 0, len(names))
	for _, name := range names {
		cities = append(cities, strings.TrimSuffix(name, fileExt))
	}
	return cities, nil
}

// csvNames returns regular .csv file names in the data directory. os.ReadDir sorts by
// name, which makes the fuzzy scan deterministic.
func (r *Resolver) csvNames() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("list data dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/knapcmp/knapcmp/internal/algorithm"
)

// ParseError reports a malformed dataset line. It matches
// algorithm.ErrInvalidDataset with errors.Is.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", algorithm.ErrInvalidDataset, e.Reason)
	}
	return fmt.Sprintf("%s: line %d: %s", algorithm.ErrInvalidDataset, e.Line, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return algorithm.ErrInvalidDataset
}

// File is a dataset loaded from disk.
type File struct {
	Path    string
	Name    string
	Dataset algorithm.Dataset
}

// Parse reads the line-oriented dataset format:
//
//	# comment
//	<max weight>
//	<weight> <value> [amount]
//
// The amount defaults to 1; -1 means an unlimited supply. Blank lines and
// lines starting with '#' are ignored.
func Parse(r io.Reader) (algorithm.Dataset, error) {
	var ds algorithm.Dataset
	haveCapacity := false
	lineNo := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		if !haveCapacity {
			capacity, err := parseCapacity(fields, lineNo)
			if err != nil {
				return algorithm.Dataset{}, err
			}
			ds.MaxWeight = capacity
			haveCapacity = true
			continue
		}

		item, err := parseItem(fields, lineNo)
		if err != nil {
			return algorithm.Dataset{}, err
		}
		ds.AddItem(item)
	}
	if err := scanner.Err(); err != nil {
		return algorithm.Dataset{}, fmt.Errorf("read dataset: %w", err)
	}

	if !haveCapacity {
		return algorithm.Dataset{}, &ParseError{Reason: "missing max backpack weight"}
	}
	return ds, nil
}

func parseCapacity(fields []string, lineNo int) (int, error) {
	if len(fields) != 1 {
		return 0, &ParseError{Line: lineNo, Reason: "first line should contain only one integer - max backpack weight"}
	}
	capacity, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, &ParseError{Line: lineNo, Reason: fmt.Sprintf("max backpack weight %q is not an integer", fields[0])}
	}
	if capacity < 0 {
		return 0, &ParseError{Line: lineNo, Reason: fmt.Sprintf("max backpack weight must be >= 0, got %d", capacity)}
	}
	return capacity, nil
}

func parseItem(fields []string, lineNo int) (algorithm.Item, error) {
	if len(fields) < 2 {
		return algorithm.Item{}, &ParseError{Line: lineNo, Reason: "each item should have at least weight and value"}
	}
	if len(fields) > 3 {
		return algorithm.Item{}, &ParseError{Line: lineNo, Reason: "only weight, value and amount of each item are allowed"}
	}

	values := []int{0, 0, 1}
	for i, field := range fields {
		v, err := strconv.Atoi(field)
		if err != nil {
			return algorithm.Item{}, &ParseError{Line: lineNo, Reason: fmt.Sprintf("only integer values are allowed, got %q", field)}
		}
		values[i] = v
	}

	return algorithm.Item{
		Weight: values[0],
		Value:  values[1],
		Amount: algorithm.AmountFromInt(values[2]),
	}, nil
}

// LoadFile parses the dataset stored at path.
func LoadFile(path string) (algorithm.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return algorithm.Dataset{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := Parse(f)
	if err != nil {
		return algorithm.Dataset{}, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Discover lists the regular files in dir whose name ends with ext, sorted by
// name. Subdirectories are not searched.
func Discover(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}

// LoadFiles loads every path. Files that fail to load are left out of the
// result and their errors are combined into the returned error.
func LoadFiles(paths []string) ([]File, error) {
	files := make([]File, 0, len(paths))
	var errs error
	for _, path := range paths {
		ds, err := LoadFile(path)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		files = append(files, File{Path: path, Name: NameFromPath(path), Dataset: ds})
	}
	return files, errs
}

// NameFromPath derives a catalog name from a dataset file path.
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Format renders ds in the format accepted by Parse.
func Format(ds algorithm.Dataset) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d\n", ds.MaxWeight)
	for _, item := range ds.Items {
		if item.Amount == algorithm.Bounded(1) {
			fmt.Fprintf(&b, "%d %d\n", item.Weight, item.Value)
			continue
		}
		fmt.Fprintf(&b, "%d %d %d\n", item.Weight, item.Value, item.Amount.Int())
	}
	return b.String()
}

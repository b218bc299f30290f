package refdata

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
)

const (
	WeightingFile    = "UV Spectral Weighting Curves.csv"
	DisinfectionFile = "disinfection_table.csv"
)

//go:embed data/*.csv
var embedded embed.FS

// Tables is the reference data set. It is loaded once and only read afterwards.
type Tables struct {
	Weightings *Weightings
	Pathogens  Pathogens
}

// Default loads the tables shipped with the binary.
func Default() (*Tables, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub)
}

// Load reads the tables from dir, or the embedded copy when dir is empty.
func Load(dir string) (*Tables, error) {
	if dir == "" {
		return Default()
	}
	return LoadFS(os.DirFS(dir))
}

func LoadFS(fsys fs.FS) (*Tables, error) {
	w, err := openWith(fsys, WeightingFile, ParseWeightings)
	if err != nil {
		return nil, err
	}
	p, err := openWith(fsys, DisinfectionFile, ParsePathogens)
	if err != nil {
		return nil, err
	}
	return &Tables{Weightings: w, Pathogens: p}, nil
}

func openWith[T any](fsys fs.FS, name string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := fsys.Open(name)
	if err != nil {
		return zero, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()
	v, err := parse(f)
	if err != nil {
		return zero, fmt.Errorf("parse %s: %w", name, err)
	}
	return v, nil
}

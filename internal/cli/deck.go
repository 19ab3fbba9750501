package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/lectern/pkg/domain"
	"gopkg.in/yaml.v3"
)

// ErrEmptyDeck is returned when a deck file holds no slides.
var ErrEmptyDeck = errors.New("deck has no slides")

// deckFile accepts a full presentation or a bare slide.
type deckFile struct {
	domain.Presentation `yaml:",inline"`
	Elements            []domain.ContentElement `json:"elements" yaml:"elements"`
}

// LoadDeck reads a presentation from a YAML or JSON file. "-" reads YAML from stdin.
// A file holding a single slide (top-level elements) becomes a one-slide deck.
func LoadDeck(path string, stdin io.Reader) (domain.Presentation, error) {
	if path == "-" {
		return DecodeDeck(stdin, "yaml")
	}
	f, err := os.Open(path)
	if err != nil {
		return domain.Presentation{}, fmt.Errorf("open deck: %w", err)
	}
	defer f.Close()
	return DecodeDeck(f, formatOf(path))
}

// DecodeDeck decodes a deck in the given format ("json" or "yaml").
func DecodeDeck(r io.Reader, format string) (domain.Presentation, error) {
	var df deckFile
	var err error
	if format == "json" {
		err = json.NewDecoder(r).Decode(&df)
	} else {
		err = yaml.NewDecoder(r).Decode(&df)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return domain.Presentation{}, fmt.Errorf("decode deck: %w", err)
	}

	p := df.Presentation
	if len(p.Slides) == 0 && len(df.Elements) > 0 {
		p.Slides = []domain.Slide{{ID: p.ID, Title: p.Title, Elements: df.Elements}}
	}
	if len(p.Slides) == 0 {
		return p, ErrEmptyDeck
	}
	return p, nil
}

// WriteDeck encodes p in the format implied by path and writes it there.
// "-" writes YAML to stdout.
func WriteDeck(path string, p domain.Presentation, stdout io.Writer) error {
	if path == "-" {
		return EncodeDeck(stdout, p, "yaml")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create deck: %w", err)
	}
	if err := EncodeDeck(f, p, formatOf(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// EncodeDeck writes p as indented JSON or YAML.
func EncodeDeck(w io.Writer, p domain.Presentation, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return err
	}
	return enc.Close()
}

func formatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "json"
	}
	return "yaml"
}

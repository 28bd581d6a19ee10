// Package deck provides the ordered, read-only slide images a session navigates.
package deck

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"gocv.io/x/gocv"
)

// DefaultCacheSize is the number of decoded slides kept in memory.
const DefaultCacheSize = 8

var (
	// ErrEmptyDeck is returned when a directory holds no slide images.
	ErrEmptyDeck = errors.New("deck has no slides")
	// ErrNoSequence is returned for an image whose name carries no page number.
	ErrNoSequence = errors.New("slide name has no sequence number")
	// ErrSlideOutOfRange is returned for an index outside 0..Len()-1.
	ErrSlideOutOfRange = errors.New("slide index out of range")
	// ErrDecode is returned when a slide image cannot be read.
	ErrDecode = errors.New("cannot decode slide image")
)

// extensions lists the image types a deck directory may contain.
var extensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
}

var trailingNumber = regexp.MustCompile(`(\d+)$`)

// Slide is one page of a deck. Seq is the page number parsed from the file
// name and is the only ordering key.
type Slide struct {
	Seq  int
	Path string
}

// SequenceKey parses the trailing page number of an image file name,
// e.g. "page_12.jpg" is 12.
func SequenceKey(name string) (int, error) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	m := trailingNumber.FindString(base)
	if m == "" {
		return 0, fmt.Errorf("%w: %s", ErrNoSequence, name)
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrNoSequence, name, err)
	}
	return n, nil
}

// Scan lists the slide images in dir ordered by their sequence key.
// Non-image files and subdirectories are ignored.
func Scan(dir string) ([]Slide, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read deck dir: %w", err)
	}

	var slides []Slide
	seen := make(map[int]string)
	for _, e := range entries {
		if e.IsDir() || !extensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}

		seq, err := SequenceKey(e.Name())
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[seq]; ok {
			return nil, fmt.Errorf("duplicate slide number %d: %s and %s", seq, prev, e.Name())
		}
		seen[seq] = e.Name()

		slides = append(slides, Slide{Seq: seq, Path: filepath.Join(dir, e.Name())})
	}

	if len(slides) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDeck, dir)
	}

	slices.SortFunc(slides, func(a, b Slide) int { return a.Seq - b.Seq })
	return slides, nil
}

// Deck serves decoded slide images by position.
type Deck struct {
	slides []Slide
	cache  *lru.Cache[int, gocv.Mat]
}

// New returns a Deck over slides in the given order. cacheSize bounds the
// number of decoded images kept in memory.
func New(slides []Slide, cacheSize int) (*Deck, error) {
	if len(slides) == 0 {
		return nil, ErrEmptyDeck
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	cache, err := lru.NewWithEvict(cacheSize, func(_ int, m gocv.Mat) {
		m.Close()
	})
	if err != nil {
		return nil, fmt.Errorf("create slide cache: %w", err)
	}

	return &Deck{
		slides: slices.Clone(slides),
		cache:  cache,
	}, nil
}

// Open scans dir and returns its deck.
func Open(dir string, cacheSize int) (*Deck, error) {
	slides, err := Scan(dir)
	if err != nil {
		return nil, err
	}
	return New(slides, cacheSize)
}

// Len returns the number of slides.
func (d *Deck) Len() int {
	return len(d.slides)
}

// Slides returns the ordered slide list.
func (d *Deck) Slides() []Slide {
	return slices.Clone(d.slides)
}

// Slide returns a copy of the i-th decoded slide. The caller owns the result.
func (d *Deck) Slide(i int) (gocv.Mat, error) {
	if i < 0 || i >= len(d.slides) {
		return gocv.NewMat(), fmt.Errorf("%w: %d of %d", ErrSlideOutOfRange, i, len(d.slides))
	}

	if m, ok := d.cache.Get(i); ok {
		return m.Clone(), nil
	}

	m := gocv.IMRead(d.slides[i].Path, gocv.IMReadColor)
	if m.Empty() {
		m.Close()
		return gocv.NewMat(), fmt.Errorf("%w: %s", ErrDecode, d.slides[i].Path)
	}

	d.cache.Add(i, m)
	return m.Clone(), nil
}

// Close releases every cached image.
func (d *Deck) Close() error {
	d.cache.Purge()
	return nil
}

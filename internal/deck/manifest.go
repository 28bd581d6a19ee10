package deck

import (
	"fmt"
	"path/filepath"

	"github.com/ayusman/mudra/internal/store"
)

// Import scans dir and stores its ordered manifest under name.
func Import(st *store.Store, name, dir string) (*store.Deck, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve deck dir: %w", err)
	}

	slides, err := Scan(abs)
	if err != nil {
		return nil, err
	}

	refs := make([]store.SlideRef, len(slides))
	for i, s := range slides {
		refs[i] = store.SlideRef{Position: i, Seq: s.Seq, Path: s.Path}
	}

	d := &store.Deck{Name: name, SourceDir: abs}
	if err := st.Decks().Create(d, refs); err != nil {
		return nil, fmt.Errorf("store deck %s: %w", name, err)
	}
	return d, nil
}

// FromManifest converts a stored manifest back into slides in stored order.
func FromManifest(refs []store.SlideRef) []Slide {
	slides := make([]Slide, len(refs))
	for i, r := range refs {
		slides[i] = Slide{Seq: r.Seq, Path: r.Path}
	}
	return slides
}

// Load opens the stored deck ref (ID or name).
func Load(st *store.Store, ref string, cacheSize int) (*store.Deck, *Deck, error) {
	meta, err := st.Decks().Resolve(ref)
	if err != nil {
		return nil, nil, fmt.Errorf("find deck %s: %w", ref, err)
	}

	refs, err := st.Decks().Slides(meta.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("load deck %s: %w", ref, err)
	}

	d, err := New(FromManifest(refs), cacheSize)
	if err != nil {
		return nil, nil, err
	}
	return meta, d, nil
}

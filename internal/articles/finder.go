package articles

import (
	"fmt"
	"os"
	"path/filepath"
)

// Location points at an article on disk. Paths are relative to the storage
// root; ArticleID is the stable "<year>/<month>/<slug>" identifier.
type Location struct {
	FolderPath string
	IndexPath  string
	ArticleID  string
}

// Finder resolves a slug to its physical storage location by scanning the
// year/month/slug hierarchy under <root>/articles.
type Finder struct {
	root string
}

// NewFinder creates a finder over the given storage root
func NewFinder(root string) *Finder {
	return &Finder{root: root}
}

// FindBySlug walks year directories, then month directories, then article
// directories, and returns the first directory named after the slug that
// contains an index document. A nil location without error means no match;
// missing directories at any level count as empty.
func (f *Finder) FindBySlug(slug string) (*Location, error) {
	if slug == "" {
		return nil, nil
	}

	base := filepath.Join(f.root, "articles")
	years, err := readDirNames(base)
	if err != nil {
		return nil, err
	}

	for _, year := range years {
		months, err := readDirNames(filepath.Join(base, year))
		if err != nil {
			return nil, err
		}
		for _, month := range months {
			candidate := filepath.Join(base, year, month, slug)
			info, err := os.Stat(candidate)
			if os.IsNotExist(err) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("stat %s: %w", candidate, err)
			}
			if !info.IsDir() {
				continue
			}
			indexPath := filepath.Join(candidate, "index.md")
			if _, err := os.Stat(indexPath); err != nil {
				// Directory without an index document is not an article
				continue
			}
			return &Location{
				FolderPath: filepath.Join("articles", year, month, slug),
				IndexPath:  filepath.Join("articles", year, month, slug, "index.md"),
				ArticleID:  year + "/" + month + "/" + slug,
			}, nil
		}
	}

	return nil, nil
}

// readDirNames lists subdirectory names, treating a missing directory as
// empty
func readDirNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

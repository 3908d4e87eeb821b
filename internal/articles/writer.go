package articles

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/werkbank/postplan/internal/models"
)

// WriteResult reports where a new article landed. FolderPath differs from
// the article's canonical folder when a collision forced a numbered
// fallback.
type WriteResult struct {
	FolderPath string
	IndexPath  string
}

// Writer persists brand-new articles. It never overwrites: when the
// canonical path is taken, it appends -2, -3, ... to the folder stem until
// an unused path is found, so same-titled articles in the same month
// coexist.
type Writer struct {
	root string
}

// NewWriter creates a writer over the given storage root
func NewWriter(root string) *Writer {
	return &Writer{root: root}
}

// Write serializes the article to its canonical path, or the first free
// numbered alternate
func (w *Writer) Write(article *models.Article) (*WriteResult, error) {
	slug := article.Slug()
	if slug.IsEmpty() {
		return nil, fmt.Errorf("article title %q yields an empty slug", article.Title)
	}

	folder := article.FolderPath()
	for n := 2; w.exists(filepath.Join(folder, "index.md")); n++ {
		folder = article.FolderPath() + "-" + strconv.Itoa(n)
	}
	indexPath := filepath.Join(folder, "index.md")

	data, err := Marshal(article)
	if err != nil {
		return nil, err
	}

	absFolder := filepath.Join(w.root, folder)
	if err := os.MkdirAll(absFolder, 0755); err != nil {
		return nil, fmt.Errorf("create %s: %w", folder, err)
	}

	// O_EXCL closes the window between the existence probe and the write
	f, err := os.OpenFile(filepath.Join(w.root, indexPath), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", indexPath, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return nil, fmt.Errorf("write %s: %w", indexPath, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", indexPath, err)
	}

	return &WriteResult{FolderPath: folder, IndexPath: indexPath}, nil
}

// WriteAsset places a sibling binary file inside an already-written article
// folder
func (w *Writer) WriteAsset(folderPath, name string, data []byte) error {
	path := filepath.Join(w.root, folderPath, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write asset %s: %w", filepath.Join(folderPath, name), err)
	}
	return nil
}

func (w *Writer) exists(rel string) bool {
	_, err := os.Stat(filepath.Join(w.root, rel))
	return err == nil
}

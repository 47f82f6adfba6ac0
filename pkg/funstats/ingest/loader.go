package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/cognicore/funstats/pkg/funstats/internalerr"
)

// DefaultExtension is the markup type the loader picks up when none is configured.
const DefaultExtension = ".html"

// Loader enumerates the eligible documents of one directory.
type Loader struct {
	Root      string
	Extension string   // defaults to DefaultExtension
	Exclude   []string // file names that are never analyzed
	FS        fs.FS    // defaults to os.DirFS(Root)
}

func (l *Loader) fsys() fs.FS {
	if l.FS != nil {
		return l.FS
	}
	return os.DirFS(l.Root)
}

// Eligible reports whether a file name passes the extension and deny-set filters.
func (l *Loader) Eligible(name string) bool {
	ext := l.Extension
	if ext == "" {
		ext = DefaultExtension
	}
	if !strings.EqualFold(filepath.Ext(name), ext) {
		return false
	}
	for _, ex := range l.Exclude {
		if name == ex {
			return false
		}
	}
	return true
}

// Load reads every eligible document under Root, sorted by file name.
// Any unreadable document aborts the load.
func (l *Loader) Load(ctx context.Context) ([]Document, error) {
	fsys := l.fsys()
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("articles directory %s: %w", l.Root, internalerr.ErrInvalidConfig)
		}
		return nil, fmt.Errorf("read dir %s: %w", l.Root, err)
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if l.Eligible(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	docs := make([]Document, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := l.readDocument(fsys, name)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (l *Loader) readDocument(fsys fs.FS, name string) (Document, error) {
	path := filepath.Join(l.Root, name)
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %s: %v", internalerr.ErrUnreadableDocument, path, err)
	}
	text, err := StripMarkup(raw)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %s: %v", internalerr.ErrUnreadableDocument, path, err)
	}
	doc := Document{
		Name: name,
		Path: path,
		Size: int64(len(raw)),
		Text: text,
	}
	if err := doc.Validate(); err != nil {
		return Document{}, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidInput, path, err)
	}
	return doc, nil
}

// StripMarkup replaces every tag with a single space and keeps the unescaped
// text between tags. Script and style bodies are dropped.
func StripMarkup(raw []byte) (string, error) {
	z := html.NewTokenizer(bytes.NewReader(raw))
	var b strings.Builder
	b.Grow(len(raw))
	hidden := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return b.String(), nil
			}
			return "", z.Err()
		case html.TextToken:
			if hidden == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken:
			if isHiddenElement(z) {
				hidden++
			}
			b.WriteByte(' ')
		case html.EndTagToken:
			if isHiddenElement(z) && hidden > 0 {
				hidden--
			}
			b.WriteByte(' ')
		default:
			// self-closing tags, comments and doctypes
			b.WriteByte(' ')
		}
	}
}

func isHiddenElement(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch string(name) {
	case "script", "style":
		return true
	}
	return false
}

package repotree

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	pkgerrors "github.com/matzehuels/repoinsight/pkg/errors"
)

var discard = log.NewWithOptions(io.Discard, log.Options{})

// Options configures a traversal.
type Options struct {
	// Name labels the repository node. Defaults to "repository".
	Name string

	// MaxFilesToRead caps how many files have their content captured.
	MaxFilesToRead int

	// MaxFileSize is the largest file, in bytes, whose content is captured.
	MaxFileSize int64

	Logger *log.Logger
}

// WithDefaults returns a copy with zero fields replaced by defaults.
func (o Options) WithDefaults() Options {
	if o.Name == "" {
		o.Name = "repository"
	}
	if o.MaxFilesToRead <= 0 {
		o.MaxFilesToRead = MaxFilesToRead
	}
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = MaxFileSize
	}
	if o.Logger == nil {
		o.Logger = discard
	}
	return o
}

// WalkDir walks the directory dir on the local filesystem. The repository
// node is labelled with the directory's base name unless opts.Name is set.
func WalkDir(ctx context.Context, dir string, opts Options) (*Tree, error) {
	if opts.Name == "" {
		if abs, err := filepath.Abs(dir); err == nil {
			opts.Name = filepath.Base(abs)
		}
	}
	return Walk(ctx, os.DirFS(dir), opts)
}

// Walk traverses fsys from its root and returns the containment graph.
//
// Only a failure to list the root is returned as an error. Unreadable
// subdirectories and files are logged and keep their nodes. The context is
// checked once per directory.
func Walk(ctx context.Context, fsys fs.FS, opts Options) (*Tree, error) {
	opts = opts.WithDefaults()
	w := &walker{
		fsys:  fsys,
		opts:  opts,
		tree:  newTree(opts.Name),
		langs: make(map[string]struct{}),
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeRepositoryUnavailable, err, "read repository root")
	}
	if err := w.entries(ctx, ".", RootID, entries); err != nil {
		return nil, err
	}

	w.tree.Languages = sortedKeys(w.langs)
	opts.Logger.Debug("walked repository",
		"nodes", len(w.tree.Nodes), "files", len(w.tree.Files), "read", w.tree.FilesRead)
	return w.tree, nil
}

type walker struct {
	fsys  fs.FS
	opts  Options
	tree  *Tree
	langs map[string]struct{}
}

// entries emits the children of one directory, depth first in name order.
func (w *walker) entries(ctx context.Context, dir, parentID string, entries []fs.DirEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, e := range entries {
		name := e.Name()
		p := path.Join(dir, name)

		if e.IsDir() {
			if IsIgnoredDir(name) {
				continue
			}
			w.tree.addChild(parentID, Node{ID: p, Label: name, Type: TypeDirectory})
			children, err := fs.ReadDir(w.fsys, p)
			if err != nil {
				w.opts.Logger.Warn("cannot read directory", "path", p, "err", err)
			}
			if err := w.entries(ctx, p, p, children); err != nil {
				return err
			}
			continue
		}

		w.file(p, e)
	}
	return nil
}

func (w *walker) file(p string, e fs.DirEntry) {
	name := e.Name()
	typ, lang := Classify(name)

	var size int64
	if info, err := e.Info(); err != nil {
		w.opts.Logger.Warn("cannot stat file", "path", p, "err", err)
	} else {
		size = info.Size()
	}

	w.tree.addChild(parentOf(p), Node{
		ID:       p,
		Label:    name,
		Type:     typ,
		Language: lang,
		Size:     &size,
	})
	w.tree.Files = append(w.tree.Files, p)
	if lang != "" {
		w.langs[lang] = struct{}{}
	}

	if w.tree.FilesRead >= w.opts.MaxFilesToRead || !captureEligible(name, typ) {
		return
	}
	// Symlinks and other special files are listed but never opened.
	if !e.Type().IsRegular() || size > w.opts.MaxFileSize {
		return
	}
	text, err := w.read(p)
	if err != nil {
		w.opts.Logger.Debug("cannot read file", "path", p, "err", err)
		return
	}
	if strings.TrimSpace(text) == "" {
		return
	}
	w.tree.Contents[p] = text
	w.tree.FilesRead++
}

// read returns the file's text with invalid UTF-8 dropped. A file that
// exceeds the byte cap while being read yields an empty string.
func (w *walker) read(p string) (string, error) {
	f, err := w.fsys.Open(p)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, w.opts.MaxFileSize+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > w.opts.MaxFileSize {
		return "", nil
	}
	return strings.ToValidUTF8(string(data), ""), nil
}

func parentOf(p string) string {
	if d := path.Dir(p); d != "." {
		return d
	}
	return RootID
}

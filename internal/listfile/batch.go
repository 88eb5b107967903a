package listfile

import "path/filepath"

// Batch collects list file contents contributed by several frameworks
// directories during one run and writes each file once.
//
// The first contribution to a file is its content; later non-empty
// contributions are appended after a separator, in the order they were added.
type Batch struct {
	store            *Store
	appendToExisting bool
	order            []batchFile
	contents         map[batchFile]string
}

type batchFile struct {
	folder string
	name   string
}

// NewBatch starts a batch. With appendToExisting the merged content is
// appended to what is already on disk instead of replacing it.
func (s *Store) NewBatch(appendToExisting bool) *Batch {
	return &Batch{
		store:            s,
		appendToExisting: appendToExisting,
		contents:         map[batchFile]string{},
	}
}

// Add contributes content to folder/filename. Empty contributions stage the
// file without adding a blank line.
func (b *Batch) Add(folder, filename, content string) {
	key := batchFile{folder: folder, name: filename}
	current, ok := b.contents[key]
	switch {
	case !ok:
		b.order = append(b.order, key)
		b.contents[key] = content
	case content == "":
	case current == "":
		b.contents[key] = content
	default:
		b.contents[key] = current + Separator + content
	}
}

// Commit reconciles every staged file and returns the paths that changed.
func (b *Batch) Commit() ([]string, error) {
	var changed []string
	for _, key := range b.order {
		ok, err := b.store.Reconcile(key.folder, key.name, b.contents[key], b.appendToExisting)
		if err != nil {
			return changed, err
		}
		if ok {
			changed = append(changed, filepath.Join(key.folder, key.name))
		}
	}
	return changed, nil
}

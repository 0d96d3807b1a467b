// Package seed provides the snapshots bundled with the binary. They are used
// when a store holds nothing for a dataset yet.
package seed

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/YuDongZhang/InterviewQuestion/domain/core/aggregates"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/entities"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	"github.com/YuDongZhang/InterviewQuestion/infrastructure/persistence/codec"
)

//go:embed data/*.json
var files embed.FS

// Bundled implements ports.Seeder from the embedded documents.
type Bundled struct {
	fsys fs.FS
}

// New returns the seeder backed by the embedded data directory.
func New() *Bundled {
	return &Bundled{fsys: files}
}

// Seed decodes the bundled snapshot of dataset. Every non-gallery category
// of the dataset is present in the result, possibly empty.
func (b *Bundled) Seed(dataset valueobjects.DatasetName) (aggregates.Snapshot, error) {
	d, err := valueobjects.ParseDataset(string(dataset))
	if err != nil {
		return aggregates.Snapshot{}, err
	}

	raw, err := fs.ReadFile(b.fsys, "data/"+string(d.Name())+".json")
	if err != nil {
		return aggregates.Snapshot{}, fmt.Errorf("seed %s: %w", d.Name(), err)
	}
	snap, err := codec.Decode(raw)
	if err != nil {
		return aggregates.Snapshot{}, fmt.Errorf("seed %s: %w", d.Name(), err)
	}

	lists := snap.Map()
	for key := range lists {
		if !valueobjects.Has(d, key) || valueobjects.IsGallery(d, key) {
			return aggregates.Snapshot{}, fmt.Errorf("seed %s: unexpected category %q", d.Name(), key)
		}
	}
	for _, c := range d.Categories() {
		if _, ok := lists[c.Key]; !ok && !c.Gallery {
			lists[c.Key] = []entities.Record{}
		}
	}
	return aggregates.NewSnapshot(lists), nil
}

// Package convert drives one conversion run: select the dataset converter,
// load the source collection, convert every record in input order, and
// persist the normalized collection. Any error aborts the run before output
// is written.
package convert

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/banshee-data/unified3d/internal/datasets"
	"github.com/banshee-data/unified3d/internal/infostore"
	"github.com/banshee-data/unified3d/internal/progress"
	"github.com/banshee-data/unified3d/internal/schema"
)

// Options configure one conversion run.
type Options struct {
	Dataset string // kitti, scannet or sunrgbd (case-insensitive)
	Input   string // path of the source annotation collection
	OutDir  string // output directory; the input basename is kept
}

// overwriteHazardPause is how long to stall when the output directory
// textually overlaps the input path, giving the operator a chance to abort
// before source data is overwritten. Zeroed in tests.
var overwriteHazardPause = 5 * time.Second

// Run converts the collection described by opts using the production store.
func Run(opts Options) error {
	return run(opts, infostore.Default)
}

func run(opts Options, store *infostore.Store) error {
	conv, err := datasets.ForDataset(opts.Dataset)
	if err != nil {
		return err
	}

	if opts.OutDir != "" && strings.Contains(opts.Input, opts.OutDir) {
		log.Printf("warning: output directory %q overlaps input path %q; the source data may be overwritten",
			opts.OutDir, opts.Input)
		time.Sleep(overwriteHazardPause)
	}

	log.Printf("reading source records from %s", opts.Input)
	raws, err := store.Load(opts.Input)
	if err != nil {
		return fmt.Errorf("loading %s: %w", opts.Input, err)
	}

	tracker := progress.New(strings.ToLower(conv.Dataset()), len(raws))
	converted := make([]schema.Record, 0, len(raws))
	for i, raw := range raws {
		rec, err := conv.Convert(raw)
		if err != nil {
			return fmt.Errorf("converting record %d: %w", i, err)
		}
		converted = append(converted, rec)
		tracker.Tick()
	}
	tracker.Done()
	log.Printf("ignored classes: %v", conv.IgnoredClasses())

	coll := &infostore.Collection{
		Metainfo: map[string]string{"DATASET": conv.Dataset()},
		DataList: converted,
	}
	if opts.OutDir != "" {
		if err := store.FS.MkdirAll(opts.OutDir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", opts.OutDir, err)
		}
	}
	outPath := filepath.Join(opts.OutDir, filepath.Base(opts.Input))
	log.Printf("writing converted collection to %s", outPath)
	if err := store.Save(outPath, coll); err != nil {
		return fmt.Errorf("saving %s: %w", outPath, err)
	}
	return nil
}

package convert

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/banshee-data/unified3d/internal/datasets"
	"github.com/banshee-data/unified3d/internal/fsutil"
	"github.com/banshee-data/unified3d/internal/infostore"
	"github.com/banshee-data/unified3d/internal/schema"
)

func init() {
	overwriteHazardPause = 0
}

func memStore(t *testing.T, path string, records []schema.Record) *infostore.Store {
	t.Helper()
	store := &infostore.Store{FS: fsutil.NewMemoryFileSystem()}
	data, err := json.Marshal(records)
	require.NoError(t, err)
	require.NoError(t, store.FS.WriteFile(path, data, 0o644))
	return store
}

func scannetRecords() []schema.Record {
	return []schema.Record{
		{
			"point_cloud":            map[string]any{"num_features": 6},
			"pts_path":               "scannet_instance_data/scene0000_00_vert.bin",
			"pts_semantic_mask_path": "scannet_instance_data/scene0000_00_sem_label.bin",
			"pts_instance_mask_path": "scannet_instance_data/scene0000_00_ins_label.bin",
			"annos": map[string]any{
				"gt_num": 1,
				"axis_align_matrix": [][]float64{
					{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1},
				},
				"name":                   []string{"bed"},
				"gt_boxes_upright_depth": [][]float64{{1, 2, 0.5, 1, 2, 0.5}},
			},
		},
		{
			"point_cloud":            map[string]any{"num_features": 6},
			"pts_path":               "scannet_instance_data/scene0001_00_vert.bin",
			"pts_semantic_mask_path": "scannet_instance_data/scene0001_00_sem_label.bin",
			"pts_instance_mask_path": "scannet_instance_data/scene0001_00_ins_label.bin",
			"annos": map[string]any{
				"gt_num": 0,
				"axis_align_matrix": [][]float64{
					{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1},
				},
			},
		},
	}
}

func TestRunScanNet(t *testing.T) {
	store := memStore(t, "scannet_infos_train.json", scannetRecords())

	err := run(Options{
		Dataset: "scannet",
		Input:   "scannet_infos_train.json",
		OutDir:  "converted",
	}, store)
	require.NoError(t, err)

	out, err := store.LoadCollection("converted/scannet_infos_train.json")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"DATASET": "SCANNET"}, out.Metainfo)
	require.Len(t, out.DataList, 2)

	first := out.DataList[0]
	instances, ok := first["instances"].([]any)
	require.True(t, ok, "instances type: %T", first["instances"])
	require.Len(t, instances, 1)
	inst := instances[0].(map[string]any)
	require.Equal(t, 1.0, inst["bbox_label_3d"], "bed is index 1")

	// The annotation-free scene is kept, with an explicit empty list.
	second := out.DataList[1]
	emptyInstances, ok := second["instances"].([]any)
	require.True(t, ok, "instances must be present on annotation-free records")
	require.Empty(t, emptyInstances)
}

func TestRunPreservesOrder(t *testing.T) {
	records := scannetRecords()
	// Duplicate the scenes a few times with distinguishable paths.
	var many []schema.Record
	for i := 0; i < 6; i++ {
		rec := schema.Record{}
		for k, v := range records[i%2] {
			rec[k] = v
		}
		rec["pts_path"] = "scene_" + string(rune('a'+i)) + "_vert.bin"
		many = append(many, rec)
	}
	store := memStore(t, "scannet_infos.json", many)

	require.NoError(t, run(Options{
		Dataset: "SCANNET",
		Input:   "scannet_infos.json",
		OutDir:  "out",
	}, store))

	out, err := store.Load("out/scannet_infos.json")
	require.NoError(t, err)
	require.Len(t, out, 6)
	for i, rec := range out {
		lidar := rec["lidar_points"].(map[string]any)
		want := "scene_" + string(rune('a'+i)) + "_vert.bin"
		require.Equal(t, want, lidar["lidar_path"], "record %d out of order", i)
	}
}

func TestRunUnsupportedDataset(t *testing.T) {
	store := &infostore.Store{FS: fsutil.NewMemoryFileSystem()}
	err := run(Options{Dataset: "waymo", Input: "x.json", OutDir: "out"}, store)
	if !errors.Is(err, datasets.ErrUnsupportedDataset) {
		t.Errorf("expected ErrUnsupportedDataset, got %v", err)
	}
}

// A malformed record aborts the whole run before any output is written.
func TestRunAllOrNothing(t *testing.T) {
	records := scannetRecords()
	delete(records[1], "pts_path")
	store := memStore(t, "scannet_infos_train.json", records)

	err := run(Options{
		Dataset: "scannet",
		Input:   "scannet_infos_train.json",
		OutDir:  "converted",
	}, store)

	var missing *datasets.MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if store.FS.Exists("converted/scannet_infos_train.json") {
		t.Error("partial output written after a fatal record error")
	}
}

func TestRunOutputOverlapsInput(t *testing.T) {
	// The overlap between input path and output directory only warns; the
	// run still completes (the pause is zeroed for tests).
	store := memStore(t, "converted/scannet_infos_train.json", scannetRecords())

	err := run(Options{
		Dataset: "scannet",
		Input:   "converted/scannet_infos_train.json",
		OutDir:  "converted",
	}, store)
	require.NoError(t, err)
	require.True(t, store.FS.Exists("converted/scannet_infos_train.json"))
}

package datasets

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/unified3d/internal/schema"
)

func sunrgbdRaw() schema.Record {
	return schema.Record{
		"point_cloud": map[string]any{"num_features": 4},
		"pts_path":    "points/000001.bin",
		"image": map[string]any{
			"image_path":  "sunrgbd_trainval/image/000001.jpg",
			"image_shape": []float64{530, 730},
		},
		"calib": map[string]any{
			"K": [][]float64{
				{529.5, 0, 365},
				{0, 529.5, 265},
				{0, 0, 1},
			},
			"Rt": [][]float64{
				{1, 0, 0},
				{0, 1, 0},
				{0, 0, 1},
			},
		},
		"annos": map[string]any{
			"name": []string{"chair", "whiteboard"},
			"gt_boxes_upright_depth": [][]float64{
				{0.5, 1.5, 0.25, 0.5, 0.5, 1, 0.125},
				{2, 3, 0.5, 1, 0.25, 1.5, -0.25},
			},
		},
	}
}

func TestSUNRGBDConvert(t *testing.T) {
	conv := NewSUNRGBD()
	rec, err := conv.Convert(sunrgbdRaw())
	require.NoError(t, err)

	lidar := rec["lidar_points"].(schema.Record)
	require.Equal(t, 4, lidar["num_pts_feats"])
	require.Equal(t, "000001.bin", lidar["lidar_path"])

	images := rec["images"].(schema.Record)
	require.Len(t, images, 1, "only CAM0 should survive pruning")
	cam0 := images["CAM0"].(schema.Record)
	require.Equal(t, "000001.jpg", cam0["img_path"])
	require.Equal(t, 530, cam0["height"])
	require.Equal(t, 730, cam0["width"])

	// With Rt = I, depth2img = K @ uprightDepthToCam, computed by hand.
	wantDepth2Img := [][]float64{
		{529.5, 365, 0},
		{0, 265, -529.5},
		{0, 1, 0},
	}
	if diff := cmp.Diff(wantDepth2Img, cam0["depth2img"]); diff != "" {
		t.Errorf("depth2img mismatch (-want +got):\n%s", diff)
	}

	instances := rec["instances"].([]schema.Record)
	require.Len(t, instances, 2)
	require.Equal(t, 3, instances[0]["bbox_label_3d"], "chair is index 3")
	require.Equal(t, []float64{0.5, 1.5, 0.25, 0.5, 0.5, 1, 0.125}, instances[0]["bbox_3d"])
	require.Equal(t, -1, instances[1]["bbox_label_3d"])

	require.Equal(t, []string{"whiteboard"}, conv.IgnoredClasses())
}

// Rt rows end up transposed before the axis swap; a non-symmetric rotation
// pins down the orientation of the chain.
func TestSUNRGBDDepth2ImgTransposesRt(t *testing.T) {
	raw := sunrgbdRaw()
	raw["calib"].(map[string]any)["K"] = identity3()
	raw["calib"].(map[string]any)["Rt"] = [][]float64{
		{0, 1, 0},
		{0, 0, 1},
		{1, 0, 0},
	}

	rec, err := NewSUNRGBD().Convert(raw)
	require.NoError(t, err)

	// Rt^T has rows (0,0,1),(1,0,0),(0,1,0); the axis swap then reorders
	// and negates: row0 stays, row1 = -(0,1,0), row2 = (1,0,0).
	want := [][]float64{
		{0, 0, 1},
		{0, -1, 0},
		{1, 0, 0},
	}
	cam0 := rec["images"].(schema.Record)["CAM0"].(schema.Record)
	if diff := cmp.Diff(want, cam0["depth2img"]); diff != "" {
		t.Errorf("depth2img mismatch (-want +got):\n%s", diff)
	}
}

func TestSUNRGBDNoInstances(t *testing.T) {
	raw := sunrgbdRaw()
	raw["annos"] = map[string]any{
		"name":                   []string{},
		"gt_boxes_upright_depth": [][]float64{},
	}

	rec, err := NewSUNRGBD().Convert(raw)
	require.NoError(t, err)
	require.Empty(t, rec["instances"].([]schema.Record))
}

func identity3() [][]float64 {
	return [][]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

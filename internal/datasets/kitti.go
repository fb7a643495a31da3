package datasets

import (
	"fmt"
	"path"
	"strconv"

	"github.com/banshee-data/unified3d/internal/schema"
)

// kittiClasses is the fixed KITTI vocabulary; position = label index.
var kittiClasses = []string{
	"Pedestrian", "Cyclist", "Car", "Van", "Truck",
	"Person_sitting", "Tram", "Misc",
}

// KITTI converts KITTI annotation records. KITTI carries four rectified
// cameras (only CAM2 has an image on disk), a velodyne point cloud, and
// full 2D+3D instance annotations with per-instance difficulty metadata.
type KITTI struct {
	classes *classSet
}

func NewKITTI() *KITTI {
	return &KITTI{classes: newClassSet(kittiClasses)}
}

func (k *KITTI) Dataset() string { return "KITTI" }
func (k *KITTI) Classes() []string { return kittiClasses }

func (k *KITTI) IgnoredClasses() []string { return k.classes.ignoredNames() }

func (k *KITTI) Convert(raw schema.Record) (schema.Record, error) {
	info := schema.EmptyDataInfo()

	// The ground plane equation ships with some splits only.
	if plane, err := rawField(raw, "plane"); err == nil {
		info["plane"] = plane
	}

	sampleID, err := rawInt(raw, "image", "image_idx")
	if err != nil {
		return nil, err
	}
	info["sample_id"] = sampleID

	images := info["images"].(schema.Record)
	projections := make([][][]float64, len(schema.CameraNames))
	for i, cam := range schema.CameraNames {
		p, err := rawMatrix(raw, "calib", "P"+strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		projections[i] = p
		images[cam].(schema.Record)["cam2img"] = p
	}

	cam2 := images["CAM2"].(schema.Record)
	imgPath, err := rawString(raw, "image", "image_path")
	if err != nil {
		return nil, err
	}
	cam2["img_path"] = path.Base(imgPath)
	shape, err := rawFloats(raw, "image", "image_shape")
	if err != nil {
		return nil, err
	}
	if len(shape) < 2 {
		return nil, fmt.Errorf("field %q: expected [height width], got %d values",
			"image.image_shape", len(shape))
	}
	cam2["height"] = int(shape[0])
	cam2["width"] = int(shape[1])

	lidar := info["lidar_points"].(schema.Record)
	numFeats, err := rawInt(raw, "point_cloud", "num_features")
	if err != nil {
		return nil, err
	}
	lidar["num_pts_feats"] = numFeats
	velodynePath, err := rawString(raw, "point_cloud", "velodyne_path")
	if err != nil {
		return nil, err
	}
	lidar["lidar_path"] = path.Base(velodynePath)

	// lidar2cam = R0_rect @ Tr_velo_to_cam, then lidar2img per camera k as
	// Pk @ lidar2cam. The rectification and velodyne extrinsics are stored
	// in single precision in the source.
	rect, err := rawMatrix(raw, "calib", "R0_rect")
	if err != nil {
		return nil, err
	}
	rect = roundTo32(rect)
	veloToCam, err := rawMatrix(raw, "calib", "Tr_velo_to_cam")
	if err != nil {
		return nil, err
	}
	veloToCam = roundTo32(veloToCam)
	lidar2cam, err := matProduct(rect, veloToCam)
	if err != nil {
		return nil, fmt.Errorf("composing lidar2cam: %w", err)
	}
	cam2["lidar2cam"] = lidar2cam
	for i, cam := range schema.CameraNames {
		lidar2img, err := matProduct(projections[i], lidar2cam)
		if err != nil {
			return nil, fmt.Errorf("composing %s lidar2img: %w", cam, err)
		}
		images[cam].(schema.Record)["lidar2img"] = lidar2img
	}

	// Raw calibration retained for potential downstream use.
	lidar["Tr_velo_to_cam"] = veloToCam
	images["R0_rect"] = rect
	imuToVelo, err := rawMatrix(raw, "calib", "Tr_imu_to_velo")
	if err != nil {
		return nil, err
	}
	lidar["Tr_imu_to_velo"] = roundTo32(imuToVelo)

	names, err := rawStrings(raw, "annos", "name")
	if err != nil {
		return nil, err
	}
	instances := make([]schema.Record, 0, len(names))
	for i, name := range names {
		inst, err := k.convertInstance(raw, i, name)
		if err != nil {
			return nil, err
		}
		instances = append(instances, inst)
	}
	info["instances"] = instances

	pruned, _ := schema.PruneRecord(info)
	return pruned, nil
}

func (k *KITTI) convertInstance(raw schema.Record, i int, name string) (schema.Record, error) {
	inst := schema.EmptyInstance()

	bbox, err := annFloatRow(raw, i, "annos", "bbox")
	if err != nil {
		return nil, err
	}
	inst["bbox"] = bbox

	label := k.classes.label(name)
	inst["bbox_label"] = label
	inst["bbox_label_3d"] = label

	loc, err := annFloatRow(raw, i, "annos", "location")
	if err != nil {
		return nil, err
	}
	dims, err := annFloatRow(raw, i, "annos", "dimensions")
	if err != nil {
		return nil, err
	}
	rot, err := annFloat(raw, i, "annos", "rotation_y")
	if err != nil {
		return nil, err
	}
	box3d := make([]float64, 0, len(loc)+len(dims)+1)
	box3d = append(box3d, loc...)
	box3d = append(box3d, dims...)
	box3d = append(box3d, rot)
	inst["bbox_3d"] = roundSliceTo32(box3d)

	truncated, err := annFloat(raw, i, "annos", "truncated")
	if err != nil {
		return nil, err
	}
	inst["truncated"] = int(truncated)

	intFields := []struct {
		key   string
		field string
	}{
		{"occluded", "occluded"},
		{"index", "index"},
		{"group_id", "group_ids"},
		{"difficulty", "difficulty"},
		{"num_lidar_pts", "num_points_in_gt"},
	}
	for _, f := range intFields {
		v, err := annInt(raw, i, "annos", f.field)
		if err != nil {
			return nil, err
		}
		inst[f.key] = v
	}

	floatFields := []struct {
		key   string
		field string
	}{
		{"alpha", "alpha"},
		{"score", "score"},
	}
	for _, f := range floatFields {
		v, err := annFloat(raw, i, "annos", f.field)
		if err != nil {
			return nil, err
		}
		inst[f.key] = v
	}

	return schema.PruneInstance(inst), nil
}

package datasets

import (
	"path"

	"github.com/banshee-data/unified3d/internal/schema"
)

// scannetClasses is the fixed ScanNet vocabulary; position = label index.
var scannetClasses = []string{
	"cabinet", "bed", "chair", "sofa", "table", "door", "window",
	"bookshelf", "picture", "counter", "desk", "curtain", "refrigerator",
	"showercurtrain", "toilet", "sink", "bathtub", "garbagebin",
}

// ScanNet converts ScanNet annotation records: axis-aligned indoor scans
// with 3D-only boxes, per-point mask paths, and no camera data yet.
type ScanNet struct {
	classes *classSet
}

func NewScanNet() *ScanNet {
	return &ScanNet{classes: newClassSet(scannetClasses)}
}

func (s *ScanNet) Dataset() string { return "SCANNET" }
func (s *ScanNet) Classes() []string { return scannetClasses }

func (s *ScanNet) IgnoredClasses() []string { return s.classes.ignoredNames() }

func (s *ScanNet) Convert(raw schema.Record) (schema.Record, error) {
	info := schema.EmptyDataInfo()

	lidar := info["lidar_points"].(schema.Record)
	numFeats, err := rawInt(raw, "point_cloud", "num_features")
	if err != nil {
		return nil, err
	}
	lidar["num_pts_feats"] = numFeats
	ptsPath, err := rawString(raw, "pts_path")
	if err != nil {
		return nil, err
	}
	lidar["lidar_path"] = path.Base(ptsPath)

	semMask, err := rawString(raw, "pts_semantic_mask_path")
	if err != nil {
		return nil, err
	}
	info["pts_semantic_mask_path"] = path.Base(semMask)
	instMask, err := rawString(raw, "pts_instance_mask_path")
	if err != nil {
		return nil, err
	}
	info["pts_instance_mask_path"] = path.Base(instMask)

	// TODO(camera support): depth2cam is inv(axis_align_matrix @ extrinsic)
	// once per-frame extrinsics land in the scannet preprocessing output.
	axisAlign, err := rawMatrix(raw, "annos", "axis_align_matrix")
	if err != nil {
		return nil, err
	}
	info["axis_align_matrix"] = axisAlign

	gtNum, err := rawInt(raw, "annos", "gt_num")
	if err != nil {
		return nil, err
	}
	instances := []schema.Record{}
	if gtNum != 0 {
		names, err := rawStrings(raw, "annos", "name")
		if err != nil {
			return nil, err
		}
		for i, name := range names {
			inst := schema.EmptyInstance()
			box3d, err := annFloatRow(raw, i, "annos", "gt_boxes_upright_depth")
			if err != nil {
				return nil, err
			}
			inst["bbox_3d"] = box3d
			inst["bbox_label_3d"] = s.classes.label(name)
			instances = append(instances, schema.PruneInstance(inst))
		}
	}
	info["instances"] = instances

	pruned, _ := schema.PruneRecord(info)
	return pruned, nil
}

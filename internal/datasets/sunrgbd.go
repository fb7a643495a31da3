package datasets

import (
	"fmt"
	"path"

	"github.com/banshee-data/unified3d/internal/schema"
)

// sunrgbdClasses is the fixed SUNRGBD vocabulary; position = label index.
var sunrgbdClasses = []string{
	"bed", "table", "sofa", "chair", "toilet", "desk",
	"dresser", "night_stand", "bookshelf", "bathtub",
}

// uprightDepthToCam swaps the Y/Z axes and negates one to convert SUNRGBD's
// upright-depth coordinate convention into the camera convention.
var uprightDepthToCam = [][]float64{
	{1, 0, 0},
	{0, 0, -1},
	{0, 1, 0},
}

// SUNRGBD converts SUNRGBD annotation records: a single RGB-D camera with a
// depth-frame projection and 3D-only instance boxes.
type SUNRGBD struct {
	classes *classSet
}

func NewSUNRGBD() *SUNRGBD {
	return &SUNRGBD{classes: newClassSet(sunrgbdClasses)}
}

func (s *SUNRGBD) Dataset() string { return "SUNRGBD" }
func (s *SUNRGBD) Classes() []string { return sunrgbdClasses }

func (s *SUNRGBD) IgnoredClasses() []string { return s.classes.ignoredNames() }

func (s *SUNRGBD) Convert(raw schema.Record) (schema.Record, error) {
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

	// depth2img = K @ (uprightDepthToCam @ Rt^T).
	rt, err := rawMatrix(raw, "calib", "Rt")
	if err != nil {
		return nil, err
	}
	intrinsic, err := rawMatrix(raw, "calib", "K")
	if err != nil {
		return nil, err
	}
	rtT, err := transposed(rt)
	if err != nil {
		return nil, fmt.Errorf("transposing Rt: %w", err)
	}
	depthToCam, err := matProduct(uprightDepthToCam, rtT)
	if err != nil {
		return nil, fmt.Errorf("composing depth-to-camera rotation: %w", err)
	}
	depth2img, err := matProduct(intrinsic, depthToCam)
	if err != nil {
		return nil, fmt.Errorf("composing depth2img: %w", err)
	}

	cam0 := info["images"].(schema.Record)["CAM0"].(schema.Record)
	cam0["depth2img"] = depth2img
	imgPath, err := rawString(raw, "image", "image_path")
	if err != nil {
		return nil, err
	}
	cam0["img_path"] = path.Base(imgPath)
	shape, err := rawFloats(raw, "image", "image_shape")
	if err != nil {
		return nil, err
	}
	if len(shape) < 2 {
		return nil, fmt.Errorf("field %q: expected [height width], got %d values",
			"image.image_shape", len(shape))
	}
	cam0["height"] = int(shape[0])
	cam0["width"] = int(shape[1])

	names, err := rawStrings(raw, "annos", "name")
	if err != nil {
		return nil, err
	}
	instances := make([]schema.Record, 0, len(names))
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
	info["instances"] = instances

	pruned, _ := schema.PruneRecord(info)
	return pruned, nil
}

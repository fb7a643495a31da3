// Package schema defines the unified annotation record shape shared by all
// supported datasets: the fully-populated templates each dataset converter
// starts from, and the pruner that strips unset fields from finished records.
package schema

// Record is one nested annotation structure: a sample, an instance, or any
// sub-block of either. Values are scalars, matrices ([][]float64), lists,
// nested Records, or the Unset marker.
type Record map[string]any

// unsetValue tags a template field no converter filled in. It is a distinct
// type so a legitimate zero, false or empty string can never be mistaken for
// "absent".
type unsetValue struct{}

// Unset marks a template field as not yet populated.
var Unset = unsetValue{}

// IsUnset reports whether v is the Unset marker.
func IsUnset(v any) bool {
	_, ok := v.(unsetValue)
	return ok
}

// CameraNames are the fixed camera slots every record carries, whether or
// not the source dataset populates them.
var CameraNames = []string{"CAM0", "CAM1", "CAM2", "CAM3"}

// EmptyInstance returns the template for a single annotated object. Every
// field starts Unset; converters fill what their dataset supplies and
// PruneInstance drops the rest.
func EmptyInstance() Record {
	return Record{
		// 2D box in (x1, y1, x2, y2) pixel order.
		"bbox": Unset,
		// Index into the dataset vocabulary, -1 for unrecognized names.
		"bbox_label": Unset,
		// 7 floats (x, y, z, w, h, l, yaw) or 9 with velocity (vx, vy).
		"bbox_3d": Unset,
		// Whether the 3D box should be used during training.
		"bbox_3d_isvalid": Unset,
		// 3D category label, typically equal to bbox_label.
		"bbox_label_3d": Unset,
		// Projected center depth of the 3D box against the image plane.
		"depth": Unset,
		// Projected 2D center of the 3D box.
		"center_2d": Unset,
		// Fine-grained attribute label (stopping, moving, ignore, crowd).
		"attr_label": Unset,
		// LiDAR / radar point counts inside the 3D box.
		"num_lidar_pts": Unset,
		"num_radar_pts": Unset,
		// Detection difficulty level.
		"difficulty":        Unset,
		"unaligned_bbox_3d": Unset,
	}
}

// EmptyLidarPoints returns the template for the LiDAR point-cloud block.
func EmptyLidarPoints() Record {
	return Record{
		// Number of features per point.
		"num_pts_feats": Unset,
		"lidar_path":    Unset,
		// 4x4 transform from lidar (or depth) frame to image.
		"lidar2img": Unset,
		// 4x4 transform from lidar to ego-vehicle.
		"lidar2ego": Unset,
	}
}

// EmptyRadarPoints returns the template for the radar point-cloud block.
func EmptyRadarPoints() Record {
	return Record{
		"num_pts_feats": Unset,
		"radar_path":    Unset,
		"radar2ego":     Unset,
	}
}

// EmptyImageInfo returns the template for one camera's image block.
func EmptyImageInfo() Record {
	return Record{
		"img_path":  Unset,
		"height":    Unset,
		"width":     Unset,
		"depth_map": Unset,
		// 3x3, 3x4 or 4x4 camera intrinsic.
		"cam2img": Unset,
		// 4x4 transform from camera to ego-vehicle.
		"cam2ego": Unset,
	}
}

// SingleImageSweep returns the template for one time-adjacent image frame:
// a timestamp, an ego pose, and the four fixed camera slots.
func SingleImageSweep() Record {
	images := Record{}
	for _, cam := range CameraNames {
		images[cam] = EmptyImageInfo()
	}
	return Record{
		"timestamp":  Unset,
		"ego2global": Unset,
		"images":     images,
	}
}

// SingleLidarSweep returns the template for one time-adjacent LiDAR frame.
func SingleLidarSweep() Record {
	return Record{
		"timestamp":    Unset,
		"ego2global":   Unset,
		"lidar_points": EmptyLidarPoints(),
	}
}

// EmptyDataInfo returns the template for one full sample: identifiers, the
// primary image-sweep block spread at top level, point-cloud blocks, sweep
// lists, instance lists, and mask paths. Each call builds an independent
// structure; converters mutate their copy freely.
func EmptyDataInfo() Record {
	info := Record{
		"sample_id":              Unset,
		"token":                  Unset,
		"lidar_points":           EmptyLidarPoints(),
		"radar_points":           EmptyRadarPoints(),
		"image_sweeps":           []Record{},
		"instances":              []Record{},
		"instances_ignore":       []Record{},
		"pts_semantic_mask_path": Unset,
		"pts_instance_mask_path": Unset,
	}
	for k, v := range SingleImageSweep() {
		info[k] = v
	}
	return info
}

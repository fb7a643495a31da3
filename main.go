// Command unified3d converts dataset-specific 3D-perception annotation
// collections (KITTI, ScanNet, SUNRGBD) into the unified v2 schema.
//
// Example:
//
//	unified3d -dataset kitti -input ./data/kitti/kitti_infos_train.json -out-dir ./kitti_v2/
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/banshee-data/unified3d/internal/convert"
	"github.com/banshee-data/unified3d/internal/version"
)

var (
	dataset     = flag.String("dataset", "kitti", "Source dataset name (kitti, scannet or sunrgbd)")
	input       = flag.String("input", "", "Path of the source annotation collection")
	outDir      = flag.String("out-dir", "converted_annotations", "Output directory for the converted collection")
	showVersion = flag.Bool("version", false, "Print version information and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if *input == "" {
		log.Fatal("input path is required")
	}

	start := time.Now()
	err := convert.Run(convert.Options{
		Dataset: *dataset,
		Input:   *input,
		OutDir:  *outDir,
	})
	if err != nil {
		log.Fatalf("conversion failed: %v", err)
	}
	log.Printf("conversion completed in %.1fs", time.Since(start).Seconds())
}

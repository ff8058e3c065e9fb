// Package tiles cuts a relief image into an XYZ tile pyramid.
package tiles

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"time"

	"github.com/gruppe-adler/relief-utils/internal/imageio"
	"github.com/gruppe-adler/relief-utils/internal/metajson"
	"github.com/gruppe-adler/relief-utils/internal/tilejson"
	"github.com/gruppe-adler/relief-utils/internal/utils"
)

// Run is the program's entrypoint
func Run(flagSet *flag.FlagSet) {

	start := time.Now()

	outputPtr := flagSet.String("out", "", "Path to output directory")
	inputPtr := flagSet.String("in", "", "Path to relief image")
	metaPtr := flagSet.String("meta", "", "Path to the meta.json written alongside the relief image")
	namePtr := flagSet.String("name", "Relief", "Layer name used in tile.json")

	flagSet.Parse(os.Args[2:])

	// make sure both flags are present
	if *outputPtr == "" || *inputPtr == "" {
		flagSet.PrintDefaults()
		os.Exit(1)
	}

	if !utils.IsDirectory(*outputPtr) {
		log.Fatal(errors.New("Output directory doesn't exists"))
	}
	if *metaPtr != "" && !utils.IsFile(*metaPtr) {
		log.Fatal(errors.New("meta.json is not a valid file"))
	}

	var meta *metajson.MetaJSON
	if *metaPtr != "" {
		m, err := metajson.Read(*metaPtr)
		if err != nil {
			log.Fatal(err)
		}
		meta = &m
		fmt.Println("✔️  Loaded meta.json")
	}

	timer := time.Now()
	fmt.Println("▶️  Loading relief image")
	img, err := imageio.Read(*inputPtr)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("✔️  Loaded relief image in", time.Since(timer).String())

	if err := Build(context.Background(), img, *outputPtr, *namePtr, meta, func(lod uint8, d time.Duration) {
		fmt.Printf("✔️  Built LOD %d in %s\n", lod, d.String())
	}); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("\n    🎉  Finished in %s\n", time.Since(start).String())
}

// Build writes every LOD of img from 0 up to the image's native resolution
// and a tile.json into outputDirectory. done, if not nil, is called after
// each finished LOD.
func Build(ctx context.Context, img image.Image, outputDirectory, layerName string, meta *metajson.MetaJSON, done func(lod uint8, d time.Duration)) error {
	maxLod := utils.CalcMaxLodFromImage(img)

	for lod := uint8(0); lod <= maxLod; lod++ {
		timer := time.Now()
		if err := utils.BuildTileSet(ctx, lod, img, outputDirectory); err != nil {
			return fmt.Errorf("lod %d: %w", lod, err)
		}
		if done != nil {
			done(lod, time.Since(timer))
		}
	}

	return tilejson.Write(outputDirectory, maxLod, layerName, meta)
}

package preview

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gruppe-adler/relief-utils/internal/imageio"
	"github.com/gruppe-adler/relief-utils/internal/utils"
	"github.com/nfnt/resize"
)

// Sizes are the heights of the scaled previews.
var Sizes = []uint{128, 256, 512, 1024}

// Run is the program's entrypoint
func Run(flagSet *flag.FlagSet) {

	var timer time.Time
	start := time.Now()

	outputPtr := flagSet.String("out", "", "Path to output directory")
	inputPtr := flagSet.String("in", "", "Path to relief image")

	flagSet.Parse(os.Args[2:])

	// make sure both flags are present
	if *outputPtr == "" || *inputPtr == "" {
		flagSet.PrintDefaults()
		os.Exit(1)
	}

	if !utils.IsDirectory(*outputPtr) {
		log.Fatal(errors.New("Output directory doesn't exists"))
	}
	if !utils.IsFile(*inputPtr) {
		log.Fatal(errors.New("Relief image doesn't exists"))
	}

	timer = time.Now()
	fmt.Println("▶️  Loading relief image")

	reliefImage, err := imageio.Read(*inputPtr)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("✔️  Loaded relief image in", time.Since(timer).String())

	for _, size := range Sizes {
		timer = time.Now()
		fmt.Printf("▶️  Building x%d image\n", size)

		outPath := path.Join(*outputPtr, Name(*inputPtr, size))
		if err := imageio.Write(outPath, Scale(reliefImage, size)); err != nil {
			log.Fatal(err)
		}

		fmt.Printf("✔️  Built x%d in %s\n", size, time.Since(timer).String())
	}

	fmt.Printf("\n    🎉  Finished in %s\n", time.Since(start).String())
}

// Scale resizes img to the given height, keeping its aspect ratio.
func Scale(img image.Image, height uint) image.Image {
	factor := float64(height) / float64(img.Bounds().Dy())
	width := uint(float64(img.Bounds().Dx()) * factor)
	if width == 0 {
		width = 1
	}

	return resize.Resize(width, height, img, resize.MitchellNetravali)
}

// Name returns the file name of the preview of size for the image at src,
// e.g. relief_256.png. The source format is kept.
func Name(src string, size uint) string {
	base := filepath.Base(src)
	ext := filepath.Ext(base)

	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(base, ext), size, ext)
}

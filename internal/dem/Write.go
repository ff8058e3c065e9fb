package dem

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/gruppe-adler/relief-utils/internal/grid"
)

// WriteEsriASCIIRaster writes g as an ESRI ASCII grid. NoData cells are
// written as noData.
func WriteEsriASCIIRaster(w io.Writer, g *grid.Grid, noData float64) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "ncols %d\n", g.Ncols)
	fmt.Fprintf(bw, "nrows %d\n", g.Nrows)
	fmt.Fprintf(bw, "xllcorner %s\n", formatFloat(g.Xmin))
	fmt.Fprintf(bw, "yllcorner %s\n", formatFloat(g.Ymin))
	fmt.Fprintf(bw, "cellsize %s\n", formatFloat(g.CellSize))
	fmt.Fprintf(bw, "NODATA_value %s\n", formatFloat(noData))

	for r := 0; r < g.Nrows; r++ {
		for c := 0; c < g.Ncols; c++ {
			if c > 0 {
				bw.WriteByte(' ')
			}
			v := g.At(c, r)
			if grid.IsNoData(v) {
				v = noData
			}
			bw.WriteString(formatFloat(v))
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Package workspace provides the scratch directory of a relief run.
//
// A workspace owns its directory exclusively: opening it wipes whatever a
// previous run left behind and closing it removes the directory again. Runs
// that execute concurrently must use distinct directories.
package workspace

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"go.uber.org/multierr"
	billy "gopkg.in/src-d/go-billy.v4"
	"gopkg.in/src-d/go-billy.v4/util"

	"github.com/gruppe-adler/relief-utils/internal/dem"
	"github.com/gruppe-adler/relief-utils/internal/grid"
)

const gridExt = ".asc"

// Workspace is a scratch directory on a billy filesystem.
type Workspace struct {
	// Filesystem holds the directory.
	Filesystem billy.Filesystem
	dir        string
	noData     float64
}

// Open clears and (re)creates dir on fs.
func Open(fs billy.Filesystem, dir string) (*Workspace, error) {
	if dir == "" || dir == "." || dir == "/" {
		return nil, fmt.Errorf("refusing to use %q as workspace", dir)
	}
	if _, err := fs.Stat(dir); err == nil {
		if err := util.RemoveAll(fs, dir); err != nil {
			return nil, fmt.Errorf("clearing workspace %s: %w", dir, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("workspace %s: %w", dir, err)
	}
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating workspace %s: %w", dir, err)
	}
	return &Workspace{Filesystem: fs, dir: dir, noData: dem.DefaultNoDataValue}, nil
}

// Dir is the workspace directory relative to the filesystem root.
func (w *Workspace) Dir() string {
	return w.dir
}

func (w *Workspace) gridPath(name string) string {
	return path.Join(w.dir, name+gridExt)
}

// SaveGrid stores g as an ESRI ASCII grid called name.
func (w *Workspace) SaveGrid(name string, g *grid.Grid) (err error) {
	f, err := w.Filesystem.Create(w.gridPath(name))
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	return dem.WriteEsriASCIIRaster(f, g, w.noData)
}

// LoadGrid reads back a grid stored with SaveGrid.
func (w *Workspace) LoadGrid(name string) (*grid.Grid, error) {
	f, err := w.Filesystem.Open(w.gridPath(name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	raster, err := dem.ParseEsriASCIIRaster(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return raster.Grid(), nil
}

// Grids lists the names of all stored grids.
func (w *Workspace) Grids() ([]string, error) {
	infos, err := w.Filesystem.ReadDir(w.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, info := range infos {
		if !info.IsDir() && strings.HasSuffix(info.Name(), gridExt) {
			names = append(names, strings.TrimSuffix(info.Name(), gridExt))
		}
	}
	sort.Strings(names)
	return names, nil
}

// Close removes the workspace directory and everything in it.
func (w *Workspace) Close() error {
	return util.RemoveAll(w.Filesystem, w.dir)
}

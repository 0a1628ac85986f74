package anvil

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"sync"

	"github.com/astei/mcanvil/nbt"
)

var regionFileName = regexp.MustCompile(`^r\.(-?\d+)\.(-?\d+)\.mca$`)

// World holds every chunk decoded from a directory of region files, keyed by
// global chunk coordinates. Errs records the regions and chunks that could
// not be read; a bad chunk never prevents the rest of the world from loading.
type World struct {
	Chunks map[ChunkCoord]*nbt.Document
	Errs   []error
}

type regionResult struct {
	chunks map[ChunkCoord]*nbt.Document
	errs   []error
}

// OpenWorld reads every r.<x>.<z>.mca file in root, one goroutine per region.
// Only failure to list the directory is fatal; everything else is collected
// in the returned World's Errs.
func OpenWorld(root string) (*World, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	results := make(chan regionResult, len(entries))
	for _, entry := range entries {
		match := regionFileName.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		regionX, _ := strconv.Atoi(match[1])
		regionZ, _ := strconv.Atoi(match[2])

		wg.Add(1)
		go func(path string, regionX, regionZ int) {
			defer wg.Done()
			results <- readRegionFile(path, regionX, regionZ)
		}(filepath.Join(root, entry.Name()), regionX, regionZ)
	}

	wg.Wait()
	close(results)

	world := &World{Chunks: make(map[ChunkCoord]*nbt.Document)}
	for result := range results {
		for coord, document := range result.chunks {
			world.Chunks[coord] = document
		}
		world.Errs = append(world.Errs, result.errs...)
	}
	return world, nil
}

func readRegionFile(path string, regionX, regionZ int) (result regionResult) {
	result.chunks = make(map[ChunkCoord]*nbt.Document)

	file, err := os.Open(path)
	if err != nil {
		result.errs = append(result.errs, err)
		return
	}
	defer file.Close()

	region, err := Open(bufio.NewReader(file))
	if err != nil {
		result.errs = append(result.errs, fmt.Errorf("%s: %w", filepath.Base(path), err))
		return
	}

	for _, coord := range region.Chunks() {
		document, err := region.LoadChunk(coord.X, coord.Z)
		if err != nil {
			result.errs = append(result.errs, fmt.Errorf("%s: %w", filepath.Base(path), err))
			continue
		}
		global := ChunkCoord{X: regionX*32 + coord.X, Z: regionZ*32 + coord.Z}
		result.chunks[global] = document
	}
	return
}

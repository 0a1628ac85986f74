package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/astei/mcanvil/anvil"
	"github.com/astei/mcanvil/nbt"
)

func main() {
	app := &cli.App{
		Name:  "mcanvil",
		Usage: "inspect Minecraft Anvil region files and NBT documents",
		Commands: []*cli.Command{
			{
				Name:      "chunks",
				Usage:     "list the chunks stored in a region file",
				ArgsUsage: "<region.mca>",
				Action:    listChunks,
			},
			{
				Name:      "dump",
				Usage:     "decode one chunk and print it as JSON",
				ArgsUsage: "<region.mca> <x> <z>",
				Action:    dumpChunk,
			},
			{
				Name:      "nbt",
				Usage:     "decode a gzip-framed NBT file and print it as JSON",
				ArgsUsage: "<file>",
				Action:    dumpNbtFile,
			},
			{
				Name:      "world",
				Usage:     "load every region in a world directory",
				ArgsUsage: "<region-dir>",
				Action:    loadWorld,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openRegion(path string) (*anvil.Region, func() error, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	region, err := anvil.Open(file)
	if err != nil {
		file.Close()
		return nil, nil, err
	}
	return region, file.Close, nil
}

func listChunks(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: mcanvil chunks <region.mca>", 2)
	}

	region, done, err := openRegion(c.Args().Get(0))
	if err != nil {
		return err
	}
	defer done()

	chunks := region.Chunks()
	for _, coord := range chunks {
		modified := time.Unix(int64(region.ChunkTimestamp(coord.X, coord.Z)), 0).UTC()
		fmt.Printf("%2d,%2d  %s\n", coord.X, coord.Z, modified.Format(time.RFC3339))
	}
	fmt.Printf("%d chunks\n", len(chunks))
	return nil
}

func dumpChunk(c *cli.Context) error {
	if c.NArg() != 3 {
		return cli.Exit("usage: mcanvil dump <region.mca> <x> <z>", 2)
	}
	x, err := strconv.Atoi(c.Args().Get(1))
	if err != nil {
		return fmt.Errorf("invalid x coordinate: %s", c.Args().Get(1))
	}
	z, err := strconv.Atoi(c.Args().Get(2))
	if err != nil {
		return fmt.Errorf("invalid z coordinate: %s", c.Args().Get(2))
	}

	region, done, err := openRegion(c.Args().Get(0))
	if err != nil {
		return err
	}
	defer done()

	document, err := region.LoadChunk(x, z)
	if err != nil {
		return err
	}
	if document == nil {
		return fmt.Errorf("no chunk at %d,%d", x, z)
	}
	return printDocument(document)
}

func dumpNbtFile(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: mcanvil nbt <file>", 2)
	}

	file, err := os.Open(c.Args().Get(0))
	if err != nil {
		return err
	}
	defer file.Close()

	document, err := nbt.DecodeGzip(file)
	if err != nil {
		return err
	}
	return printDocument(document)
}

func loadWorld(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: mcanvil world <region-dir>", 2)
	}

	world, err := anvil.OpenWorld(c.Args().Get(0))
	if err != nil {
		return err
	}

	for _, loadErr := range world.Errs {
		fmt.Fprintln(os.Stderr, "unable to read chunk:", loadErr)
	}
	fmt.Printf("Discovered %d chunks in the world\n", len(world.Chunks))
	return nil
}

func printDocument(document *nbt.Document) error {
	name, value := document.Native()
	if name != "" {
		fmt.Printf("root tag %q\n", name)
	}
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

// Package inspect implements ignisctl's `inspect` subcommand: rendering
// an assembled disk image's MBR partition table and FAT root directory
// as tables, grounded on the teacher's psb dump commands
// (pkg/amd/psb/pspentries.go's table.NewWriter/AppendHeader/AppendRow/Render
// sequence).
package inspect

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ignisboot/ignis/cmd/ignisctl/commands"
	"github.com/ignisboot/ignis/pkg/fat"
	"github.com/ignisboot/ignis/pkg/mbr"
)

var _ commands.Command = (*Command)(nil)

// Command implements `ignisctl inspect`.
type Command struct {
	Positional struct {
		ImagePath string `positional-arg-name:"image" description:"disk image to inspect"`
	} `positional-args:"yes" required:"yes"`
}

// ShortDescription implements commands.Command.
func (cmd *Command) ShortDescription() string {
	return "prints the partition table and FAT root directory of a disk image"
}

// LongDescription implements commands.Command.
func (cmd *Command) LongDescription() string {
	return "Parses the MBR and the FAT partition it points at, and renders both as tables for quick inspection."
}

// sliceSectorReader adapts a fully-loaded disk image to fat.SectorReader.
type sliceSectorReader struct{ data []byte }

func (s sliceSectorReader) ReadSectors(lba uint32, count int) ([]byte, error) {
	start := uint64(lba) * mbr.SectorSize
	length := uint64(count) * mbr.SectorSize
	if start+length > uint64(len(s.data)) {
		return nil, fmt.Errorf("inspect: read past end of image at lba %d", lba)
	}
	return s.data[start : start+length], nil
}

// Execute implements flags.Commander.
func (cmd *Command) Execute(args []string) error {
	if len(args) != 0 {
		return commands.ErrArgs{Err: fmt.Errorf("inspect takes exactly one positional argument")}
	}

	data, err := os.ReadFile(cmd.Positional.ImagePath)
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}
	if len(data) < mbr.SectorSize {
		return fmt.Errorf("inspect: image is smaller than one sector")
	}

	m, err := mbr.Parse(data[:mbr.SectorSize])
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Index", "Bootable", "Type", "LBA Start", "Sectors"})
	var bootLBA uint32
	m.Iter(func(i int, entry mbr.PartitionEntry) bool {
		if entry.Empty() {
			return true
		}
		t.AppendRow(table.Row{i, entry.Bootable(), fmt.Sprintf("0x%02X", entry.Type), entry.LBAStart, entry.TotalSectors})
		if entry.Bootable() {
			bootLBA = entry.LBAStart
		}
		return true
	})
	t.Render()

	if bootLBA == 0 {
		fmt.Println("inspect: no bootable partition, skipping FAT directory listing")
		return nil
	}

	reader := sliceSectorReader{data: data[uint64(bootLBA)*mbr.SectorSize:]}
	vol, err := fat.OpenVolume(reader)
	if err != nil {
		return fmt.Errorf("inspect: opening FAT volume: %w", err)
	}
	root, err := vol.RootDirectoryBytes()
	if err != nil {
		return fmt.Errorf("inspect: reading root directory: %w", err)
	}
	entries, err := fat.ReadDirEntries(root)
	if err != nil {
		return fmt.Errorf("inspect: decoding root directory: %w", err)
	}

	dt := table.NewWriter()
	dt.SetOutputMirror(os.Stdout)
	dt.AppendHeader(table.Row{"Name", "Directory", "First Cluster", "Size"})
	for _, e := range entries {
		dt.AppendRow(table.Row{e.Name, e.IsDirectory(), e.FirstCluster, e.Size})
	}
	dt.Render()
	return nil
}

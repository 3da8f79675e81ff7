package cmd

import (
	"fmt"
	"os"
)

// Compact compacts the journal database to reclaim unused space
func Compact() {
	j := openJournal()
	defer j.Close()

	// Get file size before
	info, err := os.Stat(j.Path())
	if err != nil {
		HandleError(err)
	}
	sizeBefore := info.Size()

	if err := j.Compact(); err != nil {
		HandleError(err)
	}

	// Get file size after
	info, err = os.Stat(j.Path())
	if err != nil {
		HandleError(err)
	}
	sizeAfter := info.Size()

	fmt.Printf("Compacted: %s -> %s\n", formatSize(sizeBefore), formatSize(sizeAfter))
}

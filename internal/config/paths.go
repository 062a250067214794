package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	dataDirName   = "data"
	bulkFileName  = "bulk-data.json"
	processedName = "cards.json"
	assetDirName  = "magic-the-gathering-cards"
	directoryPerm = 0755
)

// Paths is the on-disk layout of one mirror.
type Paths struct {
	WorkDir       string
	DataDir       string // bulk-data directory
	BulkFile      string // raw bulk JSON cache
	ProcessedFile string // processed catalog cache
	AssetDir      string // one image per card
}

// NewPaths lays the mirror out under workDir.
func NewPaths(workDir string) Paths {
	dataDir := filepath.Join(workDir, dataDirName)
	return Paths{
		WorkDir:       workDir,
		DataDir:       dataDir,
		BulkFile:      filepath.Join(dataDir, bulkFileName),
		ProcessedFile: filepath.Join(dataDir, processedName),
		AssetDir:      filepath.Join(dataDir, assetDirName),
	}
}

// EnsureDirs creates the data and asset directories.
func (p Paths) EnsureDirs() error {
	if p.WorkDir == "" {
		return fmt.Errorf("work dir is not set")
	}
	for _, dir := range []string{p.DataDir, p.AssetDir} {
		if err := os.MkdirAll(dir, directoryPerm); err != nil {
			return fmt.Errorf("error creating %s: %v", dir, err)
		}
	}
	return nil
}

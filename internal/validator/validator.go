package validator

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arcanaland/gatherer/internal/assets"
	"github.com/arcanaland/gatherer/internal/catalog"
	"github.com/arcanaland/gatherer/internal/config"
	"github.com/arcanaland/gatherer/internal/errors"
	"github.com/arcanaland/gatherer/internal/fsx"
)

type ValidationResults struct {
	Errors   []string
	Warnings []string

	// Repaired lists the asset files removed so the next sync fetches them again.
	Repaired []string
	// Unresolved counts the errors that were not repaired.
	Unresolved int

	Checked int
}

// Passed reports whether no error is left standing.
func (r ValidationResults) Passed() bool {
	return r.Unresolved == 0
}

// Options selects the optional checks.
type Options struct {
	// Deep decodes every asset as an image, which catches truncated downloads.
	Deep bool
	// Repair removes empty or undecodable assets.
	Repair bool
}

type Validator struct {
	Paths   config.Paths
	Options Options
	Results ValidationResults
}

func NewValidator(p config.Paths, opts Options) *Validator {
	return &Validator{
		Paths:   p,
		Options: opts,
		Results: ValidationResults{},
	}
}

// Validate checks the mirror against its processed catalog. Problems with single
// files land in Results; the returned error means the mirror could not be read at all.
func (v *Validator) Validate() (ValidationResults, error) {
	if err := v.validateStageFiles(); err != nil {
		return v.Results, err
	}

	cards, err := catalog.Load(v.Paths.ProcessedFile)
	if err != nil {
		return v.Results, err
	}

	known := make(map[string]bool, len(cards))
	for _, c := range cards {
		known[c.ID+assets.Extension] = true
		v.validateAsset(c.ID)
	}

	v.validateStrayFiles(known)

	return v.Results, nil
}

func (v *Validator) validateStageFiles() error {
	ok, err := fsx.Exists(v.Paths.ProcessedFile)
	if err != nil {
		return errors.IO("stat "+v.Paths.ProcessedFile, err)
	}
	if !ok {
		return errors.NotFound(fmt.Sprintf("processed catalog not found at %s, run sync first", v.Paths.ProcessedFile), nil)
	}

	ok, err = fsx.Exists(v.Paths.BulkFile)
	if err != nil {
		v.fail(fmt.Sprintf("bulk data: %v", err), "")
	} else if !ok {
		v.Results.Warnings = append(v.Results.Warnings, "raw bulk data not found, the next sync will download it again")
	}
	return nil
}

// validateAsset checks the image of one card
func (v *Validator) validateAsset(id string) {
	v.Results.Checked++
	path := assets.Path(v.Paths.AssetDir, id)

	info, exists, err := fsx.Stat(path)
	if err != nil {
		v.fail(fmt.Sprintf("%s: %v", id, err), "")
		return
	}
	if !exists {
		v.Results.Warnings = append(v.Results.Warnings, fmt.Sprintf("%s: image not downloaded", id))
		return
	}

	if info.Size() == 0 {
		v.fail(fmt.Sprintf("%s: image file is empty", id), path)
		return
	}

	if v.Options.Deep {
		if err := decodeImage(path); err != nil {
			v.fail(fmt.Sprintf("%s: %v", id, err), path)
		}
	}
}

// validateStrayFiles warns about files in the asset dir that no card owns
func (v *Validator) validateStrayFiles(known map[string]bool) {
	entries, err := os.ReadDir(v.Paths.AssetDir)
	if err != nil {
		if !os.IsNotExist(err) {
			v.fail(fmt.Sprintf("error reading asset directory: %v", err), "")
		}
		return
	}

	var stray []string
	for _, entry := range entries {
		if entry.IsDir() || known[entry.Name()] {
			continue
		}
		stray = append(stray, entry.Name())
	}
	sort.Strings(stray)

	if len(stray) > 0 {
		v.Results.Warnings = append(v.Results.Warnings,
			fmt.Sprintf("files not in the catalog: %s", strings.Join(stray, ", ")))
	}
}

// fail records an error. A non-empty path names a file whose removal fixes it,
// which happens when repairing.
func (v *Validator) fail(msg, path string) {
	v.Results.Errors = append(v.Results.Errors, msg)
	if path != "" && v.repair(path) {
		return
	}
	v.Results.Unresolved++
}

func (v *Validator) repair(path string) bool {
	if !v.Options.Repair {
		return false
	}
	if err := os.Remove(path); err != nil {
		v.Results.Errors = append(v.Results.Errors, fmt.Sprintf("repair %s: %v", filepath.Base(path), err))
		return false
	}
	v.Results.Repaired = append(v.Results.Repaired, path)
	return true
}

func decodeImage(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, _, err := image.Decode(f); err != nil {
		return fmt.Errorf("image does not decode: %v", err)
	}
	return nil
}

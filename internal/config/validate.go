package config

import (
	"errors"
	"fmt"
	"path/filepath"
)

const maxWorkers = 64

// ValidationError describes one unusable setting.
type ValidationError struct {
	Key         string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Key, e.Description)
}

// Validate checks settings that defaults cannot repair. logo_path is not
// checked: an unusable logo is skipped per document.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if c.Workers < 1 || c.Workers > maxWorkers {
		errs = append(errs, ValidationError{
			Key:         "workers",
			Description: fmt.Sprintf("must be between 1 and %d, got %d", maxWorkers, c.Workers),
		})
	}
	if c.Server.MaxUploadMB < 1 || c.Server.MaxUploadMB > 1024 {
		errs = append(errs, ValidationError{
			Key:         "server.max_upload_mb",
			Description: fmt.Sprintf("must be between 1 and 1024, got %d", c.Server.MaxUploadMB),
		})
	}
	if filepath.Clean(c.OutputFolder) == filepath.Clean(c.Server.UploadFolder) {
		errs = append(errs, ValidationError{
			Key:         "server.upload_folder",
			Description: "must differ from output_folder",
		})
	}

	return errs
}

// Check returns the validation problems joined into one error, or nil.
func (c *Config) Check() error {
	var errs []error
	for _, e := range c.Validate() {
		errs = append(errs, e)
	}
	return errors.Join(errs...)
}

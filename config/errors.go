package config

import "github.com/sevphysionet/sectioner/pkg/models"

// NewConfigError wraps a validation failure as a fatal configuration error.
func NewConfigError(err error) error {
	return models.NewConfigurationError("invalid configuration", err)
}

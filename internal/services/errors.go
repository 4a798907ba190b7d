package services

import (
	"errors"

	"bikeshare/internal/dataset"
	"bikeshare/internal/views"
)

// Dashboard service errors
var (
	// ErrDatasetNotLoaded is returned before the first successful load
	ErrDatasetNotLoaded = errors.New("dataset not loaded")

	// ErrInvalidRange is returned for malformed or out-of-bounds date ranges
	ErrInvalidRange = dataset.ErrInvalidRange

	// ErrUnknownView is returned for view names outside domain.ViewNames
	ErrUnknownView = views.ErrUnknownView
)

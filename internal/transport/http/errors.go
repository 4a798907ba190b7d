package http

import (
	"errors"

	"bikeshare/internal/charts"
	apierrors "bikeshare/internal/errors"
	"bikeshare/internal/services"
)

// toAPIError maps service sentinels onto API errors. Unknown errors pass through
// and end up as 500s.
func toAPIError(err error) error {
	switch {
	case errors.Is(err, services.ErrDatasetNotLoaded):
		return apierrors.ErrDatasetUnavailable
	case errors.Is(err, services.ErrInvalidRange):
		return apierrors.InvalidDateRangeError(err)
	case errors.Is(err, services.ErrUnknownView):
		return apierrors.NotFoundError("VIEW_NOT_FOUND", "View", err.Error())
	case errors.Is(err, charts.ErrUnknownFigure):
		return apierrors.NotFoundError("FIGURE_NOT_FOUND", "Figure", err.Error())
	}
	return err
}

// renderError keeps typed render failures for the error handler and hides
// anything else behind ErrRenderFailed
func renderError(err error) error {
	if apiErr := toAPIError(err); apiErr != err {
		return apiErr
	}
	var appErr *apierrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apierrors.ErrRenderFailed
}

// pathNotFound turns a failed path-parameter validation into a 404. Other
// validation failures (bad dates) keep their 400.
func pathNotFound(err error, field, code, resource string) error {
	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	ve, ok := apiErr.Details.(apierrors.ValidationErrors)
	if !ok {
		return err
	}
	for _, fe := range ve.Errors {
		if fe.Field == field {
			return apierrors.NotFoundError(code, resource, fe)
		}
	}
	return err
}

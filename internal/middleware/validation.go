package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apierrors "bikeshare/internal/errors"
	api "bikeshare/pkg/contracts/api/v1"
	"bikeshare/pkg/contracts/domain"
)

type dateRangeKey struct{}

// Validator checks request contracts against their struct tags
type Validator struct {
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewValidator creates a validator that reports fields by their JSON names
func NewValidator(logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(validateDateOrder, api.DateRangeRequest{})

	return &Validator{
		validate:     v,
		logger:       logger.With(slog.String("component", "validation")),
		errorHandler: errorHandler,
	}
}

// validateDateOrder rejects an end date before the start date
func validateDateOrder(sl validator.StructLevel) {
	req := sl.Current().Interface().(api.DateRangeRequest)
	if req.Start == "" || req.End == "" {
		return
	}
	start, err1 := time.Parse(domain.DateLayout, req.Start)
	end, err2 := time.Parse(domain.DateLayout, req.End)
	if err1 != nil || err2 != nil {
		return
	}
	if end.Before(start) {
		sl.ReportError(req.End, "end", "End", "gtefield", "start")
	}
}

// ValidateStruct returns a VALIDATION_FAILED APIError listing every bad field
func (v *Validator) ValidateStruct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierrors.InvalidRequestWithError(err)
	}

	out := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return apierrors.NewValidationErrors(out)
}

// DateRangeFromQuery reads and validates ?start=&end=
func (v *Validator) DateRangeFromQuery(r *http.Request) (api.DateRangeRequest, error) {
	q := r.URL.Query()
	req := api.DateRangeRequest{
		Start: strings.TrimSpace(q.Get("start")),
		End:   strings.TrimSpace(q.Get("end")),
	}
	if err := v.ValidateStruct(req); err != nil {
		return api.DateRangeRequest{}, err
	}
	return req, nil
}

// ValidateDateRange rejects malformed start/end query parameters before the handler
// runs and stores the parsed request for DateRangeFromContext.
func (v *Validator) ValidateDateRange(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := v.DateRangeFromQuery(r)
		if err != nil {
			v.logger.DebugContext(r.Context(), "rejected date range",
				slog.String("query", r.URL.RawQuery),
				slog.String("error", err.Error()),
			)
			v.errorHandler.HandleError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), dateRangeKey{}, req)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// DateRangeFromContext returns the range stored by ValidateDateRange
func DateRangeFromContext(ctx context.Context) (api.DateRangeRequest, bool) {
	req, ok := ctx.Value(dateRangeKey{}).(api.DateRangeRequest)
	return req, ok
}

func formatValidationError(fe validator.FieldError) string {
	field := fe.Field()
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "gtefield":
		return fmt.Sprintf("%s must not be before %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

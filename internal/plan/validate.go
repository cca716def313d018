package plan

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/aryankumar/sweep/internal/util"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator returns the shared validator. A registration failure is a
// programming error and panics.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v, err := newValidator()
		if err != nil {
			panic(fmt.Sprintf("plan: building validator: %v", err))
		}
		validate = v
	})
	return validate
}

// newValidator builds a validator that reports yaml field names and
// understands the "duration" tag
func newValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	err := v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		d, err := time.ParseDuration(fl.Field().String())
		return err == nil && d >= 0
	})
	if err != nil {
		return nil, fmt.Errorf("registering duration tag: %w", err)
	}
	return v, nil
}

// Validate checks the plan's fields and reports every problem at once
func (p *Plan) Validate() error {
	errs := &util.MultiError{}

	if err := getValidator().Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", util.ErrInvalidConfig, err)
		}
		for _, fe := range verrs {
			errs.Add(util.NewValidationError(fieldPath(fe), fe.Value(), message(fe)))
		}
	}

	if len(p.Tasks) == 0 && p.Matrix == nil {
		errs.Add(util.NewValidationError("tasks", nil, "plan must define tasks or a matrix"))
	}

	if p.Matrix != nil {
		seen := make(map[string]bool, len(p.Matrix.Params))
		for _, param := range p.Matrix.Params {
			if param.Name != "" && seen[param.Name] {
				errs.Add(util.NewValidationError("matrix.params.name", param.Name, "parameter names must be unique"))
			}
			seen[param.Name] = true
		}
	}

	if len(errs.Errors) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", util.ErrInvalidConfig, errs)
}

// fieldPath strips the root struct name from the validator namespace
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s item(s)", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "duration":
		return "must be a non-negative duration such as 30s or 5m"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

// TimeoutDuration parses the plan timeout (zero when unset)
func (p *Plan) TimeoutDuration() (time.Duration, error) {
	if p.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid timeout %q: %v", util.ErrInvalidConfig, p.Timeout, err)
	}
	return d, nil
}

package httpserver

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

// getValidator returns the process-wide validator instance, registering
// request-specific struct validators on first use.
func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New()
		validatorInst.RegisterStructValidation(expectationsRangeValidation, expectationsDTO{})
		validatorInst.RegisterStructValidation(jobRangeValidation, jobDTO{})
	})
	return validatorInst
}

func expectationsRangeValidation(sl validator.StructLevel) {
	e := sl.Current().Interface().(expectationsDTO)
	if e.SalaryMax != 0 && e.SalaryMin >= e.SalaryMax {
		sl.ReportError(e.SalaryMax, "SalaryMax", "SalaryMax", "gtfield", "SalaryMin")
	}
}

func jobRangeValidation(sl validator.StructLevel) {
	j := sl.Current().Interface().(jobDTO)
	if j.SalaryMin != nil && j.SalaryMax != nil && *j.SalaryMin >= *j.SalaryMax {
		sl.ReportError(j.SalaryMax, "SalaryMax", "SalaryMax", "gtfield", "SalaryMin")
	}
}

package employee

import "errors"

var ErrEmployeeHasNoSalary = errors.New("employee has no positive basic salary")

package projectstart

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	runValidationCode = "RUN_VALIDATION_FAILED"
	runFailedCode     = "RUN_FAILED"
)

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "run validation failed").
		WithTextCode(runValidationCode)
}

func wrapRunError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "project creation run failed").
		WithTextCode(runFailedCode)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package trip

import (
	"fmt"
	"strings"
)

// ValidationError describes one invalid field in a payload.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in a payload.
type ValidationErrors []*ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return fmt.Sprintf("%d validation errors: %s", len(errs), strings.Join(parts, "; "))
}

// validator accumulates errors with a field prefix.
type validator struct {
	errs ValidationErrors
}

func (v *validator) add(field, format string, args ...any) {
	v.errs = append(v.errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) merge(prefix string, err error) {
	if err == nil {
		return
	}
	if nested, ok := err.(ValidationErrors); ok {
		for _, e := range nested {
			v.errs = append(v.errs, &ValidationError{Field: prefix + "." + e.Field, Message: e.Message})
		}
		return
	}
	v.add(prefix, "%v", err)
}

func (v *validator) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return v.errs
}

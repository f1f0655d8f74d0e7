// Package validator provides a small rule-based validation toolkit for
// user-facing forms. Rules are plain values combining a check function with
// a field-level error, executed together through Apply so that all failures
// for a form are collected in one pass.
//
// Usage:
//
//	err := validator.Apply(
//	    validator.RequiredString("email", email),
//	    validator.ValidEmail("email", email),
//	    validator.MinLenString("password", password, 8),
//	    validator.EqualStrings("password_confirm", confirm, password),
//	)
//	if err != nil {
//	    // err is validator.ValidationErrors
//	}
package validator

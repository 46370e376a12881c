// Package errors provides coded, categorized errors for the console
// service and CLI.
//
// Each code (e.g. "E101") maps to a registered template holding a short
// message and the HTTP status used when the error reaches an API client.
//
// # Usage
//
//	err := errors.New("E101").
//	    WithDetail("unexpected end of JSON input").
//	    WithSuggestion("Check that hkt.json is valid JSON")
//
//	fmt.Print(err.Format())
//	// ERROR E101: Failed to parse configuration
//	//
//	//   unexpected end of JSON input
//	//
//	//   Hint: Check that hkt.json is valid JSON
package errors

// Package testutil holds small helpers shared by this module's tests,
// adapted from the teacher's util/testutil package.
package testutil

import (
	"encoding/json"
	"fmt"
	"log"
)

// JS renders its argument as JSON, or as a Go-syntax string if it
// can't be marshaled — handy in test failure messages where you'd
// rather see something than nothing.
func JS(x interface{}) string {
	bs, err := json.Marshal(&x)
	if err != nil {
		log.Printf("warning: testutil.JS error %s for %#v", err, x)
		return fmt.Sprintf("%#v", x)
	}
	return string(bs)
}

// Bool returns a *bool, for building VoteStats/Assess test fixtures
// without a local helper in every test file.
func Bool(b bool) *bool {
	return &b
}

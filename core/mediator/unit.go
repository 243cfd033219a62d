package mediator

import "reflect"

// Unit is the response type of void requests when they travel through the
// value-returning pipeline. It carries no information.
type Unit struct{}

var unitType = reflect.TypeFor[Unit]()

// Package model provides the data structures of a CAMP pipeline orchestration.
// It defines the orchestration document itself, the step nodes it links together and the
// rule describing which step runs next. The JSON shape of these types is consumed by
// external tooling and must stay stable.
package model

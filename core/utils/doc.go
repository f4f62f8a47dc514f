// Package utils provides small helpers shared across packages, such as
// converting loosely typed JSON values into column-friendly strings.
package utils

/*
Package otquery answers questions about a decoded OpenType font: its type,
names, metrics and character coverage.

The functions in this package work on an *ot.Font and never fail; missing
or broken tables result in zero values, as reported by ot.Font.Errors.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otquery

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'font.opentype'
func tracer() tracing.Trace {
	return tracing.Select("font.opentype")
}

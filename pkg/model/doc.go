// Package model defines the declarative form schema consumed by the form
// interpreter and validator. A FormSchema is an ordered list of FieldSpec
// values; insertion order is display order and row order. Field kinds are a
// closed set (text, select, date, textarea, number) and schemas are checked
// when constructed, so a FormSchema obtained from NewSchema is always safe to
// render. Records carry typed values keyed by field key: strings for
// text/select/textarea, Date for date fields and *int for numbers.
package model

// Package sheets provides the row-oriented spreadsheet store behind form
// submissions. A Workbook hands out Store values for named worksheets; each
// worksheet keeps a header row followed by data rows. Cells are kept as text
// and numericised on read, so every backend returns the same records for the
// same writes.
//
// Backends:
//
//	memory   in-process, for tests and demos
//	sqlite   modernc.org/sqlite file
//	s3       one CSV object per worksheet
//	gsheets  Google Sheets spreadsheet, one tab per worksheet
package sheets

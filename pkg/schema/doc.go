// Package schema loads form definitions from YAML or JSON documents. Field
// order inside each form is taken from the document, so the mapping order in
// the file is the display order of the form and the column order of its
// worksheet.
package schema

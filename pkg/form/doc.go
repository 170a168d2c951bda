// Package form turns a model.FormSchema into collected records and validates
// them. Each field kind maps to a Widget that knows its initial value, how to
// ask a Surface for input, how to check its constraints and how to serialise
// itself into a worksheet cell. A Session drives one submission cycle:
//
//	Idle → Collecting → Submitted → Valid → Persisted
//	                             ↘ Invalid → Idle
//
// Values are only observable by the validator once the surface reports an
// explicit submit action.
package form

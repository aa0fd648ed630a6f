package pdfrun

// Recorder port (interface for activity log persistence)
//
// Append must persist the entry durably before returning so an interrupt
// between files never loses a completed record.
type Recorder interface {
	Append(e Entry) error
	Path() string
}
